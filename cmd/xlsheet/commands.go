package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ukaji3/xlsheet-go/pkg/xlsheet"
	"github.com/ukaji3/xlsheet-go/pkg/xlsheet/models"
	"github.com/ukaji3/xlsheet-go/pkg/xlsheet/output"
	"github.com/ukaji3/xlsheet-go/pkg/xlsheet/parser"
)

func loadOptions() (xlsheet.Options, error) {
	opts := xlsheet.Options{
		SheetFilter: sheetName,
		TmpDir:      tmpDir,
	}
	if maxMemory != "" {
		n, err := humanize.ParseBytes(maxMemory)
		if err != nil {
			return opts, fmt.Errorf("invalid --max-memory %q: %w", maxMemory, err)
		}
		opts.MaxMemoryHint = int64(n)
	}
	return opts, nil
}

func openWorkbook(path string) (*xlsheet.Workbook, error) {
	// Validate input file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	opts, err := loadOptions()
	if err != nil {
		return nil, err
	}
	return xlsheet.Load(path, opts)
}

func lookupSheet(wb *xlsheet.Workbook, name string) (*xlsheet.Sheet, error) {
	s, ok, err := wb.Sheet(name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("sheet not found: %s", name)
	}
	return s, nil
}

// edit opens the workbook at path, applies fn and saves the result to
// outputPath, or back to path when outputPath is empty.
func edit(path, outputPath string, fn func(wb *xlsheet.Workbook) error) error {
	wb, err := openWorkbook(path)
	if err != nil {
		return err
	}
	if err := fn(wb); err != nil {
		if cerr := wb.Close(); cerr != nil {
			return fmt.Errorf("%w (close: %v)", err, cerr)
		}
		return err
	}
	return wb.SaveAs(outputPath)
}

func newSheetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sheets [input.xlsx]",
		Short: "List sheet names in container order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := openWorkbook(args[0])
			if err != nil {
				return err
			}
			defer wb.Close()

			names, err := wb.SheetNames()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newDumpCmd() *cobra.Command {
	var (
		outputPath string
		pretty     bool
		types      bool
		sheetsDir  string
	)
	cmd := &cobra.Command{
		Use:   "dump [input.xlsx]",
		Short: "Dump typed cell values as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := openWorkbook(args[0])
			if err != nil {
				return err
			}
			defer wb.Close()

			data, err := wb.Extract(types)
			if err != nil {
				return fmt.Errorf("extraction failed: %w", err)
			}

			// Serialize to JSON
			jsonData, err := output.ToJSON(data, pretty)
			if err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}

			// Write output
			if outputPath != "" {
				if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
			} else if sheetsDir == "" {
				fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
			}

			// Write per-sheet files
			if sheetsDir != "" {
				if err := writeSheetFiles(data, sheetsDir, pretty); err != nil {
					return fmt.Errorf("failed to write sheet files: %w", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().BoolVar(&types, "types", false, "Include cell type names")
	cmd.Flags().StringVar(&sheetsDir, "sheets-dir", "", "Directory for per-sheet output files")
	return cmd
}

func writeSheetFiles(wb *models.WorkbookData, dir string, pretty bool) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for name, sheet := range wb.Sheets {
		jsonData, err := output.SheetToJSON(&sheet, pretty)
		if err != nil {
			return err
		}

		filename := filepath.Join(dir, name+".json")
		if err := os.WriteFile(filename, jsonData, 0644); err != nil {
			return err
		}
	}

	return nil
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [input.xlsx] [sheet] [cell]",
		Short: "Print the type and value of one cell",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := openWorkbook(args[0])
			if err != nil {
				return err
			}
			defer wb.Close()

			s, err := lookupSheet(wb, args[1])
			if err != nil {
				return err
			}
			row, col, err := xlsheet.ParseCellRef(args[2])
			if err != nil {
				return err
			}
			r, found, err := s.Find(row)
			if err != nil || !found {
				return err
			}
			return printCell(cmd.OutOrStdout(), r, col)
		},
	}
}

func printCell(w io.Writer, r *xlsheet.Row, col int) error {
	cv, exists, err := r.Cell(col)
	if err != nil || !exists {
		return err
	}
	v, ok, err := r.Get(col)
	if err != nil || !ok {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\t%v\n", cv.Type, v)
	return err
}

func newSetCmd() *cobra.Command {
	var (
		outputPath string
		text       bool
		create     bool
	)
	cmd := &cobra.Command{
		Use:   "set [input.xlsx] [sheet] [cell] [value...]",
		Short: "Write one cell, or replace a row from a cell rightwards",
		Long: `Write one value to a cell. With several values the whole row is replaced
and the values are written from the cell rightwards.`,
		Args: cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, col, err := xlsheet.ParseCellRef(args[2])
			if err != nil {
				return err
			}
			values := make([]any, 0, len(args)-3)
			for _, raw := range args[3:] {
				if text {
					values = append(values, raw)
				} else {
					values = append(values, parser.ParseValue(raw))
				}
			}

			return edit(args[0], outputPath, func(wb *xlsheet.Workbook) error {
				s, ok, err := wb.Sheet(args[1])
				if err != nil {
					return err
				}
				if !ok {
					if !create {
						return fmt.Errorf("sheet not found: %s", args[1])
					}
					if s, err = wb.CreateSheet(args[1]); err != nil {
						return err
					}
				}
				if len(values) > 1 {
					return s.SetValues(row, col, values)
				}
				r, err := s.Row(row)
				if err != nil {
					return err
				}
				return r.Set(col, values[0])
			})
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: overwrite input)")
	cmd.Flags().BoolVar(&text, "text", false, "Store values as text without parsing")
	cmd.Flags().BoolVar(&create, "create", false, "Create the sheet when it does not exist")
	return cmd
}

func newRenameCmd() *cobra.Command {
	var outputPath string
	cmd := &cobra.Command{
		Use:   "rename [input.xlsx] [sheet] [new-name]",
		Short: "Rename a sheet",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return edit(args[0], outputPath, func(wb *xlsheet.Workbook) error {
				s, err := lookupSheet(wb, args[1])
				if err != nil {
					return err
				}
				return s.Rename(args[2])
			})
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: overwrite input)")
	return cmd
}

func newCloneCmd() *cobra.Command {
	var outputPath string
	cmd := &cobra.Command{
		Use:   "clone [input.xlsx] [index]",
		Short: "Append a copy of the sheet at a 0-based position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid index: %s", args[1])
			}
			return edit(args[0], outputPath, func(wb *xlsheet.Workbook) error {
				s, err := wb.CloneSheet(index)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), s.Name())
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: overwrite input)")
	return cmd
}

func newRemoveCmd() *cobra.Command {
	var outputPath string
	cmd := &cobra.Command{
		Use:   "remove [input.xlsx] [index]",
		Short: "Remove the sheet at a 0-based position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid index: %s", args[1])
			}
			return edit(args[0], outputPath, func(wb *xlsheet.Workbook) error {
				return wb.RemoveSheetAt(index)
			})
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: overwrite input)")
	return cmd
}
