// Package main provides the CLI entry point for xlsheet-go.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	logLevel  string
	logFormat string
	maxMemory string
	tmpDir    string
	sheetName string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "xlsheet",
		Short: "Read and write spreadsheet workbooks",
		Long: `xlsheet-go reads and edits xlsx workbooks: list sheets, dump typed
cell values as JSON, read and write cells, and rename, clone or remove sheets.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(logLevel, logFormat)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	flags.StringVar(&logFormat, "log-format", "text", "Log format: text, json")
	flags.StringVar(&maxMemory, "max-memory", "", "Worksheet data kept in memory before spilling to disk (e.g. 64MiB)")
	flags.StringVar(&tmpDir, "tmp-dir", "", "Directory for spilled worksheet data")
	flags.StringVar(&sheetName, "sheet", "", "Only index the sheet with this name")

	rootCmd.AddCommand(
		newSheetsCmd(),
		newDumpCmd(),
		newGetCmd(),
		newSetCmd(),
		newRenameCmd(),
		newCloneCmd(),
		newRemoveCmd(),
	)
	return rootCmd
}
