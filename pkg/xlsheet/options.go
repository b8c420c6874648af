// Package xlsheet provides workbook, sheet, row and typed cell access on top
// of a spreadsheet container codec.
package xlsheet

import (
	"log/slog"

	"github.com/ukaji3/xlsheet-go/pkg/xlsheet/codec"
)

const (
	// MaxRows is the number of rows a sheet can hold.
	MaxRows = 1048576
	// MaxColumns is the number of columns a row can hold.
	MaxColumns = 16384
	// MaxNumericInt is the largest integer stored as a number. Larger
	// integers are stored as their decimal text.
	MaxNumericInt = 1<<31 - 1
)

// Options configures how a workbook is opened and indexed.
type Options struct {
	// SheetFilter restricts the sheet index to the sheet with this name.
	// Other sheets stay in the container but are not indexed.
	SheetFilter string
	// RebuildOnFilterChange lets Sheets rebuild the index when called with
	// a filter different from the one that built it. By default the first
	// build wins.
	RebuildOnFilterChange bool
	// MaxMemoryHint is the size in bytes of worksheet data kept in memory
	// before the engine spills to TmpDir. Zero keeps the engine default.
	MaxMemoryHint int64
	// TmpDir is where the engine writes spilled data.
	TmpDir string
	// Logger receives debug records. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// DefaultOptions returns default options.
func DefaultOptions() Options {
	return Options{}
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o Options) excel() codec.ExcelOptions {
	return codec.ExcelOptions{
		MaxMemory: o.MaxMemoryHint,
		TmpDir:    o.TmpDir,
	}
}
