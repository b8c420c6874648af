// Package codec defines the container capability consumed by the workbook
// core and provides an excelize-backed implementation and an in-memory one.
//
// Row and column indexes are 0-based throughout. Sheets are addressed by
// their current name, except for the positional lifecycle operations.
package codec

import (
	"errors"
	"io"

	"github.com/ukaji3/xlsheet-go/pkg/xlsheet/models"
)

// ErrSheetNotExist is returned when a sheet name is not in the container.
var ErrSheetNotExist = errors.New("sheet does not exist")

// ErrUnsupportedCell is returned when a codec cannot store a value type.
var ErrUnsupportedCell = errors.New("cell value type not supported by codec")

// ErrClosed is returned by every operation after Close.
var ErrClosed = errors.New("codec is closed")

// RowExtent describes a row that holds at least one value. Blank cells do
// not count.
type RowExtent struct {
	// Index is the row index.
	Index int
	// Width is one past the highest column holding a value.
	Width int
}

// Codec is the read and streamed-write surface of a spreadsheet container.
type Codec interface {
	// SheetNames returns every sheet name in container order.
	SheetNames() []string
	// CreateSheet appends an empty sheet.
	CreateSheet(name string) error
	// CloneSheet appends a copy of the sheet at index under name.
	CloneSheet(index int, name string) error
	// RemoveSheet deletes the sheet at index.
	RemoveSheet(index int) error
	// RenameSheet renames the sheet at index.
	RenameSheet(index int, name string) error

	// EnsureRow makes sure the row exists.
	EnsureRow(sheet string, row int) error
	// ClearRow drops every cell of the row, leaving it present and empty.
	ClearRow(sheet string, row int) error
	// Rows lists the rows holding at least one value, in ascending order.
	Rows(sheet string) ([]RowExtent, error)
	// Width returns one past the highest column of row holding a value, or
	// zero when the row holds none.
	Width(sheet string, row int) (int, error)

	// Cell returns the stored value. ok is false when the cell does not exist.
	Cell(sheet string, row, col int) (v models.CellValue, ok bool, err error)
	// SetCell creates or overwrites a cell.
	SetCell(sheet string, row, col int, v models.CellValue) error
	// Supports reports whether SetCell and row streams can store typ.
	Supports(typ models.CellType) bool

	// NewRowStream starts a forward-only writer that replaces the sheet content.
	NewRowStream(sheet string) (RowStream, error)

	// WriteTo writes the full container to w.
	WriteTo(w io.Writer) (int64, error)
	// Close releases the engine resources.
	Close() error
}

// RowStream appends whole rows in ascending row order.
type RowStream interface {
	// SetRow writes values starting at column 0. row must be greater than
	// every row previously written to this stream.
	SetRow(row int, values []models.CellValue) error
	// Flush ends the stream and commits buffered rows to the container.
	Flush() error
}
