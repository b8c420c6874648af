package xlsheet

import (
	"errors"
	"fmt"

	"github.com/ukaji3/xlsheet-go/pkg/xlsheet/models"
)

// ErrUseAfterSave indicates an operation on a workbook that was already saved.
var ErrUseAfterSave = errors.New("workbook already saved")

// ErrSheetRemoved indicates an operation on a sheet removed from its workbook.
var ErrSheetRemoved = errors.New("sheet removed from workbook")

// ErrStreaming indicates random access to a sheet that has an open row stream.
var ErrStreaming = errors.New("sheet is being streamed")

// ErrRowOrder indicates a streamed row that does not follow the previous one.
var ErrRowOrder = errors.New("streamed rows must be strictly ascending")

// ErrNoPath indicates SaveAs without a path on a workbook that was not loaded
// from a file.
var ErrNoPath = errors.New("no destination path")

// ErrUnsupportedValue indicates a Go value that cannot be stored in a cell.
var ErrUnsupportedValue = errors.New("unsupported cell value")

// OpenError represents a failure to open a container.
type OpenError struct {
	Source string
	Err    error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open %s: %v", e.Source, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// WriteError represents an I/O failure while saving a workbook.
type WriteError struct {
	Dest string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Dest, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// DuplicateNameError represents a sheet name collision.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("sheet name %q already in use", e.Name)
}

// IndexOutOfRangeError represents an invalid sheet, row or column index.
type IndexOutOfRangeError struct {
	Kind  string // "sheet", "row", "column"
	Index int
	Limit int // valid indexes are [0, Limit)
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("%s index %d out of range [0, %d)", e.Kind, e.Index, e.Limit)
}

// UnknownCellTypeError represents a stored cell whose type tag is not one of
// the six known tags.
type UnknownCellTypeError struct {
	Sheet    string
	Row, Col int
	Type     models.CellType
}

func (e *UnknownCellTypeError) Error() string {
	return fmt.Sprintf("unknown cell type %s at sheet %q row %d column %d", e.Type, e.Sheet, e.Row, e.Col)
}

func checkIndex(kind string, index, limit int) error {
	if index < 0 || index >= limit {
		return &IndexOutOfRangeError{Kind: kind, Index: index, Limit: limit}
	}
	return nil
}

// ExtractionError represents a failure while taking a snapshot of a sheet.
type ExtractionError struct {
	SheetName string
	Component string // "rows", "cells", "tables"
	Err       error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction error in sheet %q (%s): %v", e.SheetName, e.Component, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError creates a new ExtractionError.
func NewExtractionError(sheetName, component string, err error) *ExtractionError {
	return &ExtractionError{
		SheetName: sheetName,
		Component: component,
		Err:       err,
	}
}
