package xlsheet

import (
	"fmt"

	"github.com/ukaji3/xlsheet-go/pkg/xlsheet/models"
)

// Row is a sparse mapping from column index to cell value.
type Row struct {
	sheet *Sheet
	index int
}

// Index returns the row index within its sheet.
func (r *Row) Index() int { return r.index }

// Sheet returns the owning sheet.
func (r *Row) Sheet() *Sheet { return r.sheet }

// Set stores value at col, creating the cell when absent. Supported values
// are nil (blank), bool, string, integer and float types, models.ErrorCode
// and models.CellValue. Integers above MaxNumericInt are stored as their
// decimal text.
func (r *Row) Set(col int, value any) error {
	if err := r.sheet.checkAccess(); err != nil {
		return err
	}
	if err := checkIndex("column", col, MaxColumns); err != nil {
		return err
	}
	v, err := toCellValue(value)
	if err != nil {
		return err
	}
	return r.store(col, v)
}

func (r *Row) store(col int, v models.CellValue) error {
	if err := r.sheet.book.codec.SetCell(r.sheet.name, r.index, col, v); err != nil {
		return fmt.Errorf("sheet %q row %d column %d: %w", r.sheet.name, r.index, col, err)
	}
	return nil
}

// Cell returns the stored value at col with its type tag. ok is false when
// the cell does not exist.
func (r *Row) Cell(col int) (models.CellValue, bool, error) {
	if err := r.sheet.checkAccess(); err != nil {
		return models.CellValue{}, false, err
	}
	if err := checkIndex("column", col, MaxColumns); err != nil {
		return models.CellValue{}, false, err
	}
	return r.sheet.cell(r.index, col)
}

// Get returns the value at col, dispatched on its type tag:
//
//	boolean  bool
//	numeric  float64
//	text     string
//	blank    no value
//	error    models.ErrorCode
//	formula  float64 (cached result)
//
// ok is false when there is no value, i.e. the cell is missing or blank.
func (r *Row) Get(col int) (value any, ok bool, err error) {
	v, exists, err := r.Cell(col)
	if err != nil || !exists {
		return nil, false, err
	}
	return r.dispatch(col, v)
}

func (r *Row) dispatch(col int, v models.CellValue) (any, bool, error) {
	switch v.Type {
	case models.CellTypeBoolean:
		return v.Bool, true, nil
	case models.CellTypeNumeric:
		return v.Number, true, nil
	case models.CellTypeText:
		return v.Text, true, nil
	case models.CellTypeBlank:
		return nil, false, nil
	case models.CellTypeError:
		return models.ErrorCode(v.Text), true, nil
	case models.CellTypeFormulaNumeric:
		return v.Number, true, nil
	default:
		return nil, false, &UnknownCellTypeError{Sheet: r.sheet.name, Row: r.index, Col: col, Type: v.Type}
	}
}
