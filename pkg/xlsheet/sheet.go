package xlsheet

import (
	"fmt"

	"github.com/ukaji3/xlsheet-go/pkg/xlsheet/codec"
	"github.com/ukaji3/xlsheet-go/pkg/xlsheet/models"
)

// Sheet is a sparse, ordered collection of rows owned by one Workbook.
type Sheet struct {
	book    *Workbook
	name    string
	rows    map[int]*Row
	stream  *RowStream
	removed bool
}

func newSheet(w *Workbook, name string) *Sheet {
	return &Sheet{book: w, name: name, rows: make(map[int]*Row)}
}

// Name returns the current sheet name.
func (s *Sheet) Name() string { return s.name }

// Workbook returns the owning workbook.
func (s *Sheet) Workbook() *Workbook { return s.book }

func (s *Sheet) check() error {
	if err := s.book.check(); err != nil {
		return err
	}
	if s.removed {
		return ErrSheetRemoved
	}
	return nil
}

// checkAccess guards random access, which a row stream forbids.
func (s *Sheet) checkAccess() error {
	if err := s.check(); err != nil {
		return err
	}
	if s.stream != nil {
		return ErrStreaming
	}
	return nil
}

// Row returns the row at index, creating it when absent. Repeated calls with
// the same index return the same *Row.
func (s *Sheet) Row(index int) (*Row, error) {
	if err := s.checkAccess(); err != nil {
		return nil, err
	}
	if err := checkIndex("row", index, MaxRows); err != nil {
		return nil, err
	}
	if r, ok := s.rows[index]; ok {
		return r, nil
	}
	if err := s.book.codec.EnsureRow(s.name, index); err != nil {
		return nil, fmt.Errorf("sheet %q row %d: %w", s.name, index, err)
	}
	r := &Row{sheet: s, index: index}
	s.rows[index] = r
	return r, nil
}

// Find returns the row at index without creating it. ok is false when the
// row was never accessed and holds no value.
func (s *Sheet) Find(index int) (*Row, bool, error) {
	if err := s.checkAccess(); err != nil {
		return nil, false, err
	}
	if err := checkIndex("row", index, MaxRows); err != nil {
		return nil, false, err
	}
	if r, ok := s.rows[index]; ok {
		return r, true, nil
	}
	width, err := s.book.codec.Width(s.name, index)
	if err != nil {
		return nil, false, fmt.Errorf("sheet %q row %d: %w", s.name, index, err)
	}
	if width == 0 {
		return nil, false, nil
	}
	r := &Row{sheet: s, index: index}
	s.rows[index] = r
	return r, true, nil
}

// SetValues replaces the content of row index with values, written from
// startCol rightwards. Integers above MaxNumericInt are stored as text. The
// row is left untouched when any value cannot be stored.
func (s *Sheet) SetValues(index, startCol int, values []any) error {
	if err := s.checkAccess(); err != nil {
		return err
	}
	if err := checkIndex("column", startCol, MaxColumns); err != nil {
		return err
	}
	if len(values) > 0 {
		if err := checkIndex("column", startCol+len(values)-1, MaxColumns); err != nil {
			return err
		}
	}
	cells, err := toCellValues(values)
	if err != nil {
		return err
	}
	for _, v := range cells {
		if !s.book.codec.Supports(v.Type) {
			return fmt.Errorf("%w: %s", codec.ErrUnsupportedCell, v.Type)
		}
	}
	r, err := s.Row(index)
	if err != nil {
		return err
	}
	if err := s.book.codec.ClearRow(s.name, index); err != nil {
		return fmt.Errorf("sheet %q row %d: %w", s.name, index, err)
	}
	for i, v := range cells {
		if err := r.store(startCol+i, v); err != nil {
			return err
		}
	}
	return nil
}

// Rename renames the sheet and re-keys the workbook index.
func (s *Sheet) Rename(name string) error {
	if err := s.checkAccess(); err != nil {
		return err
	}
	return s.book.renameSheet(s, name)
}

// Stream starts a forward-only row writer that replaces the content of the
// sheet. Until the workbook is saved, random access to the sheet fails with
// ErrStreaming. Streamed rows are committed by Save.
func (s *Sheet) Stream() (*RowStream, error) {
	if err := s.checkAccess(); err != nil {
		return nil, err
	}
	rs, err := s.book.codec.NewRowStream(s.name)
	if err != nil {
		return nil, fmt.Errorf("stream sheet %q: %w", s.name, err)
	}
	st := &RowStream{sheet: s, rs: rs, last: -1}
	s.stream = st
	s.rows = make(map[int]*Row)
	s.book.streams = append(s.book.streams, st)
	s.book.log.Debug("sheet stream opened", "sheet", s.name)
	return st, nil
}

// cell reads the stored value of one cell.
func (s *Sheet) cell(row, col int) (models.CellValue, bool, error) {
	v, ok, err := s.book.codec.Cell(s.name, row, col)
	if err != nil {
		return models.CellValue{}, false, fmt.Errorf("sheet %q row %d column %d: %w", s.name, row, col, err)
	}
	return v, ok, nil
}
