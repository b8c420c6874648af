package xlsheet

import (
	"fmt"

	"github.com/ukaji3/xlsheet-go/pkg/xlsheet/codec"
)

// RowStream writes whole rows of one sheet in ascending order. Rows are
// buffered by the engine, which spills them to temporary storage; a written
// row cannot be read back.
type RowStream struct {
	sheet   *Sheet
	rs      codec.RowStream
	last    int
	flushed bool
}

// Sheet returns the sheet being streamed.
func (st *RowStream) Sheet() *Sheet { return st.sheet }

// Append writes values to the row after the last written one, starting at
// column 0.
func (st *RowStream) Append(values ...any) error {
	return st.SetRow(st.last+1, values)
}

// SetRow writes values to row index, starting at column 0. index must be
// greater than every row written before.
func (st *RowStream) SetRow(index int, values []any) error {
	if err := st.sheet.check(); err != nil {
		return err
	}
	if err := checkIndex("row", index, MaxRows); err != nil {
		return err
	}
	if index <= st.last {
		return fmt.Errorf("%w: row %d after row %d", ErrRowOrder, index, st.last)
	}
	if len(values) > MaxColumns {
		return &IndexOutOfRangeError{Kind: "column", Index: len(values) - 1, Limit: MaxColumns}
	}
	cells, err := toCellValues(values)
	if err != nil {
		return err
	}
	if err := st.rs.SetRow(index, cells); err != nil {
		return fmt.Errorf("stream sheet %q row %d: %w", st.sheet.name, index, err)
	}
	st.last = index
	return nil
}

func (st *RowStream) flush() error {
	if st.flushed {
		return nil
	}
	st.flushed = true
	return st.rs.Flush()
}
