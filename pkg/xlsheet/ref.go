package xlsheet

import (
	"github.com/xuri/excelize/v2"
)

// ParseCellRef converts an A1-style reference such as "B3" to 0-based row
// and column indexes.
func ParseCellRef(ref string) (row, col int, err error) {
	c, r, err := excelize.CellNameToCoordinates(ref)
	if err != nil {
		return 0, 0, err
	}
	return r - 1, c - 1, nil
}

// CellRef returns the A1-style reference of 0-based row and col.
func CellRef(row, col int) (string, error) {
	return excelize.CoordinatesToCellName(col+1, row+1)
}
