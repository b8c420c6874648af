package parser

import (
	"fmt"
	"strconv"

	"github.com/ukaji3/xlsheet-go/pkg/xlsheet/models"
	"github.com/xuri/excelize/v2"
)

// TableDetectionParams holds parameters for table detection.
type TableDetectionParams struct {
	DensityMin       float64
	MinNonemptyCells int
}

// DefaultTableParams returns default table detection parameters.
func DefaultTableParams() TableDetectionParams {
	return TableDetectionParams{
		DensityMin:       0.04,
		MinNonemptyCells: 3,
	}
}

// DetectTables detects table-like regions in a sheet snapshot.
// Returns a list of cell ranges (e.g., "A1:D10") that likely represent tables.
func DetectTables(rows []models.CellRow, params TableDetectionParams) ([]string, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	minRow, maxRow, minCol, maxCol, err := findDataBounds(rows)
	if err != nil {
		return nil, err
	}
	if minRow < 0 {
		return nil, nil
	}

	// Calculate density
	totalCells := (maxRow - minRow + 1) * (maxCol - minCol + 1)
	nonEmptyCells := countNonEmptyCells(rows)

	if nonEmptyCells < params.MinNonemptyCells {
		return nil, nil
	}

	density := float64(nonEmptyCells) / float64(totalCells)
	if density < params.DensityMin {
		return nil, nil
	}

	rangeStr, err := rangeName(minRow, maxRow, minCol, maxCol)
	if err != nil {
		return nil, err
	}
	return []string{rangeStr}, nil
}

// UsedRange returns the bounding range of all values in the snapshot, or ""
// when the sheet is empty.
func UsedRange(rows []models.CellRow) (string, error) {
	minRow, maxRow, minCol, maxCol, err := findDataBounds(rows)
	if err != nil || minRow < 0 {
		return "", err
	}
	return rangeName(minRow, maxRow, minCol, maxCol)
}

// rangeName converts 0-based bounds to Excel range notation.
func rangeName(minRow, maxRow, minCol, maxCol int) (string, error) {
	startCell, err := excelize.CoordinatesToCellName(minCol+1, minRow+1)
	if err != nil {
		return "", err
	}
	endCell, err := excelize.CoordinatesToCellName(maxCol+1, maxRow+1)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%s", startCell, endCell), nil
}

// findDataBounds finds the bounding box of non-empty cells.
func findDataBounds(rows []models.CellRow) (minRow, maxRow, minCol, maxCol int, err error) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for _, row := range rows {
		for key := range row.C {
			colIdx, err := strconv.Atoi(key)
			if err != nil {
				return -1, -1, -1, -1, fmt.Errorf("row %d: bad column key %q", row.R, key)
			}
			if minRow < 0 || row.R < minRow {
				minRow = row.R
			}
			if maxRow < 0 || row.R > maxRow {
				maxRow = row.R
			}
			if minCol < 0 || colIdx < minCol {
				minCol = colIdx
			}
			if maxCol < 0 || colIdx > maxCol {
				maxCol = colIdx
			}
		}
	}

	return
}

// countNonEmptyCells counts the values held by the snapshot rows.
func countNonEmptyCells(rows []models.CellRow) int {
	count := 0
	for _, row := range rows {
		count += len(row.C)
	}
	return count
}
