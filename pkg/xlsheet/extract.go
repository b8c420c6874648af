package xlsheet

import (
	"path/filepath"
	"strconv"

	"github.com/ukaji3/xlsheet-go/pkg/xlsheet/models"
	"github.com/ukaji3/xlsheet-go/pkg/xlsheet/parser"
)

// Extract takes a snapshot of every indexed sheet: dispatched cell values,
// the used range and table candidates. Sheets being streamed cannot be read
// back and fail with ErrStreaming.
func (w *Workbook) Extract(includeTypes bool) (*models.WorkbookData, error) {
	sheets, err := w.Sheets(w.filter)
	if err != nil {
		return nil, err
	}

	data := &models.WorkbookData{
		Sheets: make(map[string]models.SheetData, len(sheets)),
	}
	if w.source != "" {
		data.BookName = filepath.Base(w.source)
	}

	for _, s := range sheets {
		sd, err := s.extract(includeTypes)
		if err != nil {
			return nil, err
		}
		data.SheetNames = append(data.SheetNames, s.name)
		data.Sheets[s.name] = sd
	}
	return data, nil
}

func (s *Sheet) extract(includeTypes bool) (models.SheetData, error) {
	if err := s.checkAccess(); err != nil {
		return models.SheetData{}, NewExtractionError(s.name, "rows", err)
	}
	extents, err := s.book.codec.Rows(s.name)
	if err != nil {
		return models.SheetData{}, NewExtractionError(s.name, "rows", err)
	}

	var rows []models.CellRow
	for _, e := range extents {
		cellMap := make(map[string]interface{})
		typeMap := make(map[string]string)
		r := &Row{sheet: s, index: e.Index}
		for col := 0; col < e.Width; col++ {
			cv, exists, err := s.cell(e.Index, col)
			if err != nil {
				return models.SheetData{}, NewExtractionError(s.name, "cells", err)
			}
			if !exists {
				continue
			}
			v, ok, err := r.dispatch(col, cv)
			if err != nil {
				return models.SheetData{}, NewExtractionError(s.name, "cells", err)
			}
			if !ok {
				continue
			}
			colStr := strconv.Itoa(col)
			cellMap[colStr] = v
			if includeTypes {
				typeMap[colStr] = cv.Type.String()
			}
		}
		if len(cellMap) == 0 {
			continue
		}
		cellRow := models.CellRow{R: e.Index, C: cellMap}
		if includeTypes {
			cellRow.Types = typeMap
		}
		rows = append(rows, cellRow)
	}

	usedRange, err := parser.UsedRange(rows)
	if err != nil {
		return models.SheetData{}, NewExtractionError(s.name, "tables", err)
	}
	tables, err := parser.DetectTables(rows, parser.DefaultTableParams())
	if err != nil {
		return models.SheetData{}, NewExtractionError(s.name, "tables", err)
	}

	return models.SheetData{
		Index:           s.book.position(s.name),
		Rows:            rows,
		UsedRange:       usedRange,
		TableCandidates: tables,
	}, nil
}
