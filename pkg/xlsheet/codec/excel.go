package codec

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/xlsheet-go/pkg/xlsheet/models"
)

// ExcelOptions configures the excelize engine.
type ExcelOptions struct {
	// MaxMemory is the size in bytes of worksheet XML kept in memory while
	// reading; larger parts spill to temporary files. Zero keeps the
	// excelize default.
	MaxMemory int64
	// UnzipSizeLimit caps the total decompressed size of the container.
	// Zero keeps the excelize default.
	UnzipSizeLimit int64
	// TmpDir is where spilled parts and stream buffers are written.
	TmpDir string
}

func (o ExcelOptions) engine() excelize.Options {
	opts := excelize.Options{
		UnzipXMLSizeLimit: o.MaxMemory,
		UnzipSizeLimit:    o.UnzipSizeLimit,
		TmpDir:            o.TmpDir,
	}
	if opts.UnzipSizeLimit == 0 && opts.UnzipXMLSizeLimit > excelize.UnzipSizeLimit {
		opts.UnzipSizeLimit = opts.UnzipXMLSizeLimit
	}
	return opts
}

// Excel is a Codec backed by an excelize workbook.
type Excel struct {
	f      *excelize.File
	closed bool
	// cells holds, per sheet, the columns of each row that hold a value.
	// A sheet is loaded from the engine on first use.
	cells map[string]sheetCells
}

type sheetCells map[int]map[int]struct{}

func newExcel(f *excelize.File) *Excel {
	return &Excel{f: f, cells: make(map[string]sheetCells)}
}

// OpenExcel opens the xlsx container at path.
func OpenExcel(path string, opts ExcelOptions) (*Excel, error) {
	f, err := excelize.OpenFile(path, opts.engine())
	if err != nil {
		return nil, err
	}
	return newExcel(f), nil
}

// OpenExcelReader reads an xlsx container from r.
func OpenExcelReader(r io.Reader, opts ExcelOptions) (*Excel, error) {
	f, err := excelize.OpenReader(r, opts.engine())
	if err != nil {
		return nil, err
	}
	return newExcel(f), nil
}

// NewExcel returns an empty container. excelize always creates the default
// worksheet "Sheet1".
func NewExcel(opts ExcelOptions) *Excel {
	return newExcel(excelize.NewFile(opts.engine()))
}

// WrapExcel adopts an already opened excelize file. Close on the returned
// codec closes f.
func WrapExcel(f *excelize.File) *Excel {
	return newExcel(f)
}

func cellName(row, col int) (string, error) {
	return excelize.CoordinatesToCellName(col+1, row+1)
}

func (e *Excel) sheetAt(index int) (string, error) {
	if e.closed {
		return "", ErrClosed
	}
	name := e.f.GetSheetName(index)
	if name == "" {
		return "", fmt.Errorf("%w: index %d", ErrSheetNotExist, index)
	}
	return name, nil
}

// sheetName resolves sheet, which excelize matches case-insensitively, to
// the name stored in the container.
func (e *Excel) sheetName(sheet string) (string, error) {
	if e.closed {
		return "", ErrClosed
	}
	idx, err := e.f.GetSheetIndex(sheet)
	if err != nil {
		return "", err
	}
	if idx == -1 {
		return "", fmt.Errorf("%w: %q", ErrSheetNotExist, sheet)
	}
	return e.f.GetSheetName(idx), nil
}

// sheetCells returns the tracked cells of sheet, scanning the worksheet once.
func (e *Excel) sheetCells(sheet string) (sheetCells, error) {
	if cells, ok := e.cells[sheet]; ok {
		return cells, nil
	}
	rows, err := e.f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	cells := make(sheetCells)
	for r, row := range rows {
		for c, v := range row {
			if v != "" {
				cells.add(r, c)
			}
		}
	}
	e.cells[sheet] = cells
	return cells, nil
}

func (c sheetCells) add(row, col int) {
	cols, ok := c[row]
	if !ok {
		cols = make(map[int]struct{})
		c[row] = cols
	}
	cols[col] = struct{}{}
}

func (c sheetCells) remove(row, col int) {
	if cols, ok := c[row]; ok {
		delete(cols, col)
		if len(cols) == 0 {
			delete(c, row)
		}
	}
}

func (c sheetCells) width(row int) int {
	width := 0
	for col := range c[row] {
		if col+1 > width {
			width = col + 1
		}
	}
	return width
}

// SheetNames returns the worksheet names in container order.
func (e *Excel) SheetNames() []string {
	return e.f.GetSheetList()
}

// CreateSheet appends an empty worksheet.
func (e *Excel) CreateSheet(name string) error {
	if e.closed {
		return ErrClosed
	}
	if idx, err := e.f.GetSheetIndex(name); err != nil {
		return err
	} else if idx != -1 {
		return fmt.Errorf("sheet %q already exists", name)
	}
	if _, err := e.f.NewSheet(name); err != nil {
		return err
	}
	e.cells[name] = make(sheetCells)
	return nil
}

// CloneSheet appends a copy of the worksheet at index under name.
func (e *Excel) CloneSheet(index int, name string) error {
	if _, err := e.sheetAt(index); err != nil {
		return err
	}
	to, err := e.f.NewSheet(name)
	if err != nil {
		return err
	}
	delete(e.cells, name)
	return e.f.CopySheet(index, to)
}

// RemoveSheet deletes the worksheet at index. The last worksheet cannot be
// removed.
func (e *Excel) RemoveSheet(index int) error {
	name, err := e.sheetAt(index)
	if err != nil {
		return err
	}
	// excelize silently keeps the last worksheet
	if e.f.SheetCount == 1 {
		return fmt.Errorf("cannot remove %q: a workbook needs at least one sheet", name)
	}
	if err := e.f.DeleteSheet(name); err != nil {
		return err
	}
	delete(e.cells, name)
	return nil
}

// RenameSheet renames the worksheet at index.
func (e *Excel) RenameSheet(index int, name string) error {
	old, err := e.sheetAt(index)
	if err != nil {
		return err
	}
	if err := e.f.SetSheetName(old, name); err != nil {
		return err
	}
	if cells, ok := e.cells[old]; ok {
		delete(e.cells, old)
		e.cells[name] = cells
	}
	return nil
}

// EnsureRow only validates the sheet: excelize materializes a row element on
// the first cell written to it.
func (e *Excel) EnsureRow(sheet string, row int) error {
	_, err := e.sheetName(sheet)
	return err
}

// ClearRow blanks every cell of row that holds a value.
func (e *Excel) ClearRow(sheet string, row int) error {
	name, err := e.sheetName(sheet)
	if err != nil {
		return err
	}
	cells, err := e.sheetCells(name)
	if err != nil {
		return err
	}
	for col := range cells[row] {
		ref, err := cellName(row, col)
		if err != nil {
			return err
		}
		if err := e.f.SetCellDefault(name, ref, ""); err != nil {
			return err
		}
		cells.remove(row, col)
	}
	return nil
}

// Rows lists the rows holding a value, in ascending order.
func (e *Excel) Rows(sheet string) ([]RowExtent, error) {
	name, err := e.sheetName(sheet)
	if err != nil {
		return nil, err
	}
	cells, err := e.sheetCells(name)
	if err != nil {
		return nil, err
	}
	extents := make([]RowExtent, 0, len(cells))
	for row := range cells {
		extents = append(extents, RowExtent{Index: row, Width: cells.width(row)})
	}
	sort.Slice(extents, func(i, j int) bool { return extents[i].Index < extents[j].Index })
	return extents, nil
}

// Width returns one past the highest column of row holding a value.
func (e *Excel) Width(sheet string, row int) (int, error) {
	name, err := e.sheetName(sheet)
	if err != nil {
		return 0, err
	}
	cells, err := e.sheetCells(name)
	if err != nil {
		return 0, err
	}
	return cells.width(row), nil
}

// Supports reports whether SetCell can store typ. excelize has no setter for
// error cells.
func (e *Excel) Supports(typ models.CellType) bool {
	switch typ {
	case models.CellTypeBoolean, models.CellTypeNumeric, models.CellTypeText,
		models.CellTypeBlank, models.CellTypeFormulaNumeric:
		return true
	}
	return false
}

// Cell reports empty cells as absent: the excelize API does not distinguish
// a missing cell from one without a value.
func (e *Excel) Cell(sheet string, row, col int) (models.CellValue, bool, error) {
	if _, err := e.sheetName(sheet); err != nil {
		return models.CellValue{}, false, err
	}
	ref, err := cellName(row, col)
	if err != nil {
		return models.CellValue{}, false, err
	}
	formula, err := e.f.GetCellFormula(sheet, ref)
	if err != nil {
		return models.CellValue{}, false, err
	}
	typ, err := e.f.GetCellType(sheet, ref)
	if err != nil {
		return models.CellValue{}, false, err
	}
	raw, err := e.f.GetCellValue(sheet, ref, excelize.Options{RawCellValue: true})
	if err != nil {
		return models.CellValue{}, false, err
	}

	if formula != "" {
		return formulaValue(formula, typ, raw), true, nil
	}

	switch typ {
	case excelize.CellTypeBool:
		return models.Bool(raw == "1" || strings.EqualFold(raw, "true")), true, nil
	case excelize.CellTypeError:
		return models.Error(models.ErrorCode(raw)), true, nil
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return models.Text(raw), true, nil
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if raw == "" {
			return models.CellValue{}, false, nil
		}
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return models.Text(raw), true, nil
		}
		return models.Number(n), true, nil
	default:
		// no tag for this storage type, e.g. ISO 8601 date cells
		return models.CellValue{Type: models.CellTypeUnset, Text: raw}, true, nil
	}
}

// formulaValue maps a formula cell to its cached result. excelize tags every
// formula it writes as a string result, so a "str" cell whose cached value is
// numeric or not yet computed is still a numeric formula.
func formulaValue(expr string, typ excelize.CellType, raw string) models.CellValue {
	switch typ {
	case excelize.CellTypeBool:
		return models.Bool(raw == "1" || strings.EqualFold(raw, "true"))
	case excelize.CellTypeError:
		return models.Error(models.ErrorCode(raw))
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return models.Text(raw)
	}
	if raw == "" {
		return models.Formula(expr, 0)
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return models.Text(raw)
	}
	return models.Formula(expr, n)
}

// SetCell creates or overwrites a cell. Error cells are not supported.
func (e *Excel) SetCell(sheet string, row, col int, v models.CellValue) error {
	name, err := e.sheetName(sheet)
	if err != nil {
		return err
	}
	if !e.Supports(v.Type) {
		return fmt.Errorf("%w: %s", ErrUnsupportedCell, v.Type)
	}
	ref, err := cellName(row, col)
	if err != nil {
		return err
	}
	cells, err := e.sheetCells(name)
	if err != nil {
		return err
	}
	if err := e.setCell(name, ref, v); err != nil {
		return err
	}
	if v.Type == models.CellTypeBlank {
		cells.remove(row, col)
	} else {
		cells.add(row, col)
	}
	return nil
}

func (e *Excel) setCell(sheet, ref string, v models.CellValue) error {
	switch v.Type {
	case models.CellTypeBoolean:
		return e.f.SetCellBool(sheet, ref, v.Bool)
	case models.CellTypeNumeric:
		return e.f.SetCellFloat(sheet, ref, v.Number, -1, 64)
	case models.CellTypeText:
		return e.f.SetCellStr(sheet, ref, v.Text)
	case models.CellTypeBlank:
		return e.f.SetCellDefault(sheet, ref, "")
	default:
		// SetCellFormula keeps the stored value as the cached result
		if err := e.f.SetCellFloat(sheet, ref, v.Number, -1, 64); err != nil {
			return err
		}
		return e.f.SetCellFormula(sheet, ref, v.Formula)
	}
}

// NewRowStream starts an excelize stream writer that replaces the content
// of sheet when flushed.
func (e *Excel) NewRowStream(sheet string) (RowStream, error) {
	name, err := e.sheetName(sheet)
	if err != nil {
		return nil, err
	}
	sw, err := e.f.NewStreamWriter(name)
	if err != nil {
		return nil, err
	}
	return &excelStream{codec: e, sheet: name, sw: sw}, nil
}

// WriteTo writes the xlsx container to w.
func (e *Excel) WriteTo(w io.Writer) (int64, error) {
	if e.closed {
		return 0, ErrClosed
	}
	return e.f.WriteTo(w)
}

// Close releases the excelize file and its temporary files. Later calls
// are no-ops.
func (e *Excel) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.cells = nil
	return e.f.Close()
}

type excelStream struct {
	codec *Excel
	sheet string
	sw    *excelize.StreamWriter
}

func (s *excelStream) SetRow(row int, values []models.CellValue) error {
	ref, err := cellName(row, 0)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		switch v.Type {
		case models.CellTypeBoolean:
			cells[i] = v.Bool
		case models.CellTypeNumeric:
			cells[i] = v.Number
		case models.CellTypeText:
			cells[i] = v.Text
		case models.CellTypeBlank:
			cells[i] = nil
		case models.CellTypeFormulaNumeric:
			cells[i] = excelize.Cell{Formula: v.Formula, Value: v.Number}
		default:
			return fmt.Errorf("%w: %s", ErrUnsupportedCell, v.Type)
		}
	}
	return s.sw.SetRow(ref, cells)
}

func (s *excelStream) Flush() error {
	if s.sw == nil {
		return nil
	}
	err := s.sw.Flush()
	s.sw = nil
	delete(s.codec.cells, s.sheet)
	return err
}

// IsSheetNotExist reports whether err is a missing-sheet error from this
// package or from excelize.
func IsSheetNotExist(err error) bool {
	var target excelize.ErrSheetNotExist
	return errors.Is(err, ErrSheetNotExist) || errors.As(err, &target)
}
