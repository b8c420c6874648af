package codec

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"github.com/ukaji3/xlsheet-go/pkg/xlsheet/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type memSheet struct {
	name string
	rows map[int]map[int]models.CellValue
}

func newMemSheet(name string) *memSheet {
	return &memSheet{name: name, rows: make(map[int]map[int]models.CellValue)}
}

// Memory is a Codec that keeps the whole container in memory. WriteTo emits
// the content as JSON.
type Memory struct {
	sheets []*memSheet
	closed bool
}

// NewMemory returns a Memory container holding empty sheets with the given
// names, in order.
func NewMemory(names ...string) *Memory {
	m := &Memory{}
	for _, name := range names {
		m.sheets = append(m.sheets, newMemSheet(name))
	}
	return m
}

func (m *Memory) sheet(name string) (*memSheet, error) {
	if m.closed {
		return nil, ErrClosed
	}
	for _, s := range m.sheets {
		if s.name == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrSheetNotExist, name)
}

func (m *Memory) at(index int) (*memSheet, error) {
	if m.closed {
		return nil, ErrClosed
	}
	if index < 0 || index >= len(m.sheets) {
		return nil, fmt.Errorf("%w: index %d", ErrSheetNotExist, index)
	}
	return m.sheets[index], nil
}

// SheetNames returns the sheet names in order.
func (m *Memory) SheetNames() []string {
	names := make([]string, len(m.sheets))
	for i, s := range m.sheets {
		names[i] = s.name
	}
	return names
}

// CreateSheet appends an empty sheet.
func (m *Memory) CreateSheet(name string) error {
	if m.closed {
		return ErrClosed
	}
	if _, err := m.sheet(name); err == nil {
		return fmt.Errorf("sheet %q already exists", name)
	}
	m.sheets = append(m.sheets, newMemSheet(name))
	return nil
}

// CloneSheet appends a deep copy of the sheet at index under name.
func (m *Memory) CloneSheet(index int, name string) error {
	src, err := m.at(index)
	if err != nil {
		return err
	}
	dst := newMemSheet(name)
	for r, cells := range src.rows {
		row := make(map[int]models.CellValue, len(cells))
		for c, v := range cells {
			row[c] = v
		}
		dst.rows[r] = row
	}
	m.sheets = append(m.sheets, dst)
	return nil
}

// RemoveSheet deletes the sheet at index.
func (m *Memory) RemoveSheet(index int) error {
	if _, err := m.at(index); err != nil {
		return err
	}
	m.sheets = append(m.sheets[:index], m.sheets[index+1:]...)
	return nil
}

// RenameSheet renames the sheet at index.
func (m *Memory) RenameSheet(index int, name string) error {
	s, err := m.at(index)
	if err != nil {
		return err
	}
	s.name = name
	return nil
}

// EnsureRow creates an empty row when absent.
func (m *Memory) EnsureRow(sheet string, row int) error {
	s, err := m.sheet(sheet)
	if err != nil {
		return err
	}
	if _, ok := s.rows[row]; !ok {
		s.rows[row] = make(map[int]models.CellValue)
	}
	return nil
}

// ClearRow drops every cell of row.
func (m *Memory) ClearRow(sheet string, row int) error {
	s, err := m.sheet(sheet)
	if err != nil {
		return err
	}
	s.rows[row] = make(map[int]models.CellValue)
	return nil
}

// Rows lists the rows holding a non-blank cell.
func (m *Memory) Rows(sheet string) ([]RowExtent, error) {
	s, err := m.sheet(sheet)
	if err != nil {
		return nil, err
	}
	var extents []RowExtent
	for r, cells := range s.rows {
		if width := rowWidth(cells); width > 0 {
			extents = append(extents, RowExtent{Index: r, Width: width})
		}
	}
	sort.Slice(extents, func(i, j int) bool { return extents[i].Index < extents[j].Index })
	return extents, nil
}

// Width returns one past the highest non-blank column of row.
func (m *Memory) Width(sheet string, row int) (int, error) {
	s, err := m.sheet(sheet)
	if err != nil {
		return 0, err
	}
	return rowWidth(s.rows[row]), nil
}

func rowWidth(cells map[int]models.CellValue) int {
	width := 0
	for c, v := range cells {
		if v.Type != models.CellTypeBlank && c+1 > width {
			width = c + 1
		}
	}
	return width
}

// Cell returns the stored value at row and col.
func (m *Memory) Cell(sheet string, row, col int) (models.CellValue, bool, error) {
	s, err := m.sheet(sheet)
	if err != nil {
		return models.CellValue{}, false, err
	}
	v, ok := s.rows[row][col]
	return v, ok, nil
}

// SetCell creates or overwrites a cell. Every tag can be stored.
func (m *Memory) SetCell(sheet string, row, col int, v models.CellValue) error {
	s, err := m.sheet(sheet)
	if err != nil {
		return err
	}
	cells, ok := s.rows[row]
	if !ok {
		cells = make(map[int]models.CellValue)
		s.rows[row] = cells
	}
	cells[col] = v
	return nil
}

// Supports reports true for every tag: the memory codec stores values as is.
func (m *Memory) Supports(typ models.CellType) bool {
	return true
}

// NewRowStream starts a stream that replaces the sheet rows on Flush.
func (m *Memory) NewRowStream(sheet string) (RowStream, error) {
	s, err := m.sheet(sheet)
	if err != nil {
		return nil, err
	}
	return &memStream{sheet: s, last: -1, pending: make(map[int]map[int]models.CellValue)}, nil
}

type memSheetJSON struct {
	Name string                                  `json:"name"`
	Rows map[string]map[string]models.CellValue `json:"rows"`
}

// WriteTo writes the sheets as JSON.
func (m *Memory) WriteTo(w io.Writer) (int64, error) {
	if m.closed {
		return 0, ErrClosed
	}
	doc := make([]memSheetJSON, 0, len(m.sheets))
	for _, s := range m.sheets {
		out := memSheetJSON{Name: s.name, Rows: make(map[string]map[string]models.CellValue)}
		for r, cells := range s.rows {
			row := make(map[string]models.CellValue, len(cells))
			for c, v := range cells {
				row[strconv.Itoa(c)] = v
			}
			out.Rows[strconv.Itoa(r)] = row
		}
		doc = append(doc, out)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// Close drops the content. Every later operation fails with ErrClosed.
func (m *Memory) Close() error {
	m.closed = true
	m.sheets = nil
	return nil
}

// memStream buffers rows and replaces the sheet content on Flush, matching
// the excelize stream writer.
type memStream struct {
	sheet   *memSheet
	last    int
	pending map[int]map[int]models.CellValue
	flushed bool
}

func (s *memStream) SetRow(row int, values []models.CellValue) error {
	if s.flushed {
		return fmt.Errorf("stream for sheet %q already flushed", s.sheet.name)
	}
	if row <= s.last {
		return fmt.Errorf("row %d is not after previously streamed row %d", row, s.last)
	}
	s.last = row
	cells := make(map[int]models.CellValue, len(values))
	for c, v := range values {
		cells[c] = v
	}
	s.pending[row] = cells
	return nil
}

func (s *memStream) Flush() error {
	if s.flushed {
		return nil
	}
	s.flushed = true
	s.sheet.rows = s.pending
	return nil
}
