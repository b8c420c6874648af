package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/xlsheet-go/pkg/xlsheet/models"
)

func TestExcelCellTypes(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", true))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", 12.5))
	require.NoError(t, f.SetCellValue("Sheet1", "C1", "text"))
	require.NoError(t, f.SetCellFormula("Sheet1", "D1", "B1*2"))
	e := WrapExcel(f)
	defer e.Close()

	tests := []struct {
		col  int
		want models.CellValue
	}{
		{0, models.Bool(true)},
		{1, models.Number(12.5)},
		{2, models.Text("text")},
		{3, models.Formula("B1*2", 0)},
	}
	for _, tt := range tests {
		v, ok, err := e.Cell("Sheet1", 0, tt.col)
		require.NoError(t, err)
		assert.True(t, ok, "column %d", tt.col)
		assert.Equal(t, tt.want, v, "column %d", tt.col)
	}

	_, ok, err := e.Cell("Sheet1", 0, 4)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = e.Cell("Missing", 0, 0)
	assert.ErrorIs(t, err, ErrSheetNotExist)
	assert.True(t, IsSheetNotExist(err))
}

func TestFormulaValue(t *testing.T) {
	tests := []struct {
		name string
		typ  excelize.CellType
		raw  string
		want models.CellValue
	}{
		{"pending", excelize.CellTypeFormula, "", models.Formula("X", 0)},
		{"numeric str", excelize.CellTypeFormula, "4", models.Formula("X", 4)},
		{"numeric", excelize.CellTypeUnset, "1.5", models.Formula("X", 1.5)},
		{"string result", excelize.CellTypeFormula, "abc", models.Text("abc")},
		{"bool result", excelize.CellTypeBool, "1", models.Bool(true)},
		{"error result", excelize.CellTypeError, "#REF!", models.Error("#REF!")},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formulaValue("X", tt.typ, tt.raw), tt.name)
	}
}

func TestExcelSetCellRoundTrip(t *testing.T) {
	e := NewExcel(ExcelOptions{})
	require.NoError(t, e.CreateSheet("Data"))
	require.Error(t, e.CreateSheet("data"))

	values := []models.CellValue{
		models.Bool(false),
		models.Number(-3),
		models.Text("hi"),
		models.Formula("B1+1", -2),
	}
	for col, v := range values {
		require.NoError(t, e.SetCell("Data", 0, col, v))
	}
	assert.ErrorIs(t, e.SetCell("Data", 0, 9, models.Error("#N/A")), ErrUnsupportedCell)
	require.NoError(t, e.SetCell("Data", 2, 1, models.Text("x")))

	extents, err := e.Rows("Data")
	require.NoError(t, err)
	assert.Equal(t, []RowExtent{{Index: 0, Width: 4}, {Index: 2, Width: 2}}, extents)

	var buf bytes.Buffer
	_, err = e.WriteTo(&buf)
	require.NoError(t, err)
	require.NoError(t, e.Close())
	require.NoError(t, e.Close())
	_, err = e.WriteTo(&buf)
	assert.ErrorIs(t, err, ErrClosed)

	loaded, err := OpenExcelReader(&buf, ExcelOptions{})
	require.NoError(t, err)
	defer loaded.Close()
	assert.Equal(t, []string{"Sheet1", "Data"}, loaded.SheetNames())
	for col, want := range values {
		v, ok, err := loaded.Cell("Data", 0, col)
		require.NoError(t, err)
		assert.True(t, ok, "column %d", col)
		assert.Equal(t, want, v, "column %d", col)
	}

	require.NoError(t, loaded.ClearRow("Data", 0))
	extents, err = loaded.Rows("Data")
	require.NoError(t, err)
	assert.Equal(t, []RowExtent{{Index: 2, Width: 2}}, extents)
}

func TestExcelSheetLifecycle(t *testing.T) {
	e := NewExcel(ExcelOptions{})
	defer e.Close()
	require.NoError(t, e.SetCell("Sheet1", 0, 0, models.Text("src")))

	require.NoError(t, e.CloneSheet(0, "Sheet1 (2)"))
	v, ok, err := e.Cell("Sheet1 (2)", 0, 0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, models.Text("src"), v)

	require.NoError(t, e.RenameSheet(1, "Copy"))
	assert.Equal(t, []string{"Sheet1", "Copy"}, e.SheetNames())

	require.NoError(t, e.RemoveSheet(0))
	assert.Equal(t, []string{"Copy"}, e.SheetNames())
	require.Error(t, e.RemoveSheet(0))
	assert.ErrorIs(t, e.RemoveSheet(3), ErrSheetNotExist)
}

func TestExcelRowExtents(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "C2", "loaded"))
	e := WrapExcel(f)
	defer e.Close()

	width, err := e.Width("sheet1", 1)
	require.NoError(t, err)
	assert.Equal(t, 3, width)

	require.NoError(t, e.SetCell("Sheet1", 1, 5, models.Number(1)))
	require.NoError(t, e.SetCell("Sheet1", 1, 5, models.Blank()))
	require.NoError(t, e.SetCell("Sheet1", 4, 0, models.Bool(true)))
	extents, err := e.Rows("Sheet1")
	require.NoError(t, err)
	assert.Equal(t, []RowExtent{{Index: 1, Width: 3}, {Index: 4, Width: 1}}, extents)

	require.NoError(t, e.CloneSheet(0, "Copy"))
	require.NoError(t, e.RenameSheet(0, "Data"))
	require.NoError(t, e.ClearRow("Data", 1))
	extents, err = e.Rows("Data")
	require.NoError(t, err)
	assert.Equal(t, []RowExtent{{Index: 4, Width: 1}}, extents)

	extents, err = e.Rows("Copy")
	require.NoError(t, err)
	assert.Equal(t, []RowExtent{{Index: 1, Width: 3}, {Index: 4, Width: 1}}, extents)

	_, err = e.Width("Sheet1", 1)
	assert.ErrorIs(t, err, ErrSheetNotExist)

	assert.False(t, e.Supports(models.CellTypeError))
	assert.True(t, e.Supports(models.CellTypeFormulaNumeric))
}

func TestExcelOptionsEngine(t *testing.T) {
	opts := ExcelOptions{MaxMemory: 32 << 20, TmpDir: "/tmp/x"}.engine()
	assert.Equal(t, int64(32<<20), opts.UnzipXMLSizeLimit)
	assert.Equal(t, "/tmp/x", opts.TmpDir)
	assert.Zero(t, opts.UnzipSizeLimit)

	big := ExcelOptions{MaxMemory: 2 * excelize.UnzipSizeLimit}.engine()
	assert.Equal(t, big.UnzipXMLSizeLimit, big.UnzipSizeLimit)
}
