package xlsheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/xlsheet-go/pkg/xlsheet/models"
)

func TestRowSetGet(t *testing.T) {
	s := memorySheet(t, "Sheet1")
	r, err := s.Row(2)
	require.NoError(t, err)

	tests := []struct {
		name  string
		in    any
		want  any
		typ   models.CellType
		hasOK bool
	}{
		{"bool", true, true, models.CellTypeBoolean, true},
		{"text", "hello", "hello", models.CellTypeText, true},
		{"empty text", "", "", models.CellTypeText, true},
		{"float", 1.25, 1.25, models.CellTypeNumeric, true},
		{"float32", float32(0.5), 0.5, models.CellTypeNumeric, true},
		{"int", -12, float64(-12), models.CellTypeNumeric, true},
		{"max int32", int64(2147483647), float64(2147483647), models.CellTypeNumeric, true},
		{"min int64", int64(-9223372036854775808), float64(-9223372036854775808), models.CellTypeNumeric, true},
		{"overflow int64", int64(2147483648), "2147483648", models.CellTypeText, true},
		{"overflow uint32", uint32(4294967295), "4294967295", models.CellTypeText, true},
		{"overflow uint64", uint64(18446744073709551615), "18446744073709551615", models.CellTypeText, true},
		{"uint8", uint8(200), float64(200), models.CellTypeNumeric, true},
		{"nil", nil, nil, models.CellTypeBlank, false},
		{"error code", models.ErrorCode("#DIV/0!"), models.ErrorCode("#DIV/0!"), models.CellTypeError, true},
		{"formula", models.Formula("SUM(A1:A3)", 6), float64(6), models.CellTypeFormulaNumeric, true},
	}
	for col, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, r.Set(col, tt.in))

			v, ok, err := r.Get(col)
			require.NoError(t, err)
			assert.Equal(t, tt.hasOK, ok)
			assert.Equal(t, tt.want, v)

			cv, exists, err := r.Cell(col)
			require.NoError(t, err)
			assert.True(t, exists)
			assert.Equal(t, tt.typ, cv.Type)
		})
	}
}

func TestRowGetMissingCell(t *testing.T) {
	s := memorySheet(t, "Sheet1")
	r, err := s.Row(0)
	require.NoError(t, err)
	require.NoError(t, r.Set(0, "x"))

	v, ok, err := r.Get(7)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, v)

	_, exists, err := r.Cell(7)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRowGetUnknownType(t *testing.T) {
	w, m := openMemory(t, DefaultOptions(), "Sheet1")
	require.NoError(t, m.SetCell("Sheet1", 1, 3, models.CellValue{Text: "2024-01-01T00:00:00Z"}))
	s, _, err := w.Sheet("Sheet1")
	require.NoError(t, err)

	r, ok, err := s.Find(1)
	require.NoError(t, err)
	require.True(t, ok)

	_, _, err = r.Get(3)
	var unknown *UnknownCellTypeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "Sheet1", unknown.Sheet)
	assert.Equal(t, 1, unknown.Row)
	assert.Equal(t, 3, unknown.Col)
	assert.Equal(t, models.CellTypeUnset, unknown.Type)
}

func TestRowSetRejects(t *testing.T) {
	s := memorySheet(t, "Sheet1")
	r, err := s.Row(0)
	require.NoError(t, err)

	assert.ErrorIs(t, r.Set(0, []int{1}), ErrUnsupportedValue)
	assert.ErrorIs(t, r.Set(0, models.CellValue{}), ErrUnsupportedValue)

	for _, col := range []int{-1, MaxColumns} {
		var ioor *IndexOutOfRangeError
		require.ErrorAs(t, r.Set(col, 1), &ioor)
		assert.Equal(t, "column", ioor.Kind)
		_, _, err := r.Get(col)
		require.ErrorAs(t, err, &ioor)
	}

	_, exists, err := r.Cell(0)
	require.NoError(t, err)
	assert.False(t, exists)
}
