package xlsheet

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/xlsheet-go/pkg/xlsheet/models"
)

func TestStreamLocksSheet(t *testing.T) {
	w, _ := openMemory(t, DefaultOptions(), "Sheet1", "Other")
	s, _, err := w.Sheet("Sheet1")
	require.NoError(t, err)
	r, err := s.Row(0)
	require.NoError(t, err)

	st, err := s.Stream()
	require.NoError(t, err)
	assert.Same(t, s, st.Sheet())

	_, err = s.Row(0)
	assert.ErrorIs(t, err, ErrStreaming)
	_, _, err = s.Find(0)
	assert.ErrorIs(t, err, ErrStreaming)
	_, _, err = r.Get(0)
	assert.ErrorIs(t, err, ErrStreaming)
	assert.ErrorIs(t, r.Set(0, 1), ErrStreaming)
	assert.ErrorIs(t, s.SetValues(0, 0, []any{1}), ErrStreaming)
	assert.ErrorIs(t, s.Rename("Renamed"), ErrStreaming)
	_, err = s.Stream()
	assert.ErrorIs(t, err, ErrStreaming)
	_, err = w.CloneSheet(0)
	assert.ErrorIs(t, err, ErrStreaming)
	_, err = w.Extract(false)
	assert.ErrorIs(t, err, ErrStreaming)

	other, _, err := w.Sheet("Other")
	require.NoError(t, err)
	_, err = other.Row(0)
	assert.NoError(t, err)
}

func TestStreamRowOrder(t *testing.T) {
	s := memorySheet(t, "Sheet1")
	st, err := s.Stream()
	require.NoError(t, err)

	require.NoError(t, st.SetRow(2, []any{"a"}))
	assert.ErrorIs(t, st.SetRow(2, []any{"b"}), ErrRowOrder)
	assert.ErrorIs(t, st.SetRow(1, []any{"b"}), ErrRowOrder)
	require.NoError(t, st.Append("c"))

	var ioor *IndexOutOfRangeError
	require.ErrorAs(t, st.SetRow(MaxRows, nil), &ioor)
	assert.Equal(t, "row", ioor.Kind)

	require.ErrorAs(t, st.SetRow(4, make([]any, MaxColumns+1)), &ioor)
	assert.Equal(t, "column", ioor.Kind)

	assert.ErrorIs(t, st.Append(struct{}{}), ErrUnsupportedValue)
}

func TestStreamSavedWithMemory(t *testing.T) {
	w, m := openMemory(t, DefaultOptions(), "Sheet1")
	s, _, err := w.Sheet("Sheet1")
	require.NoError(t, err)
	r, err := s.Row(9)
	require.NoError(t, err)
	require.NoError(t, r.Set(0, "replaced"))

	st, err := s.Stream()
	require.NoError(t, err)
	require.NoError(t, st.Append("streamed", 1))

	var buf bytes.Buffer
	require.NoError(t, w.Save(&buf))
	assert.Contains(t, buf.String(), "streamed")
	assert.NotContains(t, buf.String(), "replaced")
	assert.Equal(t, 1, m.closes)

	assert.ErrorIs(t, st.Append("late"), ErrUseAfterSave)
}

func TestStreamRoundTrip(t *testing.T) {
	w := New(DefaultOptions())
	s, _, err := w.Sheet("Sheet1")
	require.NoError(t, err)

	st, err := s.Stream()
	require.NoError(t, err)
	require.NoError(t, st.Append("id", "name", "active"))
	require.NoError(t, st.Append(1, "alice", true))
	require.NoError(t, st.SetRow(5, []any{2, nil, false, models.Formula("A2+A6", 3), int64(1) << 40}))

	path := filepath.Join(t.TempDir(), "stream.xlsx")
	require.NoError(t, w.SaveAs(path))

	loaded, err := Load(path, DefaultOptions())
	require.NoError(t, err)
	defer loaded.Close()
	s, _, err = loaded.Sheet("Sheet1")
	require.NoError(t, err)

	tests := []struct {
		row, col int
		want     any
		ok       bool
	}{
		{0, 0, "id", true},
		{0, 2, "active", true},
		{1, 0, float64(1), true},
		{1, 1, "alice", true},
		{1, 2, true, true},
		{5, 1, nil, false},
		{5, 2, false, true},
		{5, 3, float64(3), true},
		{5, 4, "1099511627776", true},
	}
	for _, tt := range tests {
		r, err := s.Row(tt.row)
		require.NoError(t, err)
		v, ok, err := r.Get(tt.col)
		require.NoError(t, err)
		assert.Equal(t, tt.ok, ok, "row %d column %d", tt.row, tt.col)
		assert.Equal(t, tt.want, v, "row %d column %d", tt.row, tt.col)
	}

	_, found, err := s.Find(3)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRemoveStreamedSheet(t *testing.T) {
	w, _ := openMemory(t, DefaultOptions(), "A", "B")
	s, _, err := w.Sheet("A")
	require.NoError(t, err)
	st, err := s.Stream()
	require.NoError(t, err)

	require.NoError(t, w.RemoveSheetAt(0))
	assert.ErrorIs(t, st.Append(1), ErrSheetRemoved)
	assert.NoError(t, w.Save(&bytes.Buffer{}))
}
