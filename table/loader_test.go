package table

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadBasicCSV(t *testing.T) {
	path := writeTempFile(t, "run.csv", "t,velocity,label\n0,1.0,a\n1,2.0,b\n2,3.0,c\n")

	tbl, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, tbl.NumRows())
	assert.Equal(t, 3, tbl.NumCols())
	assert.Equal(t, []string{"t", "velocity", "label"}, tbl.Columns())
	assert.Equal(t, "run.csv", tbl.Name())

	col, err := tbl.Column("velocity")
	require.NoError(t, err)
	assert.Equal(t, KindNumeric, col.Kind())

	vals, mask, err := col.Float64s()
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, vals)
	assert.Equal(t, []bool{false, false, false}, mask)

	label, err := tbl.Column("label")
	require.NoError(t, err)
	assert.Equal(t, KindText, label.Kind())
}

func TestLoadStripsByteOrderMark(t *testing.T) {
	path := writeTempFile(t, "bom.csv", "\uFEFFt,velocity\n0,1.0\n1,2.0\n")

	tbl, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"t", "velocity"}, tbl.Columns())
	assert.Equal(t, 2, tbl.NumRows())

	col, err := tbl.Column("t")
	require.NoError(t, err)
	assert.Equal(t, KindNumeric, col.Kind())
}

func TestLoadMissingPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadHeaderOnly(t *testing.T) {
	path := writeTempFile(t, "empty.csv", "t,velocity\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyData)
}

func TestLoadParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"blank file", "\n\n"},
		{"ragged rows", "t,velocity\n0,1.0\n1\n"},
		{"duplicate column", "t,t\n0,1\n"},
		{"empty header name", "t,\n0,1\n"},
		{"no numeric column", "name,color\nfoo,red\nbar,blue\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempFile(t, "bad.csv", tt.content)
			_, err := Load(path)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrParse)
		})
	}
}

func TestLoadSeparatorDetection(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"semicolon", "t;velocity\n0;1.5\n1;2.5\n"},
		{"tab", "t\tvelocity\n0\t1.5\n1\t2.5\n"},
		{"pipe", "t|velocity\n0|1.5\n1|2.5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempFile(t, "sep.csv", tt.content)
			tbl, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, 2, tbl.NumRows())
			assert.Equal(t, []string{"t", "velocity"}, tbl.Columns())
		})
	}
}

func TestLoadMissingValues(t *testing.T) {
	path := writeTempFile(t, "gaps.csv", "t,velocity\n0,1.0\n1,\n2,NaN\n3,null\n4,5.0\n")

	tbl, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 5, tbl.NumRows())

	col, err := tbl.Column("velocity")
	require.NoError(t, err)
	assert.Equal(t, KindNumeric, col.Kind())

	_, mask, err := col.Float64s()
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true, true, true, false}, mask)
}

func TestLoadTimestampColumn(t *testing.T) {
	path := writeTempFile(t, "ts.csv", strings.Join([]string{
		"when,reading",
		"2026-03-01 00:00:00,1.0",
		"2026-03-01 00:00:10,2.0",
		"2026-03-01 00:00:20,3.0",
	}, "\n")+"\n")

	tbl, err := Load(path)
	require.NoError(t, err)

	col, err := tbl.Column("when")
	require.NoError(t, err)
	require.Equal(t, KindTimestamp, col.Kind())

	times, mask, err := col.Times()
	require.NoError(t, err)
	require.Len(t, times, 3)
	assert.Equal(t, []bool{false, false, false}, mask)
	assert.True(t, times[1].After(times[0]))

	// Typed access with the wrong kind is rejected.
	_, _, err = col.Float64s()
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestLoadIdempotent(t *testing.T) {
	path := writeTempFile(t, "run.csv", "t,velocity\n0,1.0\n1,2.0\n")

	first, err := Load(path)
	require.NoError(t, err)
	second, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, first.Columns(), second.Columns())
	assert.Equal(t, first.NumRows(), second.NumRows())
	for r := 0; r < first.NumRows(); r++ {
		for c := 0; c < first.NumCols(); c++ {
			a, err := first.Cell(r, c)
			require.NoError(t, err)
			b, err := second.Cell(r, c)
			require.NoError(t, err)
			assert.Equal(t, a, b)
		}
	}
}

func TestColumnLookupErrors(t *testing.T) {
	path := writeTempFile(t, "run.csv", "t,velocity\n0,1.0\n")
	tbl, err := Load(path)
	require.NoError(t, err)

	_, err = tbl.Column("acceleration")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownColumn)
	assert.Contains(t, err.Error(), "acceleration")

	_, err = tbl.ColumnIndex(9)
	assert.ErrorIs(t, err, ErrInvalidColumn)

	_, err = tbl.Cell(5, 0)
	assert.ErrorIs(t, err, ErrInvalidRow)
}

func TestNumericColumns(t *testing.T) {
	path := writeTempFile(t, "run.csv", "t,velocity,label\n0,1.0,a\n1,2.0,b\n")
	tbl, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"t", "velocity"}, tbl.NumericColumns())
}
