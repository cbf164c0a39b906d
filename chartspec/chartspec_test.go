package chartspec

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simviz/table"
)

func loadTable(t *testing.T, content string) *table.Table {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	tbl, err := table.Load(path)
	require.NoError(t, err)
	return tbl
}

func TestBuildVelocityExample(t *testing.T) {
	tbl := loadTable(t, "t,velocity\n0,1.0\n1,2.0\n2,3.0\n")

	req, err := Build(tbl, "t", []string{"velocity"})
	require.NoError(t, err)

	require.Len(t, req.Series, 1)
	s := req.Series[0].Stats
	assert.Equal(t, 3, s.Count)
	assert.InDelta(t, 2.0, s.Mean, 1e-12)
	assert.InDelta(t, 1.0, s.Min, 1e-12)
	assert.InDelta(t, 3.0, s.Max, 1e-12)
	require.True(t, s.HasStd)
	assert.InDelta(t, 1.0, s.Std, 1e-12)

	assert.Equal(t, "t", req.X.Name)
	assert.Equal(t, table.KindNumeric, req.X.Kind)
	assert.Equal(t, []float64{0, 1, 2}, req.X.Nums)
}

func TestBuildUnknownColumns(t *testing.T) {
	tbl := loadTable(t, "t,velocity\n0,1.0\n")

	_, err := Build(tbl, "t", []string{"altitude"})
	require.Error(t, err)
	assert.ErrorIs(t, err, table.ErrUnknownColumn)
	assert.Contains(t, err.Error(), "altitude")

	_, err = Build(tbl, "frame", []string{"velocity"})
	require.Error(t, err)
	assert.ErrorIs(t, err, table.ErrUnknownColumn)
	assert.Contains(t, err.Error(), "frame")
}

func TestBuildEmptySelection(t *testing.T) {
	tbl := loadTable(t, "t,velocity\n0,1.0\n")

	_, err := Build(tbl, "t", nil)
	assert.ErrorIs(t, err, ErrNoSeries)
}

func TestBuildNonNumericSeries(t *testing.T) {
	tbl := loadTable(t, "t,velocity,label\n0,1.0,a\n1,2.0,b\n")

	_, err := Build(tbl, "t", []string{"label"})
	require.Error(t, err)
	assert.ErrorIs(t, err, table.ErrTypeMismatch)
}

func TestBuildCollapsesDuplicates(t *testing.T) {
	tbl := loadTable(t, "t,velocity,height\n0,1.0,5\n1,2.0,6\n")

	req, err := Build(tbl, "t", []string{"velocity", "height", "velocity"})
	require.NoError(t, err)

	require.Len(t, req.Series, 2)
	assert.Equal(t, "velocity", req.Series[0].Name)
	assert.Equal(t, "height", req.Series[1].Name)
}

func TestBuildAllowsXInY(t *testing.T) {
	tbl := loadTable(t, "t,velocity\n0,1.0\n1,2.0\n")

	req, err := Build(tbl, "t", []string{"t", "velocity"})
	require.NoError(t, err)
	require.Len(t, req.Series, 2)
}

func TestBuildExcludesMissingFromStats(t *testing.T) {
	tbl := loadTable(t, "t,velocity\n0,1.0\n1,\n2,NaN\n3,3.0\n")

	req, err := Build(tbl, "t", []string{"velocity"})
	require.NoError(t, err)

	s := req.Series[0].Stats
	assert.Equal(t, 2, s.Count)
	assert.InDelta(t, 2.0, s.Mean, 1e-12)
	assert.InDelta(t, 1.0, s.Min, 1e-12)
	assert.InDelta(t, 3.0, s.Max, 1e-12)
	assert.True(t, s.Min <= s.Mean && s.Mean <= s.Max)
}

func TestBuildSingleValueOmitsStd(t *testing.T) {
	tbl := loadTable(t, "t,velocity\n0,1.0\n1,\n")

	req, err := Build(tbl, "t", []string{"velocity"})
	require.NoError(t, err)

	s := req.Series[0].Stats
	assert.Equal(t, 1, s.Count)
	assert.False(t, s.HasStd)
}

func TestBuildIdempotent(t *testing.T) {
	tbl := loadTable(t, "t,velocity,height\n0,1.0,5\n1,2.0,6\n2,3.0,7\n")

	first, err := Build(tbl, "t", []string{"velocity", "height"})
	require.NoError(t, err)
	second, err := Build(tbl, "t", []string{"velocity", "height"})
	require.NoError(t, err)

	assert.True(t, reflect.DeepEqual(first, second))
}

func TestBuildTimestampAxis(t *testing.T) {
	tbl := loadTable(t, "when,reading\n2026-03-01 00:00:00,1.0\n2026-03-01 00:00:10,2.0\n")

	req, err := Build(tbl, "when", []string{"reading"})
	require.NoError(t, err)

	assert.Equal(t, table.KindTimestamp, req.X.Kind)
	require.Len(t, req.X.Times, 2)
	assert.True(t, req.X.Times[1].After(req.X.Times[0]))
}
