package export

import (
	"encoding/json"
	"os"
	"path/filepath"
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

func TestArrowTableConversion(t *testing.T) {
	tbl := loadTable(t, "t,velocity,label\n0,1.0,a\n1,,b\n2,3.0,c\n")

	atbl, err := ArrowTable(tbl)
	require.NoError(t, err)
	defer atbl.Release()

	assert.Equal(t, int64(3), atbl.NumRows())
	assert.Equal(t, int64(3), atbl.NumCols())

	schema := atbl.Schema()
	assert.Equal(t, "t", schema.Field(0).Name)
	assert.Equal(t, "velocity", schema.Field(1).Name)
	assert.Equal(t, "label", schema.Field(2).Name)
}

func TestToCSVRoundTrip(t *testing.T) {
	tbl := loadTable(t, "t,velocity\n0,1.0\n1,2.0\n2,3.0\n")

	out := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, ToCSV(tbl, out))

	reloaded, err := table.Load(out)
	require.NoError(t, err)
	assert.Equal(t, tbl.Columns(), reloaded.Columns())
	assert.Equal(t, tbl.NumRows(), reloaded.NumRows())
}

func TestToJSON(t *testing.T) {
	tbl := loadTable(t, "t,velocity,label\n0,1.5,a\n1,,b\n")

	out := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, ToJSON(tbl, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var records []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 2)

	assert.Equal(t, 1.5, records[0]["velocity"])
	assert.Equal(t, "a", records[0]["label"])
	assert.Nil(t, records[1]["velocity"])
}

func TestToParquet(t *testing.T) {
	tbl := loadTable(t, "t,velocity\n0,1.0\n1,2.0\n")

	out := filepath.Join(t.TempDir(), "out.parquet")
	require.NoError(t, ToParquet(tbl, out))

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
