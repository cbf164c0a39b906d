// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package export writes a loaded table to Parquet, CSV or JSON files.
package export

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"simviz/table"
)

// ArrowTable converts a Table into an Arrow table. Numeric columns map
// to Float64, timestamp columns to nanosecond timestamps, text columns
// to String. Missing cells become nulls. The caller must Release the
// returned table.
func ArrowTable(t *table.Table) (arrow.Table, error) {
	mem := memory.NewGoAllocator()

	fields := make([]arrow.Field, 0, t.NumCols())
	arrs := make([]arrow.Array, 0, t.NumCols())

	for i := 0; i < t.NumCols(); i++ {
		col, err := t.ColumnIndex(i)
		if err != nil {
			return nil, err
		}

		switch col.Kind() {
		case table.KindNumeric:
			vals, mask, err := col.Float64s()
			if err != nil {
				return nil, err
			}
			b := array.NewFloat64Builder(mem)
			b.AppendValues(vals, validity(mask))
			arrs = append(arrs, b.NewArray())
			b.Release()
			fields = append(fields, arrow.Field{Name: col.Name(), Type: arrow.PrimitiveTypes.Float64, Nullable: true})

		case table.KindTimestamp:
			times, mask, err := col.Times()
			if err != nil {
				return nil, err
			}
			dtype := arrow.FixedWidthTypes.Timestamp_ns.(*arrow.TimestampType)
			b := array.NewTimestampBuilder(mem, dtype)
			for r, ts := range times {
				if mask[r] {
					b.AppendNull()
					continue
				}
				b.Append(arrow.Timestamp(ts.UnixNano()))
			}
			arrs = append(arrs, b.NewArray())
			b.Release()
			fields = append(fields, arrow.Field{Name: col.Name(), Type: dtype, Nullable: true})

		default:
			b := array.NewStringBuilder(mem)
			for r := 0; r < col.Len(); r++ {
				if col.Missing(r) {
					b.AppendNull()
					continue
				}
				b.Append(col.Cell(r))
			}
			arrs = append(arrs, b.NewArray())
			b.Release()
			fields = append(fields, arrow.Field{Name: col.Name(), Type: arrow.BinaryTypes.String, Nullable: true})
		}
	}

	schema := arrow.NewSchema(fields, nil)
	rec := array.NewRecord(schema, arrs, int64(t.NumRows()))
	defer rec.Release()
	for _, a := range arrs {
		defer a.Release()
	}

	tbl := array.NewTableFromRecords(schema, []arrow.Record{rec})
	if tbl.NumRows() != int64(t.NumRows()) {
		tbl.Release()
		return nil, fmt.Errorf("arrow conversion produced %d rows, expected %d", tbl.NumRows(), t.NumRows())
	}
	return tbl, nil
}

// validity converts a missing mask into an Arrow validity slice.
func validity(missing []bool) []bool {
	valid := make([]bool, len(missing))
	for i, m := range missing {
		valid[i] = !m
	}
	return valid
}
