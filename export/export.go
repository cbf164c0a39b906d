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

package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"simviz/table"
)

// Format represents the supported export formats.
type Format int

const (
	FormatParquet Format = iota
	FormatCSV
	FormatJSON
)

// ToParquet writes the table to a Parquet file with Snappy compression.
func ToParquet(t *table.Table, filePath string) error {
	atbl, err := ArrowTable(t)
	if err != nil {
		return fmt.Errorf("failed to convert table: %w", err)
	}
	defer atbl.Release()

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer file.Close()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	writer, err := pqarrow.NewFileWriter(atbl.Schema(), file, props, arrowProps)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	defer writer.Close()

	if err := writer.WriteTable(atbl, atbl.NumRows()); err != nil {
		return fmt.Errorf("failed to write table to parquet: %w", err)
	}

	return nil
}

// ToCSV writes the table to a comma-delimited file with a header row.
// Missing cells are written as empty fields.
func ToCSV(t *table.Table, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(t.Columns()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	row := make([]string, t.NumCols())
	for r := 0; r < t.NumRows(); r++ {
		for c := 0; c < t.NumCols(); c++ {
			cell, err := t.Cell(r, c)
			if err != nil {
				return fmt.Errorf("failed to read cell: %w", err)
			}
			row[c] = cell
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return nil
}

// ToJSON writes the table as an indented JSON array of row objects,
// with numeric and timestamp cells preserved as typed values and
// missing cells as null.
func ToJSON(t *table.Table, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer file.Close()

	records := make([]map[string]interface{}, 0, t.NumRows())
	for r := 0; r < t.NumRows(); r++ {
		record := make(map[string]interface{}, t.NumCols())
		for c := 0; c < t.NumCols(); c++ {
			col, err := t.ColumnIndex(c)
			if err != nil {
				return err
			}
			record[col.Name()] = typedValue(col, r)
		}
		records = append(records, record)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

// typedValue returns the cell as a JSON-friendly typed value.
func typedValue(col *table.Column, row int) interface{} {
	if col.Missing(row) {
		return nil
	}

	switch col.Kind() {
	case table.KindNumeric:
		vals, _, _ := col.Float64s()
		return vals[row]
	case table.KindTimestamp:
		times, _, _ := col.Times()
		return times[row].Format(time.RFC3339Nano)
	default:
		return col.Cell(row)
	}
}
