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

// Package table loads delimited simulation output into an immutable
// in-memory columnar table.
package table

import (
	"fmt"
	"time"
)

// ColumnKind represents the inferred scalar type of a column.
type ColumnKind int

const (
	// KindText represents free-form string data.
	KindText ColumnKind = iota
	// KindNumeric represents floating-point data.
	KindNumeric
	// KindTimestamp represents date or date-time data.
	KindTimestamp
)

// String returns the string representation of a ColumnKind.
func (k ColumnKind) String() string {
	switch k {
	case KindText:
		return "Text"
	case KindNumeric:
		return "Numeric"
	case KindTimestamp:
		return "Timestamp"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Column is a single named column. All cells share one kind; cells that
// failed to parse as that kind (or were blank/null in the file) are
// flagged in the missing mask.
type Column struct {
	name    string
	kind    ColumnKind
	raw     []string // original cell text, for display
	nums    []float64
	times   []time.Time
	missing []bool
}

// Name returns the column's header name.
func (c *Column) Name() string { return c.name }

// Kind returns the column's inferred kind.
func (c *Column) Kind() ColumnKind { return c.kind }

// Len returns the number of rows in the column.
func (c *Column) Len() int { return len(c.raw) }

// Missing reports whether the cell at row i holds no usable value.
func (c *Column) Missing(i int) bool { return c.missing[i] }

// Cell returns the original cell text at row i.
func (c *Column) Cell(i int) string { return c.raw[i] }

// Float64s returns the numeric values and the missing mask.
// Only valid for KindNumeric columns; other kinds return ErrTypeMismatch.
func (c *Column) Float64s() ([]float64, []bool, error) {
	if c.kind != KindNumeric {
		return nil, nil, fmt.Errorf("%w: column %q is %s, not Numeric", ErrTypeMismatch, c.name, c.kind)
	}
	return c.nums, c.missing, nil
}

// Times returns the timestamp values and the missing mask.
// Only valid for KindTimestamp columns.
func (c *Column) Times() ([]time.Time, []bool, error) {
	if c.kind != KindTimestamp {
		return nil, nil, fmt.Errorf("%w: column %q is %s, not Timestamp", ErrTypeMismatch, c.name, c.kind)
	}
	return c.times, c.missing, nil
}

// Table is an ordered set of equal-length named columns loaded from one
// file. It is immutable after Load returns.
type Table struct {
	name    string
	cols    []*Column
	byName  map[string]int
	numRows int
}

// Name returns the table's display name (usually the file base name).
func (t *Table) Name() string { return t.name }

// NumRows returns the number of data rows.
func (t *Table) NumRows() int { return t.numRows }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.cols) }

// Columns returns the column names in file order.
func (t *Table) Columns() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.name
	}
	return names
}

// NumericColumns returns the names of all numeric columns, in file order.
func (t *Table) NumericColumns() []string {
	var names []string
	for _, c := range t.cols {
		if c.kind == KindNumeric {
			names = append(names, c.name)
		}
	}
	return names
}

// Column returns the named column.
// Returns ErrUnknownColumn naming the column if it does not exist.
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	return t.cols[i], nil
}

// ColumnIndex returns the column at position i.
// Returns ErrInvalidColumn if i is out of range.
func (t *Table) ColumnIndex(i int) (*Column, error) {
	if i < 0 || i >= len(t.cols) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidColumn, i)
	}
	return t.cols[i], nil
}

// Cell returns the display text at the given row and column.
// Returns ErrInvalidRow or ErrInvalidColumn when out of range.
func (t *Table) Cell(row, col int) (string, error) {
	if col < 0 || col >= len(t.cols) {
		return "", fmt.Errorf("%w: %d", ErrInvalidColumn, col)
	}
	if row < 0 || row >= t.numRows {
		return "", fmt.Errorf("%w: %d", ErrInvalidRow, row)
	}
	return t.cols[col].raw[row], nil
}
