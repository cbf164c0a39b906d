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

// Package chartspec turns a loaded table and an axis selection into a
// normalized chart request for the renderer.
package chartspec

import (
	"errors"
	"fmt"
	"math"
	"time"

	"simviz/table"
)

// Mark selects how series are drawn.
type Mark int

const (
	// MarkLine connects consecutive points.
	MarkLine Mark = iota
	// MarkScatter draws unconnected points.
	MarkScatter
)

// String returns the string representation of a Mark.
func (m Mark) String() string {
	switch m {
	case MarkLine:
		return "Line"
	case MarkScatter:
		return "Scatter"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// ErrNoSeries is returned when Build is called with no y-axis columns.
var ErrNoSeries = errors.New("no y-axis column selected")

// Stats summarizes the non-missing values of one series.
type Stats struct {
	Count int
	Mean  float64
	Min   float64
	Max   float64
	// Std is the sample standard deviation (N-1). It is only meaningful
	// when HasStd is true, which requires Count > 1.
	Std    float64
	HasStd bool
}

// Axis is the x-axis of a request. Numeric columns populate Nums,
// timestamp columns populate Times, and text columns fall back to row
// labels; Labels is always populated for display.
type Axis struct {
	Name    string
	Kind    table.ColumnKind
	Nums    []float64
	Times   []time.Time
	Labels  []string
	Missing []bool
}

// Series is one y-axis column with its values and summary statistics.
type Series struct {
	Name    string
	Values  []float64
	Missing []bool
	Stats   Stats
}

// Request is a normalized, immutable description of one chart: the
// x-axis, the selected series, and their statistics. It is rebuilt from
// scratch on every selection change.
type Request struct {
	Title  string
	Mark   Mark
	X      Axis
	Series []Series
}

// Build validates the selection against the table and computes per-series
// statistics. xColumn and every yColumn must exist in the table, else it
// returns table.ErrUnknownColumn naming the offending column. Duplicate
// y-columns collapse to one series; yColumns must be non-empty. Missing
// values are excluded from Count, Mean, Min, Max and Std.
//
// Build is a pure function of its inputs.
func Build(t *table.Table, xColumn string, yColumns []string) (*Request, error) {
	if len(yColumns) == 0 {
		return nil, ErrNoSeries
	}

	xCol, err := t.Column(xColumn)
	if err != nil {
		return nil, err
	}

	req := &Request{
		Title: t.Name(),
		X:     buildAxis(xCol),
	}

	seen := make(map[string]bool, len(yColumns))
	for _, name := range yColumns {
		if seen[name] {
			continue
		}
		seen[name] = true

		yCol, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		vals, mask, err := yCol.Float64s()
		if err != nil {
			return nil, err
		}

		req.Series = append(req.Series, Series{
			Name:    name,
			Values:  vals,
			Missing: mask,
			Stats:   summarize(vals, mask),
		})
	}

	return req, nil
}

func buildAxis(c *table.Column) Axis {
	ax := Axis{
		Name:    c.Name(),
		Kind:    c.Kind(),
		Labels:  make([]string, c.Len()),
		Missing: make([]bool, c.Len()),
	}
	for i := 0; i < c.Len(); i++ {
		ax.Labels[i] = c.Cell(i)
		ax.Missing[i] = c.Missing(i)
	}

	switch c.Kind() {
	case table.KindNumeric:
		ax.Nums, _, _ = c.Float64s()
	case table.KindTimestamp:
		ax.Times, _, _ = c.Times()
	}
	return ax
}

// summarize computes count, mean, min, max and sample standard deviation
// over the non-missing values.
func summarize(vals []float64, missing []bool) Stats {
	var s Stats
	sum := 0.0
	for i, v := range vals {
		if missing[i] {
			continue
		}
		if s.Count == 0 {
			s.Min, s.Max = v, v
		} else {
			s.Min = math.Min(s.Min, v)
			s.Max = math.Max(s.Max, v)
		}
		sum += v
		s.Count++
	}
	if s.Count == 0 {
		return s
	}
	s.Mean = sum / float64(s.Count)

	if s.Count > 1 {
		sq := 0.0
		for i, v := range vals {
			if missing[i] {
				continue
			}
			d := v - s.Mean
			sq += d * d
		}
		s.Std = math.Sqrt(sq / float64(s.Count-1))
		s.HasStd = true
	}
	return s
}
