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

package table

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// detectSeparator picks the delimiter with the highest count in the
// header line. Defaults to comma.
func detectSeparator(header string) rune {
	separators := map[rune]int{
		',':  strings.Count(header, ","),
		';':  strings.Count(header, ";"),
		'\t': strings.Count(header, "\t"),
		'|':  strings.Count(header, "|"),
	}

	maxCount := 0
	detected := ','
	for sep, count := range separators {
		if count > maxCount {
			maxCount = count
			detected = sep
		}
	}
	return detected
}

// SeparatorName returns a human-readable name for the separator.
func SeparatorName(sep rune) string {
	switch sep {
	case ',':
		return "comma"
	case ';':
		return "semicolon"
	case '\t':
		return "tab"
	case '|':
		return "pipe"
	default:
		return string(sep)
	}
}

// Load reads the delimited file at path into a Table.
//
// Returns ErrNotFound if the path is missing, ErrParse if the header row
// is absent or rows have inconsistent field counts, and ErrEmptyData if
// zero data rows remain after parsing. Re-reads are idempotent.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return Read(bufio.NewReader(f), filepath.Base(path))
}

// Read parses delimited text into a Table. The name is used for display
// only. The delimiter is detected from the header line.
func Read(r io.Reader, name string) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	text := strings.TrimLeft(string(data), "\uFEFF") // strip UTF-8 BOM
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: missing header row", ErrParse)
	}

	headerLine := text
	if idx := strings.IndexAny(text, "\r\n"); idx >= 0 {
		headerLine = text[:idx]
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = detectSeparator(headerLine)

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: missing header row", ErrParse)
	}

	seen := make(map[string]bool, len(headers))
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
		if headers[i] == "" {
			return nil, fmt.Errorf("%w: empty header name in field %d", ErrParse, i+1)
		}
		if seen[headers[i]] {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrParse, headers[i])
		}
		seen[headers[i]] = true
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s has a header but no data rows", ErrEmptyData, name)
	}

	t := &Table{
		name:    name,
		cols:    make([]*Column, len(headers)),
		byName:  make(map[string]int, len(headers)),
		numRows: len(rows),
	}

	hasNumeric := false
	for i, h := range headers {
		col := buildColumn(h, i, rows)
		t.cols[i] = col
		t.byName[h] = i
		if col.kind == KindNumeric {
			hasNumeric = true
		}
	}

	if !hasNumeric {
		return nil, fmt.Errorf("%w: %s has no numeric column", ErrParse, name)
	}

	return t, nil
}

// isMissing reports whether a trimmed cell counts as a missing value.
func isMissing(s string) bool {
	switch strings.ToLower(s) {
	case "", "null", "n/a", "na", "nan":
		return true
	}
	return false
}

func parseNumeric(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Timestamp layouts tried in order during inference.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"15:04:05",
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// buildColumn infers the kind of a column from its cells and materializes
// the typed values. A kind wins when at least 80% of the non-missing
// cells parse as it; numeric is preferred over timestamp, text is the
// fallback.
func buildColumn(name string, index int, rows [][]string) *Column {
	col := &Column{
		name:    name,
		raw:     make([]string, len(rows)),
		missing: make([]bool, len(rows)),
	}

	numCount, tsCount, present := 0, 0, 0
	for r, row := range rows {
		var cell string
		if index < len(row) {
			cell = strings.TrimSpace(row[index])
		}
		col.raw[r] = cell
		if isMissing(cell) {
			col.missing[r] = true
			continue
		}
		present++
		if _, ok := parseNumeric(cell); ok {
			numCount++
		}
		if _, ok := parseTimestamp(cell); ok {
			tsCount++
		}
	}

	threshold := int(float64(present) * 0.8)
	switch {
	case present > 0 && numCount >= threshold && numCount > 0:
		col.kind = KindNumeric
	case present > 0 && tsCount >= threshold && tsCount > 0:
		col.kind = KindTimestamp
	default:
		col.kind = KindText
		return col
	}

	if col.kind == KindNumeric {
		col.nums = make([]float64, len(rows))
		for r := range col.raw {
			if col.missing[r] {
				continue
			}
			f, ok := parseNumeric(col.raw[r])
			if !ok {
				col.missing[r] = true
				continue
			}
			col.nums[r] = f
		}
		return col
	}

	col.times = make([]time.Time, len(rows))
	for r := range col.raw {
		if col.missing[r] {
			continue
		}
		ts, ok := parseTimestamp(col.raw[r])
		if !ok {
			col.missing[r] = true
			continue
		}
		col.times[r] = ts
	}
	return col
}
