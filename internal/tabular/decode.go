// Package tabular turns human-exported delimited text and spreadsheets into
// header-keyed rows. Decoding never fails: malformed input degrades to empty
// fields.
package tabular

import (
	"regexp"
	"strconv"
	"strings"
)

var lineBreak = regexp.MustCompile(`\r?\n`)

// Field is one header/value pair of a decoded row.
type Field struct {
	Header string
	Value  string
}

// Row is one decoded data line. Line is the 1-based position among the data
// rows of its file.
type Row struct {
	Line   int
	Fields []Field
}

// Get returns the value stored under header, matching exactly.
func (r Row) Get(header string) (string, bool) {
	for _, f := range r.Fields {
		if f.Header == header {
			return f.Value, true
		}
	}
	return "", false
}

// Headers returns the row's headers in their original order.
func (r Row) Headers() []string {
	out := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		out[i] = f.Header
	}
	return out
}

// Decode splits text into rows keyed by the first non-blank line. Files with
// fewer than two non-blank lines decode to nothing.
func Decode(text string) []Row {
	lines := make([]string, 0, 64)
	for _, line := range lineBreak.Split(text, -1) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) < 2 {
		return nil
	}

	records := make([][]string, len(lines))
	for i, line := range lines {
		records[i] = splitLine(line)
	}
	return buildRows(records[0], records[1:])
}

// splitLine splits on commas outside double quotes. Quote characters only
// toggle quoting and are dropped from the output.
func splitLine(line string) []string {
	fields := make([]string, 0, 16)
	var b strings.Builder
	inQuotes := false
	for _, ch := range line {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
		case ch == ',' && !inQuotes:
			fields = append(fields, b.String())
			b.Reset()
		default:
			b.WriteRune(ch)
		}
	}
	fields = append(fields, b.String())
	return fields
}

func buildRows(header []string, data [][]string) []Row {
	headers := normalizeHeaderRow(header)
	rows := make([]Row, 0, len(data))
	for idx, record := range data {
		width := len(headers)
		if len(record) > width {
			width = len(record)
		}
		fields := make([]Field, width)
		for i := 0; i < width; i++ {
			name := ""
			if i < len(headers) {
				name = headers[i]
			}
			if name == "" {
				name = "col_" + strconv.Itoa(i)
			}
			value := ""
			if i < len(record) {
				value = record[i]
			}
			fields[i] = Field{Header: name, Value: value}
		}
		rows = append(rows, Row{Line: idx + 1, Fields: fields})
	}
	return rows
}

func normalizeHeaderRow(row []string) []string {
	headers := make([]string, len(row))
	for i, col := range row {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
	}
	return headers
}
