package moexdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/qg0/moexdata/date"
)

// This file contains the codec between a Table and its flat CSV form.
//
// The on-disk format is the compatibility surface for any tool reading the
// data folder: a header row naming the index column then the data columns in
// configured order, one row per observation, ISO-8601 dates, and plain
// decimal values. Decoding tolerates whitespace padding around the comma,
// which external editors like to insert.

// EncodeTable writes the table to w in its flat CSV form.
// The header names the index "DATE" followed by the table's columns.
func EncodeTable(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"DATE"}, t.Columns()...)); err != nil {
		return err
	}
	record := make([]string, 1+len(t.Columns()))
	for day, row := range t.Values() {
		record[0] = day.String()
		for i, v := range row {
			record[i+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// DecodeTable parses the flat CSV form from r according to spec: the header
// must name spec's columns, the first column is parsed as the date index and
// all remaining columns as numbers. Rows end up in chronological order;
// duplicate dates keep their written order.
func DecodeTable(r io.Reader, spec ColumnSpec) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("malformed csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("missing header row")
	}

	header := trimmed(records[0])
	want := spec.header()
	if len(header) != len(want) {
		return nil, fmt.Errorf("header %v: want %d columns %v", header, len(want), want)
	}
	for i, name := range want {
		if header[i] != name {
			return nil, fmt.Errorf("header column %d is %q, want %q", i, header[i], name)
		}
	}

	t := NewTable(spec.Columns...)
	for n, record := range records[1:] {
		record = trimmed(record)
		if len(record) == 1 && record[0] == "" {
			continue // incidental blank line
		}
		if len(record) != len(want) {
			return nil, fmt.Errorf("row %d has %d fields, want %d", n+2, len(record), len(want))
		}
		day, err := date.Parse(record[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		values := make([]float64, len(spec.Columns))
		for i, cell := range record[1:] {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: invalid number %q", n+2, spec.Columns[i], cell)
			}
			values[i] = v
		}
		t.Append(day, values...)
	}
	return t, nil
}

// trimmed strips the whitespace that editors pad around field separators.
// csv.Reader already drops space after a comma; this drops space before it.
func trimmed(record []string) []string {
	for i, cell := range record {
		record[i] = strings.TrimSpace(cell)
	}
	return record
}
