package moexdata

import (
	"fmt"
	"iter"
	"sort"
	"strings"

	"github.com/qg0/moexdata/date"
)

// ColumnSpec describes the on-disk layout of one dataset: the name of the
// index column followed by the ordered names of the numeric data columns.
// It is fixed once per dataset kind and never changes during a key's lifetime.
type ColumnSpec struct {
	Index   string
	Columns []string
}

// header returns the full header row, index column first.
func (s ColumnSpec) header() []string {
	return append([]string{s.Index}, s.Columns...)
}

// IsSeries reports whether this spec describes a bare series, i.e. a table
// with a single data column.
func (s ColumnSpec) IsSeries() bool { return len(s.Columns) == 1 }

// Table is an ordered date-indexed table of numeric columns.
//
// Rows are kept in chronological order. Duplicate dates are allowed (some
// upstream sources emit them, e.g. two dividend payments on the same day);
// datasets at rest are expected to be strictly increasing, and adapters that
// can produce duplicates deduplicate before handing the table over.
type Table struct {
	columns []string
	days    []date.Date
	rows    [][]float64
}

// NewTable returns an empty table with the given data column names.
func NewTable(columns ...string) *Table {
	return &Table{columns: columns}
}

// Columns returns the data column names in their configured order.
func (t *Table) Columns() []string { return t.columns }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.days) }

// Day returns the date of row i.
func (t *Table) Day(i int) date.Date { return t.days[i] }

// Row returns the values of row i, in column order.
func (t *Table) Row(i int) []float64 { return t.rows[i] }

// First returns the date of the first row, or the zero date when empty.
func (t *Table) First() date.Date {
	if len(t.days) == 0 {
		return date.Date{}
	}
	return t.days[0]
}

// Last returns the date of the last row, or the zero date when empty.
func (t *Table) Last() date.Date {
	if len(t.days) == 0 {
		return date.Date{}
	}
	return t.days[len(t.days)-1]
}

// Append adds a row to the table. It panics if the number of values does not
// match the number of columns; that is a programming error, not a data error.
func (t *Table) Append(on date.Date, values ...float64) *Table {
	if len(values) != len(t.columns) {
		panic(fmt.Sprintf("table %v: appending %d values, want %d", t.columns, len(values), len(t.columns)))
	}
	t.days = append(t.days, on)
	t.rows = append(t.rows, values)
	if n := len(t.days); n > 1 && t.days[n-1].Before(t.days[n-2]) {
		t.sort()
	}
	return t
}

// chronological is a private implementation to keep a table chronologically sorted.
type chronological struct{ *Table }

func (s chronological) Len() int           { return len(s.days) }
func (s chronological) Less(i, j int) bool { return s.days[i].Before(s.days[j]) }
func (s chronological) Swap(i, j int) {
	s.days[i], s.days[j] = s.days[j], s.days[i]
	s.rows[i], s.rows[j] = s.rows[j], s.rows[i]
}

// sort restores chronological order. The sort is stable so that duplicate
// dates keep their relative order.
func (t *Table) sort() { sort.Stable(chronological{t}) }

// Values returns an iterator over all date/row pairs in chronological order.
func (t *Table) Values() iter.Seq2[date.Date, []float64] {
	return func(yield func(date.Date, []float64) bool) {
		for i, on := range t.days {
			if !yield(on, t.rows[i]) {
				return
			}
		}
	}
}

// Since returns the sub-table of rows on or after day. The returned table
// shares its backing arrays with t and must not be appended to.
func (t *Table) Since(day date.Date) *Table {
	i := sort.Search(len(t.days), func(i int) bool { return !t.days[i].Before(day) })
	return &Table{columns: t.columns, days: t.days[i:], rows: t.rows[i:]}
}

// Tail returns the sub-table of the last n rows (all rows when n >= Len).
// Like Since, the result shares its backing arrays with t.
func (t *Table) Tail(n int) *Table {
	if n >= len(t.days) {
		return t
	}
	i := len(t.days) - n
	return &Table{columns: t.columns, days: t.days[i:], rows: t.rows[i:]}
}

// String returns a short description of the table, for logs and errors.
func (t *Table) String() string {
	return fmt.Sprintf("table[%s] %d rows %s..%s", strings.Join(t.columns, ","), t.Len(), t.First(), t.Last())
}
