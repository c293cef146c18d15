// Package tabular provides the generic table model the application moves
// between formats: named columns over rows of text cells. It carries the
// format codecs (CSV, Excel, Parquet via registration) and the progressive
// filter engine used by the dataset views.
package tabular

import "sort"

// Table is a rectangular block of text data. Every row has exactly
// len(Columns) cells; codecs pad or truncate on the way in.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// New returns an empty table with the given columns.
func New(columns ...string) Table {
	return Table{Columns: columns}
}

// ColumnIndex returns the position of a named column.
func (t Table) ColumnIndex(name string) (int, bool) {
	for i, c := range t.Columns {
		if c == name {
			return i, true
		}
	}
	return 0, false
}

// AppendRow adds a row, padding or truncating it to the table width.
func (t *Table) AppendRow(row []string) {
	t.Rows = append(t.Rows, fitRow(row, len(t.Columns)))
}

// RowCount returns the number of data rows.
func (t Table) RowCount() int {
	return len(t.Rows)
}

// Empty reports whether the table has no data rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// Column returns all values of one column in row order. Unknown columns
// yield nil.
func (t Table) Column(name string) []string {
	i, ok := t.ColumnIndex(name)
	if !ok {
		return nil
	}
	vals := make([]string, len(t.Rows))
	for j, row := range t.Rows {
		vals[j] = row[i]
	}
	return vals
}

// DistinctValues returns the sorted distinct values of one column. Empty
// strings are kept: an empty cell is a real value to a filter.
func (t Table) DistinctValues(column string) []string {
	i, ok := t.ColumnIndex(column)
	if !ok {
		return nil
	}
	seen := make(map[string]struct{}, len(t.Rows))
	for _, row := range t.Rows {
		seen[row[i]] = struct{}{}
	}
	vals := make([]string, 0, len(seen))
	for v := range seen {
		vals = append(vals, v)
	}
	sort.Strings(vals)
	return vals
}

// DistinctCount returns the number of distinct values in one column.
func (t Table) DistinctCount(column string) int {
	return len(t.DistinctValues(column))
}

// fitRow pads or truncates a row to the given width.
func fitRow(row []string, width int) []string {
	if len(row) == width {
		return row
	}
	fitted := make([]string, width)
	copy(fitted, row)
	return fitted
}
