// Package grid gives coordinate access to headerless worksheet data.
//
// PIG templates are addressed the way the template authors think about them:
// letter columns and 1-indexed rows ("B3" holds the item number). A Grid is
// the raw cell matrix of one worksheet; it knows nothing about fields or
// records, only coordinates and bounds.
package grid

import (
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// Grid is a 2-D matrix of cell values with ragged rows, exactly as the
// worksheet stores them.
type Grid struct {
	rows [][]string
}

// New builds a Grid from raw rows. The slice is retained, not copied.
func New(rows [][]string) Grid {
	return Grid{rows: rows}
}

// RowCount returns the number of rows in the grid.
func (g Grid) RowCount() int {
	return len(g.rows)
}

// Cell returns the trimmed value at a template coordinate such as "B3".
// It reports false when the reference does not parse, the coordinate lies
// outside the grid, or the cell is empty after trimming. Callers treat all
// three the same way: the field is absent from this PIG.
func (g Grid) Cell(ref string) (string, bool) {
	col, row, err := ParseRef(ref)
	if err != nil {
		return "", false
	}
	if row > len(g.rows) {
		return "", false
	}
	cells := g.rows[row-1]
	if col > len(cells) {
		return "", false
	}
	val := strings.TrimSpace(cells[col-1])
	if val == "" {
		return "", false
	}
	return val, true
}

// ParseRef parses a template coordinate into 1-indexed column and row.
func ParseRef(ref string) (col, row int, err error) {
	return excelize.CellNameToCoordinates(ref)
}

// cleanCell repairs values coming out of the workbook: invalid UTF-8 is
// replaced rune by rune and stray null bytes are dropped, so cell text is
// always safe to store and render.
func cleanCell(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	if utf8.ValidString(s) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteRune('�')
			i++
		} else {
			b.WriteRune(r)
			i += size
		}
	}
	return b.String()
}
