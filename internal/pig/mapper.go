// Package pig turns uploaded Product Information Guide workbooks into
// dataset records: a fixed cell-coordinate mapper, the entry validation
// rules, and the normalization applied when an operator accepts a record.
package pig

import (
	"github.com/pimops/pigman/internal/grid"
	"github.com/pimops/pigman/internal/schema"
)

// MappingSummary reports how a workbook mapped, for the operator-facing
// summary. Mapped and Defaulted split the Expected coordinate-bearing
// fields; fields with no template coordinate are not counted. The summary
// never affects control flow: a workbook where every field defaulted still
// produces a usable record.
type MappingSummary struct {
	Mapped    int `json:"mapped"`    // template cells holding a value
	Defaulted int `json:"defaulted"` // template cells empty or unreadable
	Expected  int `json:"expected"`  // fields with a template coordinate
}

// MapGrid applies the template cell mappings to a workbook grid and returns
// the mapped record. Every field in the mapping table gets a value: the
// trimmed cell text when the coordinate holds one, the sentinel otherwise.
// Fields without a template coordinate always receive the sentinel.
func MapGrid(g grid.Grid) (schema.Record, MappingSummary) {
	var r schema.Record
	sum := MappingSummary{Expected: schema.MappedFieldCount()}

	for _, m := range schema.Mappings {
		val := schema.Sentinel
		if m.Cell != "" {
			if v, ok := g.Cell(m.Cell); ok {
				val = v
			}
			if val == schema.Sentinel {
				sum.Defaulted++
			} else {
				sum.Mapped++
			}
		}
		r.SetValue(m.Field, val)
	}
	return r, sum
}
