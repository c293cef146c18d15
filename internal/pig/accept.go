package pig

import (
	"strings"

	"github.com/pimops/pigman/internal/schema"
)

// Normalize prepares an accepted record for the dataset. The operator's
// category and status selections overwrite whatever the record carried,
// every field is trimmed, and sentinel placeholders become empty strings.
// The returned record is dataset-shaped; the input is left untouched.
func Normalize(r schema.Record, category, status string) schema.Record {
	out := r
	for _, col := range schema.Columns {
		v, _ := out.Value(col)
		v = strings.TrimSpace(v)
		if v == schema.Sentinel {
			v = ""
		}
		out.SetValue(col, v)
	}
	out.SetValue(schema.FieldCategory, category)
	out.SetValue(schema.FieldStatus, status)
	return out
}
