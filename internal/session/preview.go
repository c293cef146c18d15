package session

import (
	"bytes"

	"github.com/pimops/pigman/internal/grid"
	"github.com/pimops/pigman/internal/pig"
	"github.com/pimops/pigman/internal/schema"
)

// Preview is the mapped view of an uploaded PIG workbook before acceptance:
// the record as it would be stored, how much of the template was actually
// present, and any policy violations the operator has to resolve first.
type Preview struct {
	Record     schema.Record
	Summary    pig.MappingSummary
	Violations []pig.ValidationError
}

// Preview maps a PIG workbook without touching the dataset. Violations are
// reported alongside the mapped values, not returned as errors; only an
// unreadable workbook fails.
func (s *Session) Preview(workbook []byte) (Preview, error) {
	g, err := grid.FromWorkbook(bytes.NewReader(workbook))
	if err != nil {
		return Preview{}, err
	}

	rec, summary := pig.MapGrid(g)

	var violations []pig.ValidationError
	title, _ := rec.Value(schema.FieldProductTitle)
	if v := s.validator.CheckTitle(title); v != nil {
		violations = append(violations, *v)
	}

	return Preview{Record: rec, Summary: summary, Violations: violations}, nil
}
