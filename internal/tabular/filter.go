package tabular

// filter.go implements progressive column filtering: step N sees only the
// data that survived steps 1..N-1, and each step offers only values present
// in that narrowed data, so later steps can never ask for impossible
// combinations. Slot management (a fresh empty slot appears once the last
// one is in use) lives here too, so every surface gets the same behavior.

// Step is one (column, selected values) filter. A step missing either part
// is inactive and skipped during application.
type Step struct {
	Column string   `json:"column"`
	Values []string `json:"values"`
}

// Active reports whether the step narrows anything.
func (s Step) Active() bool {
	return s.Column != "" && len(s.Values) > 0
}

// Filter is an ordered list of steps applied progressively.
type Filter struct {
	Steps []Step `json:"steps"`
}

// Apply runs all active steps in index order and returns the narrowed table.
// The input table is not modified; row slices are shared, not copied.
func (f Filter) Apply(t Table) Table {
	return f.applyUpTo(t, len(f.Steps))
}

// NarrowedAt returns the table as step i sees it: narrowed by the active
// steps before it, untouched by step i itself and anything after.
func (f Filter) NarrowedAt(t Table, i int) Table {
	if i < 0 {
		i = 0
	}
	if i > len(f.Steps) {
		i = len(f.Steps)
	}
	return f.applyUpTo(t, i)
}

// OptionsAt returns the values step i may offer: the sorted distinct values
// of its column within the data narrowed by the steps before it. A step
// with no column chosen yet has no options.
func (f Filter) OptionsAt(t Table, i int) []string {
	if i < 0 || i >= len(f.Steps) || f.Steps[i].Column == "" {
		return nil
	}
	return f.NarrowedAt(t, i).DistinctValues(f.Steps[i].Column)
}

// EnsureTrailingSlot appends an empty step when the last slot has a column
// chosen (or when there are no slots at all), so the operator always has a
// place to add the next filter.
func (f *Filter) EnsureTrailingSlot() {
	if len(f.Steps) == 0 || f.Steps[len(f.Steps)-1].Column != "" {
		f.Steps = append(f.Steps, Step{})
	}
}

// ActiveCount returns the number of steps that actually narrow data.
func (f Filter) ActiveCount() int {
	n := 0
	for _, s := range f.Steps {
		if s.Active() {
			n++
		}
	}
	return n
}

// Summary describes a filter run for display.
type Summary struct {
	TotalRows    int `json:"total_rows"`
	FilteredRows int `json:"filtered_rows"`
	ActiveSteps  int `json:"active_steps"`
}

// Summarize applies the filter and reports row counts before and after.
func (f Filter) Summarize(t Table) Summary {
	return Summary{
		TotalRows:    t.RowCount(),
		FilteredRows: f.Apply(t).RowCount(),
		ActiveSteps:  f.ActiveCount(),
	}
}

func (f Filter) applyUpTo(t Table, n int) Table {
	out := t
	for _, s := range f.Steps[:n] {
		if !s.Active() {
			continue
		}
		out = applyStep(out, s)
	}
	return out
}

func applyStep(t Table, s Step) Table {
	col, ok := t.ColumnIndex(s.Column)
	if !ok {
		return t
	}
	want := make(map[string]struct{}, len(s.Values))
	for _, v := range s.Values {
		want[v] = struct{}{}
	}

	narrowed := Table{Columns: t.Columns}
	for _, row := range t.Rows {
		if _, hit := want[row[col]]; hit {
			narrowed.Rows = append(narrowed.Rows, row)
		}
	}
	return narrowed
}
