package grid

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/pimops/pigman/internal/errs"
)

// FromWorkbook reads the first worksheet of an xlsx stream into a Grid.
// The sheet is read without header interpretation; every cell arrives as
// display text, cleaned of invalid UTF-8.
func FromWorkbook(r io.Reader) (Grid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Grid{}, errs.Wrap(errs.KindInput, "grid.FromWorkbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Grid{}, errs.New(errs.KindInput, "grid.FromWorkbook", "workbook has no worksheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Grid{}, errs.Wrap(errs.KindInput, "grid.FromWorkbook",
			fmt.Errorf("reading sheet %q: %w", sheets[0], err))
	}

	for _, row := range rows {
		for i, cell := range row {
			row[i] = cleanCell(cell)
		}
	}

	return New(rows), nil
}
