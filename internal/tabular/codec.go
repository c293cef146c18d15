package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/pimops/pigman/internal/errs"
)

func init() {
	RegisterDecoder(FormatCSV, DecodeCSV)
	RegisterDecoder(FormatExcel, DecodeExcel)
}

// DecodeCSV parses CSV bytes into a Table. The first row is the header.
// Ragged rows are tolerated and padded; fully empty rows are dropped.
func DecodeCSV(data []byte) (Table, error) {
	r := csv.NewReader(bytes.NewReader(sanitizeUTF8(data)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return Table{}, errs.Wrap(errs.KindInput, "tabular.DecodeCSV", err)
	}
	if len(records) == 0 {
		return Table{}, errs.New(errs.KindInput, "tabular.DecodeCSV", "empty file")
	}

	header := records[0]
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	t := Table{Columns: header}
	for _, row := range records[1:] {
		if isEmptyRow(row) {
			continue
		}
		t.AppendRow(row)
	}
	return t, nil
}

// DecodeExcel parses the first worksheet of an xlsx file into a Table.
// The first row is the header.
func DecodeExcel(data []byte) (Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return Table{}, errs.Wrap(errs.KindInput, "tabular.DecodeExcel", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, errs.New(errs.KindInput, "tabular.DecodeExcel", "workbook has no worksheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Table{}, errs.Wrap(errs.KindInput, "tabular.DecodeExcel",
			fmt.Errorf("reading sheet %q: %w", sheets[0], err))
	}
	if len(rows) == 0 {
		return Table{}, errs.New(errs.KindInput, "tabular.DecodeExcel", "empty worksheet")
	}

	header := rows[0]
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	t := Table{Columns: header}
	for _, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}
		t.AppendRow(row)
	}
	return t, nil
}

// EncodeExcel writes the table as a single-sheet xlsx workbook, header row
// first. This is the export artifact encoding.
func EncodeExcel(t Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("tabular.EncodeExcel: header row: %w", err)
	}

	for i, row := range t.Rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		ref, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("tabular.EncodeExcel: row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(sheet, ref, &cells); err != nil {
			return nil, fmt.Errorf("tabular.EncodeExcel: row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("tabular.EncodeExcel: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitizeUTF8 replaces invalid byte sequences so the csv reader never
// chokes on exported-from-elsewhere files.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
