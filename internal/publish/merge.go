// Package publish builds and ships the downstream export: the dataset's own
// columns merged with the vendor's column block, backed up, written to blob
// storage, and transferred to the vendor endpoint.
package publish

import (
	"github.com/pimops/pigman/internal/schema"
	"github.com/pimops/pigman/internal/tabular"
)

// The vendor owns spreadsheet columns AT through BO by position. Zero-based
// that is [45,66]; a vendor file narrower than 67 columns cannot be merged.
const (
	vendorFirstColumn = 45
	vendorLastColumn  = 66
)

// ExtractVendor pulls the join key and the vendor-owned block out of the
// vendor workbook: the first column is the item identifier whatever its
// header says, followed by columns AT-BO. Reports false when the file is
// too narrow to contain the block.
func ExtractVendor(t tabular.Table) (tabular.Table, bool) {
	if len(t.Columns) <= vendorLastColumn {
		return tabular.Table{}, false
	}

	cols := make([]string, 0, vendorLastColumn-vendorFirstColumn+2)
	cols = append(cols, schema.FieldItem)
	cols = append(cols, t.Columns[vendorFirstColumn:vendorLastColumn+1]...)

	out := tabular.New(cols...)
	for _, row := range t.Rows {
		vals := make([]string, 0, len(cols))
		vals = append(vals, row[0])
		vals = append(vals, row[vendorFirstColumn:vendorLastColumn+1]...)
		out.AppendRow(vals)
	}
	return out, true
}

// MergeByItem outer-joins the two tables on Item: the key set is the union
// of both sides in first-seen order, local keys first, and each source is
// left-joined onto it. No row from either side is ever truncated; missing
// cells fill with empty strings. Duplicate keys within one source expand as
// a cross product, the join semantics the downstream feed already accepts.
//
// Output columns are the local columns followed by the vendor columns minus
// its leading Item.
func MergeByItem(local, vendor tabular.Table) tabular.Table {
	localItem, _ := local.ColumnIndex(schema.FieldItem)
	vendorItem, _ := vendor.ColumnIndex(schema.FieldItem)

	cols := make([]string, 0, len(local.Columns)+len(vendor.Columns)-1)
	cols = append(cols, local.Columns...)
	for i, c := range vendor.Columns {
		if i == vendorItem {
			continue
		}
		cols = append(cols, c)
	}
	out := tabular.New(cols...)

	localRows := rowsByKey(local, localItem)
	vendorRows := rowsByKey(vendor, vendorItem)

	for _, key := range unionKeys(local, localItem, vendor, vendorItem) {
		lrs := localRows[key]
		if len(lrs) == 0 {
			blank := make([]string, len(local.Columns))
			blank[localItem] = key
			lrs = [][]string{blank}
		}
		vrs := vendorRows[key]
		if len(vrs) == 0 {
			vrs = [][]string{make([]string, len(vendor.Columns))}
		}

		for _, lr := range lrs {
			for _, vr := range vrs {
				row := make([]string, 0, len(cols))
				row = append(row, lr...)
				for i, v := range vr {
					if i == vendorItem {
						continue
					}
					row = append(row, v)
				}
				out.AppendRow(row)
			}
		}
	}
	return out
}

func rowsByKey(t tabular.Table, keyIdx int) map[string][][]string {
	m := make(map[string][][]string, len(t.Rows))
	for _, row := range t.Rows {
		m[row[keyIdx]] = append(m[row[keyIdx]], row)
	}
	return m
}

func unionKeys(local tabular.Table, localIdx int, vendor tabular.Table, vendorIdx int) []string {
	seen := make(map[string]struct{}, len(local.Rows)+len(vendor.Rows))
	keys := make([]string, 0, len(local.Rows)+len(vendor.Rows))
	add := func(k string) {
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	for _, row := range local.Rows {
		add(row[localIdx])
	}
	for _, row := range vendor.Rows {
		add(row[vendorIdx])
	}
	return keys
}
