// Package schema defines the canonical PIG record layout: the fixed column
// order shared by the dataset partitions and the published export, the Record
// type, and the cell-coordinate mapping for the PIG workbook template.
//
// Column order is a compatibility contract with downstream consumers, not a
// cosmetic choice. Two Feature/Benefit columns are spelled without the slash
// ("FeatureBenefit 3", "FeatureBenefit 5"); the irregular names are a domain
// convention carried by the live dataset and must be preserved exactly.
package schema

// Sentinel is the placeholder assigned to every field the cell mapper could
// not read from the workbook. It is translated to an empty string before a
// record enters the dataset.
const Sentinel = "not in pig"

// Well-known field names.
const (
	FieldItem         = "Item"
	FieldCategory     = "Category"
	FieldStatus       = "Status"
	FieldProductID    = "Product ID"
	FieldProductTitle = "Product Title"
	FieldBrand        = "Brand"
)

// Status partition values. The mixed casing matches the live dataset.
const (
	StatusActive   = "active"
	StatusNew      = "New"
	StatusObsolete = "Obsolete"
)

// DefaultStatuses lists the partitions loaded at session bootstrap, essential
// partition first.
var DefaultStatuses = []string{StatusActive, StatusNew, StatusObsolete}

// Columns is the canonical 46-column order of the persisted dataset,
// including the internal Status column.
var Columns = []string{
	"Item",
	"Category",
	"About",
	"Status",
	"Bullet Copy",
	"Heading",
	"Spanish Bullet Copy",
	"Subheading",
	"Enhanced Product Name",
	"Bullet Copy 1",
	"Bullet Copy 2",
	"Bullet Copy 3",
	"Bullet Copy 4",
	"Bullet Copy 5",
	"Bullet Copy 6",
	"Bullet Copy 7",
	"Bullet Copy 8",
	"Bullet Copy 9",
	"Bullet Copy 10",
	"Feature/Benefit 1",
	"Feature/Benefit 2",
	"FeatureBenefit 3",
	"Feature/Benefit 4",
	"FeatureBenefit 5",
	"Feature/Benefit 6",
	"Feature/Benefit 7",
	"Feature/Benefit 8",
	"Feature/Benefit 9",
	"Feature/Benefit 10",
	"Keywords",
	"Long Description",
	"Product ID",
	"Product Title",
	"SEO Enhanced Bullets 1",
	"SEO Enhanced Bullets 2",
	"SEO Enhanced Bullets 3",
	"SEO Enhanced Bullets 4",
	"SEO Enhanced Bullets 5",
	"SEO Enhanced Bullets 6",
	"SEO Enhanced Bullets 7",
	"SEO Enhanced Bullets 8",
	"SEO Enhanced Bullets 9",
	"SEO Enhanced Bullets 10",
	"Short Description",
	"USP",
	"Brand",
}

// ExportColumns is the published column order: Columns without the internal
// Status column. In the export workbook these occupy the range A-AS.
var ExportColumns = buildExportColumns()

var columnIndex = buildColumnIndex()

func buildExportColumns() []string {
	cols := make([]string, 0, len(Columns)-1)
	for _, c := range Columns {
		if c == FieldStatus {
			continue
		}
		cols = append(cols, c)
	}
	return cols
}

func buildColumnIndex() map[string]int {
	idx := make(map[string]int, len(Columns))
	for i, c := range Columns {
		idx[c] = i
	}
	return idx
}

// ColumnIndex returns the position of a column in the canonical order.
func ColumnIndex(name string) (int, bool) {
	i, ok := columnIndex[name]
	return i, ok
}

// PlaceholderItems are the Item markers written by incomplete PIG templates.
// Rows carrying one are dropped at upsert time as a dataset-quality guard.
var PlaceholderItems = []string{"no item", "no_item"}

// IsPlaceholderItem reports whether an Item value is a placeholder marker.
func IsPlaceholderItem(item string) bool {
	for _, p := range PlaceholderItems {
		if item == p {
			return true
		}
	}
	return false
}
