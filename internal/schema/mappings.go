package schema

// CellMapping ties one record field to its source coordinate in the PIG
// workbook template ("B3" style: letter column, 1-indexed row). A mapping
// with an empty Cell has no source in the template and always maps to
// Sentinel; those fields are populated later by the operator or not at all.
type CellMapping struct {
	Field string
	Cell  string
}

// Mappings is the fixed cell-to-field table for the PIG template, in
// canonical export column order. The coordinates are a contract with the
// template and must not shift.
var Mappings = []CellMapping{
	{Field: "Item", Cell: "B3"},
	{Field: "Category"},
	{Field: "About"},
	{Field: "Bullet Copy"},
	{Field: "Heading"},
	{Field: "Spanish Bullet Copy"},
	{Field: "Subheading"},
	{Field: "Enhanced Product Name", Cell: "B5"},
	{Field: "Bullet Copy 1", Cell: "A11"},
	{Field: "Bullet Copy 2", Cell: "A12"},
	{Field: "Bullet Copy 3", Cell: "A13"},
	{Field: "Bullet Copy 4", Cell: "A14"},
	{Field: "Bullet Copy 5", Cell: "A15"},
	{Field: "Bullet Copy 6", Cell: "A16"},
	{Field: "Bullet Copy 7", Cell: "A17"},
	{Field: "Bullet Copy 8", Cell: "A18"},
	{Field: "Bullet Copy 9", Cell: "A19"},
	{Field: "Bullet Copy 10", Cell: "A20"},
	{Field: "Feature/Benefit 1", Cell: "B11"},
	{Field: "Feature/Benefit 2", Cell: "B12"},
	{Field: "FeatureBenefit 3", Cell: "B13"},
	{Field: "Feature/Benefit 4", Cell: "B14"},
	{Field: "FeatureBenefit 5", Cell: "B15"},
	{Field: "Feature/Benefit 6", Cell: "B16"},
	{Field: "Feature/Benefit 7", Cell: "B17"},
	{Field: "Feature/Benefit 8", Cell: "B18"},
	{Field: "Feature/Benefit 9", Cell: "B19"},
	{Field: "Feature/Benefit 10", Cell: "B20"},
	{Field: "Keywords", Cell: "B10"},
	{Field: "Long Description", Cell: "B9"},
	{Field: "Product ID", Cell: "B3"},
	{Field: "Product Title", Cell: "B4"},
	{Field: "SEO Enhanced Bullets 1", Cell: "C11"},
	{Field: "SEO Enhanced Bullets 2", Cell: "C12"},
	{Field: "SEO Enhanced Bullets 3", Cell: "C13"},
	{Field: "SEO Enhanced Bullets 4", Cell: "C14"},
	{Field: "SEO Enhanced Bullets 5", Cell: "C15"},
	{Field: "SEO Enhanced Bullets 6", Cell: "C16"},
	{Field: "SEO Enhanced Bullets 7", Cell: "C17"},
	{Field: "SEO Enhanced Bullets 8", Cell: "C18"},
	{Field: "SEO Enhanced Bullets 9", Cell: "C19"},
	{Field: "SEO Enhanced Bullets 10", Cell: "C20"},
	{Field: "Short Description", Cell: "B8"},
	{Field: "USP", Cell: "B6"},
	{Field: "Brand", Cell: "B2"},
}

// MappedFieldCount is the number of template fields with a source coordinate.
func MappedFieldCount() int {
	n := 0
	for _, m := range Mappings {
		if m.Cell != "" {
			n++
		}
	}
	return n
}
