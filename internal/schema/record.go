package schema

import "fmt"

// Record is one product's PIG data in the canonical 46-column layout. Field
// order mirrors Columns exactly; the parquet tags carry the external column
// names, so a Record encodes straight into a partition file.
//
// All values are text. Fields the mapper could not source hold Sentinel until
// the record is normalized for acceptance.
type Record struct {
	Item                string `parquet:"Item,optional"`
	Category            string `parquet:"Category,optional"`
	About               string `parquet:"About,optional"`
	Status              string `parquet:"Status,optional"`
	BulletCopy          string `parquet:"Bullet Copy,optional"`
	Heading             string `parquet:"Heading,optional"`
	SpanishBulletCopy   string `parquet:"Spanish Bullet Copy,optional"`
	Subheading          string `parquet:"Subheading,optional"`
	EnhancedProductName string `parquet:"Enhanced Product Name,optional"`
	BulletCopy1         string `parquet:"Bullet Copy 1,optional"`
	BulletCopy2         string `parquet:"Bullet Copy 2,optional"`
	BulletCopy3         string `parquet:"Bullet Copy 3,optional"`
	BulletCopy4         string `parquet:"Bullet Copy 4,optional"`
	BulletCopy5         string `parquet:"Bullet Copy 5,optional"`
	BulletCopy6         string `parquet:"Bullet Copy 6,optional"`
	BulletCopy7         string `parquet:"Bullet Copy 7,optional"`
	BulletCopy8         string `parquet:"Bullet Copy 8,optional"`
	BulletCopy9         string `parquet:"Bullet Copy 9,optional"`
	BulletCopy10        string `parquet:"Bullet Copy 10,optional"`
	FeatureBenefit1     string `parquet:"Feature/Benefit 1,optional"`
	FeatureBenefit2     string `parquet:"Feature/Benefit 2,optional"`
	FeatureBenefit3     string `parquet:"FeatureBenefit 3,optional"`
	FeatureBenefit4     string `parquet:"Feature/Benefit 4,optional"`
	FeatureBenefit5     string `parquet:"FeatureBenefit 5,optional"`
	FeatureBenefit6     string `parquet:"Feature/Benefit 6,optional"`
	FeatureBenefit7     string `parquet:"Feature/Benefit 7,optional"`
	FeatureBenefit8     string `parquet:"Feature/Benefit 8,optional"`
	FeatureBenefit9     string `parquet:"Feature/Benefit 9,optional"`
	FeatureBenefit10    string `parquet:"Feature/Benefit 10,optional"`
	Keywords            string `parquet:"Keywords,optional"`
	LongDescription     string `parquet:"Long Description,optional"`
	ProductID           string `parquet:"Product ID,optional"`
	ProductTitle        string `parquet:"Product Title,optional"`
	SEOBullet1          string `parquet:"SEO Enhanced Bullets 1,optional"`
	SEOBullet2          string `parquet:"SEO Enhanced Bullets 2,optional"`
	SEOBullet3          string `parquet:"SEO Enhanced Bullets 3,optional"`
	SEOBullet4          string `parquet:"SEO Enhanced Bullets 4,optional"`
	SEOBullet5          string `parquet:"SEO Enhanced Bullets 5,optional"`
	SEOBullet6          string `parquet:"SEO Enhanced Bullets 6,optional"`
	SEOBullet7          string `parquet:"SEO Enhanced Bullets 7,optional"`
	SEOBullet8          string `parquet:"SEO Enhanced Bullets 8,optional"`
	SEOBullet9          string `parquet:"SEO Enhanced Bullets 9,optional"`
	SEOBullet10         string `parquet:"SEO Enhanced Bullets 10,optional"`
	ShortDescription    string `parquet:"Short Description,optional"`
	USP                 string `parquet:"USP,optional"`
	Brand               string `parquet:"Brand,optional"`
}

// fields returns pointers to every field in canonical column order. All
// name-based access goes through this one list so the struct and Columns
// cannot drift apart silently (schema tests pin the pairing).
func (r *Record) fields() []*string {
	return []*string{
		&r.Item,
		&r.Category,
		&r.About,
		&r.Status,
		&r.BulletCopy,
		&r.Heading,
		&r.SpanishBulletCopy,
		&r.Subheading,
		&r.EnhancedProductName,
		&r.BulletCopy1,
		&r.BulletCopy2,
		&r.BulletCopy3,
		&r.BulletCopy4,
		&r.BulletCopy5,
		&r.BulletCopy6,
		&r.BulletCopy7,
		&r.BulletCopy8,
		&r.BulletCopy9,
		&r.BulletCopy10,
		&r.FeatureBenefit1,
		&r.FeatureBenefit2,
		&r.FeatureBenefit3,
		&r.FeatureBenefit4,
		&r.FeatureBenefit5,
		&r.FeatureBenefit6,
		&r.FeatureBenefit7,
		&r.FeatureBenefit8,
		&r.FeatureBenefit9,
		&r.FeatureBenefit10,
		&r.Keywords,
		&r.LongDescription,
		&r.ProductID,
		&r.ProductTitle,
		&r.SEOBullet1,
		&r.SEOBullet2,
		&r.SEOBullet3,
		&r.SEOBullet4,
		&r.SEOBullet5,
		&r.SEOBullet6,
		&r.SEOBullet7,
		&r.SEOBullet8,
		&r.SEOBullet9,
		&r.SEOBullet10,
		&r.ShortDescription,
		&r.USP,
		&r.Brand,
	}
}

// Values returns the record's values in canonical column order.
func (r Record) Values() []string {
	ptrs := (&r).fields()
	vals := make([]string, len(ptrs))
	for i, p := range ptrs {
		vals[i] = *p
	}
	return vals
}

// Value returns the value of a single column by its canonical name.
func (r Record) Value(column string) (string, bool) {
	i, ok := columnIndex[column]
	if !ok {
		return "", false
	}
	return *(&r).fields()[i], true
}

// SetValue assigns a single column by its canonical name. It reports false
// for unknown columns and leaves the record unchanged.
func (r *Record) SetValue(column, value string) bool {
	i, ok := columnIndex[column]
	if !ok {
		return false
	}
	*r.fields()[i] = value
	return true
}

// RecordFromValues builds a Record from values in canonical column order.
func RecordFromValues(values []string) (Record, error) {
	if len(values) != len(Columns) {
		return Record{}, fmt.Errorf("schema: record has %d values, want %d", len(values), len(Columns))
	}
	var r Record
	for i, p := range r.fields() {
		*p = values[i]
	}
	return r, nil
}

// RecordFromMap builds a Record from column-name keyed values. Unknown keys
// are ignored; absent columns are left empty.
func RecordFromMap(values map[string]string) Record {
	var r Record
	for col, val := range values {
		r.SetValue(col, val)
	}
	return r
}

// Map returns the record as column-name keyed values, covering every
// canonical column.
func (r Record) Map() map[string]string {
	ptrs := (&r).fields()
	m := make(map[string]string, len(Columns))
	for i, col := range Columns {
		m[col] = *ptrs[i]
	}
	return m
}
