package dataset

import (
	"context"
	"testing"

	"github.com/pimops/pigman/internal/schema"
)

func testRecord(item, category, status, title string) schema.Record {
	var r schema.Record
	r.SetValue(schema.FieldItem, item)
	r.SetValue(schema.FieldProductID, item)
	r.SetValue(schema.FieldCategory, category)
	r.SetValue(schema.FieldStatus, status)
	r.SetValue(schema.FieldProductTitle, title)
	return r
}

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUpsertInsertsNewRecord(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	if err := s.Upsert(ctx, testRecord("123456", "Tools", schema.StatusActive, "Drill")); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	recs, err := s.QueryDistinct(ctx)
	if err != nil {
		t.Fatalf("QueryDistinct: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	if got, _ := recs[0].Value(schema.FieldProductTitle); got != "Drill" {
		t.Errorf("Product Title = %q, want Drill", got)
	}
}

func TestUpsertReplacesByItem(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	if err := s.Load(ctx, []schema.Record{
		testRecord("123456", "Tools", schema.StatusActive, "Old Title"),
		testRecord("789012", "Garden", schema.StatusActive, "Hose"),
	}); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := s.Upsert(ctx, testRecord("123456", "Tools", schema.StatusActive, "New Title")); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	recs, err := s.QueryDistinct(ctx)
	if err != nil {
		t.Fatalf("QueryDistinct: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	for _, r := range recs {
		item, _ := r.Value(schema.FieldItem)
		title, _ := r.Value(schema.FieldProductTitle)
		if item == "123456" && title != "New Title" {
			t.Errorf("item 123456 title = %q, want New Title", title)
		}
	}
}

func TestDoubleLoadCollapsesDuplicates(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	batch := []schema.Record{
		testRecord("123456", "Tools", schema.StatusActive, "Drill"),
		testRecord("789012", "Garden", schema.StatusActive, "Hose"),
	}
	if err := s.Load(ctx, batch); err != nil {
		t.Fatalf("first Load: %v", err)
	}
	if err := s.Load(ctx, batch); err != nil {
		t.Fatalf("second Load: %v", err)
	}

	recs, err := s.QueryDistinct(ctx)
	if err != nil {
		t.Fatalf("QueryDistinct: %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("got %d records after double load, want 2", len(recs))
	}
}

func TestUpsertDropsPlaceholderItems(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	// Placeholder rows loaded from a partition are scrubbed by the next
	// upsert; a placeholder record itself is dropped silently.
	if err := s.Load(ctx, []schema.Record{
		testRecord("no_item", "", schema.StatusActive, ""),
		testRecord("123456", "Tools", schema.StatusActive, "Drill"),
	}); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := s.Upsert(ctx, testRecord("no item", "", schema.StatusActive, "")); err != nil {
		t.Fatalf("Upsert placeholder: %v", err)
	}

	recs, err := s.QueryDistinct(ctx)
	if err != nil {
		t.Fatalf("QueryDistinct: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	if item, _ := recs[0].Value(schema.FieldItem); item != "123456" {
		t.Errorf("surviving item = %q, want 123456", item)
	}
}

func TestPersistLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	rec := testRecord("123456", "Tools", schema.StatusActive, "Drill")
	if err := s.Upsert(ctx, rec); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	parts, err := s.PartitionRows(ctx, schema.StatusActive)
	if err != nil {
		t.Fatalf("PartitionRows: %v", err)
	}
	data, err := EncodePartition(parts)
	if err != nil {
		t.Fatalf("EncodePartition: %v", err)
	}

	recs, err := DecodePartition(data)
	if err != nil {
		t.Fatalf("DecodePartition: %v", err)
	}

	fresh := openStore(t)
	if err := fresh.Load(ctx, recs); err != nil {
		t.Fatalf("Load into fresh store: %v", err)
	}

	got, err := fresh.QueryDistinct(ctx)
	if err != nil {
		t.Fatalf("QueryDistinct: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d records after round trip, want 1", len(got))
	}
	if got[0] != rec {
		t.Errorf("round-tripped record differs:\ngot  %+v\nwant %+v", got[0], rec)
	}
}

func TestPartitionRowsFiltersByStatus(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	if err := s.Load(ctx, []schema.Record{
		testRecord("111", "Tools", schema.StatusActive, "A"),
		testRecord("222", "Tools", schema.StatusObsolete, "B"),
		testRecord("333", "Tools", schema.StatusActive, "C"),
	}); err != nil {
		t.Fatalf("Load: %v", err)
	}

	recs, err := s.PartitionRows(ctx, schema.StatusActive)
	if err != nil {
		t.Fatalf("PartitionRows: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d active records, want 2", len(recs))
	}
	for _, r := range recs {
		if st, _ := r.Value(schema.FieldStatus); st != schema.StatusActive {
			t.Errorf("record with status %q in active partition", st)
		}
	}
}

func TestExportTableShape(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	if err := s.Load(ctx, []schema.Record{
		testRecord("222", "Garden", schema.StatusActive, "B"),
		testRecord("111", "Tools", schema.StatusActive, "A"),
	}); err != nil {
		t.Fatalf("Load: %v", err)
	}

	tbl, err := s.ExportTable(ctx)
	if err != nil {
		t.Fatalf("ExportTable: %v", err)
	}

	if len(tbl.Columns) != len(schema.ExportColumns) {
		t.Errorf("export has %d columns, want %d", len(tbl.Columns), len(schema.ExportColumns))
	}
	if _, ok := tbl.ColumnIndex(schema.FieldStatus); ok {
		t.Error("export table leaks the Status column")
	}

	items := tbl.Column(schema.FieldItem)
	if len(items) != 2 || items[0] != "111" || items[1] != "222" {
		t.Errorf("export items = %v, want ordered [111 222]", items)
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	if err := s.Load(ctx, []schema.Record{
		testRecord("111", "Tools", schema.StatusActive, "A"),
		testRecord("222", "Garden", schema.StatusActive, "B"),
		testRecord("333", "Tools", schema.StatusNew, "C"),
	}); err != nil {
		t.Fatalf("Load: %v", err)
	}

	st, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	want := Stats{Records: 3, Categories: 2}
	if st != want {
		t.Errorf("Stats = %+v, want %+v", st, want)
	}
}

func TestContains(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	if err := s.Upsert(ctx, testRecord("123456", "Tools", schema.StatusActive, "Drill")); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	ok, err := s.Contains(ctx, "123456")
	if err != nil {
		t.Fatalf("Contains: %v", err)
	}
	if !ok {
		t.Error("Contains(123456) = false, want true")
	}

	ok, err = s.Contains(ctx, "000000")
	if err != nil {
		t.Fatalf("Contains: %v", err)
	}
	if ok {
		t.Error("Contains(000000) = true, want false")
	}
}

func TestItemStatusesTracksMoves(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	if err := s.Load(ctx, []schema.Record{
		testRecord("123456", "Tools", schema.StatusActive, "Drill"),
	}); err != nil {
		t.Fatalf("Load: %v", err)
	}

	got, err := s.ItemStatuses(ctx, "123456")
	if err != nil {
		t.Fatalf("ItemStatuses: %v", err)
	}
	if len(got) != 1 || got[0] != schema.StatusActive {
		t.Fatalf("ItemStatuses = %v, want [active]", got)
	}

	// Re-accepting under a new status vacates the old partition.
	if err := s.Upsert(ctx, testRecord("123456", "Tools", schema.StatusObsolete, "Drill")); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	got, err = s.ItemStatuses(ctx, "123456")
	if err != nil {
		t.Fatalf("ItemStatuses: %v", err)
	}
	if len(got) != 1 || got[0] != schema.StatusObsolete {
		t.Fatalf("ItemStatuses after upsert = %v, want [Obsolete]", got)
	}

	got, err = s.ItemStatuses(ctx, "000000")
	if err != nil {
		t.Fatalf("ItemStatuses: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("ItemStatuses for unknown item = %v, want empty", got)
	}
}
