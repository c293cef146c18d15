// Package dataset holds the authoritative PIG table for a session: an
// embedded SQL store partitioned by Status on disk, unioned in memory, plus
// the parquet codec for the partition files.
//
// The store enforces the dataset-quality rules: reads collapse exact
// duplicates, upserts replace whole records by Item, and placeholder items
// never survive a merge.
package dataset

import (
	"context"
	"database/sql"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/pimops/pigman/internal/errs"
	"github.com/pimops/pigman/internal/schema"
	"github.com/pimops/pigman/internal/tabular"
)

// SQL fragments are assembled from the canonical column order once, so every
// statement reads and writes columns in the same sequence.
var (
	columnList = quotedColumnList(schema.Columns)
	exportList = quotedColumnList(schema.ExportColumns)

	createSQL = "CREATE TABLE pig_data (" + columnTypeList(schema.Columns) + ")"
	insertSQL = "INSERT INTO pig_data (" + columnList + ") VALUES (" + valuePlaceholders(len(schema.Columns)) + ")"
	dedupeSQL = "DELETE FROM pig_data WHERE rowid NOT IN " +
		"(SELECT MIN(rowid) FROM pig_data GROUP BY " + columnList + ")"
	scrubSQL = `DELETE FROM pig_data WHERE "Item" IN (` + valuePlaceholders(len(schema.PlaceholderItems)) + ")"

	queryAllSQL  = "SELECT DISTINCT " + columnList + ` FROM pig_data ORDER BY "Item"`
	partitionSQL = "SELECT DISTINCT " + columnList + ` FROM pig_data WHERE "Status" = ? ORDER BY "Item"`
	exportSQL    = "SELECT DISTINCT " + exportList + ` FROM pig_data ORDER BY "Item"`
)

// Store is the in-memory PIG table, backed by an embedded SQLite database.
// Safe for concurrent use; writes are serialized.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// Open creates an empty store.
func Open(ctx context.Context) (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, errs.Wrap(errs.KindUnknown, "dataset.Open", err)
	}
	// Every pooled connection gets its own in-memory database, so the store
	// must run on exactly one connection.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, createSQL); err != nil {
		db.Close()
		return nil, errs.Wrap(errs.KindUnknown, "dataset.Open", err)
	}
	return &Store{db: db}, nil
}

// Close releases the embedded database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load unions a batch of records into the table and collapses exact
// duplicates, so loading the same partition twice leaves the table
// unchanged. Records keep whatever Status they carry.
func (s *Store) Load(ctx context.Context, recs []schema.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.Wrap(errs.KindUnknown, "dataset.Load", err)
	}
	defer tx.Rollback()

	for _, r := range recs {
		if err := insertRecord(ctx, tx, r); err != nil {
			return errs.Wrap(errs.KindUnknown, "dataset.Load", err)
		}
	}
	if _, err := tx.ExecContext(ctx, dedupeSQL); err != nil {
		return errs.Wrap(errs.KindUnknown, "dataset.Load", err)
	}
	if err := tx.Commit(); err != nil {
		return errs.Wrap(errs.KindUnknown, "dataset.Load", err)
	}
	return nil
}

// Upsert replaces the record with the same Item: existing rows for the key
// are deleted, then the new record is inserted, last write wins. Placeholder
// items are dropped silently, on both sides of the merge, and the table is
// deduplicated afterwards.
func (s *Store) Upsert(ctx context.Context, rec schema.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.Wrap(errs.KindUnknown, "dataset.Upsert", err)
	}
	defer tx.Rollback()

	item, _ := rec.Value(schema.FieldItem)
	if _, err := tx.ExecContext(ctx, `DELETE FROM pig_data WHERE "Item" = ?`, item); err != nil {
		return errs.Wrap(errs.KindUnknown, "dataset.Upsert", err)
	}
	if _, err := tx.ExecContext(ctx, scrubSQL, placeholderArgs()...); err != nil {
		return errs.Wrap(errs.KindUnknown, "dataset.Upsert", err)
	}

	if !schema.IsPlaceholderItem(item) {
		if err := insertRecord(ctx, tx, rec); err != nil {
			return errs.Wrap(errs.KindUnknown, "dataset.Upsert", err)
		}
	}

	if _, err := tx.ExecContext(ctx, dedupeSQL); err != nil {
		return errs.Wrap(errs.KindUnknown, "dataset.Upsert", err)
	}
	if err := tx.Commit(); err != nil {
		return errs.Wrap(errs.KindUnknown, "dataset.Upsert", err)
	}
	return nil
}

// Contains reports whether a record with the Item exists.
func (s *Store) Contains(ctx context.Context, item string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pig_data WHERE "Item" = ?`, item).Scan(&n)
	if err != nil {
		return false, errs.Wrap(errs.KindUnknown, "dataset.Contains", err)
	}
	return n > 0, nil
}

// ItemStatuses returns the distinct Status values currently held by rows
// with the Item. More than one entry means the partitions disagree about
// the record; after an upsert the slice has at most one.
func (s *Store) ItemStatuses(ctx context.Context, item string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT "Status" FROM pig_data WHERE "Item" = ? ORDER BY "Status"`, item)
	if err != nil {
		return nil, errs.Wrap(errs.KindUnknown, "dataset.ItemStatuses", err)
	}
	defer rows.Close()

	var statuses []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, errs.Wrap(errs.KindUnknown, "dataset.ItemStatuses", err)
		}
		statuses = append(statuses, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.KindUnknown, "dataset.ItemStatuses", err)
	}
	return statuses, nil
}

// QueryDistinct returns every record with exact duplicates collapsed,
// ordered by Item.
func (s *Store) QueryDistinct(ctx context.Context) ([]schema.Record, error) {
	return s.queryRecords(ctx, "dataset.QueryDistinct", queryAllSQL)
}

// PartitionRows returns the distinct records of one status partition,
// ordered by Item. This is the content persisted to that partition's file.
func (s *Store) PartitionRows(ctx context.Context, status string) ([]schema.Record, error) {
	return s.queryRecords(ctx, "dataset.PartitionRows", partitionSQL, status)
}

// Table returns the full store as a table for filtering and display.
func (s *Store) Table(ctx context.Context) (tabular.Table, error) {
	recs, err := s.QueryDistinct(ctx)
	if err != nil {
		return tabular.Table{}, err
	}
	t := tabular.New(schema.Columns...)
	for _, r := range recs {
		t.AppendRow(r.Values())
	}
	return t, nil
}

// ExportTable returns the distinct records without the internal Status
// column, ordered by Item: the local side of the published export.
func (s *Store) ExportTable(ctx context.Context) (tabular.Table, error) {
	rows, err := s.db.QueryContext(ctx, exportSQL)
	if err != nil {
		return tabular.Table{}, errs.Wrap(errs.KindUnknown, "dataset.ExportTable", err)
	}
	defer rows.Close()

	t := tabular.New(schema.ExportColumns...)
	for rows.Next() {
		vals, err := scanStrings(rows, len(schema.ExportColumns))
		if err != nil {
			return tabular.Table{}, errs.Wrap(errs.KindUnknown, "dataset.ExportTable", err)
		}
		t.AppendRow(vals)
	}
	if err := rows.Err(); err != nil {
		return tabular.Table{}, errs.Wrap(errs.KindUnknown, "dataset.ExportTable", err)
	}
	return t, nil
}

// Stats summarizes the store for status displays.
type Stats struct {
	Records    int `json:"records"`
	Categories int `json:"categories"`
}

// Stats returns the distinct record count and distinct category count.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM (SELECT DISTINCT "+columnList+" FROM pig_data)").Scan(&st.Records)
	if err != nil {
		return Stats{}, errs.Wrap(errs.KindUnknown, "dataset.Stats", err)
	}
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT "Category") FROM pig_data`).Scan(&st.Categories)
	if err != nil {
		return Stats{}, errs.Wrap(errs.KindUnknown, "dataset.Stats", err)
	}
	return st, nil
}

func (s *Store) queryRecords(ctx context.Context, op, query string, args ...any) ([]schema.Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.Wrap(errs.KindUnknown, op, err)
	}
	defer rows.Close()

	var recs []schema.Record
	for rows.Next() {
		vals, err := scanStrings(rows, len(schema.Columns))
		if err != nil {
			return nil, errs.Wrap(errs.KindUnknown, op, err)
		}
		rec, err := schema.RecordFromValues(vals)
		if err != nil {
			return nil, errs.Wrap(errs.KindUnknown, op, err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.KindUnknown, op, err)
	}
	return recs, nil
}

func insertRecord(ctx context.Context, tx *sql.Tx, rec schema.Record) error {
	vals := rec.Values()
	args := make([]any, len(vals))
	for i, v := range vals {
		args[i] = v
	}
	_, err := tx.ExecContext(ctx, insertSQL, args...)
	return err
}

func scanStrings(rows *sql.Rows, n int) ([]string, error) {
	vals := make([]string, n)
	ptrs := make([]any, n)
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	return vals, nil
}

func placeholderArgs() []any {
	args := make([]any, len(schema.PlaceholderItems))
	for i, p := range schema.PlaceholderItems {
		args[i] = p
	}
	return args
}

// quoteIdent protects column names containing spaces and slashes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quotedColumnList(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c)
	}
	return strings.Join(quoted, ", ")
}

func columnTypeList(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c) + " TEXT"
	}
	return strings.Join(quoted, ", ")
}

func valuePlaceholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
