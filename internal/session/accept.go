package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/pimops/pigman/internal/dataset"
	"github.com/pimops/pigman/internal/errs"
	"github.com/pimops/pigman/internal/pig"
	"github.com/pimops/pigman/internal/schema"
)

// AcceptRequest carries one reviewed PIG record into the dataset. Category
// and Status are the operator's selections from the reference lists; Workbook
// holds the original upload for the PIG repository, or nil to skip archiving.
type AcceptRequest struct {
	Record   schema.Record
	Category string
	Status   string
	Workbook []byte
}

// AcceptResult reports what an accept changed.
type AcceptResult struct {
	Item     string   `json:"item"`
	Status   string   `json:"status"`
	Replaced bool     `json:"replaced"`
	Archived bool     `json:"archived"`
	Warnings []string `json:"warnings,omitempty"`
}

// Accept runs the acceptance flow: validate the record, normalize it under
// the selected category and status, upsert it into the dataset, and persist
// every partition the change touched. Archiving the original workbook is
// best-effort and degrades to a warning.
func (s *Session) Accept(ctx context.Context, req AcceptRequest) (AcceptResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res AcceptResult

	if err := s.validator.Validate(req.Record); err != nil {
		return res, err
	}

	category := strings.TrimSpace(req.Category)
	status := strings.TrimSpace(req.Status)
	if !s.refs.HasCategory(category) {
		return res, errs.Errorf(errs.KindInput, "session.Accept", "unknown category %q", category)
	}
	if !s.refs.HasStatus(status) {
		return res, errs.Errorf(errs.KindInput, "session.Accept", "unknown status %q", status)
	}

	rec := pig.Normalize(req.Record, category, status)
	item, _ := rec.Value(schema.FieldItem)
	if item == "" {
		return res, errs.New(errs.KindInput, "session.Accept", "record has no Item number")
	}
	if id, _ := rec.Value(schema.FieldProductID); id == "" {
		rec.SetValue(schema.FieldProductID, item)
	}
	res.Item = item
	res.Status = status

	before, err := s.store.ItemStatuses(ctx, item)
	if err != nil {
		return res, err
	}
	res.Replaced = len(before) > 0

	if err := s.store.Upsert(ctx, rec); err != nil {
		return res, err
	}

	// Rewrite every partition the accept touched: the record's new home and
	// any partition it vacated. Skipping the vacated ones would leave stale
	// rows that resurface on the next bootstrap.
	touched := []string{status}
	for _, old := range before {
		if old != status {
			touched = append(touched, old)
		}
	}
	for _, st := range touched {
		if err := s.persistPartition(ctx, st); err != nil {
			return res, err
		}
	}

	if len(req.Workbook) > 0 {
		key := s.keys.RepositoryWorkbook(item)
		if err := s.gateway.Upload(ctx, key, req.Workbook); err != nil {
			msg := fmt.Sprintf("Could not archive the workbook to the PIG repository: %v", err)
			res.Warnings = append(res.Warnings, msg)
			s.log.WarnContext(ctx, msg, "session_id", s.ID.String(), "item", item)
		} else {
			res.Archived = true
		}
	}

	s.log.InfoContext(ctx, "record accepted",
		"session_id", s.ID.String(), "item", item, "status", status, "replaced", res.Replaced)
	return res, nil
}

// persistPartition writes one status partition back to blob storage from the
// store's current content. An empty partition is written as an empty file,
// not deleted, so the key layout stays stable.
func (s *Session) persistPartition(ctx context.Context, status string) error {
	recs, err := s.store.PartitionRows(ctx, status)
	if err != nil {
		return err
	}
	data, err := dataset.EncodePartition(recs)
	if err != nil {
		return err
	}
	return s.gateway.Upload(ctx, s.keys.Partition(status), data)
}
