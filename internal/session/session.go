// Package session owns one operator's working state: the access-gated blob
// connection, the in-memory dataset bootstrapped from the status partitions,
// and the reference lists. Nothing here is global; every operation happens on
// an explicit Session, created at open and torn down at close.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pimops/pigman/internal/blob"
	"github.com/pimops/pigman/internal/config"
	"github.com/pimops/pigman/internal/dataset"
	"github.com/pimops/pigman/internal/pig"
	"github.com/pimops/pigman/internal/refdata"
	"github.com/pimops/pigman/internal/schema"
	"github.com/pimops/pigman/internal/tabular"
	"github.com/pimops/pigman/internal/transfer"
)

// Deps are the external connections and policies a session binds to.
type Deps struct {
	Gateway  blob.Store
	Transfer transfer.Client // nil when no FTP endpoint is configured
	Keys     blob.Keys
	Publish  config.PublishConfig

	// Statuses are the partitions to bootstrap, essential partition first.
	// Empty means the schema defaults.
	Statuses []string

	Validator pig.Validator
	Log       *slog.Logger
}

// Session is one operator's connection to the data: identity, the live
// dataset, the reference lists, and the remote endpoints.
type Session struct {
	ID      uuid.UUID
	Created time.Time

	gateway   blob.Store
	transfer  transfer.Client
	keys      blob.Keys
	publish   config.PublishConfig
	validator pig.Validator
	log       *slog.Logger

	// mu serializes the multi-step flows (accept, publish) so one operation's
	// partition writes never interleave with another's.
	mu sync.Mutex

	store    *dataset.Store
	refs     *refdata.Lists
	warnings []string
}

// Open validates access to the data prefix, then bootstraps the session.
// The essential partition and both reference lists must load; failures on
// the remaining partitions degrade to warnings and the session still opens.
func Open(ctx context.Context, d Deps) (*Session, error) {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	statuses := d.Statuses
	if len(statuses) == 0 {
		statuses = schema.DefaultStatuses
	}

	if err := blob.CheckAccess(ctx, d.Gateway, d.Keys.DataPrefix()); err != nil {
		return nil, err
	}

	store, err := dataset.Open(ctx)
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:        uuid.New(),
		Created:   time.Now(),
		gateway:   d.Gateway,
		transfer:  d.Transfer,
		keys:      d.Keys,
		publish:   d.Publish,
		validator: d.Validator,
		log:       d.Log,
		store:     store,
	}

	if err := s.loadPartition(ctx, statuses[0]); err != nil {
		store.Close()
		return nil, err
	}

	refs, err := refdata.Load(ctx, d.Gateway, d.Keys)
	if err != nil {
		store.Close()
		return nil, err
	}
	s.refs = refs

	for _, status := range statuses[1:] {
		if err := s.loadPartition(ctx, status); err != nil {
			s.warn(ctx, fmt.Sprintf("Could not load the %s partition: %v", status, err))
		}
	}

	s.log.InfoContext(ctx, "session opened",
		"session_id", s.ID.String(), "warnings", len(s.warnings))
	return s, nil
}

// Connect opens a session against the real Azure and FTP endpoints described
// by the configuration. The SAS token is the operator's, not the config's,
// unless the caller passes the configured one through.
func Connect(ctx context.Context, cfg *config.Config, sasToken string, log *slog.Logger) (*Session, error) {
	gw, err := blob.NewAzure(cfg.Azure.AccountURL, sasToken, cfg.Azure.Container, cfg.Azure.OpTimeout)
	if err != nil {
		return nil, err
	}

	var tc transfer.Client
	if cfg.Transfer.Enabled() {
		tc = transfer.NewFTP(cfg.Transfer)
	}

	return Open(ctx, Deps{
		Gateway:   gw,
		Transfer:  tc,
		Keys:      blob.NewKeys(cfg.Dataset, cfg.Publish),
		Publish:   cfg.Publish,
		Statuses:  cfg.Dataset.Statuses,
		Validator: pig.NewValidator(cfg.Upload.MaxTitleLength),
		Log:       log,
	})
}

// Close releases the session's dataset store.
func (s *Session) Close() error {
	return s.store.Close()
}

// Refs exposes the reference lists for vocabulary reads and edits.
func (s *Session) Refs() *refdata.Lists {
	return s.refs
}

// Warnings returns the bootstrap warnings collected while opening.
func (s *Session) Warnings() []string {
	out := make([]string, len(s.warnings))
	copy(out, s.warnings)
	return out
}

// Data returns the full dataset as a table for filtering and display.
func (s *Session) Data(ctx context.Context) (tabular.Table, error) {
	return s.store.Table(ctx)
}

// ExportPreview returns the local side of the export, without the internal
// Status column.
func (s *Session) ExportPreview(ctx context.Context) (tabular.Table, error) {
	return s.store.ExportTable(ctx)
}

// Stats summarizes the dataset for status displays.
func (s *Session) Stats(ctx context.Context) (dataset.Stats, error) {
	return s.store.Stats(ctx)
}

// Contains reports whether the dataset already holds a record for item.
func (s *Session) Contains(ctx context.Context, item string) (bool, error) {
	return s.store.Contains(ctx, item)
}

func (s *Session) loadPartition(ctx context.Context, status string) error {
	data, err := s.gateway.Download(ctx, s.keys.Partition(status))
	if err != nil {
		return err
	}
	recs, err := dataset.DecodePartition(data)
	if err != nil {
		return err
	}
	return s.store.Load(ctx, recs)
}

func (s *Session) warn(ctx context.Context, msg string) {
	s.warnings = append(s.warnings, msg)
	s.log.WarnContext(ctx, msg, "session_id", s.ID.String())
}
