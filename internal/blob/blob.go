// Package blob abstracts the shared storage container behind a small Store
// interface and centralizes the key layout of everything the application
// keeps there: dataset partitions, reference lists, the PIG repository, and
// the published export with its history.
package blob

import (
	"context"
	"time"

	"github.com/pimops/pigman/internal/errs"
)

// Object describes one stored file.
type Object struct {
	Key      string    `json:"key"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// Store is the storage surface the application needs. Implementations wrap
// failures with the error kinds the web layer maps to user messages.
type Store interface {
	Upload(ctx context.Context, key string, data []byte) error
	Download(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	List(ctx context.Context, prefix string) ([]Object, error)
	Delete(ctx context.Context, key string) error
}

// CheckAccess proves the credential behind a Store grants access to the data
// prefix by listing it. Sessions call this once before touching anything
// else; a failure means the token is bad, expired, or scoped elsewhere.
func CheckAccess(ctx context.Context, s Store, prefix string) error {
	if _, err := s.List(ctx, prefix); err != nil {
		return errs.Wrap(errs.KindAuth, "blob.CheckAccess", err)
	}
	return nil
}
