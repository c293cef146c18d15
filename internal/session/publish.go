package session

import (
	"context"

	"github.com/pimops/pigman/internal/publish"
)

// Publish runs the export pipeline against the session's dataset: merge with
// the vendor file, back up the previous export, upload, transfer.
func (s *Session) Publish(ctx context.Context) (publish.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := publish.New(s.gateway, s.transfer, s.keys, s.publish, s.log)
	return p.Run(ctx, s.store)
}
