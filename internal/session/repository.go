package session

import (
	"context"
	"sort"
	"strings"

	"github.com/pimops/pigman/internal/blob"
	"github.com/pimops/pigman/internal/errs"
	"github.com/pimops/pigman/internal/tabular"
)

// ListRepository returns the archived PIG workbooks and any other decodable
// files under the repository prefix, sorted case-insensitively by key.
func (s *Session) ListRepository(ctx context.Context) ([]blob.Object, error) {
	objs, err := s.gateway.List(ctx, s.keys.RepositoryPrefix())
	if err != nil {
		return nil, err
	}

	var kept []blob.Object
	for _, o := range objs {
		if tabular.FormatForPath(o.Key) != tabular.FormatUnknown {
			kept = append(kept, o)
		}
	}
	sort.Slice(kept, func(i, j int) bool {
		return strings.ToLower(kept[i].Key) < strings.ToLower(kept[j].Key)
	})
	return kept, nil
}

// FetchRepositoryFile downloads one object from under the repository prefix.
// Keys outside the prefix are refused; the repository endpoints are not a
// general blob browser.
func (s *Session) FetchRepositoryFile(ctx context.Context, key string) ([]byte, error) {
	if !strings.HasPrefix(key, s.keys.RepositoryPrefix()) {
		return nil, errs.Errorf(errs.KindInput, "session.FetchRepositoryFile",
			"key %q is outside the PIG repository", key)
	}
	return s.gateway.Download(ctx, key)
}

// PreviewRepositoryFile downloads and decodes one repository object into a
// table, choosing the decoder by file extension.
func (s *Session) PreviewRepositoryFile(ctx context.Context, key string) (tabular.Table, error) {
	data, err := s.FetchRepositoryFile(ctx, key)
	if err != nil {
		return tabular.Table{}, err
	}
	return tabular.Decode(tabular.FormatForPath(key), data)
}

// SaveWorkbook archives a PIG workbook's original bytes under the repository
// naming convention for the item.
func (s *Session) SaveWorkbook(ctx context.Context, item string, data []byte) (string, error) {
	item = strings.TrimSpace(item)
	if item == "" {
		return "", errs.New(errs.KindInput, "session.SaveWorkbook", "item is required")
	}
	key := s.keys.RepositoryWorkbook(item)
	if err := s.gateway.Upload(ctx, key, data); err != nil {
		return "", err
	}
	return key, nil
}
