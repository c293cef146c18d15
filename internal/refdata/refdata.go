// Package refdata manages the controlled vocabularies that constrain a
// record's Category and Status fields: two small CSV lists in blob storage,
// loaded at session open and editable through the API. Edits save back
// immediately; there is no draft state.
package refdata

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jszwec/csvutil"

	"github.com/pimops/pigman/internal/blob"
	"github.com/pimops/pigman/internal/errs"
)

// CategoryEntry is one row of the category list. Only Value is contractual;
// Key exists for downstream systems that want a stable identifier.
type CategoryEntry struct {
	Key   string `csv:"category_key" json:"key"`
	Value string `csv:"category_value" json:"value"`
}

// StatusEntry is one row of the status list.
type StatusEntry struct {
	Value string `csv:"status_values" json:"value"`
}

// Lists holds both vocabularies for one session. Methods are safe for
// concurrent use.
type Lists struct {
	mu    sync.RWMutex
	store blob.Store
	keys  blob.Keys

	categories []CategoryEntry
	statuses   []StatusEntry
}

// Load fetches both reference lists. A session cannot open without them:
// the accept flow needs the vocabularies to offer.
func Load(ctx context.Context, store blob.Store, keys blob.Keys) (*Lists, error) {
	l := &Lists{store: store, keys: keys}

	catData, err := store.Download(ctx, keys.CategoryValues())
	if err != nil {
		return nil, err
	}
	if err := csvutil.Unmarshal(catData, &l.categories); err != nil {
		return nil, errs.Wrap(errs.KindInput, "refdata.Load", err)
	}

	statData, err := store.Download(ctx, keys.StatusValues())
	if err != nil {
		return nil, err
	}
	if err := csvutil.Unmarshal(statData, &l.statuses); err != nil {
		return nil, errs.Wrap(errs.KindInput, "refdata.Load", err)
	}

	l.categories = dedupeCategories(l.categories)
	l.statuses = dedupeStatuses(l.statuses)
	return l, nil
}

// Categories returns the distinct category values, sorted.
func (l *Lists) Categories() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return distinctSorted(len(l.categories), func(i int) string { return l.categories[i].Value })
}

// CategoryEntries returns the category rows in stored order.
func (l *Lists) CategoryEntries() []CategoryEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]CategoryEntry, len(l.categories))
	copy(out, l.categories)
	return out
}

// Statuses returns the distinct status values, sorted.
func (l *Lists) Statuses() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return distinctSorted(len(l.statuses), func(i int) string { return l.statuses[i].Value })
}

// StatusEntries returns the status rows in stored order.
func (l *Lists) StatusEntries() []StatusEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]StatusEntry, len(l.statuses))
	copy(out, l.statuses)
	return out
}

// HasCategory reports whether a value is in the category vocabulary.
func (l *Lists) HasCategory(value string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, e := range l.categories {
		if e.Value == value {
			return true
		}
	}
	return false
}

// HasStatus reports whether a value is in the status vocabulary.
func (l *Lists) HasStatus(value string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, e := range l.statuses {
		if e.Value == value {
			return true
		}
	}
	return false
}

// AddCategory appends a value and saves the list. Rows must stay unique;
// adding an existing value is a conflict.
func (l *Lists) AddCategory(ctx context.Context, key, value string) error {
	key, value = strings.TrimSpace(key), strings.TrimSpace(value)
	if value == "" {
		return errs.New(errs.KindInput, "refdata.AddCategory", "category value is empty")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, e := range l.categories {
		if e.Value == value {
			return errs.Errorf(errs.KindConflict, "refdata.AddCategory", "category %q already exists", value)
		}
	}
	l.categories = append(l.categories, CategoryEntry{Key: key, Value: value})
	return l.saveCategories(ctx)
}

// RemoveCategory deletes every row with the value and saves the list.
func (l *Lists) RemoveCategory(ctx context.Context, value string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.categories[:0]
	removed := 0
	for _, e := range l.categories {
		if e.Value == value {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	if removed == 0 {
		return errs.Errorf(errs.KindNotFound, "refdata.RemoveCategory", "category %q not found", value)
	}
	l.categories = kept
	return l.saveCategories(ctx)
}

// AddStatus appends a value and saves the list.
func (l *Lists) AddStatus(ctx context.Context, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return errs.New(errs.KindInput, "refdata.AddStatus", "status value is empty")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, e := range l.statuses {
		if e.Value == value {
			return errs.Errorf(errs.KindConflict, "refdata.AddStatus", "status %q already exists", value)
		}
	}
	l.statuses = append(l.statuses, StatusEntry{Value: value})
	return l.saveStatuses(ctx)
}

// RemoveStatus deletes every row with the value and saves the list.
func (l *Lists) RemoveStatus(ctx context.Context, value string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.statuses[:0]
	removed := 0
	for _, e := range l.statuses {
		if e.Value == value {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	if removed == 0 {
		return errs.Errorf(errs.KindNotFound, "refdata.RemoveStatus", "status %q not found", value)
	}
	l.statuses = kept
	return l.saveStatuses(ctx)
}

func (l *Lists) saveCategories(ctx context.Context) error {
	data, err := csvutil.Marshal(l.categories)
	if err != nil {
		return errs.Wrap(errs.KindUnknown, "refdata.saveCategories", err)
	}
	return l.store.Upload(ctx, l.keys.CategoryValues(), data)
}

func (l *Lists) saveStatuses(ctx context.Context) error {
	data, err := csvutil.Marshal(l.statuses)
	if err != nil {
		return errs.Wrap(errs.KindUnknown, "refdata.saveStatuses", err)
	}
	return l.store.Upload(ctx, l.keys.StatusValues(), data)
}

func dedupeCategories(entries []CategoryEntry) []CategoryEntry {
	seen := make(map[CategoryEntry]struct{}, len(entries))
	out := entries[:0]
	for _, e := range entries {
		e.Key, e.Value = strings.TrimSpace(e.Key), strings.TrimSpace(e.Value)
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}

func dedupeStatuses(entries []StatusEntry) []StatusEntry {
	seen := make(map[StatusEntry]struct{}, len(entries))
	out := entries[:0]
	for _, e := range entries {
		e.Value = strings.TrimSpace(e.Value)
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}

func distinctSorted(n int, value func(int) string) []string {
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		seen[value(i)] = struct{}{}
	}
	vals := make([]string, 0, len(seen))
	for v := range seen {
		vals = append(vals, v)
	}
	sort.Strings(vals)
	return vals
}
