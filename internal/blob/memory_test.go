package blob

import (
	"context"
	"errors"
	"testing"

	"github.com/pimops/pigman/internal/errs"
)

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if err := m.Upload(ctx, "a/b.txt", []byte("hello")); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	got, err := m.Download(ctx, "a/b.txt")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("Download = %q, want hello", got)
	}

	ok, err := m.Exists(ctx, "a/b.txt")
	if err != nil || !ok {
		t.Errorf("Exists = %v, %v; want true, nil", ok, err)
	}
}

func TestMemoryDownloadMissingKey(t *testing.T) {
	m := NewMemory()

	_, err := m.Download(context.Background(), "nope")
	if err == nil {
		t.Fatal("expected error for missing key")
	}
	if got := errs.KindOf(err); got != errs.KindNotFound {
		t.Errorf("KindOf = %v, want KindNotFound", got)
	}
}

func TestMemoryListPrefix(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	for _, key := range []string{"data/z.csv", "data/a.csv", "other/x.csv"} {
		if err := m.Upload(ctx, key, []byte("x")); err != nil {
			t.Fatalf("Upload %s: %v", key, err)
		}
	}

	objects, err := m.List(ctx, "data/")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(objects) != 2 {
		t.Fatalf("got %d objects, want 2", len(objects))
	}
	if objects[0].Key != "data/a.csv" || objects[1].Key != "data/z.csv" {
		t.Errorf("keys = %v, want sorted [data/a.csv data/z.csv]", []string{objects[0].Key, objects[1].Key})
	}
	if objects[0].Size != 1 {
		t.Errorf("Size = %d, want 1", objects[0].Size)
	}
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if err := m.Upload(ctx, "a", []byte("x")); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if err := m.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	err := m.Delete(ctx, "a")
	if errs.KindOf(err) != errs.KindNotFound {
		t.Errorf("second Delete kind = %v, want KindNotFound", errs.KindOf(err))
	}
}

type deniedStore struct {
	Store
}

func (deniedStore) List(context.Context, string) ([]Object, error) {
	return nil, errors.New("AuthorizationFailure: this request is not authorized")
}

func TestCheckAccess(t *testing.T) {
	ctx := context.Background()

	if err := CheckAccess(ctx, NewMemory(), "salsify-product-info/"); err != nil {
		t.Errorf("CheckAccess on open store: %v", err)
	}

	err := CheckAccess(ctx, deniedStore{}, "salsify-product-info/")
	if err == nil {
		t.Fatal("expected error from denied store")
	}
	if got := errs.KindOf(err); got != errs.KindAuth {
		t.Errorf("KindOf = %v, want KindAuth", got)
	}
}
