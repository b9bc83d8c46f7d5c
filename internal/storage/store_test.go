package storage

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/invopost/invoice-dispatch/internal/domain"
)

func TestFSStoreSaveAndOpen(t *testing.T) {
	t.Parallel()

	store, err := NewFSStore(filepath.Join(t.TempDir(), "invoices"))
	if err != nil {
		t.Fatalf("NewFSStore() error = %v", err)
	}

	ctx := context.Background()
	content := []byte("%PDF-1.4 test")

	if err := store.Save(ctx, "invoice-INV-1-1.pdf", content); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Open(ctx, "invoice-INV-1-1.pdf")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Fatalf("Open() content = %q, want %q", got, content)
	}

	exists, err := store.Exists(ctx, "invoice-INV-1-1.pdf")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !exists {
		t.Fatal("Exists() = false, want true")
	}
}

func TestFSStoreOpenUnknownID(t *testing.T) {
	t.Parallel()

	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore() error = %v", err)
	}

	_, err = store.Open(context.Background(), "missing.pdf")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Open() error = %v, want ErrNotFound", err)
	}

	exists, err := store.Exists(context.Background(), "missing.pdf")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists {
		t.Fatal("Exists() = true, want false")
	}
}

func TestFSStoreRejectsPathTraversal(t *testing.T) {
	t.Parallel()

	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore() error = %v", err)
	}

	for _, id := range []string{"../escape.pdf", "a/b.pdf", "..", ""} {
		if _, err := store.Open(context.Background(), id); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("Open(%q) error = %v, want ErrNotFound", id, err)
		}
	}
}

func TestFSStoreLazyRootCreation(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "nested", "invoices")
	store, err := NewFSStore(root)
	if err != nil {
		t.Fatalf("NewFSStore() error = %v", err)
	}

	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	if err := store.Save(context.Background(), "a.pdf", []byte("x")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
}

func TestNewFSStoreRequiresRoot(t *testing.T) {
	t.Parallel()

	if _, err := NewFSStore("  "); err == nil {
		t.Fatal("NewFSStore() expected error for blank root")
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Save(ctx, "one.pdf", []byte("abc")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := store.Open(ctx, "one.pdf")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if string(got) != "abc" {
		t.Fatalf("Open() = %q, want abc", got)
	}
	if store.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", store.Len())
	}

	if _, err := store.Open(ctx, "two.pdf"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Open() error = %v, want ErrNotFound", err)
	}
}
