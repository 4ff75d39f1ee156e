package fs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/EdwardLakin/ProFixIQ-sub003/internal/blob/core"
)

func TestStorePutGetHead(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()

	info, err := store.Put(ctx, "tenant/run/vehicles.csv", bytes.NewReader([]byte("vin\nabc\n")), core.PutOptions{ContentType: "text/csv"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != 8 || info.ETag == "" {
		t.Fatalf("unexpected info %#v", info)
	}
	if _, err := store.Put(ctx, "tenant/run/vehicles.csv", bytes.NewReader(nil), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected exists error, got %v", err)
	}

	got, rc, err := store.Get(ctx, "tenant/run/vehicles.csv")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(body) != "vin\nabc\n" || got.ContentType != "text/csv" {
		t.Fatalf("unexpected get %q %#v", body, got)
	}

	head, err := store.Head(ctx, "tenant/run/vehicles.csv")
	if err != nil || head.ETag != info.ETag {
		t.Fatalf("unexpected head %#v err=%v", head, err)
	}
}

func TestStoreMissingAndInvalidKeys(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()

	if _, _, err := store.Get(ctx, "nope.csv"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := store.Head(ctx, "nope.csv"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected head not found, got %v", err)
	}
	for _, key := range []string{"", "../escape.csv", "/abs.csv"} {
		if _, _, err := store.Get(ctx, key); err == nil || errors.Is(err, core.ErrNotFound) {
			t.Fatalf("expected invalid key error for %q, got %v", key, err)
		}
	}
}

func TestStoreReadsFilesWithoutSidecar(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "staff.csv"), []byte("name\nAlex\n"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	store, err := New(root)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	info, rc, err := store.Get(context.Background(), "staff.csv")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer rc.Close()
	if info.Size != 10 {
		t.Fatalf("expected size from stat, got %d", info.Size)
	}
}
