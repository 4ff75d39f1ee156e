package blob

import (
	"context"
	"testing"

	"github.com/EdwardLakin/ProFixIQ-sub003/internal/blob/core"
)

func TestOpenSelectsDriver(t *testing.T) {
	ctx := context.Background()

	store, err := Open(ctx, Config{FSRoot: t.TempDir()})
	if err != nil {
		t.Fatalf("open default: %v", err)
	}
	if store.Driver() != core.DriverFilesystem {
		t.Fatalf("expected fs default, got %s", store.Driver())
	}

	store, err = Open(ctx, Config{Driver: "memory"})
	if err != nil || store.Driver() != core.DriverMemory {
		t.Fatalf("expected memory store, got %v err=%v", store, err)
	}

	if _, err := Open(ctx, Config{Driver: "s3"}); err == nil {
		t.Fatalf("expected s3 without bucket to fail")
	}
	if _, err := Open(ctx, Config{Driver: "ftp"}); err == nil {
		t.Fatalf("expected unknown driver error")
	}
}
