package resolve

import (
	"testing"

	"github.com/google/uuid"
)

func TestResolvePrefersFirstKey(t *testing.T) {
	byEmail := uuid.New()
	byPhone := uuid.New()

	idx := New()
	idx.Register(byEmail, "ada@example.com")
	idx.Register(byPhone, "555-0100")

	got, ok := idx.Resolve("ADA@example.com ", "555-0100")
	if !ok || got != byEmail {
		t.Fatalf("expected email match to win, got %s ok=%v", got, ok)
	}

	got, ok = idx.Resolve("", "555-0100")
	if !ok || got != byPhone {
		t.Fatalf("expected phone fallback, got %s ok=%v", got, ok)
	}
}

func TestResolveMiss(t *testing.T) {
	idx := New()
	idx.Register(uuid.New(), "known")
	if _, ok := idx.Resolve("unknown", ""); ok {
		t.Fatalf("expected miss")
	}
	if _, ok := idx.Resolve(); ok {
		t.Fatalf("expected miss with no keys")
	}
	if _, ok := idx.Resolve("", "   "); ok {
		t.Fatalf("expected blank keys to never match")
	}
}

func TestRegisterSkipsBlankKeysAndKeepsFirstOwner(t *testing.T) {
	first := uuid.New()
	second := uuid.New()

	idx := New()
	idx.Register(first, "VIN123", "", "  ")
	idx.Register(second, "vin123", "PLATE9")
	if idx.Len() != 2 {
		t.Fatalf("expected 2 keys, got %d", idx.Len())
	}

	if got, _ := idx.Resolve("vin123"); got != first {
		t.Fatalf("expected first owner to keep vin, got %s", got)
	}
	if got, _ := idx.Resolve("plate9"); got != second {
		t.Fatalf("expected plate registered to second, got %s", got)
	}
}
