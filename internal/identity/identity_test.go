package identity

import (
	"strings"
	"testing"

	"github.com/EdwardLakin/ProFixIQ-sub003/internal/records"
	"github.com/google/uuid"
)

func TestRow(t *testing.T) {
	run := uuid.MustParse("7f2c1e4a-0000-4000-8000-000000000001")
	got := Row(run, records.EntityVehicles, 42)
	if got != "run:7f2c1e4a-0000-4000-8000-000000000001:vehicles:42" {
		t.Fatalf("unexpected identity %q", got)
	}
	if Row(run, records.EntityVehicles, 42) != got {
		t.Fatalf("expected identity to be deterministic")
	}
	if Row(run, records.EntityVehicles, 43) == got {
		t.Fatalf("expected line to change identity")
	}
}

func TestStaffFoldsInContent(t *testing.T) {
	run := uuid.New()
	a := Staff(run, 1, "Alex", "", "mechanic")
	b := Staff(run, 1, "Alex", "", "advisor")

	prefix := Row(run, records.EntityStaff, 1) + ":"
	if !strings.HasPrefix(a, prefix) {
		t.Fatalf("expected %q to extend %q", a, prefix)
	}
	if len(a) != len(prefix)+10 {
		t.Fatalf("expected 10 char hash suffix, got %q", a)
	}
	if a == b {
		t.Fatalf("expected different content to change identity")
	}
	if a != Staff(run, 1, "Alex", "", "mechanic") {
		t.Fatalf("expected identity to be deterministic")
	}
}

func TestJobLine(t *testing.T) {
	if got := JobLine("run:x:history:3"); got != "run:x:history:3:line" {
		t.Fatalf("unexpected job line identity %q", got)
	}
}
