package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := New(reg)

	rec.Row("customers", "created")
	rec.Row("customers", "created")
	rec.Row("vehicles", "error")
	rec.Run("completed", 2*time.Second)

	if got := testutil.ToFloat64(rec.rows.WithLabelValues("customers", "created")); got != 2 {
		t.Fatalf("expected 2 created customers, got %v", got)
	}
	if got := testutil.ToFloat64(rec.rows.WithLabelValues("vehicles", "error")); got != 1 {
		t.Fatalf("expected 1 vehicle error, got %v", got)
	}
	if got := testutil.ToFloat64(rec.runs.WithLabelValues("completed")); got != 1 {
		t.Fatalf("expected 1 completed run, got %v", got)
	}
	if n := testutil.CollectAndCount(rec.duration); n != 1 {
		t.Fatalf("expected duration histogram, got %d series", n)
	}
}

func TestNilRecorderIsNoop(t *testing.T) {
	var rec *Recorder
	rec.Row("parts", "created")
	rec.Run("failed", time.Second)
}
