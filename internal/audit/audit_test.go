package audit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
)

type captureSink struct {
	rows []Row
	err  error
}

func (c *captureSink) InsertAuditLog(_ context.Context, row Row) error {
	if c.err != nil {
		return c.err
	}
	c.rows = append(c.rows, row)
	return nil
}

type ctxKey struct{}

func TestLogEncodesMetadataAndRequestID(t *testing.T) {
	sink := &captureSink{}
	logger := NewLogger(sink, WithRequestID(func(ctx context.Context) string {
		v, _ := ctx.Value(ctxKey{}).(string)
		return v
	}))

	tenantID := uuid.New()
	runID := uuid.New()
	ctx := context.WithValue(context.Background(), ctxKey{}, "req-1")
	err := logger.Log(ctx, Entry{
		TenantID:   tenantID,
		Action:     "import.run_started",
		EntityType: "import_run",
		EntityID:   &runID,
		Metadata:   map[string]any{"files": 2},
	})
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if len(sink.rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(sink.rows))
	}
	row := sink.rows[0]
	if row.RequestID == nil || *row.RequestID != "req-1" {
		t.Fatalf("expected request id from context, got %v", row.RequestID)
	}
	var meta map[string]any
	if err := json.Unmarshal(row.Metadata, &meta); err != nil || meta["files"] != float64(2) {
		t.Fatalf("unexpected metadata %s err=%v", row.Metadata, err)
	}
}

func TestLogDefaultsAndErrors(t *testing.T) {
	sink := &captureSink{}
	if err := NewLogger(sink).Log(context.Background(), Entry{Action: "import.run_completed"}); err != nil {
		t.Fatalf("log: %v", err)
	}
	if string(sink.rows[0].Metadata) != "{}" || sink.rows[0].RequestID != nil {
		t.Fatalf("unexpected defaults %+v", sink.rows[0])
	}

	failing := &captureSink{err: errors.New("db down")}
	if err := NewLogger(failing).Log(context.Background(), Entry{}); err == nil {
		t.Fatalf("expected sink error")
	}
}
