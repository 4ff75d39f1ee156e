package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Row is the persisted form of an audit entry.
type Row struct {
	TenantID   uuid.UUID
	Action     string
	EntityType string
	EntityID   *uuid.UUID
	RequestID  *string
	Metadata   []byte
}

type Sink interface {
	InsertAuditLog(ctx context.Context, row Row) error
}

type Logger struct {
	sink      Sink
	requestID func(context.Context) string
}

type Option func(*Logger)

// WithRequestID resolves the request id for entries that do not carry one.
func WithRequestID(fn func(context.Context) string) Option {
	return func(l *Logger) { l.requestID = fn }
}

func NewLogger(sink Sink, opts ...Option) *Logger {
	l := &Logger{sink: sink}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type Entry struct {
	TenantID   uuid.UUID
	Action     string
	EntityType string
	EntityID   *uuid.UUID
	RequestID  string
	Metadata   map[string]any
}

func (l *Logger) Log(ctx context.Context, entry Entry) error {
	metadata := []byte("{}")
	if len(entry.Metadata) > 0 {
		encoded, err := json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}
		metadata = encoded
	}

	row := Row{
		TenantID:   entry.TenantID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Metadata:   metadata,
	}
	requestID := entry.RequestID
	if requestID == "" && l.requestID != nil {
		requestID = l.requestID(ctx)
	}
	if requestID != "" {
		row.RequestID = &requestID
	}

	if err := l.sink.InsertAuditLog(ctx, row); err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}
