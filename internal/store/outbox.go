package store

import (
	"context"
	"time"
)

// OutboxOffset marks how far an outbox consumer has read. Ordering is by
// (created_at, event_id) so same-timestamp events cannot be skipped.
type OutboxOffset struct {
	LastEventTime time.Time
	LastEventID   string
}

// EventStore is the narrow view of the store the realtime fan-out needs.
type EventStore interface {
	ListOutboxEventsSince(ctx context.Context, offset OutboxOffset, limit int) ([]OutboxEvent, error)
	GetOffset(ctx context.Context, consumer string) (OutboxOffset, error)
	UpdateOffset(ctx context.Context, consumer string, offset OutboxOffset) error
	CleanupOutbox(ctx context.Context, before time.Time) error
	GetSession(ctx context.Context, sessionID string) (Session, error)
}
