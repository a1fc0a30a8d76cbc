package postgres

import (
	"context"
	"errors"
	"time"

	"tablepos/orderflow/internal/store"

	"github.com/jackc/pgx/v5"
)

func (s *Store) ListOutboxEventsSince(ctx context.Context, offset store.OutboxOffset, limit int) ([]store.OutboxEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, `
		SELECT event_id, restaurant_id, type, payload_json, created_at
		FROM outbox_events
		WHERE (created_at, event_id) > ($1, $2)
		ORDER BY created_at ASC, event_id ASC
		LIMIT $3
	`, offset.LastEventTime, offset.LastEventID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []store.OutboxEvent
	for rows.Next() {
		var event store.OutboxEvent
		if err := rows.Scan(&event.EventID, &event.RestaurantID, &event.Type, &event.Payload, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *Store) GetOffset(ctx context.Context, consumer string) (store.OutboxOffset, error) {
	var offset store.OutboxOffset
	row := s.pool.QueryRow(ctx, `
		SELECT last_event_time, last_event_id
		FROM consumer_offsets
		WHERE consumer = $1
	`, consumer)
	if err := row.Scan(&offset.LastEventTime, &offset.LastEventID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.OutboxOffset{}, nil
		}
		return store.OutboxOffset{}, err
	}
	return offset, nil
}

func (s *Store) UpdateOffset(ctx context.Context, consumer string, offset store.OutboxOffset) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO consumer_offsets (consumer, last_event_time, last_event_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (consumer) DO UPDATE SET last_event_time = $2, last_event_id = $3
	`, consumer, offset.LastEventTime, offset.LastEventID)
	return err
}

func (s *Store) CleanupOutbox(ctx context.Context, before time.Time) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM outbox_events
		WHERE created_at < $1
	`, before)
	return err
}
