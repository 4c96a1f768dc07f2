package events

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists domain events.
type PostgresStore struct {
	Pool *pgxpool.Pool
}

// InsertEvent appends an event row and returns the persisted record.
func (s PostgresStore) InsertEvent(ctx context.Context, topic, aggregateID string, payload []byte) (Event, error) {
	const q = `
		INSERT INTO domain_events (topic, aggregate_id, payload)
		VALUES ($1, $2, $3)
		RETURNING id, occurred_at`
	var (
		id         string
		occurredAt time.Time
	)
	if err := s.Pool.QueryRow(ctx, q, topic, aggregateID, payload).Scan(&id, &occurredAt); err != nil {
		return Event{}, err
	}
	return Event{
		ID:          id,
		Topic:       topic,
		AggregateID: aggregateID,
		Payload:     payload,
		OccurredAt:  occurredAt,
	}, nil
}
