package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"consentvault/internal/security/models"
	id "consentvault/pkg/domain"
)

// PostgresStore persists security events in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO security_events (id, event_type, ip_address, device, occurred_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(event.ID),
		string(event.Type),
		event.IPAddress,
		event.Device,
		event.OccurredAt,
		event.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert security event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]*models.Event, error) {
	query := `
		SELECT id, event_type, ip_address, device, occurred_at, expires_at
		FROM security_events
		ORDER BY occurred_at DESC
		LIMIT $1
	`
	// LIMIT NULL is unbounded, matching limit <= 0 in memory
	var bound sql.NullInt64
	if limit > 0 {
		bound = sql.NullInt64{Int64: int64(limit), Valid: true}
	}
	rows, err := s.db.QueryContext(ctx, query, bound)
	if err != nil {
		return nil, fmt.Errorf("list security events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		var (
			e       models.Event
			eventID uuid.UUID
			typ     string
		)
		if err := rows.Scan(&eventID, &typ, &e.IPAddress, &e.Device, &e.OccurredAt, &e.ExpiresAt); err != nil {
			return nil, fmt.Errorf("scan security event: %w", err)
		}
		e.ID = id.EventID(eventID)
		e.Type = models.EventType(typ)
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate security events: %w", err)
	}
	return events, nil
}

func (s *PostgresStore) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM security_events WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired security events: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}
