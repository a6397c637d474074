package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"consentvault/internal/audit/models"
	"consentvault/internal/audit/outbox"
	"consentvault/internal/platform/database"
	id "consentvault/pkg/domain"
)

// PostgresStore writes audit records and their outbox entries in one transaction.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, record *models.Record) error {
	entry, err := exportEntry(record)
	if err != nil {
		return err
	}

	return database.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		query := `
			INSERT INTO audit_records (id, actor_id, action, consent_key, detail, ip_address, occurred_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		_, err := tx.ExecContext(ctx, query,
			uuid.UUID(record.ID),
			nullableActor(record.ActorID),
			string(record.Action),
			nullableKey(record.ConsentKey),
			record.Detail,
			record.IPAddress,
			record.OccurredAt,
		)
		if err != nil {
			return fmt.Errorf("insert audit record: %w", err)
		}
		return outbox.InsertTx(ctx, tx, entry)
	})
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]*models.Record, error) {
	query := `
		SELECT id, actor_id, action, consent_key, detail, ip_address, occurred_at
		FROM audit_records
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
		return nil, fmt.Errorf("list audit records: %w", err)
	}
	defer rows.Close()

	var records []*models.Record
	for rows.Next() {
		var (
			r        models.Record
			recordID uuid.UUID
			actor    uuid.NullUUID
			action   string
			key      sql.NullString
		)
		if err := rows.Scan(&recordID, &actor, &action, &key, &r.Detail, &r.IPAddress, &r.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan audit record: %w", err)
		}
		r.ID = id.AuditID(recordID)
		if actor.Valid {
			r.ActorID = id.AdminID(actor.UUID)
		}
		r.Action = models.Action(action)
		r.ConsentKey = id.ConsentKey(key.String)
		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit records: %w", err)
	}
	return records, nil
}

func (s *PostgresStore) DeleteOlderThan(ctx context.Context, before time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM audit_records WHERE occurred_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("delete audit records: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}

func nullableActor(actor id.AdminID) uuid.NullUUID {
	if actor.IsNil() {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(actor), Valid: true}
}

func nullableKey(key id.ConsentKey) sql.NullString {
	if key.IsNil() {
		return sql.NullString{}
	}
	return sql.NullString{String: string(key), Valid: true}
}
