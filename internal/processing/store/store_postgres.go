package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"consentvault/internal/processing/models"
	id "consentvault/pkg/domain"
	"consentvault/pkg/platform/sentinel"
)

// PostgresStore persists processing contexts in PostgreSQL. The table carries
// a CHECK constraint mirroring Context.Validate.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const contextColumns = `consent_key, ip_address, isp, city, region, country, latitude, longitude,
	purpose, consent_status, created_at, updated_at, deleted_at, purge_at`

func (s *PostgresStore) Upsert(ctx context.Context, c *models.Context) (*models.Context, error) {
	var lat, lon sql.NullFloat64
	if c.Coordinates != nil {
		lat = sql.NullFloat64{Float64: c.Coordinates.Latitude, Valid: true}
		lon = sql.NullFloat64{Float64: c.Coordinates.Longitude, Valid: true}
	}
	query := `
		INSERT INTO processing_contexts (` + contextColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11, NULL, NULL)
		ON CONFLICT (consent_key) DO UPDATE SET
			ip_address = EXCLUDED.ip_address,
			isp = EXCLUDED.isp,
			city = EXCLUDED.city,
			region = EXCLUDED.region,
			country = EXCLUDED.country,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			purpose = EXCLUDED.purpose,
			consent_status = EXCLUDED.consent_status,
			updated_at = EXCLUDED.updated_at,
			deleted_at = NULL
		RETURNING ` + contextColumns
	row := s.db.QueryRowContext(ctx, query,
		string(c.ConsentKey), c.IPAddress, c.ISP, c.City, c.Region, c.Country, lat, lon,
		string(c.Purpose), string(c.Status), c.UpdatedAt,
	)
	stored, err := scanContext(row)
	if err != nil {
		return nil, fmt.Errorf("upsert processing context: %w", err)
	}
	return stored, nil
}

func (s *PostgresStore) FindByConsentKey(ctx context.Context, key id.ConsentKey) (*models.Context, error) {
	query := `SELECT ` + contextColumns + ` FROM processing_contexts WHERE consent_key = $1`
	c, err := scanContext(s.db.QueryRowContext(ctx, query, string(key)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("processing context not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find processing context: %w", err)
	}
	return c, nil
}

// Withdraw only matches active rows and never overwrites an existing
// purge_at, so the schedule is fixed by the first withdrawal.
func (s *PostgresStore) Withdraw(ctx context.Context, key id.ConsentKey, at time.Time, grace time.Duration) (bool, error) {
	query := `
		UPDATE processing_contexts SET
			consent_status = $2,
			deleted_at = $3,
			purge_at = COALESCE(purge_at, $4),
			updated_at = $3
		WHERE consent_key = $1 AND deleted_at IS NULL
	`
	res, err := s.db.ExecContext(ctx, query, string(key), string(models.StatusRejected), at, at.Add(grace))
	if err != nil {
		return false, fmt.Errorf("withdraw processing context: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]*models.Context, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+contextColumns+` FROM processing_contexts`)
	if err != nil {
		return nil, fmt.Errorf("list processing contexts: %w", err)
	}
	defer rows.Close()

	var out []*models.Context
	for rows.Next() {
		c, err := scanContext(rows)
		if err != nil {
			return nil, fmt.Errorf("scan processing context: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate processing contexts: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) DeletePurgeDue(ctx context.Context, now time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM processing_contexts WHERE purge_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete purge-due processing contexts: %w", err)
	}
	return affected(res)
}

func (s *PostgresStore) DeleteByConsentKeys(ctx context.Context, keys []id.ConsentKey) (int, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	raw := make([]string, len(keys))
	for i, k := range keys {
		raw[i] = string(k)
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM processing_contexts WHERE consent_key = ANY($1)`, pq.Array(raw))
	if err != nil {
		return 0, fmt.Errorf("delete processing contexts by consent key: %w", err)
	}
	return affected(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContext(row rowScanner) (*models.Context, error) {
	var (
		c                  models.Context
		key                string
		purpose, status    string
		lat, lon           sql.NullFloat64
		deletedAt, purgeAt sql.NullTime
	)
	if err := row.Scan(&key, &c.IPAddress, &c.ISP, &c.City, &c.Region, &c.Country, &lat, &lon,
		&purpose, &status, &c.CreatedAt, &c.UpdatedAt, &deletedAt, &purgeAt); err != nil {
		return nil, err
	}
	c.ConsentKey = id.ConsentKey(key)
	c.Purpose = models.Purpose(purpose)
	c.Status = models.ConsentStatus(status)
	if lat.Valid && lon.Valid {
		c.Coordinates = &models.Coordinates{Latitude: lat.Float64, Longitude: lon.Float64}
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		c.DeletedAt = &t
	}
	if purgeAt.Valid {
		t := purgeAt.Time
		c.PurgeAt = &t
	}
	return &c, nil
}

func affected(res sql.Result) (int, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}
