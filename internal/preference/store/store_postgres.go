package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"consentvault/internal/preference/models"
	id "consentvault/pkg/domain"
	"consentvault/pkg/platform/sentinel"
)

// PostgresStore persists preferences in PostgreSQL. The upsert is the
// serialization point for concurrent writes to the same consent key.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const preferenceColumns = `consent_key, performance, functional, advertising, social_media, created_at, updated_at, deleted_at`

func (s *PostgresStore) Upsert(ctx context.Context, prefs *models.Preferences) (*models.Preferences, error) {
	query := `
		INSERT INTO preferences (consent_key, strictly_necessary, performance, functional, advertising, social_media, created_at, updated_at, deleted_at)
		VALUES ($1, TRUE, $2, $3, $4, $5, $6, $6, NULL)
		ON CONFLICT (consent_key) DO UPDATE SET
			strictly_necessary = TRUE,
			performance = EXCLUDED.performance,
			functional = EXCLUDED.functional,
			advertising = EXCLUDED.advertising,
			social_media = EXCLUDED.social_media,
			updated_at = EXCLUDED.updated_at,
			deleted_at = NULL
		RETURNING ` + preferenceColumns
	row := s.db.QueryRowContext(ctx, query,
		string(prefs.ConsentKey),
		prefs.Performance,
		prefs.Functional,
		prefs.Advertising,
		prefs.SocialMedia,
		prefs.UpdatedAt,
	)
	stored, err := scanPreferences(row)
	if err != nil {
		return nil, fmt.Errorf("upsert preferences: %w", err)
	}
	return stored, nil
}

func (s *PostgresStore) FindByConsentKey(ctx context.Context, key id.ConsentKey) (*models.Preferences, error) {
	query := `SELECT ` + preferenceColumns + ` FROM preferences WHERE consent_key = $1`
	prefs, err := scanPreferences(s.db.QueryRowContext(ctx, query, string(key)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("preferences not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find preferences: %w", err)
	}
	return prefs, nil
}

// SoftDelete resets every optional purpose. The WHERE clause makes a repeat
// call touch no rows, which is how it reports "nothing changed".
func (s *PostgresStore) SoftDelete(ctx context.Context, key id.ConsentKey, at time.Time) (bool, error) {
	query := `
		UPDATE preferences SET
			performance = FALSE,
			functional = FALSE,
			advertising = FALSE,
			social_media = FALSE,
			updated_at = CASE WHEN deleted_at IS NULL THEN $2 ELSE updated_at END,
			deleted_at = COALESCE(deleted_at, $2)
		WHERE consent_key = $1
		  AND (deleted_at IS NULL OR performance OR functional OR advertising OR social_media)
	`
	res, err := s.db.ExecContext(ctx, query, string(key), at)
	if err != nil {
		return false, fmt.Errorf("soft delete preferences: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if n > 0 {
		return true, nil
	}
	if _, err := s.FindByConsentKey(ctx, key); err != nil {
		return false, err
	}
	return false, nil
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]*models.Preferences, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+preferenceColumns+` FROM preferences`)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	defer rows.Close()

	var out []*models.Preferences
	for rows.Next() {
		prefs, err := scanPreferences(rows)
		if err != nil {
			return nil, fmt.Errorf("scan preferences: %w", err)
		}
		out = append(out, prefs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate preferences: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM preferences WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete aged preferences: %w", err)
	}
	return affected(res)
}

func (s *PostgresStore) DeleteByConsentKeys(ctx context.Context, keys []id.ConsentKey) (int, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM preferences WHERE consent_key = ANY($1)`, pq.Array(consentKeyStrings(keys)))
	if err != nil {
		return 0, fmt.Errorf("delete preferences by consent key: %w", err)
	}
	return affected(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPreferences(row rowScanner) (*models.Preferences, error) {
	var (
		prefs     models.Preferences
		key       string
		deletedAt sql.NullTime
	)
	if err := row.Scan(&key, &prefs.Performance, &prefs.Functional, &prefs.Advertising, &prefs.SocialMedia,
		&prefs.CreatedAt, &prefs.UpdatedAt, &deletedAt); err != nil {
		return nil, err
	}
	prefs.ConsentKey = id.ConsentKey(key)
	prefs.StrictlyNecessary = true
	if deletedAt.Valid {
		t := deletedAt.Time
		prefs.DeletedAt = &t
	}
	return &prefs, nil
}

func consentKeyStrings(keys []id.ConsentKey) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}
	return out
}

func affected(res sql.Result) (int, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}
