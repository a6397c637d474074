package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"consentvault/internal/identity/models"
	id "consentvault/pkg/domain"
	"consentvault/pkg/platform/sentinel"
)

const (
	consentKeyConstraint    = "identities_consent_key_key"
	contactDigestConstraint = "identities_active_contact_digest_idx"
)

// PostgresStore persists identities in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const identityColumns = `id, name, contact_digest, password_hash, consent_key, created_at, last_activity, deleted_at`

func (s *PostgresStore) Create(ctx context.Context, identity *models.Identity) error {
	query := `
		INSERT INTO identities (` + identityColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(identity.ID),
		identity.Name,
		string(identity.ContactDigest),
		identity.PasswordHash,
		string(identity.ConsentKey),
		identity.CreatedAt,
		identity.LastActivity,
		identity.DeletedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if pgErr.ConstraintName == consentKeyConstraint {
				return fmt.Errorf("consent key taken: %w", sentinel.ErrAlreadyUsed)
			}
			return fmt.Errorf("contact already registered: %w", sentinel.ErrConflict)
		}
		return fmt.Errorf("insert identity: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, identityID id.IdentityID) (*models.Identity, error) {
	query := `SELECT ` + identityColumns + ` FROM identities WHERE id = $1`
	return s.findOne(ctx, query, uuid.UUID(identityID))
}

func (s *PostgresStore) FindByContactDigest(ctx context.Context, digest models.ContactDigest) (*models.Identity, error) {
	query := `SELECT ` + identityColumns + ` FROM identities WHERE contact_digest = $1 AND deleted_at IS NULL`
	return s.findOne(ctx, query, string(digest))
}

func (s *PostgresStore) FindByConsentKey(ctx context.Context, key id.ConsentKey) (*models.Identity, error) {
	query := `SELECT ` + identityColumns + ` FROM identities WHERE consent_key = $1`
	return s.findOne(ctx, query, string(key))
}

func (s *PostgresStore) findOne(ctx context.Context, query string, arg any) (*models.Identity, error) {
	identity, err := scanIdentity(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("identity not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}
	return identity, nil
}

func (s *PostgresStore) TouchLastActivity(ctx context.Context, identityID id.IdentityID, at time.Time) error {
	query := `UPDATE identities SET last_activity = GREATEST(last_activity, $2) WHERE id = $1`
	res, err := s.db.ExecContext(ctx, query, uuid.UUID(identityID), at)
	if err != nil {
		return fmt.Errorf("touch identity: %w", err)
	}
	return requireRow(res)
}

// SoftDelete keeps the first deletion timestamp on repeated calls.
func (s *PostgresStore) SoftDelete(ctx context.Context, key id.ConsentKey, at time.Time) error {
	query := `UPDATE identities SET deleted_at = COALESCE(deleted_at, $2) WHERE consent_key = $1`
	res, err := s.db.ExecContext(ctx, query, string(key), at)
	if err != nil {
		return fmt.Errorf("soft delete identity: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]*models.Identity, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+identityColumns+` FROM identities ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}
	defer rows.Close()

	var identities []*models.Identity
	for rows.Next() {
		identity, err := scanIdentity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan identity: %w", err)
		}
		identities = append(identities, identity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate identities: %w", err)
	}
	return identities, nil
}

func (s *PostgresStore) DeleteExpired(ctx context.Context, deletedBefore, inactiveBefore time.Time) ([]id.ConsentKey, error) {
	query := `
		DELETE FROM identities
		WHERE deleted_at <= $1 OR last_activity < $2
		RETURNING consent_key
	`
	rows, err := s.db.QueryContext(ctx, query, deletedBefore, inactiveBefore)
	if err != nil {
		return nil, fmt.Errorf("delete expired identities: %w", err)
	}
	defer rows.Close()

	var keys []id.ConsentKey
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan purged consent key: %w", err)
		}
		keys = append(keys, id.ConsentKey(key))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate purged identities: %w", err)
	}
	return keys, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIdentity(row rowScanner) (*models.Identity, error) {
	var (
		identity   models.Identity
		identityID uuid.UUID
		digest     string
		key        string
		deletedAt  sql.NullTime
	)
	if err := row.Scan(&identityID, &identity.Name, &digest, &identity.PasswordHash, &key,
		&identity.CreatedAt, &identity.LastActivity, &deletedAt); err != nil {
		return nil, err
	}
	identity.ID = id.IdentityID(identityID)
	identity.ContactDigest = models.ContactDigest(digest)
	identity.ConsentKey = id.ConsentKey(key)
	if deletedAt.Valid {
		t := deletedAt.Time
		identity.DeletedAt = &t
	}
	return &identity, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("identity not found: %w", sentinel.ErrNotFound)
	}
	return nil
}
