package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"consentvault/internal/admin/models"
	id "consentvault/pkg/domain"
	"consentvault/pkg/platform/sentinel"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, admin *models.Administrator) error {
	query := `
		INSERT INTO administrators (id, login, password_hash, created_at, last_login)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(admin.ID),
		admin.Login,
		admin.PasswordHash,
		admin.CreatedAt,
		admin.LastLogin,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("login taken: %w", sentinel.ErrConflict)
		}
		return fmt.Errorf("insert administrator: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByLogin(ctx context.Context, login string) (*models.Administrator, error) {
	query := `
		SELECT id, login, password_hash, created_at, last_login
		FROM administrators
		WHERE lower(login) = lower($1)
	`
	var (
		adminID   uuid.UUID
		admin     models.Administrator
		lastLogin sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, query, login).Scan(&adminID, &admin.Login, &admin.PasswordHash, &admin.CreatedAt, &lastLogin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("administrator not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find administrator: %w", err)
	}
	admin.ID = id.AdminID(adminID)
	if lastLogin.Valid {
		t := lastLogin.Time
		admin.LastLogin = &t
	}
	return &admin, nil
}

func (s *PostgresStore) RecordLogin(ctx context.Context, adminID id.AdminID, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `UPDATE administrators SET last_login = $2 WHERE id = $1`, uuid.UUID(adminID), at)
	if err != nil {
		return fmt.Errorf("record admin login: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("record admin login: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("administrator not found: %w", sentinel.ErrNotFound)
	}
	return nil
}
