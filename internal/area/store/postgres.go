package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"aforo/internal/area/models"
	"aforo/internal/sentinel"
	"aforo/pkg/domain"
)

const uniqueViolation = "23505"

// PostgresStore persists areas in PostgreSQL. Canonical-key uniqueness is
// enforced by the unique constraint on the clave column.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed area store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, a *models.Area) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO areas (id, nombre, clave, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.UUID(a.ID), a.Nombre, a.Clave.String(), a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("area key %q already taken: %w", a.Clave, sentinel.ErrConflict)
		}
		return fmt.Errorf("create area: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, a *models.Area) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE areas SET nombre = $2, clave = $3, updated_at = $4
		WHERE id = $1
	`, uuid.UUID(a.ID), a.Nombre, a.Clave.String(), a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("area key %q already taken: %w", a.Clave, sentinel.ErrConflict)
		}
		return fmt.Errorf("update area: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update area: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id models.AreaID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM areas WHERE id = $1`, uuid.UUID(id))
	if err != nil {
		return fmt.Errorf("delete area: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete area: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id models.AreaID) (*models.Area, error) {
	a, err := scanArea(s.db.QueryRowContext(ctx, `
		SELECT id, nombre, clave, created_at, updated_at FROM areas WHERE id = $1
	`, uuid.UUID(id)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find area by id: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) FindByKey(ctx context.Context, key domain.AreaKey) (*models.Area, error) {
	a, err := scanArea(s.db.QueryRowContext(ctx, `
		SELECT id, nombre, clave, created_at, updated_at FROM areas WHERE clave = $1
	`, key.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find area by key: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Area, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, nombre, clave, created_at, updated_at FROM areas ORDER BY clave
	`)
	if err != nil {
		return nil, fmt.Errorf("list areas: %w", err)
	}
	defer rows.Close()

	var out []*models.Area
	for rows.Next() {
		a, err := scanArea(rows)
		if err != nil {
			return nil, fmt.Errorf("list areas: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list areas: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArea(row rowScanner) (*models.Area, error) {
	var (
		id    uuid.UUID
		a     models.Area
		clave string
	)
	if err := row.Scan(&id, &a.Nombre, &clave, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.ID = models.AreaID(id)
	a.Clave = domain.AreaKey(clave)
	return &a, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
