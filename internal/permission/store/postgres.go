package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"aforo/internal/permission/models"
	"aforo/internal/sentinel"
	"aforo/pkg/domain"
)

// PostgresStore persists permissions in PostgreSQL. The primary key on
// (person_id, area_key) makes Upsert a plain ON CONFLICT update.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed permission store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Upsert(ctx context.Context, p *models.Permission) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO permissions (person_id, area_key, habilitado, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (person_id, area_key)
		DO UPDATE SET habilitado = EXCLUDED.habilitado, updated_at = EXCLUDED.updated_at
	`, uuid.UUID(p.PersonID), string(p.AreaKey), p.Habilitado, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert permission: %w", err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, personID domain.PersonID, areaKey domain.AreaKey) (*models.Permission, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT person_id, area_key, habilitado, updated_at
		FROM permissions
		WHERE person_id = $1 AND area_key = $2
	`, uuid.UUID(personID), string(areaKey))

	p, err := scanPermission(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find permission: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) ListByPerson(ctx context.Context, personID domain.PersonID) ([]*models.Permission, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT person_id, area_key, habilitado, updated_at
		FROM permissions
		WHERE person_id = $1
		ORDER BY area_key
	`, uuid.UUID(personID))
	if err != nil {
		return nil, fmt.Errorf("list permissions by person: %w", err)
	}
	defer rows.Close()

	return collectPermissions(rows)
}

func (s *PostgresStore) ListByArea(ctx context.Context, areaKey domain.AreaKey) ([]*models.Permission, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT person_id, area_key, habilitado, updated_at
		FROM permissions
		WHERE area_key = $1
		ORDER BY person_id
	`, string(areaKey))
	if err != nil {
		return nil, fmt.Errorf("list permissions by area: %w", err)
	}
	defer rows.Close()

	return collectPermissions(rows)
}

func (s *PostgresStore) DeleteByPerson(ctx context.Context, personID domain.PersonID) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM permissions WHERE person_id = $1
	`, uuid.UUID(personID))
	if err != nil {
		return 0, fmt.Errorf("delete permissions by person: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (s *PostgresStore) DeleteByAreaKey(ctx context.Context, areaKey domain.AreaKey) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM permissions WHERE area_key = $1
	`, string(areaKey))
	if err != nil {
		return 0, fmt.Errorf("delete permissions by area: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPermission(row rowScanner) (*models.Permission, error) {
	var (
		personID   uuid.UUID
		areaKey    string
		habilitado bool
		updatedAt  time.Time
	)
	if err := row.Scan(&personID, &areaKey, &habilitado, &updatedAt); err != nil {
		return nil, err
	}
	return &models.Permission{
		PersonID:   domain.PersonID(personID),
		AreaKey:    domain.AreaKey(areaKey),
		Habilitado: habilitado,
		UpdatedAt:  updatedAt,
	}, nil
}

func collectPermissions(rows *sql.Rows) ([]*models.Permission, error) {
	var out []*models.Permission
	for rows.Next() {
		p, err := scanPermission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan permission: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate permissions: %w", err)
	}
	return out, nil
}
