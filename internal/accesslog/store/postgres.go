package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"aforo/internal/accesslog/models"
	"aforo/pkg/domain"
)

// PostgresStore persists audit entries in PostgreSQL. Unresolved
// fingerprints are stored with a NULL person_id and read back as the
// unknown sentinel.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed audit log.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, e *models.Entry) error {
	var personID any
	if e.PersonRef != models.UnknownPersonRef {
		u, err := uuid.Parse(e.PersonRef)
		if err != nil {
			return fmt.Errorf("append access log: bad person ref %q: %w", e.PersonRef, err)
		}
		personID = u
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO access_log (ts, person_id, nombre, matricula, area_key, fingerprint_id, acceso)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, e.Timestamp, personID, e.Nombre, e.Matricula, string(e.AreaKey), int(e.HuellaID), e.Acceso).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("append access log: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, limit int) ([]*models.Entry, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ts, person_id, nombre, matricula, area_key, fingerprint_id, acceso
		FROM access_log
		ORDER BY ts DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list access log: %w", err)
	}
	defer rows.Close()

	var out []*models.Entry
	for rows.Next() {
		var (
			e        models.Entry
			ts       time.Time
			personID uuid.NullUUID
			areaKey  string
			huellaID int
		)
		if err := rows.Scan(&e.ID, &ts, &personID, &e.Nombre, &e.Matricula, &areaKey, &huellaID, &e.Acceso); err != nil {
			return nil, fmt.Errorf("scan access log entry: %w", err)
		}
		e.Timestamp = ts
		e.AreaKey = domain.AreaKey(areaKey)
		e.HuellaID = domain.FingerprintID(huellaID)
		if personID.Valid {
			e.PersonRef = personID.UUID.String()
		} else {
			e.PersonRef = models.UnknownPersonRef
		}
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate access log: %w", err)
	}
	return out, nil
}
