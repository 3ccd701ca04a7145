package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"aforo/internal/person/models"
	"aforo/internal/sentinel"
	"aforo/pkg/domain"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

// PostgresStore persists persons in PostgreSQL.
// This store is pure I/O; slot and identity rules live in the service.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed person store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, p *models.Person) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create person: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO persons (id, nombre, matricula, huella1, huella2, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, uuid.UUID(p.ID), p.Nombre, p.Matricula, int(p.Huella1), int(p.Huella2), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("person %s: %w", p.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("create person: %w", err)
	}

	for _, fid := range []domain.FingerprintID{p.Huella1, p.Huella2} {
		if !fid.IsSet() {
			continue
		}
		if err := indexFingerprint(ctx, tx, fid, p.ID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create person: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, p *models.Person) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE persons SET nombre = $2, matricula = $3, updated_at = $4
		WHERE id = $1
	`, uuid.UUID(p.ID), p.Nombre, p.Matricula, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update person: %w", err)
	}
	return requireAffected(res, "update person")
}

func (s *PostgresStore) Delete(ctx context.Context, id domain.PersonID) error {
	// fingerprint_index and permissions rows cascade.
	res, err := s.db.ExecContext(ctx, `DELETE FROM persons WHERE id = $1`, uuid.UUID(id))
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	return requireAffected(res, "delete person")
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.PersonID) (*models.Person, error) {
	query := `
		SELECT id, nombre, matricula, huella1, huella2, created_at, updated_at
		FROM persons
		WHERE id = $1
	`
	p, err := scanPerson(s.db.QueryRowContext(ctx, query, uuid.UUID(id)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find person by id: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Person, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, nombre, matricula, huella1, huella2, created_at, updated_at
		FROM persons
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	defer rows.Close()

	var out []*models.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("list persons: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) SetFingerprint(ctx context.Context, id domain.PersonID, slot models.Slot, fid domain.FingerprintID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin set fingerprint: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	column := "huella1"
	if slot == models.Slot2 {
		column = "huella2"
	}

	// The WHERE clause guards the empty-slot invariant under concurrency.
	query := fmt.Sprintf(`
		UPDATE persons SET %s = $2, updated_at = $3
		WHERE id = $1 AND %s = 0
	`, column, column)
	res, err := tx.ExecContext(ctx, query, uuid.UUID(id), int(fid), time.Now())
	if err != nil {
		return fmt.Errorf("set fingerprint: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set fingerprint: %w", err)
	}
	if affected == 0 {
		// Either the person is gone or the slot is occupied; look once to tell.
		var occupied bool
		probe := fmt.Sprintf(`SELECT %s <> 0 FROM persons WHERE id = $1`, column)
		if err := tx.QueryRowContext(ctx, probe, uuid.UUID(id)).Scan(&occupied); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("set fingerprint: %w", err)
		}
		return fmt.Errorf("slot %d: %w", slot, sentinel.ErrSlotTaken)
	}

	if err := indexFingerprint(ctx, tx, fid, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit set fingerprint: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByFingerprint(ctx context.Context, fid domain.FingerprintID) (*models.Person, error) {
	if !fid.IsSet() {
		return nil, ErrNotFound
	}
	query := `
		SELECT p.id, p.nombre, p.matricula, p.huella1, p.huella2, p.created_at, p.updated_at
		FROM fingerprint_index fi
		JOIN persons p ON p.id = fi.person_id
		WHERE fi.fingerprint_id = $1
	`
	p, err := scanPerson(s.db.QueryRowContext(ctx, query, int(fid)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find person by fingerprint: %w", err)
	}
	return p, nil
}

func indexFingerprint(ctx context.Context, tx *sql.Tx, fid domain.FingerprintID, owner domain.PersonID) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO fingerprint_index (fingerprint_id, person_id)
		VALUES ($1, $2)
	`, int(fid), uuid.UUID(owner))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("fingerprint %s already enrolled: %w", fid, sentinel.ErrConflict)
		}
		return fmt.Errorf("index fingerprint: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPerson(row rowScanner) (*models.Person, error) {
	var (
		id               uuid.UUID
		p                models.Person
		huella1, huella2 int
	)
	if err := row.Scan(&id, &p.Nombre, &p.Matricula, &huella1, &huella2, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.ID = domain.PersonID(id)
	p.Huella1 = domain.FingerprintID(huella1)
	p.Huella2 = domain.FingerprintID(huella2)
	return &p, nil
}

func requireAffected(res sql.Result, verb string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", verb, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
