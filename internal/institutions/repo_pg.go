package institutions

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new institution, translating unique violations.
func (r *PGRepo) Create(ctx context.Context, inst Institution) error {
	const query = `
INSERT INTO institutions (id, name, domain, created_at)
VALUES ($1, $2, $3, $4)`
	_, err := r.DB.ExecContext(ctx, query, inst.ID, inst.Name, inst.Domain, inst.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.ConstraintName, "domain") {
				return ErrDuplicateDomain
			}
			return ErrDuplicateName
		}
		return err
	}
	return nil
}

// GetByID fetches an institution by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Institution, error) {
	const query = `
SELECT id, name, domain, created_at
FROM institutions
WHERE id = $1
LIMIT 1`
	var inst Institution
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&inst.ID, &inst.Name, &inst.Domain, &inst.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Institution{}, ErrNotFound
		}
		return Institution{}, err
	}
	return inst, nil
}

// List returns all institutions sorted by name.
func (r *PGRepo) List(ctx context.Context) ([]Institution, error) {
	const query = `
SELECT id, name, domain, created_at
FROM institutions
ORDER BY name ASC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Institution
	for rows.Next() {
		var inst Institution
		if err := rows.Scan(&inst.ID, &inst.Name, &inst.Domain, &inst.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
