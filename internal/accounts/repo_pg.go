package accounts

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new account, translating the unique email violation.
func (r *PGRepo) Create(ctx context.Context, acc Account) error {
	const query = `
INSERT INTO accounts (id, name, email, password_hash, institution_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.DB.ExecContext(ctx, query,
		acc.ID,
		acc.Name,
		acc.Email,
		acc.PasswordHash,
		acc.InstitutionID,
		acc.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// GetByEmail returns the account including its password hash.
func (r *PGRepo) GetByEmail(ctx context.Context, email string) (Account, error) {
	const query = `
SELECT id, name, email, password_hash, institution_id, created_at
FROM accounts
WHERE email = $1
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, email))
}

// GetByID fetches an account by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Account, error) {
	const query = `
SELECT id, name, email, password_hash, institution_id, created_at
FROM accounts
WHERE id = $1
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *PGRepo) scanOne(row *sql.Row) (Account, error) {
	var acc Account
	err := row.Scan(
		&acc.ID,
		&acc.Name,
		&acc.Email,
		&acc.PasswordHash,
		&acc.InstitutionID,
		&acc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		return Account{}, err
	}
	return acc, nil
}

var _ Repo = (*PGRepo)(nil)
