package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const fileColumns = `id, institution_id, account_id, file_name, semester, course, description, storage_key, mime_type, size_bytes, created_at`

// Create inserts a new file record.
func (r *PGRepo) Create(ctx context.Context, f File) error {
	const query = `
INSERT INTO files (id, institution_id, account_id, file_name, semester, course, description, storage_key, mime_type, size_bytes, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	var description sql.NullString
	if f.Description != "" {
		description = sql.NullString{String: f.Description, Valid: true}
	}

	_, err := r.DB.ExecContext(ctx, query,
		f.ID,
		f.InstitutionID,
		f.AccountID,
		f.FileName,
		f.Semester,
		f.Course,
		description,
		f.StorageKey,
		f.MimeType,
		f.SizeBytes,
		f.CreatedAt,
	)
	return err
}

// GetByID loads a record by ID without an institution constraint. Malformed
// ids are a plain miss; the UUID column would reject them as a query error.
func (r *PGRepo) GetByID(ctx context.Context, id string) (File, error) {
	if _, err := uuid.Parse(id); err != nil {
		return File{}, ErrNotFound
	}
	query := `
SELECT ` + fileColumns + `
FROM files
WHERE id = $1
LIMIT 1`
	f, err := scanFile(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return File{}, ErrNotFound
		}
		return File{}, err
	}
	return f, nil
}

// List returns the institution's records newest first. The institution term
// is always the first predicate; the optional refinements are ANDed onto it.
func (r *PGRepo) List(ctx context.Context, institutionID string, q Query) ([]File, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + fileColumns + ` FROM files WHERE institution_id = $1`)
	args := []any{institutionID}

	if q.Semester != "" {
		args = append(args, q.Semester)
		fmt.Fprintf(&sb, " AND semester = $%d", len(args))
	}
	if q.Course != "" {
		args = append(args, q.Course)
		fmt.Fprintf(&sb, " AND LOWER(course) = LOWER($%d)", len(args))
	}
	if q.UploaderID != "" {
		args = append(args, q.UploaderID)
		fmt.Fprintf(&sb, " AND account_id = $%d", len(args))
	}
	if q.SearchTerm != "" {
		args = append(args, "%"+escapeLike(q.SearchTerm)+"%")
		fmt.Fprintf(&sb, " AND (file_name ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
	}

	sb.WriteString(" ORDER BY created_at DESC")

	rows, err := r.DB.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFile(row rowScanner) (File, error) {
	var f File
	var description sql.NullString
	err := row.Scan(
		&f.ID,
		&f.InstitutionID,
		&f.AccountID,
		&f.FileName,
		&f.Semester,
		&f.Course,
		&description,
		&f.StorageKey,
		&f.MimeType,
		&f.SizeBytes,
		&f.CreatedAt,
	)
	if err != nil {
		return File{}, err
	}
	if description.Valid {
		f.Description = description.String
	}
	return f, nil
}

// escapeLike neutralizes LIKE wildcards in user-supplied search terms.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

var _ Repo = (*PGRepo)(nil)
