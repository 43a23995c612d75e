package files

import "context"

// Repo defines persistence operations for file records.
type Repo interface {
	Create(ctx context.Context, f File) error
	// GetByID loads a record regardless of institution; the service performs
	// the object-level institution check on the result.
	GetByID(ctx context.Context, id string) (File, error)
	// List returns records for the given institution only, newest first.
	// institutionID is always applied; q only narrows within it.
	List(ctx context.Context, institutionID string, q Query) ([]File, error)
}
