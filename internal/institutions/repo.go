package institutions

import "context"

// Repo defines persistence operations for institutions.
type Repo interface {
	Create(ctx context.Context, inst Institution) error
	GetByID(ctx context.Context, id string) (Institution, error)
	// List returns all institutions sorted by name.
	List(ctx context.Context) ([]Institution, error)
}
