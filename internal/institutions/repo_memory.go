package institutions

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Institution // id -> institution
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Institution)}
}

// Create stores a new institution, enforcing name and domain uniqueness.
func (r *MemoryRepo) Create(ctx context.Context, inst Institution) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.data {
		if strings.EqualFold(existing.Name, inst.Name) {
			return ErrDuplicateName
		}
		if existing.Domain == inst.Domain {
			return ErrDuplicateDomain
		}
	}
	r.data[inst.ID] = inst
	return nil
}

// GetByID fetches an institution by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Institution, error) {
	if err := ctx.Err(); err != nil {
		return Institution{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	inst, ok := r.data[id]
	if !ok {
		return Institution{}, ErrNotFound
	}
	return inst, nil
}

// List returns all institutions sorted by name.
func (r *MemoryRepo) List(ctx context.Context) ([]Institution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Institution, 0, len(r.data))
	for _, inst := range r.data {
		out = append(out, inst)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
