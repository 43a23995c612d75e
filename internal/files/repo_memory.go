package files

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]File // id -> record
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]File)}
}

// Create stores a new file record.
func (r *MemoryRepo) Create(ctx context.Context, f File) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[f.ID] = f
	return nil
}

// GetByID loads a record by ID without an institution constraint.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (File, error) {
	if err := ctx.Err(); err != nil {
		return File{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.data[id]
	if !ok {
		return File{}, ErrNotFound
	}
	return f, nil
}

// List returns the institution's records newest first.
func (r *MemoryRepo) List(ctx context.Context, institutionID string, q Query) ([]File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []File
	for _, f := range r.data {
		if f.InstitutionID != institutionID {
			continue
		}
		if q.Semester != "" && f.Semester != q.Semester {
			continue
		}
		if q.Course != "" && !strings.EqualFold(f.Course, q.Course) {
			continue
		}
		if q.UploaderID != "" && f.AccountID != q.UploaderID {
			continue
		}
		if q.SearchTerm != "" {
			term := strings.ToLower(q.SearchTerm)
			name := strings.ToLower(f.FileName)
			desc := strings.ToLower(f.Description)
			if !strings.Contains(name, term) && !strings.Contains(desc, term) {
				continue
			}
		}
		out = append(out, f)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
