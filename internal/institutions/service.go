package institutions

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"unishare-backend/internal/shared/validate"
)

// Service contains business logic for institutions.
type Service struct {
	Repo Repo
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Create persists a new institution. The domain is stored lowercased and must
// be a well-formed email domain; no account can ever match a malformed one.
func (s *Service) Create(ctx context.Context, name, domain string) (Institution, error) {
	inst := Institution{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Domain:    strings.ToLower(strings.TrimSpace(domain)),
		CreatedAt: time.Now().UTC(),
	}
	if !validate.Domain(inst.Domain) {
		return Institution{}, ErrInvalidDomain
	}
	if err := s.Repo.Create(ctx, inst); err != nil {
		return Institution{}, err
	}
	return inst, nil
}

// List returns all institutions sorted by name.
func (s *Service) List(ctx context.Context) ([]Institution, error) {
	return s.Repo.List(ctx)
}

// GetByID fetches an institution by ID.
func (s *Service) GetByID(ctx context.Context, id string) (Institution, error) {
	return s.Repo.GetByID(ctx, id)
}
