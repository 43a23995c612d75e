package accounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"unishare-backend/internal/institutions"
	"unishare-backend/internal/shared/auth"
	"unishare-backend/internal/shared/server/middleware"
	"unishare-backend/internal/shared/util"
)

// dummyHash keeps login timing comparable when the email is unknown.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("login-timing-pad"), bcrypt.DefaultCost)

// Service contains the registration and login flows.
type Service struct {
	Repo         Repo
	Institutions institutions.Repo
	Tokens       *auth.TokenService
}

// NewService constructs a Service.
func NewService(repo Repo, instRepo institutions.Repo, tokens *auth.TokenService) *Service {
	return &Service{Repo: repo, Institutions: instRepo, Tokens: tokens}
}

// RegisterInput carries validated registration fields.
type RegisterInput struct {
	Name          string
	Email         string
	Password      string
	InstitutionID string
}

// Register creates an account after checking that the email's domain matches
// the selected institution's domain, then issues a token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Account, institutions.Institution, string, error) {
	email := util.NormalizeEmail(in.Email)

	inst, err := s.Institutions.GetByID(ctx, in.InstitutionID)
	if err != nil {
		if errors.Is(err, institutions.ErrNotFound) {
			return Account{}, institutions.Institution{}, "", ErrInstitutionNotFound
		}
		return Account{}, institutions.Institution{}, "", err
	}

	if util.EmailDomain(email) != inst.Domain {
		return Account{}, institutions.Institution{}, "", &DomainMismatchError{Required: inst.Domain}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, institutions.Institution{}, "", fmt.Errorf("hash password: %w", err)
	}

	acc := Account{
		ID:            uuid.NewString(),
		Name:          in.Name,
		Email:         email,
		PasswordHash:  string(hash),
		InstitutionID: inst.ID,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, acc); err != nil {
		return Account{}, institutions.Institution{}, "", err
	}

	token, err := s.Tokens.Issue(acc.ID)
	if err != nil {
		return Account{}, institutions.Institution{}, "", err
	}
	return acc, inst, token, nil
}

// Login verifies credentials and issues a token. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (Account, institutions.Institution, string, error) {
	acc, err := s.Repo.GetByEmail(ctx, util.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Burn a comparison so the miss costs the same as a mismatch.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return Account{}, institutions.Institution{}, "", ErrInvalidCredentials
		}
		return Account{}, institutions.Institution{}, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)) != nil {
		return Account{}, institutions.Institution{}, "", ErrInvalidCredentials
	}

	inst, err := s.Institutions.GetByID(ctx, acc.InstitutionID)
	if err != nil {
		return Account{}, institutions.Institution{}, "", err
	}

	token, err := s.Tokens.Issue(acc.ID)
	if err != nil {
		return Account{}, institutions.Institution{}, "", err
	}
	return acc, inst, token, nil
}

// Identity resolves an account ID to the guard identity, institution included.
// It implements middleware.IdentitySource.
func (s *Service) Identity(ctx context.Context, accountID string) (middleware.Identity, error) {
	acc, err := s.Repo.GetByID(ctx, accountID)
	if err != nil {
		return middleware.Identity{}, err
	}
	inst, err := s.Institutions.GetByID(ctx, acc.InstitutionID)
	if err != nil {
		return middleware.Identity{}, err
	}
	return middleware.Identity{
		AccountID:         acc.ID,
		Name:              acc.Name,
		Email:             acc.Email,
		InstitutionID:     inst.ID,
		InstitutionName:   inst.Name,
		InstitutionDomain: inst.Domain,
	}, nil
}

var _ middleware.IdentitySource = (*Service)(nil)
