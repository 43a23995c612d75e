package accounts

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("account not found")
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInstitutionNotFound = errors.New("institution not found")
)

// DomainMismatchError is returned when a registration email does not belong
// to the selected institution's domain.
type DomainMismatchError struct {
	Required string
}

func (e *DomainMismatchError) Error() string {
	return fmt.Sprintf("email must belong to the institution domain %s", e.Required)
}
