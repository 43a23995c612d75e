package institutions

import "errors"

var (
	ErrNotFound        = errors.New("institution not found")
	ErrInvalidDomain   = errors.New("institution domain is malformed")
	ErrDuplicateName   = errors.New("institution name already exists")
	ErrDuplicateDomain = errors.New("institution domain already exists")
)
