package files

import "errors"

var (
	ErrNotFound        = errors.New("file not found")
	ErrForbidden       = errors.New("file belongs to another institution")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnsupportedType = errors.New("unsupported file type")
)
