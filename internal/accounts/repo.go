package accounts

import "context"

// Repo defines persistence operations for accounts.
type Repo interface {
	// Create inserts a new account, returning ErrDuplicateEmail when the
	// email is already registered (including when the insert races another
	// registration and loses to the unique constraint).
	Create(ctx context.Context, acc Account) error
	// GetByEmail returns the account including its password hash.
	GetByEmail(ctx context.Context, email string) (Account, error)
	GetByID(ctx context.Context, id string) (Account, error)
}
