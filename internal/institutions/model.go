package institutions

import "time"

// Institution is a tenant organization with a unique email domain. It is the
// unit of data isolation: accounts and files are scoped to exactly one.
type Institution struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Domain    string    `json:"domain"`
	CreatedAt time.Time `json:"createdAt"`
}
