package files

import "time"

// File is the metadata for one uploaded study file. InstitutionID is
// denormalized from the uploader at creation time and never taken from
// client input; records are immutable after creation.
type File struct {
	ID            string
	InstitutionID string
	AccountID     string
	FileName      string
	Semester      string
	Course        string
	Description   string
	StorageKey    string
	MimeType      string
	SizeBytes     int64
	CreatedAt     time.Time
}

// Query is the set of optional refinements a caller can apply to a listing.
// The mandatory institution term is not part of it; the repo adds that first.
type Query struct {
	Semester   string
	Course     string
	SearchTerm string
	UploaderID string
}
