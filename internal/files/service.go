package files

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"unishare-backend/internal/accounts"
	"unishare-backend/internal/shared/server/middleware"
	"unishare-backend/internal/shared/storage/object"
)

// allowedExtensions is the upload whitelist keyed by lowercase extension.
var allowedExtensions = map[string]struct{}{
	".pdf": {}, ".doc": {}, ".docx": {}, ".ppt": {}, ".pptx": {},
	".xls": {}, ".xlsx": {}, ".txt": {}, ".jpeg": {}, ".jpg": {},
	".png": {}, ".gif": {}, ".zip": {},
}

var allowedContentTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"application/vnd.ms-powerpoint":                                             {},
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": {},
	"application/vnd.ms-excel": {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {},
	"text/plain":      {},
	"image/jpeg":      {},
	"image/png":       {},
	"image/gif":       {},
	"application/zip": {},
}

// Service contains business logic for file records. Every operation takes the
// guard-resolved identity; institution scoping always comes from it.
type Service struct {
	Repo     Repo
	Store    object.ObjectStore
	Accounts accounts.Repo
}

// NewService constructs a Service.
func NewService(repo Repo, store object.ObjectStore, accountsRepo accounts.Repo) *Service {
	return &Service{Repo: repo, Store: store, Accounts: accountsRepo}
}

// Detail is a file record with the uploader and institution names resolved.
type Detail struct {
	File
	UploaderName    string
	InstitutionName string
}

// UploadInput carries validated upload fields plus the payload.
type UploadInput struct {
	FileName     string
	DeclaredType string
	Semester     string
	Course       string
	Description  string
	Body         io.Reader
}

// Upload stores the payload and records the metadata. The institution and
// uploader references come exclusively from the identity. A failure after the
// payload was stored leaves the stored bytes orphaned; that is accepted.
func (s *Service) Upload(ctx context.Context, id middleware.Identity, in UploadInput) (Detail, error) {
	if in.FileName == "" || in.Body == nil {
		return Detail{}, ErrInvalidInput
	}
	if !typeAllowed(in.FileName, in.DeclaredType) {
		return Detail{}, ErrUnsupportedType
	}

	storageKey, size, sniffedType, err := s.Store.Save(ctx, id.InstitutionID, in.FileName, in.Body)
	if err != nil {
		return Detail{}, err
	}

	mimeType := strings.TrimSpace(in.DeclaredType)
	if mimeType == "" {
		mimeType = sniffedType
	}

	f := File{
		ID:            uuid.NewString(),
		InstitutionID: id.InstitutionID,
		AccountID:     id.AccountID,
		FileName:      in.FileName,
		Semester:      in.Semester,
		Course:        in.Course,
		Description:   in.Description,
		StorageKey:    storageKey,
		MimeType:      mimeType,
		SizeBytes:     size,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, f); err != nil {
		return Detail{}, err
	}

	return Detail{File: f, UploaderName: id.Name, InstitutionName: id.InstitutionName}, nil
}

// List returns the caller's institution's records matching q, newest first.
func (s *Service) List(ctx context.Context, id middleware.Identity, q Query) ([]Detail, error) {
	records, err := s.Repo.List(ctx, id.InstitutionID, q)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, id, records)
}

// Get loads one record and enforces the object-level institution check. This
// check is deliberately independent of the query-level filter in List; both
// must hold on their own.
func (s *Service) Get(ctx context.Context, id middleware.Identity, fileID string) (Detail, error) {
	f, err := s.Repo.GetByID(ctx, fileID)
	if err != nil {
		return Detail{}, err
	}
	if f.InstitutionID != id.InstitutionID {
		return Detail{}, ErrForbidden
	}
	details, err := s.resolve(ctx, id, []File{f})
	if err != nil {
		return Detail{}, err
	}
	return details[0], nil
}

// Download runs the same identity checks as Get and opens the stored bytes.
func (s *Service) Download(ctx context.Context, id middleware.Identity, fileID string) (Detail, io.ReadCloser, error) {
	detail, err := s.Get(ctx, id, fileID)
	if err != nil {
		return Detail{}, nil, err
	}
	rc, err := s.Store.Open(ctx, detail.StorageKey)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Detail{}, nil, ErrNotFound
		}
		return Detail{}, nil, err
	}
	return detail, rc, nil
}

// resolve fills in uploader names. All records share the caller's institution,
// so the institution name comes straight from the identity.
func (s *Service) resolve(ctx context.Context, id middleware.Identity, records []File) ([]Detail, error) {
	names := map[string]string{id.AccountID: id.Name}
	out := make([]Detail, 0, len(records))
	for _, f := range records {
		name, ok := names[f.AccountID]
		if !ok {
			acc, err := s.Accounts.GetByID(ctx, f.AccountID)
			if err != nil && !errors.Is(err, accounts.ErrNotFound) {
				return nil, err
			}
			name = acc.Name
			names[f.AccountID] = name
		}
		out = append(out, Detail{File: f, UploaderName: name, InstitutionName: id.InstitutionName})
	}
	return out, nil
}

func typeAllowed(fileName, declaredType string) bool {
	ext := strings.ToLower(filepath.Ext(fileName))
	if _, ok := allowedExtensions[ext]; !ok {
		return false
	}
	declared := strings.ToLower(strings.TrimSpace(declaredType))
	if declared == "" || declared == "application/octet-stream" {
		// Some clients omit or genericize the type; the extension gate above
		// still applies.
		return true
	}
	if semi := strings.Index(declared, ";"); semi >= 0 {
		declared = strings.TrimSpace(declared[:semi])
	}
	_, ok := allowedContentTypes[declared]
	return ok
}
