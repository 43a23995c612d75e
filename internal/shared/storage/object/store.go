package object

import (
	"context"
	"io"
)

// ObjectStore defines the contract for saving and retrieving stored file bytes.
// Objects are namespaced per institution so storage keys never collide across
// tenants.
type ObjectStore interface {
	Save(ctx context.Context, institutionID string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}
