package filestorage

import (
	"context"
	"io"
)

// DocumentStorage stores supporting documents and returns the URL they can be fetched from
type DocumentStorage interface {
	// Save writes body under key and returns its public URL
	Save(ctx context.Context, key string, body io.ReadSeeker, contentType string) (string, error)

	// Delete removes the object stored under key. Missing objects are not an error.
	Delete(ctx context.Context, key string) error
}
