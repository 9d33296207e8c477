// Package blob mirrors artifact content into an S3-compatible object
// store so artifacts can be served by presigned URL instead of
// through the API. The mirror is optional; when disabled, artifact
// content is only available from the database.
package blob

import (
	"context"
	"errors"
)

// ErrNotFound indicates the object does not exist in the mirror.
var ErrNotFound = errors.New("blob: object not found")

// Store is the object-storage surface for artifact content.
type Store interface {
	Put(ctx context.Context, projectID, name string, content []byte) error
	Get(ctx context.Context, projectID, name string) ([]byte, error)
	// URL returns a time-limited presigned download link.
	URL(ctx context.Context, projectID, name string) (string, error)
}
