package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// KeyPrefix is the common prefix for all uploaded objects
const KeyPrefix = "uploads"

// Storage defines the minimal interface for blob storage backends.
// Intentionally simple: put an object, delete it, resolve its public URL.
type Storage interface {
	// Put stores an object under the given key.
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Delete removes an object by key. Returns nil if the object doesn't exist.
	Delete(ctx context.Context, key string) error

	// GetURL returns the public URL for an object key.
	GetURL(key string) string

	// KeyFromURL maps a public URL produced by GetURL back to its object key.
	// Returns "" when the URL does not belong to this backend.
	KeyFromURL(url string) string
}

// BuildKey derives an object key from a millisecond timestamp and the
// original filename. Two uploads of the same filename in the same
// millisecond collide; accepted.
func BuildKey(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	return fmt.Sprintf("%s/%d-%s", KeyPrefix, time.Now().UnixMilli(), name)
}
