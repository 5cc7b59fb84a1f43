// Package storage keeps avatars and club media. The database stores object
// keys only; public URLs are derived from the configured base on every read.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

var ErrInvalidKey = errors.New("invalid storage key")

// UploadResult describes a stored object.
type UploadResult struct {
	Key         string
	Location    string
	ContentType string
	ETag        string
}

type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
	// Delete не возвращает ошибку для отсутствующего объекта.
	Delete(ctx context.Context, key string) error
	GetPublicURL(key string) string
}

// CleanKey normalises a slash-separated object key and rejects keys that are
// empty, absolute or escape the storage root.
func CleanKey(key string) (string, error) {
	if key == "" || strings.ContainsRune(key, '\\') || strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	clean := path.Clean(key)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return clean, nil
}
