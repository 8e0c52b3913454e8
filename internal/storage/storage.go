// AngelaMos | 2026
// storage.go

package storage

import (
	"context"
)

type UploadResult struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Filename string `json:"filename"`
}

// BlobStore is an opaque object store addressed by key. URLs it hands out
// can be mapped back to keys with KeyFromURL.
type BlobStore interface {
	Upload(ctx context.Context, data []byte, contentType string) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(rawURL string) string
}
