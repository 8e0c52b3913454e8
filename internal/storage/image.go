// AngelaMos | 2026
// image.go

package storage

import (
	"fmt"

	"github.com/gabriel-vasile/mimetype"

	"github.com/carterperez-dev/templates/catalog-admin/internal/core"
)

const DefaultMaxImageBytes int64 = 5 << 20

var allowedImageTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
}

// ValidateImage sniffs data and returns its MIME type when it is an
// allowed image no larger than maxBytes. The client supplied content
// type is never trusted.
func ValidateImage(data []byte, maxBytes int64) (string, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}

	if len(data) == 0 {
		return "", fmt.Errorf("validate image: empty file: %w", core.ErrInvalidInput)
	}

	if int64(len(data)) > maxBytes {
		return "", fmt.Errorf(
			"validate image: file exceeds %d bytes: %w",
			maxBytes,
			core.ErrInvalidInput,
		)
	}

	mtype := mimetype.Detect(data)
	for _, allowed := range allowedImageTypes {
		if mtype.Is(allowed) {
			return allowed, nil
		}
	}

	return "", fmt.Errorf(
		"validate image: unsupported type %s, only JPEG, PNG, GIF and WebP are allowed: %w",
		mtype.String(),
		core.ErrInvalidInput,
	)
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}

	if mt := mimetype.Lookup(contentType); mt != nil {
		return mt.Extension()
	}
	return ""
}
