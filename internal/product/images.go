// AngelaMos | 2026
// images.go

package product

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/templates/catalog-admin/internal/audit"
	"github.com/carterperez-dev/templates/catalog-admin/internal/core"
	"github.com/carterperez-dev/templates/catalog-admin/internal/storage"
)

func (s *Service) imagesEnabled() error {
	if s.blobs == nil {
		return fmt.Errorf("image storage not configured: %w", core.ErrStorageFailed)
	}
	return nil
}

// UploadImage stores an image without attaching it to a product.
func (s *Service) UploadImage(ctx context.Context, data []byte) (*storage.UploadResult, error) {
	if err := s.imagesEnabled(); err != nil {
		return nil, err
	}

	contentType, err := storage.ValidateImage(data, s.maxUploadBytes)
	if err != nil {
		return nil, err
	}

	return s.blobs.Upload(ctx, data, contentType)
}

// AttachImage uploads data and points the product at it. If the product
// update fails the uploaded blob is removed again.
func (s *Service) AttachImage(
	ctx context.Context,
	actor audit.Actor,
	id string,
	data []byte,
) (*Product, *storage.UploadResult, error) {
	ctx, span := core.StartSpan(ctx, "product.AttachImage",
		attribute.String("product.id", id),
	)
	defer span.End()

	if err := s.imagesEnabled(); err != nil {
		return nil, nil, err
	}

	contentType, err := storage.ValidateImage(data, s.maxUploadBytes)
	if err != nil {
		return nil, nil, err
	}

	if _, err := s.repo.GetByID(ctx, id, false); err != nil {
		return nil, nil, err
	}

	upload, err := s.blobs.Upload(ctx, data, contentType)
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, nil, err
	}

	p, err := s.Update(ctx, actor, id, UpdateFields{ImageURL: &upload.URL})
	if err != nil {
		if delErr := s.blobs.Delete(ctx, upload.Key); delErr != nil {
			s.logger.WarnContext(ctx, "orphaned image cleanup failed",
				"key", upload.Key,
				"error", delErr,
			)
		}
		return nil, nil, err
	}

	return p, upload, nil
}

// DetachImage removes the product's image. Blob deletion is best effort;
// the column is cleared regardless.
func (s *Service) DetachImage(ctx context.Context, actor audit.Actor, id string) (*Product, error) {
	ctx, span := core.StartSpan(ctx, "product.DetachImage",
		attribute.String("product.id", id),
	)
	defer span.End()

	existing, err := s.repo.GetByID(ctx, id, false)
	if err != nil {
		return nil, err
	}

	if existing.ImageURL != nil && s.blobs != nil {
		if key := s.blobs.KeyFromURL(*existing.ImageURL); key != "" {
			if err := s.blobs.Delete(ctx, key); err != nil {
				s.logger.WarnContext(ctx, "image blob delete failed",
					"product_id", id,
					"key", key,
					"error", err,
				)
			}
		}
	}

	return s.Update(ctx, actor, id, UpdateFields{ClearImage: true})
}
