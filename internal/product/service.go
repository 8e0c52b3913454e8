// AngelaMos | 2026
// service.go

package product

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/templates/catalog-admin/internal/audit"
	"github.com/carterperez-dev/templates/catalog-admin/internal/core"
	"github.com/carterperez-dev/templates/catalog-admin/internal/storage"
)

var maxPrice = decimal.RequireFromString("99999999.99")

type Service struct {
	repo           Repository
	uow            UnitOfWork
	blobs          storage.BlobStore
	logger         *slog.Logger
	maxUploadBytes int64
}

type ServiceConfig struct {
	Repo  Repository
	Audit AuditRecorder
	// UnitOfWork overrides the default non-transactional pairing of Repo
	// and Audit.
	UnitOfWork     UnitOfWork
	Blobs          storage.BlobStore
	Logger         *slog.Logger
	MaxUploadBytes int64
}

func NewService(cfg ServiceConfig) *Service {
	uow := cfg.UnitOfWork
	if uow == nil {
		uow = NewDirectUnitOfWork(cfg.Repo, cfg.Audit)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:           cfg.Repo,
		uow:            uow,
		blobs:          cfg.Blobs,
		logger:         logger,
		maxUploadBytes: cfg.MaxUploadBytes,
	}
}

func (s *Service) Get(ctx context.Context, id string, includeDeleted bool) (*Product, error) {
	return s.repo.GetByID(ctx, id, includeDeleted)
}

func (s *Service) List(
	ctx context.Context,
	params ListParams,
) ([]Product, core.Pagination, error) {
	params.Normalize()

	products, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, core.Pagination{}, err
	}

	return products, core.NewPagination(params.Page, params.Limit, total), nil
}

func (s *Service) ListDeleted(ctx context.Context) ([]Product, error) {
	return s.repo.ListDeleted(ctx)
}

func (s *Service) SearchByName(ctx context.Context, name string) ([]Product, error) {
	if name == "" {
		return nil, fmt.Errorf("search products: empty name: %w", core.ErrInvalidInput)
	}
	return s.repo.SearchByName(ctx, name)
}

func (s *Service) ListByCreator(ctx context.Context, userID string) ([]Product, error) {
	return s.repo.ListByCreator(ctx, userID)
}

// Create inserts a product and records CREATE. A failed insert records
// nothing. A failed audit append returns core.ErrAuditWrite and, outside
// transactional mode, leaves the product in place.
func (s *Service) Create(
	ctx context.Context,
	actor audit.Actor,
	req CreateProductRequest,
) (*Product, error) {
	ctx, span := core.StartSpan(ctx, "product.Create")
	defer span.End()

	if err := checkPrice(req.Price); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	p := &Product{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		CreatedBy:   optional(actor.ID),
	}

	err := s.uow.Do(ctx, func(repo Repository, recorder AuditRecorder) error {
		if err := repo.Create(ctx, p); err != nil {
			return err
		}

		_, err := recorder.Record(ctx, audit.Record{
			Actor:     actor,
			Action:    audit.ActionCreate,
			ProductID: p.ID,
			Details: audit.Details{
				"product_name": p.Name,
				"price":        formatPrice(p.Price),
			},
		})
		return err
	})
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	if actor.Email != "" {
		p.CreatorEmail = &actor.Email
	}

	s.logger.InfoContext(ctx, "product created",
		"product_id", p.ID,
		"user_email", actor.Email,
	)

	return p, nil
}

func (s *Service) Update(
	ctx context.Context,
	actor audit.Actor,
	id string,
	fields UpdateFields,
) (*Product, error) {
	ctx, span := core.StartSpan(ctx, "product.Update",
		attribute.String("product.id", id),
	)
	defer span.End()

	if fields.Empty() {
		return nil, fmt.Errorf("update product: no fields supplied: %w", core.ErrInvalidInput)
	}
	if fields.Price != nil {
		if err := checkPrice(*fields.Price); err != nil {
			return nil, fmt.Errorf("update product: %w", err)
		}
	}

	var updated *Product
	err := s.uow.Do(ctx, func(repo Repository, recorder AuditRecorder) error {
		if _, err := repo.GetByID(ctx, id, false); err != nil {
			return err
		}

		p, err := repo.Update(ctx, id, fields)
		if err != nil {
			return err
		}
		updated = p

		_, err = recorder.Record(ctx, audit.Record{
			Actor:     actor,
			Action:    audit.ActionUpdate,
			ProductID: id,
			Details: audit.Details{
				"product_name":   p.Name,
				"updated_fields": fields.Names(),
			},
		})
		return err
	})
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	return updated, nil
}

func (s *Service) Delete(ctx context.Context, actor audit.Actor, id string) error {
	ctx, span := core.StartSpan(ctx, "product.Delete",
		attribute.String("product.id", id),
	)
	defer span.End()

	err := s.uow.Do(ctx, func(repo Repository, recorder AuditRecorder) error {
		existing, err := repo.GetByID(ctx, id, false)
		if err != nil {
			return err
		}

		if err := repo.SoftDelete(ctx, id); err != nil {
			return err
		}

		_, err = recorder.Record(ctx, audit.Record{
			Actor:     actor,
			Action:    audit.ActionDelete,
			ProductID: id,
			Details:   audit.Details{"product_name": existing.Name},
		})
		return err
	})
	if err != nil {
		core.SetSpanError(ctx, err)
		return err
	}

	return nil
}

// Restore clears the deleted flag and records RESTORE. There is no
// pre-read; an unknown id fails with core.ErrNotFound and records nothing.
func (s *Service) Restore(ctx context.Context, actor audit.Actor, id string) (*Product, error) {
	ctx, span := core.StartSpan(ctx, "product.Restore",
		attribute.String("product.id", id),
	)
	defer span.End()

	err := s.uow.Do(ctx, func(repo Repository, recorder AuditRecorder) error {
		if err := repo.Restore(ctx, id); err != nil {
			return err
		}

		_, err := recorder.Record(ctx, audit.Record{
			Actor:     actor,
			Action:    audit.ActionRestore,
			ProductID: id,
			Details:   audit.Details{"action": "restore"},
		})
		return err
	})
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	return s.repo.GetByID(ctx, id, true)
}

// HardDelete removes the row outright. It is a maintenance operation and
// is never audited.
func (s *Service) HardDelete(ctx context.Context, id string) error {
	return s.repo.HardDelete(ctx, id)
}

func checkPrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return fmt.Errorf("price must be greater than 0: %w", core.ErrInvalidInput)
	}
	if price.GreaterThan(maxPrice) {
		return fmt.Errorf("price exceeds %s: %w", maxPrice.StringFixed(2), core.ErrInvalidInput)
	}
	if !price.Equal(price.Round(2)) {
		return fmt.Errorf("price must have at most 2 decimal places: %w", core.ErrInvalidInput)
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
