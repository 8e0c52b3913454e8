// AngelaMos | 2026
// service.go

package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/templates/catalog-admin/internal/core"
	"github.com/carterperez-dev/templates/catalog-admin/internal/metrics"
)

type Service struct {
	repo          Repository
	logger        *slog.Logger
	retentionDays int
	now           func() time.Time
}

func NewService(repo Repository, logger *slog.Logger, retentionDays int) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if retentionDays < 1 {
		retentionDays = 365
	}
	return &Service{
		repo:          repo,
		logger:        logger,
		retentionDays: retentionDays,
		now:           time.Now,
	}
}

// WithRepository returns a copy bound to repo, typically one created
// from a transaction.
func (s *Service) WithRepository(repo Repository) *Service {
	clone := *s
	clone.repo = repo
	return &clone
}

// Record appends one entry. Every call appends; there is no dedup.
// Failures wrap core.ErrAuditWrite.
func (s *Service) Record(ctx context.Context, rec Record) (*Entry, error) {
	ctx, span := core.StartSpan(ctx, "audit.Record",
		attribute.String("audit.action", string(rec.Action)),
	)
	defer span.End()

	if !rec.Action.Valid() {
		return nil, fmt.Errorf("record audit entry: unknown action %q: %w", rec.Action, core.ErrInvalidInput)
	}
	if rec.Actor.Email == "" {
		return nil, fmt.Errorf("record audit entry: actor email required: %w", core.ErrInvalidInput)
	}

	entry := &Entry{
		UserID:    optional(rec.Actor.ID),
		UserEmail: rec.Actor.Email,
		Action:    rec.Action,
		ProductID: optional(rec.ProductID),
		Details:   rec.Details,
	}
	if entry.Details == nil {
		entry.Details = Details{}
	}

	if err := s.repo.Append(ctx, entry); err != nil {
		metrics.IncAuditFailure(string(rec.Action))
		core.SetSpanError(ctx, err)
		s.logger.ErrorContext(ctx, "audit append failed",
			"action", rec.Action,
			"user_email", rec.Actor.Email,
			"product_id", rec.ProductID,
			"error", err,
		)
		return nil, fmt.Errorf("record audit entry: %w: %w", core.ErrAuditWrite, err)
	}

	metrics.IncAuditAppended(string(rec.Action))
	return entry, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Entry, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) List(
	ctx context.Context,
	filters Filters,
) ([]Entry, core.Pagination, error) {
	filters.Normalize()

	if filters.Action != "" && !filters.Action.Valid() {
		return nil, core.Pagination{}, fmt.Errorf(
			"list audit entries: unknown action %q: %w",
			filters.Action,
			core.ErrInvalidInput,
		)
	}

	if filters.StartDate != nil && filters.EndDate != nil &&
		filters.StartDate.After(*filters.EndDate) {
		return nil, core.Pagination{}, fmt.Errorf(
			"list audit entries: startDate after endDate: %w",
			core.ErrInvalidRange,
		)
	}

	entries, total, err := s.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, core.Pagination{}, err
	}

	return entries, core.NewPagination(filters.Page, filters.Limit, total), nil
}

func (s *Service) ByUser(ctx context.Context, userID string) ([]Entry, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) ByProduct(ctx context.Context, productID string) ([]Entry, error) {
	return s.repo.ListByProduct(ctx, productID)
}

func (s *Service) ByAction(ctx context.Context, raw string) ([]Entry, error) {
	action, ok := ParseAction(raw)
	if !ok {
		return nil, fmt.Errorf("list audit entries: unknown action %q: %w", raw, core.ErrInvalidInput)
	}
	return s.repo.ListByAction(ctx, action)
}

func (s *Service) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit < 1 {
		limit = DefaultRecentLimit
	}
	return s.repo.ListRecent(ctx, limit)
}

// ByDateRange requires both bounds and from <= to.
func (s *Service) ByDateRange(ctx context.Context, from, to time.Time) ([]Entry, error) {
	if from.IsZero() || to.IsZero() {
		return nil, fmt.Errorf("list audit entries: start and end date are required: %w", core.ErrInvalidRange)
	}
	if from.After(to) {
		return nil, fmt.Errorf("list audit entries: start date after end date: %w", core.ErrInvalidRange)
	}
	return s.repo.ListByDateRange(ctx, from, to)
}

func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	return s.repo.Summarize(ctx)
}

// Purge deletes entries older than days. Zero means the configured
// retention period.
func (s *Service) Purge(ctx context.Context, days int) (*PurgeResponse, error) {
	if days == 0 {
		days = s.retentionDays
	}
	if days < 1 {
		return nil, fmt.Errorf("purge audit entries: days must be positive: %w", core.ErrInvalidInput)
	}

	cutoff := s.now().UTC().AddDate(0, 0, -days)

	deleted, err := s.repo.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	metrics.AddAuditPurged(deleted)
	s.logger.InfoContext(ctx, "audit entries purged",
		"days", days,
		"cutoff", cutoff,
		"deleted", deleted,
	)

	return &PurgeResponse{Deleted: deleted, Days: days, Cutoff: cutoff}, nil
}

func (s *Service) RetentionDays() int {
	return s.retentionDays
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
