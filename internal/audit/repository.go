// AngelaMos | 2026
// repository.go

package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/carterperez-dev/templates/catalog-admin/internal/core"
)

type Repository interface {
	Append(ctx context.Context, entry *Entry) error
	FindByID(ctx context.Context, id int64) (*Entry, error)
	FindAll(ctx context.Context, filters Filters) ([]Entry, int, error)
	ListByUser(ctx context.Context, userID string) ([]Entry, error)
	ListByProduct(ctx context.Context, productID string) ([]Entry, error)
	ListByAction(ctx context.Context, action Action) ([]Entry, error)
	ListRecent(ctx context.Context, limit int) ([]Entry, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]Entry, error)
	Summarize(ctx context.Context) (*Summary, error)
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const entryColumns = `id, user_id, user_email, action, product_id, details, timestamp`

const newestFirst = `ORDER BY timestamp DESC, id DESC`

func (r *repository) Append(ctx context.Context, entry *Entry) error {
	query := `
		INSERT INTO audit_logs (user_id, user_email, action, product_id, details)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + entryColumns

	err := r.db.GetContext(ctx, entry, query,
		entry.UserID,
		entry.UserEmail,
		entry.Action,
		entry.ProductID,
		entry.Details,
	)
	if err != nil {
		if core.IsForeignKeyError(err) {
			return fmt.Errorf("append audit entry: dangling reference: %w: %w", core.ErrPersistence, err)
		}
		return fmt.Errorf("append audit entry: %w: %w", core.ErrPersistence, err)
	}

	return nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM audit_logs WHERE id = $1`

	var entry Entry
	err := r.db.GetContext(ctx, &entry, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get audit entry: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get audit entry: %w", err)
	}

	return &entry, nil
}

func (r *repository) FindAll(
	ctx context.Context,
	filters Filters,
) ([]Entry, int, error) {
	filters.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	if filters.UserID != "" {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argIdx))
		args = append(args, filters.UserID)
		argIdx++
	}

	if filters.ProductID != "" {
		conditions = append(conditions, fmt.Sprintf("product_id = $%d", argIdx))
		args = append(args, filters.ProductID)
		argIdx++
	}

	if filters.Action != "" {
		conditions = append(conditions, fmt.Sprintf("action = $%d", argIdx))
		args = append(args, filters.Action)
		argIdx++
	}

	if filters.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("timestamp >= $%d", argIdx))
		args = append(args, *filters.StartDate)
		argIdx++
	}

	if filters.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("timestamp <= $%d", argIdx))
		args = append(args, *filters.EndDate)
		argIdx++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM audit_logs %s", whereClause)

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count audit entries: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM audit_logs
		%s
		%s
		LIMIT $%d OFFSET $%d`,
		entryColumns, whereClause, newestFirst, argIdx, argIdx+1)

	args = append(args, filters.Limit, filters.Offset())

	entries := []Entry{}
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list audit entries: %w", err)
	}

	return entries, total, nil
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]Entry, error) {
	return r.list(ctx, "list audit entries by user", "WHERE user_id = $1", userID)
}

func (r *repository) ListByProduct(ctx context.Context, productID string) ([]Entry, error) {
	return r.list(ctx, "list audit entries by product", "WHERE product_id = $1", productID)
}

func (r *repository) ListByAction(ctx context.Context, action Action) ([]Entry, error) {
	return r.list(ctx, "list audit entries by action", "WHERE action = $1", action)
}

func (r *repository) ListRecent(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM audit_logs ` + newestFirst + ` LIMIT $1`

	entries := []Entry{}
	if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, fmt.Errorf("list recent audit entries: %w", err)
	}
	return entries, nil
}

// ListByDateRange is inclusive on both ends.
func (r *repository) ListByDateRange(
	ctx context.Context,
	from, to time.Time,
) ([]Entry, error) {
	return r.list(
		ctx,
		"list audit entries by date range",
		"WHERE timestamp >= $1 AND timestamp <= $2",
		from,
		to,
	)
}

func (r *repository) list(
	ctx context.Context,
	op string,
	where string,
	args ...any,
) ([]Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM audit_logs ` + where + ` ` + newestFirst

	entries := []Entry{}
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return entries, nil
}

type countRow struct {
	Key   string `db:"key"`
	Count int    `db:"count"`
}

func (r *repository) Summarize(ctx context.Context) (*Summary, error) {
	summary := &Summary{
		ByAction: map[string]int{},
		ByUser:   map[string]int{},
	}

	if err := r.db.GetContext(ctx, &summary.Total, `SELECT COUNT(*) FROM audit_logs`); err != nil {
		return nil, fmt.Errorf("count audit entries: %w", err)
	}

	var byAction []countRow
	if err := r.db.SelectContext(ctx, &byAction, `
		SELECT action AS key, COUNT(*) AS count
		FROM audit_logs
		GROUP BY action`); err != nil {
		return nil, fmt.Errorf("count audit entries by action: %w", err)
	}
	for _, row := range byAction {
		summary.ByAction[row.Key] = row.Count
	}

	var byUser []countRow
	if err := r.db.SelectContext(ctx, &byUser, `
		SELECT user_email AS key, COUNT(*) AS count
		FROM audit_logs
		GROUP BY user_email`); err != nil {
		return nil, fmt.Errorf("count audit entries by user: %w", err)
	}
	for _, row := range byUser {
		summary.ByUser[row.Key] = row.Count
	}

	return summary, nil
}

func (r *repository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM audit_logs WHERE timestamp < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge audit entries: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge audit entries: %w", err)
	}

	return rows, nil
}
