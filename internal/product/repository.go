// AngelaMos | 2026
// repository.go

package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/templates/catalog-admin/internal/core"
)

type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string, includeDeleted bool) (*Product, error)
	List(ctx context.Context, params ListParams) ([]Product, int, error)
	Update(ctx context.Context, id string, fields UpdateFields) (*Product, error)
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	HardDelete(ctx context.Context, id string) error
	ListDeleted(ctx context.Context) ([]Product, error)
	SearchByName(ctx context.Context, name string) ([]Product, error)
	ListByCreator(ctx context.Context, userID string) ([]Product, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const (
	productColumns = `p.id, p.name, p.price, p.description, p.image_url, p.is_deleted,
		p.created_by, p.created_at, p.updated_at, u.email AS creator_email`
	creatorJoin = `LEFT JOIN users u ON u.id = p.created_by`
)

var sortColumns = map[SortField]string{
	SortByName:      "p.name",
	SortByPrice:     "p.price",
	SortByCreatedAt: "p.created_at",
}

func (r *repository) Create(ctx context.Context, p *Product) error {
	query := `
		INSERT INTO products (id, name, price, description, image_url, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, p, query,
		p.ID,
		p.Name,
		p.Price,
		p.Description,
		p.ImageURL,
		p.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create product: %w", translate(err))
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
	includeDeleted bool,
) (*Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products p ` + creatorJoin + `
		WHERE p.id = $1`
	if !includeDeleted {
		query += ` AND p.is_deleted = FALSE`
	}

	var p Product
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get product: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	return &p, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListParams,
) ([]Product, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(p.name ILIKE $%d OR p.description ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argIdx++
	}

	if !params.IncludeDeleted {
		conditions = append(conditions, "p.is_deleted = FALSE")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT COUNT(*) FROM products p " + whereClause
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM products p %s
		%s
		ORDER BY %s %s, p.id
		LIMIT $%d OFFSET $%d`,
		productColumns,
		creatorJoin,
		whereClause,
		sortColumns[params.SortBy],
		strings.ToUpper(params.SortOrder),
		argIdx, argIdx+1,
	)

	args = append(args, params.Limit, params.Offset())

	products := []Product{}
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	return products, total, nil
}

// Update applies the supplied fields to a live product and returns the
// new row.
func (r *repository) Update(
	ctx context.Context,
	id string,
	fields UpdateFields,
) (*Product, error) {
	if fields.Empty() {
		return nil, fmt.Errorf("update product: no fields: %w", core.ErrInvalidInput)
	}

	sets := make([]string, 0, 5)
	args := []any{id}
	argIdx := 2

	add := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if fields.Name != nil {
		add("name", *fields.Name)
	}
	if fields.Price != nil {
		add("price", *fields.Price)
	}
	if fields.Description != nil {
		add("description", *fields.Description)
	}
	switch {
	case fields.ClearImage:
		sets = append(sets, "image_url = NULL")
	case fields.ImageURL != nil:
		add("image_url", *fields.ImageURL)
	}
	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf(`
		WITH p AS (
			UPDATE products
			SET %s
			WHERE id = $1 AND is_deleted = FALSE
			RETURNING *
		)
		SELECT %s
		FROM p %s`,
		strings.Join(sets, ", "),
		productColumns,
		creatorJoin,
	)

	var p Product
	err := r.db.GetContext(ctx, &p, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update product: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update product: %w", translate(err))
	}

	return &p, nil
}

func (r *repository) SoftDelete(ctx context.Context, id string) error {
	query := `
		UPDATE products
		SET is_deleted = TRUE, updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE`

	return r.execOne(ctx, "delete product", query, id)
}

// Restore clears the deleted flag. Restoring a live product still
// touches the row, so repeated restores all succeed.
func (r *repository) Restore(ctx context.Context, id string) error {
	query := `
		UPDATE products
		SET is_deleted = FALSE, updated_at = NOW()
		WHERE id = $1`

	return r.execOne(ctx, "restore product", query, id)
}

// HardDelete removes the row. Products with audit history are protected
// by the audit_logs foreign key and fail with core.ErrPersistence.
func (r *repository) HardDelete(ctx context.Context, id string) error {
	err := r.execOne(ctx, "hard delete product", `DELETE FROM products WHERE id = $1`, id)
	if core.IsForeignKeyError(err) {
		return fmt.Errorf("hard delete product: audit entries reference it: %w", translate(err))
	}
	return err
}

func (r *repository) ListDeleted(ctx context.Context) ([]Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products p ` + creatorJoin + `
		WHERE p.is_deleted = TRUE
		ORDER BY p.updated_at DESC`

	return r.selectProducts(ctx, "list deleted products", query)
}

func (r *repository) SearchByName(ctx context.Context, name string) ([]Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products p ` + creatorJoin + `
		WHERE p.name ILIKE $1 AND p.is_deleted = FALSE
		ORDER BY p.name ASC`

	return r.selectProducts(ctx, "search products", query, "%"+escapeLike(name)+"%")
}

func (r *repository) ListByCreator(ctx context.Context, userID string) ([]Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products p ` + creatorJoin + `
		WHERE p.created_by = $1 AND p.is_deleted = FALSE
		ORDER BY p.created_at DESC`

	return r.selectProducts(ctx, "list products by creator", query, userID)
}

func (r *repository) selectProducts(
	ctx context.Context,
	op, query string,
	args ...any,
) ([]Product, error) {
	products := []Product{}
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}

func (r *repository) execOne(
	ctx context.Context,
	op, query string,
	args ...any,
) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}

func translate(err error) error {
	switch {
	case core.IsCheckViolation(err):
		return fmt.Errorf("%w: %w", core.ErrInvalidInput, err)
	case core.IsForeignKeyError(err):
		return fmt.Errorf("%w: %w", core.ErrPersistence, err)
	default:
		return err
	}
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
