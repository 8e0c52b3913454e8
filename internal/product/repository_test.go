// AngelaMos | 2026
// repository_test.go

package product

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/catalog-admin/internal/core"
)

var productCols = []string{
	"id", "name", "price", "description", "image_url", "is_deleted",
	"created_by", "created_at", "updated_at", "creator_email",
}

const productID = "0f8c2b1e-7d4a-4c1b-9a7e-3c5d6e7f8a9b"

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestRepositoryCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	creator := "6f1c1a8e-3b4d-4c1e-9a2b-1c2d3e4f5a6b"

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO products (id, name, price, description, image_url, created_by)")).
		WithArgs(productID, "Widget", sqlmock.AnyArg(), nil, nil, creator).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	p := &Product{
		ID:        productID,
		Name:      "Widget",
		Price:     decimal.RequireFromString("10.00"),
		CreatedBy: &creator,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	assert.Equal(t, now, p.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCreateCheckViolation(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO products")).
		WillReturnError(&pgconn.PgError{Code: "23514", ConstraintName: "products_price_check"})

	err := repo.Create(context.Background(), &Product{ID: productID, Name: "Bad", Price: decimal.NewFromInt(-5)})
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetByID(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.id = $1 AND p.is_deleted = FALSE")).
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows(productCols).AddRow(
			productID, "Widget", "10.00", nil, nil, false, nil, now, now, "admin@example.com",
		))

	p, err := repo.GetByID(context.Background(), productID, false)
	require.NoError(t, err)
	assert.Equal(t, "10.00", p.Price.StringFixed(2))
	require.NotNil(t, p.CreatorEmail)
	assert.Equal(t, "admin@example.com", *p.CreatorEmail)

	mock.ExpectQuery(`WHERE p.id = \$1$`).
		WithArgs(productID).
		WillReturnError(sql.ErrNoRows)

	_, err = repo.GetByID(context.Background(), productID, true)
	assert.ErrorIs(t, err, core.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryListSearchAndSort(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*) FROM products p WHERE (p.name ILIKE $1 OR p.description ILIKE $1) AND p.is_deleted = FALSE")).
		WithArgs("%wid%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY p.price ASC, p.id")).
		WithArgs("%wid%", 100, 0).
		WillReturnRows(sqlmock.NewRows(productCols))

	products, total, err := repo.List(context.Background(), ListParams{
		Search:    "wid",
		SortBy:    SortByPrice,
		SortOrder: "asc",
		Limit:     500,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.NotNil(t, products)
	assert.Empty(t, products)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryListRejectsInjectedSort(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products p")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY p.created_at DESC, p.id")).
		WithArgs(DefaultPageLimit, 0).
		WillReturnRows(sqlmock.NewRows(productCols))

	_, _, err := repo.List(context.Background(), ListParams{
		SortBy:         "name; DROP TABLE products",
		SortOrder:      "sideways",
		IncludeDeleted: true,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryUpdatePartial(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()
	name := "Gadget"

	mock.ExpectQuery(regexp.QuoteMeta("SET name = $2, image_url = NULL, updated_at = NOW()")).
		WithArgs(productID, name).
		WillReturnRows(sqlmock.NewRows(productCols).AddRow(
			productID, name, "12.50", nil, nil, false, nil, now, now, nil,
		))

	p, err := repo.Update(context.Background(), productID, UpdateFields{Name: &name, ClearImage: true})
	require.NoError(t, err)
	assert.Equal(t, "Gadget", p.Name)
	assert.Nil(t, p.ImageURL)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryUpdateMissing(t *testing.T) {
	repo, mock := newMockRepo(t)
	price := decimal.RequireFromString("3.00")

	mock.ExpectQuery(regexp.QuoteMeta("SET price = $2, updated_at = NOW()")).
		WithArgs(productID, sqlmock.AnyArg()).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), productID, UpdateFields{Price: &price})
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = repo.Update(context.Background(), productID, UpdateFields{})
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositorySoftDeleteAndRestore(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("SET is_deleted = TRUE")).
		WithArgs(productID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("SET is_deleted = FALSE")).
		WithArgs(productID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("SET is_deleted = FALSE")).
		WithArgs(productID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.SoftDelete(ctx, productID))
	require.NoError(t, repo.Restore(ctx, productID))
	assert.ErrorIs(t, repo.Restore(ctx, productID), core.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryAdminLists(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.is_deleted = TRUE")).
		WillReturnRows(sqlmock.NewRows(productCols))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY p.name ASC")).
		WithArgs(`%100\%%`).
		WillReturnRows(sqlmock.NewRows(productCols))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.created_by = $1 AND p.is_deleted = FALSE")).
		WithArgs("creator-id").
		WillReturnRows(sqlmock.NewRows(productCols))

	_, err := repo.ListDeleted(ctx)
	require.NoError(t, err)
	_, err = repo.SearchByName(ctx, "100%")
	require.NoError(t, err)
	_, err = repo.ListByCreator(ctx, "creator-id")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryHardDelete(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM products WHERE id = $1")).
		WithArgs(productID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM products WHERE id = $1")).
		WithArgs(productID).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "audit_logs_product_id_fkey"})
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM products WHERE id = $1")).
		WithArgs(productID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.HardDelete(ctx, productID))

	err := repo.HardDelete(ctx, productID)
	require.ErrorIs(t, err, core.ErrPersistence)
	assert.ErrorContains(t, err, "audit entries reference it")

	assert.ErrorIs(t, repo.HardDelete(ctx, productID), core.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
