// AngelaMos | 2026
// entity.go

package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID           string          `db:"id"`
	Name         string          `db:"name"`
	Price        decimal.Decimal `db:"price"`
	Description  *string         `db:"description"`
	ImageURL     *string         `db:"image_url"`
	IsDeleted    bool            `db:"is_deleted"`
	CreatedBy    *string         `db:"created_by"`
	CreatorEmail *string         `db:"creator_email"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

// UpdateFields is a partial update. Nil pointers leave the column alone;
// ClearImage sets image_url to NULL.
type UpdateFields struct {
	Name        *string
	Price       *decimal.Decimal
	Description *string
	ImageURL    *string
	ClearImage  bool
}

func (f UpdateFields) Empty() bool {
	return f.Name == nil && f.Price == nil && f.Description == nil &&
		f.ImageURL == nil && !f.ClearImage
}

// Names lists the supplied fields by their JSON names, in column order.
func (f UpdateFields) Names() []string {
	names := make([]string, 0, 4)
	if f.Name != nil {
		names = append(names, "name")
	}
	if f.Price != nil {
		names = append(names, "price")
	}
	if f.Description != nil {
		names = append(names, "description")
	}
	if f.ImageURL != nil || f.ClearImage {
		names = append(names, "image_url")
	}
	return names
}
