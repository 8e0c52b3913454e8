// AngelaMos | 2026
// dto.go

package product

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

type CreateProductRequest struct {
	Name        string          `json:"name"                  validate:"required,min=1,max=255"`
	Price       decimal.Decimal `json:"price"                 validate:"gt=0,lte=99999999.99"`
	Description *string         `json:"description,omitempty" validate:"omitempty,max=5000"`
	ImageURL    *string         `json:"image_url,omitempty"   validate:"omitempty,url,max=500"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty"        validate:"omitempty,min=1,max=255"`
	Price       *decimal.Decimal `json:"price,omitempty"       validate:"omitempty,gt=0,lte=99999999.99"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=5000"`
	ImageURL    *string          `json:"image_url,omitempty"   validate:"omitempty,url,max=500"`
}

func (r UpdateProductRequest) Fields() UpdateFields {
	return UpdateFields{
		Name:        r.Name,
		Price:       r.Price,
		Description: r.Description,
		ImageURL:    r.ImageURL,
	}
}

type SortField string

const (
	SortByName      SortField = "name"
	SortByPrice     SortField = "price"
	SortByCreatedAt SortField = "created_at"
)

type ListParams struct {
	Search         string
	SortBy         SortField
	SortOrder      string
	Page           int
	Limit          int
	IncludeDeleted bool
}

// Normalize applies defaults and clamps. Unknown sort fields and orders
// fall back to created_at DESC.
func (p *ListParams) Normalize() {
	switch p.SortBy {
	case SortByName, SortByPrice, SortByCreatedAt:
	default:
		p.SortBy = SortByCreatedAt
	}
	if p.SortOrder != "asc" {
		p.SortOrder = "desc"
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

type ProductResponse struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Price        json.Number `json:"price"`
	Description  *string     `json:"description"`
	ImageURL     *string     `json:"image_url"`
	IsDeleted    bool        `json:"is_deleted"`
	CreatedBy    *string     `json:"created_by"`
	CreatorEmail *string     `json:"creator_email,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func ToProductResponse(p *Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Price:        formatPrice(p.Price),
		Description:  p.Description,
		ImageURL:     p.ImageURL,
		IsDeleted:    p.IsDeleted,
		CreatedBy:    p.CreatedBy,
		CreatorEmail: p.CreatorEmail,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func ToProductResponseList(products []Product) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, ToProductResponse(&p))
	}
	return responses
}

func formatPrice(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}
