// AngelaMos | 2026
// validation_test.go

package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type priced struct {
	Name  string           `json:"name"  validate:"required,min=1,max=255"`
	Price decimal.Decimal  `json:"price" validate:"required,gt=0"`
	Sale  *decimal.Decimal `json:"sale"  validate:"omitempty,gt=0"`
}

func TestValidatorDecimal(t *testing.T) {
	v := NewValidator()

	ok := priced{Name: "Widget", Price: decimal.RequireFromString("10.00")}
	assert.NoError(t, v.Struct(ok))

	negative := priced{Name: "Widget", Price: decimal.NewFromInt(-5)}
	err := v.Struct(negative)
	require.Error(t, err)

	fields := ValidationErrors(err)
	require.Len(t, fields, 1)
	assert.Equal(t, "price", fields[0].Field)

	zeroSale := decimal.Zero
	withSale := priced{Name: "Widget", Price: decimal.NewFromInt(1), Sale: &zeroSale}
	assert.Error(t, v.Struct(withSale))
}

func TestFormatValidationError(t *testing.T) {
	err := NewValidator().Struct(priced{Price: decimal.NewFromInt(1)})
	require.Error(t, err)
	assert.Contains(t, FormatValidationError(err), "name: is required")
}
