package validation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/your-org/cafe-backend/internal/pkg/apperror"
)

type priced struct {
	Name     string           `validate:"required,max=10"`
	Price    decimal.Decimal  `validate:"dpositive"`
	NewPrice *decimal.Decimal `validate:"omitempty,dpositive"`
	Quantity int              `validate:"gte=1"`
}

func TestStruct(t *testing.T) {
	neg := decimal.NewFromInt(-1)

	tests := []struct {
		name    string
		in      priced
		wantMsg string
	}{
		{"valid", priced{Name: "Latte", Price: decimal.NewFromInt(180), Quantity: 1}, ""},
		{"missing name", priced{Price: decimal.NewFromInt(1), Quantity: 1}, "name is required"},
		{"long name", priced{Name: "Double Caramel Latte", Price: decimal.NewFromInt(1), Quantity: 1}, "name must be at most 10"},
		{"zero price", priced{Name: "Latte", Quantity: 1}, "price must be positive"},
		{"negative new price", priced{Name: "Latte", Price: decimal.NewFromInt(1), NewPrice: &neg, Quantity: 1}, "newprice must be positive"},
		{"zero quantity", priced{Name: "Latte", Price: decimal.NewFromInt(1)}, "quantity must be at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, apperror.ErrValidation)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
