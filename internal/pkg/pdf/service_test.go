package pdf

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/cafe-backend/internal/config"
	"github.com/your-org/cafe-backend/internal/domain/order"
)

func TestGenerateHTML(t *testing.T) {
	svc := NewService(&config.Config{Receipt: config.ReceiptConfig{CafeName: "Corner Cafe", Currency: "RUB"}})

	html, err := svc.generateHTML(&order.OrderSnapshot{
		ID:                 42,
		DeliveryMethodName: order.DeliveryPickup,
		StatusName:         order.StatusCompleted,
		TotalPrice:         decimal.NewFromInt(250),
		CreatedAt:          time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		Items: []order.LineItemSnapshot{
			{Name: "Espresso", UnitPrice: decimal.NewFromInt(100), Quantity: 2, LineTotal: decimal.NewFromInt(200)},
			{Name: "Tea <Earl Grey>", UnitPrice: decimal.NewFromInt(50), Quantity: 1, LineTotal: decimal.NewFromInt(50)},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, html, "Corner Cafe")
	assert.Contains(t, html, "R-000042")
	assert.Contains(t, html, "01.03.2026 09:30 UTC")
	assert.Contains(t, html, "200.00")
	assert.Contains(t, html, "250.00 RUB")
	assert.Contains(t, html, "Tea &lt;Earl Grey&gt;", "item names are escaped")
	assert.NotContains(t, html, "<Earl Grey>")
}
