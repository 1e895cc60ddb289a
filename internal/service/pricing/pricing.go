package pricing

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"printshop/internal/catalog"
	"printshop/internal/domain"
)

// FormValues is satisfied by url.Values.
type FormValues interface {
	Get(key string) string
}

// PriceOrder emits one line item per catalog service with a positive quantity,
// in catalog order, and returns the unrounded subtotal.
// Quantities that are missing or not integers count as zero.
func PriceOrder(form FormValues, cat *catalog.Catalog) ([]domain.LineItem, decimal.Decimal) {
	items := []domain.LineItem{}
	subtotal := decimal.Zero
	for _, svc := range cat.Services() {
		qty := parseQuantity(form.Get(svc.Key))
		if qty <= 0 {
			continue
		}
		lineTotal := svc.UnitPrice.Mul(decimal.NewFromInt(int64(qty)))
		items = append(items, domain.LineItem{
			Key:       svc.Key,
			Label:     svc.Label,
			Quantity:  qty,
			UnitPrice: svc.UnitPrice,
			LineTotal: lineTotal,
		})
		subtotal = subtotal.Add(lineTotal)
	}
	return items, subtotal
}

func parseQuantity(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	qty, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return qty
}
