package cart

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mcrow/storefront/internal/product"
)

// Line is one cart entry reconciled against live catalog data. It is
// computed fresh on every view and never persisted.
type Line struct {
	Product  product.Product `json:"product"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type Summary struct {
	Lines []Line          `json:"cart_items"`
	Total decimal.Decimal `json:"total_price"`
}

// View resolves every cart entry against the catalog in a single batched
// lookup. Entries whose product no longer exists are dropped from the output
// but left in the cart itself; lines are ordered by product id.
func (m *Manager) View(ctx context.Context, c Cart) (*Summary, error) {
	sum := &Summary{Lines: []Line{}, Total: decimal.Zero}
	if len(c) == 0 {
		return sum, nil
	}

	ids := c.ProductIDs()
	found, err := m.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		p, ok := found[id]
		if !ok {
			continue // stale reference, filtered from display only
		}
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return nil, fmt.Errorf("parse price of product %d: %w", id, err)
		}
		sub := price.Mul(decimal.NewFromInt(int64(c[id])))
		sum.Lines = append(sum.Lines, Line{Product: p, Quantity: c[id], Subtotal: sub})
		sum.Total = sum.Total.Add(sub)
	}
	return sum, nil
}
