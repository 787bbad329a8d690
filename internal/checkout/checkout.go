// Package checkout converts a session cart into durable order records.
package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mcrow/storefront/internal/cart"
	"github.com/mcrow/storefront/internal/order"
	"github.com/mcrow/storefront/internal/product"
)

var (
	ErrUnauthenticated = errors.New("login required to check out")
	ErrEmptyCart       = errors.New("cart is empty")
)

// Receipt summarizes a committed checkout.
type Receipt struct {
	Orders []order.Order   `json:"orders"`
	Total  decimal.Decimal `json:"total_price"`
}

type Processor struct {
	products product.Reader
	orders   order.Repository
}

func NewProcessor(products product.Reader, orders order.Repository) *Processor {
	return &Processor{products: products, orders: orders}
}

// Checkout stages one order per cart line still present in the catalog and
// commits them as a single atomic batch. Lines referencing a since-deleted
// product are skipped, not failed. On success the returned cart is empty even
// when lines were skipped; on any failure the input cart comes back untouched
// and no orders are visible.
//
// Validation happens before any side effect: a missing identity (userID <= 0)
// and an empty cart both abort with the cart unchanged.
func (p *Processor) Checkout(ctx context.Context, c cart.Cart, userID int64) (cart.Cart, *Receipt, error) {
	if userID <= 0 {
		return c, nil, ErrUnauthenticated
	}
	if len(c) == 0 {
		return c, nil, ErrEmptyCart
	}

	ids := c.ProductIDs()
	found, err := p.products.GetByIDs(ctx, ids)
	if err != nil {
		return c, nil, err
	}

	staged := make([]order.Order, 0, len(ids))
	total := decimal.Zero
	for _, id := range ids {
		prod, ok := found[id]
		if !ok {
			continue // deleted between add and checkout; accepted lossy behavior
		}
		price, err := decimal.NewFromString(prod.Price)
		if err != nil {
			return c, nil, fmt.Errorf("parse price of product %d: %w", id, err)
		}
		lineTotal := price.Mul(decimal.NewFromInt(int64(c[id])))
		staged = append(staged, order.Order{
			UserID:     userID,
			ProductID:  id,
			Quantity:   c[id],
			TotalPrice: lineTotal.StringFixed(2),
		})
		total = total.Add(lineTotal)
	}

	committed, err := p.orders.InsertAll(ctx, staged)
	if err != nil {
		return c, nil, fmt.Errorf("commit orders: %w", err)
	}

	// the clear happens only after a confirmed commit
	return cart.Cart{}, &Receipt{Orders: committed, Total: total}, nil
}
