// Package cart holds the session cart and the operations that mutate and
// reconcile it against the catalog. A cart is a plain value: every operation
// takes the current cart and returns the next one, and the HTTP layer owns
// writing it back to session storage.
package cart

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/mcrow/storefront/internal/product"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidQuantity = errors.New("quantity must be a whole number")
)

// Cart maps a product id to a quantity of at least 1. Entries may reference
// products that no longer exist in the catalog; that is tolerated and handled
// at reconciliation time, not treated as corruption.
type Cart map[int64]int

// ProductIDs returns the referenced ids in ascending order so reconciliation
// output is deterministic.
func (c Cart) ProductIDs() []int64 {
	ids := make([]int64, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

type Manager struct {
	products product.Reader
}

func NewManager(products product.Reader) *Manager {
	return &Manager{products: products}
}

// Add increments the quantity for productID, inserting it at 1 if absent.
// The product must exist in the catalog; the cart is untouched otherwise.
// The product name is returned for confirmation messaging.
func (m *Manager) Add(ctx context.Context, c Cart, productID int64) (Cart, string, error) {
	p, err := m.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return c, "", ErrProductNotFound
		}
		return c, "", err
	}
	if c == nil {
		c = make(Cart)
	}
	c[productID]++
	return c, p.Name, nil
}

// SetQuantity replaces the quantity for productID with the parsed value of
// raw. A non-integer raw fails with ErrInvalidQuantity and leaves the cart
// unchanged. An id not already in the cart is a no-op. A parsed value of
// zero or less removes the entry.
func (m *Manager) SetQuantity(c Cart, productID int64, raw string) (Cart, error) {
	qty, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return c, ErrInvalidQuantity
	}
	if _, ok := c[productID]; !ok {
		return c, nil
	}
	if qty <= 0 {
		delete(c, productID)
		return c, nil
	}
	c[productID] = qty
	return c, nil
}

// Remove deletes productID from the cart. Absence is not an error.
func (m *Manager) Remove(c Cart, productID int64) Cart {
	delete(c, productID)
	return c
}
