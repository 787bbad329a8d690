package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcrow/storefront/internal/cart"
	"github.com/mcrow/storefront/internal/order"
	"github.com/mcrow/storefront/internal/product"
)

type stubCatalog struct {
	products map[int64]product.Product
}

func (s *stubCatalog) GetByID(_ context.Context, id int64) (*product.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &p, nil
}

func (s *stubCatalog) GetByIDs(_ context.Context, ids []int64) (map[int64]product.Product, error) {
	out := make(map[int64]product.Product, len(ids))
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

// stubOrderStore keeps committed orders in memory; when failing is set the
// whole batch errors out before anything is stored, like a rolled-back
// transaction.
type stubOrderStore struct {
	rows    []order.Order
	failing bool
}

func (s *stubOrderStore) InsertAll(_ context.Context, orders []order.Order) ([]order.Order, error) {
	if s.failing {
		return nil, errors.New("connection reset by peer")
	}
	out := make([]order.Order, 0, len(orders))
	for _, o := range orders {
		o.ID = int64(len(s.rows) + 1)
		o.OrderDate = time.Now()
		s.rows = append(s.rows, o)
		out = append(out, o)
	}
	return out, nil
}

func (s *stubOrderStore) ListByUser(_ context.Context, userID int64, _, _ int) ([]order.Order, error) {
	var out []order.Order
	for _, o := range s.rows {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func newProcessor(failing bool) (*Processor, *stubCatalog, *stubOrderStore) {
	catalog := &stubCatalog{products: map[int64]product.Product{
		1: {ID: 1, Name: "Laptop", Price: "10.00"},
		2: {ID: 2, Name: "Smartphone", Price: "5.00"},
	}}
	store := &stubOrderStore{failing: failing}
	return NewProcessor(catalog, store), catalog, store
}

func TestCheckout_Unauthenticated(t *testing.T) {
	t.Parallel()

	proc, _, store := newProcessor(false)

	c := cart.Cart{1: 2}
	next, receipt, err := proc.Checkout(context.Background(), c, 0)

	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Nil(t, receipt)
	assert.Equal(t, cart.Cart{1: 2}, next)
	assert.Empty(t, store.rows)
}

func TestCheckout_EmptyCart(t *testing.T) {
	t.Parallel()

	proc, _, store := newProcessor(false)

	next, receipt, err := proc.Checkout(context.Background(), cart.Cart{}, 7)

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, receipt)
	assert.Empty(t, next)
	assert.Empty(t, store.rows)
}

func TestCheckout_HappyPath(t *testing.T) {
	t.Parallel()

	proc, _, store := newProcessor(false)

	next, receipt, err := proc.Checkout(context.Background(), cart.Cart{1: 2, 2: 1}, 7)
	require.NoError(t, err)

	require.Len(t, receipt.Orders, 2)
	assert.Equal(t, "20.00", receipt.Orders[0].TotalPrice)
	assert.Equal(t, int64(1), receipt.Orders[0].ProductID)
	assert.Equal(t, "5.00", receipt.Orders[1].TotalPrice)
	assert.Equal(t, int64(2), receipt.Orders[1].ProductID)
	assert.Equal(t, "25.00", receipt.Total.StringFixed(2))
	assert.Equal(t, int64(7), receipt.Orders[0].UserID)

	assert.Empty(t, next, "cart must be cleared after commit")
	assert.Len(t, store.rows, 2)
}

func TestCheckout_SkipsDeletedProduct(t *testing.T) {
	t.Parallel()

	proc, catalog, store := newProcessor(false)
	delete(catalog.products, 2) // product removed between add and checkout

	next, receipt, err := proc.Checkout(context.Background(), cart.Cart{1: 2, 2: 1}, 7)
	require.NoError(t, err)

	require.Len(t, receipt.Orders, 1)
	assert.Equal(t, int64(1), receipt.Orders[0].ProductID)
	assert.Len(t, store.rows, 1)
	assert.Empty(t, next, "cart is cleared even when lines were skipped")
}

func TestCheckout_CommitFailureLeavesEverythingUnchanged(t *testing.T) {
	t.Parallel()

	proc, _, store := newProcessor(true)

	c := cart.Cart{1: 2, 2: 1}
	next, receipt, err := proc.Checkout(context.Background(), c, 7)

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthenticated)
	assert.NotErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, receipt)
	assert.Equal(t, cart.Cart{1: 2, 2: 1}, next, "cart must not be cleared on commit failure")
	assert.Empty(t, store.rows)
}

func TestCheckout_AllLinesStale(t *testing.T) {
	t.Parallel()

	proc, catalog, store := newProcessor(false)
	delete(catalog.products, 1)
	delete(catalog.products, 2)

	next, receipt, err := proc.Checkout(context.Background(), cart.Cart{1: 1, 2: 1}, 7)
	require.NoError(t, err)

	assert.Empty(t, receipt.Orders)
	assert.True(t, receipt.Total.IsZero())
	assert.Empty(t, next)
	assert.Empty(t, store.rows)
}
