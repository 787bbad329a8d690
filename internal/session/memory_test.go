package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcrow/storefront/internal/cart"
)

func TestMemoryStore_CartRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	c, err := store.Cart(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, c, "unknown session yields an empty cart")

	require.NoError(t, store.SetCart(ctx, "s1", cart.Cart{1: 2}))

	c, err = store.Cart(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, cart.Cart{1: 2}, c)

	// mutating the returned value must not leak into the store
	c[1] = 99
	again, err := store.Cart(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, again[1])

	require.NoError(t, store.ClearCart(ctx, "s1"))
	c, err = store.Cart(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, c)
}

func TestMemoryStore_UserRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	uid, err := store.UserID(ctx, "s1")
	require.NoError(t, err)
	assert.Zero(t, uid, "anonymous session reports user id 0")

	require.NoError(t, store.SetUserID(ctx, "s1", 42))
	uid, err = store.UserID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(42), uid)

	require.NoError(t, store.ClearUser(ctx, "s1"))
	uid, err = store.UserID(ctx, "s1")
	require.NoError(t, err)
	assert.Zero(t, uid)
}

func TestMemoryStore_SessionsAreIsolated(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.SetCart(ctx, "a", cart.Cart{1: 1}))
	require.NoError(t, store.SetCart(ctx, "b", cart.Cart{2: 5}))

	ca, err := store.Cart(ctx, "a")
	require.NoError(t, err)
	cb, err := store.Cart(ctx, "b")
	require.NoError(t, err)

	assert.Equal(t, cart.Cart{1: 1}, ca)
	assert.Equal(t, cart.Cart{2: 5}, cb)
}
