// Package session persists per-visitor state: the shopping cart and, after
// login, the authenticated user id. The cart handed out is a plain value;
// callers mutate it and write it back (read-modify-write per request).
package session

import (
	"context"

	"github.com/mcrow/storefront/internal/cart"
)

type Store interface {
	// Cart returns the session's cart, empty (never nil-erroring) when the
	// session has no cart yet.
	Cart(ctx context.Context, sid string) (cart.Cart, error)
	SetCart(ctx context.Context, sid string, c cart.Cart) error
	ClearCart(ctx context.Context, sid string) error

	// UserID returns 0 when the session is not authenticated.
	UserID(ctx context.Context, sid string) (int64, error)
	SetUserID(ctx context.Context, sid string, userID int64) error
	ClearUser(ctx context.Context, sid string) error
}
