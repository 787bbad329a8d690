package session

import (
	"context"
	"sync"

	"github.com/mcrow/storefront/internal/cart"
)

// MemoryStore keeps session state in-process. Used when no Redis address is
// configured (single-instance deployments, local development, tests).
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]cart.Cart
	users map[string]int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		carts: make(map[string]cart.Cart),
		users: make(map[string]int64),
	}
}

func (s *MemoryStore) Cart(_ context.Context, sid string) (cart.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.carts[sid]
	if !ok {
		return cart.Cart{}, nil
	}
	// hand out a copy so callers can mutate freely before writing back
	c := make(cart.Cart, len(stored))
	for id, qty := range stored {
		c[id] = qty
	}
	return c, nil
}

func (s *MemoryStore) SetCart(_ context.Context, sid string, c cart.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make(cart.Cart, len(c))
	for id, qty := range c {
		cp[id] = qty
	}
	s.carts[sid] = cp
	return nil
}

func (s *MemoryStore) ClearCart(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, sid)
	return nil
}

func (s *MemoryStore) UserID(_ context.Context, sid string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.users[sid], nil
}

func (s *MemoryStore) SetUserID(_ context.Context, sid string, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[sid] = userID
	return nil
}

func (s *MemoryStore) ClearUser(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.users, sid)
	return nil
}
