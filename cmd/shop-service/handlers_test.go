package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/mcrow/storefront/internal/cart"
	"github.com/mcrow/storefront/internal/checkout"
	ord "github.com/mcrow/storefront/internal/order"
	"github.com/mcrow/storefront/internal/product"
	"github.com/mcrow/storefront/internal/session"
)

//
// ---------- STUBS & FAKES ----------
//

// stubProducts implements product.Repository in memory.
type stubProducts struct {
	byID map[int64]product.Product
}

func newStubProducts() *stubProducts {
	return &stubProducts{byID: map[int64]product.Product{
		1: {ID: 1, Name: "Laptop", Price: "1200.50"},
		2: {ID: 2, Name: "Smartphone", Price: "800.00"},
	}}
}

func (s *stubProducts) GetByID(_ context.Context, id int64) (*product.Product, error) {
	p, ok := s.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &p, nil
}

func (s *stubProducts) GetByIDs(_ context.Context, ids []int64) (map[int64]product.Product, error) {
	out := make(map[int64]product.Product, len(ids))
	for _, id := range ids {
		if p, ok := s.byID[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (s *stubProducts) Create(_ context.Context, p *product.Product) error {
	p.ID = int64(len(s.byID) + 1)
	s.byID[p.ID] = *p
	return nil
}

func (s *stubProducts) List(_ context.Context, _ product.Query) ([]product.Product, error) {
	var out []product.Product
	for _, p := range s.byID {
		out = append(out, p)
	}
	return out, nil
}

func (s *stubProducts) Update(_ context.Context, p *product.Product, _ bool) error {
	if _, ok := s.byID[p.ID]; !ok {
		return fmt.Errorf("not found")
	}
	s.byID[p.ID] = *p
	return nil
}

func (s *stubProducts) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := s.byID[id]; !ok {
		return false, nil
	}
	delete(s.byID, id)
	return true, nil
}

// stubOrders implements ord.Repository in memory; failing simulates a
// store-level transaction fault (nothing persisted).
type stubOrders struct {
	rows    []ord.Order
	failing bool
}

func (s *stubOrders) InsertAll(_ context.Context, orders []ord.Order) ([]ord.Order, error) {
	if s.failing {
		return nil, fmt.Errorf("tx commit failed")
	}
	out := make([]ord.Order, 0, len(orders))
	for _, o := range orders {
		o.ID = int64(len(s.rows) + 1)
		o.OrderDate = time.Now()
		s.rows = append(s.rows, o)
		out = append(out, o)
	}
	return out, nil
}

func (s *stubOrders) ListByUser(_ context.Context, userID int64, _, _ int) ([]ord.Order, error) {
	var out []ord.Order
	for _, o := range s.rows {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

const testSID = "test-session"

// withSID replaces the cookie middleware so every request runs under a fixed
// session id.
func withSID(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		c.Set("sid", testSID)
		c.Next()
	})
}

//
// ---------- TESTS ----------
//

func TestAddToCart_ProductNotFound(t *testing.T) {
	t.Parallel()

	sessions := session.NewMemoryStore()
	mgr := cart.NewManager(newStubProducts())

	r := gin.New()
	withSID(r)
	r.POST("/cart/items/:product_id", addToCartHandler(mgr, sessions))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cart/items/999", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d body=%s (expected 404)", w.Code, w.Body.String())
	}
	crt, _ := sessions.Cart(context.Background(), testSID)
	if len(crt) != 0 {
		t.Fatalf("cart mutated on failed add: %v", crt)
	}
}

func TestAddToCart_IncrementsAcrossRequests(t *testing.T) {
	t.Parallel()

	sessions := session.NewMemoryStore()
	mgr := cart.NewManager(newStubProducts())

	r := gin.New()
	withSID(r)
	r.POST("/cart/items/:product_id", addToCartHandler(mgr, sessions))

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/cart/items/1", nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
		}
	}

	crt, _ := sessions.Cart(context.Background(), testSID)
	if crt[1] != 3 {
		t.Fatalf("quantity=%d, expected 3", crt[1])
	}
}

func TestUpdateCartItem_InvalidQuantity(t *testing.T) {
	t.Parallel()

	sessions := session.NewMemoryStore()
	_ = sessions.SetCart(context.Background(), testSID, cart.Cart{1: 2})
	mgr := cart.NewManager(newStubProducts())

	r := gin.New()
	withSID(r)
	r.PUT("/cart/items/:product_id", updateCartItemHandler(mgr, sessions))

	form := url.Values{"quantity": {"abc"}}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/cart/items/1", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s (expected 400)", w.Code, w.Body.String())
	}
	crt, _ := sessions.Cart(context.Background(), testSID)
	if crt[1] != 2 {
		t.Fatalf("cart changed on invalid input: %v", crt)
	}
}

func TestUpdateCartItem_ZeroRemovesLine(t *testing.T) {
	t.Parallel()

	sessions := session.NewMemoryStore()
	_ = sessions.SetCart(context.Background(), testSID, cart.Cart{1: 2})
	mgr := cart.NewManager(newStubProducts())

	r := gin.New()
	withSID(r)
	r.PUT("/cart/items/:product_id", updateCartItemHandler(mgr, sessions))

	form := url.Values{"quantity": {"0"}}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/cart/items/1", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	crt, _ := sessions.Cart(context.Background(), testSID)
	if _, ok := crt[1]; ok {
		t.Fatalf("line not removed: %v", crt)
	}
}

func TestViewCart_FiltersStaleLines(t *testing.T) {
	t.Parallel()

	sessions := session.NewMemoryStore()
	// product 99 no longer exists in the catalog
	_ = sessions.SetCart(context.Background(), testSID, cart.Cart{1: 2, 99: 1})
	mgr := cart.NewManager(newStubProducts())

	r := gin.New()
	withSID(r)
	r.GET("/cart", viewCartHandler(mgr, sessions))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	var sum cart.Summary
	if err := json.Unmarshal(w.Body.Bytes(), &sum); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(sum.Lines) != 1 || sum.Lines[0].Product.ID != 1 {
		t.Fatalf("lines=%+v, expected only product 1", sum.Lines)
	}
	if !sum.Total.Equal(decimal.RequireFromString("2401.00")) {
		t.Fatalf("total=%s, expected 2401.00", sum.Total)
	}

	// the stale entry survives in session storage
	crt, _ := sessions.Cart(context.Background(), testSID)
	if crt[99] != 1 {
		t.Fatalf("stale entry dropped from cart: %v", crt)
	}
}

func TestCheckout_Unauthenticated(t *testing.T) {
	t.Parallel()

	sessions := session.NewMemoryStore()
	_ = sessions.SetCart(context.Background(), testSID, cart.Cart{1: 2})
	store := &stubOrders{}
	proc := checkout.NewProcessor(newStubProducts(), store)

	r := gin.New()
	withSID(r)
	r.POST("/checkout", checkoutHandler(proc, sessions))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d body=%s (expected 401)", w.Code, w.Body.String())
	}
	if len(store.rows) != 0 {
		t.Fatalf("orders created without auth: %v", store.rows)
	}
	crt, _ := sessions.Cart(context.Background(), testSID)
	if crt[1] != 2 {
		t.Fatalf("cart changed: %v", crt)
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	t.Parallel()

	sessions := session.NewMemoryStore()
	_ = sessions.SetUserID(context.Background(), testSID, 7)
	store := &stubOrders{}
	proc := checkout.NewProcessor(newStubProducts(), store)

	r := gin.New()
	withSID(r)
	r.POST("/checkout", checkoutHandler(proc, sessions))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
	r.ServeHTTP(w, req)

	// informational, not an error
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s (expected 200)", w.Code, w.Body.String())
	}
	if len(store.rows) != 0 {
		t.Fatalf("orders created from empty cart: %v", store.rows)
	}
}

func TestCheckout_HappyPath(t *testing.T) {
	t.Parallel()

	sessions := session.NewMemoryStore()
	_ = sessions.SetUserID(context.Background(), testSID, 7)
	_ = sessions.SetCart(context.Background(), testSID, cart.Cart{1: 2, 2: 1})
	store := &stubOrders{}
	proc := checkout.NewProcessor(newStubProducts(), store)

	r := gin.New()
	withSID(r)
	r.POST("/checkout", checkoutHandler(proc, sessions))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s (expected 201)", w.Code, w.Body.String())
	}

	var resp struct {
		Message    string          `json:"message"`
		Orders     []ord.Order     `json:"orders"`
		TotalPrice decimal.Decimal `json:"total_price"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Orders) != 2 {
		t.Fatalf("orders=%d, expected 2", len(resp.Orders))
	}
	if !resp.TotalPrice.Equal(decimal.RequireFromString("3201.00")) {
		t.Fatalf("total=%s, expected 3201.00", resp.TotalPrice)
	}
	if len(store.rows) != 2 {
		t.Fatalf("persisted=%d, expected 2", len(store.rows))
	}

	crt, _ := sessions.Cart(context.Background(), testSID)
	if len(crt) != 0 {
		t.Fatalf("cart not cleared: %v", crt)
	}
}

func TestCheckout_SkipsDeletedProduct(t *testing.T) {
	t.Parallel()

	products := newStubProducts()
	delete(products.byID, 2)

	sessions := session.NewMemoryStore()
	_ = sessions.SetUserID(context.Background(), testSID, 7)
	_ = sessions.SetCart(context.Background(), testSID, cart.Cart{1: 1, 2: 1})
	store := &stubOrders{}
	proc := checkout.NewProcessor(products, store)

	r := gin.New()
	withSID(r)
	r.POST("/checkout", checkoutHandler(proc, sessions))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s (expected 201)", w.Code, w.Body.String())
	}
	if len(store.rows) != 1 || store.rows[0].ProductID != 1 {
		t.Fatalf("rows=%+v, expected one order for product 1", store.rows)
	}
	crt, _ := sessions.Cart(context.Background(), testSID)
	if len(crt) != 0 {
		t.Fatalf("cart not cleared: %v", crt)
	}
}

func TestCheckout_CommitFailure(t *testing.T) {
	t.Parallel()

	sessions := session.NewMemoryStore()
	_ = sessions.SetUserID(context.Background(), testSID, 7)
	_ = sessions.SetCart(context.Background(), testSID, cart.Cart{1: 2})
	store := &stubOrders{failing: true}
	proc := checkout.NewProcessor(newStubProducts(), store)

	r := gin.New()
	withSID(r)
	r.POST("/checkout", checkoutHandler(proc, sessions))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status=%d body=%s (expected 502)", w.Code, w.Body.String())
	}
	if len(store.rows) != 0 {
		t.Fatalf("rows persisted despite failure: %v", store.rows)
	}
	crt, _ := sessions.Cart(context.Background(), testSID)
	if crt[1] != 2 {
		t.Fatalf("cart cleared despite failure: %v", crt)
	}
}

func TestListOrders_RequiresAuth(t *testing.T) {
	t.Parallel()

	sessions := session.NewMemoryStore()
	store := &stubOrders{}

	r := gin.New()
	withSID(r)
	r.GET("/orders", listOrdersHandler(store, sessions))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d body=%s (expected 401)", w.Code, w.Body.String())
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.GET("/products/:id", getProductHandler(newStubProducts()))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products/404", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d body=%s (expected 404)", w.Code, w.Body.String())
	}
}

func init() {
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard
	log.SetOutput(io.Discard)
}
