package main

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/mcrow/storefront/internal/cart"
	"github.com/mcrow/storefront/internal/checkout"
	"github.com/mcrow/storefront/internal/order"
	"github.com/mcrow/storefront/internal/product"
	"github.com/mcrow/storefront/internal/session"
	"github.com/mcrow/storefront/internal/user"
)

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(def)))
	if err != nil {
		return def
	}
	return v
}

//
// ---------- PRODUCTS ----------
//

// listProductsHandler godoc
// @Summary List products
// @Tags products
// @Produce json
// @Param q query string false "search in name/description"
// @Param limit query int false "page size"
// @Param offset query int false "page offset"
// @Success 200 {object} product.ListResponse
// @Router /products [get]
func listProductsHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := product.Query{
			Q:      c.Query("q"),
			Limit:  queryInt(c, "limit", 20),
			Offset: queryInt(c, "offset", 0),
		}
		items, err := repo.List(c.Request.Context(), q)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
			return
		}
		if items == nil {
			items = []product.Product{}
		}
		c.JSON(http.StatusOK, product.ListResponse{Q: q.Q, Limit: q.Limit, Offset: q.Offset, Items: items})
	}
}

// getProductHandler godoc
// @Summary Get product by id
// @Tags products
// @Produce json
// @Param id path int true "product id"
// @Success 200 {object} product.Product
// @Failure 404 {object} product.HTTPError
// @Router /products/{id} [get]
func getProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		p, err := repo.GetByID(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// createProductHandler godoc
// @Summary Create product
// @Tags products
// @Accept json
// @Produce json
// @Param payload body product.CreateProductRequest true "Product"
// @Success 201 {object} product.Product
// @Failure 400 {object} product.HTTPError
// @Router /products [post]
func createProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req product.CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		if req.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}
		if _, err := decimal.NewFromString(req.Price); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
			return
		}
		p := product.Product{
			Name:          req.Name,
			Description:   req.Description,
			Price:         req.Price,
			ImageURL:      req.ImageURL,
			StockQuantity: req.StockQuantity,
		}
		if err := repo.Create(c.Request.Context(), &p); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

// updateProductHandler godoc
// @Summary Update product (partial)
// @Tags products
// @Accept json
// @Produce json
// @Param id path int true "product id"
// @Param payload body product.UpdateProductRequest true "Fields to update"
// @Success 200 {object} product.Product
// @Failure 404 {object} product.HTTPError
// @Router /products/{id} [put]
func updateProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var req product.UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		if _, err := repo.GetByID(c.Request.Context(), id); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		updatePrice := req.Price != ""
		if updatePrice {
			if _, err := decimal.NewFromString(req.Price); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
				return
			}
		}
		p := product.Product{
			ID:            id,
			Name:          req.Name,
			Description:   req.Description,
			Price:         req.Price,
			ImageURL:      req.ImageURL,
			StockQuantity: req.StockQuantity,
		}
		if err := repo.Update(c.Request.Context(), &p, updatePrice); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
			return
		}
		out, err := repo.GetByID(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "refetch failed"})
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// deleteProductHandler godoc
// @Summary Delete product
// @Tags products
// @Param id path int true "product id"
// @Success 204
// @Failure 404 {object} product.HTTPError
// @Router /products/{id} [delete]
func deleteProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		deleted, err := repo.Delete(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
			return
		}
		if !deleted {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

//
// ---------- AUTH ----------
//

// registerHandler godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body user.RegisterRequest true "Credentials"
// @Success 201 {object} user.User
// @Failure 409 {object} product.HTTPError
// @Router /auth/register [post]
func registerHandler(users *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req user.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		u, err := users.Register(c.Request.Context(), req.Username, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, user.ErrAlreadyExist) {
				c.JSON(http.StatusConflict, gin.H{"error": "username or email already taken"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, u)
	}
}

// loginHandler godoc
// @Summary Log in and bind the user to the current session
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body user.LoginRequest true "Credentials"
// @Success 200 {object} user.User
// @Failure 401 {object} product.HTTPError
// @Router /auth/login [post]
func loginHandler(users *user.Service, sessions session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req user.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		u, err := users.Authenticate(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, user.ErrBadCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
			return
		}
		if err := sessions.SetUserID(c.Request.Context(), c.GetString("sid"), u.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

// logoutHandler godoc
// @Summary Log out of the current session
// @Tags auth
// @Success 204
// @Router /auth/logout [post]
func logoutHandler(sessions session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := sessions.ClearUser(c.Request.Context(), c.GetString("sid")); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// meHandler godoc
// @Summary Current authenticated user
// @Tags auth
// @Produce json
// @Success 200 {object} user.User
// @Failure 401 {object} product.HTTPError
// @Router /auth/me [get]
func meHandler(users *user.Service, sessions session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, err := sessions.UserID(c.Request.Context(), c.GetString("sid"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
			return
		}
		if uid == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		u, err := users.GetByID(c.Request.Context(), uid)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

//
// ---------- CART ----------
//

// viewCartHandler godoc
// @Summary View the session cart reconciled against the catalog
// @Tags cart
// @Produce json
// @Success 200 {object} cart.Summary
// @Router /cart [get]
func viewCartHandler(carts *cart.Manager, sessions session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		crt, err := sessions.Cart(c.Request.Context(), c.GetString("sid"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
			return
		}
		sum, err := carts.View(c.Request.Context(), crt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cart view failed"})
			return
		}
		c.JSON(http.StatusOK, sum)
	}
}

// addToCartHandler godoc
// @Summary Add one unit of a product to the cart
// @Tags cart
// @Produce json
// @Param product_id path int true "product id"
// @Success 200 {object} map[string]string
// @Failure 404 {object} product.HTTPError
// @Router /cart/items/{product_id} [post]
func addToCartHandler(carts *cart.Manager, sessions session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "product_id")
		if !ok {
			return
		}
		sid := c.GetString("sid")
		crt, err := sessions.Cart(c.Request.Context(), sid)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
			return
		}
		next, name, err := carts.Add(c.Request.Context(), crt, id)
		if err != nil {
			if errors.Is(err, cart.ErrProductNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "add failed"})
			return
		}
		if err := sessions.SetCart(c.Request.Context(), sid, next); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": name + " added to your cart"})
	}
}

// updateCartItemHandler godoc
// @Summary Set the quantity of a cart line
// @Tags cart
// @Accept x-www-form-urlencoded
// @Produce json
// @Param product_id path int true "product id"
// @Param quantity formData string true "new quantity; zero or less removes the line"
// @Success 200 {object} map[string]string
// @Failure 400 {object} product.HTTPError
// @Router /cart/items/{product_id} [put]
func updateCartItemHandler(carts *cart.Manager, sessions session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "product_id")
		if !ok {
			return
		}
		sid := c.GetString("sid")
		crt, err := sessions.Cart(c.Request.Context(), sid)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
			return
		}
		next, err := carts.SetQuantity(crt, id, c.PostForm("quantity"))
		if err != nil {
			// cart left untouched, nothing to persist
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be a whole number"})
			return
		}
		if err := sessions.SetCart(c.Request.Context(), sid, next); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "cart updated"})
	}
}

// removeCartItemHandler godoc
// @Summary Remove a product from the cart
// @Tags cart
// @Produce json
// @Param product_id path int true "product id"
// @Success 200 {object} map[string]string
// @Router /cart/items/{product_id} [delete]
func removeCartItemHandler(carts *cart.Manager, sessions session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "product_id")
		if !ok {
			return
		}
		sid := c.GetString("sid")
		crt, err := sessions.Cart(c.Request.Context(), sid)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
			return
		}
		next := carts.Remove(crt, id)
		if err := sessions.SetCart(c.Request.Context(), sid, next); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "item removed from your cart"})
	}
}

//
// ---------- CHECKOUT & ORDERS ----------
//

// checkoutHandler godoc
// @Summary Convert the session cart into orders
// @Tags checkout
// @Produce json
// @Success 201 {object} checkout.Receipt
// @Success 200 {object} map[string]string "empty cart"
// @Failure 401 {object} product.HTTPError
// @Failure 502 {object} product.HTTPError "order commit failed"
// @Router /checkout [post]
func checkoutHandler(processor *checkout.Processor, sessions session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := c.GetString("sid")
		uid, err := sessions.UserID(c.Request.Context(), sid)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
			return
		}
		crt, err := sessions.Cart(c.Request.Context(), sid)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
			return
		}

		_, receipt, err := processor.Checkout(c.Request.Context(), crt, uid)
		if err != nil {
			switch {
			case errors.Is(err, checkout.ErrUnauthenticated):
				c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			case errors.Is(err, checkout.ErrEmptyCart):
				c.JSON(http.StatusOK, gin.H{"message": "your cart is empty"})
			default:
				log.Printf("[checkout] rid=%v commit failed: %v", c.GetString("rid"), err)
				c.JSON(http.StatusBadGateway, gin.H{"error": "checkout failed, please try again"})
			}
			return
		}

		// orders are committed; a session hiccup here must not fail the request
		if err := sessions.ClearCart(c.Request.Context(), sid); err != nil {
			log.Printf("[checkout] rid=%v cart clear after commit failed: %v", c.GetString("rid"), err)
		}
		c.JSON(http.StatusCreated, gin.H{
			"message":     "your order has been placed",
			"orders":      receipt.Orders,
			"total_price": receipt.Total,
		})
	}
}

// listOrdersHandler godoc
// @Summary Order history of the authenticated user
// @Tags orders
// @Produce json
// @Param limit query int false "page size"
// @Param offset query int false "page offset"
// @Success 200 {object} order.ListResponse
// @Failure 401 {object} product.HTTPError
// @Router /orders [get]
func listOrdersHandler(orders order.Repository, sessions session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, err := sessions.UserID(c.Request.Context(), c.GetString("sid"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
			return
		}
		if uid == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		limit := queryInt(c, "limit", 20)
		offset := queryInt(c, "offset", 0)
		items, err := orders.ListByUser(c.Request.Context(), uid, limit, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
			return
		}
		if items == nil {
			items = []order.Order{}
		}
		c.JSON(http.StatusOK, order.ListResponse{Limit: limit, Offset: offset, Items: items})
	}
}
