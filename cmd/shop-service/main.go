package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/mcrow/storefront/docs"
	"github.com/mcrow/storefront/internal/cart"
	"github.com/mcrow/storefront/internal/checkout"
	"github.com/mcrow/storefront/internal/config"
	"github.com/mcrow/storefront/internal/db"
	"github.com/mcrow/storefront/internal/httpx"
	"github.com/mcrow/storefront/internal/order"
	"github.com/mcrow/storefront/internal/product"
	"github.com/mcrow/storefront/internal/session"
	"github.com/mcrow/storefront/internal/user"
)

// @title Storefront API
// @version 1.0
// @description Minimal e-commerce demo: product catalog, session cart, checkout.
// @BasePath /
func main() {
	cfg := config.Load()

	if err := db.RunMigrations(cfg.PostgresDSN); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	products := product.NewPGRepo(pool)
	orders := order.NewPGRepo(pool)
	users := user.NewService(user.NewPGRepo(pool))

	if cfg.SeedProducts {
		if err := product.SeedSampleData(ctx, products); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}

	var sessions session.Store
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("redis: %v", err)
		}
		sessions = session.NewRedisStore(rdb, cfg.SessionTTL)
	} else {
		log.Printf("[session] REDIS_ADDR empty, using in-memory store")
		sessions = session.NewMemoryStore()
	}

	carts := cart.NewManager(products)
	processor := checkout.NewProcessor(products, orders)

	r := newRouter(products, orders, users, carts, processor, sessions)
	log.Printf("shop-service listening on %s", cfg.HTTPAddr)
	log.Fatal(r.Run(cfg.HTTPAddr))
}

func newRouter(
	products product.Repository,
	orders order.Repository,
	users *user.Service,
	carts *cart.Manager,
	processor *checkout.Processor,
	sessions session.Store,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(), httpx.Session())

	r.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/products", listProductsHandler(products))
	r.GET("/products/:id", getProductHandler(products))
	r.POST("/products", createProductHandler(products))
	r.PUT("/products/:id", updateProductHandler(products))
	r.DELETE("/products/:id", deleteProductHandler(products))

	r.POST("/auth/register", registerHandler(users))
	r.POST("/auth/login", loginHandler(users, sessions))
	r.POST("/auth/logout", logoutHandler(sessions))
	r.GET("/auth/me", meHandler(users, sessions))

	r.GET("/cart", viewCartHandler(carts, sessions))
	r.POST("/cart/items/:product_id", addToCartHandler(carts, sessions))
	r.PUT("/cart/items/:product_id", updateCartItemHandler(carts, sessions))
	r.DELETE("/cart/items/:product_id", removeCartItemHandler(carts, sessions))

	r.POST("/checkout", checkoutHandler(processor, sessions))
	r.GET("/orders", listOrdersHandler(orders, sessions))

	return r
}
