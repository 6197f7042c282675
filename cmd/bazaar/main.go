package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"bazaar/internal/cache"
	"bazaar/internal/config"
	"bazaar/internal/http/handlers"
	applog "bazaar/internal/log"
	"bazaar/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			applog.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	var store cache.Cache = cache.NewMemory()
	if cfg.RedisAddr != "" {
		store = cache.NewRedis(cfg.RedisAddr)
	}

	engine := html.New("./web/templates", ".html")

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))

	deps := handlers.NewDeps(db, cfg, store)

	// ---------- Auth ----------
	loginLimiter := limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts"})
		},
	})
	app.Post("/api/v1/register", deps.AuthHandler.Register)
	app.Post("/api/v1/login", loginLimiter, deps.AuthHandler.Login)
	app.Post("/api/v1/logout", deps.AuthHandler.Logout)

	api := app.Group("/api/v1")

	// ---------- Catalog (public) ----------
	api.Get("/stores", deps.CatalogHandler.Stores)
	api.Get("/cities", deps.CatalogHandler.Cities)
	api.Get("/products", deps.CatalogHandler.Products)
	api.Get("/products/:id", deps.CatalogHandler.Product)
	api.Get("/delivery-price", deps.CatalogHandler.DeliveryPrice)

	// Gateway and bot callbacks authenticate themselves (signature / token),
	// and share links are public; all must register before the session guard.
	api.Post("/payments/callback", deps.PaymentHandler.Callback)
	app.Post("/telegram/webhook", deps.TelegramHandler.Webhook)

	shareLimiter := limiter.New(limiter.Config{Max: 30, Expiration: time.Minute})
	api.Get("/wishlist/shared/:token", shareLimiter, deps.WishlistHandler.SharedJSON)
	app.Get("/wishlist/shared/:token", shareLimiter, deps.WishlistHandler.SharedPage)

	// ---------- Customer (session required) ----------
	me := api.Group("", handlers.RequireCustomer(deps.Auth))
	me.Get("/cart", deps.CartHandler.View)
	me.Post("/cart", deps.CartHandler.Add)
	me.Patch("/cart/:productID", deps.CartHandler.UpdateQty)
	me.Delete("/cart/:productID", deps.CartHandler.Remove)
	me.Delete("/cart", deps.CartHandler.Clear)

	checkoutLimiter := limiter.New(limiter.Config{Max: 10, Expiration: time.Minute})
	me.Post("/orders", checkoutLimiter, deps.OrderHandler.Place)
	me.Get("/orders", deps.OrderHandler.History)
	me.Get("/orders/:id", deps.OrderHandler.View)

	me.Get("/wishlist", deps.WishlistHandler.List)
	me.Post("/wishlist", deps.WishlistHandler.Save)
	me.Delete("/wishlist/:productID", deps.WishlistHandler.Unsave)
	me.Post("/wishlist/share", deps.WishlistHandler.Share)
	me.Post("/wishlist/share/regenerate", deps.WishlistHandler.RegenerateShare)
	me.Patch("/wishlist/share", deps.WishlistHandler.UpdateShare)

	me.Post("/payments/:orderID", deps.PaymentHandler.Start)
	me.Post("/telegram/link", deps.AuthHandler.TelegramLink)

	// ---------- Admin ----------
	admin := app.Group("/admin", handlers.RequireAdmin(deps.Auth))
	admin.Get("/orders", deps.AdminHandler.OrdersPage)
	admin.Post("/orders/:id/status", deps.AdminHandler.UpdateOrderStatus)
	admin.Post("/orders/:id/refund", deps.AdminHandler.RefundOrder)
	admin.Post("/products/:id/stock", deps.AdminHandler.UpdateStock)
	admin.Get("/stats", deps.AdminHandler.Stats)
	admin.Get("/discounts", deps.AdminHandler.ListPlans)
	admin.Post("/discounts", deps.AdminHandler.CreatePlan)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	// Discount plans activate/expire on a sweeper loop.
	stop := make(chan struct{})
	defer close(stop)
	go deps.Discounts.Run(time.Minute, stop, func(err error) {
		applog.Error(nil, "discounts.sweep", err, nil)
	})
	if err := deps.Discounts.Sweep(time.Now()); err != nil {
		applog.Error(nil, "discounts.sweep", err, nil)
	}

	log.Fatal(app.Listen(":" + cfg.Port))
}
