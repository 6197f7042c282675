package handlers

import (
	"bazaar/internal/cache"
	"bazaar/internal/config"
	"bazaar/internal/payment"
	"bazaar/internal/repos"
	"bazaar/internal/services"
	"bazaar/internal/telegram"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	AuthHandler     *AuthHandler
	CatalogHandler  *CatalogHandler
	CartHandler     *CartHandler
	OrderHandler    *OrderHandler
	WishlistHandler *WishlistHandler
	PaymentHandler  *PaymentHandler
	TelegramHandler *TelegramHandler
	AdminHandler    *AdminHandler

	Auth      *services.AuthService
	Discounts *services.DiscountService
	Notify    *services.NotifyService
}

func NewDeps(db *sqlx.DB, cfg config.Config, store cache.Cache) *Deps {
	custRepo := repos.NewCustomerRepo(db)
	storeRepo := repos.NewStoreRepo(db)
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	wishRepo := repos.NewWishlistRepo(db)
	discRepo := repos.NewDiscountRepo(db)
	payRepo := repos.NewPaymentRepo(db)

	bot := telegram.NewClient(cfg.TelegramBotToken)
	gateway := payment.NewClient(cfg.PayTabsProfileID, cfg.PayTabsServerKey, cfg.PayTabsBaseURL)

	authSvc := &services.AuthService{Customers: custRepo}
	catalogSvc := services.NewCatalogService(storeRepo, prodRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	orderSvc := services.NewOrderService(cartRepo, storeRepo, orderRepo)
	wishSvc := services.NewWishlistService(wishRepo, custRepo)
	discSvc := services.NewDiscountService(discRepo)
	notifySvc := services.NewNotifyService(bot, custRepo, storeRepo, orderRepo)
	reportSvc := services.NewReportingService(orderRepo, store, cfg.CacheTTL)
	paySvc := &services.PaymentService{
		Gateway:     gateway,
		Payments:    payRepo,
		Orders:      orderSvc,
		Customers:   custRepo,
		CallbackURL: "/api/v1/payments/callback",
		ReturnURL:   "/orders",
		Currency:    "SAR",
	}

	orderSvc.Notify = notifySvc
	orderSvc.Stats = reportSvc

	return &Deps{
		AuthHandler:     &AuthHandler{Auth: authSvc},
		CatalogHandler:  &CatalogHandler{Catalog: catalogSvc},
		CartHandler:     &CartHandler{Cart: cartSvc},
		OrderHandler:    &OrderHandler{Order: orderSvc},
		WishlistHandler: &WishlistHandler{Wish: wishSvc},
		PaymentHandler:  &PaymentHandler{Pay: paySvc},
		TelegramHandler: &TelegramHandler{Notify: notifySvc},
		AdminHandler: &AdminHandler{
			Orders:    orderSvc,
			Prods:     prodRepo,
			Discounts: discSvc,
			Reports:   reportSvc,
			Pay:       paySvc,
		},
		Auth:      authSvc,
		Discounts: discSvc,
		Notify:    notifySvc,
	}
}
