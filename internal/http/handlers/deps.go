package handlers

import (
	"velvet/internal/cart"
	"velvet/internal/config"
	"velvet/internal/payments"
	"velvet/internal/repos"
	"velvet/internal/services"
	"velvet/internal/storage"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	ProductHandler  *ProductHandler
	CartHandler     *CartHandler
	CheckoutHandler *CheckoutHandler
	WebhookHandler  *WebhookHandler
	AdminHandler    *AdminHandler
	ContactHandler  *ContactHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, pay payments.SessionCreator, objects storage.ObjectStore) *Deps {
	prodRepo := repos.NewProductRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	slotStore := cart.NewSlotStore(db)

	cartSvc := services.NewCartService(slotStore, prodRepo)
	checkoutSvc := services.NewCheckoutService(orderRepo, pay, cfg.BaseURL)
	webhookSvc := services.NewWebhookService(orderRepo)
	productSvc := services.NewProductService(prodRepo, objects)

	return &Deps{
		ProductHandler:  &ProductHandler{Prods: prodRepo},
		CartHandler:     &CartHandler{Store: slotStore, Cart: cartSvc},
		CheckoutHandler: &CheckoutHandler{Cart: cartSvc, Checkout: checkoutSvc, Store: slotStore},
		WebhookHandler:  &WebhookHandler{Secret: cfg.WebhookSecret, Hook: webhookSvc},
		AdminHandler:    &AdminHandler{Prods: prodRepo, Products: productSvc, Orders: orderRepo},
		ContactHandler:  &ContactHandler{},
	}
}
