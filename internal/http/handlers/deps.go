package handlers

import (
	"github.com/jmoiron/sqlx"

	"grocerypos/internal/cart"
	"grocerypos/internal/config"
	"grocerypos/internal/pricing"
	"grocerypos/internal/repos"
	"grocerypos/internal/services"
)

type Deps struct {
	ProductHandler *ProductHandler
	CartHandler    *CartHandler
	OrderHandler   *OrderHandler
	AdminHandler   *AdminHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService, carts *cart.Store) *Deps {
	prodRepo := repos.NewProductRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	userRepo := repos.NewUserRepo(db)

	calc := pricing.NewCalculator(cfg.TaxRate)
	catalogSvc := services.NewCatalogService(prodRepo, cfg.PageSize)
	cartSvc := services.NewCartService(carts, prodRepo, calc)
	checkoutSvc := services.NewCheckoutService(db, carts, prodRepo, orderRepo, calc)

	return &Deps{
		ProductHandler: &ProductHandler{Catalog: catalogSvc, Cart: cartSvc},
		CartHandler:    &CartHandler{Cart: cartSvc},
		OrderHandler:   &OrderHandler{Cart: cartSvc, Checkout: checkoutSvc, Orders: orderRepo, Cfg: cfg},
		AdminHandler:   &AdminHandler{Catalog: catalogSvc, Orders: orderRepo, Users: userRepo, Auth: auth},
	}
}
