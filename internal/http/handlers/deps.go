package handlers

import (
	"kiosco/internal/services"
	"kiosco/internal/store"
)

type Deps struct {
	AuthHandler   *AuthHandler
	MenuHandler   *MenuHandler
	CartHandler   *CartHandler
	OrderHandler  *OrderHandler
	KioscoHandler *KioscoHandler
	AdminHandler  *AdminHandler
}

func NewDeps(st *store.Fallback, auth *services.AuthService) *Deps {
	catalogSvc := services.NewCatalogService(st)
	cartSvc := services.NewCartService(st.Local(), st)
	orderSvc := services.NewOrderService(st, cartSvc)

	return &Deps{
		AuthHandler:   &AuthHandler{Auth: auth},
		MenuHandler:   &MenuHandler{Catalog: catalogSvc},
		CartHandler:   &CartHandler{Cart: cartSvc},
		OrderHandler:  &OrderHandler{Cart: cartSvc, Order: orderSvc, Auth: auth},
		KioscoHandler: &KioscoHandler{Order: orderSvc, Catalog: catalogSvc, Store: st},
		AdminHandler:  &AdminHandler{Store: st},
	}
}
