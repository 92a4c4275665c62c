// Package store presents one read/write surface over two backing stores: the
// remote relational store (authoritative, multi-user) and a local
// single-process snapshot (demo fallback). The Fallback decorator decides per
// call which one serves the request.
package store

import (
	"errors"

	"kiosco/internal/domain"
)

var ErrNotFound = errors.New("not found")

// Port is the persistence surface the services depend on.
type Port interface {
	ListProducts(q, category string, onlyAvailable bool) ([]domain.Product, error)
	GetProduct(id string) (domain.Product, error)
	SaveProduct(p domain.Product) error
	SetAvailability(id string, available bool) error
	SetStock(id string, qty, minAlert int) error
	DecrementStock(id string, by int) error

	NextOrderID() (string, error)
	CreateOrder(o domain.Order) error
	GetOrder(id string) (domain.Order, error)
	ListOrdersByUser(userID string) ([]domain.Order, error)
	ListOrders(limit int) ([]domain.Order, error)
	UpdateOrderStatus(id string, status domain.OrderStatus) error

	UserByEmail(email string) (*domain.User, error)
	SessionUser(sid string) (*domain.User, error)
	BindSession(sid, userID string) error
	UnbindSession(sid string) error
	ListUsers() ([]domain.User, error)
	DeactivateUser(userID string) error

	UpdateDailyAnalytics(date string) error
	DailyAnalytics(date string) (domain.DailyAnalytics, error)
}

// SessionStore holds per-session state. Carts never reach the remote store:
// a cart belongs to exactly one session, the way the source kept it in
// browser storage.
type SessionStore interface {
	LoadCart(sid string) (domain.Cart, error)
	SaveCart(sid string, cart domain.Cart) error
}
