package store

import (
	"github.com/jmoiron/sqlx"

	"kiosco/internal/domain"
	"kiosco/internal/repos"
)

// Remote serves every call from the relational store.
type Remote struct {
	Products  *repos.ProductRepo
	Orders    *repos.OrderRepo
	Users     *repos.UserRepo
	Analytics *repos.AnalyticsRepo
}

func NewRemote(db *sqlx.DB) *Remote {
	return &Remote{
		Products:  repos.NewProductRepo(db),
		Orders:    repos.NewOrderRepo(db),
		Users:     repos.NewUserRepo(db),
		Analytics: repos.NewAnalyticsRepo(db),
	}
}

func (r *Remote) ListProducts(q, category string, onlyAvailable bool) ([]domain.Product, error) {
	return r.Products.List(q, category, onlyAvailable)
}
func (r *Remote) GetProduct(id string) (domain.Product, error) { return r.Products.Get(id) }
func (r *Remote) SaveProduct(p domain.Product) error           { return r.Products.Save(p) }
func (r *Remote) SetAvailability(id string, available bool) error {
	return r.Products.SetAvailability(id, available)
}
func (r *Remote) SetStock(id string, qty, minAlert int) error {
	return r.Products.SetStock(id, qty, minAlert)
}
func (r *Remote) DecrementStock(id string, by int) error { return r.Products.DecrementStock(id, by) }

func (r *Remote) NextOrderID() (string, error)        { return r.Orders.NextID() }
func (r *Remote) CreateOrder(o domain.Order) error    { return r.Orders.Create(o) }
func (r *Remote) GetOrder(id string) (domain.Order, error) { return r.Orders.Get(id) }
func (r *Remote) ListOrdersByUser(userID string) ([]domain.Order, error) {
	return r.Orders.ListByUser(userID)
}
func (r *Remote) ListOrders(limit int) ([]domain.Order, error) { return r.Orders.ListLatest(limit) }
func (r *Remote) UpdateOrderStatus(id string, status domain.OrderStatus) error {
	return r.Orders.UpdateStatus(id, status)
}

func (r *Remote) UserByEmail(email string) (*domain.User, error) { return r.Users.ByEmail(email) }
func (r *Remote) SessionUser(sid string) (*domain.User, error)   { return r.Users.SessionUser(sid) }
func (r *Remote) BindSession(sid, userID string) error           { return r.Users.BindSession(sid, userID) }
func (r *Remote) UnbindSession(sid string) error                 { return r.Users.UnbindSession(sid) }
func (r *Remote) ListUsers() ([]domain.User, error)              { return r.Users.List() }
func (r *Remote) DeactivateUser(userID string) error             { return r.Users.DeactivateCascade(userID) }

func (r *Remote) UpdateDailyAnalytics(date string) error { return r.Analytics.Update(date) }
func (r *Remote) DailyAnalytics(date string) (domain.DailyAnalytics, error) {
	return r.Analytics.Get(date)
}
