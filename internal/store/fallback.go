package store

import (
	applog "kiosco/internal/log"

	"kiosco/internal/domain"
)

// Fallback tries the remote store first and, on any error, logs it and
// serves the call from the local store instead. Callers cannot tell which
// backend answered. There is no retry and no reconciliation: writes taken
// locally stay local.
type Fallback struct {
	remote *Remote // nil when DB_DSN is not configured
	local  *Local
}

func NewFallback(remote *Remote, local *Local) *Fallback {
	return &Fallback{remote: remote, local: local}
}

// RemoteAvailable reports whether remote credentials are configured. It does
// not verify liveness.
func (f *Fallback) RemoteAvailable() bool { return f.remote != nil }

// Local exposes the session store side (carts never go remote).
func (f *Fallback) Local() *Local { return f.local }

func (f *Fallback) drop(op string, err error) {
	applog.Store("store.fallback", err, map[string]any{"op": op})
}

// ---------- products ----------

func (f *Fallback) ListProducts(q, category string, onlyAvailable bool) ([]domain.Product, error) {
	if f.remote != nil {
		out, err := f.remote.ListProducts(q, category, onlyAvailable)
		if err == nil {
			return out, nil
		}
		f.drop("list_products", err)
	}
	return f.local.ListProducts(q, category, onlyAvailable)
}

func (f *Fallback) GetProduct(id string) (domain.Product, error) {
	if f.remote != nil {
		p, err := f.remote.GetProduct(id)
		if err == nil {
			return p, nil
		}
		f.drop("get_product", err)
	}
	return f.local.GetProduct(id)
}

func (f *Fallback) SaveProduct(p domain.Product) error {
	if f.remote != nil {
		err := f.remote.SaveProduct(p)
		if err == nil {
			return nil
		}
		f.drop("save_product", err)
	}
	return f.local.SaveProduct(p)
}

func (f *Fallback) SetAvailability(id string, available bool) error {
	if f.remote != nil {
		err := f.remote.SetAvailability(id, available)
		if err == nil {
			return nil
		}
		f.drop("set_availability", err)
	}
	return f.local.SetAvailability(id, available)
}

func (f *Fallback) SetStock(id string, qty, minAlert int) error {
	if f.remote != nil {
		err := f.remote.SetStock(id, qty, minAlert)
		if err == nil {
			return nil
		}
		f.drop("set_stock", err)
	}
	return f.local.SetStock(id, qty, minAlert)
}

func (f *Fallback) DecrementStock(id string, by int) error {
	if f.remote != nil {
		err := f.remote.DecrementStock(id, by)
		if err == nil {
			return nil
		}
		f.drop("decrement_stock", err)
	}
	return f.local.DecrementStock(id, by)
}

// ---------- orders ----------

func (f *Fallback) NextOrderID() (string, error) {
	if f.remote != nil {
		id, err := f.remote.NextOrderID()
		if err == nil {
			return id, nil
		}
		f.drop("next_order_id", err)
	}
	return f.local.NextOrderID()
}

func (f *Fallback) CreateOrder(o domain.Order) error {
	if f.remote != nil {
		err := f.remote.CreateOrder(o)
		if err == nil {
			return nil
		}
		f.drop("create_order", err)
	}
	return f.local.CreateOrder(o)
}

func (f *Fallback) GetOrder(id string) (domain.Order, error) {
	if f.remote != nil {
		o, err := f.remote.GetOrder(id)
		if err == nil {
			return o, nil
		}
		f.drop("get_order", err)
	}
	return f.local.GetOrder(id)
}

func (f *Fallback) ListOrdersByUser(userID string) ([]domain.Order, error) {
	if f.remote != nil {
		out, err := f.remote.ListOrdersByUser(userID)
		if err == nil {
			return out, nil
		}
		f.drop("list_orders_by_user", err)
	}
	return f.local.ListOrdersByUser(userID)
}

func (f *Fallback) ListOrders(limit int) ([]domain.Order, error) {
	if f.remote != nil {
		out, err := f.remote.ListOrders(limit)
		if err == nil {
			return out, nil
		}
		f.drop("list_orders", err)
	}
	return f.local.ListOrders(limit)
}

func (f *Fallback) UpdateOrderStatus(id string, status domain.OrderStatus) error {
	if f.remote != nil {
		err := f.remote.UpdateOrderStatus(id, status)
		if err == nil {
			return nil
		}
		f.drop("update_order_status", err)
	}
	return f.local.UpdateOrderStatus(id, status)
}

// ---------- users & sessions ----------

func (f *Fallback) UserByEmail(email string) (*domain.User, error) {
	if f.remote != nil {
		u, err := f.remote.UserByEmail(email)
		if err == nil {
			return u, nil
		}
		f.drop("user_by_email", err)
	}
	return f.local.UserByEmail(email)
}

func (f *Fallback) SessionUser(sid string) (*domain.User, error) {
	if f.remote != nil {
		u, err := f.remote.SessionUser(sid)
		if err == nil {
			return u, nil
		}
		f.drop("session_user", err)
	}
	return f.local.SessionUser(sid)
}

func (f *Fallback) BindSession(sid, userID string) error {
	if f.remote != nil {
		err := f.remote.BindSession(sid, userID)
		if err == nil {
			return nil
		}
		f.drop("bind_session", err)
	}
	return f.local.BindSession(sid, userID)
}

func (f *Fallback) UnbindSession(sid string) error {
	if f.remote != nil {
		err := f.remote.UnbindSession(sid)
		if err == nil {
			return nil
		}
		f.drop("unbind_session", err)
	}
	return f.local.UnbindSession(sid)
}

func (f *Fallback) ListUsers() ([]domain.User, error) {
	if f.remote != nil {
		out, err := f.remote.ListUsers()
		if err == nil {
			return out, nil
		}
		f.drop("list_users", err)
	}
	return f.local.ListUsers()
}

func (f *Fallback) DeactivateUser(userID string) error {
	if f.remote != nil {
		err := f.remote.DeactivateUser(userID)
		if err == nil {
			return nil
		}
		f.drop("deactivate_user", err)
	}
	return f.local.DeactivateUser(userID)
}

// ---------- analytics ----------

func (f *Fallback) UpdateDailyAnalytics(date string) error {
	if f.remote != nil {
		err := f.remote.UpdateDailyAnalytics(date)
		if err == nil {
			return nil
		}
		f.drop("update_daily_analytics", err)
	}
	return f.local.UpdateDailyAnalytics(date)
}

func (f *Fallback) DailyAnalytics(date string) (domain.DailyAnalytics, error) {
	if f.remote != nil {
		out, err := f.remote.DailyAnalytics(date)
		if err == nil {
			return out, nil
		}
		f.drop("daily_analytics", err)
	}
	return f.local.DailyAnalytics(date)
}

var _ Port = (*Fallback)(nil)
var _ Port = (*Remote)(nil)
var _ Port = (*Local)(nil)
var _ SessionStore = (*Local)(nil)
