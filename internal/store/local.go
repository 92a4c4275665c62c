package store

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"kiosco/internal/domain"
)

// userRecord carries the password hash, which domain.User keeps out of its
// JSON form on purpose.
type userRecord struct {
	domain.User
	PasswordHash string `json:"password_hash"`
}

// snapshot is the on-disk shape: one named slot per concern, the way the
// source kept session, cart and order slots in browser storage.
type snapshot struct {
	Products []domain.Product       `json:"products"`
	Users    []userRecord           `json:"users"`
	Sessions map[string]string      `json:"sessions"` // sid -> user id
	Carts    map[string]domain.Cart `json:"carts"`    // sid -> cart
	Orders   []domain.Order         `json:"orders"`
}

// Local is the single-process fallback store. Every mutation rewrites the
// snapshot file; the snapshot is read once at open.
type Local struct {
	path string

	mu   sync.Mutex
	snap snapshot
}

func OpenLocal(path string) (*Local, error) {
	l := &Local{path: path}
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(b, &l.snap); err != nil {
			return nil, fmt.Errorf("local store %s: %w", path, err)
		}
	case os.IsNotExist(err):
		l.snap = snapshot{
			Products: defaultProducts(),
			Users:    defaultUsers(),
		}
	default:
		return nil, err
	}
	if l.snap.Sessions == nil {
		l.snap.Sessions = map[string]string{}
	}
	if l.snap.Carts == nil {
		l.snap.Carts = map[string]domain.Cart{}
	}
	return l, nil
}

// persist is called with mu held.
func (l *Local) persist() error {
	b, err := json.MarshalIndent(l.snap, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(l.path, b, 0644)
}

func now() string { return time.Now().UTC().Format(time.RFC3339) }

// ---------- products ----------

func (l *Local) ListProducts(q, category string, onlyAvailable bool) ([]domain.Product, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	q = strings.ToLower(q)
	var out []domain.Product
	for _, p := range l.snap.Products {
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		if onlyAvailable && !p.Available {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (l *Local) GetProduct(id string) (domain.Product, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, p := range l.snap.Products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, ErrNotFound
}

func (l *Local) SaveProduct(p domain.Product) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	p.UpdatedAt = now()
	for i, cur := range l.snap.Products {
		if cur.ID == p.ID {
			p.CreatedAt = cur.CreatedAt
			l.snap.Products[i] = p
			return l.persist()
		}
	}
	p.CreatedAt = p.UpdatedAt
	l.snap.Products = append(l.snap.Products, p)
	return l.persist()
}

func (l *Local) SetAvailability(id string, available bool) error {
	return l.mutateProduct(id, func(p *domain.Product) { p.Available = available })
}

func (l *Local) SetStock(id string, qty, minAlert int) error {
	return l.mutateProduct(id, func(p *domain.Product) {
		p.StockQuantity = qty
		p.MinStockAlert = minAlert
	})
}

func (l *Local) DecrementStock(id string, by int) error {
	return l.mutateProduct(id, func(p *domain.Product) { p.StockQuantity -= by })
}

func (l *Local) mutateProduct(id string, fn func(*domain.Product)) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.snap.Products {
		if l.snap.Products[i].ID == id {
			fn(&l.snap.Products[i])
			l.snap.Products[i].UpdatedAt = now()
			return l.persist()
		}
	}
	return ErrNotFound
}

// ---------- orders ----------

// NextOrderID derives the id from the clock, the way the source's demo mode
// did. Collisions within a millisecond window are accepted for a
// single-session store.
func (l *Local) NextOrderID() (string, error) {
	return fmt.Sprintf("ORD-%06d", time.Now().UnixMilli()%1_000_000), nil
}

func (l *Local) CreateOrder(o domain.Order) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if o.CreatedAt == "" {
		o.CreatedAt = now()
	}
	l.snap.Orders = append(l.snap.Orders, o)
	return l.persist()
}

func (l *Local) GetOrder(id string) (domain.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, o := range l.snap.Orders {
		if o.ID == id {
			return o, nil
		}
	}
	return domain.Order{}, ErrNotFound
}

func (l *Local) ListOrdersByUser(userID string) ([]domain.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []domain.Order
	for i := len(l.snap.Orders) - 1; i >= 0; i-- {
		if l.snap.Orders[i].UserID == userID {
			out = append(out, l.snap.Orders[i])
		}
	}
	return out, nil
}

func (l *Local) ListOrders(limit int) ([]domain.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if limit <= 0 {
		limit = 100
	}
	var out []domain.Order
	for i := len(l.snap.Orders) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, l.snap.Orders[i])
	}
	return out, nil
}

func (l *Local) UpdateOrderStatus(id string, status domain.OrderStatus) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.snap.Orders {
		if l.snap.Orders[i].ID == id {
			l.snap.Orders[i].Status = status
			l.snap.Orders[i].UpdatedAt = now()
			if status.Terminal() {
				l.snap.Orders[i].CompletedAt = now()
			}
			return l.persist()
		}
	}
	return ErrNotFound
}

// ---------- users & sessions ----------

func (l *Local) UserByEmail(email string) (*domain.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, rec := range l.snap.Users {
		if strings.EqualFold(rec.Email, email) {
			u := rec.User
			u.Hash = rec.PasswordHash
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (l *Local) SessionUser(sid string) (*domain.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	uid, ok := l.snap.Sessions[sid]
	if !ok || uid == "" {
		return nil, ErrNotFound
	}
	for _, rec := range l.snap.Users {
		if rec.ID == uid {
			u := rec.User
			u.Hash = rec.PasswordHash
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (l *Local) BindSession(sid, userID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.snap.Sessions[sid] = userID
	return l.persist()
}

func (l *Local) UnbindSession(sid string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.snap.Sessions, sid)
	return l.persist()
}

func (l *Local) ListUsers() ([]domain.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []domain.User
	for _, rec := range l.snap.Users {
		if rec.Role != domain.RoleAdmin {
			out = append(out, rec.User)
		}
	}
	return out, nil
}

func (l *Local) DeactivateUser(userID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	found := false
	for i := range l.snap.Users {
		if l.snap.Users[i].ID == userID {
			l.snap.Users[i].IsActive = false
			found = true
		}
	}
	if !found {
		return ErrNotFound
	}
	for sid, uid := range l.snap.Sessions {
		if uid == userID {
			delete(l.snap.Sessions, sid)
		}
	}
	for i := range l.snap.Orders {
		if l.snap.Orders[i].UserID == userID && !l.snap.Orders[i].Status.Terminal() {
			l.snap.Orders[i].Status = domain.StatusCancelado
			l.snap.Orders[i].CompletedAt = now()
		}
	}
	return l.persist()
}

// ---------- carts ----------

func (l *Local) LoadCart(sid string) (domain.Cart, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snap.Carts[sid], nil
}

func (l *Local) SaveCart(sid string, cart domain.Cart) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if cart.Empty() {
		delete(l.snap.Carts, sid)
	} else {
		l.snap.Carts[sid] = cart
	}
	return l.persist()
}

// ---------- analytics ----------

// UpdateDailyAnalytics is a no-op in demo mode; the roll-up is a remote
// procedure.
func (l *Local) UpdateDailyAnalytics(string) error { return nil }

// DailyAnalytics aggregates on the fly so the staff view still works without
// the remote store.
func (l *Local) DailyAnalytics(date string) (domain.DailyAnalytics, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := domain.DailyAnalytics{Date: date, OrdersByStatus: map[string]int{}}
	for _, o := range l.snap.Orders {
		if !strings.HasPrefix(o.CreatedAt, date) {
			continue
		}
		out.TotalOrders++
		out.TotalRevenue += o.TotalAmount
		out.OrdersByStatus[string(o.Status)]++
	}
	return out, nil
}
