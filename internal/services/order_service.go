package services

import (
	"errors"
	"time"

	"kiosco/internal/domain"
	applog "kiosco/internal/log"
	"kiosco/internal/store"
)

var (
	ErrEmptyCart   = errors.New("cart is empty")
	ErrInvalidSlot = errors.New("pickup time not offered for this cycle")
	ErrNotStudent  = errors.New("only students can place orders")
	ErrNotStaff    = errors.New("only kiosco staff can manage orders")
)

type OrderService struct {
	Store store.Port
	Carts *CartService
}

func NewOrderService(st store.Port, carts *CartService) *OrderService {
	return &OrderService{Store: st, Carts: carts}
}

// Place creates an order from the session's cart snapshot. The total is
// computed here, frozen into the order, and never recalculated. On success
// the cart is cleared exactly once.
func (s *OrderService) Place(sid string, u *domain.User, slot string, pay domain.PaymentMethod, notes string) (domain.Order, error) {
	if !u.Role.Student() {
		return domain.Order{}, ErrNotStudent
	}

	cart, err := s.Carts.View(sid)
	if err != nil {
		return domain.Order{}, err
	}
	if cart.Empty() {
		return domain.Order{}, ErrEmptyCart
	}
	if !u.Role.CanPickupAt(slot) {
		return domain.Order{}, ErrInvalidSlot
	}

	id, err := s.Store.NextOrderID()
	if err != nil {
		return domain.Order{}, err
	}

	order := domain.Order{
		ID:            id,
		UserID:        u.ID,
		Items:         cart.Items,
		TotalAmount:   cart.TotalAmount(),
		ScheduledTime: slot,
		PaymentMethod: pay,
		Status:        domain.StatusPendiente,
		Notes:         notes,
		UserCycle:     u.Role,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.Store.CreateOrder(order); err != nil {
		return domain.Order{}, err
	}

	// Stock bookkeeping after the order exists. Not guarded against
	// concurrent orders for the same product; see DecrementStock.
	for _, it := range order.Items {
		if err := s.Store.DecrementStock(it.Product.ID, it.Quantity); err != nil {
			applog.Store("order.stock.decrement", err, map[string]any{
				"order_id": order.ID, "product_id": it.Product.ID,
			})
		}
	}

	if err := s.Carts.Clear(sid); err != nil {
		applog.Store("order.cart.clear", err, map[string]any{"order_id": order.ID})
	}

	// Best-effort roll-up; a failed analytics update never fails the order.
	date := time.Now().UTC().Format("2006-01-02")
	if err := s.Store.UpdateDailyAnalytics(date); err != nil {
		applog.Store("order.analytics.update", err, map[string]any{"date": date})
	}

	return order, nil
}

// Advance moves an order one step along
// pendiente→en_preparacion→listo→entregado. Terminal orders are rejected.
func (s *OrderService) Advance(staff *domain.User, orderID string) (domain.Order, error) {
	if !staff.Role.Staff() {
		return domain.Order{}, ErrNotStaff
	}
	o, err := s.Store.GetOrder(orderID)
	if err != nil {
		return domain.Order{}, err
	}
	next, err := o.Status.Next()
	if err != nil {
		return domain.Order{}, err
	}
	if err := s.Store.UpdateOrderStatus(o.ID, next); err != nil {
		return domain.Order{}, err
	}
	o.Status = next
	return o, nil
}

// Cancel is valid from any non-terminal state and must be rejected, not
// silently accepted, once the order is entregado or already cancelado.
func (s *OrderService) Cancel(staff *domain.User, orderID string) (domain.Order, error) {
	if !staff.Role.Staff() {
		return domain.Order{}, ErrNotStaff
	}
	o, err := s.Store.GetOrder(orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if !o.Status.CanCancel() {
		return domain.Order{}, domain.ErrOrderFinal
	}
	if err := s.Store.UpdateOrderStatus(o.ID, domain.StatusCancelado); err != nil {
		return domain.Order{}, err
	}
	o.Status = domain.StatusCancelado
	return o, nil
}

func (s *OrderService) Get(orderID string) (domain.Order, error) {
	return s.Store.GetOrder(orderID)
}

func (s *OrderService) History(userID string) ([]domain.Order, error) {
	return s.Store.ListOrdersByUser(userID)
}

func (s *OrderService) Board(limit int) ([]domain.Order, error) {
	return s.Store.ListOrders(limit)
}
