package services_test

import (
	"errors"
	"path/filepath"
	"testing"

	"kiosco/internal/domain"
	"kiosco/internal/repos"
	"kiosco/internal/services"
	"kiosco/internal/store"
)

// newStore builds the full dual-backend stack on an in-memory relational
// store plus a throwaway local snapshot.
func newStore(t *testing.T) *store.Fallback {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	local, err := store.OpenLocal(filepath.Join(t.TempDir(), "kiosco.local.json"))
	if err != nil {
		t.Fatalf("open local: %v", err)
	}
	return store.NewFallback(store.NewRemote(db), local)
}

func newServices(t *testing.T) (*store.Fallback, *services.CartService, *services.OrderService) {
	t.Helper()
	st := newStore(t)
	cartSvc := services.NewCartService(st.Local(), st)
	orderSvc := services.NewOrderService(st, cartSvc)
	return st, cartSvc, orderSvc
}

func student() *domain.User {
	return &domain.User{ID: "u-basico", Email: "usuario@ciclobasico.com", Role: domain.RoleCicloBasico, IsActive: true}
}

func staff() *domain.User {
	return &domain.User{ID: "u-kiosquero", Email: "usuario@kiosquero.com", Role: domain.RoleKiosquero, IsActive: true}
}

func TestOrderFlow_AddAndPlace(t *testing.T) {
	st, cartSvc, orderSvc := newServices(t)
	sid := "sess-flow"

	cust := &domain.Customization{
		Ingredients: []string{"lechuga", "tomate"},
		Condiments:  []string{"sal", "aceite"},
	}
	if _, err := cartSvc.Add(sid, "ens-mixta", 2, cust); err != nil {
		t.Fatal(err)
	}
	if _, err := cartSvc.Add(sid, "tos-jyq", 1, nil); err != nil {
		t.Fatal(err)
	}

	order, err := orderSvc.Place(sid, student(), "11:55", domain.PayTarjeta, "sin cebolla")
	if err != nil {
		t.Fatal(err)
	}
	if order.ID != "ORD-000001" {
		t.Fatalf("want first sequential id ORD-000001, got %s", order.ID)
	}
	if order.TotalAmount != 2*850+650 {
		t.Fatalf("want frozen total 2350, got %d", order.TotalAmount)
	}
	if order.Status != domain.StatusPendiente {
		t.Fatalf("new order should be pendiente, got %s", order.Status)
	}

	// cart cleared exactly once
	cart, err := cartSvc.View(sid)
	if err != nil {
		t.Fatal(err)
	}
	if !cart.Empty() {
		t.Fatalf("cart should be empty after checkout, got %d lines", len(cart.Items))
	}

	// stock decremented per ordered quantity
	p, err := st.GetProduct("ens-mixta")
	if err != nil {
		t.Fatal(err)
	}
	if p.StockQuantity != 18 {
		t.Fatalf("want stock 20-2=18, got %d", p.StockQuantity)
	}

	// order retrievable with its item snapshot
	got, err := orderSvc.Get(order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Items) != 2 {
		t.Fatalf("want 2 lines on stored order, got %d", len(got.Items))
	}
}

func TestPlaceEmptyCartRejected(t *testing.T) {
	st, _, orderSvc := newServices(t)

	_, err := orderSvc.Place("sess-empty", student(), "11:55", domain.PayEfectivo, "")
	if !errors.Is(err, services.ErrEmptyCart) {
		t.Fatalf("want ErrEmptyCart, got %v", err)
	}

	orders, err := st.ListOrdersByUser("u-basico")
	if err != nil {
		t.Fatal(err)
	}
	if len(orders) != 0 {
		t.Fatalf("no order should exist after a rejected checkout, got %d", len(orders))
	}
}

func TestPlaceSlotOutsideCycleRejected(t *testing.T) {
	_, cartSvc, orderSvc := newServices(t)
	sid := "sess-slot"
	if _, err := cartSvc.Add(sid, "beb-agua", 1, nil); err != nil {
		t.Fatal(err)
	}

	// 17:15 belongs to ciclo superior only
	if _, err := orderSvc.Place(sid, student(), "17:15", domain.PayTarjeta, ""); !errors.Is(err, services.ErrInvalidSlot) {
		t.Fatalf("want ErrInvalidSlot, got %v", err)
	}

	superior := &domain.User{ID: "u-superior", Role: domain.RoleCicloSuperior, IsActive: true}
	if _, err := orderSvc.Place(sid, superior, "17:15", domain.PayTarjeta, ""); err != nil {
		t.Fatalf("17:15 should be valid for ciclo superior: %v", err)
	}
}

func TestPlaceStaffRejected(t *testing.T) {
	_, cartSvc, orderSvc := newServices(t)
	sid := "sess-staff"
	if _, err := cartSvc.Add(sid, "beb-cola", 1, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := orderSvc.Place(sid, staff(), "11:55", domain.PayEfectivo, ""); !errors.Is(err, services.ErrNotStudent) {
		t.Fatalf("want ErrNotStudent, got %v", err)
	}
}

func TestCartRejectsBadCustomization(t *testing.T) {
	_, cartSvc, _ := newServices(t)

	// tostado is not customizable
	if _, err := cartSvc.Add("s1", "tos-jyq", 1, &domain.Customization{Ingredients: []string{"jamón"}}); !errors.Is(err, services.ErrNotCustomizable) {
		t.Fatalf("want ErrNotCustomizable, got %v", err)
	}
	// ingredient outside the product's list
	if _, err := cartSvc.Add("s1", "ens-mixta", 1, &domain.Customization{Ingredients: []string{"palta"}}); err == nil {
		t.Fatal("unknown ingredient should be rejected")
	}
	// condiment outside the fixed list
	if _, err := cartSvc.Add("s1", "ens-mixta", 1, &domain.Customization{Condiments: []string{"ketchup"}}); err == nil {
		t.Fatal("unknown condiment should be rejected")
	}
}

func TestAdvanceAndCancel(t *testing.T) {
	_, cartSvc, orderSvc := newServices(t)
	sid := "sess-adv"
	if _, err := cartSvc.Add(sid, "emp-carne", 2, nil); err != nil {
		t.Fatal(err)
	}
	order, err := orderSvc.Place(sid, student(), "9:35", domain.PayMercadoPago, "")
	if err != nil {
		t.Fatal(err)
	}

	// students cannot run the board
	if _, err := orderSvc.Advance(student(), order.ID); !errors.Is(err, services.ErrNotStaff) {
		t.Fatalf("want ErrNotStaff, got %v", err)
	}

	want := []domain.OrderStatus{domain.StatusPreparing, domain.StatusListo, domain.StatusEntregado}
	for _, w := range want {
		o, err := orderSvc.Advance(staff(), order.ID)
		if err != nil {
			t.Fatal(err)
		}
		if o.Status != w {
			t.Fatalf("want %s, got %s", w, o.Status)
		}
	}

	if _, err := orderSvc.Advance(staff(), order.ID); !errors.Is(err, domain.ErrOrderFinal) {
		t.Fatalf("delivered order must not advance, got %v", err)
	}
	if _, err := orderSvc.Cancel(staff(), order.ID); !errors.Is(err, domain.ErrOrderFinal) {
		t.Fatalf("delivered order must not cancel, got %v", err)
	}

	delivered, err := orderSvc.Get(order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if delivered.CompletedAt == "" {
		t.Fatal("delivered order should carry completed_at")
	}
}

func TestCancelOpenOrder(t *testing.T) {
	_, cartSvc, orderSvc := newServices(t)
	sid := "sess-cancel"
	if _, err := cartSvc.Add(sid, "beb-jugo", 1, nil); err != nil {
		t.Fatal(err)
	}
	order, err := orderSvc.Place(sid, student(), "14:55", domain.PayEfectivo, "")
	if err != nil {
		t.Fatal(err)
	}

	o, err := orderSvc.Cancel(staff(), order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if o.Status != domain.StatusCancelado {
		t.Fatalf("want cancelado, got %s", o.Status)
	}
	if _, err := orderSvc.Cancel(staff(), order.ID); !errors.Is(err, domain.ErrOrderFinal) {
		t.Fatalf("second cancel must be rejected, got %v", err)
	}
}

// Stock is decremented without a floor check, so two orders racing over the
// last unit both succeed and the count goes negative.
func TestPlaceOversellsLowStock(t *testing.T) {
	st, cartSvc, orderSvc := newServices(t)
	if err := st.SetStock("beb-jugo", 1, 5); err != nil {
		t.Fatal(err)
	}

	for _, sid := range []string{"sess-a", "sess-b"} {
		if _, err := cartSvc.Add(sid, "beb-jugo", 1, nil); err != nil {
			t.Fatal(err)
		}
		if _, err := orderSvc.Place(sid, student(), "11:55", domain.PayTarjeta, ""); err != nil {
			t.Fatalf("order for %s should succeed regardless of stock: %v", sid, err)
		}
	}

	p, err := st.GetProduct("beb-jugo")
	if err != nil {
		t.Fatal(err)
	}
	if p.StockQuantity != -1 {
		t.Fatalf("want stock -1 after overselling, got %d", p.StockQuantity)
	}
	if p.StockStatus() != "SIN_STOCK" {
		t.Fatalf("want SIN_STOCK, got %s", p.StockStatus())
	}
}

func TestPlaceUpdatesDailyRollup(t *testing.T) {
	st, cartSvc, orderSvc := newServices(t)
	sid := "sess-roll"
	if _, err := cartSvc.Add(sid, "san-milanesa", 1, nil); err != nil {
		t.Fatal(err)
	}
	order, err := orderSvc.Place(sid, student(), "11:55", domain.PayTarjeta, "")
	if err != nil {
		t.Fatal(err)
	}

	date := order.CreatedAt[:10]
	a, err := st.DailyAnalytics(date)
	if err != nil {
		t.Fatal(err)
	}
	if a.TotalOrders != 1 {
		t.Fatalf("want 1 order in roll-up, got %d", a.TotalOrders)
	}
	if a.TotalRevenue != 1200 {
		t.Fatalf("want revenue 1200, got %d", a.TotalRevenue)
	}
	if a.OrdersByStatus["pendiente"] != 1 {
		t.Fatalf("want 1 pendiente in roll-up, got %+v", a.OrdersByStatus)
	}
}
