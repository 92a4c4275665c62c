package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	html "github.com/gofiber/template/html/v2"

	"kiosco/internal/http/handlers"
	"kiosco/internal/repos"
	"kiosco/internal/services"
	"kiosco/internal/store"
)

// newApp wires the handler stack over an in-memory relational store and a
// throwaway local snapshot. Rate limiting and CSRF are exercised in the
// auth tests; the API tests run without them.
func newApp(t *testing.T) (*fiber.App, *store.Fallback) {
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
	st := store.NewFallback(store.NewRemote(db), local)
	authSvc := &services.AuthService{Store: st}
	deps := handlers.NewDeps(st, authSvc)

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})

	app.Post("/login", deps.AuthHandler.Login)
	app.Post("/logout", deps.AuthHandler.Logout)
	app.Get("/me", deps.AuthHandler.Me)

	app.Get("/menu", deps.MenuHandler.List)
	app.Get("/menu/:id", deps.MenuHandler.Detail)

	app.Get("/cart", deps.CartHandler.View)
	app.Post("/cart", deps.CartHandler.Add)
	app.Post("/cart/quantity", deps.CartHandler.SetQuantity)

	app.Post("/orders", handlers.RequireUser(authSvc), deps.OrderHandler.Place)
	app.Get("/orders", handlers.RequireUser(authSvc), deps.OrderHandler.History)
	app.Get("/orders/:id", handlers.RequireUser(authSvc), deps.OrderHandler.View)
	app.Get("/orders/:id/receipt", handlers.RequireUser(authSvc), deps.OrderHandler.Receipt)

	kiosco := app.Group("/kiosco", handlers.RequireStaff(authSvc))
	kiosco.Get("/orders", deps.KioscoHandler.Orders)
	kiosco.Post("/orders/:id/advance", deps.KioscoHandler.Advance)
	kiosco.Post("/orders/:id/cancel", deps.KioscoHandler.Cancel)
	kiosco.Get("/inventory", deps.KioscoHandler.Inventory)
	kiosco.Post("/inventory/stock", deps.KioscoHandler.SetStock)
	kiosco.Post("/products", deps.KioscoHandler.CreateProduct)
	kiosco.Post("/products/:id", deps.KioscoHandler.UpdateProduct)
	kiosco.Post("/products/:id/availability", deps.KioscoHandler.SetAvailability)
	kiosco.Get("/analytics", deps.KioscoHandler.Analytics)

	admin := app.Group("/admin", handlers.RequireAdmin(authSvc))
	admin.Get("/users", deps.AdminHandler.Users)
	admin.Post("/users/:id/deactivate", deps.AdminHandler.DeactivateUser)

	return app, st
}

func do(t *testing.T, app *fiber.App, method, path, sid string, form url.Values) *http.Response {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := app.Test(req, 10_000)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("bad json %q: %v", b, err)
	}
	return out
}

func sidCookie(resp *http.Response) string {
	for _, c := range resp.Cookies() {
		if c.Name == "sid" {
			return c.Value
		}
	}
	return ""
}

// login authenticates one of the demo accounts and returns the session id.
func login(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	resp := do(t, app, "POST", "/login", "", url.Values{
		"email":    {email},
		"password": {"demo123"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d", email, resp.StatusCode)
	}
	sid := sidCookie(resp)
	if sid == "" {
		t.Fatal("login did not set a session cookie")
	}
	return sid
}

func TestOrderPlacementOverHTTP(t *testing.T) {
	app, _ := newApp(t)
	sid := login(t, app, "usuario@ciclobasico.com")

	resp := do(t, app, "POST", "/cart", sid, url.Values{
		"product_id":  {"ens-mixta"},
		"qty":         {"2"},
		"ingredients": {"lechuga,tomate"},
		"condiments":  {"sal"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cart add: status %d", resp.StatusCode)
	}
	cart := decode(t, resp)
	if cart["total_amount"].(float64) != 1700 {
		t.Fatalf("want cart total 1700, got %v", cart["total_amount"])
	}

	resp = do(t, app, "POST", "/orders", sid, url.Values{
		"scheduled_time": {"11:55"},
		"payment_method": {"tarjeta"},
		"notes":          {"sin cebolla"},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("place: status %d", resp.StatusCode)
	}
	body := decode(t, resp)
	order := body["order"].(map[string]any)
	oid := order["id"].(string)
	if !strings.HasPrefix(oid, "ORD-") {
		t.Fatalf("bad order id %q", oid)
	}
	if order["total_amount"].(float64) != 1700 {
		t.Fatalf("want order total 1700, got %v", order["total_amount"])
	}

	// cart is empty afterwards
	resp = do(t, app, "GET", "/cart", sid, nil)
	if got := decode(t, resp)["total_items"].(float64); got != 0 {
		t.Fatalf("cart should be empty after checkout, got %v items", got)
	}

	// history shows the order
	resp = do(t, app, "GET", "/orders", sid, nil)
	orders := decode(t, resp)["orders"].([]any)
	if len(orders) != 1 {
		t.Fatalf("want 1 order in history, got %d", len(orders))
	}

	// receipt renders HTML with the order id
	resp = do(t, app, "GET", "/orders/"+oid+"/receipt", sid, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("receipt: status %d", resp.StatusCode)
	}
	page, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(page), oid) {
		t.Fatal("receipt should include the order id")
	}
}

func TestPlaceRequiresLogin(t *testing.T) {
	app, _ := newApp(t)
	resp := do(t, app, "POST", "/orders", "", url.Values{
		"scheduled_time": {"11:55"},
		"payment_method": {"tarjeta"},
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("want 401 without a session, got %d", resp.StatusCode)
	}
}

func TestPlaceValidatesInput(t *testing.T) {
	app, _ := newApp(t)
	sid := login(t, app, "usuario@ciclobasico.com")
	do(t, app, "POST", "/cart", sid, url.Values{"product_id": {"beb-agua"}, "qty": {"1"}})

	// malformed slot
	resp := do(t, app, "POST", "/orders", sid, url.Values{
		"scheduled_time": {"later"},
		"payment_method": {"tarjeta"},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400 for bad slot, got %d", resp.StatusCode)
	}

	// unknown payment method
	resp = do(t, app, "POST", "/orders", sid, url.Values{
		"scheduled_time": {"11:55"},
		"payment_method": {"cheque"},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400 for bad payment method, got %d", resp.StatusCode)
	}

	// empty cart after clearing: place on another session
	other := login(t, app, "usuario@ciclosuperior.com")
	resp = do(t, app, "POST", "/orders", other, url.Values{
		"scheduled_time": {"17:15"},
		"payment_method": {"efectivo"},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400 for empty cart, got %d", resp.StatusCode)
	}
}

func TestOrderHiddenFromOtherStudents(t *testing.T) {
	app, _ := newApp(t)
	sid := login(t, app, "usuario@ciclobasico.com")
	do(t, app, "POST", "/cart", sid, url.Values{"product_id": {"emp-carne"}, "qty": {"1"}})
	resp := do(t, app, "POST", "/orders", sid, url.Values{
		"scheduled_time": {"9:35"},
		"payment_method": {"efectivo"},
	})
	oid := decode(t, resp)["order"].(map[string]any)["id"].(string)

	other := login(t, app, "usuario@ciclosuperior.com")
	resp = do(t, app, "GET", "/orders/"+oid, other, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("another student should get 404, got %d", resp.StatusCode)
	}

	// staff can see it
	kiosquero := login(t, app, "usuario@kiosquero.com")
	resp = do(t, app, "GET", "/orders/"+oid, kiosquero, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("staff should see any order, got %d", resp.StatusCode)
	}
}

func TestCartUnknownProduct(t *testing.T) {
	app, _ := newApp(t)
	resp := do(t, app, "POST", "/cart", "", url.Values{"product_id": {"no-such"}, "qty": {"1"}})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("want 404 for unknown product, got %d", resp.StatusCode)
	}
}
