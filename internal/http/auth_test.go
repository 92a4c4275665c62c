package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"golang.org/x/crypto/bcrypt"

	"kiosco/internal/http/handlers"
	"kiosco/internal/repos"
	"kiosco/internal/services"
	"kiosco/internal/store"
)

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// Seeded demo passwords must be stored hashed, never plaintext.
func TestDemoPasswordsSeededAreHashed(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	var hashes []string
	if err := db.Select(&hashes, `SELECT password_hash FROM users`); err != nil {
		t.Fatalf("select hashes: %v", err)
	}
	if len(hashes) != 4 {
		t.Fatalf("want 4 demo accounts, got %d", len(hashes))
	}
	for _, h := range hashes {
		if strings.Contains(h, "demo123") {
			t.Fatal("hash contains plaintext password")
		}
		if !strings.HasPrefix(h, "$2") {
			t.Fatalf("unexpected hash format: %s", h)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(h), []byte("demo123")); err != nil {
			t.Fatalf("seed hash does not validate known password: %v", err)
		}
	}
}

// Login success/fail paths plus the per-route throttle, behind real CSRF.
func TestLoginSuccessFailAndThrottle(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	st := store.NewFallback(store.NewRemote(db), nil)
	// carts never hit this app, so a nil local store is fine here
	authSvc := &services.AuthService{Store: st}
	authH := &handlers.AuthHandler{Auth: authSvc}

	app := fiber.New()
	app.Use(csrf.New(csrf.Config{KeyLookup: "form:csrf", CookieName: "csrf_", CookieSameSite: "Lax"}))
	app.Get("/login", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"demo": false}) })
	app.Post("/login", limiter.New(limiter.Config{Max: 2, Expiration: time.Minute}), authH.Login)

	// fetch csrf token
	respLogin, _ := app.Test(httptest.NewRequest("GET", "/login", nil))
	csrfTok := extractCookie(respLogin, "csrf_")
	if csrfTok == "" {
		t.Fatal("csrf token missing")
	}

	post := func(password string) *http.Response {
		form := strings.NewReader("csrf=" + csrfTok + "&email=usuario%40ciclobasico.com&password=" + password)
		req := httptest.NewRequest("POST", "/login", form)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(&http.Cookie{Name: "csrf_", Value: csrfTok})
		resp, err := app.Test(req, 10_000)
		if err != nil {
			t.Fatal(err)
		}
		return resp
	}

	// bad password -> 401
	if resp := post("wrongpass"); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad creds, got %d", resp.StatusCode)
	}

	// good password -> 200 with landing for the role
	respGood := post("demo123")
	if respGood.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on success, got %d", respGood.StatusCode)
	}
	body := decode(t, respGood)
	if body["landing"] != "/menu" {
		t.Fatalf("student should land on /menu, got %v", body["landing"])
	}
	if extractCookie(respGood, "sid") == "" {
		t.Fatal("login did not bind a session")
	}

	// throttle after 2 attempts
	if resp := post("wrongpass"); resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after throttle, got %d", resp.StatusCode)
	}
}

// A missing CSRF token must be rejected before the handler runs.
func TestLoginRejectsMissingCSRF(t *testing.T) {
	app := fiber.New()
	app.Use(csrf.New(csrf.Config{KeyLookup: "form:csrf", CookieName: "csrf_", CookieSameSite: "Lax"}))
	app.Post("/login", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })

	form := strings.NewReader("email=usuario@ciclobasico.com&password=demo123")
	req := httptest.NewRequest("POST", "/login", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 without csrf, got %d", resp.StatusCode)
	}
}

func TestDeactivatedAccountCannotLogin(t *testing.T) {
	app, st := newApp(t)

	admin := login(t, app, "usuario@admin.com")
	resp := do(t, app, "POST", "/admin/users/u-basico/deactivate", admin, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("deactivate: status %d", resp.StatusCode)
	}

	resp = do(t, app, "POST", "/login", "", map[string][]string{
		"email":    {"usuario@ciclobasico.com"},
		"password": {"demo123"},
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("disabled account should get 403, got %d", resp.StatusCode)
	}

	u, err := st.UserByEmail("usuario@ciclobasico.com")
	if err != nil {
		t.Fatal(err)
	}
	if u.IsActive {
		t.Fatal("account should be inactive")
	}
}

func TestLogoutDropsSession(t *testing.T) {
	app, _ := newApp(t)
	sid := login(t, app, "usuario@ciclobasico.com")

	if resp := do(t, app, "GET", "/me", sid, nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("me before logout: status %d", resp.StatusCode)
	}
	if resp := do(t, app, "POST", "/logout", sid, nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("logout: status %d", resp.StatusCode)
	}
	if resp := do(t, app, "GET", "/me", sid, nil); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("me after logout should be 401, got %d", resp.StatusCode)
	}
}
