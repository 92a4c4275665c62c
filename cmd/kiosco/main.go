package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"kiosco/internal/config"
	"kiosco/internal/domain"
	"kiosco/internal/http/handlers"
	applog "kiosco/internal/log"
	"kiosco/internal/repos"
	"kiosco/internal/services"
	"kiosco/internal/store"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	// Remote store is optional: without DB_DSN every call lands in the
	// local snapshot store (demo mode).
	var remote *store.Remote
	if cfg.DBDSN != "" {
		db, err := repos.OpenDB(cfg.DBDSN)
		if err != nil {
			log.Fatal(err)
		}
		remote = store.NewRemote(db)
	}
	local, err := store.OpenLocal(cfg.LocalStore)
	if err != nil {
		log.Fatal(err)
	}
	st := store.NewFallback(remote, local)

	// Auth wiring
	authSvc := &services.AuthService{Store: st}

	// Templates (receipt) & app
	engine := html.New("./web/templates", ".html")

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Log and answer with a friendly message; never leak internals.
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Something went wrong. Please try again.",
			})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	// Attach user to context if logged in
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	})
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"form": c.FormValue("csrf")})
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Security check failed. Please refresh and try again.",
			})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok := c.Locals("csrf"); tok != nil {
			c.Locals("CSRFToken", tok.(string))
		}
		return c.Next()
	})

	// ---------- App handlers ----------
	deps := handlers.NewDeps(st, authSvc)
	authH := deps.AuthHandler

	// Landing: resolve by role, matching what each role is allowed to see.
	app.Get("/", func(c *fiber.Ctx) error {
		if u, ok := c.Locals("user").(*domain.User); ok && u != nil {
			return c.Redirect(u.Role.LandingPath())
		}
		return c.Redirect("/login")
	})
	app.Get("/login", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"demo": !st.RemoteAvailable()})
	})

	// Auth (login throttled)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many attempts. Please try again later.",
			})
		},
	}), authH.Login)
	app.Post("/logout", authH.Logout)
	app.Get("/me", authH.Me)

	// Menu
	app.Get("/menu", deps.MenuHandler.List)
	app.Get("/menu/:id", deps.MenuHandler.Detail)

	// Cart
	app.Get("/cart", deps.CartHandler.View)
	app.Post("/cart", deps.CartHandler.Add)
	app.Post("/cart/quantity", deps.CartHandler.SetQuantity)
	app.Post("/cart/remove", deps.CartHandler.Remove)
	app.Post("/cart/clear", deps.CartHandler.Clear)

	// Orders
	app.Post("/orders", handlers.RequireUser(authSvc), deps.OrderHandler.Place)
	app.Get("/orders", handlers.RequireUser(authSvc), deps.OrderHandler.History)
	app.Get("/orders/:id", handlers.RequireUser(authSvc), deps.OrderHandler.View)
	app.Get("/orders/:id/receipt", handlers.RequireUser(authSvc), deps.OrderHandler.Receipt)

	// Kiosco staff
	kiosco := app.Group("/kiosco", handlers.RequireStaff(authSvc))
	kiosco.Get("/", deps.KioscoHandler.Dashboard)
	kiosco.Get("/orders", deps.KioscoHandler.Orders)
	kiosco.Post("/orders/:id/advance", deps.KioscoHandler.Advance)
	kiosco.Post("/orders/:id/cancel", deps.KioscoHandler.Cancel)
	kiosco.Get("/inventory", deps.KioscoHandler.Inventory)
	kiosco.Post("/inventory/stock", deps.KioscoHandler.SetStock)
	kiosco.Post("/products", deps.KioscoHandler.CreateProduct)
	kiosco.Post("/products/:id", deps.KioscoHandler.UpdateProduct)
	kiosco.Post("/products/:id/availability", deps.KioscoHandler.SetAvailability)
	kiosco.Get("/analytics", deps.KioscoHandler.Analytics)

	// Admin
	admin := app.Group("/admin", handlers.RequireAdmin(authSvc))
	admin.Get("/", deps.AdminHandler.Dashboard)
	admin.Get("/users", deps.AdminHandler.Users)
	admin.Post("/users/:id/deactivate", deps.AdminHandler.DeactivateUser)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true, "remote": st.RemoteAvailable()})
	})
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
