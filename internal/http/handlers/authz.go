package handlers

import (
	"github.com/gofiber/fiber/v2"

	"kiosco/internal/domain"
	applog "kiosco/internal/log"
	"kiosco/internal/services"
)

func currentUser(auth *services.AuthService, c *fiber.Ctx) *domain.User {
	sid := c.Cookies("sid")
	if sid == "" {
		return nil
	}
	u, err := auth.CurrentUser(sid)
	if err != nil {
		return nil
	}
	return u
}

// RequireUser enforces a logged-in session.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := currentUser(auth, c)
		if u == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "login required"})
		}
		c.Locals("user", u)
		return c.Next()
	}
}

// RequireStaff admits kiosquero and admin. Anyone else is redirected to
// their own landing view rather than shown an error.
func RequireStaff(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := currentUser(auth, c)
		if u == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "login required"})
		}
		if !u.Role.Staff() {
			applog.Security(c, "access.denied.kiosco", map[string]any{"user_id": u.ID, "role": string(u.Role)})
			return c.Redirect(u.Role.LandingPath())
		}
		c.Locals("user", u)
		return c.Next()
	}
}

func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := currentUser(auth, c)
		if u == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "login required"})
		}
		if u.Role != domain.RoleAdmin {
			applog.Security(c, "access.denied.admin", map[string]any{"user_id": u.ID, "role": string(u.Role)})
			return c.Redirect(u.Role.LandingPath())
		}
		c.Locals("user", u)
		return c.Next()
	}
}
