package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "kiosco/internal/log"
	"kiosco/internal/services"
	"kiosco/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

// POST /login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	email, ok := validate.Email(c.FormValue("email"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "email"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid email"})
	}
	password := c.FormValue("password")
	if password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing password"})
	}

	sid := ensureSID(c)
	u, err := h.Auth.Login(sid, email, password)
	if err != nil {
		if errors.Is(err, services.ErrInactive) {
			applog.Security(c, "login.inactive", map[string]any{"email": email})
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "account disabled"})
		}
		applog.Security(c, "login.fail", map[string]any{"email": email})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid email or password"})
	}

	applog.Audit(c, "login.ok", map[string]any{"user_id": u.ID, "role": string(u.Role)})
	return c.JSON(fiber.Map{"user": u, "landing": u.Role.LandingPath()})
}

// POST /logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if sid := c.Cookies("sid"); sid != "" {
		if err := h.Auth.Logout(sid); err != nil {
			applog.Error(c, "logout.fail", err, nil)
		}
	}
	c.ClearCookie("sid")
	return c.JSON(fiber.Map{"ok": true})
}

// GET /me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	u := currentUser(h.Auth, c)
	if u == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "login required"})
	}
	return c.JSON(fiber.Map{"user": u, "landing": u.Role.LandingPath()})
}
