package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "kiosco/internal/log"
	"kiosco/internal/store"
	"kiosco/internal/validate"
)

type AdminHandler struct {
	Store *store.Fallback
}

// GET /admin
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true, "remote": h.Store.RemoteAvailable()})
}

// GET /admin/users
func (h *AdminHandler) Users(c *fiber.Ctx) error {
	users, err := h.Store.ListUsers()
	if err != nil {
		applog.Error(c, "admin.users.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load users"})
	}
	return c.JSON(fiber.Map{"users": users})
}

// POST /admin/users/:id/deactivate flags the account, cancels its open
// orders and drops its sessions. User rows are kept for audit.
func (h *AdminHandler) DeactivateUser(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing user id"})
	}
	if err := h.Store.DeactivateUser(id); err != nil {
		applog.Error(c, "admin.users.deactivate.fail", err, map[string]any{"user_id": id})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not deactivate user"})
	}
	applog.Audit(c, "admin.users.deactivate", map[string]any{"user_id": id})
	return c.JSON(fiber.Map{"ok": true})
}
