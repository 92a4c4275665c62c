package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"kiosco/internal/domain"
	applog "kiosco/internal/log"
	"kiosco/internal/services"
	"kiosco/internal/validate"
)

type OrderHandler struct {
	Cart  *services.CartService
	Order *services.OrderService
	Auth  *services.AuthService
}

// POST /orders
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	sid := ensureSID(c)
	u, _ := c.Locals("user").(*domain.User)
	if u == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "login required"})
	}

	slot, ok := validate.Slot(c.FormValue("scheduled_time"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "scheduled_time"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid pickup time"})
	}
	pay, err := domain.ParsePaymentMethod(c.FormValue("payment_method"))
	if err != nil {
		applog.Security(c, "validation.fail", map[string]any{"field": "payment_method"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payment method"})
	}
	notes := validate.Notes(c.FormValue("notes"))

	order, err := h.Order.Place(sid, u, slot, pay, notes)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyCart):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cart is empty"})
		case errors.Is(err, services.ErrInvalidSlot):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "pickup time not offered for your cycle"})
		case errors.Is(err, services.ErrNotStudent):
			applog.Security(c, "order.place.role", map[string]any{"user_id": u.ID, "role": string(u.Role)})
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "only students can place orders"})
		}
		applog.Error(c, "order.place.fail", err, map[string]any{"user_id": u.ID})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not place order"})
	}

	applog.Audit(c, "order.place", map[string]any{
		"order_id": order.ID,
		"user_id":  u.ID,
		"total":    order.TotalAmount,
		"slot":     order.ScheduledTime,
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"order": order})
}

// ownOrStaff decides whether the session's user may see the order.
func ownOrStaff(u *domain.User, o domain.Order) bool {
	if u == nil {
		return false
	}
	return u.ID == o.UserID || u.Role.Staff()
}

// GET /orders/:id
func (h *OrderHandler) View(c *fiber.Ctx) error {
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
	}
	o, err := h.Order.Get(oid)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
	}
	u, _ := c.Locals("user").(*domain.User)
	if !ownOrStaff(u, o) {
		applog.Security(c, "access.denied.order", map[string]any{"order_id": oid})
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
	}
	return c.JSON(fiber.Map{"order": o})
}

// GET /orders
func (h *OrderHandler) History(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	if u == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "login required"})
	}
	orders, err := h.Order.History(u.ID)
	if err != nil {
		applog.Error(c, "orders.history.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load orders"})
	}
	return c.JSON(fiber.Map{"orders": orders})
}

// GET /orders/:id/receipt renders the printable pickup receipt.
func (h *OrderHandler) Receipt(c *fiber.Ctx) error {
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
	}
	o, err := h.Order.Get(oid)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
	}
	u, _ := c.Locals("user").(*domain.User)
	if !ownOrStaff(u, o) {
		applog.Security(c, "access.denied.receipt", map[string]any{"order_id": oid})
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
	}
	return render(c, "receipt", fiber.Map{"Order": o, "Name": u.Name})
}
