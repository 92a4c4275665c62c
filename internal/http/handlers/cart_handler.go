package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"kiosco/internal/domain"
	applog "kiosco/internal/log"
	"kiosco/internal/services"
	"kiosco/internal/store"
	"kiosco/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

// customizationFromForm builds the optional customization payload from the
// comma-separated ingredients/condiments form fields.
func customizationFromForm(c *fiber.Ctx) *domain.Customization {
	ingredients := validate.CSV(c.FormValue("ingredients"))
	condiments := validate.CSV(c.FormValue("condiments"))
	if len(ingredients) == 0 && len(condiments) == 0 {
		return nil
	}
	return &domain.Customization{Ingredients: ingredients, Condiments: condiments}
}

func cartJSON(c *fiber.Ctx, cart domain.Cart) error {
	return c.JSON(fiber.Map{
		"items":        cart.Items,
		"total_amount": cart.TotalAmount(),
		"total_items":  cart.TotalItems(),
	})
}

// POST /cart
func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	productID, ok := validate.ID(c.FormValue("product_id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing product_id"})
	}
	qty := validate.Qty(c.FormValue("qty"))

	cart, err := h.Cart.Add(sid, productID, qty, customizationFromForm(c))
	if err != nil {
		if err == store.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
		}
		applog.Security(c, "cart.add.fail", map[string]any{"product_id": productID, "error": err.Error()})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return cartJSON(c, cart)
}

// POST /cart/quantity
func (h *CartHandler) SetQuantity(c *fiber.Ctx) error {
	sid := ensureSID(c)
	productID, ok := validate.ID(c.FormValue("product_id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing product_id"})
	}
	// Unlike Add, zero is meaningful here: it removes the line.
	qty, err := strconv.Atoi(c.FormValue("qty"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid qty"})
	}

	cart, err := h.Cart.SetQuantity(sid, productID, customizationFromForm(c), qty)
	if err != nil {
		applog.Error(c, "cart.quantity.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not update cart"})
	}
	return cartJSON(c, cart)
}

// POST /cart/remove
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	productID, ok := validate.ID(c.FormValue("product_id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing product_id"})
	}
	cart, err := h.Cart.Remove(sid, productID, customizationFromForm(c))
	if err != nil {
		applog.Error(c, "cart.remove.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not update cart"})
	}
	return cartJSON(c, cart)
}

// POST /cart/clear
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	sid := ensureSID(c)
	if err := h.Cart.Clear(sid); err != nil {
		applog.Error(c, "cart.clear.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not clear cart"})
	}
	return cartJSON(c, domain.Cart{})
}

// GET /cart
func (h *CartHandler) View(c *fiber.Ctx) error {
	sid := ensureSID(c)
	cart, err := h.Cart.View(sid)
	if err != nil {
		applog.Error(c, "cart.view.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load cart"})
	}
	return cartJSON(c, cart)
}
