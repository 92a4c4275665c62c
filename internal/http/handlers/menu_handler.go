package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "kiosco/internal/log"
	"kiosco/internal/services"
	"kiosco/internal/validate"
)

type MenuHandler struct {
	Catalog *services.CatalogService
}

// GET /menu?q=&category=
func (h *MenuHandler) List(c *fiber.Ctx) error {
	q := strings.ToLower(strings.TrimSpace(c.Query("q")))
	category := ""
	if raw := c.Query("category"); raw != "" {
		var ok bool
		if category, ok = validate.Category(raw); !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown category"})
		}
	}

	products, err := h.Catalog.Menu(q, category)
	if err != nil {
		applog.Error(c, "menu.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load menu"})
	}
	return c.JSON(fiber.Map{"products": products})
}

// GET /menu/:id
func (h *MenuHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	}
	p, err := h.Catalog.Product(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	}
	return c.JSON(fiber.Map{"product": p})
}
