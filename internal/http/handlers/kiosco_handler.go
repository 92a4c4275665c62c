package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"kiosco/internal/domain"
	applog "kiosco/internal/log"
	"kiosco/internal/services"
	"kiosco/internal/store"
	"kiosco/internal/validate"
)

// KioscoHandler serves the staff order board and inventory management.
type KioscoHandler struct {
	Order   *services.OrderService
	Catalog *services.CatalogService
	Store   *store.Fallback
}

// GET /kiosco
func (h *KioscoHandler) Dashboard(c *fiber.Ctx) error {
	orders, err := h.Order.Board(25)
	if err != nil {
		applog.Error(c, "kiosco.dashboard.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load orders"})
	}
	return c.JSON(fiber.Map{"orders": orders, "remote": h.Store.RemoteAvailable()})
}

// GET /kiosco/orders
func (h *KioscoHandler) Orders(c *fiber.Ctx) error {
	orders, err := h.Order.Board(100)
	if err != nil {
		applog.Error(c, "kiosco.orders.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load orders"})
	}
	return c.JSON(fiber.Map{"orders": orders})
}

func (h *KioscoHandler) transition(c *fiber.Ctx, do func(*domain.User, string) (domain.Order, error), action string) error {
	u, _ := c.Locals("user").(*domain.User)
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing order id"})
	}
	o, err := do(u, oid)
	if err != nil {
		if errors.Is(err, domain.ErrOrderFinal) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "order already in a final state"})
		}
		applog.Error(c, action+".fail", err, map[string]any{"order_id": oid})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not update order"})
	}
	applog.Audit(c, action, map[string]any{"order_id": o.ID, "status": string(o.Status), "by": u.ID})
	return c.JSON(fiber.Map{"order": o})
}

// POST /kiosco/orders/:id/advance
func (h *KioscoHandler) Advance(c *fiber.Ctx) error {
	return h.transition(c, h.Order.Advance, "kiosco.order.advance")
}

// POST /kiosco/orders/:id/cancel
func (h *KioscoHandler) Cancel(c *fiber.Ctx) error {
	return h.transition(c, h.Order.Cancel, "kiosco.order.cancel")
}

// GET /kiosco/inventory
func (h *KioscoHandler) Inventory(c *fiber.Ctx) error {
	products, err := h.Catalog.Inventory()
	if err != nil {
		applog.Error(c, "kiosco.inventory.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load inventory"})
	}
	type row struct {
		domain.Product
		StockStatus string `json:"stock_status"`
	}
	rows := make([]row, 0, len(products))
	for _, p := range products {
		rows = append(rows, row{Product: p, StockStatus: p.StockStatus()})
	}
	return c.JSON(fiber.Map{"products": rows})
}

func productFromForm(c *fiber.Ctx) (domain.Product, error) {
	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		return domain.Product{}, errors.New("invalid name")
	}
	category, ok := validate.Category(c.FormValue("category"))
	if !ok {
		return domain.Product{}, errors.New("unknown category")
	}
	price, ok := validate.Price(c.FormValue("price"))
	if !ok {
		return domain.Product{}, errors.New("invalid price")
	}
	qty, _ := strconv.Atoi(c.FormValue("stock_quantity"))
	minAlert, _ := strconv.Atoi(c.FormValue("min_stock_alert"))
	if qty < 0 || minAlert < 0 {
		return domain.Product{}, errors.New("invalid stock")
	}

	return domain.Product{
		Name:          name,
		Category:      category,
		Price:         price,
		Description:   validate.Notes(c.FormValue("description")),
		ImageURL:      c.FormValue("image_url"),
		Available:     c.FormValue("available") != "false",
		Customizable:  c.FormValue("customizable") == "true",
		Ingredients:   validate.CSV(c.FormValue("ingredients")),
		StockQuantity: qty,
		MinStockAlert: minAlert,
	}, nil
}

// POST /kiosco/products
func (h *KioscoHandler) CreateProduct(c *fiber.Ctx) error {
	p, err := productFromForm(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	p, err = h.Catalog.SaveProduct(p)
	if err != nil {
		applog.Error(c, "kiosco.product.create.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not save product"})
	}
	applog.Audit(c, "kiosco.product.create", map[string]any{"product_id": p.ID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"product": p})
}

// POST /kiosco/products/:id
func (h *KioscoHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	}
	if _, err := h.Catalog.Product(id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	}
	p, err := productFromForm(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	p.ID = id
	p, err = h.Catalog.SaveProduct(p)
	if err != nil {
		applog.Error(c, "kiosco.product.update.fail", err, map[string]any{"product_id": id})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not save product"})
	}
	applog.Audit(c, "kiosco.product.update", map[string]any{"product_id": id})
	return c.JSON(fiber.Map{"product": p})
}

// POST /kiosco/products/:id/availability
func (h *KioscoHandler) SetAvailability(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	}
	available := c.FormValue("available") == "true"
	if err := h.Catalog.SetAvailability(id, available); err != nil {
		applog.Error(c, "kiosco.availability.fail", err, map[string]any{"product_id": id})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not update availability"})
	}
	applog.Audit(c, "kiosco.availability", map[string]any{"product_id": id, "available": available})
	return c.JSON(fiber.Map{"ok": true})
}

// POST /kiosco/inventory/stock
func (h *KioscoHandler) SetStock(c *fiber.Ctx) error {
	id, okID := validate.ID(c.FormValue("product_id"))
	qty, err1 := strconv.Atoi(c.FormValue("stock_quantity"))
	minAlert, err2 := strconv.Atoi(c.FormValue("min_stock_alert"))
	if !okID || err1 != nil || err2 != nil || qty < 0 || minAlert < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}
	if err := h.Catalog.SetStock(id, qty, minAlert); err != nil {
		applog.Error(c, "kiosco.stock.fail", err, map[string]any{"product_id": id})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not save stock"})
	}
	applog.Audit(c, "kiosco.stock", map[string]any{"product_id": id, "qty": qty, "min_alert": minAlert})
	return c.JSON(fiber.Map{"ok": true})
}

// GET /kiosco/analytics?date=YYYY-MM-DD
func (h *KioscoHandler) Analytics(c *fiber.Ctx) error {
	date := c.Query("date")
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}
	stats, err := h.Store.DailyAnalytics(date)
	if err != nil {
		// No roll-up yet for that day.
		return c.JSON(fiber.Map{"analytics": domain.DailyAnalytics{Date: date, OrdersByStatus: map[string]int{}}})
	}
	return c.JSON(fiber.Map{"analytics": stats})
}
