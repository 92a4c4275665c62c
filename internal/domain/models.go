package domain

// Categories the menu is organized by.
const (
	CategoryEnsaladas  = "ensaladas"
	CategoryTostados   = "tostados"
	CategorySandwiches = "sandwiches"
	CategoryBebidas    = "bebidas"
	CategoryEmpanadas  = "empanadas"
)

var Categories = []string{
	CategoryEnsaladas,
	CategoryTostados,
	CategorySandwiches,
	CategoryBebidas,
	CategoryEmpanadas,
}

// Condiments is the fixed global list customizable products may carry.
var Condiments = []string{"sal", "aceite", "vinagre", "limón", "orégano", "pimienta"}

type Product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	Price         int      `json:"price"` // integer pesos
	Description   string   `json:"description"`
	ImageURL      string   `json:"image_url"`
	Available     bool     `json:"available"`
	Customizable  bool     `json:"customizable"`
	Ingredients   []string `json:"ingredients,omitempty"`
	StockQuantity int      `json:"stock_quantity"`
	MinStockAlert int      `json:"min_stock_alert"`
	CreatedAt     string   `json:"created_at,omitempty"`
	UpdatedAt     string   `json:"updated_at,omitempty"`
}

// HasIngredient reports whether name is part of the product's ingredient list.
func (p Product) HasIngredient(name string) bool {
	for _, in := range p.Ingredients {
		if in == name {
			return true
		}
	}
	return false
}

// StockStatus classifies current stock against the product's alert threshold.
func (p Product) StockStatus() string {
	switch {
	case p.StockQuantity <= 0:
		return "SIN_STOCK"
	case p.StockQuantity <= p.MinStockAlert:
		return "STOCK_BAJO"
	default:
		return "EN_STOCK"
	}
}

type DailyAnalytics struct {
	Date           string         `json:"date"`
	TotalOrders    int            `json:"total_orders"`
	TotalRevenue   int            `json:"total_revenue"`
	OrdersByStatus map[string]int `json:"orders_by_status"`
}
