package repos

import (
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"kiosco/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

type productRow struct {
	ID              string `db:"id"`
	Name            string `db:"name"`
	Category        string `db:"category"`
	Price           int    `db:"price"`
	Description     string `db:"description"`
	ImageURL        string `db:"image_url"`
	Available       bool   `db:"is_available"`
	Customizable    bool   `db:"is_customizable"`
	IngredientsJSON string `db:"ingredients_json"`
	StockQuantity   int    `db:"stock_quantity"`
	MinStockAlert   int    `db:"min_stock_alert"`
	CreatedAt       string `db:"created_at"`
	UpdatedAt       string `db:"updated_at"`
}

func (r productRow) toDomain() domain.Product {
	p := domain.Product{
		ID:            r.ID,
		Name:          r.Name,
		Category:      r.Category,
		Price:         r.Price,
		Description:   r.Description,
		ImageURL:      r.ImageURL,
		Available:     r.Available,
		Customizable:  r.Customizable,
		StockQuantity: r.StockQuantity,
		MinStockAlert: r.MinStockAlert,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if r.IngredientsJSON != "" {
		_ = json.Unmarshal([]byte(r.IngredientsJSON), &p.Ingredients)
	}
	return p
}

const productCols = `
  id, name, category, price,
  COALESCE(description,'') AS description,
  COALESCE(image_url,'') AS image_url,
  is_available, is_customizable,
  COALESCE(ingredients_json,'') AS ingredients_json,
  stock_quantity, min_stock_alert,
  created_at, COALESCE(updated_at,'') AS updated_at`

// List filters by name substring and category. onlyAvailable hides products
// toggled off by staff (they are never deleted).
func (r *ProductRepo) List(q, category string, onlyAvailable bool) ([]domain.Product, error) {
	where := `1=1`
	args := []any{}
	if q != "" {
		where += ` AND LOWER(name) LIKE ?`
		args = append(args, "%"+q+"%")
	}
	if category != "" {
		where += ` AND category = ?`
		args = append(args, category)
	}
	if onlyAvailable {
		where += ` AND is_available = 1`
	}

	var rows []productRow
	err := r.db.Select(&rows, `SELECT `+productCols+` FROM products WHERE `+where+` ORDER BY category, name`, args...)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var row productRow
	if err := r.db.Get(&row, `SELECT `+productCols+` FROM products WHERE id = ?`, id); err != nil {
		return domain.Product{}, err
	}
	return row.toDomain(), nil
}

// Save inserts or fully replaces a product row.
func (r *ProductRepo) Save(p domain.Product) error {
	var ing any
	if len(p.Ingredients) > 0 {
		b, err := json.Marshal(p.Ingredients)
		if err != nil {
			return err
		}
		ing = string(b)
	}
	_, err := r.db.Exec(`
	  INSERT INTO products
	    (id, name, category, price, description, image_url, is_available, is_customizable,
	     ingredients_json, stock_quantity, min_stock_alert, created_at)
	  VALUES (?,?,?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	  ON CONFLICT(id) DO UPDATE SET
	    name = excluded.name,
	    category = excluded.category,
	    price = excluded.price,
	    description = excluded.description,
	    image_url = excluded.image_url,
	    is_available = excluded.is_available,
	    is_customizable = excluded.is_customizable,
	    ingredients_json = excluded.ingredients_json,
	    stock_quantity = excluded.stock_quantity,
	    min_stock_alert = excluded.min_stock_alert,
	    updated_at = CURRENT_TIMESTAMP
	`, p.ID, p.Name, p.Category, p.Price, p.Description, p.ImageURL,
		p.Available, p.Customizable, ing, p.StockQuantity, p.MinStockAlert)
	return err
}

func (r *ProductRepo) SetAvailability(id string, available bool) error {
	_, err := r.db.Exec(`UPDATE products SET is_available = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		available, id)
	return err
}

func (r *ProductRepo) SetStock(id string, qty, minAlert int) error {
	_, err := r.db.Exec(`
	  UPDATE products SET stock_quantity = ?, min_stock_alert = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	`, qty, minAlert, id)
	return err
}

// DecrementStock subtracts sold units. There is no qty guard here: two
// concurrent orders against the same low-stock product can both succeed and
// drive stock negative.
func (r *ProductRepo) DecrementStock(id string, by int) error {
	_, err := r.db.Exec(`
	  UPDATE products SET stock_quantity = stock_quantity - ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	`, by, id)
	return err
}
