package repos

import (
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"kiosco/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

type orderRow struct {
	ID            string `db:"id"`
	UserID        string `db:"user_id"`
	TotalAmount   int    `db:"total_amount"`
	ScheduledTime string `db:"scheduled_time"`
	PaymentMethod string `db:"payment_method"`
	Status        string `db:"status"`
	Notes         string `db:"notes"`
	UserCycle     string `db:"user_cycle"`
	CreatedAt     string `db:"created_at"`
	UpdatedAt     string `db:"updated_at"`
	CompletedAt   string `db:"completed_at"`
}

func (r orderRow) toDomain() domain.Order {
	return domain.Order{
		ID:            r.ID,
		UserID:        r.UserID,
		TotalAmount:   r.TotalAmount,
		ScheduledTime: r.ScheduledTime,
		PaymentMethod: domain.PaymentMethod(r.PaymentMethod),
		Status:        domain.OrderStatus(r.Status),
		Notes:         r.Notes,
		UserCycle:     domain.Role(r.UserCycle),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		CompletedAt:   r.CompletedAt,
	}
}

type orderItemRow struct {
	ProductID          string `db:"product_id"`
	Name               string `db:"name"`
	Category           string `db:"category"`
	Quantity           int    `db:"quantity"`
	UnitPrice          int    `db:"unit_price"`
	CustomizationsJSON string `db:"customizations_json"`
}

func (r orderItemRow) toDomain() domain.CartItem {
	it := domain.CartItem{
		Product: domain.Product{
			ID:       r.ProductID,
			Name:     r.Name,
			Category: r.Category,
			Price:    r.UnitPrice, // snapshot, not the live price
		},
		Quantity: r.Quantity,
	}
	if r.CustomizationsJSON != "" {
		var cust domain.Customization
		if json.Unmarshal([]byte(r.CustomizationsJSON), &cust) == nil {
			it.Customizations = &cust
		}
	}
	return it
}

const orderCols = `
  id, COALESCE(user_id,'') AS user_id, total_amount, scheduled_time, payment_method, status,
  COALESCE(notes,'') AS notes, COALESCE(user_cycle,'') AS user_cycle,
  created_at, COALESCE(updated_at,'') AS updated_at, COALESCE(completed_at,'') AS completed_at`

// NextID draws from the sequence table. The generator owns uniqueness.
func (r *OrderRepo) NextID() (string, error) {
	res, err := r.db.Exec(`INSERT INTO order_seq DEFAULT VALUES`)
	if err != nil {
		return "", err
	}
	n, err := res.LastInsertId()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ORD-%06d", n), nil
}

// Create persists the order header and its line items in one transaction.
func (r *OrderRepo) Create(o domain.Order) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
	  INSERT INTO orders
	    (id, user_id, total_amount, scheduled_time, payment_method, status, notes, user_cycle, created_at)
	  VALUES (?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, o.ID, o.UserID, o.TotalAmount, o.ScheduledTime, string(o.PaymentMethod),
		string(o.Status), o.Notes, string(o.UserCycle)); err != nil {
		return err
	}

	for _, it := range o.Items {
		cust := ""
		if it.Customizations != nil {
			b, err := json.Marshal(it.Customizations)
			if err != nil {
				return err
			}
			cust = string(b)
		}
		if _, err := tx.Exec(`
		  INSERT INTO order_items(order_id, product_id, quantity, unit_price, customizations_json)
		  VALUES (?,?,?,?,?)
		`, o.ID, it.Product.ID, it.Quantity, it.Product.Price, cust); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *OrderRepo) items(orderID string) ([]domain.CartItem, error) {
	var rows []orderItemRow
	if err := r.db.Select(&rows, `
	  SELECT oi.product_id, p.name, p.category, oi.quantity, oi.unit_price, oi.customizations_json
	  FROM order_items oi
	  JOIN products p ON p.id = oi.product_id
	  WHERE oi.order_id = ?
	  ORDER BY p.name
	`, orderID); err != nil {
		return nil, err
	}
	out := make([]domain.CartItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *OrderRepo) Get(orderID string) (domain.Order, error) {
	var row orderRow
	if err := r.db.Get(&row, `SELECT `+orderCols+` FROM orders WHERE id = ?`, orderID); err != nil {
		return domain.Order{}, err
	}
	o := row.toDomain()
	items, err := r.items(orderID)
	if err != nil {
		return domain.Order{}, err
	}
	o.Items = items
	return o, nil
}

func (r *OrderRepo) hydrate(rows []orderRow) ([]domain.Order, error) {
	out := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		o := row.toDomain()
		items, err := r.items(o.ID)
		if err != nil {
			return nil, err
		}
		o.Items = items
		out = append(out, o)
	}
	return out, nil
}

func (r *OrderRepo) ListByUser(userID string) ([]domain.Order, error) {
	var rows []orderRow
	if err := r.db.Select(&rows, `
	  SELECT `+orderCols+` FROM orders WHERE user_id = ? ORDER BY datetime(created_at) DESC
	`, userID); err != nil {
		return nil, err
	}
	return r.hydrate(rows)
}

func (r *OrderRepo) ListLatest(limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []orderRow
	if err := r.db.Select(&rows, `
	  SELECT `+orderCols+` FROM orders ORDER BY datetime(created_at) DESC LIMIT ?
	`, limit); err != nil {
		return nil, err
	}
	return r.hydrate(rows)
}

// UpdateStatus writes the new status and stamps completed_at when the order
// reaches a terminal state. Transition legality is the service's job.
func (r *OrderRepo) UpdateStatus(id string, status domain.OrderStatus) error {
	if status.Terminal() {
		_, err := r.db.Exec(`
		  UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP, completed_at = CURRENT_TIMESTAMP
		  WHERE id = ?
		`, string(status), id)
		return err
	}
	_, err := r.db.Exec(`
	  UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, string(status), id)
	return err
}

// CancelOpenByUser cancels every non-terminal order a user still has. Used
// when an account is deactivated.
func (r *OrderRepo) CancelOpenByUser(userID string) error {
	_, err := r.db.Exec(`
	  UPDATE orders
	  SET status = 'cancelado', updated_at = CURRENT_TIMESTAMP, completed_at = CURRENT_TIMESTAMP
	  WHERE user_id = ? AND status NOT IN ('entregado','cancelado')
	`, userID)
	return err
}
