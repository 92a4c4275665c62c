package repos

import (
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"kiosco/internal/domain"
)

// AnalyticsRepo maintains the daily_analytics roll-up. The aggregation runs
// as a stored-procedure-style call against the orders table.
type AnalyticsRepo struct{ db *sqlx.DB }

func NewAnalyticsRepo(db *sqlx.DB) *AnalyticsRepo { return &AnalyticsRepo{db: db} }

// Update recomputes the roll-up for the given date (YYYY-MM-DD) from the
// orders created that day and upserts the result.
func (r *AnalyticsRepo) Update(date string) error {
	var totals struct {
		Orders  int `db:"n"`
		Revenue int `db:"revenue"`
	}
	if err := r.db.Get(&totals, `
	  SELECT COUNT(*) AS n, COALESCE(SUM(total_amount),0) AS revenue
	  FROM orders WHERE date(created_at) = ?
	`, date); err != nil {
		return err
	}

	var byStatus []struct {
		Status string `db:"status"`
		N      int    `db:"n"`
	}
	if err := r.db.Select(&byStatus, `
	  SELECT status, COUNT(*) AS n FROM orders WHERE date(created_at) = ? GROUP BY status
	`, date); err != nil {
		return err
	}
	m := map[string]int{}
	for _, row := range byStatus {
		m[row.Status] = row.N
	}
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`
	  INSERT INTO daily_analytics(date, total_orders, total_revenue, orders_by_status, updated_at)
	  VALUES (?,?,?,?,CURRENT_TIMESTAMP)
	  ON CONFLICT(date) DO UPDATE SET
	    total_orders = excluded.total_orders,
	    total_revenue = excluded.total_revenue,
	    orders_by_status = excluded.orders_by_status,
	    updated_at = CURRENT_TIMESTAMP
	`, date, totals.Orders, totals.Revenue, string(b))
	return err
}

func (r *AnalyticsRepo) Get(date string) (domain.DailyAnalytics, error) {
	var row struct {
		Date           string `db:"date"`
		TotalOrders    int    `db:"total_orders"`
		TotalRevenue   int    `db:"total_revenue"`
		OrdersByStatus string `db:"orders_by_status"`
	}
	if err := r.db.Get(&row, `
	  SELECT date, total_orders, total_revenue, orders_by_status
	  FROM daily_analytics WHERE date = ?
	`, date); err != nil {
		return domain.DailyAnalytics{}, err
	}
	out := domain.DailyAnalytics{
		Date:         row.Date,
		TotalOrders:  row.TotalOrders,
		TotalRevenue: row.TotalRevenue,
	}
	_ = json.Unmarshal([]byte(row.OrdersByStatus), &out.OrdersByStatus)
	return out, nil
}
