package repos

import (
	"github.com/jmoiron/sqlx"

	"kiosco/internal/domain"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

type userRow struct {
	ID       string `db:"id"`
	Email    string `db:"email"`
	Name     string `db:"name"`
	Hash     string `db:"password_hash"`
	Role     string `db:"role"`
	IsActive bool   `db:"is_active"`
}

func (r userRow) toDomain() *domain.User {
	return &domain.User{
		ID:       r.ID,
		Email:    r.Email,
		Name:     r.Name,
		Hash:     r.Hash,
		Role:     domain.Role(r.Role),
		IsActive: r.IsActive,
	}
}

const userCols = `id, email, name, password_hash, role, is_active`

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u userRow
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return u.toDomain(), nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u userRow
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return u.toDomain(), nil
}

func (r *UserRepo) BindSession(sid, userID string) error {
	_, err := r.DB.Exec(`INSERT INTO sessions(id,user_id,last_seen)
                          VALUES(?,?,CURRENT_TIMESTAMP)
                          ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id,last_seen=CURRENT_TIMESTAMP`, sid, userID)
	return err
}

func (r *UserRepo) SessionUser(sid string) (*domain.User, error) {
	var u userRow
	err := r.DB.Get(&u, `
      SELECT u.id,u.email,u.name,u.password_hash,u.role,u.is_active
      FROM sessions s
      JOIN users u ON u.id=s.user_id
      WHERE s.id=?`, sid)
	if err != nil {
		return nil, err
	}
	return u.toDomain(), nil
}

func (r *UserRepo) UnbindSession(sid string) error {
	_, err := r.DB.Exec(`UPDATE sessions SET user_id=NULL,last_seen=CURRENT_TIMESTAMP WHERE id=?`, sid)
	return err
}

// List returns non-admin accounts for the admin users page.
func (r *UserRepo) List() ([]domain.User, error) {
	var rows []userRow
	if err := r.DB.Select(&rows, `SELECT `+userCols+` FROM users WHERE role != 'admin' ORDER BY email`); err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row.toDomain())
	}
	return out, nil
}

// DeactivateCascade flags the account inactive, cancels its open orders and
// unbinds its sessions. Rows are kept for audit; nothing is deleted.
func (r *UserRepo) DeactivateCascade(userID string) error {
	tx, err := r.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
	  UPDATE orders
	  SET status='cancelado', updated_at=CURRENT_TIMESTAMP, completed_at=CURRENT_TIMESTAMP
	  WHERE user_id=? AND status NOT IN ('entregado','cancelado')
	`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE sessions SET user_id=NULL WHERE user_id=?`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(`
	  UPDATE users SET is_active=0, updated_at=CURRENT_TIMESTAMP WHERE id=?
	`, userID); err != nil {
		return err
	}

	return tx.Commit()
}
