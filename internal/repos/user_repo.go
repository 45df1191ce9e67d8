package repos

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"grocerypos/internal/domain"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

func (r *UserRepo) ByUsername(username string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
		SELECT id,username,password_hash,role,created_at
		FROM users WHERE LOWER(username)=LOWER(?)
	`, username)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id int64) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT id,username,password_hash,role,created_at FROM users WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) BindSession(sid string, userID int64) error {
	_, err := r.DB.Exec(`INSERT INTO sessions(id,user_id,last_seen)
                          VALUES(?,?,CURRENT_TIMESTAMP)
                          ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id,last_seen=CURRENT_TIMESTAMP`, sid, userID)
	return err
}

func (r *UserRepo) SessionUser(sid string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
      SELECT u.id,u.username,u.password_hash,u.role,u.created_at
      FROM sessions s
      JOIN users u ON u.id=s.user_id
      WHERE s.id=?`, sid)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) UnbindSession(sid string) error {
	_, err := r.DB.Exec(`UPDATE sessions SET user_id=NULL,last_seen=CURRENT_TIMESTAMP WHERE id=?`, sid)
	return err
}

func (r *UserRepo) ListEmployees() ([]domain.User, error) {
	var out []domain.User
	err := r.DB.Select(&out, `
		SELECT id,username,password_hash,role,created_at
		FROM users WHERE role='employee' ORDER BY username
	`)
	return out, err
}

func (r *UserRepo) CreateEmployee(username, hash string) (int64, error) {
	res, err := r.DB.Exec(`
		INSERT INTO users(username,password_hash,role) VALUES(?,?,'employee')
	`, username, hash)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// DeleteEmployee removes an employee account. Admin accounts are never
// deletable through this path; completed orders stay for audit.
func (r *UserRepo) DeleteEmployee(id int64) error {
	res, err := r.DB.Exec(`DELETE FROM users WHERE id=? AND role='employee'`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("user %d is not a deletable employee", id)
	}
	return nil
}

func (r *UserRepo) CountEmployees() (int, error) {
	var n int
	err := r.DB.Get(&n, `SELECT COUNT(*) FROM users WHERE role='employee'`)
	return n, err
}
