package repos

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"grocerypos/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
  id, name, price, stock_qty, category,
  COALESCE(image_url,'') AS image_url,
  created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ProductRepo) Get(id int64) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT`+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

// GetByIDs resolves a set of product ids; missing ids are simply absent from
// the result (the stock validator reports those).
func (r *ProductRepo) GetByIDs(ids []int64) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT`+productCols+` FROM products WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	var out []domain.Product
	err = r.db.Select(&out, query, args...)
	return out, err
}

// GetByIDsTx is the transaction-scoped variant checkout uses so the prices it
// snapshots are the ones the same transaction decrements against.
func (r *ProductRepo) GetByIDsTx(tx *sqlx.Tx, ids []int64) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT`+productCols+` FROM products WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	var out []domain.Product
	err = tx.Select(&out, query, args...)
	return out, err
}

// Search lists products filtered by free-text query and category. With
// inStockOnly set, sold-out products are hidden (employee browse).
func (r *ProductRepo) Search(q, category string, inStockOnly bool, limit, offset int) ([]domain.Product, error) {
	where := `1=1`
	args := []any{}
	if inStockOnly {
		where += ` AND stock_qty > 0`
	}
	if q != "" {
		where += ` AND (LOWER(name) LIKE ? OR LOWER(category) LIKE ?)`
		like := "%" + q + "%"
		args = append(args, like, like)
	}
	if category != "" {
		where += ` AND category = ?`
		args = append(args, category)
	}

	query := `SELECT` + productCols + ` FROM products WHERE ` + where + ` ORDER BY name LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var out []domain.Product
	err := r.db.Select(&out, query, args...)
	return out, err
}

// Categories returns the distinct category labels in use.
func (r *ProductRepo) Categories() ([]string, error) {
	var out []string
	err := r.db.Select(&out, `SELECT DISTINCT category FROM products ORDER BY category`)
	return out, err
}

func (r *ProductRepo) Create(name string, price decimal.Decimal, stockQty int, category, imageURL string) (int64, error) {
	res, err := r.db.Exec(`
		INSERT INTO products(name,price,stock_qty,category,image_url,created_at)
		VALUES(?,?,?,?,NULLIF(?,''),CURRENT_TIMESTAMP)
	`, name, price, stockQty, category, imageURL)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *ProductRepo) Update(id int64, name string, price decimal.Decimal, stockQty int, category, imageURL string) error {
	_, err := r.db.Exec(`
		UPDATE products
		SET name=?, price=?, stock_qty=?, category=?, image_url=NULLIF(?,''), updated_at=CURRENT_TIMESTAMP
		WHERE id=?
	`, name, price, stockQty, category, imageURL, id)
	return err
}

func (r *ProductRepo) Delete(id int64) error {
	_, err := r.db.Exec(`DELETE FROM products WHERE id = ?`, id)
	return err
}

// DecrementStockTx atomically subtracts "by" units inside the checkout
// transaction if enough stock exists. Zero rows affected means a concurrent
// checkout won the race; the caller aborts the whole transaction.
func (r *ProductRepo) DecrementStockTx(tx *sqlx.Tx, id int64, by int) error {
	res, err := tx.Exec(`
		UPDATE products
		SET stock_qty = stock_qty - ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND stock_qty >= ?
	`, by, id, by)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("insufficient stock for product %d", id)
	}
	return nil
}

// LowStock lists products at or below the restock threshold.
func (r *ProductRepo) LowStock(limit int) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
		SELECT`+productCols+`
		FROM products
		WHERE stock_qty <= ?
		ORDER BY stock_qty, name
		LIMIT ?
	`, domain.LowStockThreshold, limit)
	return out, err
}

func (r *ProductRepo) Count() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM products`)
	return n, err
}
