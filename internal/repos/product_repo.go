package repos

import (
	"bazaar/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
    id, store_id, title, COALESCE(description,'') AS description, price, stock,
    status, plan_id, discounted_price, created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

func (r *ProductRepo) ListByStore(storeID string, limit, offset int) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE store_id = ? AND status = 'active'
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?`, storeID, limit, offset)
	return out, err
}

func (r *ProductRepo) Search(q, storeID string, limit, offset int) ([]domain.Product, error) {
	where := `status = 'active'`
	args := []any{}
	if q != "" {
		where += ` AND (LOWER(title) LIKE ? OR LOWER(description) LIKE ?)`
		args = append(args, "%"+q+"%", "%"+q+"%")
	}
	if storeID != "" {
		where += ` AND store_id = ?`
		args = append(args, storeID)
	}
	args = append(args, limit, offset)

	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE `+where+`
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?`, args...)
	return out, err
}

// SetStock is the admin override; customer flows only ever decrement inside
// the order transaction.
func (r *ProductRepo) SetStock(productID string, stock int) error {
	_, err := r.db.Exec(`UPDATE products SET stock=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`,
		stock, productID)
	return err
}
