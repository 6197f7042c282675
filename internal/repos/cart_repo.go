package repos

import (
	"github.com/jmoiron/sqlx"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

// CartLine is a cart row joined with its product and store, as the order
// placement flow needs it.
type CartLine struct {
	ProductID     string  `db:"product_id"`
	Title         string  `db:"title"`
	StoreID       string  `db:"store_id"`
	StoreName     string  `db:"store_name"`
	StoreType     string  `db:"store_type"`
	ProductStatus string  `db:"product_status"`
	Stock         int     `db:"stock"`
	Qty           int     `db:"qty"`
	Price         float64 `db:"price"` // snapshot at add-time
}

func (l CartLine) Subtotal() float64 { return float64(l.Qty) * l.Price }

// UpsertItem adds a line or bumps the quantity of an existing one. The price
// snapshot of an existing row is kept; only brand-new rows record the price
// passed in.
func (r *CartRepo) UpsertItem(customerID, productID string, qty int, price float64) error {
	_, err := r.db.Exec(`
		INSERT INTO cart_items(customer_id,product_id,qty,price,created_at)
		VALUES(?,?,?,?,CURRENT_TIMESTAMP)
		ON CONFLICT(customer_id,product_id) DO UPDATE
		SET qty = cart_items.qty + excluded.qty, updated_at = CURRENT_TIMESTAMP
	`, customerID, productID, qty, price)
	return err
}

func (r *CartRepo) SetQty(customerID, productID string, qty int) error {
	_, err := r.db.Exec(`
		UPDATE cart_items SET qty=?, updated_at=CURRENT_TIMESTAMP
		WHERE customer_id=? AND product_id=?`, qty, customerID, productID)
	return err
}

func (r *CartRepo) Lines(customerID string) ([]CartLine, error) {
	var out []CartLine
	err := r.db.Select(&out, `
	  SELECT ci.product_id, p.title, p.store_id, s.name AS store_name, s.type AS store_type,
	         p.status AS product_status, p.stock, ci.qty, ci.price
	  FROM cart_items ci
	  JOIN products p ON p.id = ci.product_id
	  JOIN stores s   ON s.id = p.store_id
	  WHERE ci.customer_id = ?
	  ORDER BY ci.created_at, ci.product_id`, customerID)
	return out, err
}

func (r *CartRepo) Remove(customerID, productID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE customer_id=? AND product_id=?`,
		customerID, productID)
	return err
}

func (r *CartRepo) Clear(customerID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE customer_id=?`, customerID)
	return err
}
