package repos

import (
	"fmt"

	"bazaar/internal/domain"

	"github.com/jmoiron/sqlx"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// PreparedOrder is one store's slice of a checkout, fully computed by the
// service before the transaction opens.
type PreparedOrder struct {
	Order domain.Order
	Items []domain.OrderItem
}

// CreateBatch persists every order of a checkout in a single transaction:
// order header, system status-history row, line items, a conditional stock
// decrement per line, and the deletion of that store's cart rows. Any failure
// rolls the whole checkout back.
func (r *OrderRepo) CreateBatch(prepared []PreparedOrder) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, po := range prepared {
		o := po.Order
		if _, err := tx.Exec(`
		  INSERT INTO orders(id,customer_id,store_id,city_id,address,total,delivery_price,status,created_at)
		  VALUES(?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)`,
			o.ID, o.CustomerID, o.StoreID, o.CityID, o.Address, o.Total, o.DeliveryPrice, o.Status); err != nil {
			return err
		}
		if _, err := tx.Exec(`
		  INSERT INTO order_status_history(order_id,status,actor) VALUES(?,?,NULL)`,
			o.ID, o.Status); err != nil {
			return err
		}
		for _, it := range po.Items {
			if _, err := tx.Exec(`
			  INSERT INTO order_items(order_id,product_id,qty,price) VALUES(?,?,?,?)`,
				o.ID, it.ProductID, it.Qty, it.Price); err != nil {
				return err
			}
			// Conditional decrement catches a stock race lost since the
			// pre-transaction validation.
			res, err := tx.Exec(`
			  UPDATE products SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP
			  WHERE id = ? AND stock >= ?`, it.Qty, it.ProductID, it.Qty)
			if err != nil {
				return err
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return fmt.Errorf("%w: product %s", domain.ErrInsufficientStock, it.ProductID)
			}
		}
		if _, err := tx.Exec(`
		  DELETE FROM cart_items
		  WHERE customer_id = ?
		    AND product_id IN (SELECT id FROM products WHERE store_id = ?)`,
			o.CustomerID, o.StoreID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ---------- Reads ----------

type OrderItemRow struct {
	ProductID string  `db:"product_id"`
	Title     string  `db:"title"`
	Qty       int     `db:"qty"`
	Price     float64 `db:"price"`
	Subtotal  float64 `db:"subtotal"`
}

// Get loads an order scoped to its customer. Other customers' orders come
// back as sql.ErrNoRows, indistinguishable from absent ones.
func (r *OrderRepo) Get(orderID, customerID string) (domain.Order, []OrderItemRow, error) {
	var o domain.Order
	if err := r.db.Get(&o, `
		SELECT id,customer_id,store_id,city_id,address,total,delivery_price,status,created_at
		FROM orders WHERE id = ? AND customer_id = ?`, orderID, customerID); err != nil {
		return domain.Order{}, nil, err
	}
	items, err := r.Items(orderID)
	if err != nil {
		return domain.Order{}, nil, err
	}
	return o, items, nil
}

// GetAny is the unscoped lookup used by admin views and the payment callback.
func (r *OrderRepo) GetAny(orderID string) (domain.Order, error) {
	var o domain.Order
	err := r.db.Get(&o, `
		SELECT id,customer_id,store_id,city_id,address,total,delivery_price,status,created_at
		FROM orders WHERE id = ?`, orderID)
	return o, err
}

func (r *OrderRepo) Items(orderID string) ([]OrderItemRow, error) {
	var items []OrderItemRow
	err := r.db.Select(&items, `
		SELECT oi.product_id, p.title, oi.qty, oi.price, (oi.qty * oi.price) AS subtotal
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ?
		ORDER BY p.title`, orderID)
	return items, err
}

func (r *OrderRepo) History(orderID string) ([]domain.StatusHistoryEntry, error) {
	var out []domain.StatusHistoryEntry
	err := r.db.Select(&out, `
		SELECT order_id,status,actor,created_at
		FROM order_status_history
		WHERE order_id = ?
		ORDER BY created_at, rowid`, orderID)
	return out, err
}

func (r *OrderRepo) ListByCustomer(customerID string) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.Select(&out, `
		SELECT id,customer_id,store_id,city_id,address,total,delivery_price,status,created_at
		FROM orders
		WHERE customer_id = ?
		ORDER BY datetime(created_at) DESC, id`, customerID)
	return out, err
}

func (r *OrderRepo) ListLatest(limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []domain.Order
	err := r.db.Select(&out, `
		SELECT id,customer_id,store_id,city_id,address,total,delivery_price,status,created_at
		FROM orders
		ORDER BY datetime(created_at) DESC, id
		LIMIT ?`, limit)
	return out, err
}

// UpdateStatus moves an order through the status machine, guarding against a
// concurrent transition with the WHERE status clause, and records who did it.
func (r *OrderRepo) UpdateStatus(orderID, from, to string, actor *string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`UPDATE orders SET status=? WHERE id=? AND status=?`, to, orderID, from)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: order %s no longer in status %s", domain.ErrNotFound, orderID, from)
	}
	if _, err := tx.Exec(`
		INSERT INTO order_status_history(order_id,status,actor) VALUES(?,?,?)`,
		orderID, to, actor); err != nil {
		return err
	}
	return tx.Commit()
}

// ---------- Reporting ----------

type TopProduct struct {
	ProductID string  `db:"product_id"`
	Title     string  `db:"title"`
	Units     int     `db:"units"`
	Revenue   float64 `db:"revenue"`
}

func (r *OrderRepo) CountAndRevenue() (int, float64, error) {
	var row struct {
		N       int     `db:"n"`
		Revenue float64 `db:"revenue"`
	}
	err := r.db.Get(&row, `
		SELECT COUNT(*) AS n, COALESCE(SUM(total),0) AS revenue
		FROM orders WHERE status NOT IN ('cancelled','refunded')`)
	return row.N, row.Revenue, err
}

func (r *OrderRepo) TopProducts(limit int) ([]TopProduct, error) {
	if limit <= 0 {
		limit = 5
	}
	var out []TopProduct
	err := r.db.Select(&out, `
		SELECT oi.product_id, p.title, SUM(oi.qty) AS units, SUM(oi.qty*oi.price) AS revenue
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		JOIN orders o   ON o.id = oi.order_id
		WHERE o.status NOT IN ('cancelled','refunded')
		GROUP BY oi.product_id, p.title
		ORDER BY units DESC, p.title
		LIMIT ?`, limit)
	return out, err
}
