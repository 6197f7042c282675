package repos

import (
	"bazaar/internal/domain"

	"github.com/jmoiron/sqlx"
)

type WishlistRepo struct{ db *sqlx.DB }

func NewWishlistRepo(db *sqlx.DB) *WishlistRepo { return &WishlistRepo{db: db} }

func (r *WishlistRepo) Add(customerID, productID string) error {
	_, err := r.db.Exec(`
	  INSERT INTO wishlist_items(customer_id, product_id, created_at)
	  VALUES(?, ?, CURRENT_TIMESTAMP)
	  ON CONFLICT(customer_id, product_id) DO NOTHING
	`, customerID, productID)
	return err
}

func (r *WishlistRepo) Remove(customerID, productID string) error {
	_, err := r.db.Exec(`DELETE FROM wishlist_items WHERE customer_id=? AND product_id=?`,
		customerID, productID)
	return err
}

type WishlistRow struct {
	ProductID string  `db:"product_id"`
	Title     string  `db:"title"`
	StoreName string  `db:"store_name"`
	Price     float64 `db:"price"`
	Active    bool    `db:"active"`
}

func (r *WishlistRepo) List(customerID string) ([]WishlistRow, error) {
	var out []WishlistRow
	err := r.db.Select(&out, `
	  SELECT p.id AS product_id, p.title, s.name AS store_name,
	         COALESCE(p.discounted_price, p.price) AS price,
	         (p.status = 'active') AS active
	  FROM wishlist_items wi
	  JOIN products p ON p.id = wi.product_id
	  JOIN stores s   ON s.id = p.store_id
	  WHERE wi.customer_id = ?
	  ORDER BY p.title`, customerID)
	return out, err
}

// ---------- Shares ----------

func (r *WishlistRepo) GetShare(customerID string) (*domain.WishlistShare, error) {
	var sh domain.WishlistShare
	err := r.db.Get(&sh, `
	  SELECT customer_id,share_token,is_active,custom_message,views_count
	  FROM wishlist_shares WHERE customer_id=?`, customerID)
	if err != nil {
		return nil, err
	}
	return &sh, nil
}

func (r *WishlistRepo) CreateShare(customerID, token string) error {
	_, err := r.db.Exec(`
	  INSERT INTO wishlist_shares(customer_id,share_token,is_active) VALUES(?,?,1)`,
		customerID, token)
	return err
}

func (r *WishlistRepo) SetShareToken(customerID, token string) error {
	_, err := r.db.Exec(`UPDATE wishlist_shares SET share_token=? WHERE customer_id=?`,
		token, customerID)
	return err
}

func (r *WishlistRepo) SetShareActive(customerID string, active bool) error {
	_, err := r.db.Exec(`UPDATE wishlist_shares SET is_active=? WHERE customer_id=?`,
		active, customerID)
	return err
}

func (r *WishlistRepo) SetShareMessage(customerID, msg string) error {
	_, err := r.db.Exec(`UPDATE wishlist_shares SET custom_message=? WHERE customer_id=?`,
		msg, customerID)
	return err
}

// ShareByToken resolves an active share only; inactive shares look absent to
// the public while their stored data survives.
func (r *WishlistRepo) ShareByToken(token string) (*domain.WishlistShare, error) {
	var sh domain.WishlistShare
	err := r.db.Get(&sh, `
	  SELECT customer_id,share_token,is_active,custom_message,views_count
	  FROM wishlist_shares WHERE share_token=? AND is_active=1`, token)
	if err != nil {
		return nil, err
	}
	return &sh, nil
}

func (r *WishlistRepo) IncrementViews(token string) error {
	_, err := r.db.Exec(`UPDATE wishlist_shares SET views_count=views_count+1 WHERE share_token=?`, token)
	return err
}
