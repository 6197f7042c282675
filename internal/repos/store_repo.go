package repos

import (
	"bazaar/internal/domain"

	"github.com/jmoiron/sqlx"
)

type StoreRepo struct{ db *sqlx.DB }

func NewStoreRepo(db *sqlx.DB) *StoreRepo { return &StoreRepo{db: db} }

func (r *StoreRepo) Get(id string) (domain.Store, error) {
	var s domain.Store
	err := r.db.Get(&s, `SELECT id,name,type,created_at FROM stores WHERE id=?`, id)
	return s, err
}

func (r *StoreRepo) List() ([]domain.Store, error) {
	var out []domain.Store
	err := r.db.Select(&out, `SELECT id,name,type,created_at FROM stores ORDER BY name`)
	return out, err
}

// DeliveryPrice looks up the city-store matrix. A missing row means the store
// ships there for free, so 0 and no error.
func (r *StoreRepo) DeliveryPrice(storeID, cityID string) (float64, error) {
	var price float64
	err := r.db.Get(&price, `SELECT price FROM city_store_delivery WHERE store_id=? AND city_id=?`,
		storeID, cityID)
	if err != nil {
		if isNoRows(err) {
			return 0, nil
		}
		return 0, err
	}
	return price, nil
}

func (r *StoreRepo) CityExists(cityID string) (bool, error) {
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(*) FROM cities WHERE id=?`, cityID); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *StoreRepo) ListCities() ([]domain.City, error) {
	var out []domain.City
	err := r.db.Select(&out, `SELECT id,name FROM cities ORDER BY name`)
	return out, err
}

// Owners returns the customers who own a store, for order notifications.
func (r *StoreRepo) Owners(storeID string) ([]domain.Customer, error) {
	var out []domain.Customer
	err := r.db.Select(&out, `
	  SELECT c.id,c.email,c.name,c.password_hash,c.role,c.telegram_chat_id,c.telegram_link_code,c.created_at
	  FROM store_owners so
	  JOIN customers c ON c.id = so.customer_id
	  WHERE so.store_id = ?
	  ORDER BY c.id`, storeID)
	return out, err
}
