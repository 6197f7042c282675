package repos

import (
	"bazaar/internal/domain"

	"github.com/jmoiron/sqlx"
)

type DiscountRepo struct{ db *sqlx.DB }

func NewDiscountRepo(db *sqlx.DB) *DiscountRepo { return &DiscountRepo{db: db} }

const planCols = `id,name,status,discount_type,discount_value,starts_at,ends_at`

// DueForActivation returns scheduled plans whose window contains now.
func (r *DiscountRepo) DueForActivation(now string) ([]domain.DiscountPlan, error) {
	var out []domain.DiscountPlan
	err := r.db.Select(&out, `
	  SELECT `+planCols+` FROM discount_plans
	  WHERE status='scheduled' AND starts_at <= ? AND ends_at > ?
	  ORDER BY starts_at`, now, now)
	return out, err
}

// DueForExpiry returns active plans whose window has closed.
func (r *DiscountRepo) DueForExpiry(now string) ([]domain.DiscountPlan, error) {
	var out []domain.DiscountPlan
	err := r.db.Select(&out, `
	  SELECT `+planCols+` FROM discount_plans
	  WHERE status='active' AND ends_at <= ?
	  ORDER BY ends_at`, now)
	return out, err
}

// Activate marks the plan active and writes the derived discounted_price onto
// every plan product in one transaction.
func (r *DiscountRepo) Activate(plan domain.DiscountPlan) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	type row struct {
		ID    string  `db:"id"`
		Price float64 `db:"price"`
	}
	var prods []row
	if err := tx.Select(&prods, `
	  SELECT p.id, p.price
	  FROM discount_plan_products dp
	  JOIN products p ON p.id = dp.product_id
	  WHERE dp.plan_id = ?`, plan.ID); err != nil {
		return err
	}

	for _, p := range prods {
		if _, err := tx.Exec(`
		  UPDATE products SET discounted_price=?, plan_id=?, updated_at=CURRENT_TIMESTAMP
		  WHERE id=?`, plan.Apply(p.Price), plan.ID, p.ID); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(`UPDATE discount_plans SET status='active' WHERE id=?`, plan.ID); err != nil {
		return err
	}
	return tx.Commit()
}

// Expire rolls the plan's products back to their list price and marks the
// plan expired.
func (r *DiscountRepo) Expire(planID string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
	  UPDATE products SET discounted_price=NULL, plan_id=NULL, updated_at=CURRENT_TIMESTAMP
	  WHERE plan_id=?`, planID); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE discount_plans SET status='expired' WHERE id=?`, planID); err != nil {
		return err
	}
	return tx.Commit()
}

// ---------- Admin CRUD ----------

func (r *DiscountRepo) Create(plan domain.DiscountPlan, productIDs []string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
	  INSERT INTO discount_plans(id,name,status,discount_type,discount_value,starts_at,ends_at)
	  VALUES(?,?,?,?,?,?,?)`,
		plan.ID, plan.Name, domain.PlanScheduled, plan.DiscountType, plan.DiscountValue,
		plan.StartsAt, plan.EndsAt); err != nil {
		return err
	}
	for _, pid := range productIDs {
		if _, err := tx.Exec(`
		  INSERT INTO discount_plan_products(plan_id,product_id) VALUES(?,?)`,
			plan.ID, pid); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *DiscountRepo) List() ([]domain.DiscountPlan, error) {
	var out []domain.DiscountPlan
	err := r.db.Select(&out, `SELECT `+planCols+` FROM discount_plans ORDER BY starts_at DESC`)
	return out, err
}
