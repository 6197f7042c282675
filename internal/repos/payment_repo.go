package repos

import "github.com/jmoiron/sqlx"

type PaymentRepo struct{ db *sqlx.DB }

func NewPaymentRepo(db *sqlx.DB) *PaymentRepo { return &PaymentRepo{db: db} }

func (r *PaymentRepo) Record(orderID, tranRef string, amount float64) error {
	_, err := r.db.Exec(`
	  INSERT INTO payments(order_id,tran_ref,amount,state)
	  VALUES(?,?,?,'requested')
	  ON CONFLICT(order_id,tran_ref) DO NOTHING`, orderID, tranRef, amount)
	return err
}

func (r *PaymentRepo) SetState(orderID, tranRef, state string) error {
	_, err := r.db.Exec(`UPDATE payments SET state=? WHERE order_id=? AND tran_ref=?`,
		state, orderID, tranRef)
	return err
}

func (r *PaymentRepo) OrderByTranRef(tranRef string) (string, error) {
	var orderID string
	err := r.db.Get(&orderID, `SELECT order_id FROM payments WHERE tran_ref=?`, tranRef)
	return orderID, err
}
