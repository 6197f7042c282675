package repos

import (
	"bazaar/internal/domain"

	"github.com/jmoiron/sqlx"
)

type CustomerRepo struct{ DB *sqlx.DB }

func NewCustomerRepo(db *sqlx.DB) *CustomerRepo { return &CustomerRepo{DB: db} }

const customerCols = `id,email,name,password_hash,role,telegram_chat_id,telegram_link_code,created_at`

func (r *CustomerRepo) ByEmail(email string) (*domain.Customer, error) {
	var c domain.Customer
	err := r.DB.Get(&c, `SELECT `+customerCols+` FROM customers WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepo) ByID(id string) (*domain.Customer, error) {
	var c domain.Customer
	err := r.DB.Get(&c, `SELECT `+customerCols+` FROM customers WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepo) Create(id, email, name, hash string) error {
	_, err := r.DB.Exec(`INSERT INTO customers(id,email,name,password_hash,role) VALUES(?,?,?,?,'CUSTOMER')`,
		id, email, name, hash)
	return err
}

func (r *CustomerRepo) BindSession(sid, customerID string) error {
	_, err := r.DB.Exec(`INSERT INTO sessions(id,customer_id,last_seen)
                          VALUES(?,?,CURRENT_TIMESTAMP)
                          ON CONFLICT(id) DO UPDATE SET customer_id=excluded.customer_id,last_seen=CURRENT_TIMESTAMP`,
		sid, customerID)
	return err
}

func (r *CustomerRepo) SessionCustomer(sid string) (*domain.Customer, error) {
	var c domain.Customer
	err := r.DB.Get(&c, `
      SELECT c.id,c.email,c.name,c.password_hash,c.role,c.telegram_chat_id,c.telegram_link_code,c.created_at
      FROM sessions s
      JOIN customers c ON c.id=s.customer_id
      WHERE s.id=?`, sid)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepo) UnbindSession(sid string) error {
	_, err := r.DB.Exec(`UPDATE sessions SET customer_id=NULL,last_seen=CURRENT_TIMESTAMP WHERE id=?`, sid)
	return err
}

// SetLinkCode stores a one-time code the customer pastes into the Telegram
// bot to bind their chat.
func (r *CustomerRepo) SetLinkCode(customerID, code string) error {
	_, err := r.DB.Exec(`UPDATE customers SET telegram_link_code=? WHERE id=?`, code, customerID)
	return err
}

// BindTelegram consumes a link code and attaches the chat id. Returns the
// bound customer, or sql.ErrNoRows via Get when the code is unknown.
func (r *CustomerRepo) BindTelegram(code string, chatID int64) (*domain.Customer, error) {
	var c domain.Customer
	if err := r.DB.Get(&c, `SELECT `+customerCols+` FROM customers WHERE telegram_link_code=?`, code); err != nil {
		return nil, err
	}
	if _, err := r.DB.Exec(`UPDATE customers SET telegram_chat_id=?, telegram_link_code=NULL WHERE id=?`,
		chatID, c.ID); err != nil {
		return nil, err
	}
	c.TelegramChatID = &chatID
	c.TelegramCode = nil
	return &c, nil
}
