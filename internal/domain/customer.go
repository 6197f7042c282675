package domain

type Customer struct {
	ID             string  `db:"id"`
	Email          string  `db:"email"`
	Name           string  `db:"name"`
	Hash           string  `db:"password_hash"`
	Role           string  `db:"role"` // CUSTOMER | ADMIN
	TelegramChatID *int64  `db:"telegram_chat_id"`
	TelegramCode   *string `db:"telegram_link_code"`
	CreatedAt      string  `db:"created_at"`
}

// TelegramActivated reports whether notifications can be delivered to this
// customer at all.
func (c Customer) TelegramActivated() bool { return c.TelegramChatID != nil }
