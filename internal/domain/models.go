package domain

const (
	StoreTypePhysical = "physical"
	StoreTypeDigital  = "digital"
)

const (
	ProductActive   = "active"
	ProductInactive = "inactive"
	ProductDraft    = "draft"
)

type Store struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Type      string `db:"type"` // physical | digital
	CreatedAt string `db:"created_at"`
}

type City struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

type Product struct {
	ID              string   `db:"id"`
	StoreID         string   `db:"store_id"`
	Title           string   `db:"title"`
	Description     string   `db:"description"`
	Price           float64  `db:"price"`
	Stock           int      `db:"stock"`
	Status          string   `db:"status"` // active | inactive | draft
	PlanID          *string  `db:"plan_id"`
	DiscountedPrice *float64 `db:"discounted_price"`
	CreatedAt       string   `db:"created_at"`
	UpdatedAt       string   `db:"updated_at"`
}

// EffectivePrice is what a customer pays right now: the plan price while a
// discount plan holds the product, the list price otherwise.
func (p Product) EffectivePrice() float64 {
	if p.DiscountedPrice != nil {
		return *p.DiscountedPrice
	}
	return p.Price
}

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

const (
	PlanScheduled = "scheduled"
	PlanActive    = "active"
	PlanExpired   = "expired"
)

type DiscountPlan struct {
	ID            string  `db:"id"`
	Name          string  `db:"name"`
	Status        string  `db:"status"`        // scheduled | active | expired
	DiscountType  string  `db:"discount_type"` // percentage | fixed
	DiscountValue float64 `db:"discount_value"`
	StartsAt      string  `db:"starts_at"`
	EndsAt        string  `db:"ends_at"`
}

// Apply returns the discounted price for a list price, never below zero.
func (d DiscountPlan) Apply(price float64) float64 {
	var out float64
	switch d.DiscountType {
	case DiscountPercentage:
		out = price - price*d.DiscountValue/100
	case DiscountFixed:
		out = price - d.DiscountValue
	default:
		out = price
	}
	if out < 0 {
		out = 0
	}
	return out
}

type Order struct {
	ID            string  `db:"id"`
	CustomerID    string  `db:"customer_id"`
	StoreID       string  `db:"store_id"`
	CityID        *string `db:"city_id"`
	Address       *string `db:"address"`
	Total         float64 `db:"total"`
	DeliveryPrice float64 `db:"delivery_price"`
	Status        string  `db:"status"`
	CreatedAt     string  `db:"created_at"`
}

type OrderItem struct {
	OrderID   string  `db:"order_id"`
	ProductID string  `db:"product_id"`
	Qty       int     `db:"qty"`
	Price     float64 `db:"price"` // snapshot from the cart line
}

type StatusHistoryEntry struct {
	OrderID   string  `db:"order_id"`
	Status    string  `db:"status"`
	Actor     *string `db:"actor"` // nil for system-authored entries
	CreatedAt string  `db:"created_at"`
}

type WishlistShare struct {
	CustomerID    string `db:"customer_id"`
	ShareToken    string `db:"share_token"`
	IsActive      bool   `db:"is_active"`
	CustomMessage string `db:"custom_message"`
	ViewsCount    int    `db:"views_count"`
}
