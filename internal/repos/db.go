package repos

import (
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed baseline data if DB is empty (stores/cities/products/customers)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Stores
CREATE TABLE IF NOT EXISTS stores(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  type TEXT NOT NULL CHECK (type IN ('physical','digital')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS store_owners(
  store_id    TEXT NOT NULL REFERENCES stores(id) ON DELETE CASCADE,
  customer_id TEXT NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
  PRIMARY KEY (store_id, customer_id)
);

-- Cities & per-store delivery price matrix
CREATE TABLE IF NOT EXISTS cities(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS city_store_delivery(
  store_id TEXT NOT NULL REFERENCES stores(id) ON DELETE CASCADE,
  city_id  TEXT NOT NULL REFERENCES cities(id) ON DELETE CASCADE,
  price NUMERIC NOT NULL CHECK (price >= 0),
  PRIMARY KEY (store_id, city_id)
);

-- Products
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL REFERENCES stores(id) ON DELETE RESTRICT,
  title TEXT NOT NULL,
  description TEXT,
  price NUMERIC NOT NULL CHECK (price >= 0),
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active','inactive','draft')),
  plan_id TEXT NULL REFERENCES discount_plans(id) ON DELETE SET NULL,
  discounted_price NUMERIC NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_store  ON products(store_id);
CREATE INDEX IF NOT EXISTS idx_products_status ON products(status);

-- Cart (one row per customer+product, price snapshotted at add-time)
CREATE TABLE IF NOT EXISTS cart_items(
  customer_id TEXT NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
  product_id  TEXT NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  qty INTEGER NOT NULL CHECK (qty >= 1),
  price NUMERIC NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT,
  PRIMARY KEY (customer_id, product_id)
);

-- Orders (one per store per checkout)
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL REFERENCES customers(id),
  store_id TEXT NOT NULL REFERENCES stores(id),
  city_id TEXT NULL REFERENCES cities(id),
  address TEXT NULL,
  total NUMERIC NOT NULL,
  delivery_price NUMERIC NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'new',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(customer_id);
CREATE INDEX IF NOT EXISTS idx_orders_store    ON orders(store_id);

CREATE TABLE IF NOT EXISTS order_items(
  order_id   TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id),
  qty INTEGER NOT NULL,
  price NUMERIC NOT NULL,
  PRIMARY KEY (order_id, product_id)
);

CREATE TABLE IF NOT EXISTS order_status_history(
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  status TEXT NOT NULL,
  actor TEXT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_history_order ON order_status_history(order_id);

-- Discount plans
CREATE TABLE IF NOT EXISTS discount_plans(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'scheduled' CHECK (status IN ('scheduled','active','expired')),
  discount_type TEXT NOT NULL CHECK (discount_type IN ('percentage','fixed')),
  discount_value NUMERIC NOT NULL CHECK (discount_value >= 0),
  starts_at TEXT NOT NULL,
  ends_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS discount_plan_products(
  plan_id    TEXT NOT NULL REFERENCES discount_plans(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  PRIMARY KEY (plan_id, product_id)
);

-- Wishlist
CREATE TABLE IF NOT EXISTS wishlist_items(
  customer_id TEXT NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
  product_id  TEXT NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY (customer_id, product_id)
);

CREATE TABLE IF NOT EXISTS wishlist_shares(
  customer_id TEXT PRIMARY KEY REFERENCES customers(id) ON DELETE CASCADE,
  share_token TEXT NOT NULL UNIQUE,
  is_active INTEGER NOT NULL DEFAULT 1,
  custom_message TEXT NOT NULL DEFAULT '',
  views_count INTEGER NOT NULL DEFAULT 0
);

-- Customers & Sessions
CREATE TABLE IF NOT EXISTS customers(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'CUSTOMER' CHECK (role IN ('CUSTOMER','ADMIN')),
  telegram_chat_id INTEGER NULL,
  telegram_link_code TEXT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_customers_email ON customers(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  customer_id TEXT NULL REFERENCES customers(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_customer ON sessions(customer_id);

-- Payments (gateway transaction references per order)
CREATE TABLE IF NOT EXISTS payments(
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  tran_ref TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  state TEXT NOT NULL DEFAULT 'requested',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY (order_id, tran_ref)
);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM stores`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	tx.MustExec(`INSERT INTO cities(id,name) VALUES
	  ('riyadh','Riyadh'),
	  ('jeddah','Jeddah'),
	  ('dammam','Dammam')`)

	tx.MustExec(`INSERT INTO stores(id,name,type) VALUES
	  ('tech-corner','Tech Corner','physical'),
	  ('dar-books','Dar Books','physical'),
	  ('pixel-keys','Pixel Keys','digital')`)

	tx.MustExec(`INSERT INTO city_store_delivery(store_id,city_id,price) VALUES
	  ('tech-corner','riyadh',25),
	  ('tech-corner','jeddah',40),
	  ('dar-books','riyadh',15)`)

	tx.MustExec(`INSERT INTO products(id,store_id,title,description,price,stock,status) VALUES
	  ('kb-mech-01','tech-corner','Mechanical Keyboard','Hot-swappable 75% board',350,12,'active'),
	  ('mouse-w-01','tech-corner','Wireless Mouse','Lightweight, 2.4GHz',120,30,'active'),
	  ('bk-sahara','dar-books','Desert Notes','Travel essays, hardcover',85,7,'active'),
	  ('gc-steam-50','pixel-keys','Game Credit 50','Digital gift code',50,999,'active')`)

	hash := func(raw string) string {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return string(h)
	}
	tx.MustExec(`INSERT INTO customers(id,email,name,password_hash,role) VALUES
	  (?,?,?,?,?),(?,?,?,?,?),(?,?,?,?,?)`,
		"c-sara", "sara@bazaar.test", "Sara", hash("Passw0rd!"), "CUSTOMER",
		"c-omar", "omar@bazaar.test", "Omar", hash("Passw0rd!"), "CUSTOMER",
		"c-admin", "admin@bazaar.test", "Admin", hash("Passw0rd!"), "ADMIN")

	tx.MustExec(`INSERT INTO store_owners(store_id,customer_id) VALUES
	  ('tech-corner','c-omar'),
	  ('dar-books','c-omar'),
	  ('pixel-keys','c-sara')`)

	return tx.Commit()
}
