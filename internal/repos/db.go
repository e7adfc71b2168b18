package repos

import (
	"log"

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
	// Seed baseline data if DB is empty (categories/listings/hero/settings)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	// Ensure users exist (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Categories
CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  parent TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name_nocase ON categories(LOWER(name));

-- Listings. variations_json holds the raw seller-uploaded variation
-- document; shapes vary and are normalized in code, never in SQL.
CREATE TABLE IF NOT EXISTS listings(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  category TEXT NOT NULL,
  subcategory TEXT NOT NULL DEFAULT '',
  brand TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL DEFAULT 0 CHECK (price >= 0),
  variations_json TEXT NOT NULL DEFAULT '',
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  min_order_qty INTEGER NOT NULL DEFAULT 1 CHECK (min_order_qty >= 1),
  uploader_id TEXT NOT NULL DEFAULT '',
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_listings_category    ON listings(category);
CREATE INDEX IF NOT EXISTS idx_listings_subcategory ON listings(subcategory);
CREATE INDEX IF NOT EXISTS idx_listings_uploader    ON listings(uploader_id);
CREATE INDEX IF NOT EXISTS idx_listings_created_at  ON listings(created_at);

-- Carts
CREATE TABLE IF NOT EXISTS carts(
  id TEXT PRIMARY KEY,
  session_id TEXT UNIQUE NOT NULL,
  user_id TEXT,
  updated_at TEXT
);

-- Items are keyed by (cart, listing, serialized variation) so the same
-- listing can sit in a cart once per selected variation.
CREATE TABLE IF NOT EXISTS cart_items(
  cart_id    TEXT NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
  listing_id TEXT NOT NULL REFERENCES listings(id) ON DELETE RESTRICT,
  variation  TEXT NOT NULL DEFAULT '',
  qty INTEGER NOT NULL CHECK (qty >= 1),
  price_at_add NUMERIC NOT NULL,
  created_at TEXT,
  updated_at TEXT,
  PRIMARY KEY (cart_id, listing_id, variation)
);

-- Orders
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  session_id TEXT,
  user_id TEXT,
  address TEXT,
  fulfillment TEXT,              -- delivery|pickup
  customer_name TEXT,
  customer_email TEXT,
  total NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'PLACED',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

CREATE TABLE IF NOT EXISTS order_items(
  order_id   TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  listing_id TEXT NOT NULL REFERENCES listings(id),
  variation  TEXT NOT NULL DEFAULT '',
  qty INTEGER NOT NULL,
  price NUMERIC NOT NULL,
  PRIMARY KEY (order_id, listing_id, variation)
);

-- Wishlists
CREATE TABLE IF NOT EXISTS wishlists(
  id TEXT PRIMARY KEY,
  session_id TEXT UNIQUE NOT NULL,
  updated_at TEXT
);

CREATE TABLE IF NOT EXISTS wishlist_items(
  wishlist_id TEXT NOT NULL REFERENCES wishlists(id) ON DELETE CASCADE,
  listing_id  TEXT NOT NULL REFERENCES listings(id) ON DELETE RESTRICT,
  created_at  TEXT,
  PRIMARY KEY (wishlist_id, listing_id)
);

-- Compare tray (capped per session in code)
CREATE TABLE IF NOT EXISTS compare_items(
  session_id TEXT NOT NULL,
  listing_id TEXT NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
  created_at TEXT,
  PRIMARY KEY (session_id, listing_id)
);

-- Per-session view history, pruned to a bounded number of listings.
CREATE TABLE IF NOT EXISTS view_history(
  session_id TEXT NOT NULL,
  listing_id TEXT NOT NULL,
  views INTEGER NOT NULL DEFAULT 1,
  total_time INTEGER NOT NULL DEFAULT 0,
  first_viewed INTEGER NOT NULL,
  last_viewed INTEGER NOT NULL,
  PRIMARY KEY (session_id, listing_id)
);
CREATE INDEX IF NOT EXISTS idx_view_history_last ON view_history(session_id, last_viewed);

-- Storefront content
CREATE TABLE IF NOT EXISTS hero_slides(
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  subtitle TEXT NOT NULL DEFAULT '',
  image_url TEXT NOT NULL DEFAULT '',
  link_url TEXT NOT NULL DEFAULT '',
  position INTEGER NOT NULL DEFAULT 0,
  active INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS reviews(
  id TEXT PRIMARY KEY,
  listing_id TEXT NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
  user_id TEXT NOT NULL DEFAULT '',
  rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
  comment TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_reviews_listing ON reviews(listing_id);

CREATE TABLE IF NOT EXISTS settings(
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('USER','SELLER','ADMIN')),
  shop_name TEXT NOT NULL DEFAULT '',
  location TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  location TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo categories/listings/content")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO categories(id,name,parent) VALUES
	  ('electronics','Electronics',''),
	  ('phone-accessories','Phone Accessories','electronics'),
	  ('household','Household',''),
	  ('kitchenware','Kitchenware','household'),
	  ('fashion','Fashion','')`)

	tx.MustExec(`INSERT INTO listings(id,name,description,category,subcategory,brand,price,variations_json,stock,min_order_qty,uploader_id) VALUES
	  ('lst-earbuds','Wireless Earbuds X2','Bulk cartons of wireless earbuds','electronics','phone-accessories','Soundcore',
	    0,'[{"name":"Single pack","price":950,"retailPrice":1500,"stock":120},{"name":"Carton of 12","price":10800,"retailPrice":18000,"stock":15,"packSize":12}]',0,1,'u-wanjiku'),
	  ('lst-blender','Commercial Blender 2L','Heavy-duty blender for juice bars','household','kitchenware','Ramtons',
	    0,'[{"name":"Color","attributes":[{"value":"Silver","price":4200,"retail":6500,"stock":8},{"value":"Black","price":4000,"retail":6000,"stock":12}]}]',0,1,'u-otieno'),
	  ('lst-socks','Cotton Socks Dozen','Mixed-color cotton socks, dozen pack','fashion','','',
	    450,'',300,5,'u-wanjiku'),
	  ('lst-cable','USB-C Cable 1m','Braided fast-charge cables','electronics','phone-accessories','Oraimo',
	    0,'[{"name":"Retail pack","price":120,"retailPack":250,"stock":500}]',0,10,'u-otieno')`)

	tx.MustExec(`INSERT INTO hero_slides(id,title,subtitle,image_url,link_url,position) VALUES
	  ('hs-1','Stock up for less','Wholesale prices on fast movers','/media/hero/restock.jpg','/category/electronics',1),
	  ('hs-2','New arrivals weekly','Fresh inventory from verified sellers','/media/hero/arrivals.jpg','/',2)`)

	tx.MustExec(`INSERT INTO settings(key,value) VALUES
	  ('currency','KES'),
	  ('support_phone','+254700000000'),
	  ('free_delivery_min','5000')`)

	return tx.Commit()
}

// seedUsers ensures demo buyers, sellers and one ADMIN exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Shop, Hash string
	}
	mk := func(id, email, name, role, shop, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Email: email, Name: name, Role: role, Shop: shop, Hash: string(h)}
	}

	users := []u{
		mk("u-wanjiku", "wanjiku@odapap.test", "Wanjiku", "SELLER", "Wanjiku Traders", "Passw0rd!"),
		mk("u-otieno", "otieno@odapap.test", "Otieno", "SELLER", "Otieno Supplies", "Passw0rd!"),
		mk("u-amina", "amina@odapap.test", "Amina", "USER", "", "Passw0rd!"),
		mk("u-admin", "admin@odapap.test", "Admin", "ADMIN", "", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role,shop_name)
			VALUES(?,?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, x.Hash, x.Role, x.Shop); err != nil {
			return err
		}
	}

	return tx.Commit()
}
