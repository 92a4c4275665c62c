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
	// Seed the menu if the DB is empty, then make sure the demo accounts
	// exist (idempotent; safe to run every start).
	if err := seedMenuIfEmpty(db); err != nil {
		return nil, err
	}
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Menu products (stock lives on the product row)
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  category TEXT NOT NULL CHECK (category IN ('ensaladas','tostados','sandwiches','bebidas','empanadas')),
  price INTEGER NOT NULL CHECK (price >= 0),
  description TEXT,
  image_url TEXT,
  is_available INTEGER NOT NULL DEFAULT 1,
  is_customizable INTEGER NOT NULL DEFAULT 0,
  ingredients_json TEXT,
  stock_quantity INTEGER NOT NULL DEFAULT 0,
  min_stock_alert INTEGER NOT NULL DEFAULT 5,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
CREATE INDEX IF NOT EXISTS idx_products_name     ON products(LOWER(name));

-- Orders
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  user_id TEXT REFERENCES users(id),
  total_amount INTEGER NOT NULL CHECK (total_amount >= 0),
  scheduled_time TEXT NOT NULL,
  payment_method TEXT NOT NULL CHECK (payment_method IN ('tarjeta','mercadopago','efectivo')),
  status TEXT NOT NULL DEFAULT 'pendiente'
    CHECK (status IN ('pendiente','en_preparacion','listo','entregado','cancelado')),
  notes TEXT,
  user_cycle TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT,
  completed_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_orders_user       ON orders(user_id);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

-- Line items snapshot the unit price and the customization payload.
CREATE TABLE IF NOT EXISTS order_items(
  order_id   TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id),
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  unit_price INTEGER NOT NULL,
  customizations_json TEXT NOT NULL DEFAULT '',
  PRIMARY KEY (order_id, product_id, customizations_json)
);

-- Sequential order id generator
CREATE TABLE IF NOT EXISTS order_seq(
  n INTEGER PRIMARY KEY AUTOINCREMENT
);

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('ciclo_basico','ciclo_superior','kiosquero','admin')),
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

-- Daily roll-up maintained by the analytics procedure
CREATE TABLE IF NOT EXISTS daily_analytics(
  date TEXT PRIMARY KEY,
  total_orders INTEGER NOT NULL DEFAULT 0,
  total_revenue INTEGER NOT NULL DEFAULT 0,
  orders_by_status TEXT NOT NULL DEFAULT '{}',
  updated_at TEXT
);
`
	_, err := db.Exec(schema)
	return err
}

func seedMenuIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting menu products")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO products
	  (id,name,category,price,description,image_url,is_available,is_customizable,ingredients_json,stock_quantity,min_stock_alert) VALUES
	  ('ens-mixta','Ensalada Mixta','ensaladas',850,'Lechuga, tomate, zanahoria, cebolla. Personalizable con tus ingredientes favoritos.','https://images.pexels.com/photos/1213710/pexels-photo-1213710.jpeg',1,1,'["lechuga","tomate","zanahoria","cebolla","pepino","apio","remolacha"]',20,5),
	  ('ens-caesar','Ensalada Caesar','ensaladas',950,'Lechuga romana, crutones, queso parmesano, aderezo caesar.','https://images.pexels.com/photos/2097090/pexels-photo-2097090.jpeg',1,1,'["lechuga romana","crutones","queso parmesano","pollo"]',15,5),
	  ('tos-jyq','Tostado de Jamón y Queso','tostados',650,'Pan tostado con jamón cocido y queso derretido.','https://images.pexels.com/photos/1647163/pexels-photo-1647163.jpeg',1,0,NULL,30,8),
	  ('tos-completo','Tostado Completo','tostados',750,'Jamón, queso, tomate, lechuga y mayonesa.','https://images.pexels.com/photos/1647163/pexels-photo-1647163.jpeg',1,0,NULL,25,8),
	  ('san-milanesa','Sándwich de Milanesa','sandwiches',1200,'Milanesa de pollo, lechuga, tomate y mayonesa en pan árabe.','https://images.pexels.com/photos/1647163/pexels-photo-1647163.jpeg',1,0,NULL,18,5),
	  ('emp-carne','Empanada de Carne','empanadas',450,'Empanada criolla de carne cortada a cuchillo.','https://images.pexels.com/photos/6605208/pexels-photo-6605208.jpeg',1,0,NULL,40,10),
	  ('beb-agua','Agua Mineral','bebidas',300,'Agua mineral sin gas 500ml.','https://images.pexels.com/photos/327090/pexels-photo-327090.jpeg',1,0,NULL,50,10),
	  ('beb-cola','Gaseosa Cola','bebidas',400,'Gaseosa cola 500ml.','https://images.pexels.com/photos/50593/coca-cola-cold-drink-soft-drink-coke-50593.jpeg',1,0,NULL,50,10),
	  ('beb-jugo','Jugo Natural de Naranja','bebidas',500,'Jugo de naranja exprimido fresco.','https://images.pexels.com/photos/96974/pexels-photo-96974.jpeg',1,0,NULL,12,5)`)

	return tx.Commit()
}

// seedUsers ensures the four demo accounts exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Hash string
	}
	mk := func(id, email, name, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Email: email, Name: name, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-basico", "usuario@ciclobasico.com", "Estudiante Ciclo Básico", "ciclo_basico", "demo123"),
		mk("u-superior", "usuario@ciclosuperior.com", "Estudiante Ciclo Superior", "ciclo_superior", "demo123"),
		mk("u-kiosquero", "usuario@kiosquero.com", "Encargado del Kiosco", "kiosquero", "demo123"),
		mk("u-admin", "usuario@admin.com", "Administrador", "admin", "demo123"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role)
			VALUES(?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}
