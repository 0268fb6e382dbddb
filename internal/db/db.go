package db

import (
	"database/sql"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func InitDB(dbURL string) *sql.DB {
	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		log.Fatal("failed to open database connection:", err)
	}

	err = db.Ping()
	if err != nil {
		log.Fatal("database is not responding:", err)
	}

	log.Println("connected to database")
	return db
}

func RunMigrations(db *sql.DB) {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			full_name VARCHAR(150),
			email VARCHAR(150) UNIQUE,
			password_hash VARCHAR(255),
			role VARCHAR(50),
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS currencies (
			code VARCHAR(3) PRIMARY KEY,
			name_en VARCHAR(100) NOT NULL,
			name_ar VARCHAR(100) NOT NULL,
			symbol VARCHAR(10) NOT NULL,
			flag VARCHAR(10),
			decimal_places INT NOT NULL DEFAULT 2,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			display_order INT NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS exchange_rates (
			base_currency VARCHAR(3) NOT NULL,
			target_currency VARCHAR(3) NOT NULL,
			rate DOUBLE PRECISION NOT NULL,
			last_updated TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (base_currency, target_currency)
		);`,
		`CREATE TABLE IF NOT EXISTS orders (
			id SERIAL PRIMARY KEY,
			customer_id INT NOT NULL REFERENCES users(id),
			vendor_id INT NOT NULL REFERENCES users(id),
			driver_id INT REFERENCES users(id),
			currency_code VARCHAR(3) NOT NULL DEFAULT 'SAR',
			subtotal DOUBLE PRECISION NOT NULL DEFAULT 0,
			delivery_fee DOUBLE PRECISION NOT NULL DEFAULT 0,
			tax DOUBLE PRECISION NOT NULL DEFAULT 0,
			discount DOUBLE PRECISION NOT NULL DEFAULT 0,
			total DOUBLE PRECISION NOT NULL DEFAULT 0,
			status VARCHAR(50) NOT NULL DEFAULT 'pending',
			delivery_address TEXT,
			created_at TIMESTAMPTZ DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_orders_customer_id ON orders(customer_id);`,
		`CREATE INDEX IF NOT EXISTS idx_orders_vendor_id ON orders(vendor_id);`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id SERIAL PRIMARY KEY,
			order_id INT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			product_name VARCHAR(200) NOT NULL,
			quantity INT NOT NULL DEFAULT 1,
			unit_price DOUBLE PRECISION NOT NULL,
			total DOUBLE PRECISION NOT NULL
		);`,
		`INSERT INTO currencies (code, name_en, name_ar, symbol, flag, decimal_places, is_active, display_order) VALUES
			('SAR', 'Saudi Riyal', 'ريال سعودي', 'ر.س', '🇸🇦', 2, TRUE, 1),
			('USD', 'US Dollar', 'دولار أمريكي', '$', '🇺🇸', 2, TRUE, 2),
			('JOD', 'Jordanian Dinar', 'دينار أردني', 'د.ا', '🇯🇴', 3, TRUE, 3),
			('ILS', 'Israeli Shekel', 'شيكل', '₪', '🇮🇱', 2, TRUE, 4),
			('EGP', 'Egyptian Pound', 'جنيه مصري', 'ج.م', '🇪🇬', 2, TRUE, 5),
			('AED', 'UAE Dirham', 'درهم إماراتي', 'د.إ', '🇦🇪', 2, TRUE, 6),
			('KWD', 'Kuwaiti Dinar', 'دينار كويتي', 'د.ك', '🇰🇼', 3, TRUE, 7),
			('QAR', 'Qatari Riyal', 'ريال قطري', 'ر.ق', '🇶🇦', 2, TRUE, 8),
			('BHD', 'Bahraini Dinar', 'دينار بحريني', 'د.ب', '🇧🇭', 3, TRUE, 9),
			('OMR', 'Omani Rial', 'ريال عماني', 'ر.ع', '🇴🇲', 3, TRUE, 10)
		ON CONFLICT (code) DO NOTHING;`,
	}

	for _, q := range queries {
		_, err := db.Exec(q)
		if err != nil {
			log.Fatal("migration error:", err)
		}
	}
	log.Println("migrations completed")
}
