package productsql

var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		seq             INTEGER PRIMARY KEY AUTOINCREMENT,
		id              TEXT NOT NULL UNIQUE,
		name            TEXT NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		price           REAL NOT NULL,
		category        TEXT NOT NULL DEFAULT '',
		category_id     INTEGER NOT NULL DEFAULT 0,
		image_url       TEXT NOT NULL DEFAULT '',
		stock_qty       INTEGER NOT NULL DEFAULT 0,
		weight_grams    INTEGER NOT NULL,
		organization_id TEXT NOT NULL DEFAULT '',
		created_at      TEXT NOT NULL,
		updated_at      TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category)`,
}
