package database

// Migration queries
const (
	CreateMigrationsTableSQL = `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id SERIAL PRIMARY KEY,
			migration_name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMPTZ DEFAULT NOW()
		)`

	SelectAppliedMigrationsSQL = `SELECT migration_name FROM schema_migrations`

	InsertMigrationSQL = `INSERT INTO schema_migrations (migration_name) VALUES ($1)`
)

// Menu queries
const (
	// price is read as text so it converts to a decimal without float rounding
	GetMenuItemsSQL = `
		SELECT category, name, price::text, stock
		FROM menu_items
		ORDER BY position ASC, id ASC`
)
