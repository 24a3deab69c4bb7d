package database

import (
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported driver names
const (
	DriverPostgres = "postgres" // lib/pq
	DriverPgx      = "pgx"      // jackc/pgx stdlib adapter
	DriverSQLite   = "sqlite3"  // mattn/go-sqlite3
)

// Connect opens and pings a Postgres database with the given driver
func Connect(driver, dbURL string) (*sqlx.DB, error) {
	if driver == "" {
		driver = DriverPostgres
	}
	if driver != DriverPostgres && driver != DriverPgx {
		return nil, fmt.Errorf("unsupported postgres driver %q", driver)
	}

	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Println("🔌 DATABASE CONNECTION ATTEMPT")
	log.Printf("   📍 Driver: %s", driver)
	log.Printf("   📍 Database URL length: %d characters", len(dbURL))
	log.Printf("   📍 URL prefix: %s...", dbURL[:min(30, len(dbURL))])
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	db, err := sqlx.Connect(driver, dbURL)
	if err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ DATABASE CONNECTION FAILED")
		log.Printf("   Error type: %T", err)
		log.Printf("   Error message: %v", err)
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("✅ DATABASE CONNECTION SUCCESSFUL")
	return db, nil
}

// ConnectSQLite opens a SQLite file, creating it if needed.
// SQLite allows one writer at a time, so the pool is capped at one connection.
func ConnectSQLite(path string) (*sqlx.DB, error) {
	log.Printf("🔌 Opening SQLite store at %s", path)

	db, err := sqlx.Connect(DriverSQLite, path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	log.Println("✅ SQLite store ready")
	return db, nil
}

// Migrate creates the tables the service needs. Every statement is
// idempotent and valid for both Postgres and SQLite.
func Migrate(db *sqlx.DB) error {
	migrations := []string{
		// Per-device key-value pairs; the session record lives under "user_session"
		`CREATE TABLE IF NOT EXISTS device_kv (
			device_id TEXT NOT NULL,
			item_key TEXT NOT NULL,
			item_value TEXT NOT NULL,
			updated_at BIGINT NOT NULL,
			PRIMARY KEY (device_id, item_key)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_device_kv_updated_at ON device_kv(updated_at)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}
