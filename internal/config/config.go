package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"pitfinder-backend/internal/database"
)

// SessionStore names where device sessions live
type SessionStore string

const (
	StoreMemory   SessionStore = "memory"
	StorePostgres SessionStore = "postgres"
	StoreSQLite   SessionStore = "sqlite"
)

type DatabaseConfig struct {
	URL        string
	Driver     string
	SQLitePath string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type FirebaseConfig struct {
	CredentialsBase64 string
	CredentialsFile   string
}

type Config struct {
	Port     string
	Database DatabaseConfig
	Auth     AuthConfig
	Firebase FirebaseConfig
}

// Store picks the session backend: Postgres when DATABASE_URL is set,
// then SQLite when a path is set, otherwise in-memory
func (c *Config) Store() SessionStore {
	switch {
	case c.Database.URL != "":
		return StorePostgres
	case c.Database.SQLitePath != "":
		return StoreSQLite
	default:
		return StoreMemory
	}
}

// Load reads .env files (default ".env") into the environment, then
// builds the config. A missing .env is not an error.
func Load(files ...string) (*Config, error) {
	log.Println("📂 Loading environment variables...")
	if err := godotenv.Load(files...); err != nil {
		log.Println("⚠️  Warning: .env file not found, using environment variables from system")
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	cfg := &Config{
		Port: "8080",
		Database: DatabaseConfig{
			Driver: database.DriverPostgres,
		},
		Auth: AuthConfig{
			TokenTTL: 30 * 24 * time.Hour,
		},
		Firebase: FirebaseConfig{
			CredentialsFile: "./firebase-service-account.json",
		},
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}

	cfg.Database.URL = os.Getenv("DATABASE_URL")
	if driver := os.Getenv("DATABASE_DRIVER"); driver != "" {
		if driver != database.DriverPostgres && driver != database.DriverPgx {
			return nil, fmt.Errorf("DATABASE_DRIVER must be %q or %q, got %q", database.DriverPostgres, database.DriverPgx, driver)
		}
		cfg.Database.Driver = driver
	}
	cfg.Database.SQLitePath = os.Getenv("SESSION_SQLITE_PATH")

	cfg.Auth.JWTSecret = os.Getenv("APP_JWT_SECRET")
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("APP_JWT_SECRET environment variable is required")
	}
	if ttl := os.Getenv("TOKEN_TTL_HOURS"); ttl != "" {
		hours, err := strconv.Atoi(ttl)
		if err != nil || hours <= 0 {
			return nil, fmt.Errorf("TOKEN_TTL_HOURS must be a positive integer, got %q", ttl)
		}
		cfg.Auth.TokenTTL = time.Duration(hours) * time.Hour
	}

	cfg.Firebase.CredentialsBase64 = os.Getenv("FIREBASE_CREDENTIALS_BASE64")
	if file := os.Getenv("FIREBASE_CREDENTIALS_FILE"); file != "" {
		cfg.Firebase.CredentialsFile = file
	}

	return cfg, nil
}
