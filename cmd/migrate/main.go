package main

import (
	"fmt"
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"pitfinder-backend/internal/database"
	"pitfinder-backend/internal/models"
	"pitfinder-backend/internal/session"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	var (
		db  *sqlx.DB
		err error
	)
	switch {
	case os.Getenv("DATABASE_URL") != "":
		db, err = database.Connect(os.Getenv("DATABASE_DRIVER"), os.Getenv("DATABASE_URL"))
	case os.Getenv("SESSION_SQLITE_PATH") != "":
		db, err = database.ConnectSQLite(os.Getenv("SESSION_SQLITE_PATH"))
	default:
		log.Fatal("DATABASE_URL or SESSION_SQLITE_PATH must be set")
	}
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Connected to database successfully")

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migration completed successfully!")

	var result struct {
		Devices    int `db:"devices"`
		Sessions   int `db:"sessions"`
		PushTokens int `db:"push_tokens"`
	}

	query := db.Rebind(`
		SELECT
			COUNT(DISTINCT device_id) AS devices,
			COUNT(CASE WHEN item_key = ? THEN 1 END) AS sessions,
			COUNT(CASE WHEN item_key = ? THEN 1 END) AS push_tokens
		FROM device_kv
	`)

	if err := db.Get(&result, query, models.SessionKey, session.PushTokenKey); err != nil {
		log.Fatalf("Failed to query summary: %v", err)
	}

	fmt.Println("\n============================================================")
	fmt.Println("MIGRATION SUMMARY")
	fmt.Println("============================================================")
	fmt.Printf("Devices:                 %d\n", result.Devices)
	fmt.Printf("Stored sessions:         %d\n", result.Sessions)
	fmt.Printf("FCM tokens:              %d\n", result.PushTokens)
	fmt.Println("============================================================")
}
