package main

import (
	"log"
	"net/http"

	"github.com/jmoiron/sqlx"

	"pitfinder-backend/internal/config"
	"pitfinder-backend/internal/database"
	"pitfinder-backend/internal/directions"
	"pitfinder-backend/internal/handlers"
	"pitfinder-backend/internal/middleware"
	"pitfinder-backend/internal/services"
	"pitfinder-backend/internal/services/cities"
	"pitfinder-backend/internal/session"
	"pitfinder-backend/internal/websocket"
)

func fatal(msg string, err error) {
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Printf("❌ FATAL ERROR: %s", msg)
	log.Printf("   Error: %v", err)
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Fatal(err)
}

func main() {
	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("🚀 PITFINDER BACKEND SERVER STARTING")
	log.Println("═══════════════════════════════════════════════════════════════════")

	cfg, err := config.Load()
	if err != nil {
		fatal("Invalid configuration", err)
	}

	// Session storage
	var backend session.Backend
	var db *sqlx.DB
	switch cfg.Store() {
	case config.StorePostgres:
		log.Println("🔌 Connecting to Postgres...")
		db, err = database.Connect(cfg.Database.Driver, cfg.Database.URL)
		if err != nil {
			fatal("Database connection failed", err)
		}
	case config.StoreSQLite:
		db, err = database.ConnectSQLite(cfg.Database.SQLitePath)
		if err != nil {
			fatal("SQLite store could not be opened", err)
		}
	default:
		log.Println("⚠️  No DATABASE_URL or SESSION_SQLITE_PATH, sessions are kept in memory")
		backend = session.NewMemoryBackend()
	}

	if db != nil {
		defer db.Close()

		log.Println("🔄 Running database migrations...")
		if err := database.Migrate(db); err != nil {
			fatal("Database migrations failed", err)
		}
		log.Println("✅ Database migrations completed")
		backend = session.NewSQLBackend(db)
	}

	// City directory
	dir := cities.Default()
	if err := dir.Validate(); err != nil {
		fatal("City directory is inconsistent", err)
	}
	log.Printf("✅ City directory loaded (%d names)", len(dir.Names()))

	// Firebase Cloud Messaging
	var fcmService *services.FCMService
	if cfg.Firebase.CredentialsBase64 != "" {
		fcmService, err = services.NewFCMServiceFromBase64(cfg.Firebase.CredentialsBase64)
		if err != nil {
			log.Printf("⚠️  Failed to initialize FCM from base64: %v (push notifications disabled)", err)
			fcmService = nil
		} else {
			log.Println("✅ Firebase Cloud Messaging initialized from base64 credentials")
		}
	} else {
		fcmService, err = services.NewFCMService(cfg.Firebase.CredentialsFile)
		if err != nil {
			log.Printf("⚠️  Failed to initialize FCM from file: %v (push notifications disabled)", err)
			fcmService = nil
		} else {
			log.Println("✅ Firebase Cloud Messaging initialized from file")
		}
	}

	wsHub := websocket.NewHub()

	opts := []handlers.ScreensOption{handlers.WithPusher(wsHub)}
	if fcmService != nil {
		opts = append(opts, handlers.WithNotifier(fcmService))
	}
	screens := handlers.NewScreens(backend, dir, opts...)

	wsHub.OnLocation(screens.UpdateLocation)
	go wsHub.Run()
	log.Println("✅ WebSocket hub started")

	auth := middleware.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	router := handlers.NewRouter(handlers.RouterDeps{
		Screens:   screens,
		Directory: dir,
		Auth:      auth,
		Openers: func(deviceID string) directions.Opener {
			return websocket.NewURLOpener(wsHub, deviceID)
		},
		WebSocket: websocket.HandleWebSocket(wsHub, auth),
	})

	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("✅ ALL INITIALIZATION COMPLETE")
	log.Printf("🚀 Server starting on http://localhost:%s", cfg.Port)
	log.Printf("💾 Session store: %s", cfg.Store())
	log.Println("🔌 Ready to accept requests!")
	log.Println("═══════════════════════════════════════════════════════════════════")

	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		fatal("Server failed to start on port "+cfg.Port, err)
	}
}
