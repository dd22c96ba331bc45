package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	emailPkg "clubktm/internal/adapters/email"
	web "clubktm/internal/adapters/http"
	"clubktm/internal/adapters/storage"
	collectionStore "clubktm/internal/adapters/storage/collection"
	outboxStorePkg "clubktm/internal/adapters/storage/outbox"
	staffStore "clubktm/internal/adapters/storage/staffdir"
	"clubktm/internal/application/orchestrators"
	"clubktm/internal/domain/outbox"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	// Initialize database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("CLUBKTM_DB", "clubktm.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.MigrateDB(db, dbPath); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	stores := &web.Stores{
		Collections: collectionStore.NewSQLiteStore(db),
		Staff:       staffStore.NewSQLiteStore(db),
		Outbox:      outboxStorePkg.NewSQLiteStore(db),
	}

	// Seed the default staff directory on a fresh install
	seedDeps := orchestrators.SeedStaffDeps{Staff: stores.Staff, Now: time.Now}
	if err := orchestrators.ExecuteSeedStaff(context.Background(), seedDeps); err != nil {
		log.Fatalf("failed to seed staff: %v", err)
	}

	// Configure email sender
	clubEmail := envOrDefault("CLUBKTM_CLUB_EMAIL", "clubktm1@gmail.com")
	emailFrom := envOrDefault("CLUBKTM_EMAIL_FROM", "Club KTM <noreply@clubktm.co.za>")
	resendKey := os.Getenv("CLUBKTM_RESEND_KEY")

	var sender emailPkg.Sender
	if resendKey != "" {
		sender = emailPkg.NewResendSender(resendKey, emailFrom)
		log.Println("Email sender configured (Resend)")
	} else {
		sender = emailPkg.NewNoopSender()
		if os.Getenv("CLUBKTM_ENV") == "production" {
			log.Println("WARNING: CLUBKTM_RESEND_KEY is not set — email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set CLUBKTM_RESEND_KEY for real delivery)")
		}
	}
	web.SetClubEmail(clubEmail)

	// Start the outbox background worker draining queued notifications
	outboxStopCh := make(chan struct{})
	processor := orchestrators.NewOutboxProcessor(stores.Outbox, map[string]orchestrators.ActionExecutor{
		outbox.ActionTypeEmail: &orchestrators.EmailExecutor{Sender: sender, From: emailFrom},
	})
	orchestrators.StartBackgroundWorker(processor, 1*time.Minute, outboxStopCh)
	defer close(outboxStopCh)

	mux := web.NewMux(envOrDefault("CLUBKTM_STATIC", "static"), stores)

	addr := envOrDefault("CLUBKTM_ADDR", ":8080")
	log.Printf("Club KTM %s starting on %s (env=%s, schema=%d)", version, addr, envOrDefault("CLUBKTM_ENV", "development"), storage.LatestSchemaVersion())

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
