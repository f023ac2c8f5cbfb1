package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/malcano/flea-market-kiosk/internal/app"
	"github.com/malcano/flea-market-kiosk/internal/clock"
	"github.com/malcano/flea-market-kiosk/internal/storage"
	filestore "github.com/malcano/flea-market-kiosk/internal/storage/file"
	"github.com/malcano/flea-market-kiosk/internal/storage/postgres"
	transporthttp "github.com/malcano/flea-market-kiosk/internal/transport/http"
	"github.com/malcano/flea-market-kiosk/migrations"
)

const defaultPort = "8080"
const defaultSnapshotFile = "kiosk-storage.json"
const defaultCORSOrigins = "http://localhost:5173,http://127.0.0.1:5173"
const shutdownTimeout = 10 * time.Second

func main() {
	logger := log.Default()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Printf("WARN: failed to load .env: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		logger.Printf("WARN: PORT not set, using default %s", defaultPort)
		port = defaultPort
	}

	corsEnv := os.Getenv("CORS_ORIGINS")
	if corsEnv == "" {
		logger.Printf("WARN: CORS_ORIGINS not set, using default local origins")
		corsEnv = defaultCORSOrigins
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// The snapshot slot lives in Postgres when DATABASE_URL is set and in a
	// local JSON file otherwise.
	var store storage.SnapshotStore
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		pool, err := pgxpool.New(startupCtx, dbURL)
		if err != nil {
			log.Fatalf("connect to db: %v", err)
		}
		defer pool.Close()

		if err := pool.Ping(startupCtx); err != nil {
			log.Fatalf("db ping: %v", err)
		}
		if err := migrations.Apply(startupCtx, pool); err != nil {
			log.Fatalf("apply migrations: %v", err)
		}
		store = postgres.NewStore(pool)
	} else {
		path := os.Getenv("SNAPSHOT_FILE")
		if path == "" {
			logger.Printf("WARN: DATABASE_URL and SNAPSHOT_FILE not set, using %s", defaultSnapshotFile)
			path = defaultSnapshotFile
		}
		store = filestore.NewStore(path)
	}

	sess := app.NewSession(startupCtx, store, clock.NewSystem(), app.WithSaveObserver(func(err error) {
		logger.Printf("WARN: snapshot persistence degraded: %v", err)
	}))
	defer sess.Close()

	corsOrigins := parseCSV(corsEnv)
	handler := transporthttp.RequestLogger(transporthttp.CORS(corsOrigins, transporthttp.NewRouter(sess)), logger)

	server := &http.Server{
		Addr:    ":" + port,
		Handler: handler,
	}

	log.Printf("kiosk listening on :%s", port)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server error: %v", err)
		}
	case <-stopCtx.Done():
		log.Printf("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("server shutdown error: %v", err)
	}
	log.Printf("server stopped")
}

func parseCSV(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
