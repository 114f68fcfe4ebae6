package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	userpostgres "github.com/Apurer/instrumentos-api/internal/domains/users/adapters/persistence/postgres"
	platformpostgres "github.com/Apurer/instrumentos-api/internal/platform/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, cleanup := platformpostgres.ConnectDSN(ctx, os.Getenv("POSTGRES_DSN"), logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot purge sessions")
	}

	purged, err := userpostgres.NewSessionStore(db).PurgeExpired(ctx, time.Now())
	if err != nil {
		log.Fatalf("failed to purge sessions: %v", err)
	}
	logger.Info("session purge completed", slog.Int64("sessions.purged", purged))
}
