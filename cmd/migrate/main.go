package main

// Apply run ledger migrations:
//   go run ./cmd/migrate

import (
	"context"
	"log"
	"os"

	"idea-analyzer/internal/shared/config"
	"idea-analyzer/internal/shared/storage/db"
	"idea-analyzer/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	sqlDB, err := db.Open(ctx, cfg.DatabaseURL, db.PoolFor(db.ProfileMigrate))
	if err != nil {
		log.Printf("migrate: connect: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		log.Printf("migrate: %v", err)
		os.Exit(1)
	}
	version, err := db.SchemaVersion(ctx, sqlDB)
	if err != nil {
		log.Printf("migrate: read version: %v", err)
		os.Exit(1)
	}
	telemetry.Info("migrate.done", map[string]any{"env": cfg.Env, "version": version})
}
