package main

// Create the records table without starting the server:
//   go run ./cmd/initdb

import (
	"context"
	"log"
	"os"

	"claims-intake/internal/bootstrap"
	"claims-intake/internal/shared/config"
	"claims-intake/internal/shared/storage/db"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	opts := db.OptionsFromEnv(db.DefaultCLIOptions())
	_, sqlDB, err := bootstrap.BuildRepo(ctx, cfg, opts)
	if err != nil {
		log.Printf("failed to initialize record store: %v", err)
		os.Exit(1)
	}
	if sqlDB != nil {
		defer sqlDB.Close()
	}
	log.Printf("record store initialized (driver=%s)", cfg.StorageDriver)
}
