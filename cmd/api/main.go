package main

import (
	"log"

	"claims-intake/internal/bootstrap"
	"claims-intake/internal/shared/config"
	"claims-intake/internal/shared/server"
)

func main() {
	cfg := config.Load()
	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	defer app.Close()

	addr := server.Addr(cfg.Port)
	log.Printf("Starting claims intake server on %s (store=%s)", addr, cfg.StorageDriver)

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
