package main

import (
	"context"
	"log"

	"heartlink-be/internal/bootstrap"
	"heartlink-be/internal/config"
	"heartlink-be/internal/server"
	"heartlink-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	if err := container.NotifierService.Start(context.Background()); err != nil {
		log.Printf("Notifier service failed to start: %v", err)
	}

	// 5. Initialize and Run Server
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
