// Command migrate applies the database schema. Connect skips AutoMigrate in
// production, so deployments run this explicitly before rolling the server.
package main

import (
	"flag"
	"fmt"
	"log"

	"artemis/internal/config"
	"artemis/internal/database"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	if err := db.AutoMigrate(database.PersistentModels()...); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}

	log.Println("schema applied")
	return nil
}
