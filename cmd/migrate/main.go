package main

import (
	"fmt"
	"log"

	"github.com/abelgk/elearn-backend/internal/config"
	"github.com/abelgk/elearn-backend/internal/db"
	"github.com/abelgk/elearn-backend/internal/model"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("migrate failed: %v", err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}

	if err := gdb.AutoMigrate(
		&model.User{},
		&model.Payment{},
		&model.ReferralEarning{},
		&model.Notification{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	log.Printf("schema migrated")
	return nil
}
