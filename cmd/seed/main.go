package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/gratia-app/backend/internal/config"
	"github.com/gratia-app/backend/internal/database"
	"github.com/gratia-app/backend/internal/logger"
	"github.com/gratia-app/backend/internal/seed"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	command := "dev"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "dev", "test", "clean":
	default:
		fmt.Println("Usage: seed [dev|test|clean]")
		fmt.Println("  dev   - Seed development database with fake users")
		fmt.Println("  test  - Seed test database with fixture users")
		fmt.Println("  clean - Remove all seeded users (use with caution)")
		os.Exit(1)
	}

	cfg := config.Load()
	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	if err := database.Initialize(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	seeder := seed.NewSeeder(database.DB)
	var err error
	switch command {
	case "dev":
		err = seeder.SeedDev()
	case "test":
		err = seeder.SeedTest()
	case "clean":
		err = seeder.Clean()
	}
	if err != nil {
		log.Fatalf("Seed command %q failed: %v", command, err)
	}
	log.Printf("Seed command %q completed", command)
}
