package main

import (
	"log"

	"github.com/joho/godotenv"

	"einvoice/cmd"
	"einvoice/internal/config"
	"einvoice/internal/logger"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: Could not load configuration: %v", err)
		cfg = config.Default()
	}

	if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
		log.Printf("Warning: Could not initialize logger: %v", err)
		if err := logger.Setup(logger.DefaultConfig()); err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
	}

	log := logger.WithComponent("main")
	log.Debug().Str("api_url", cfg.APIURL).Msg("Starting einvoice CLI")

	cmd.Execute(cfg)
}
