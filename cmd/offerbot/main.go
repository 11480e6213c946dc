package main

import (
	"log"

	"github.com/joho/godotenv"

	corecmd "github.com/m3rciful/offerbot/core/cmd"
	"github.com/m3rciful/offerbot/internal/app"
	"github.com/m3rciful/offerbot/internal/config"
)

func main() {
	// Missing .env is fine; real deployments inject environment directly.
	_ = godotenv.Load()

	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return config.Load(path)
		},
		Bootstrap: func(cfg corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			return app.Bootstrap(cfg.(*config.Config))
		},
	})
	if err != nil {
		log.Fatalf("offerbot: %v", err)
	}
}
