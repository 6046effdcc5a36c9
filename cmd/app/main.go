package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"BaseballMVP/internal/di"
	"BaseballMVP/internal/domain/models"
	"BaseballMVP/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s reference=%s model=%s", cfg.Environment, cfg.Reference.Source, cfg.Model.Path)

	app, cleanup, err := di.InitializeApp(cfg)
	if err != nil {
		if errors.Is(err, models.ErrDataUnavailable) {
			log.Fatalf("reference data unavailable, refusing to start: %v", err)
		}
		log.Fatalf("app initialization failed: %v", err)
	}

	err = app.Run()
	cleanup()
	if err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
