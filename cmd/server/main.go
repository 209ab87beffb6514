package main

import (
	"context"
	"log"
	"os"

	"github.com/joyal-jij0/pragati/internal/config"
	"github.com/joyal-jij0/pragati/internal/logging"
	"github.com/joyal-jij0/pragati/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.NewJSONLogger(os.Stdout)

	app, err := server.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("init: %v", err)
	}

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("run: %v", err)
	}
}
