package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/LiraCode/ecotrack-sub002/app"
	"github.com/LiraCode/ecotrack-sub002/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application, err := app.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}
	defer application.Close()

	if err := application.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("Application stopped with error: %v", err)
	}
}
