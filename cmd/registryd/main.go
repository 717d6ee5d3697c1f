package main

import (
	"context"
	"os/signal"
	"syscall"

	"strategist/internal/a2a"
	"strategist/internal/adapters/config"
	"strategist/internal/registry"
	"strategist/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get()
	log.Infof("Starting agent registry on :%d", cfg.Registry.Port)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fetcher := a2a.NewClient(cfg.Registry.VerifyTimeout, cfg.Registry.VerifyTimeout, 0)
	store := registry.NewStore(fetcher)

	srv := registry.NewServer(store, log)
	if err := srv.Run(ctx, cfg.Registry.Port); err != nil {
		log.Fatalf("registry server error: %v", err)
	}
}
