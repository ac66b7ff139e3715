package main

import (
	"context"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"gotwitter/internal/config"
	"gotwitter/internal/logging"
	"gotwitter/internal/wire"
)

func main() {
	cfg := config.LoadConfig()
	logging.Setup(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("initializing application")
	app, cleanup, err := wire.InitializeApplication(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize application")
	}
	defer cleanup()

	log.WithFields(log.Fields{
		"env":   cfg.Server.Environment,
		"media": app.Blobs.Backend(),
	}).Info("application ready")

	if err := app.Server.Run(ctx); err != nil {
		log.WithError(err).Error("server stopped with error")
		return
	}
	log.Info("server gracefully stopped")
}
