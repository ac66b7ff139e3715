package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"gotwitter/internal/config"
	"gotwitter/internal/logging"
	"gotwitter/internal/media"
)

func main() {
	cfg := config.LoadConfig()
	logging.Setup(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, cleanup, err := media.NewBlobStore(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to open blob store")
	}
	defer cleanup()

	srv := &http.Server{
		Addr:        ":" + cfg.Server.MediaServicePort,
		Handler:     media.NewHTTPServer(store, cfg),
		ReadTimeout: time.Duration(cfg.Server.ReadTimeout) * time.Second,
	}

	go func() {
		log.WithFields(log.Fields{"addr": srv.Addr, "backend": store.Backend()}).Info("media server starting")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("media server failed")
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("media server forced to shut down")
	}
	log.Info("media server stopped")
}
