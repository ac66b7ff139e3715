// Package logging configures the process-wide logrus logger from config.
package logging

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"

	"gotwitter/internal/config"
)

// Setup applies level, format and output. An unknown level falls back to info,
// an unwritable output path falls back to stdout.
func Setup(cfg config.LoggingConfig) *log.Logger {
	logger := log.StandardLogger()

	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&log.JSONFormatter{})
	} else {
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	logger.SetOutput(output(cfg.OutputPath))
	return logger
}

func output(path string) io.Writer {
	switch path {
	case "", "stdout":
		return os.Stdout
	case "stderr":
		return os.Stderr
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.WithError(err).Warnf("cannot open log file %s, using stdout", path)
		return os.Stdout
	}
	return f
}
