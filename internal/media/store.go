// Package media stores uploaded attachments and serves them back.
package media

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"gotwitter/internal/common"
	"gotwitter/internal/config"
	"gotwitter/internal/dbmongo"
)

// NewBlobStore builds the backend named by MEDIA_BACKEND. Remote backends are
// wrapped in a circuit breaker. The returned cleanup closes any connection.
func NewBlobStore(ctx context.Context, cfg *config.Config) (common.BlobStore, func(), error) {
	switch cfg.Media.Backend {
	case "memory":
		return NewMemoryStore(), func() {}, nil
	case "s3":
		s3, err := NewS3Store(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return NewBreakerStore(s3, DefaultBreakerSettings), func() {}, nil
	case "gridfs", "":
		client, err := dbmongo.OpenMediaDB(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := client.Close(context.Background()); err != nil {
				log.WithError(err).Warn("failed to close media store connection")
			}
		}
		return NewBreakerStore(dbmongo.NewGridFSStore(client), DefaultBreakerSettings), cleanup, nil
	}
	return nil, nil, fmt.Errorf("unknown media backend %q", cfg.Media.Backend)
}
