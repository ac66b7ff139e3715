//go:build wireinject
// +build wireinject

package wire

import (
	"context"

	"github.com/google/wire"

	"gotwitter/internal/config"
)

func InitializeApplication(ctx context.Context, cfg *config.Config) (*Application, func(), error) {
	wire.Build(
		StoreSet,
		NotificationSet,
		ServiceSet,
		ServerSet,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil, nil
}
