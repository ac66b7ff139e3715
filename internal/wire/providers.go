// Package wire assembles the application graph.
package wire

import (
	"context"
	"net/http"

	"github.com/google/wire"
	"gorm.io/gorm"

	"gotwitter/internal/common"
	"gotwitter/internal/config"
	"gotwitter/internal/dbmysql"
	"gotwitter/internal/feed"
	"gotwitter/internal/media"
	"gotwitter/internal/notif"
	"gotwitter/internal/search"
	"gotwitter/internal/server"
	"gotwitter/internal/tweet"
	"gotwitter/internal/user"
)

type Application struct {
	Config *config.Config
	DB     *gorm.DB
	Blobs  common.BlobStore
	Server *server.Server
}

var StoreSet = wire.NewSet(
	ProvideDatabase,
	dbmysql.NewStore,
	ProvideBlobStore,
)

var NotificationSet = wire.NewSet(
	ProvideNotificationManager,
	wire.Bind(new(common.Subject), new(*notif.NotificationManager)),
	notif.NewFanOut,
	wire.Bind(new(tweet.Notifier), new(*notif.FanOut)),
	wire.Bind(new(user.Notifier), new(*notif.FanOut)),
	notif.NewInbox,
	wire.Bind(new(notif.InboxService), new(*notif.Inbox)),
	notif.NewNotificationHandler,
)

var ServiceSet = wire.NewSet(
	common.NewTokenManager,
	common.NewAuthenticator,
	tweet.NewResolver,
	tweet.NewPresenter,
	tweet.NewThreads,
	tweet.NewTweetService,
	wire.Bind(new(tweet.Service), new(*tweet.TweetService)),
	tweet.NewHandler,
	feed.NewFeedService,
	wire.Bind(new(feed.Service), new(*feed.FeedService)),
	feed.NewHandler,
	search.NewSearchService,
	wire.Bind(new(search.Service), new(*search.SearchService)),
	search.NewHandler,
	user.NewUserService,
	wire.Bind(new(user.Service), new(*user.UserService)),
	user.NewHandler,
	media.NewHandler,
)

var ServerSet = wire.NewSet(
	ProvideChecker,
	ProvideRouter,
	server.New,
)

// ProvideDatabase opens and migrates the relational store. The cleanup closes
// the pool.
func ProvideDatabase(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := dbmysql.NewDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

func ProvideBlobStore(ctx context.Context, cfg *config.Config) (common.BlobStore, func(), error) {
	return media.NewBlobStore(ctx, cfg)
}

// ProvideNotificationManager subscribes the observers every deployment runs.
func ProvideNotificationManager(store *dbmysql.Store) *notif.NotificationManager {
	nm := notif.NewNotificationManager()
	nm.Subscribe(notif.NewDatabaseNotificationObserver(store))
	nm.Subscribe(notif.NewMetricsNotificationObserver())
	return nm
}

// ProvideChecker pings the relational store.
func ProvideChecker(db *gorm.DB) server.Checker {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

func ProvideRouter(
	cfg *config.Config,
	auth *common.Authenticator,
	check server.Checker,
	tweets *tweet.Handler,
	feeds *feed.Handler,
	searches *search.Handler,
	users *user.Handler,
	notifications *notif.NotificationHandler,
	uploads *media.Handler,
) http.Handler {
	return server.NewRouter(cfg, auth, check, tweets, feeds, searches, users, notifications, uploads)
}
