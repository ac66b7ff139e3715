// Package feed builds the home timeline and profile timelines.
package feed

//go:generate mockgen -source=service.go -destination=mock_service.go -package=feed

import (
	"context"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"gotwitter/internal/common"
	"gotwitter/internal/dbmysql"
	"gotwitter/internal/tweet"
)

// Me stands for the authenticated viewer wherever a handle is expected.
const Me = "me"

type HomeView struct {
	User   common.UserSummary          `json:"user"`
	Tweets *common.Listing[tweet.Card] `json:"tweets"`
}

type ProfileView struct {
	User   common.UserSummary          `json:"user"`
	Mode   common.ProfileMode          `json:"mode"`
	Tweets *common.Listing[tweet.Card] `json:"tweets"`
}

type Service interface {
	Home(ctx context.Context, viewer uint64, token string) (*HomeView, error)
	Profile(ctx context.Context, handle, mode string, viewer uint64, token string) (*ProfileView, error)
}

type FeedService struct {
	store     *dbmysql.Store
	presenter *tweet.Presenter
}

func NewFeedService(store *dbmysql.Store, presenter *tweet.Presenter) *FeedService {
	return &FeedService{store: store, presenter: presenter}
}

// Home lists what the viewer and everyone they follow wrote or retweeted,
// newest first.
func (s *FeedService) Home(ctx context.Context, viewer uint64, token string) (*HomeView, error) {
	if viewer == 0 {
		return nil, common.Unauthenticated("authentication required")
	}
	me, err := s.store.UserByID(ctx, viewer)
	if err != nil {
		return nil, common.NotFoundIf(err, "user not found")
	}

	following, err := s.store.FollowingIDs(ctx, viewer)
	if err != nil {
		return nil, err
	}
	actors := lo.Uniq(append(following, viewer))

	rows, page, err := s.store.HomePage(ctx, actors, token)
	if err != nil {
		return nil, err
	}
	cards, err := s.presenter.Cards(ctx, rows, viewer)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"viewer": viewer, "following": len(following), "page": page.Number}).Debug("home timeline built")
	return &HomeView{User: me.Summary(), Tweets: common.NewListing(cards, page)}, nil
}

func (s *FeedService) Profile(ctx context.Context, handle, mode string, viewer uint64, token string) (*ProfileView, error) {
	profileMode, ok := common.ParseProfileMode(mode)
	if !ok {
		return nil, common.InvalidArgument("unknown profile mode")
	}
	actor, err := s.actor(ctx, handle, viewer)
	if err != nil {
		return nil, err
	}

	rows, page, err := s.store.ProfilePage(ctx, actor.ID, profileMode, token)
	if err != nil {
		return nil, err
	}
	cards, err := s.presenter.Cards(ctx, rows, viewer)
	if err != nil {
		return nil, err
	}
	return &ProfileView{User: actor.Summary(), Mode: profileMode, Tweets: common.NewListing(cards, page)}, nil
}

// actor resolves a handle or "me".
func (s *FeedService) actor(ctx context.Context, handle string, viewer uint64) (*dbmysql.User, error) {
	if handle == Me {
		if viewer == 0 {
			return nil, common.Unauthenticated("authentication required")
		}
		user, err := s.store.UserByID(ctx, viewer)
		return user, common.NotFoundIf(err, "user not found")
	}
	user, err := s.store.UserByHandle(ctx, handle)
	return user, common.NotFoundIf(err, "user not found")
}
