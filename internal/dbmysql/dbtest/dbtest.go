// Package dbtest opens throwaway in-memory stores for package tests.
package dbtest

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gotwitter/internal/common"
	"gotwitter/internal/dbmysql"
)

// NewDB returns a migrated in-memory SQLite database. One connection only:
// every in-memory connection would otherwise see its own empty database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), dbmysql.GormConfig(logger.Silent))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, dbmysql.Migrate(db))
	return db
}

func NewStore(t *testing.T) *dbmysql.Store {
	return dbmysql.NewStore(NewDB(t))
}

// Clock is a manual clock; every call to Now advances it by one second so
// rows created in sequence get strictly increasing timestamps.
type Clock struct {
	now time.Time
}

func NewClock() *Clock {
	return &Clock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *Clock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// Fixture seeds rows directly, bypassing services.
type Fixture struct {
	T     *testing.T
	Store *dbmysql.Store
	Clock *Clock
}

func NewFixture(t *testing.T) *Fixture {
	return &Fixture{T: t, Store: NewStore(t), Clock: NewClock()}
}

func (f *Fixture) User(handle string) *dbmysql.User {
	f.T.Helper()
	u := &dbmysql.User{
		Handle:       handle,
		Username:     handle,
		Email:        handle + "@example.com",
		PasswordHash: "x",
		CreatedAt:    f.Clock.Now(),
	}
	require.NoError(f.T, f.Store.CreateUser(context.Background(), u))
	return u
}

func (f *Fixture) Follow(follower, following *dbmysql.User) {
	f.T.Helper()
	require.NoError(f.T, f.Store.CreateFollow(context.Background(), &dbmysql.Follow{
		FollowerID:  follower.ID,
		FollowingID: following.ID,
		CreatedAt:   f.Clock.Now(),
	}))
}

func (f *Fixture) Post(author *dbmysql.User, body string) *dbmysql.Post {
	f.T.Helper()
	now := f.Clock.Now()
	p := &dbmysql.Post{Kind: common.KindOriginal, AuthorID: author.ID, Body: body, WrittenAt: now, CreatedAt: now}
	require.NoError(f.T, f.Store.CreatePost(context.Background(), p))
	return p
}

func (f *Fixture) Reply(author *dbmysql.User, parent *dbmysql.Post, body string) *dbmysql.Post {
	f.T.Helper()
	ctx := context.Background()
	now := f.Clock.Now()
	target := parent.AuthorID
	p := &dbmysql.Post{Kind: common.KindReply, AuthorID: author.ID, Body: body, ReplyTargetActorID: &target, WrittenAt: now, CreatedAt: now}
	require.NoError(f.T, f.Store.CreatePost(ctx, p))
	parentID := parent.ID
	require.NoError(f.T, f.Store.CreateReplyLink(ctx, &dbmysql.ReplyLink{ParentPostID: &parentID, ChildPostID: p.ID}))
	return p
}

func (f *Fixture) Retweet(actor *dbmysql.User, source *dbmysql.Post) *dbmysql.Post {
	f.T.Helper()
	ctx := context.Background()
	now := f.Clock.Now()
	actorID := actor.ID
	w := &dbmysql.Post{Kind: common.KindRetweet, AuthorID: source.AuthorID, RetweetingActorID: &actorID, WrittenAt: source.WrittenAt, CreatedAt: now}
	require.NoError(f.T, f.Store.CreatePost(ctx, w))
	require.NoError(f.T, f.Store.CreateRetweetLink(ctx, &dbmysql.RetweetLink{
		SourcePostID: source.ID, RetweetPostID: w.ID, ActorID: actor.ID, CreatedAt: now,
	}))
	return w
}

func (f *Fixture) Quote(author *dbmysql.User, source *dbmysql.Post, body string) *dbmysql.Post {
	f.T.Helper()
	ctx := context.Background()
	now := f.Clock.Now()
	p := &dbmysql.Post{Kind: common.KindQuote, AuthorID: author.ID, Body: body, WrittenAt: now, CreatedAt: now}
	require.NoError(f.T, f.Store.CreatePost(ctx, p))
	sourceID := source.ID
	require.NoError(f.T, f.Store.CreateQuoteLink(ctx, &dbmysql.QuoteLink{SourcePostID: &sourceID, QuotingPostID: p.ID}))
	return p
}

func (f *Fixture) Like(actor *dbmysql.User, post *dbmysql.Post) {
	f.T.Helper()
	require.NoError(f.T, f.Store.CreateLike(context.Background(), &dbmysql.LikeMark{
		ActorID: actor.ID, PostID: post.ID, CreatedAt: f.Clock.Now(),
	}))
}

func (f *Fixture) Media(post *dbmysql.Post, ref string) {
	f.T.Helper()
	require.NoError(f.T, f.Store.CreateMedia(context.Background(), []dbmysql.MediaAttachment{
		{PostID: post.ID, BlobRef: ref, FileType: common.MediaFileTypeImage, CreatedAt: f.Clock.Now()},
	}))
}
