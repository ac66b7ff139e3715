package tweet

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"gotwitter/internal/common"
	"gotwitter/internal/config"
	"gotwitter/internal/dbmysql"
	"gotwitter/internal/dbmysql/dbtest"
	"gotwitter/internal/media"
)

const testDomain = "https://tw.example"

type testEnv struct {
	f        *dbtest.Fixture
	svc      *TweetService
	notifier *MockNotifier
	blobs    *media.MemoryStore
	cfg      *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	f := dbtest.NewFixture(t)
	cfg := &config.Config{
		Media: config.MediaConfig{
			StatusDomain:  testDomain,
			MediaBaseURL:  "http://media.example/media/",
			MaxAttachment: 4,
		},
	}
	ctrl := gomock.NewController(t)
	notifier := NewMockNotifier(ctrl)
	blobs := media.NewMemoryStore()

	resolver := NewResolver(f.Store)
	presenter := NewPresenter(f.Store, resolver, cfg)
	threads := NewThreads(f.Store, presenter, cfg)
	svc := NewTweetService(f.Store, resolver, threads, notifier, blobs, cfg)
	svc.SetClock(f.Clock.Now)

	return &testEnv{f: f, svc: svc, notifier: notifier, blobs: blobs, cfg: cfg}
}

func (e *testEnv) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	n, err := e.f.Store.CountRows(context.Background(), model)
	require.NoError(t, err)
	return n
}

func (e *testEnv) upload(t *testing.T, name, mimeType string) string {
	t.Helper()
	ref, err := e.blobs.Put(context.Background(), name, mimeType, 4, strings.NewReader("data"))
	require.NoError(t, err)
	return ref
}

func TestPost_Validation(t *testing.T) {
	env := newTestEnv(t)
	alice := env.f.User("alice")
	env.notifier.EXPECT().Posted(gomock.Any(), alice.ID, gomock.Any()).AnyTimes()
	ref := env.upload(t, "a.png", "image/png")

	tests := []struct {
		name     string
		req      PostRequest
		wantCode codes.Code
	}{
		{"content", PostRequest{Content: "hello"}, codes.OK},
		{"media only", PostRequest{Media: []string{ref}}, codes.OK},
		{"neither", PostRequest{}, codes.InvalidArgument},
		{"whitespace", PostRequest{Content: "   "}, codes.InvalidArgument},
		{"too long", PostRequest{Content: strings.Repeat("a", 501)}, codes.InvalidArgument},
		{"too many media", PostRequest{Media: []string{ref, ref, ref, ref, ref}}, codes.InvalidArgument},
		{"empty ref", PostRequest{Media: []string{""}}, codes.InvalidArgument},
		{"unknown media", PostRequest{Media: []string{"missing"}}, codes.InvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := env.count(t, &dbmysql.Post{})
			id, err := env.svc.Post(context.Background(), alice.ID, tt.req)
			assert.Equal(t, tt.wantCode, status.Code(err))
			if tt.wantCode == codes.OK {
				assert.NotZero(t, id)
				assert.Equal(t, before+1, env.count(t, &dbmysql.Post{}))
			} else {
				assert.Equal(t, before, env.count(t, &dbmysql.Post{}))
			}
		})
	}
}

func TestPost_AttachesMediaWithType(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.f.User("alice")
	env.notifier.EXPECT().Posted(gomock.Any(), alice.ID, gomock.Any())

	img := env.upload(t, "a.png", "image/png")
	vid := env.upload(t, "b.mp4", "video/mp4")
	id, err := env.svc.Post(ctx, alice.ID, PostRequest{Content: "pics", Media: []string{img, vid}})
	require.NoError(t, err)

	attached, err := env.f.Store.MediaFor(ctx, []uint64{id})
	require.NoError(t, err)
	require.Len(t, attached[id], 2)
	types := map[string]common.MediaFileType{}
	for _, m := range attached[id] {
		types[m.BlobRef] = m.FileType
	}
	assert.Equal(t, common.MediaFileTypeImage, types[img])
	assert.Equal(t, common.MediaFileTypeVideo, types[vid])

	view, err := env.svc.Thread(ctx, id, 0, "")
	require.NoError(t, err)
	require.Len(t, view.Tweet.Media, 2)
	assert.Equal(t, "http://media.example/media/"+view.Tweet.Media[0].Ref, view.Tweet.Media[0].URL)
}

func TestPost_TrailingTokenLinksQuote(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice, bob := env.f.User("alice"), env.f.User("bob")
	source := env.f.Post(bob, "original")
	env.notifier.EXPECT().Posted(gomock.Any(), alice.ID, gomock.Any()).Times(2)

	_, err := env.svc.Post(ctx, alice.ID, PostRequest{Content: "so true " + QuoteToken(testDomain, source.ID)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), env.count(t, &dbmysql.QuoteLink{}))

	// a token naming nothing stays plain text
	_, err = env.svc.Post(ctx, alice.ID, PostRequest{Content: "dead link " + QuoteToken(testDomain, 9999)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), env.count(t, &dbmysql.QuoteLink{}))
}

func TestReply(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice, bob := env.f.User("alice"), env.f.User("bob")
	parent := env.f.Post(alice, "question")

	env.notifier.EXPECT().Replied(gomock.Any(), bob.ID, gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, _ uint64, reply, p *dbmysql.Post) {
			assert.Equal(t, parent.ID, p.ID)
			assert.Equal(t, common.KindReply, reply.Kind)
		})

	id, err := env.svc.Reply(ctx, bob.ID, TargetPostRequest{ID: parent.ID, PostRequest: PostRequest{Content: "answer"}})
	require.NoError(t, err)

	reply, err := env.f.Store.PostByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, reply.ReplyTargetActorID)
	assert.Equal(t, alice.ID, *reply.ReplyTargetActorID)

	link, err := env.f.Store.ParentLink(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, parent.ID, *link.ParentPostID)

	_, err = env.svc.Reply(ctx, bob.ID, TargetPostRequest{ID: 9999, PostRequest: PostRequest{Content: "x"}})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = env.svc.Reply(ctx, bob.ID, TargetPostRequest{ID: parent.ID})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestReply_ToRetweetTargetsSource(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice, bob, carol := env.f.User("alice"), env.f.User("bob"), env.f.User("carol")
	source := env.f.Post(alice, "source")
	wrapper := env.f.Retweet(bob, source)
	env.notifier.EXPECT().Replied(gomock.Any(), carol.ID, gomock.Any(), gomock.Any())

	id, err := env.svc.Reply(ctx, carol.ID, TargetPostRequest{ID: wrapper.ID, PostRequest: PostRequest{Content: "hi"}})
	require.NoError(t, err)

	link, err := env.f.Store.ParentLink(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, source.ID, *link.ParentPostID)
}

func TestQuote(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice, bob := env.f.User("alice"), env.f.User("bob")
	source := env.f.Post(alice, "source")
	env.notifier.EXPECT().Posted(gomock.Any(), bob.ID, gomock.Any())

	id, err := env.svc.Quote(ctx, bob.ID, TargetPostRequest{ID: source.ID, PostRequest: PostRequest{Content: "my take"}})
	require.NoError(t, err)

	quote, err := env.f.Store.PostByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, common.KindQuote, quote.Kind)
	assert.Equal(t, "my take "+QuoteToken(testDomain, source.ID), quote.Body)
	assert.Equal(t, int64(1), env.count(t, &dbmysql.QuoteLink{}), "token must not be linked twice")

	// detail reports quotes apart from retweets
	view, err := env.svc.Thread(ctx, source.ID, 0, "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), view.Tweet.Retweets)
	require.NotNil(t, view.Tweet.Quotes)
	assert.Equal(t, int64(1), *view.Tweet.Quotes)

	// list views fold quotes into retweets
	cards, err := env.svc.threads.presenter.Cards(ctx, []dbmysql.Post{*source}, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cards[0].Retweets)
	assert.Nil(t, cards[0].Quotes)

	quoteView, err := env.svc.Thread(ctx, id, 0, "")
	require.NoError(t, err)
	require.NotNil(t, quoteView.Tweet.QuotedID)
	assert.Equal(t, source.ID, *quoteView.Tweet.QuotedID)
	assert.False(t, quoteView.Tweet.QuoteDeleted)
}

func TestQuote_LengthCountsQuotedLink(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice, bob := env.f.User("alice"), env.f.User("bob")
	source := env.f.Post(alice, "source")
	room := MaxContent - 1 - len(QuoteToken(testDomain, source.ID))

	tests := []struct {
		name    string
		content string
		code    codes.Code
	}{
		{"fills the limit", strings.Repeat("é", room), codes.OK},
		{"one over with the link", strings.Repeat("a", room+1), codes.InvalidArgument},
		{"at the request limit", strings.Repeat("a", MaxContent), codes.InvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := env.count(t, &dbmysql.Post{})
			if tt.code == codes.OK {
				env.notifier.EXPECT().Posted(gomock.Any(), bob.ID, gomock.Any())
			}

			id, err := env.svc.Quote(ctx, bob.ID, TargetPostRequest{ID: source.ID, PostRequest: PostRequest{Content: tt.content}})
			assert.Equal(t, tt.code, status.Code(err))
			if tt.code != codes.OK {
				assert.Equal(t, before, env.count(t, &dbmysql.Post{}))
				return
			}
			quote, err := env.f.Store.PostByID(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, MaxContent, utf8.RuneCountInString(quote.Body))
		})
	}
}

func TestQuote_DeletedSourceIsMarked(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice, bob := env.f.User("alice"), env.f.User("bob")
	source := env.f.Post(alice, "source")
	quote := env.f.Quote(bob, source, "take "+QuoteToken(testDomain, source.ID))

	require.NoError(t, env.svc.Delete(ctx, alice.ID, source.ID))

	view, err := env.svc.Thread(ctx, quote.ID, 0, "")
	require.NoError(t, err)
	assert.Nil(t, view.Tweet.QuotedID)
	assert.True(t, view.Tweet.QuoteDeleted)
}

func TestRetweet_TwiceConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice, bob := env.f.User("alice"), env.f.User("bob")
	source := env.f.Post(alice, "source")
	env.notifier.EXPECT().Retweeted(gomock.Any(), bob.ID, gomock.Any()).Times(1)

	wrapperID, err := env.svc.Retweet(ctx, bob.ID, source.ID)
	require.NoError(t, err)

	_, err = env.svc.Retweet(ctx, bob.ID, source.ID)
	assert.Equal(t, codes.AlreadyExists, status.Code(err))
	assert.Equal(t, int64(1), env.count(t, &dbmysql.RetweetLink{}))

	// retweeting the wrapper is retweeting the source
	_, err = env.svc.Retweet(ctx, bob.ID, wrapperID)
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	wrapper, err := env.f.Store.PostByID(ctx, wrapperID)
	require.NoError(t, err)
	assert.Equal(t, common.KindRetweet, wrapper.Kind)
	assert.Equal(t, alice.ID, wrapper.AuthorID)
	assert.Equal(t, bob.ID, *wrapper.RetweetingActorID)
	assert.True(t, source.WrittenAt.Equal(wrapper.WrittenAt))
	assert.True(t, wrapper.CreatedAt.After(source.CreatedAt))
}

func TestResolve_NeverReturnsRetweet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice, bob, carol := env.f.User("alice"), env.f.User("bob"), env.f.User("carol")
	source := env.f.Post(alice, "source")
	quote := env.f.Quote(carol, source, "q")
	rows := []*dbmysql.Post{source, env.f.Retweet(bob, source), quote, env.f.Retweet(bob, quote)}

	resolved, err := env.svc.resolver.ResolveAll(ctx, rows)
	require.NoError(t, err)
	for _, p := range resolved {
		assert.NotEqual(t, common.KindRetweet, p.Kind)
	}
	assert.Equal(t, source.ID, resolved[1].ID)
	assert.Equal(t, quote.ID, resolved[3].ID)

	orphan := &dbmysql.Post{Kind: common.KindRetweet, AuthorID: alice.ID, WrittenAt: source.WrittenAt, CreatedAt: env.f.Clock.Now()}
	require.NoError(t, env.f.Store.CreatePost(ctx, orphan))
	_, err = env.svc.resolver.Resolve(ctx, orphan)
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestUnretweet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice, bob := env.f.User("alice"), env.f.User("bob")
	source := env.f.Post(alice, "source")

	err := env.svc.Unretweet(ctx, bob.ID, source.ID)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	wrapper := env.f.Retweet(bob, source)
	require.NoError(t, env.svc.Unretweet(ctx, bob.ID, wrapper.ID))
	assert.Equal(t, int64(0), env.count(t, &dbmysql.RetweetLink{}))
	_, err = env.f.Store.PostByID(ctx, wrapper.ID)
	assert.Error(t, err)
	_, err = env.f.Store.PostByID(ctx, source.ID)
	assert.NoError(t, err)
}

func TestLikeUnlike(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice, bob := env.f.User("alice"), env.f.User("bob")
	source := env.f.Post(alice, "source")
	wrapper := env.f.Retweet(alice, source)
	env.notifier.EXPECT().Liked(gomock.Any(), bob.ID, gomock.Any()).Times(1)

	require.NoError(t, env.svc.Like(ctx, bob.ID, wrapper.ID))
	assert.Equal(t, codes.AlreadyExists, status.Code(env.svc.Like(ctx, bob.ID, source.ID)))

	likes, err := env.f.Store.CountLikesFor(ctx, []uint64{source.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), likes[source.ID])

	view, err := env.svc.Thread(ctx, source.ID, bob.ID, "")
	require.NoError(t, err)
	assert.True(t, view.Tweet.Liked)
	anon, err := env.svc.Thread(ctx, source.ID, 0, "")
	require.NoError(t, err)
	assert.False(t, anon.Tweet.Liked)

	require.NoError(t, env.svc.Unlike(ctx, bob.ID, source.ID))
	assert.Equal(t, int64(0), env.count(t, &dbmysql.LikeMark{}))
	assert.Equal(t, codes.InvalidArgument, status.Code(env.svc.Unlike(ctx, bob.ID, source.ID)))

	assert.Equal(t, codes.NotFound, status.Code(env.svc.Like(ctx, bob.ID, 9999)))
}

func TestDelete_SourceCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice, bob, carol := env.f.User("alice"), env.f.User("bob"), env.f.User("carol")
	source := env.f.Post(alice, "source")
	ref := env.upload(t, "a.png", "image/png")
	env.f.Media(source, ref)
	env.f.Retweet(bob, source)
	env.f.Retweet(carol, source)
	env.f.Like(bob, source)

	assert.Equal(t, codes.PermissionDenied, status.Code(env.svc.Delete(ctx, bob.ID, source.ID)))
	assert.Equal(t, codes.NotFound, status.Code(env.svc.Delete(ctx, alice.ID, 9999)))

	require.NoError(t, env.svc.Delete(ctx, alice.ID, source.ID))
	assert.Equal(t, int64(0), env.count(t, &dbmysql.Post{}))
	assert.Equal(t, int64(0), env.count(t, &dbmysql.RetweetLink{}))
	assert.Equal(t, int64(0), env.count(t, &dbmysql.LikeMark{}))
	assert.Equal(t, int64(0), env.count(t, &dbmysql.MediaAttachment{}))
	assert.Equal(t, 0, env.blobs.Len(), "blob is dropped after commit")
}

func TestDelete_WrapperRemovesOneLink(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice, bob, carol := env.f.User("alice"), env.f.User("bob"), env.f.User("carol")
	source := env.f.Post(alice, "source")
	bobs := env.f.Retweet(bob, source)
	env.f.Retweet(carol, source)

	// the wrapper belongs to whoever retweeted, not the source author
	assert.Equal(t, codes.PermissionDenied, status.Code(env.svc.Delete(ctx, alice.ID, bobs.ID)))

	require.NoError(t, env.svc.Delete(ctx, bob.ID, bobs.ID))
	assert.Equal(t, int64(1), env.count(t, &dbmysql.RetweetLink{}))
	assert.Equal(t, int64(2), env.count(t, &dbmysql.Post{}))
}
