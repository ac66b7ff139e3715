package tweet

//go:generate mockgen -source=service.go -destination=mock_service.go -package=tweet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"

	"gotwitter/internal/common"
	"gotwitter/internal/config"
	"gotwitter/internal/dbmysql"
)

// MaxContent bounds a stored body in characters, quote link included.
const MaxContent = 500

type PostRequest struct {
	Content string   `json:"content" validate:"max=500"`
	Media   []string `json:"media" validate:"max=4,dive,required"`
}

// TargetPostRequest is a reply or a quote of post ID.
type TargetPostRequest struct {
	ID uint64 `json:"id" validate:"gt=0"`
	PostRequest
}

type TargetRequest struct {
	ID uint64 `json:"id" validate:"gt=0"`
}

// Notifier is the fan-out a write triggers inside its transaction.
type Notifier interface {
	Posted(ctx context.Context, actorID uint64, post *dbmysql.Post)
	Replied(ctx context.Context, actorID uint64, reply, parent *dbmysql.Post)
	Retweeted(ctx context.Context, actorID uint64, source *dbmysql.Post)
	Liked(ctx context.Context, actorID uint64, post *dbmysql.Post)
}

type Service interface {
	Post(ctx context.Context, actorID uint64, req PostRequest) (uint64, error)
	Reply(ctx context.Context, actorID uint64, req TargetPostRequest) (uint64, error)
	Quote(ctx context.Context, actorID uint64, req TargetPostRequest) (uint64, error)
	Retweet(ctx context.Context, actorID, postID uint64) (uint64, error)
	Unretweet(ctx context.Context, actorID, postID uint64) error
	Like(ctx context.Context, actorID, postID uint64) error
	Unlike(ctx context.Context, actorID, postID uint64) error
	Delete(ctx context.Context, actorID, postID uint64) error
	Thread(ctx context.Context, postID, viewer uint64, token string) (*ThreadView, error)
}

type TweetService struct {
	store        *dbmysql.Store
	resolver     *Resolver
	threads      *Threads
	notifier     Notifier
	blobs        common.BlobStore
	statusDomain string
	maxMedia     int
	now          common.Clock
}

func NewTweetService(
	store *dbmysql.Store,
	resolver *Resolver,
	threads *Threads,
	notifier Notifier,
	blobs common.BlobStore,
	cfg *config.Config,
) *TweetService {
	return &TweetService{
		store:        store,
		resolver:     resolver,
		threads:      threads,
		notifier:     notifier,
		blobs:        blobs,
		statusDomain: cfg.Media.StatusDomain,
		maxMedia:     cfg.Media.MaxAttachment,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *TweetService) SetClock(clock common.Clock) {
	s.now = clock
}

func validatePost(req interface{}, content string, media []string) error {
	if err := common.ValidateStruct(req); err != nil {
		return common.InvalidArgument(err.Error())
	}
	if strings.TrimSpace(content) == "" && len(media) == 0 {
		return common.InvalidArgument("neither content nor media")
	}
	return nil
}

// attachments checks every ref against the blob store and learns its file type.
func (s *TweetService) attachments(ctx context.Context, refs []string) ([]dbmysql.MediaAttachment, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	if s.maxMedia > 0 && len(refs) > s.maxMedia {
		return nil, common.InvalidArgument(fmt.Sprintf("at most %d media per tweet", s.maxMedia))
	}
	if s.blobs == nil {
		return nil, common.InvalidArgument("media uploads are not enabled")
	}

	out := make([]dbmysql.MediaAttachment, 0, len(refs))
	for _, ref := range refs {
		rc, info, err := s.blobs.Get(ctx, ref)
		if status.Code(err) == codes.NotFound {
			return nil, common.InvalidArgument(fmt.Sprintf("unknown media %q", ref))
		}
		if err != nil {
			return nil, err
		}
		rc.Close()
		out = append(out, dbmysql.MediaAttachment{BlobRef: ref, FileType: info.FileType})
	}
	return out, nil
}

// target loads the post a request points at and resolves it.
func (s *TweetService) target(ctx context.Context, postID uint64) (*dbmysql.Post, error) {
	post, err := s.store.PostByID(ctx, postID)
	if err != nil {
		return nil, common.NotFoundIf(err, "tweet not found")
	}
	return s.resolver.Resolve(ctx, post)
}

func (s *TweetService) create(ctx context.Context, post *dbmysql.Post, media []dbmysql.MediaAttachment) error {
	now := s.now()
	post.WrittenAt = now
	post.CreatedAt = now
	if err := s.store.CreatePost(ctx, post); err != nil {
		return err
	}
	for i := range media {
		media[i].PostID = post.ID
		media[i].CreatedAt = now
	}
	return s.store.CreateMedia(ctx, media)
}

// linkQuote records the quote a body's trailing token names. A token that
// names nothing is left as plain text.
func (s *TweetService) linkQuote(ctx context.Context, post *dbmysql.Post) error {
	id, ok := QuotedID(post.Body, s.statusDomain)
	if !ok {
		return nil
	}
	source, err := s.target(ctx, id)
	if status.Code(err) == codes.NotFound {
		return nil
	}
	if err != nil {
		return err
	}
	sourceID := source.ID
	return s.store.CreateQuoteLink(ctx, &dbmysql.QuoteLink{SourcePostID: &sourceID, QuotingPostID: post.ID})
}

func (s *TweetService) Post(ctx context.Context, actorID uint64, req PostRequest) (uint64, error) {
	if err := validatePost(req, req.Content, req.Media); err != nil {
		return 0, err
	}
	media, err := s.attachments(ctx, req.Media)
	if err != nil {
		return 0, err
	}

	post := &dbmysql.Post{Kind: common.KindOriginal, AuthorID: actorID, Body: req.Content}
	err = s.store.Transaction(ctx, func(ctx context.Context) error {
		if err := s.create(ctx, post, media); err != nil {
			return err
		}
		if err := s.linkQuote(ctx, post); err != nil {
			return err
		}
		s.notifier.Posted(ctx, actorID, post)
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.WithFields(log.Fields{"post": post.ID, "author": actorID}).Info("tweet created")
	return post.ID, nil
}

func (s *TweetService) Reply(ctx context.Context, actorID uint64, req TargetPostRequest) (uint64, error) {
	if err := validatePost(req, req.Content, req.Media); err != nil {
		return 0, err
	}
	media, err := s.attachments(ctx, req.Media)
	if err != nil {
		return 0, err
	}

	var reply *dbmysql.Post
	err = s.store.Transaction(ctx, func(ctx context.Context) error {
		parent, err := s.target(ctx, req.ID)
		if err != nil {
			return err
		}

		targetActor := parent.AuthorID
		reply = &dbmysql.Post{Kind: common.KindReply, AuthorID: actorID, Body: req.Content, ReplyTargetActorID: &targetActor}
		if err := s.create(ctx, reply, media); err != nil {
			return err
		}
		parentID := parent.ID
		if err := s.store.CreateReplyLink(ctx, &dbmysql.ReplyLink{ParentPostID: &parentID, ChildPostID: reply.ID}); err != nil {
			return err
		}
		if err := s.linkQuote(ctx, reply); err != nil {
			return err
		}
		s.notifier.Replied(ctx, actorID, reply, parent)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return reply.ID, nil
}

func (s *TweetService) Quote(ctx context.Context, actorID uint64, req TargetPostRequest) (uint64, error) {
	if err := validatePost(req, req.Content, req.Media); err != nil {
		return 0, err
	}
	media, err := s.attachments(ctx, req.Media)
	if err != nil {
		return 0, err
	}

	var quote *dbmysql.Post
	err = s.store.Transaction(ctx, func(ctx context.Context) error {
		source, err := s.target(ctx, req.ID)
		if err != nil {
			return err
		}

		body := QuoteToken(s.statusDomain, source.ID)
		if req.Content != "" {
			body = req.Content + " " + body
		}
		if utf8.RuneCountInString(body) > MaxContent {
			return common.InvalidArgument(fmt.Sprintf("content leaves no room for the quoted link within %d characters", MaxContent))
		}
		quote = &dbmysql.Post{Kind: common.KindQuote, AuthorID: actorID, Body: body}
		if err := s.create(ctx, quote, media); err != nil {
			return err
		}
		sourceID := source.ID
		if err := s.store.CreateQuoteLink(ctx, &dbmysql.QuoteLink{SourcePostID: &sourceID, QuotingPostID: quote.ID}); err != nil {
			return err
		}
		s.notifier.Posted(ctx, actorID, quote)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return quote.ID, nil
}

// Retweet wraps the canonical post in a row of the actor's and returns the wrapper id.
func (s *TweetService) Retweet(ctx context.Context, actorID, postID uint64) (uint64, error) {
	var wrapper *dbmysql.Post
	err := s.store.Transaction(ctx, func(ctx context.Context) error {
		source, err := s.target(ctx, postID)
		if err != nil {
			return err
		}
		_, err = s.store.RetweetLinkFor(ctx, actorID, source.ID)
		if err == nil {
			return common.Conflict("already retweeted")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := s.now()
		actor := actorID
		wrapper = &dbmysql.Post{
			Kind:              common.KindRetweet,
			AuthorID:          source.AuthorID,
			RetweetingActorID: &actor,
			WrittenAt:         source.WrittenAt,
			CreatedAt:         now,
		}
		if err := s.store.CreatePost(ctx, wrapper); err != nil {
			return err
		}
		err = s.store.CreateRetweetLink(ctx, &dbmysql.RetweetLink{
			SourcePostID:  source.ID,
			RetweetPostID: wrapper.ID,
			ActorID:       actorID,
			CreatedAt:     now,
		})
		if dbmysql.IsDuplicateKey(err) {
			return common.Conflict("already retweeted")
		}
		if err != nil {
			return err
		}
		s.notifier.Retweeted(ctx, actorID, source)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return wrapper.ID, nil
}

// Unretweet takes the source id (or any wrapper of it) and removes the actor's wrapper.
func (s *TweetService) Unretweet(ctx context.Context, actorID, postID uint64) error {
	return s.store.Transaction(ctx, func(ctx context.Context) error {
		source, err := s.target(ctx, postID)
		if err != nil {
			return err
		}
		link, err := s.store.RetweetLinkFor(ctx, actorID, source.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.InvalidArgument("you have not retweeted this tweet")
		}
		if err != nil {
			return err
		}
		wrapper, err := s.store.PostByID(ctx, link.RetweetPostID)
		if err != nil {
			return err
		}
		_, err = s.store.DeletePostCascade(ctx, wrapper)
		return err
	})
}

func (s *TweetService) Like(ctx context.Context, actorID, postID uint64) error {
	return s.store.Transaction(ctx, func(ctx context.Context) error {
		post, err := s.target(ctx, postID)
		if err != nil {
			return err
		}
		err = s.store.CreateLike(ctx, &dbmysql.LikeMark{ActorID: actorID, PostID: post.ID, CreatedAt: s.now()})
		if dbmysql.IsDuplicateKey(err) {
			return common.Conflict("already liked")
		}
		if err != nil {
			return err
		}
		s.notifier.Liked(ctx, actorID, post)
		return nil
	})
}

func (s *TweetService) Unlike(ctx context.Context, actorID, postID uint64) error {
	post, err := s.target(ctx, postID)
	if err != nil {
		return err
	}
	existed, err := s.store.DeleteLike(ctx, actorID, post.ID)
	if err != nil {
		return err
	}
	if !existed {
		return common.InvalidArgument("you have not liked this tweet")
	}
	return nil
}

// Delete removes a post its effective owner asked to remove: the author, or
// the retweeting actor for a wrapper row.
func (s *TweetService) Delete(ctx context.Context, actorID, postID uint64) error {
	post, err := s.store.PostByID(ctx, postID)
	if err != nil {
		return common.NotFoundIf(err, "tweet not found")
	}

	owner := post.AuthorID
	if post.Kind == common.KindRetweet && post.RetweetingActorID != nil {
		owner = *post.RetweetingActorID
	}
	if owner != actorID {
		return common.Forbidden("only the owner can delete this tweet")
	}

	var refs []string
	err = s.store.Transaction(ctx, func(ctx context.Context) error {
		var err error
		refs, err = s.store.DeletePostCascade(ctx, post)
		return err
	})
	if err != nil {
		return err
	}

	s.dropBlobs(ctx, refs)
	return nil
}

// dropBlobs runs after commit; a failure leaves an unreferenced blob behind.
func (s *TweetService) dropBlobs(ctx context.Context, refs []string) {
	if s.blobs == nil {
		return
	}
	for _, ref := range refs {
		if err := s.blobs.Delete(ctx, ref); err != nil {
			log.WithError(err).WithField("ref", ref).Warn("failed to delete media blob")
		}
	}
}

func (s *TweetService) Thread(ctx context.Context, postID, viewer uint64, token string) (*ThreadView, error) {
	return s.threads.Detail(ctx, postID, viewer, token)
}
