package notif

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"gotwitter/internal/common"
	"gotwitter/internal/dbmysql"
	"gotwitter/internal/monitoring"
)

// NotificationManager dispatches events to subscribed observers in the caller's
// goroutine, so every observer sees the caller's transaction.
type NotificationManager struct {
	observers map[string]common.Observer
	mu        sync.RWMutex
}

func NewNotificationManager() *NotificationManager {
	return &NotificationManager{
		observers: make(map[string]common.Observer),
	}
}

func (nm *NotificationManager) Subscribe(observer common.Observer) {
	nm.mu.Lock()
	defer nm.mu.Unlock()
	nm.observers[observer.Name()] = observer
	log.WithField("observer", observer.Name()).Debug("observer subscribed")
}

func (nm *NotificationManager) Unsubscribe(observer common.Observer) {
	nm.mu.Lock()
	defer nm.mu.Unlock()
	delete(nm.observers, observer.Name())
	log.WithField("observer", observer.Name()).Debug("observer unsubscribed")
}

func (nm *NotificationManager) Notify(ctx context.Context, event common.NotificationEvent) {
	nm.mu.RLock()
	observers := make([]common.Observer, 0, len(nm.observers))
	for _, obs := range nm.observers {
		observers = append(observers, obs)
	}
	nm.mu.RUnlock()

	for _, observer := range observers {
		if err := observer.Update(ctx, event); err != nil {
			monitoring.FanoutFailures.WithLabelValues(observer.Name()).Inc()
			log.WithError(err).WithFields(log.Fields{
				"observer":  observer.Name(),
				"kind":      event.Kind,
				"recipient": event.RecipientID,
			}).Warn("observer update failed")
		}
	}
}

// mention handle is the leading word run after '@'
var mentionHandle = regexp.MustCompile(`^[A-Za-z0-9_]+`)

// Mentions returns the distinct handles mentioned in body, in order of first use.
func Mentions(body string) []string {
	var handles []string
	for _, word := range strings.Fields(body) {
		if !strings.HasPrefix(word, "@") {
			continue
		}
		if h := mentionHandle.FindString(word[1:]); h != "" {
			handles = append(handles, h)
		}
	}
	return lo.Uniq(handles)
}

// FanOut turns primary writes into mention marks and notifications. It runs
// inside the caller's transaction; every step gets its own savepoint and a
// failed step is logged and skipped.
type FanOut struct {
	store   *dbmysql.Store
	subject common.Subject
	now     common.Clock
}

func NewFanOut(store *dbmysql.Store, subject common.Subject) *FanOut {
	return &FanOut{
		store:   store,
		subject: subject,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (f *FanOut) SetClock(clock common.Clock) {
	f.now = clock
}

func (f *FanOut) step(ctx context.Context, name string, fn func(ctx context.Context) error) {
	if err := f.store.Transaction(ctx, fn); err != nil {
		monitoring.FanoutFailures.WithLabelValues(name).Inc()
		log.WithError(err).WithField("step", name).Warn("notification fan-out step skipped")
	}
}

// emit hands one notification to the observers. Self-actions never notify.
func (f *FanOut) emit(ctx context.Context, kind common.NotificationKind, actorID, recipientID uint64, postID *uint64) {
	if actorID == recipientID {
		return
	}
	f.subject.Notify(ctx, common.NotificationEvent{
		Kind:        kind,
		ActorID:     actorID,
		RecipientID: recipientID,
		PostID:      postID,
		CreatedAt:   f.now(),
	})
}

func (f *FanOut) mentions(ctx context.Context, actorID uint64, post *dbmysql.Post) {
	handles := Mentions(post.Body)
	if len(handles) == 0 {
		return
	}

	f.step(ctx, "mentions", func(ctx context.Context) error {
		users, err := f.store.UsersByHandles(ctx, handles)
		if err != nil {
			return err
		}

		found := lo.SliceToMap(users, func(u dbmysql.User) (string, dbmysql.User) {
			return u.Handle, u
		})
		postID := post.ID
		for _, handle := range handles {
			user, ok := found[handle]
			if !ok {
				log.WithFields(log.Fields{"handle": handle, "post": post.ID}).Warn("mentioned handle not found")
				continue
			}
			if err := f.store.CreateMention(ctx, &dbmysql.MentionMark{PostID: post.ID, MentionedActorID: user.ID}); err != nil {
				return err
			}
			f.emit(ctx, common.NotifyMention, actorID, user.ID, &postID)
		}
		return nil
	})
}

// Posted handles originals and quotes: mentions only.
func (f *FanOut) Posted(ctx context.Context, actorID uint64, post *dbmysql.Post) {
	f.mentions(ctx, actorID, post)
}

// Replied notifies the parent's author and everyone already mentioned on the
// parent. The reply itself mentions the parent's author without a MENTION notification.
func (f *FanOut) Replied(ctx context.Context, actorID uint64, reply, parent *dbmysql.Post) {
	f.mentions(ctx, actorID, reply)

	f.step(ctx, "reply", func(ctx context.Context) error {
		mentioned, err := f.store.MentionedActorIDs(ctx, parent.ID)
		if err != nil {
			return err
		}
		if err := f.store.CreateMention(ctx, &dbmysql.MentionMark{PostID: reply.ID, MentionedActorID: parent.AuthorID}); err != nil {
			return err
		}

		replyID := reply.ID
		for _, recipient := range lo.Uniq(append([]uint64{parent.AuthorID}, mentioned...)) {
			f.emit(ctx, common.NotifyReply, actorID, recipient, &replyID)
		}
		return nil
	})
}

func (f *FanOut) Retweeted(ctx context.Context, actorID uint64, source *dbmysql.Post) {
	sourceID := source.ID
	f.emit(ctx, common.NotifyRetweet, actorID, source.AuthorID, &sourceID)
}

func (f *FanOut) Liked(ctx context.Context, actorID uint64, post *dbmysql.Post) {
	postID := post.ID
	f.emit(ctx, common.NotifyLike, actorID, post.AuthorID, &postID)
}

func (f *FanOut) Followed(ctx context.Context, actorID, followedID uint64) {
	f.emit(ctx, common.NotifyFollow, actorID, followedID, nil)
}
