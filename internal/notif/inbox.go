package notif

import (
	"context"
	"time"

	"github.com/samber/lo"

	"gotwitter/internal/common"
	"gotwitter/internal/dbmysql"
)

type NotificationCard struct {
	ID        uint64                  `json:"id"`
	Kind      common.NotificationKind `json:"kind"`
	Actor     common.UserSummary      `json:"actor"`
	PostID    *uint64                 `json:"post_id"`
	IsRead    bool                    `json:"is_read"`
	CreatedAt time.Time               `json:"created_at"`
}

type InboxService interface {
	List(ctx context.Context, viewer uint64, mentionsOnly bool, token string) (*common.Listing[NotificationCard], error)
	UnreadCount(ctx context.Context, viewer uint64) (int64, error)
}

type Inbox struct {
	store *dbmysql.Store
}

func NewInbox(store *dbmysql.Store) *Inbox {
	return &Inbox{store: store}
}

// List returns one page of the viewer's notifications newest first and marks
// that page read. Cards report the read state from before this call.
func (i *Inbox) List(ctx context.Context, viewer uint64, mentionsOnly bool, token string) (*common.Listing[NotificationCard], error) {
	var kinds []common.NotificationKind
	if mentionsOnly {
		kinds = []common.NotificationKind{common.NotifyMention}
	}

	rows, page, err := i.store.NotificationsPage(ctx, viewer, kinds, token)
	if err != nil {
		return nil, err
	}

	actors, err := i.store.UsersByIDs(ctx, lo.Map(rows, func(n dbmysql.Notification, _ int) uint64 {
		return n.ActorID
	}))
	if err != nil {
		return nil, err
	}

	cards := make([]NotificationCard, 0, len(rows))
	for _, n := range rows {
		card := NotificationCard{
			ID:        n.ID,
			Kind:      n.Kind,
			PostID:    n.PostID,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		}
		if actor, ok := actors[n.ActorID]; ok {
			card.Actor = actor.Summary()
		}
		cards = append(cards, card)
	}

	unread := lo.FilterMap(rows, func(n dbmysql.Notification, _ int) (uint64, bool) {
		return n.ID, !n.IsRead
	})
	if err := i.store.MarkNotificationsRead(ctx, viewer, unread); err != nil {
		return nil, err
	}

	return common.NewListing(cards, page), nil
}

func (i *Inbox) UnreadCount(ctx context.Context, viewer uint64) (int64, error) {
	return i.store.UnreadCount(ctx, viewer)
}
