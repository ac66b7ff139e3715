package common

import (
	"time"
)

// PostKind is the role a posts row plays. RETWEET rows carry no content of their own.
type PostKind string

const (
	KindOriginal PostKind = "ORIGINAL"
	KindReply    PostKind = "REPLY"
	KindRetweet  PostKind = "RETWEET"
	KindQuote    PostKind = "QUOTE"
)

func (k PostKind) String() string {
	return string(k)
}

// OwnsContent reports whether rows of this kind carry their own body and media.
func (k PostKind) OwnsContent() bool {
	return k == KindOriginal || k == KindReply || k == KindQuote
}

type NotificationKind string

const (
	NotifyLike    NotificationKind = "LIKE"
	NotifyReply   NotificationKind = "REPLY"
	NotifyRetweet NotificationKind = "RETWEET"
	NotifyFollow  NotificationKind = "FOLLOW"
	NotifyMention NotificationKind = "MENTION"
)

func (k NotificationKind) String() string {
	return string(k)
}

// ProfileMode selects which posts a profile feed shows.
type ProfileMode string

const (
	ProfilePostsOnly       ProfileMode = "tweets"
	ProfilePostsAndReplies ProfileMode = "tweets_replies"
	ProfileMediaOnly       ProfileMode = "media"
	ProfileLikes           ProfileMode = "likes"
)

func ParseProfileMode(s string) (ProfileMode, bool) {
	switch m := ProfileMode(s); m {
	case ProfilePostsOnly, ProfilePostsAndReplies, ProfileMediaOnly, ProfileLikes:
		return m, true
	}
	return "", false
}

// NotificationEvent is what fan-out hands to every subscribed observer.
// PostID is nil for FOLLOW.
type NotificationEvent struct {
	Kind        NotificationKind
	ActorID     uint64
	RecipientID uint64
	PostID      *uint64
	CreatedAt   time.Time
}

// Clock is injected into services so ordering and the search window are testable.
type Clock func() time.Time

// UserSummary is how an actor appears inside other views.
type UserSummary struct {
	ID       uint64 `json:"id"`
	Handle   string `json:"handle"`
	Username string `json:"username"`
}
