package dbmysql

import (
	"time"

	"gotwitter/internal/common"
)

// Post is every timeline row. A RETWEET row is a wrapper: it has no body or media,
// AuthorID is the source author, WrittenAt is copied from the source and
// RetweetingActorID names who retweeted.
type Post struct {
	ID                 uint64          `gorm:"primaryKey;autoIncrement"`
	Kind               common.PostKind `gorm:"size:10;not null;index:idx_posts_author_kind,priority:2"`
	AuthorID           uint64          `gorm:"not null;index:idx_posts_author_kind,priority:1"`
	Body               string          `gorm:"type:text"`
	RetweetingActorID  *uint64         `gorm:"index"`
	ReplyTargetActorID *uint64
	WrittenAt          time.Time `gorm:"not null;index"`
	CreatedAt          time.Time `gorm:"not null;index"`
}

func (Post) TableName() string {
	return "posts"
}

// ReplyLink ties a reply to its parent. ParentPostID goes nil when the parent is deleted.
type ReplyLink struct {
	ID           uint64  `gorm:"primaryKey;autoIncrement"`
	ParentPostID *uint64 `gorm:"index"`
	ChildPostID  uint64  `gorm:"not null;uniqueIndex"`
}

func (ReplyLink) TableName() string {
	return "reply_links"
}

type RetweetLink struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement"`
	SourcePostID  uint64    `gorm:"not null;index;uniqueIndex:idx_retweet_actor_source,priority:2"`
	RetweetPostID uint64    `gorm:"not null;uniqueIndex"`
	ActorID       uint64    `gorm:"not null;uniqueIndex:idx_retweet_actor_source,priority:1"`
	CreatedAt     time.Time `gorm:"not null"`
}

func (RetweetLink) TableName() string {
	return "retweet_links"
}

// QuoteLink is authoritative for "this post quotes that one"; bodies are never re-parsed.
type QuoteLink struct {
	ID            uint64  `gorm:"primaryKey;autoIncrement"`
	SourcePostID  *uint64 `gorm:"index"`
	QuotingPostID uint64  `gorm:"not null;uniqueIndex"`
}

func (QuoteLink) TableName() string {
	return "quote_links"
}
