package dbmysql

import "time"

type LikeMark struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	ActorID   uint64    `gorm:"not null;uniqueIndex:idx_like_actor_post,priority:1"`
	PostID    uint64    `gorm:"not null;uniqueIndex:idx_like_actor_post,priority:2;index"`
	CreatedAt time.Time `gorm:"not null;index"`
}

func (LikeMark) TableName() string {
	return "like_marks"
}

type MentionMark struct {
	ID               uint64 `gorm:"primaryKey;autoIncrement"`
	PostID           uint64 `gorm:"not null;uniqueIndex:idx_mention_actor_post,priority:2;index"`
	MentionedActorID uint64 `gorm:"not null;uniqueIndex:idx_mention_actor_post,priority:1"`
}

func (MentionMark) TableName() string {
	return "mention_marks"
}
