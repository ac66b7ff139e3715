package dbmysql

import (
	"time"

	"gotwitter/internal/common"
)

type User struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Handle       string    `gorm:"size:15;uniqueIndex;not null" json:"handle"`
	Username     string    `gorm:"size:50;not null" json:"username"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"-"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Bio          string    `gorm:"size:255" json:"bio"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// Follow is "FollowerID follows FollowingID". Self-follows are rejected before insert.
type Follow struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	FollowerID  uint64    `gorm:"not null;uniqueIndex:idx_follow_pair,priority:1"`
	FollowingID uint64    `gorm:"not null;uniqueIndex:idx_follow_pair,priority:2;index"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (Follow) TableName() string {
	return "follows"
}

func (u *User) Summary() common.UserSummary {
	return common.UserSummary{ID: u.ID, Handle: u.Handle, Username: u.Username}
}
