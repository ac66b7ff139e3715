package dbmysql

import (
	"time"

	"gotwitter/internal/common"
)

type Notification struct {
	ID          uint64                  `gorm:"primaryKey;autoIncrement"`
	Kind        common.NotificationKind `gorm:"size:10;not null"`
	ActorID     uint64                  `gorm:"not null"`
	PostID      *uint64                 `gorm:"index"`
	RecipientID uint64                  `gorm:"not null;index:idx_notif_recipient_read,priority:1"`
	IsRead      bool                    `gorm:"not null;default:false;index:idx_notif_recipient_read,priority:2"`
	CreatedAt   time.Time               `gorm:"not null;index"`
}

func (Notification) TableName() string {
	return "notifications"
}
