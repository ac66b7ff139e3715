package dbmysql

import (
	"time"

	"gotwitter/internal/common"
)

type MediaAttachment struct {
	ID        uint64               `gorm:"primaryKey;autoIncrement" json:"id"`
	PostID    uint64               `gorm:"not null;index" json:"post_id"`
	BlobRef   string               `gorm:"size:255;not null" json:"ref"`
	FileType  common.MediaFileType `gorm:"size:20;not null" json:"type"`
	CreatedAt time.Time            `gorm:"not null" json:"created_at"`
}

func (MediaAttachment) TableName() string {
	return "media_attachments"
}
