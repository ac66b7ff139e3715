package dbmysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"gotwitter/internal/common"
)

func (s *Store) CreateNotification(ctx context.Context, notification *Notification) error {
	if err := s.conn(ctx).Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// NotificationsPage lists a recipient's notifications newest first; an empty
// kinds slice means every kind.
func (s *Store) NotificationsPage(
	ctx context.Context,
	recipientID uint64,
	kinds []common.NotificationKind,
	token string,
) ([]Notification, common.Page, error) {
	query := s.conn(ctx).Model(&Notification{}).Where("recipient_id = ?", recipientID)
	if len(kinds) > 0 {
		query = query.Where("kind IN ?", kinds)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, common.Page{}, fmt.Errorf("failed to count notifications: %w", err)
	}
	page, offset, limit := common.Window(int(total), common.PageSize, token)

	var notifications []Notification
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, common.Page{}, fmt.Errorf("failed to get user notifications: %w", err)
	}

	return notifications, page, nil
}

func (s *Store) MarkNotificationsRead(ctx context.Context, recipientID uint64, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	result := s.conn(ctx).
		Model(&Notification{}).
		Where("recipient_id = ? AND id IN ?", recipientID, ids).
		Update("is_read", true)

	if result.Error != nil {
		return fmt.Errorf("failed to mark notifications as read: %w", result.Error)
	}
	return nil
}

func (s *Store) UnreadCount(ctx context.Context, recipientID uint64) (int64, error) {
	var count int64

	err := s.conn(ctx).
		Model(&Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error

	if err != nil {
		return 0, fmt.Errorf("failed to get unread count: %w", err)
	}

	return count, nil
}
