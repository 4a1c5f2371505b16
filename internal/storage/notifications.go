package storage

import (
	"context"
	"time"

	"jobboard/internal/model"

	"gorm.io/gorm"
)

// CreateNotification 写入站内通知。
func (s *Store) CreateNotification(ctx context.Context, n *model.Notification) error {
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return translate("create notification", err)
	}
	return nil
}

// ListNotifications 返回用户通知，最新在前；limit<=0 时默认 50 条。
func (s *Store) ListNotifications(ctx context.Context, userID string, limit int) ([]model.Notification, error) {
	limit, _ = clampPage(limit, 0)
	var items []model.Notification
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, translate("list notifications", err)
	}
	return items, nil
}

// CountUnreadNotifications 返回未读数量。
func (s *Store) CountUnreadNotifications(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, translate("count unread notifications", err)
	}
	return count, nil
}

// MarkNotificationRead 把用户的一条通知标记为已读。
func (s *Store) MarkNotificationRead(ctx context.Context, userID, id string) error {
	tx := s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{"is_read": true, "read_at": time.Now().UTC()})
	if tx.Error != nil {
		return translate("mark notification read", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return translate("mark notification read", gorm.ErrRecordNotFound)
	}
	return nil
}

// MarkAllNotificationsRead 把用户全部未读通知标记为已读，返回更新数量。
func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error) {
	tx := s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]any{"is_read": true, "read_at": time.Now().UTC()})
	if tx.Error != nil {
		return 0, translate("mark all notifications read", tx.Error)
	}
	return tx.RowsAffected, nil
}

// DeleteNotification 删除用户的一条通知。
func (s *Store) DeleteNotification(ctx context.Context, userID, id string) error {
	tx := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.Notification{})
	if tx.Error != nil {
		return translate("delete notification", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return translate("delete notification", gorm.ErrRecordNotFound)
	}
	return nil
}

// ClearNotifications 清空用户全部通知。
func (s *Store) ClearNotifications(ctx context.Context, userID string) (int64, error) {
	tx := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.Notification{})
	if tx.Error != nil {
		return 0, translate("clear notifications", tx.Error)
	}
	return tx.RowsAffected, nil
}
