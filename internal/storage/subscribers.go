package storage

import (
	"context"
	"strings"

	"jobboard/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertSubscriber 新增订阅；邮箱已存在时更新渠道与标签并重新启用。
func (s *Store) UpsertSubscriber(ctx context.Context, sub *model.NewsletterSubscriber) error {
	sub.Email = strings.ToLower(strings.TrimSpace(sub.Email))
	sub.IsActive = true
	tx := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"channel", "tags", "is_active", "updated_at"}),
	}).Create(sub)
	if tx.Error != nil {
		return translate("upsert subscriber", tx.Error)
	}
	return nil
}

// DeactivateSubscriber 退订。
func (s *Store) DeactivateSubscriber(ctx context.Context, email string) error {
	tx := s.db.WithContext(ctx).Model(&model.NewsletterSubscriber{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Update("is_active", false)
	if tx.Error != nil {
		return translate("deactivate subscriber", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return translate("deactivate subscriber", gorm.ErrRecordNotFound)
	}
	return nil
}

// ListSubscribers 返回所有启用中的订阅。
func (s *Store) ListSubscribers(ctx context.Context) ([]model.NewsletterSubscriber, error) {
	var subs []model.NewsletterSubscriber
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("subscribed_at ASC").Find(&subs).Error; err != nil {
		return nil, translate("list subscribers", err)
	}
	return subs, nil
}
