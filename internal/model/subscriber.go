package model

import (
	"time"

	"gorm.io/datatypes"
)

// NewsletterSubscriber 职位简报订阅。
// - Channel: 推送渠道，目前仅 email
// - Tags: 关注的职位标签，为空表示全部
type NewsletterSubscriber struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	Email        string            `gorm:"uniqueIndex;not null" json:"email"`
	Channel      string            `gorm:"size:16;not null" json:"channel"`
	Tags         datatypes.JSONMap `json:"tags"`
	IsActive     bool              `gorm:"not null;default:true" json:"is_active"`
	SubscribedAt time.Time         `gorm:"autoCreateTime" json:"subscribed_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}
