package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationEvent 触发通知的投递事件。
type NotificationEvent string

const (
	EventNewApplication NotificationEvent = "new_application"
	EventStatusChanged  NotificationEvent = "status_changed"
)

// Notification 站内通知，只能由投递事件生成。
type Notification struct {
	ID        string            `gorm:"primaryKey;size:36" json:"id"`
	UserID    string            `gorm:"size:36;not null;index" json:"user_id"`
	Event     NotificationEvent `gorm:"size:32;not null" json:"event"`
	Message   string            `gorm:"not null" json:"message"`
	Data      datatypes.JSONMap `json:"data,omitempty"`
	IsRead    bool              `gorm:"not null;default:false;index" json:"is_read"`
	ReadAt    *time.Time        `json:"read_at,omitempty"`
	CreatedAt time.Time         `gorm:"index" json:"created_at"`
}

func (n *Notification) BeforeCreate(*gorm.DB) error {
	ensureID(&n.ID)
	return nil
}
