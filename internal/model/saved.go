package model

import (
	"time"

	"gorm.io/gorm"
)

// SavedJob 收藏的职位，同一用户同一职位只保留一条。
type SavedJob struct {
	ID      string      `gorm:"primaryKey;size:36" json:"id"`
	UserID  string      `gorm:"size:36;not null;uniqueIndex:idx_saved_user_job" json:"user_id"`
	JobID   string      `gorm:"size:36;not null;uniqueIndex:idx_saved_user_job" json:"job_id"`
	Job     *JobPosting `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"job,omitempty"`
	SavedAt time.Time   `gorm:"autoCreateTime" json:"saved_at"`
}

func (s *SavedJob) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}
