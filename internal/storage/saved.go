package storage

import (
	"context"

	"jobboard/internal/model"

	"gorm.io/gorm"
)

// SaveJob 收藏职位，重复收藏返回 ErrDuplicate。
func (s *Store) SaveJob(ctx context.Context, saved *model.SavedJob) error {
	if err := s.db.WithContext(ctx).Omit("Job").Create(saved).Error; err != nil {
		return translate("save job", err)
	}
	return nil
}

// DeleteSavedJob 取消收藏。
func (s *Store) DeleteSavedJob(ctx context.Context, userID, jobID string) error {
	tx := s.db.WithContext(ctx).Where("user_id = ? AND job_id = ?", userID, jobID).Delete(&model.SavedJob{})
	if tx.Error != nil {
		return translate("delete saved job", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return translate("delete saved job", gorm.ErrRecordNotFound)
	}
	return nil
}

// ListSavedJobs 返回用户收藏，最近收藏在前。
func (s *Store) ListSavedJobs(ctx context.Context, userID string) ([]model.SavedJob, error) {
	var saved []model.SavedJob
	err := s.db.WithContext(ctx).
		Preload("Job").
		Preload("Job.Company").
		Where("user_id = ?", userID).
		Order("saved_at DESC").
		Find(&saved).Error
	if err != nil {
		return nil, translate("list saved jobs", err)
	}
	return saved, nil
}
