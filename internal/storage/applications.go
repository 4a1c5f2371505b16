package storage

import (
	"context"
	"fmt"
	"time"

	"jobboard/internal/model"

	"gorm.io/gorm"
)

// ApplicationQuery 描述投递筛选条件，字段为空表示不过滤。
type ApplicationQuery struct {
	ApplicantID string
	JobID       string
	PosterID    string
	CompanyID   string
}

func inactiveStatusValues() []string {
	values := make([]string, 0, len(model.InactiveStatuses))
	for _, status := range model.InactiveStatuses {
		values = append(values, string(status))
	}
	return values
}

// CreateApplication 在单个事务内确认职位仍在招聘、检查有效投递唯一、写入投递并原子递增 applicants_count。
// 并发投递即使同时通过检查，也会被 idx_job_applications_active 拦截并返回 ErrDuplicate。
func (s *Store) CreateApplication(ctx context.Context, app *model.JobApplication) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var job model.JobPosting
		if err := tx.Select("id", "is_active").First(&job, "id = ?", app.JobID).Error; err != nil {
			return translate("load job", err)
		}
		if !job.IsActive {
			return fmt.Errorf("create application: %w", ErrInactive)
		}

		var active int64
		if err := tx.Model(&model.JobApplication{}).
			Where("applicant_id = ? AND job_id = ?", app.ApplicantID, app.JobID).
			Where("status NOT IN ?", inactiveStatusValues()).
			Count(&active).Error; err != nil {
			return translate("count active applications", err)
		}
		if active > 0 {
			return fmt.Errorf("create application: %w", ErrDuplicate)
		}

		if err := tx.Omit("Applicant", "Job").Create(app).Error; err != nil {
			return translate("create application", err)
		}

		err := tx.Model(&model.JobPosting{}).
			Where("id = ?", app.JobID).
			UpdateColumn("applicants_count", gorm.Expr("applicants_count + ?", 1)).Error
		if err != nil {
			return translate("increment applicants count", err)
		}
		return nil
	})
}

// GetApplication 根据 ID 获取投递，预加载职位、公司与投递人。
func (s *Store) GetApplication(ctx context.Context, id string) (*model.JobApplication, error) {
	var app model.JobApplication
	err := s.db.WithContext(ctx).
		Preload("Job").
		Preload("Job.Company").
		Preload("Applicant").
		First(&app, "id = ?", id).Error
	if err != nil {
		return nil, translate("get application", err)
	}
	return &app, nil
}

// UpdateApplicationStatus 以 from 为条件更新状态；状态已被并发修改时返回 ErrStale，
// 重新激活会造成两条有效投递时返回 ErrDuplicate。
func (s *Store) UpdateApplicationStatus(ctx context.Context, id string, from, to model.ApplicationStatus) error {
	tx := s.db.WithContext(ctx).Model(&model.JobApplication{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": time.Now().UTC()})
	if tx.Error != nil {
		return translate("update application status", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("update application status: %w", ErrStale)
	}
	return nil
}

// ListApplications 返回按创建时间倒序的投递列表。
func (s *Store) ListApplications(ctx context.Context, q ApplicationQuery) ([]model.JobApplication, error) {
	var apps []model.JobApplication
	query := s.db.WithContext(ctx).
		Preload("Job").
		Preload("Job.Company").
		Preload("Applicant").
		Order("created_at DESC")
	if q.ApplicantID != "" {
		query = query.Where("applicant_id = ?", q.ApplicantID)
	}
	if q.JobID != "" {
		query = query.Where("job_id = ?", q.JobID)
	}
	if q.PosterID != "" {
		query = query.Where("job_id IN (SELECT id FROM job_postings WHERE poster_id = ?)", q.PosterID)
	}
	if q.CompanyID != "" {
		query = query.Where("job_id IN (SELECT id FROM job_postings WHERE company_id = ?)", q.CompanyID)
	}
	if err := query.Find(&apps).Error; err != nil {
		return nil, translate("list applications", err)
	}
	return apps, nil
}

// CountActiveApplications 统计某求职者对某职位的有效投递数。
func (s *Store) CountActiveApplications(ctx context.Context, applicantID, jobID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.JobApplication{}).
		Where("applicant_id = ? AND job_id = ?", applicantID, jobID).
		Where("status NOT IN ?", inactiveStatusValues()).
		Count(&count).Error
	if err != nil {
		return 0, translate("count active applications", err)
	}
	return count, nil
}
