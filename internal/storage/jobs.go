package storage

import (
	"context"
	"time"

	"jobboard/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// JobQueryOptions 提供职位查询过滤条件。
type JobQueryOptions struct {
	CompanyID  string
	PosterID   string
	ActiveOnly bool
	Since      time.Time
	Limit      int
	Offset     int
}

// editableJobColumns 发布者可修改的列；applicants_count 只能由投递事务递增。
var editableJobColumns = []string{
	"title", "location", "job_type", "industry_type", "experience_required", "work_type", "salary",
	"description", "responsibilities", "key_skills", "education_required", "tags", "department",
	"shift", "duration", "openings", "title_key", "updated_at",
}

// CreateJob 写入职位。
func (s *Store) CreateJob(ctx context.Context, job *model.JobPosting) error {
	job.IsActive = true
	job.ApplicantsCount = 0
	if err := s.db.WithContext(ctx).Omit("Company").Create(job).Error; err != nil {
		return translate("create job", err)
	}
	return nil
}

// GetJob 根据 ID 获取职位，预加载公司。
func (s *Store) GetJob(ctx context.Context, id string) (*model.JobPosting, error) {
	var job model.JobPosting
	if err := s.db.WithContext(ctx).Preload("Company").First(&job, "id = ?", id).Error; err != nil {
		return nil, translate("get job", err)
	}
	return &job, nil
}

// JobTitleExists 判断公司内是否已有同名职位（大小写不敏感），excludeID 用于更新时排除自身。
func (s *Store) JobTitleExists(ctx context.Context, companyID, title, excludeID string) (bool, error) {
	var count int64
	query := s.db.WithContext(ctx).Model(&model.JobPosting{}).
		Where("company_id = ? AND title_key = ?", companyID, model.FoldKey(title))
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, translate("count jobs by title", err)
	}
	return count > 0, nil
}

// UpdateJob 更新可编辑字段。
func (s *Store) UpdateJob(ctx context.Context, job *model.JobPosting) error {
	job.TitleKey = model.FoldKey(job.Title)
	tx := s.db.WithContext(ctx).Model(&model.JobPosting{ID: job.ID}).
		Select(editableJobColumns).
		Omit(clause.Associations).
		Updates(job)
	if tx.Error != nil {
		return translate("update job", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return translate("update job", gorm.ErrRecordNotFound)
	}
	return nil
}

// SetJobActive 设置职位激活状态，不影响已有投递。
func (s *Store) SetJobActive(ctx context.Context, id string, active bool) error {
	tx := s.db.WithContext(ctx).Model(&model.JobPosting{}).Where("id = ?", id).Update("is_active", active)
	if tx.Error != nil {
		return translate("set job active", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return translate("set job active", gorm.ErrRecordNotFound)
	}
	return nil
}

// DeleteJob 删除职位，投递与收藏随外键级联删除。
func (s *Store) DeleteJob(ctx context.Context, id string) error {
	tx := s.db.WithContext(ctx).Delete(&model.JobPosting{}, "id = ?", id)
	if tx.Error != nil {
		return translate("delete job", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return translate("delete job", gorm.ErrRecordNotFound)
	}
	return nil
}

// ListJobs 返回按发布时间倒序的职位列表。
func (s *Store) ListJobs(ctx context.Context, opts JobQueryOptions) ([]model.JobPosting, error) {
	var jobs []model.JobPosting
	limit, offset := clampPage(opts.Limit, opts.Offset)

	query := applyJobFilters(s.db.WithContext(ctx).Model(&model.JobPosting{}), opts).
		Preload("Company").
		Order("posted_at DESC").
		Limit(limit)
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&jobs).Error; err != nil {
		return nil, translate("list jobs", err)
	}
	return jobs, nil
}

// CountJobs 返回满足过滤条件的职位数量。
func (s *Store) CountJobs(ctx context.Context, opts JobQueryOptions) (int64, error) {
	var total int64
	query := applyJobFilters(s.db.WithContext(ctx).Model(&model.JobPosting{}), opts)
	if err := query.Count(&total).Error; err != nil {
		return 0, translate("count jobs", err)
	}
	return total, nil
}

func applyJobFilters(db *gorm.DB, opts JobQueryOptions) *gorm.DB {
	if opts.ActiveOnly {
		db = db.Where("is_active = ?", true)
	}
	if opts.CompanyID != "" {
		db = db.Where("company_id = ?", opts.CompanyID)
	}
	if opts.PosterID != "" {
		db = db.Where("poster_id = ?", opts.PosterID)
	}
	if !opts.Since.IsZero() {
		db = db.Where("posted_at > ?", opts.Since)
	}
	return db
}
