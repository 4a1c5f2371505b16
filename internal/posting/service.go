// Package posting 管理职位的发布、编辑、上下线以及求职者收藏。
package posting

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jobboard/internal/apperr"
	"jobboard/internal/auth"
	"jobboard/internal/model"
	"jobboard/internal/storage"

	"go.uber.org/zap"
)

// Store 职位服务依赖的持久化接口。
type Store interface {
	CreateJob(ctx context.Context, job *model.JobPosting) error
	GetJob(ctx context.Context, id string) (*model.JobPosting, error)
	JobTitleExists(ctx context.Context, companyID, title, excludeID string) (bool, error)
	UpdateJob(ctx context.Context, job *model.JobPosting) error
	SetJobActive(ctx context.Context, id string, active bool) error
	DeleteJob(ctx context.Context, id string) error
	ListJobs(ctx context.Context, opts storage.JobQueryOptions) ([]model.JobPosting, error)
	CountJobs(ctx context.Context, opts storage.JobQueryOptions) (int64, error)
}

// Filter 公开职位列表的筛选与分页。
type Filter struct {
	CompanyID string
	Limit     int
	Offset    int
}

// Service 职位生命周期。
type Service struct {
	store  Store
	logger *zap.Logger
}

func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger.Named("posting")}
}

// Create 雇主在已关联且启用的公司下发布职位。公司取自调用者，标题在公司内大小写不敏感唯一。
func (s *Service) Create(ctx context.Context, actor *auth.Actor, in JobInput) (*model.JobPosting, error) {
	if actor == nil {
		return nil, apperr.ErrUnauthenticated
	}
	if !actor.IsEmployer() {
		return nil, apperr.ErrNotAuthorized.WithMessage("only employers can post jobs")
	}
	if !actor.HasActiveCompany() {
		return nil, apperr.ErrNoLinkedCompany
	}

	job := &model.JobPosting{}
	if err := in.apply(job, true); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueTitle(ctx, actor.CompanyID, job.Title, ""); err != nil {
		return nil, err
	}

	posterID := actor.UserID
	job.CompanyID = actor.CompanyID
	job.PosterID = &posterID
	if err := s.store.CreateJob(ctx, job); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, apperr.ErrDuplicateTitle
		}
		return nil, fmt.Errorf("create job: %w", err)
	}
	s.logger.Info("job created", zap.String("job_id", job.ID), zap.String("company_id", job.CompanyID))
	return s.reload(ctx, job.ID)
}

// Update 发布者部分更新职位；标题变化时重新检查唯一性（排除自身）。
func (s *Service) Update(ctx context.Context, actor *auth.Actor, id string, in JobInput) (*model.JobPosting, error) {
	job, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	oldTitle := job.Title
	if err := in.apply(job, false); err != nil {
		return nil, err
	}
	if job.Title != oldTitle {
		if err := s.ensureUniqueTitle(ctx, job.CompanyID, job.Title, job.ID); err != nil {
			return nil, err
		}
	}
	if err := s.store.UpdateJob(ctx, job); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, apperr.ErrDuplicateTitle
		}
		return nil, fmt.Errorf("update job: %w", err)
	}
	return s.reload(ctx, job.ID)
}

// ToggleActive 发布者或管理员切换上下线，已有投递不受影响。
func (s *Service) ToggleActive(ctx context.Context, actor *auth.Actor, id string) (*model.JobPosting, error) {
	if actor == nil {
		return nil, apperr.ErrUnauthenticated
	}
	job, err := s.store.GetJob(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if !job.PostedBy(actor.UserID) && !actor.IsAdmin() {
		return nil, apperr.ErrNotAuthorized
	}

	job.IsActive = !job.IsActive
	if err := s.store.SetJobActive(ctx, job.ID, job.IsActive); err != nil {
		return nil, mapStoreErr(err)
	}
	s.logger.Info("job toggled", zap.String("job_id", job.ID), zap.Bool("active", job.IsActive))
	return job, nil
}

// Delete 发布者删除职位，相关投递与收藏一并删除。
func (s *Service) Delete(ctx context.Context, actor *auth.Actor, id string) error {
	job, err := s.owned(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteJob(ctx, job.ID); err != nil {
		return mapStoreErr(err)
	}
	return nil
}

// ListActive 返回启用中的职位，最新发布在前。
func (s *Service) ListActive(ctx context.Context, f Filter) ([]model.JobPosting, error) {
	return s.store.ListJobs(ctx, storage.JobQueryOptions{
		CompanyID:  f.CompanyID,
		ActiveOnly: true,
		Limit:      f.Limit,
		Offset:     f.Offset,
	})
}

// CountActive 返回启用中职位数量。
func (s *Service) CountActive(ctx context.Context, f Filter) (int64, error) {
	return s.store.CountJobs(ctx, storage.JobQueryOptions{CompanyID: f.CompanyID, ActiveOnly: true})
}

// GetActive 返回启用中的职位，下线职位视为不存在。
func (s *Service) GetActive(ctx context.Context, id string) (*model.JobPosting, error) {
	job, err := s.store.GetJob(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if !job.IsActive {
		return nil, apperr.NotFound("job")
	}
	return job, nil
}

// ListMine 返回雇主自己发布的全部职位（含已下线）。
func (s *Service) ListMine(ctx context.Context, actor *auth.Actor) ([]model.JobPosting, error) {
	if actor == nil {
		return nil, apperr.ErrUnauthenticated
	}
	if !actor.IsEmployer() {
		return nil, apperr.ErrNotAuthorized.WithMessage("only employers have postings")
	}
	return s.store.ListJobs(ctx, storage.JobQueryOptions{PosterID: actor.UserID, Limit: 500})
}

func (s *Service) owned(ctx context.Context, actor *auth.Actor, id string) (*model.JobPosting, error) {
	if actor == nil {
		return nil, apperr.ErrUnauthenticated
	}
	job, err := s.store.GetJob(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if !job.PostedBy(actor.UserID) {
		return nil, apperr.ErrNotAuthorized.WithMessage("job was posted by another user")
	}
	return job, nil
}

func (s *Service) ensureUniqueTitle(ctx context.Context, companyID, title, excludeID string) error {
	exists, err := s.store.JobTitleExists(ctx, companyID, title, excludeID)
	if err != nil {
		return fmt.Errorf("check job title: %w", err)
	}
	if exists {
		return apperr.ErrDuplicateTitle.WithField("title", strings.TrimSpace(title))
	}
	return nil
}

func (s *Service) reload(ctx context.Context, id string) (*model.JobPosting, error) {
	job, err := s.store.GetJob(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload job: %w", err)
	}
	return job, nil
}

func mapStoreErr(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NotFound("job")
	}
	return err
}
