package posting

import (
	"context"
	"errors"
	"fmt"

	"jobboard/internal/apperr"
	"jobboard/internal/auth"
	"jobboard/internal/model"
	"jobboard/internal/storage"
)

// SavedStore 收藏相关持久化接口。
type SavedStore interface {
	GetJob(ctx context.Context, id string) (*model.JobPosting, error)
	SaveJob(ctx context.Context, saved *model.SavedJob) error
	DeleteSavedJob(ctx context.Context, userID, jobID string) error
	ListSavedJobs(ctx context.Context, userID string) ([]model.SavedJob, error)
}

// SavedService 求职者收藏职位。
type SavedService struct {
	store SavedStore
}

func NewSavedService(store SavedStore) *SavedService {
	return &SavedService{store: store}
}

// Save 收藏一个启用中的职位，重复收藏返回 AlreadySaved。
func (s *SavedService) Save(ctx context.Context, actor *auth.Actor, jobID string) (*model.SavedJob, error) {
	if err := requireSeeker(actor); err != nil {
		return nil, err
	}
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if !job.IsActive {
		return nil, apperr.ErrJobNotActive
	}

	saved := &model.SavedJob{UserID: actor.UserID, JobID: job.ID}
	if err := s.store.SaveJob(ctx, saved); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, apperr.ErrAlreadySaved
		}
		return nil, fmt.Errorf("save job: %w", err)
	}
	saved.Job = job
	return saved, nil
}

// Unsave 取消收藏。
func (s *SavedService) Unsave(ctx context.Context, actor *auth.Actor, jobID string) error {
	if err := requireSeeker(actor); err != nil {
		return err
	}
	if err := s.store.DeleteSavedJob(ctx, actor.UserID, jobID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound("saved job")
		}
		return err
	}
	return nil
}

// List 返回收藏列表，最近收藏在前。
func (s *SavedService) List(ctx context.Context, actor *auth.Actor) ([]model.SavedJob, error) {
	if err := requireSeeker(actor); err != nil {
		return nil, err
	}
	return s.store.ListSavedJobs(ctx, actor.UserID)
}

func requireSeeker(actor *auth.Actor) error {
	if actor == nil {
		return apperr.ErrUnauthenticated
	}
	if !actor.IsSeeker() {
		return apperr.ErrNotAuthorized.WithMessage("only job seekers can save jobs")
	}
	return nil
}
