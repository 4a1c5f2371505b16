// Package application 管理投递的生命周期：提交、撤回与雇主推进状态。
package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobboard/internal/apperr"
	"jobboard/internal/auth"
	"jobboard/internal/model"
	"jobboard/internal/storage"
	"jobboard/internal/textutil"

	"go.uber.org/zap"
)

// Store 投递服务依赖的持久化接口。
type Store interface {
	GetJob(ctx context.Context, id string) (*model.JobPosting, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	CreateApplication(ctx context.Context, app *model.JobApplication) error
	GetApplication(ctx context.Context, id string) (*model.JobApplication, error)
	UpdateApplicationStatus(ctx context.Context, id string, from, to model.ApplicationStatus) error
	ListApplications(ctx context.Context, q storage.ApplicationQuery) ([]model.JobApplication, error)
}

// Emitter 在状态变更提交后通知相关用户。
type Emitter interface {
	Emit(ctx context.Context, event model.NotificationEvent, userID, message string, data map[string]any) *model.Notification
}

// Service 投递状态机。
type Service struct {
	store   Store
	emitter Emitter
	logger  *zap.Logger
	now     func() time.Time
}

// NewService 创建 Service，emitter 为 nil 时不发通知。
func NewService(store Store, emitter Emitter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:   store,
		emitter: emitter,
		logger:  logger.Named("application"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Submit 求职者投递职位。同一职位仅允许一份有效投递；简历引用在此刻快照，之后不随档案变化。
func (s *Service) Submit(ctx context.Context, actor *auth.Actor, jobID, coverLetter string) (*model.JobApplication, error) {
	if actor == nil {
		return nil, apperr.ErrUnauthenticated
	}
	if !actor.IsSeeker() {
		return nil, apperr.ErrNotAuthorized.WithMessage("only job seekers can apply")
	}

	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, mapStoreErr(err, "job")
	}
	if !job.IsActive {
		return nil, apperr.ErrJobNotActive
	}

	app := &model.JobApplication{
		ApplicantID:    actor.UserID,
		JobID:          job.ID,
		Status:         model.StatusApplied,
		CoverLetter:    textutil.PlainText(coverLetter),
		ResumeSnapshot: actor.ResumeRef,
	}
	if err := s.store.CreateApplication(ctx, app); err != nil {
		switch {
		case errors.Is(err, storage.ErrDuplicate):
			return nil, apperr.ErrDuplicateActiveApplication
		case errors.Is(err, storage.ErrInactive):
			return nil, apperr.ErrJobNotActive
		default:
			return nil, mapStoreErr(err, "job")
		}
	}
	s.logger.Info("application submitted",
		zap.String("application_id", app.ID),
		zap.String("job_id", job.ID),
		zap.String("applicant_id", actor.UserID),
	)

	// 投递已提交，后续通知与回读不再受请求取消影响。
	committed := context.WithoutCancel(ctx)
	s.notifyPoster(committed, job, app, actor)

	hydrated, err := s.store.GetApplication(committed, app.ID)
	if err != nil {
		return nil, fmt.Errorf("reload application: %w", err)
	}
	return hydrated, nil
}

// notifyPoster 仅当发布者仍存在且持有雇主档案时发送新投递通知。
func (s *Service) notifyPoster(ctx context.Context, job *model.JobPosting, app *model.JobApplication, actor *auth.Actor) {
	if s.emitter == nil || job.PosterID == nil {
		return
	}
	poster, err := s.store.GetUser(ctx, *job.PosterID)
	if err != nil {
		s.logger.Debug("skip new application notification", zap.String("job_id", job.ID), zap.Error(err))
		return
	}
	if poster.EmployerProfile == nil {
		return
	}
	applicant := actor.Username
	if applicant == "" {
		applicant = actor.Email
	}
	msg := fmt.Sprintf("New application for %q from %s", job.Title, applicant)
	s.emitter.Emit(ctx, model.EventNewApplication, poster.ID, msg, map[string]any{
		"application_id": app.ID,
		"job_id":         job.ID,
		"status":         string(app.Status),
	})
}

// Withdraw 求职者撤回自己的投递。除已撤回外任何状态都可撤回，不发送通知。
func (s *Service) Withdraw(ctx context.Context, actor *auth.Actor, applicationID string) (*model.JobApplication, error) {
	if actor == nil {
		return nil, apperr.ErrUnauthenticated
	}
	app, err := s.store.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, mapStoreErr(err, "application")
	}
	if app.ApplicantID != actor.UserID {
		return nil, apperr.ErrNotOwner
	}
	if app.Status == model.StatusWithdrawn {
		return nil, apperr.ErrAlreadyWithdrawn
	}

	if err := s.store.UpdateApplicationStatus(ctx, app.ID, app.Status, model.StatusWithdrawn); err != nil {
		if errors.Is(err, storage.ErrStale) {
			return nil, s.staleWithdraw(ctx, app.ID)
		}
		return nil, fmt.Errorf("withdraw application: %w", err)
	}
	app.Status = model.StatusWithdrawn
	app.UpdatedAt = s.now()
	return app, nil
}

func (s *Service) staleWithdraw(ctx context.Context, id string) error {
	current, err := s.store.GetApplication(ctx, id)
	if err != nil {
		return mapStoreErr(err, "application")
	}
	if current.Status == model.StatusWithdrawn {
		return apperr.ErrAlreadyWithdrawn
	}
	return apperr.ErrStatusChanged
}

// UpdateStatus 雇主推进投递状态。任意状态可切换到任意其他状态，相同状态视为无效操作。
func (s *Service) UpdateStatus(ctx context.Context, actor *auth.Actor, applicationID, newStatus string) (*model.JobApplication, error) {
	if actor == nil {
		return nil, apperr.ErrUnauthenticated
	}
	if !actor.IsEmployer() {
		return nil, apperr.ErrNotAuthorized.WithMessage("only employers can update application status")
	}
	if !actor.HasActiveCompany() {
		return nil, apperr.ErrNoLinkedCompany
	}

	status := model.ApplicationStatus(textutil.Normalize(newStatus))
	if !status.Valid() {
		return nil, apperr.ErrInvalidStatus.WithField("status", "must be one of "+statusList())
	}

	app, err := s.store.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, mapStoreErr(err, "application")
	}
	if !canManage(actor, app.Job) {
		return nil, apperr.ErrNotAuthorized
	}
	if app.Status == status {
		return nil, apperr.ErrNoOpTransition
	}

	previous := app.Status
	if err := s.store.UpdateApplicationStatus(ctx, app.ID, previous, status); err != nil {
		switch {
		case errors.Is(err, storage.ErrStale):
			return nil, apperr.ErrStatusChanged
		case errors.Is(err, storage.ErrDuplicate):
			// 重新激活已撤回/拒绝的投递，而该求职者已有新的有效投递。
			return nil, apperr.ErrDuplicateActiveApplication.WithMessage("applicant already has another active application for this job")
		default:
			return nil, fmt.Errorf("update application status: %w", err)
		}
	}
	app.Status = status
	app.UpdatedAt = s.now()
	s.logger.Info("application status changed",
		zap.String("application_id", app.ID),
		zap.String("from", string(previous)),
		zap.String("to", string(status)),
	)

	if s.emitter != nil {
		title := ""
		if app.Job != nil {
			title = app.Job.Title
		}
		msg := fmt.Sprintf("Your application for %q is now %s", title, textutil.Humanize(string(status)))
		s.emitter.Emit(context.WithoutCancel(ctx), model.EventStatusChanged, app.ApplicantID, msg, map[string]any{
			"application_id": app.ID,
			"job_id":         app.JobID,
			"status":         string(status),
		})
	}
	return app, nil
}

// Get 返回单个投递，仅投递人、管理该职位的雇主与管理员可见。
func (s *Service) Get(ctx context.Context, actor *auth.Actor, id string) (*model.JobApplication, error) {
	if actor == nil {
		return nil, apperr.ErrUnauthenticated
	}
	app, err := s.store.GetApplication(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err, "application")
	}
	if app.ApplicantID == actor.UserID || actor.IsAdmin() || (actor.IsEmployer() && canManage(actor, app.Job)) {
		return app, nil
	}
	return nil, apperr.ErrNotAuthorized
}

// ListMine 返回当前求职者的全部投递，最新在前。
func (s *Service) ListMine(ctx context.Context, actor *auth.Actor) ([]model.JobApplication, error) {
	if actor == nil {
		return nil, apperr.ErrUnauthenticated
	}
	if !actor.IsSeeker() {
		return nil, apperr.ErrNotAuthorized.WithMessage("only job seekers have applications")
	}
	return s.store.ListApplications(ctx, storage.ApplicationQuery{ApplicantID: actor.UserID})
}

// ListForEmployer 返回雇主所发布职位收到的投递，jobID 非空时只看该职位。
func (s *Service) ListForEmployer(ctx context.Context, actor *auth.Actor, jobID string) ([]model.JobApplication, error) {
	if actor == nil {
		return nil, apperr.ErrUnauthenticated
	}
	if !actor.IsEmployer() {
		return nil, apperr.ErrNotAuthorized.WithMessage("only employers can list received applications")
	}
	return s.store.ListApplications(ctx, storage.ApplicationQuery{PosterID: actor.UserID, JobID: jobID})
}

// canManage 发布者本人或同公司雇主可以管理职位下的投递。
func canManage(actor *auth.Actor, job *model.JobPosting) bool {
	if job == nil {
		return false
	}
	if job.PostedBy(actor.UserID) {
		return true
	}
	return actor.CompanyID != "" && job.CompanyID == actor.CompanyID
}

func statusList() string {
	names := make([]string, 0, len(model.AllStatuses))
	for _, st := range model.AllStatuses {
		names = append(names, string(st))
	}
	return strings.Join(names, ", ")
}

func mapStoreErr(err error, entity string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NotFound(entity)
	}
	return err
}
