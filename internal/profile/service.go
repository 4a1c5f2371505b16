// Package profile 负责注册与求职者/雇主档案的维护。
package profile

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"jobboard/internal/apperr"
	"jobboard/internal/auth"
	"jobboard/internal/model"
	"jobboard/internal/storage"

	"go.uber.org/zap"
)

// Store 档案服务依赖的持久化接口。
type Store interface {
	CreateUser(ctx context.Context, user *model.User) error
	EmailExists(ctx context.Context, email string) (bool, error)
	GetSeekerProfile(ctx context.Context, userID string) (*model.SeekerProfile, error)
	SaveSeekerProfile(ctx context.Context, profile *model.SeekerProfile) error
	GetEmployerProfile(ctx context.Context, userID string) (*model.EmployerProfile, error)
	UpdateEmployerProfile(ctx context.Context, userID, fullName string, employeeID *string) error
}

// RegisterInput 注册请求，凭证由上游身份服务负责。
type RegisterInput struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Phone    string `json:"phone"`
}

// EmployerProfileInput 雇主个人信息。
type EmployerProfileInput struct {
	FullName   string  `json:"full_name"`
	EmployeeID *string `json:"employee_id"`
}

// Service 档案服务。
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger.Named("profile"), now: time.Now}
}

// RegisterSeeker 注册求职者并创建空档案。
func (s *Service) RegisterSeeker(ctx context.Context, in RegisterInput) (*model.User, error) {
	return s.register(ctx, in, model.RoleJobSeeker)
}

// RegisterEmployer 注册雇主并创建未关联公司的雇主档案。
func (s *Service) RegisterEmployer(ctx context.Context, in RegisterInput) (*model.User, error) {
	return s.register(ctx, in, model.RoleEmployer)
}

func (s *Service) register(ctx context.Context, in RegisterInput, role model.Role) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.TrimSpace(in.Username)

	errs := fieldErrors{}
	switch {
	case email == "":
		errs.add("email", "is required")
	case !validEmail(email):
		errs.add("email", "must be a valid email address")
	}
	if username == "" {
		errs.add("username", "is required")
	}
	if err := errs.err("invalid registration"); err != nil {
		return nil, err
	}

	taken, err := s.store.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, apperr.ErrEmailTaken.WithField("email", "already in use")
	}

	user := &model.User{Email: email, Username: username, Phone: strings.TrimSpace(in.Phone), Role: role}
	if role == model.RoleEmployer {
		user.EmployerProfile = &model.EmployerProfile{}
	} else {
		user.SeekerProfile = &model.SeekerProfile{}
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, apperr.ErrEmailTaken.WithField("email", "already in use")
		}
		return nil, fmt.Errorf("register user: %w", err)
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("role", string(role)))
	return user, nil
}

// GetSeekerProfile 返回当前求职者的完整档案。
func (s *Service) GetSeekerProfile(ctx context.Context, actor *auth.Actor) (*model.SeekerProfile, error) {
	if err := requireRole(actor, model.RoleJobSeeker); err != nil {
		return nil, err
	}
	p, err := s.store.GetSeekerProfile(ctx, actor.UserID)
	if err != nil {
		return nil, mapStoreErr(err, "seeker profile")
	}
	return p, nil
}

// UpdateSeekerProfile 校验整份档案后原子替换，字段错误按路径返回。
func (s *Service) UpdateSeekerProfile(ctx context.Context, actor *auth.Actor, in SeekerProfileInput) (*model.SeekerProfile, error) {
	if err := requireRole(actor, model.RoleJobSeeker); err != nil {
		return nil, err
	}
	p, err := in.toModel(s.now())
	if err != nil {
		return nil, err
	}
	p.UserID = actor.UserID
	if err := s.store.SaveSeekerProfile(ctx, p); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, apperr.Validation("invalid seeker profile", map[string]string{"skills": "names must be unique"})
		}
		return nil, mapStoreErr(err, "seeker profile")
	}
	return s.GetSeekerProfile(ctx, actor)
}

// GetEmployerProfile 返回当前雇主档案及公司。
func (s *Service) GetEmployerProfile(ctx context.Context, actor *auth.Actor) (*model.EmployerProfile, error) {
	if err := requireRole(actor, model.RoleEmployer); err != nil {
		return nil, err
	}
	p, err := s.store.GetEmployerProfile(ctx, actor.UserID)
	if err != nil {
		return nil, mapStoreErr(err, "employer profile")
	}
	return p, nil
}

// UpdateEmployerProfile 更新雇主姓名与工号，工号全局唯一。
func (s *Service) UpdateEmployerProfile(ctx context.Context, actor *auth.Actor, in EmployerProfileInput) (*model.EmployerProfile, error) {
	if err := requireRole(actor, model.RoleEmployer); err != nil {
		return nil, err
	}
	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" {
		return nil, apperr.Validation("invalid employer profile", map[string]string{"full_name": "is required"})
	}
	var employeeID *string
	if in.EmployeeID != nil {
		if v := strings.TrimSpace(*in.EmployeeID); v != "" {
			employeeID = &v
		}
	}
	if err := s.store.UpdateEmployerProfile(ctx, actor.UserID, fullName, employeeID); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, apperr.ErrEmployeeIDTaken.WithField("employee_id", "already registered")
		}
		return nil, mapStoreErr(err, "employer profile")
	}
	return s.GetEmployerProfile(ctx, actor)
}

func requireRole(actor *auth.Actor, role model.Role) error {
	if actor == nil {
		return apperr.ErrUnauthenticated
	}
	if actor.Role != role {
		return apperr.ErrNotAuthorized.WithMessage("profile is only available to " + string(role) + " accounts")
	}
	return nil
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func mapStoreErr(err error, entity string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NotFound(entity)
	}
	return err
}
