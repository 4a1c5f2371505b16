// Package company 管理公司资料以及雇主与公司的关联。
package company

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"jobboard/internal/apperr"
	"jobboard/internal/auth"
	"jobboard/internal/model"
	"jobboard/internal/storage"

	"go.uber.org/zap"
)

// Store 公司服务依赖的持久化接口。
type Store interface {
	CreateCompany(ctx context.Context, company *model.Company, linkUserID string) error
	GetCompany(ctx context.Context, id string) (*model.Company, error)
	ListCompanies(ctx context.Context, activeOnly bool) ([]model.Company, error)
	CompanyNameExists(ctx context.Context, name, excludeID string) (bool, error)
	UpdateCompany(ctx context.Context, company *model.Company) error
	SetCompanyActive(ctx context.Context, id string, active bool) error
	LinkEmployerCompany(ctx context.Context, userID, companyID string) error
}

// Input 公司资料。
type Input struct {
	Name          string `json:"name"`
	Slogan        string `json:"slogan"`
	Description   string `json:"description"`
	Website       string `json:"website"`
	Industry      string `json:"industry"`
	EmployeeCount *int   `json:"employee_count"`
	FoundedYear   *int   `json:"founded_year"`
	Address       string `json:"company_address"`
}

func (in Input) toModel(now time.Time) (*model.Company, error) {
	fields := map[string]string{}
	c := &model.Company{
		Name:          strings.TrimSpace(in.Name),
		Slogan:        strings.TrimSpace(in.Slogan),
		Description:   strings.TrimSpace(in.Description),
		Website:       strings.TrimSpace(in.Website),
		Industry:      strings.TrimSpace(in.Industry),
		EmployeeCount: in.EmployeeCount,
		FoundedYear:   in.FoundedYear,
		Address:       strings.TrimSpace(in.Address),
	}
	if c.Name == "" {
		fields["name"] = "is required"
	}
	if c.Website != "" {
		u, err := url.Parse(c.Website)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			fields["website"] = "must be an http(s) URL"
		}
	}
	if c.EmployeeCount != nil && *c.EmployeeCount < 0 {
		fields["employee_count"] = "must not be negative"
	}
	if c.FoundedYear != nil && (*c.FoundedYear < 1800 || *c.FoundedYear > now.Year()) {
		fields["founded_year"] = fmt.Sprintf("must be between 1800 and %d", now.Year())
	}
	if len(fields) > 0 {
		return nil, apperr.Validation("invalid company", fields)
	}
	return c, nil
}

// Service 公司服务。
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger.Named("company"), now: time.Now}
}

// Create 雇主创建公司并自动关联到自己，编号 CMP-NNN 由存储层生成。
func (s *Service) Create(ctx context.Context, actor *auth.Actor, in Input) (*model.Company, error) {
	if err := requireEmployer(actor); err != nil {
		return nil, err
	}
	c, err := in.toModel(s.now())
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, c.Name, ""); err != nil {
		return nil, err
	}
	if err := s.store.CreateCompany(ctx, c, actor.UserID); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, apperr.ErrCompanyNameTaken
		}
		return nil, fmt.Errorf("create company: %w", err)
	}
	s.logger.Info("company created", zap.String("company_id", c.ID), zap.String("custom_id", c.CustomID))
	return c, nil
}

// Link 雇主关联到一个已存在且启用的公司。
func (s *Service) Link(ctx context.Context, actor *auth.Actor, companyID string) (*model.Company, error) {
	if err := requireEmployer(actor); err != nil {
		return nil, err
	}
	c, err := s.GetActive(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if err := s.store.LinkEmployerCompany(ctx, actor.UserID, c.ID); err != nil {
		return nil, mapStoreErr(err, "employer profile")
	}
	return c, nil
}

// Edit 雇主编辑自己关联的公司。
func (s *Service) Edit(ctx context.Context, actor *auth.Actor, in Input) (*model.Company, error) {
	if err := requireEmployer(actor); err != nil {
		return nil, err
	}
	if actor.CompanyID == "" {
		return nil, apperr.ErrNoLinkedCompany
	}
	c, err := in.toModel(s.now())
	if err != nil {
		return nil, err
	}
	c.ID = actor.CompanyID
	if err := s.ensureUniqueName(ctx, c.Name, c.ID); err != nil {
		return nil, err
	}
	if err := s.store.UpdateCompany(ctx, c); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, apperr.ErrCompanyNameTaken
		}
		return nil, mapStoreErr(err, "company")
	}
	updated, err := s.store.GetCompany(ctx, c.ID)
	if err != nil {
		return nil, mapStoreErr(err, "company")
	}
	return updated, nil
}

// ToggleActive 管理员启用或停用公司。
func (s *Service) ToggleActive(ctx context.Context, actor *auth.Actor, id string) (*model.Company, error) {
	if actor == nil {
		return nil, apperr.ErrUnauthenticated
	}
	if !actor.IsAdmin() {
		return nil, apperr.ErrNotAuthorized.WithMessage("only admins can toggle companies")
	}
	c, err := s.store.GetCompany(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err, "company")
	}
	c.IsActive = !c.IsActive
	if err := s.store.SetCompanyActive(ctx, c.ID, c.IsActive); err != nil {
		return nil, mapStoreErr(err, "company")
	}
	s.logger.Info("company toggled", zap.String("company_id", c.ID), zap.Bool("active", c.IsActive))
	return c, nil
}

// ListActive 返回启用中的公司。
func (s *Service) ListActive(ctx context.Context) ([]model.Company, error) {
	return s.store.ListCompanies(ctx, true)
}

// GetActive 返回启用中的公司，停用公司视为不存在。
func (s *Service) GetActive(ctx context.Context, id string) (*model.Company, error) {
	c, err := s.store.GetCompany(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err, "company")
	}
	if !c.IsActive {
		return nil, apperr.NotFound("company")
	}
	return c, nil
}

func (s *Service) ensureUniqueName(ctx context.Context, name, excludeID string) error {
	taken, err := s.store.CompanyNameExists(ctx, name, excludeID)
	if err != nil {
		return fmt.Errorf("check company name: %w", err)
	}
	if taken {
		return apperr.ErrCompanyNameTaken.WithField("name", "already exists")
	}
	return nil
}

func requireEmployer(actor *auth.Actor) error {
	if actor == nil {
		return apperr.ErrUnauthenticated
	}
	if !actor.IsEmployer() {
		return apperr.ErrNotAuthorized.WithMessage("only employers can manage companies")
	}
	return nil
}

func mapStoreErr(err error, entity string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NotFound(entity)
	}
	return err
}
