// Package api 暴露 JSON HTTP 接口，请求者身份取自网关写入的 X-User-ID 头。
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"jobboard/internal/apperr"
	"jobboard/internal/auth"
	"jobboard/internal/company"
	"jobboard/internal/model"
	"jobboard/internal/posting"
	"jobboard/internal/profile"
	"jobboard/internal/ratelimit"
	"jobboard/internal/subscription"

	"go.uber.org/zap"
)

// Authenticator 从请求解析调用者。
type Authenticator interface {
	ResolveRequest(r *http.Request) (*auth.Actor, error)
}

// Applications 投递状态机。
type Applications interface {
	Submit(ctx context.Context, actor *auth.Actor, jobID, coverLetter string) (*model.JobApplication, error)
	Withdraw(ctx context.Context, actor *auth.Actor, applicationID string) (*model.JobApplication, error)
	UpdateStatus(ctx context.Context, actor *auth.Actor, applicationID, status string) (*model.JobApplication, error)
	Get(ctx context.Context, actor *auth.Actor, id string) (*model.JobApplication, error)
	ListMine(ctx context.Context, actor *auth.Actor) ([]model.JobApplication, error)
	ListForEmployer(ctx context.Context, actor *auth.Actor, jobID string) ([]model.JobApplication, error)
}

// Postings 职位生命周期。
type Postings interface {
	Create(ctx context.Context, actor *auth.Actor, in posting.JobInput) (*model.JobPosting, error)
	Update(ctx context.Context, actor *auth.Actor, id string, in posting.JobInput) (*model.JobPosting, error)
	ToggleActive(ctx context.Context, actor *auth.Actor, id string) (*model.JobPosting, error)
	Delete(ctx context.Context, actor *auth.Actor, id string) error
	ListActive(ctx context.Context, f posting.Filter) ([]model.JobPosting, error)
	CountActive(ctx context.Context, f posting.Filter) (int64, error)
	GetActive(ctx context.Context, id string) (*model.JobPosting, error)
	ListMine(ctx context.Context, actor *auth.Actor) ([]model.JobPosting, error)
}

// SavedJobs 收藏职位。
type SavedJobs interface {
	Save(ctx context.Context, actor *auth.Actor, jobID string) (*model.SavedJob, error)
	Unsave(ctx context.Context, actor *auth.Actor, jobID string) error
	List(ctx context.Context, actor *auth.Actor) ([]model.SavedJob, error)
}

// Profiles 注册与档案。
type Profiles interface {
	RegisterSeeker(ctx context.Context, in profile.RegisterInput) (*model.User, error)
	RegisterEmployer(ctx context.Context, in profile.RegisterInput) (*model.User, error)
	GetSeekerProfile(ctx context.Context, actor *auth.Actor) (*model.SeekerProfile, error)
	UpdateSeekerProfile(ctx context.Context, actor *auth.Actor, in profile.SeekerProfileInput) (*model.SeekerProfile, error)
	GetEmployerProfile(ctx context.Context, actor *auth.Actor) (*model.EmployerProfile, error)
	UpdateEmployerProfile(ctx context.Context, actor *auth.Actor, in profile.EmployerProfileInput) (*model.EmployerProfile, error)
}

// Companies 公司管理。
type Companies interface {
	Create(ctx context.Context, actor *auth.Actor, in company.Input) (*model.Company, error)
	Link(ctx context.Context, actor *auth.Actor, companyID string) (*model.Company, error)
	Edit(ctx context.Context, actor *auth.Actor, in company.Input) (*model.Company, error)
	ToggleActive(ctx context.Context, actor *auth.Actor, id string) (*model.Company, error)
	ListActive(ctx context.Context) ([]model.Company, error)
	GetActive(ctx context.Context, id string) (*model.Company, error)
}

// Inbox 站内通知。
type Inbox interface {
	List(ctx context.Context, actor *auth.Actor, limit int) ([]model.Notification, error)
	UnreadCount(ctx context.Context, actor *auth.Actor) (int64, error)
	MarkRead(ctx context.Context, actor *auth.Actor, id string) error
	MarkAllRead(ctx context.Context, actor *auth.Actor) (int64, error)
	Delete(ctx context.Context, actor *auth.Actor, id string) error
	Clear(ctx context.Context, actor *auth.Actor) (int64, error)
}

// Newsletter 简报订阅。
type Newsletter interface {
	Create(ctx context.Context, req subscription.Request) (*model.NewsletterSubscriber, error)
	Unsubscribe(ctx context.Context, email string) error
}

// Deps 汇总处理器依赖。Limiter 与 Newsletter 可为空。
type Deps struct {
	Auth         Authenticator
	Applications Applications
	Postings     Postings
	Saved        SavedJobs
	Profiles     Profiles
	Companies    Companies
	Inbox        Inbox
	Newsletter   Newsletter
	Limiter      ratelimit.Limiter
	Logger       *zap.Logger
}

type handler struct {
	Deps
	logger *zap.Logger
}

// actorHandler 需要登录的处理函数。
type actorHandler func(w http.ResponseWriter, r *http.Request, actor *auth.Actor)

// NewHandler 构造 HTTP 多路复用器。
func NewHandler(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &handler{Deps: deps, logger: logger.Named("api")}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "job board api"})
	})

	mux.HandleFunc("POST /api/register/{role}", h.register)
	mux.HandleFunc("GET /api/profile/jobseeker", h.authed(h.getSeekerProfile))
	mux.HandleFunc("PUT /api/profile/jobseeker", h.authed(h.updateSeekerProfile))
	mux.HandleFunc("GET /api/profile/employer", h.authed(h.getEmployerProfile))
	mux.HandleFunc("PUT /api/profile/employer", h.authed(h.updateEmployerProfile))

	mux.HandleFunc("GET /api/companies", h.listCompanies)
	mux.HandleFunc("GET /api/companies/{id}", h.getCompany)
	mux.HandleFunc("POST /api/companies", h.authed(h.createCompany))
	mux.HandleFunc("PUT /api/companies/mine", h.authed(h.editCompany))
	mux.HandleFunc("POST /api/companies/link", h.authed(h.linkCompany))
	mux.HandleFunc("POST /api/admin/companies/{id}/toggle", h.authed(h.toggleCompany))

	mux.HandleFunc("GET /api/jobs", h.listJobs)
	mux.HandleFunc("GET /api/jobs/{id}", h.getJob)
	mux.HandleFunc("POST /api/jobs", h.authed(h.createJob))
	mux.HandleFunc("PUT /api/jobs/{id}", h.authed(h.updateJob))
	mux.HandleFunc("DELETE /api/jobs/{id}", h.authed(h.deleteJob))
	mux.HandleFunc("POST /api/jobs/{id}/toggle", h.authed(h.toggleJob))
	mux.HandleFunc("GET /api/employer/jobs", h.authed(h.listMyJobs))

	mux.HandleFunc("POST /api/jobs/{id}/apply", h.authed(h.apply))
	mux.HandleFunc("GET /api/applications", h.authed(h.listMyApplications))
	mux.HandleFunc("GET /api/applications/{id}", h.authed(h.getApplication))
	mux.HandleFunc("POST /api/applications/{id}/withdraw", h.authed(h.withdraw))
	mux.HandleFunc("PUT /api/applications/{id}/status", h.authed(h.updateStatus))
	mux.HandleFunc("GET /api/employer/applications", h.authed(h.listEmployerApplications))

	mux.HandleFunc("POST /api/jobs/{id}/save", h.authed(h.saveJob))
	mux.HandleFunc("DELETE /api/jobs/{id}/save", h.authed(h.unsaveJob))
	mux.HandleFunc("GET /api/saved-jobs", h.authed(h.listSavedJobs))

	mux.HandleFunc("GET /api/notifications", h.authed(h.listNotifications))
	mux.HandleFunc("GET /api/notifications/unread-count", h.authed(h.unreadCount))
	mux.HandleFunc("POST /api/notifications/{id}/read", h.authed(h.markRead))
	mux.HandleFunc("POST /api/notifications/read-all", h.authed(h.markAllRead))
	mux.HandleFunc("DELETE /api/notifications/{id}", h.authed(h.deleteNotification))
	mux.HandleFunc("DELETE /api/notifications", h.authed(h.clearNotifications))

	mux.HandleFunc("POST /api/newsletter", h.subscribe)
	mux.HandleFunc("DELETE /api/newsletter", h.unsubscribe)

	return mux
}

// authed 在边界解析一次 Actor，下游服务只接收解析结果。
func (h *handler) authed(next actorHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := h.Auth.ResolveRequest(r)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		next(w, r.WithContext(auth.WithActor(r.Context(), actor)), actor)
	}
}

type errorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// statusFor 把错误类别映射为 HTTP 状态码。
func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		h.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal", Message: "internal server error"})
		return
	}
	writeJSON(w, statusFor(appErr.Kind), errorBody{Error: appErr.Code, Message: appErr.Message, Fields: appErr.Fields})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Validation("invalid payload", map[string]string{"body": err.Error()})
	}
	return nil
}

// pageParams 解析 page 与 limit，limit 上限 100。
func pageParams(r *http.Request) (page, limit int) {
	limit = 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			if v > 100 {
				v = 100
			}
			limit = v
		}
	}
	page = 1
	if p := r.URL.Query().Get("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	return page, limit
}

func setPageHeaders(w http.ResponseWriter, page, limit int, hasMore bool, total int64) {
	w.Header().Set("X-Page", strconv.Itoa(page))
	w.Header().Set("X-Limit", strconv.Itoa(limit))
	w.Header().Set("X-Has-More", strconv.FormatBool(hasMore))
	w.Header().Set("X-Total", strconv.FormatInt(total, 10))
}
