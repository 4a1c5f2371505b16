// Package auth 在请求边界解析调用者身份，并通过 context 传递给业务层。
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"jobboard/internal/apperr"
	"jobboard/internal/model"
	"jobboard/internal/storage"
)

// HeaderUserID 由上游网关注入的已认证用户 ID。
const HeaderUserID = "X-User-ID"

// Actor 当前调用者：账号、角色以及关联档案/公司。
type Actor struct {
	UserID   string
	Email    string
	Username string
	Role     model.Role

	SeekerProfileID string
	ResumeRef       string

	EmployerProfileID string
	CompanyID         string
	CompanyActive     bool
}

func (a *Actor) IsSeeker() bool   { return a != nil && a.Role == model.RoleJobSeeker }
func (a *Actor) IsEmployer() bool { return a != nil && a.Role == model.RoleEmployer }
func (a *Actor) IsAdmin() bool    { return a != nil && a.Role == model.RoleAdmin }

// HasActiveCompany 雇主已关联且公司处于启用状态。
func (a *Actor) HasActiveCompany() bool {
	return a.IsEmployer() && a.CompanyID != "" && a.CompanyActive
}

// UserLookup 按 ID 读取账号（含档案与公司）。
type UserLookup interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
}

// Authenticator 把用户 ID 解析为 Actor。
type Authenticator struct {
	users UserLookup
}

// NewAuthenticator 创建 Authenticator。
func NewAuthenticator(users UserLookup) *Authenticator {
	return &Authenticator{users: users}
}

// Resolve 读取账号并构造 Actor；ID 为空或账号不存在时返回 Unauthenticated。
func (a *Authenticator) Resolve(ctx context.Context, userID string) (*Actor, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperr.ErrUnauthenticated
	}
	user, err := a.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.ErrUnauthenticated.WithMessage("unknown user")
		}
		return nil, fmt.Errorf("resolve actor: %w", err)
	}
	return ActorFromUser(user), nil
}

// ResolveRequest 从请求头解析 Actor。
func (a *Authenticator) ResolveRequest(r *http.Request) (*Actor, error) {
	return a.Resolve(r.Context(), r.Header.Get(HeaderUserID))
}

// ActorFromUser 由账号记录构造 Actor。
func ActorFromUser(user *model.User) *Actor {
	actor := &Actor{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role,
	}
	if p := user.SeekerProfile; p != nil {
		actor.SeekerProfileID = p.ID
		actor.ResumeRef = p.ResumeRef
	}
	if p := user.EmployerProfile; p != nil {
		actor.EmployerProfileID = p.ID
		if p.CompanyID != nil {
			actor.CompanyID = *p.CompanyID
		}
		if p.Company != nil {
			actor.CompanyActive = p.Company.IsActive
		}
	}
	return actor
}

type ctxKey struct{}

// WithActor 把 Actor 写入 context。
func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, actor)
}

// FromContext 读取 context 中的 Actor。
func FromContext(ctx context.Context) (*Actor, bool) {
	actor, ok := ctx.Value(ctxKey{}).(*Actor)
	return actor, ok && actor != nil
}
