// Package apperr 定义业务错误分类，HTTP 层据此映射状态码。
package apperr

import (
	"errors"
	"fmt"
)

// Kind 错误类别。
type Kind string

const (
	KindValidation      Kind = "validation"
	KindConflict        Kind = "conflict"
	KindForbidden       Kind = "forbidden"
	KindNotFound        Kind = "not_found"
	KindUnauthenticated Kind = "unauthenticated"
	KindRateLimited     Kind = "rate_limited"
	KindInternal        Kind = "internal"
)

// Error 携带类别、稳定错误码与可选字段级详情。
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is 按错误码比较，使 errors.Is(err, ErrNoOpTransition) 对带自定义消息的副本同样成立。
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithMessage 返回替换了消息的副本。
func (e *Error) WithMessage(msg string) *Error {
	cp := *e
	cp.Message = msg
	return &cp
}

// WithField 返回追加字段详情的副本。
func (e *Error) WithField(field, detail string) *Error {
	cp := *e
	cp.Fields = make(map[string]string, len(e.Fields)+1)
	for k, v := range e.Fields {
		cp.Fields[k] = v
	}
	cp.Fields[field] = detail
	return &cp
}

func newError(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

var (
	ErrDuplicateActiveApplication = newError(KindConflict, "duplicate_active_application",
		"you already have an active application for this job; wait for a decision or withdraw it before applying again")
	ErrJobNotActive     = newError(KindNotFound, "job_not_active", "job is not accepting applications")
	ErrAlreadyWithdrawn = newError(KindConflict, "already_withdrawn", "application is already withdrawn")
	ErrNotOwner         = newError(KindForbidden, "not_owner", "application belongs to another user")
	ErrInvalidStatus    = newError(KindValidation, "invalid_status", "invalid application status")
	ErrNoOpTransition   = newError(KindConflict, "noop_transition", "application already has this status")
	ErrStatusChanged    = newError(KindConflict, "status_changed", "application status changed; reload and retry")
	ErrNotAuthorized    = newError(KindForbidden, "not_authorized", "not authorized for this operation")
	ErrDuplicateTitle   = newError(KindConflict, "duplicate_title", "a job with this title already exists for your company")
	ErrNoLinkedCompany  = newError(KindForbidden, "no_linked_company", "link an active company before managing jobs")
	ErrUnauthenticated  = newError(KindUnauthenticated, "unauthenticated", "authentication required")
	ErrAlreadySaved     = newError(KindConflict, "already_saved", "job is already saved")
	ErrEmailTaken       = newError(KindConflict, "email_taken", "this email is already in use")
	ErrCompanyNameTaken = newError(KindConflict, "company_name_taken", "a company with this name already exists")
	ErrEmployeeIDTaken  = newError(KindConflict, "employee_id_taken", "this employee id is already registered")
	ErrRateLimited      = newError(KindRateLimited, "rate_limited", "too many requests")
	ErrNotFound         = newError(KindNotFound, "not_found", "resource not found")
	ErrValidation       = newError(KindValidation, "validation_failed", "invalid request")
)

// NotFound 返回指定实体的未找到错误。
func NotFound(entity string) *Error {
	return ErrNotFound.WithMessage(entity + " not found")
}

// Validation 返回带字段详情的校验错误。
func Validation(msg string, fields map[string]string) *Error {
	e := ErrValidation.WithMessage(msg)
	e.Fields = fields
	return e
}

// KindOf 返回错误类别，非 *Error 一律视为内部错误。
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
