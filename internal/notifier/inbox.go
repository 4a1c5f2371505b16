package notifier

import (
	"context"
	"errors"

	"jobboard/internal/apperr"
	"jobboard/internal/auth"
	"jobboard/internal/model"
	"jobboard/internal/storage"
)

// InboxStore 用户通知的读写接口。
type InboxStore interface {
	ListNotifications(ctx context.Context, userID string, limit int) ([]model.Notification, error)
	CountUnreadNotifications(ctx context.Context, userID string) (int64, error)
	MarkNotificationRead(ctx context.Context, userID, id string) error
	MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error)
	DeleteNotification(ctx context.Context, userID, id string) error
	ClearNotifications(ctx context.Context, userID string) (int64, error)
}

// Inbox 用户查看与管理自己的通知，只能操作属于自己的记录。
type Inbox struct {
	store InboxStore
}

func NewInbox(store InboxStore) *Inbox {
	return &Inbox{store: store}
}

func (i *Inbox) List(ctx context.Context, actor *auth.Actor, limit int) ([]model.Notification, error) {
	if actor == nil {
		return nil, apperr.ErrUnauthenticated
	}
	return i.store.ListNotifications(ctx, actor.UserID, limit)
}

func (i *Inbox) UnreadCount(ctx context.Context, actor *auth.Actor) (int64, error) {
	if actor == nil {
		return 0, apperr.ErrUnauthenticated
	}
	return i.store.CountUnreadNotifications(ctx, actor.UserID)
}

func (i *Inbox) MarkRead(ctx context.Context, actor *auth.Actor, id string) error {
	if actor == nil {
		return apperr.ErrUnauthenticated
	}
	return notFound(i.store.MarkNotificationRead(ctx, actor.UserID, id))
}

func (i *Inbox) MarkAllRead(ctx context.Context, actor *auth.Actor) (int64, error) {
	if actor == nil {
		return 0, apperr.ErrUnauthenticated
	}
	return i.store.MarkAllNotificationsRead(ctx, actor.UserID)
}

func (i *Inbox) Delete(ctx context.Context, actor *auth.Actor, id string) error {
	if actor == nil {
		return apperr.ErrUnauthenticated
	}
	return notFound(i.store.DeleteNotification(ctx, actor.UserID, id))
}

func (i *Inbox) Clear(ctx context.Context, actor *auth.Actor) (int64, error) {
	if actor == nil {
		return 0, apperr.ErrUnauthenticated
	}
	return i.store.ClearNotifications(ctx, actor.UserID)
}

func notFound(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NotFound("notification")
	}
	return err
}
