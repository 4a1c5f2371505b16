package notifier

import (
	"context"
	"strings"

	"jobboard/internal/model"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// NotificationStore 写入站内通知并查询收件人邮箱。
type NotificationStore interface {
	CreateNotification(ctx context.Context, n *model.Notification) error
	GetUser(ctx context.Context, id string) (*model.User, error)
}

// Deliverer 接收待发送的邮件。
type Deliverer interface {
	Enqueue(ctx context.Context, key string, msg EmailMessage)
}

var eventSubjects = map[model.NotificationEvent]string{
	model.EventNewApplication: "New application received",
	model.EventStatusChanged:  "Your application status changed",
}

// Emitter 记录站内通知并尽力发送邮件。所有失败只记录日志，不影响触发它的业务操作。
type Emitter struct {
	store    NotificationStore
	delivery Deliverer
	from     string
	logger   *zap.Logger
}

// NewEmitter 创建 Emitter；delivery 为 nil 时只写站内通知。
func NewEmitter(store NotificationStore, delivery Deliverer, from string, logger *zap.Logger) *Emitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Emitter{store: store, delivery: delivery, from: from, logger: logger.Named("notify")}
}

// Emit 为目标用户写入一条未读通知并投递邮件，返回写入的记录（失败时为 nil）。
func (e *Emitter) Emit(ctx context.Context, event model.NotificationEvent, userID, message string, data map[string]any) *model.Notification {
	n := &model.Notification{
		UserID:  userID,
		Event:   event,
		Message: message,
		Data:    datatypes.JSONMap(data),
	}
	if err := e.store.CreateNotification(ctx, n); err != nil {
		e.logger.Error("create notification failed",
			zap.String("user_id", userID),
			zap.String("event", string(event)),
			zap.Error(err),
		)
		return nil
	}

	if e.delivery == nil {
		return n
	}
	user, err := e.store.GetUser(ctx, userID)
	if err != nil {
		e.logger.Warn("lookup notification recipient failed", zap.String("user_id", userID), zap.Error(err))
		return n
	}
	if strings.TrimSpace(user.Email) == "" {
		return n
	}

	subject, ok := eventSubjects[event]
	if !ok {
		subject = "Notification"
	}
	e.delivery.Enqueue(ctx, userID, EmailMessage{
		From:    e.from,
		To:      []string{user.Email},
		Subject: subject,
		Body:    message,
	})
	return n
}
