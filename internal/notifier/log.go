package notifier

import (
	"context"
	"strings"

	"jobboard/internal/model"

	"go.uber.org/zap"
)

// LogSender 只把邮件写入日志，未配置 SMTP 时使用。
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender 创建 LogSender。
func NewLogSender(logger *zap.Logger) *LogSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSender{logger: logger.Named("mail")}
}

func (s *LogSender) Send(ctx context.Context, msg EmailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.logger.Info("email",
		zap.String("to", strings.Join(msg.To, ",")),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}

// LogNotifier 仅打印新职位，没有订阅者时作为兜底。
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier 创建日志通知器。
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger.Named("digest")}
}

// Notify 逐条打印新职位信息。
func (n LogNotifier) Notify(ctx context.Context, jobs []model.JobPosting) error {
	for _, job := range jobs {
		n.logger.Info("new job",
			zap.String("job_id", job.ID),
			zap.String("title", job.Title),
			zap.String("location", job.Location),
		)
	}
	return nil
}
