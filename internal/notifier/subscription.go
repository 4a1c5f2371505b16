package notifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jobboard/internal/model"
)

// SubscriberStore 定义订阅读取接口。
type SubscriberStore interface {
	ListSubscribers(ctx context.Context) ([]model.NewsletterSubscriber, error)
}

// jobNotifier 提供统一通知接口。
type jobNotifier interface {
	Notify(ctx context.Context, jobs []model.JobPosting) error
}

// SubscriptionNotifier 按订阅偏好推送新职位摘要。
type SubscriptionNotifier struct {
	store    SubscriberStore
	emailCfg EmailConfig
	sender   EmailSender
	fallback jobNotifier
}

// NewSubscriptionNotifier 创建实例。
func NewSubscriptionNotifier(store SubscriberStore, cfg EmailConfig, sender EmailSender, fallback jobNotifier) *SubscriptionNotifier {
	return &SubscriptionNotifier{
		store:    store,
		emailCfg: cfg,
		sender:   sender,
		fallback: fallback,
	}
}

// Notify 根据订阅标签过滤并逐个发送；单个收件人失败不影响其他人，错误合并返回。
func (n *SubscriptionNotifier) Notify(ctx context.Context, jobs []model.JobPosting) error {
	if len(jobs) == 0 || n.store == nil {
		return nil
	}

	subs, err := n.store.ListSubscribers(ctx)
	if err != nil {
		return fmt.Errorf("list subscribers: %w", err)
	}
	if len(subs) == 0 {
		if n.fallback != nil {
			return n.fallback.Notify(ctx, jobs)
		}
		return nil
	}

	email := NewEmailNotifier(n.emailCfg, n.sender)
	var errs []error
	for _, sub := range subs {
		matches := filterJobsBySubscription(sub, jobs)
		if len(matches) == 0 {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(sub.Channel)) {
		case "email", "":
			if err := email.Notify(ctx, sub.Email, matches); err != nil {
				errs = append(errs, fmt.Errorf("notify %s: %w", sub.Email, err))
			}
		default:
			continue
		}
	}
	return errors.Join(errs...)
}

func filterJobsBySubscription(sub model.NewsletterSubscriber, jobs []model.JobPosting) []model.JobPosting {
	if len(sub.Tags) == 0 {
		return jobs
	}
	filtered := make([]model.JobPosting, 0, len(jobs))
	for _, job := range jobs {
		if jobMatches(job, sub.Tags) {
			filtered = append(filtered, job)
		}
	}
	return filtered
}

// jobMatches 订阅中为真的标签必须全部出现在职位标签或技能中（大小写不敏感）。
func jobMatches(job model.JobPosting, tags map[string]any) bool {
	have := make(map[string]bool, len(job.Tags)+len(job.KeySkills))
	for _, t := range job.Tags {
		have[strings.ToLower(strings.TrimSpace(t))] = true
	}
	for _, s := range job.KeySkills {
		have[strings.ToLower(strings.TrimSpace(s))] = true
	}
	for k, v := range tags {
		if !isTruthy(v) {
			continue
		}
		if !have[strings.ToLower(strings.TrimSpace(k))] {
			return false
		}
	}
	return true
}

func isTruthy(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return strings.TrimSpace(strings.ToLower(val)) == "true"
	case float64:
		return val != 0
	default:
		return val != nil
	}
}
