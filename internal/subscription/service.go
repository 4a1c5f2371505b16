package subscription

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"jobboard/internal/apperr"
	"jobboard/internal/model"
	"jobboard/internal/storage"

	"gorm.io/datatypes"
)

// Store 定义持久化接口。
type Store interface {
	UpsertSubscriber(ctx context.Context, sub *model.NewsletterSubscriber) error
	DeactivateSubscriber(ctx context.Context, email string) error
}

// Config 控制可用渠道与可选标签。
type Config struct {
	AllowedChannels []string `yaml:"allowed_channels" json:"allowed_channels"`
	TagCandidates   []string `yaml:"tag_candidates" json:"tag_candidates"`
}

// Request 表示简报订阅请求。
type Request struct {
	Email   string   `json:"email"`
	Channel string   `json:"channel"`
	Tags    []string `json:"tags"`
}

// Service 负责验证与写入订阅偏好。
type Service struct {
	store    Store
	channels map[string]struct{}
	tags     map[string]string
}

// NewService 创建订阅服务。
func NewService(store Store, cfg Config) *Service {
	channelMap := make(map[string]struct{})
	for _, ch := range cfg.AllowedChannels {
		if trimmed := strings.ToLower(strings.TrimSpace(ch)); trimmed != "" {
			channelMap[trimmed] = struct{}{}
		}
	}
	if len(channelMap) == 0 {
		channelMap["email"] = struct{}{}
	}
	tagLookup := make(map[string]string)
	for _, tag := range cfg.TagCandidates {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			tagLookup[strings.ToLower(trimmed)] = trimmed
		}
	}
	return &Service{store: store, channels: channelMap, tags: tagLookup}
}

// Create 校验请求并写入数据库，重复邮箱会重新启用原订阅。
func (s *Service) Create(ctx context.Context, req Request) (*model.NewsletterSubscriber, error) {
	email, err := parseEmail(req.Email)
	if err != nil {
		return nil, err
	}

	channel := strings.ToLower(strings.TrimSpace(req.Channel))
	if channel == "" {
		channel = "email"
	}
	if _, ok := s.channels[channel]; !ok {
		return nil, apperr.Validation("unsupported channel", map[string]string{"channel": channel + " is not supported"})
	}

	tagMap := datatypes.JSONMap{}
	for _, tag := range req.Tags {
		key := strings.ToLower(strings.TrimSpace(tag))
		if key == "" {
			continue
		}
		canonical, ok := s.tags[key]
		if !ok && len(s.tags) > 0 {
			return nil, apperr.Validation("unknown tag", map[string]string{"tags": "unknown tag " + tag})
		}
		if canonical == "" {
			canonical = strings.TrimSpace(tag)
		}
		tagMap[canonical] = true
	}

	sub := &model.NewsletterSubscriber{
		Email:   email,
		Channel: channel,
		Tags:    tagMap,
	}
	if err := s.store.UpsertSubscriber(ctx, sub); err != nil {
		return nil, fmt.Errorf("save subscriber: %w", err)
	}
	return sub, nil
}

// Unsubscribe 停用订阅，未订阅的邮箱返回 NotFound。
func (s *Service) Unsubscribe(ctx context.Context, email string) error {
	addr, err := parseEmail(email)
	if err != nil {
		return err
	}
	if err := s.store.DeactivateSubscriber(ctx, addr); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound("subscriber")
		}
		return fmt.Errorf("unsubscribe: %w", err)
	}
	return nil
}

func parseEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if email == "" {
		return "", apperr.Validation("email required", map[string]string{"email": "is required"})
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return "", apperr.Validation("invalid email", map[string]string{"email": "is not a valid address"})
	}
	return strings.ToLower(addr.Address), nil
}
