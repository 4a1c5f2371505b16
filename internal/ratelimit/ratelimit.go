// Package ratelimit 提供固定窗口限流，内存实现用于单实例，Redis 实现用于多实例共享计数。
package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Limiter 判断某个 key 在当前窗口内是否还能继续请求。
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// Config 限流配置。Backend 为 memory 或 redis，Limit<=0 表示不限流。
type Config struct {
	Backend   string `yaml:"backend" json:"backend"`
	Limit     int    `yaml:"limit" json:"limit"`
	Window    string `yaml:"window" json:"window"`
	RedisAddr string `yaml:"redis_addr" json:"redis_addr"`
	Prefix    string `yaml:"prefix" json:"prefix"`
}

func (c Config) window() time.Duration {
	if d, err := time.ParseDuration(c.Window); err == nil && d > 0 {
		return d
	}
	return time.Minute
}

// New 根据配置创建限流器；redis 后端返回的 closer 用于关闭连接。
func New(cfg Config, logger *zap.Logger) (Limiter, func() error, error) {
	noop := func() error { return nil }
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", "memory":
		return NewMemoryLimiter(cfg.Limit, cfg.window()), noop, nil
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, noop, fmt.Errorf("ratelimit redis backend requires redis_addr")
		}
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		prefix := cfg.Prefix
		if prefix == "" {
			prefix = "jobboard:rl"
		}
		return NewRedisLimiter(client, cfg.Limit, cfg.window(), prefix, logger), client.Close, nil
	default:
		return nil, noop, fmt.Errorf("unsupported ratelimit backend %q", cfg.Backend)
	}
}

// MemoryLimiter 进程内固定窗口计数。
type MemoryLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	buckets map[string]*bucket
	now     func() time.Time
}

type bucket struct {
	count     int
	windowEnd time.Time
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{limit: limit, window: window, buckets: make(map[string]*bucket), now: time.Now}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) bool {
	if l == nil || l.limit <= 0 || key == "" {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	b, ok := l.buckets[key]
	if !ok || now.After(b.windowEnd) {
		l.buckets[key] = &bucket{count: 1, windowEnd: now.Add(l.window)}
		return true
	}
	if b.count >= l.limit {
		return false
	}
	b.count++
	return true
}
