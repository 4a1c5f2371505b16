package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMemoryLimiterWindow(t *testing.T) {
	t.Parallel()

	l := NewMemoryLimiter(2, time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	if !l.Allow(ctx, "u1") || !l.Allow(ctx, "u1") {
		t.Fatalf("expected first two requests allowed")
	}
	if l.Allow(ctx, "u1") {
		t.Fatalf("expected third request blocked")
	}
	if !l.Allow(ctx, "u2") {
		t.Fatalf("expected other key unaffected")
	}

	now = now.Add(time.Minute + time.Second)
	if !l.Allow(ctx, "u1") {
		t.Fatalf("expected request allowed after window reset")
	}
}

func TestMemoryLimiterDisabled(t *testing.T) {
	t.Parallel()

	l := NewMemoryLimiter(0, time.Minute)
	for i := 0; i < 10; i++ {
		if !l.Allow(context.Background(), "u1") {
			t.Fatalf("expected unlimited when limit is zero")
		}
	}
	var nilLimiter *MemoryLimiter
	if !nilLimiter.Allow(context.Background(), "u1") {
		t.Fatalf("expected nil limiter to allow")
	}
}

func TestRedisLimiterFailsOpen(t *testing.T) {
	t.Parallel()

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	core, logs := observer.New(zap.WarnLevel)

	l := NewRedisLimiter(client, 1, time.Minute, "test", zap.New(core))
	if !l.Allow(context.Background(), "u1") {
		t.Fatalf("expected unreachable redis to allow")
	}
	if logs.FilterMessage("rate limit check failed, allowing").Len() != 1 {
		t.Fatalf("expected failure to be logged, got %v", logs.All())
	}
	if NewRedisLimiter(nil, 1, time.Minute, "", nil) != nil {
		t.Fatalf("expected nil limiter without client")
	}
}

func TestNewSelectsBackend(t *testing.T) {
	t.Parallel()

	l, closer, err := New(Config{Limit: 3, Window: "10s"}, nil)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer closer()
	if mem, ok := l.(*MemoryLimiter); !ok || mem.limit != 3 || mem.window != 10*time.Second {
		t.Fatalf("expected memory limiter, got %#v", l)
	}

	if _, _, err := New(Config{Backend: "redis"}, nil); err == nil {
		t.Fatalf("expected error for redis without address")
	}
	if _, _, err := New(Config{Backend: "memcached"}, nil); err == nil {
		t.Fatalf("expected error for unknown backend")
	}

	l, closer, err = New(Config{Backend: "redis", RedisAddr: "127.0.0.1:1", Limit: 1}, nil)
	if err != nil {
		t.Fatalf("New redis error: %v", err)
	}
	defer closer()
	if _, ok := l.(*RedisLimiter); !ok {
		t.Fatalf("expected redis limiter, got %T", l)
	}
}
