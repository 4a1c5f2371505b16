// Package digest 周期性地把新发布的职位推送给简报订阅者。
package digest

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"jobboard/internal/model"
	"jobboard/internal/storage"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Config 用于简报调度配置。
type Config struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Interval string `yaml:"interval" json:"interval"`
	Timeout  string `yaml:"timeout" json:"timeout"`
	// Lookback 首次运行时回溯的时间窗口。
	Lookback string `yaml:"lookback" json:"lookback"`
	MaxJobs  int    `yaml:"max_jobs" json:"max_jobs"`
}

// Store 抽象存储接口，便于测试替换。
type Store interface {
	ListJobs(ctx context.Context, opts storage.JobQueryOptions) ([]model.JobPosting, error)
}

// Notifier 用于发送新职位简报。
type Notifier interface {
	Notify(ctx context.Context, jobs []model.JobPosting) error
}

// Runner 按固定间隔收集新职位并推送。
type Runner struct {
	store     Store
	notif     Notifier
	logger    *zap.Logger
	interval  time.Duration
	timeout   time.Duration
	lookback  time.Duration
	maxJobs   int
	running   atomic.Bool
	mu        sync.Mutex
	lastRun   time.Time
	newTicker func(time.Duration) ticker
	now       func() time.Time
}

type ticker interface {
	C() <-chan time.Time
	Stop()
}

// NewRunner 创建 Runner，解析配置的间隔与超时。
func NewRunner(store Store, n Notifier, cfg Config, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	maxJobs := cfg.MaxJobs
	if maxJobs <= 0 {
		maxJobs = 100
	}
	return &Runner{
		store:     store,
		notif:     n,
		logger:    logger.Named("digest"),
		interval:  parseDuration(cfg.Interval, 24*time.Hour),
		timeout:   parseDuration(cfg.Timeout, time.Minute),
		lookback:  parseDuration(cfg.Lookback, 24*time.Hour),
		maxJobs:   maxJobs,
		newTicker: defaultTicker,
		now:       time.Now,
	}
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	return fallback
}

// Start 启动调度循环，直到上下文取消。单次失败只记录日志，不终止循环。
func (r *Runner) Start(ctx context.Context) error {
	if r.store == nil || r.notif == nil {
		return fmt.Errorf("digest runner missing dependencies")
	}

	g, ctx := errgroup.WithContext(ctx)
	tick := r.newTicker(r.interval)
	ch := tick.C()

	g.Go(func() error {
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ch:
				if sent, err := r.RunOnce(ctx); err != nil {
					r.logger.Warn("digest run failed", zap.Error(err))
				} else if sent > 0 {
					r.logger.Info("digest sent", zap.Int("jobs", sent))
				}
			drain:
				for {
					select {
					case <-ch:
						continue
					default:
						break drain
					}
				}
			}
		}
	})

	return g.Wait()
}

// RunOnce 推送自上次成功运行以来发布的职位，返回推送的职位数。
// 已有运行在进行时直接返回 0。
func (r *Runner) RunOnce(ctx context.Context) (int, error) {
	if r.running.Swap(true) {
		return 0, nil
	}
	defer r.running.Store(false)

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	started := r.now()
	r.mu.Lock()
	since := r.lastRun
	r.mu.Unlock()
	if since.IsZero() {
		since = started.Add(-r.lookback)
	}

	jobs, err := r.store.ListJobs(ctx, storage.JobQueryOptions{ActiveOnly: true, Since: since, Limit: r.maxJobs})
	if err != nil {
		return 0, fmt.Errorf("list new jobs: %w", err)
	}
	if len(jobs) > 0 {
		if err := r.notif.Notify(ctx, jobs); err != nil {
			return 0, fmt.Errorf("notify: %w", err)
		}
	}

	r.mu.Lock()
	r.lastRun = started
	r.mu.Unlock()
	return len(jobs), nil
}

func defaultTicker(d time.Duration) ticker {
	t := time.NewTicker(d)
	return tickerWrapper{t}
}

type tickerWrapper struct {
	*time.Ticker
}

func (t tickerWrapper) C() <-chan time.Time { return t.Ticker.C }
func (t tickerWrapper) Stop()               { t.Ticker.Stop() }
