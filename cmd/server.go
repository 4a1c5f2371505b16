package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"jobboard/internal/api"
	"jobboard/internal/application"
	"jobboard/internal/auth"
	"jobboard/internal/company"
	"jobboard/internal/config"
	"jobboard/internal/digest"
	"jobboard/internal/notifier"
	"jobboard/internal/posting"
	"jobboard/internal/profile"
	"jobboard/internal/ratelimit"
	"jobboard/internal/storage"
	"jobboard/internal/subscription"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, the notification dispatcher and the digest scheduler",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := loadRuntime()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		deps, cleanup, err := buildApp(cfg, log)
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := &http.Server{Addr: cfg.Server.Addr, Handler: deps.handler, ReadHeaderTimeout: 10 * time.Second}
		tasks := []func(context.Context) error{deps.dispatcher.Run}
		if cfg.Digest.Enabled {
			tasks = append(tasks, deps.digest.Start)
		}

		log.Info("listening", zap.String("addr", cfg.Server.Addr))
		return runServer(ctx, srv, cfg.Server.ShutdownWait(), tasks...)
	},
}

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// digestRunner 简报调度，serve 中周期运行，digest 命令手动触发一次。
type digestRunner interface {
	Start(ctx context.Context) error
	RunOnce(ctx context.Context) (int, error)
}

// runServer 运行 HTTP 服务与后台任务，ctx 取消后优雅关闭服务器并等待后台任务退出。
func runServer(ctx context.Context, srv httpServer, shutdownTimeout time.Duration, tasks ...func(context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, task := range tasks {
		task := task
		g.Go(func() error {
			if err := task(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	})

	return g.Wait()
}

type appDeps struct {
	handler    http.Handler
	dispatcher *notifier.Dispatcher
	digest     digestRunner
}

// buildApp 按配置装配存储、服务与 HTTP 处理器；返回的 cleanup 关闭数据库与 Redis 连接。
func buildApp(cfg config.AppConfig, log *zap.Logger) (appDeps, func(), error) {
	store, err := storage.Open(cfg.Database)
	if err != nil {
		return appDeps{}, func() {}, fmt.Errorf("init store: %w", err)
	}

	limiter, closeLimiter, err := ratelimit.New(cfg.RateLimit, log)
	if err != nil {
		_ = store.Close()
		return appDeps{}, func() {}, err
	}
	cleanup := func() {
		if err := closeLimiter(); err != nil {
			log.Warn("close rate limiter", zap.Error(err))
		}
		if err := store.Close(); err != nil {
			log.Warn("close store", zap.Error(err))
		}
	}

	sender := buildSender(cfg.Email, log)
	dispatcher := notifier.NewDispatcher(sender, cfg.Notifications.Workers, cfg.Notifications.QueueSize, log)
	emitter := notifier.NewEmitter(store, dispatcher, cfg.Email.From, log)

	handler := api.NewHandler(api.Deps{
		Auth:         auth.NewAuthenticator(store),
		Applications: application.NewService(store, emitter, log),
		Postings:     posting.NewService(store, log),
		Saved:        posting.NewSavedService(store),
		Profiles:     profile.NewService(store, log),
		Companies:    company.NewService(store, log),
		Inbox:        notifier.NewInbox(store),
		Newsletter:   subscription.NewService(store, cfg.Subscription),
		Limiter:      limiter,
		Logger:       log,
	})

	digestNotifier := notifier.NewSubscriptionNotifier(store, cfg.Email, sender, notifier.NewLogNotifier(log))
	runner := digest.NewRunner(store, digestNotifier, cfg.Digest, log)

	return appDeps{handler: handler, dispatcher: dispatcher, digest: runner}, cleanup, nil
}

// buildSender 未配置 SMTP 时邮件只写日志。
func buildSender(cfg notifier.EmailConfig, log *zap.Logger) notifier.EmailSender {
	if !cfg.Enabled() || cfg.From == "" {
		log.Info("email delivery disabled: missing host/from, logging messages instead")
		return notifier.NewLogSender(log)
	}
	return notifier.NewSMTPClient(cfg)
}
