package main

import (
	"context"
	"fmt"

	"jobboard/internal/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Send one job digest to newsletter subscribers and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := loadRuntime()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		sent, err := runOnceManual(cmd.Context(), cfg, func(c config.AppConfig) (appDeps, func(), error) {
			return buildApp(c, log)
		})
		if err != nil {
			return err
		}
		log.Info("digest finished", zap.Int("jobs", sent))
		return nil
	},
}

// runOnceManual 装配依赖后手动执行一次简报推送。
func runOnceManual(ctx context.Context, cfg config.AppConfig, build func(config.AppConfig) (appDeps, func(), error)) (int, error) {
	deps, cleanup, err := build(cfg)
	if err != nil {
		return 0, fmt.Errorf("build app: %w", err)
	}
	defer cleanup()

	if deps.digest == nil {
		return 0, fmt.Errorf("digest runner not configured")
	}
	return deps.digest.RunOnce(ctx)
}
