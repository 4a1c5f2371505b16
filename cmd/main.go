package main

import (
	"fmt"
	"os"

	"jobboard/internal/config"
	"jobboard/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const app = "jobboard"

var (
	// Used for flags.
	cfgFile   string
	debugLogs bool
	jsonLogs  bool

	rootCmd = &cobra.Command{
		Use:           app,
		Short:         "jobboard serves the job board API and sends job digests",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is $CONFIG_FILE or config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugLogs, "debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&jsonLogs, "json", "j", false, "json format for logging")

	rootCmd.AddCommand(serveCmd, migrateCmd, digestCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadRuntime 读取配置并按命令行开关构建日志器。
func loadRuntime() (config.AppConfig, *zap.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.AppConfig{}, nil, err
	}
	log, err := logger.New(cfg.Log.JSON || jsonLogs, cfg.Log.Debug || debugLogs)
	if err != nil {
		return config.AppConfig{}, nil, err
	}
	return cfg, log, nil
}
