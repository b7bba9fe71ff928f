package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/podium-live/podium-server/internal/app"
	"github.com/podium-live/podium-server/internal/config"
	"github.com/podium-live/podium-server/internal/log"
)

var version = "dev"

func main() {
	var (
		configPath string
		addr       string
		logLevel   string
	)

	root := &cobra.Command{
		Use:          "podium-server",
		Short:        "Single-room live presentation sync server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bootLogger := log.New(logLevel)
			cfg, path, err := config.Load(bootLogger, configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}

			logger := log.New(cfg.LogLevel)
			logger.Info().Str("config", path).Msg("configuration loaded")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := app.New(cfg, logger)
			if err != nil {
				return err
			}

			logger.Info().Str("addr", cfg.Addr).Msg("starting podium server")
			if err := application.Run(ctx); err != nil {
				return err
			}
			logger.Info().Msg("server stopped")
			return nil
		},
	}

	root.Flags().StringVar(&configPath, "config", "", "path to config file")
	root.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides config)")
	root.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the server version",
		Run: func(*cobra.Command, []string) {
			fmt.Println(version)
		},
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
