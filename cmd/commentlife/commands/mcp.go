package commands

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/commentlife/internal/config"
	"github.com/Sumatoshi-tech/commentlife/pkg/mcp"
	"github.com/Sumatoshi-tech/commentlife/pkg/observability"
	"github.com/Sumatoshi-tech/commentlife/pkg/version"
)

// NewMCPCommand creates the MCP server command.
func NewMCPCommand(global *GlobalFlags) *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

Tools:
  - comments_extract: comments of an inline code snippet
  - comments_lifecycle: introduction and removal times of every comment of one file`,
		Args: cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(global.ConfigPath)
			if err != nil {
				return err
			}

			obsCfg := observabilityConfig(cfg, global, observability.ModeMCP, cobraCmd.ErrOrStderr())
			obsCfg.LogJSON = true

			if debug {
				obsCfg.LogLevel = slog.LevelDebug
			}

			providers, err := observability.Init(obsCfg)
			if err != nil {
				return err
			}

			defer func() {
				shutdownErr := providers.Shutdown(context.Background())
				if shutdownErr != nil {
					providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
				}
			}()

			red, err := observability.NewREDMetrics(providers.Meter)
			if err != nil {
				return err
			}

			walkMetrics, err := observability.NewWalkMetrics(providers.Meter)
			if err != nil {
				return err
			}

			srv := mcp.NewServer(mcp.ServerDeps{
				Logger:      providers.Logger,
				Metrics:     red,
				WalkMetrics: walkMetrics,
				Tracer:      providers.Tracer,
				Version:     version.Version,
			})

			return srv.Run(cobraCmd.Context())
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging to stderr")

	return cmd
}
