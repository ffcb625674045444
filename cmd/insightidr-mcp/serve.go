package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tphakala/go-insightidr"
	"github.com/tphakala/go-insightidr/internal/config"
	"github.com/tphakala/go-insightidr/internal/logging"
	"github.com/tphakala/go-insightidr/internal/server"
	"github.com/tphakala/go-insightidr/internal/tools"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP over stdio (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}
}

func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: opts.configFile,
		EnvFile:    opts.envFile,
	})
	if err != nil {
		return nil, err
	}

	if opts.logLevel == "" && opts.metricsAddr == "" {
		return cfg, nil
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.metricsAddr != "" {
		cfg.MetricsAddr = opts.metricsAddr
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())

	endpoint, err := cfg.Endpoint()
	if err != nil {
		return err
	}

	client, err := insightidr.NewClient(
		insightidr.WithBaseURL(endpoint),
		insightidr.WithAPIKey(cfg.APIKey),
		insightidr.WithTimeout(cfg.Timeout()),
		insightidr.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	metrics := server.NewMetrics()
	ts := tools.New(client, tools.WithLogger(logger), tools.WithRecorder(metrics))
	srv := server.New(ts, version, logger)

	logger.Info().
		Str("base_url", client.BaseURL()).
		Dur("timeout", client.Timeout()).
		Str("version", version).
		Msg("starting insightidr-mcp")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	if cfg.MetricsAddr != "" {
		ln, err := net.Listen("tcp", cfg.MetricsAddr)
		if err != nil {
			return fmt.Errorf("metrics listener: %w", err)
		}
		logger.Info().Str("addr", ln.Addr().String()).Msg("serving metrics")
		g.Go(func() error {
			return server.ServeMetrics(gctx, ln, metrics)
		})
	}

	g.Go(func() error {
		// stdin closing ends the session and takes the metrics server with it.
		defer stop()
		return srv.ServeStdio(gctx, cmd.InOrStdin(), cmd.OutOrStdout())
	})

	return g.Wait()
}
