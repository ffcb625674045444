package main

import (
	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = "none"
)

type rootOptions struct {
	configFile  string
	envFile     string
	logLevel    string
	metricsAddr string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "insightidr-mcp",
		Short: "MCP server for the Rapid7 InsightIDR API",
		Long: `insightidr-mcp exposes Rapid7 InsightIDR investigations, alerts, log search,
assets, accounts, threat indicators and saved queries as MCP tools.

It speaks JSON-RPC on stdin/stdout and logs to stderr. Configuration comes
from an optional YAML file, an optional .env file and INSIGHTIDR_* environment
variables (INSIGHTIDR_API_KEY is required).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "path to a YAML config file")
	flags.StringVar(&opts.envFile, "env-file", "", "path to a .env file (defaults to ./.env when present)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level override (trace, debug, info, warn, error)")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")

	root.AddCommand(newServeCmd(opts), newVersionCmd())
	return root
}
