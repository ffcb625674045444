// Command insightidr-mcp serves the InsightIDR API as MCP tools over stdio.
//
// Usage:
//
//	insightidr-mcp [serve] [--config file] [--env-file file] [--log-level level] [--metrics-addr addr]
//	insightidr-mcp version
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
