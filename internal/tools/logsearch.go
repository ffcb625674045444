package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tphakala/go-insightidr"
)

const (
	defaultTimeRange = "last 24 hours"
	defaultPerPage   = 50
	maxPerPage       = 500
)

// leqlArgs describe a LEQL statement and the window it runs over.
type leqlArgs struct {
	LogSetID  string   `json:"logset_id" validate:"required"`
	Query     string   `json:"query" validate:"required"`
	TimeRange string   `json:"time_range"`
	From      *int64   `json:"from" validate:"omitempty,gte=0"`
	To        *int64   `json:"to" validate:"required_with=From"`
	Logs      []string `json:"logs"`
}

func (a *leqlArgs) setDefaults() {
	a.Query = strings.TrimSpace(a.Query)
	if a.From == nil && a.TimeRange == "" {
		a.TimeRange = defaultTimeRange
	}
}

func (a *leqlArgs) leql() (insightidr.LEQL, error) {
	q := insightidr.LEQL{Statement: a.Query}
	switch {
	case a.From != nil:
		if a.To != nil && *a.To <= *a.From {
			return q, invalidArgs("to must be after from")
		}
		q.During = &insightidr.During{From: a.From, To: a.To}
	default:
		q.During = &insightidr.During{TimeRange: a.TimeRange}
	}
	return q, nil
}

type searchLogsArgs struct {
	leqlArgs
	PerPage int `json:"per_page" validate:"gte=1,lte=500"`
}

func (a *searchLogsArgs) setDefaults() {
	a.leqlArgs.setDefaults()
	if a.PerPage == 0 {
		a.PerPage = defaultPerPage
	}
}

type logEntryArgs struct {
	LogSetID string `json:"logset_id" validate:"required"`
	LogID    string `json:"log_id" validate:"required"`
}

func leqlProperties() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("logset_id", mcp.Required(), mcp.Description("Log set to query (see list_log_sets)")),
		mcp.WithString("query", mcp.Required(), mcp.Description("LEQL statement, e.g. where(source_ip=10.0.0.1)")),
		mcp.WithString("time_range",
			mcp.Description("Relative window such as \"last 1 hour\"; ignored when from is set"),
			mcp.DefaultString(defaultTimeRange),
		),
		mcp.WithNumber("from", mcp.Description("Window start, epoch milliseconds"), mcp.Min(0)),
		mcp.WithNumber("to", mcp.Description("Window end, epoch milliseconds; required with from")),
		mcp.WithArray("logs",
			mcp.Description("Restrict to these log IDs within the set"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	}
}

func (ts *Toolset) logSearchTools() []server.ServerTool {
	return []server.ServerTool{
		{
			Tool: newTool("search_logs",
				"Run a LEQL query against a log set and return matching events.",
				with(
					[]mcp.ToolOption{readOnly()},
					leqlProperties(),
					[]mcp.ToolOption{
						mcp.WithNumber("per_page",
							mcp.Description("Maximum events to return"),
							mcp.DefaultNumber(defaultPerPage),
							mcp.Min(1),
							mcp.Max(maxPerPage),
						),
					},
				)...,
			),
			Handler: bind(ts, "search_logs", ts.searchLogs),
		},
		{
			Tool: newTool("list_log_sets",
				"List the log sets and logs available for querying.",
				readOnly(),
			),
			Handler: bind(ts, "list_log_sets", ts.listLogSets),
		},
		{
			Tool: newTool("get_log_entry",
				"Fetch the entries of one log within a log set.",
				readOnly(),
				mcp.WithString("logset_id", mcp.Required(), mcp.Description("Log set ID")),
				mcp.WithString("log_id", mcp.Required(), mcp.Description("Log ID")),
			),
			Handler: bind(ts, "get_log_entry", ts.getLogEntry),
		},
		{
			Tool: newTool("get_log_stats",
				"Run a LEQL groupby() or calculate() statement and return the statistics.",
				append([]mcp.ToolOption{readOnly()}, leqlProperties()...)...,
			),
			Handler: bind(ts, "get_log_stats", ts.getLogStats),
		},
	}
}

func (ts *Toolset) searchLogs(ctx context.Context, a *searchLogsArgs) (any, error) {
	q, err := a.leql()
	if err != nil {
		return nil, err
	}
	perPage := a.PerPage

	res, err := ts.client.LogSearch.Query(ctx, a.LogSetID, &insightidr.LogQueryRequest{
		LEQL:    q,
		Logs:    a.Logs,
		PerPage: &perPage,
	})
	if err != nil {
		return nil, err
	}

	events := res.Events
	if events == nil {
		events = []insightidr.LogEvent{}
	}
	return map[string]any{
		"query":    q,
		"events":   events,
		"count":    len(events),
		"has_more": res.HasMore(),
	}, nil
}

func (ts *Toolset) listLogSets(ctx context.Context, _ *noArgs) (any, error) {
	res, err := ts.client.LogSearch.LogSets(ctx)
	if err != nil {
		return nil, err
	}
	sets := res.LogSets
	if sets == nil {
		sets = []insightidr.LogSet{}
	}
	return map[string]any{"logsets": sets, "count": len(sets)}, nil
}

func (ts *Toolset) getLogEntry(ctx context.Context, a *logEntryArgs) (any, error) {
	res, err := ts.client.LogSearch.Entry(ctx, a.LogSetID, a.LogID)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (ts *Toolset) getLogStats(ctx context.Context, a *leqlArgs) (any, error) {
	lower := strings.ToLower(a.Query)
	if !strings.Contains(lower, "groupby(") && !strings.Contains(lower, "calculate(") {
		return nil, invalidArgs("query must contain groupby() or calculate()")
	}
	q, err := a.leql()
	if err != nil {
		return nil, err
	}

	res, err := ts.client.LogSearch.Stats(ctx, a.LogSetID, &insightidr.LogQueryRequest{LEQL: q, Logs: a.Logs})
	if err != nil {
		return nil, err
	}
	return res, nil
}
