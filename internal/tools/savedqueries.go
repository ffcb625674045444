package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tphakala/go-insightidr"
)

type createSavedQueryArgs struct {
	Name      string   `json:"name" validate:"required"`
	Query     string   `json:"query" validate:"required"`
	TimeRange string   `json:"time_range"`
	Logs      []string `json:"logs"`
}

func (ts *Toolset) savedQueryTools() []server.ServerTool {
	return []server.ServerTool{
		{
			Tool: newTool("list_saved_queries",
				"List saved LEQL queries.",
				append([]mcp.ToolOption{readOnly()}, pageProperties()...)...,
			),
			Handler: bind(ts, "list_saved_queries", ts.listSavedQueries),
		},
		{
			Tool: newTool("create_saved_query",
				"Save a LEQL query for reuse.",
				mutating(),
				mcp.WithString("name", mcp.Required(), mcp.Description("Name of the saved query")),
				mcp.WithString("query", mcp.Required(), mcp.Description("LEQL statement")),
				mcp.WithString("time_range", mcp.Description("Default relative window, e.g. \"last 7 days\"")),
				mcp.WithArray("logs",
					mcp.Description("Log IDs the query runs against"),
					mcp.Items(map[string]any{"type": "string"}),
				),
			),
			Handler: bind(ts, "create_saved_query", ts.createSavedQuery),
		},
	}
}

func (ts *Toolset) listSavedQueries(ctx context.Context, a *pagedArgs) (any, error) {
	opts := a.options()
	page, err := ts.client.SavedQueries.List(ctx, &opts)
	if err != nil {
		return nil, err
	}
	return shapePage(page), nil
}

func (ts *Toolset) createSavedQuery(ctx context.Context, a *createSavedQueryArgs) (any, error) {
	q := insightidr.LEQL{Statement: a.Query}
	if a.TimeRange != "" {
		q.During = &insightidr.During{TimeRange: a.TimeRange}
	}

	res, err := ts.client.SavedQueries.Create(ctx, &insightidr.CreateSavedQueryRequest{
		SavedQuery: insightidr.NewSavedQuery{Name: a.Name, LEQL: q, Logs: a.Logs},
	})
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}
