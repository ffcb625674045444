package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tphakala/go-insightidr"
)

type listUsersArgs struct {
	pageArgs
	Search   string `json:"search"`
	Domain   string `json:"domain"`
	Disabled *bool  `json:"disabled"`
}

type pagedArgs struct {
	pageArgs
}

func (ts *Toolset) userTools() []server.ServerTool {
	return []server.ServerTool{
		{
			Tool: newTool("list_users",
				"List user accounts, optionally filtered by name, domain or disabled state.",
				with(
					[]mcp.ToolOption{
						readOnly(),
						mcp.WithString("search", mcp.Description("Account name to match")),
						mcp.WithString("domain", mcp.Description("Directory domain")),
						mcp.WithBoolean("disabled", mcp.Description("Only disabled (true) or enabled (false) accounts")),
					},
					pageProperties(),
				)...,
			),
			Handler: bind(ts, "list_users", ts.listUsers),
		},
		{
			Tool: newTool("get_user_activity",
				"List authentication and behavior events for an account.",
				with(
					[]mcp.ToolOption{readOnly(), idProperty("Account ID or RRN")},
					windowProperties(),
					pageProperties(),
				)...,
			),
			Handler: bind(ts, "get_user_activity", ts.getUserActivity),
		},
		{
			Tool: newTool("list_risky_users",
				"List accounts ranked by risk score.",
				append([]mcp.ToolOption{readOnly()}, pageProperties()...)...,
			),
			Handler: bind(ts, "list_risky_users", ts.listRiskyUsers),
		},
	}
}

func (ts *Toolset) listUsers(ctx context.Context, a *listUsersArgs) (any, error) {
	page, err := ts.client.Users.List(ctx, &insightidr.ListAccountsOptions{
		PageOptions: a.options(),
		Search:      a.Search,
		Domain:      a.Domain,
		Disabled:    a.Disabled,
	})
	if err != nil {
		return nil, err
	}
	return shapePage(page), nil
}

func (ts *Toolset) getUserActivity(ctx context.Context, a *activityArgs) (any, error) {
	page, err := ts.client.Users.Activity(ctx, a.ID, a.options())
	if err != nil {
		return nil, err
	}
	return shapePage(page), nil
}

func (ts *Toolset) listRiskyUsers(ctx context.Context, a *pagedArgs) (any, error) {
	opts := a.options()
	page, err := ts.client.Users.Risky(ctx, &opts)
	if err != nil {
		return nil, err
	}
	return shapePage(page), nil
}
