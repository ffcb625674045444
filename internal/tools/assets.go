package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tphakala/go-insightidr"
)

type listAssetsArgs struct {
	pageArgs
	Search string `json:"search"`
	Sort   string `json:"sort"`
}

func (ts *Toolset) assetTools() []server.ServerTool {
	return []server.ServerTool{
		{
			Tool: newTool("list_assets",
				"List assets, optionally matching a hostname, IP address or name.",
				with(
					[]mcp.ToolOption{
						readOnly(),
						mcp.WithString("search", mcp.Description("Hostname, IP address or name to match")),
						mcp.WithString("sort", mcp.Description("Sort as field,direction")),
					},
					pageProperties(),
				)...,
			),
			Handler: bind(ts, "list_assets", ts.listAssets),
		},
		{
			Tool: newTool("get_asset",
				"Get an asset by ID.",
				readOnly(),
				idProperty("Asset ID or RRN"),
			),
			Handler: bind(ts, "get_asset", ts.getAsset),
		},
		{
			Tool: newTool("get_asset_activity",
				"List activity recorded for an asset within a time window.",
				with(
					[]mcp.ToolOption{readOnly(), idProperty("Asset ID or RRN")},
					windowProperties(),
					pageProperties(),
				)...,
			),
			Handler: bind(ts, "get_asset_activity", ts.getAssetActivity),
		},
	}
}

func (ts *Toolset) listAssets(ctx context.Context, a *listAssetsArgs) (any, error) {
	page, err := ts.client.Assets.List(ctx, &insightidr.ListAssetsOptions{
		PageOptions: a.options(),
		Search:      a.Search,
		Sort:        a.Sort,
	})
	if err != nil {
		return nil, err
	}
	return shapePage(page), nil
}

func (ts *Toolset) getAsset(ctx context.Context, a *idArgs) (any, error) {
	res, err := ts.client.Assets.Get(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

func (ts *Toolset) getAssetActivity(ctx context.Context, a *activityArgs) (any, error) {
	page, err := ts.client.Assets.Activity(ctx, a.ID, a.options())
	if err != nil {
		return nil, err
	}
	return shapePage(page), nil
}
