package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tphakala/go-insightidr"
)

type listThreatIndicatorsArgs struct {
	pageArgs
	Type   string `json:"type" validate:"omitempty,oneof=ip domain hash url"`
	Search string `json:"search"`
}

func (a *listThreatIndicatorsArgs) setDefaults() {
	a.pageArgs.setDefaults()
	a.Type = strings.ToLower(a.Type)
}

type createThreatIndicatorArgs struct {
	ThreatName    string   `json:"threat_name" validate:"required"`
	IndicatorType string   `json:"indicator_type" validate:"required,oneof=ip domain hash url"`
	Indicators    []string `json:"indicators" validate:"required,min=1,dive,required"`
	Note          *string  `json:"note"`
}

func (a *createThreatIndicatorArgs) setDefaults() {
	a.IndicatorType = strings.ToLower(a.IndicatorType)
	for i, v := range a.Indicators {
		a.Indicators[i] = strings.TrimSpace(v)
	}
}

type threatActivityArgs struct {
	pageArgs
	windowArgs
}

func (ts *Toolset) threatTools() []server.ServerTool {
	return []server.ServerTool{
		{
			Tool: newTool("list_threat_indicators",
				"List threat indicators (IOCs), optionally by type or value.",
				with(
					[]mcp.ToolOption{
						readOnly(),
						mcp.WithString("type", mcp.Enum(insightidr.IndicatorTypes...), mcp.Description("Indicator type")),
						mcp.WithString("search", mcp.Description("Indicator value to match")),
					},
					pageProperties(),
				)...,
			),
			Handler: bind(ts, "list_threat_indicators", ts.listThreatIndicators),
		},
		{
			Tool: newTool("create_threat_indicator",
				"Add indicators of one type to a named threat, creating the threat if it does not exist.",
				mutating(),
				mcp.WithString("threat_name", mcp.Required(), mcp.Description("Threat to add the indicators to")),
				mcp.WithString("indicator_type", mcp.Required(), mcp.Enum(insightidr.IndicatorTypes...)),
				mcp.WithArray("indicators",
					mcp.Required(),
					mcp.Description("Indicator values"),
					mcp.Items(map[string]any{"type": "string"}),
				),
				mcp.WithString("note", mcp.Description("Note stored on the threat")),
			),
			Handler: bind(ts, "create_threat_indicator", ts.createThreatIndicator),
		},
		{
			Tool: newTool("get_threat_activity",
				"List matches of known threat indicators in collected data.",
				with([]mcp.ToolOption{readOnly()}, windowProperties(), pageProperties())...,
			),
			Handler: bind(ts, "get_threat_activity", ts.getThreatActivity),
		},
	}
}

func (ts *Toolset) listThreatIndicators(ctx context.Context, a *listThreatIndicatorsArgs) (any, error) {
	page, err := ts.client.Threats.List(ctx, &insightidr.ListThreatIndicatorsOptions{
		PageOptions: a.options(),
		Type:        a.Type,
		Search:      a.Search,
	})
	if err != nil {
		return nil, err
	}
	return shapePage(page), nil
}

func (ts *Toolset) createThreatIndicator(ctx context.Context, a *createThreatIndicatorArgs) (any, error) {
	req := &insightidr.CreateThreatIndicatorsRequest{
		Threat: a.ThreatName,
		Note:   a.Note,
	}
	for _, v := range a.Indicators {
		req.Indicators.Add(a.IndicatorType, v)
	}

	res, err := ts.client.Threats.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

func (ts *Toolset) getThreatActivity(ctx context.Context, a *threatActivityArgs) (any, error) {
	page, err := ts.client.Threats.Activity(ctx, &insightidr.ActivityOptions{
		PageOptions: a.pageArgs.options(),
		StartTime:   a.StartTime,
		EndTime:     a.EndTime,
	})
	if err != nil {
		return nil, err
	}
	return shapePage(page), nil
}
