package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tphakala/go-insightidr"
)

type listAlertsArgs struct {
	pageArgs
	windowArgs
	Severities []string `json:"severities" validate:"dive,oneof=LOW MEDIUM HIGH CRITICAL"`
	Statuses   []string `json:"statuses" validate:"dive,oneof=OPEN INVESTIGATING WAITING CLOSED"`
	Sort       string   `json:"sort"`
}

func (a *listAlertsArgs) setDefaults() {
	a.pageArgs.setDefaults()
	a.Severities = upperAll(a.Severities)
	a.Statuses = upperAll(a.Statuses)
}

type updateAlertArgs struct {
	ID          string  `json:"id" validate:"required"`
	Status      *string `json:"status" validate:"omitempty,oneof=OPEN INVESTIGATING WAITING CLOSED"`
	Disposition *string `json:"disposition" validate:"omitempty,oneof=BENIGN MALICIOUS NOT_APPLICABLE UNDECIDED"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=UNSPECIFIED LOW MEDIUM HIGH CRITICAL"`
	AssigneeID  *string `json:"assignee_id"`
	Comment     *string `json:"comment"`
}

func (a *updateAlertArgs) setDefaults() {
	upperPtr(a.Status)
	upperPtr(a.Disposition)
	upperPtr(a.Priority)
}

func (ts *Toolset) alertTools() []server.ServerTool {
	return []server.ServerTool{
		{
			Tool: newTool("list_alerts",
				"List alerts filtered by severity, status and time window.",
				with(
					[]mcp.ToolOption{
						readOnly(),
						enumArray("severities", "Severities to include", insightidr.Severities),
						enumArray("statuses", "Alert statuses to include", insightidr.AlertStatuses),
						mcp.WithString("sort", mcp.Description("Sort as field,direction")),
					},
					windowProperties(),
					pageProperties(),
				)...,
			),
			Handler: bind(ts, "list_alerts", ts.listAlerts),
		},
		{
			Tool: newTool("get_alert",
				"Get an alert by ID or RRN.",
				readOnly(),
				idProperty("Alert ID or RRN"),
			),
			Handler: bind(ts, "get_alert", ts.getAlert),
		},
		{
			Tool: newTool("update_alert",
				"Triage an alert: change status, disposition, priority or assignee, optionally with a comment.",
				mutating(),
				idProperty("Alert ID or RRN"),
				mcp.WithString("status", mcp.Enum(insightidr.AlertStatuses...)),
				mcp.WithString("disposition", mcp.Enum(insightidr.Dispositions...)),
				mcp.WithString("priority", mcp.Enum(insightidr.Priorities...)),
				mcp.WithString("assignee_id", mcp.Description("User ID to assign")),
				mcp.WithString("comment", mcp.Description("Comment recorded with the change")),
			),
			Handler: bind(ts, "update_alert", ts.updateAlert),
		},
		{
			Tool: newTool("get_alert_evidence",
				"List the evidence collected for an alert.",
				append([]mcp.ToolOption{readOnly(), idProperty("Alert ID or RRN")}, pageProperties()...)...,
			),
			Handler: bind(ts, "get_alert_evidence", ts.getAlertEvidence),
		},
	}
}

func (ts *Toolset) listAlerts(ctx context.Context, a *listAlertsArgs) (any, error) {
	page, err := ts.client.Alerts.List(ctx, &insightidr.ListAlertsOptions{
		PageOptions: a.pageArgs.options(),
		Severities:  a.Severities,
		Statuses:    a.Statuses,
		StartTime:   a.StartTime,
		EndTime:     a.EndTime,
		Sort:        a.Sort,
	})
	if err != nil {
		return nil, err
	}
	return shapePage(page), nil
}

func (ts *Toolset) getAlert(ctx context.Context, a *idArgs) (any, error) {
	res, err := ts.client.Alerts.Get(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

func (ts *Toolset) updateAlert(ctx context.Context, a *updateAlertArgs) (any, error) {
	req := &insightidr.UpdateAlertRequest{
		Status:      a.Status,
		Disposition: a.Disposition,
		Priority:    a.Priority,
		AssigneeID:  a.AssigneeID,
		Comment:     a.Comment,
	}
	if *req == (insightidr.UpdateAlertRequest{}) {
		return nil, invalidArgs("at least one field to update is required")
	}

	res, err := ts.client.Alerts.Update(ctx, a.ID, req)
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

func (ts *Toolset) getAlertEvidence(ctx context.Context, a *pagedIDArgs) (any, error) {
	opts := a.options()
	page, err := ts.client.Alerts.Evidence(ctx, a.ID, &opts)
	if err != nil {
		return nil, err
	}
	return shapePage(page), nil
}
