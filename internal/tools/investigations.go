package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tphakala/go-insightidr"
)

type listInvestigationsArgs struct {
	pageArgs
	windowArgs
	Statuses      []string `json:"statuses" validate:"dive,oneof=OPEN INVESTIGATING WAITING CLOSED"`
	Priorities    []string `json:"priorities" validate:"dive,oneof=UNSPECIFIED LOW MEDIUM HIGH CRITICAL"`
	Sources       []string `json:"sources"`
	AssigneeEmail string   `json:"assignee_email" validate:"omitempty,email"`
	Sort          string   `json:"sort"`
}

func (a *listInvestigationsArgs) setDefaults() {
	a.pageArgs.setDefaults()
	a.Statuses = upperAll(a.Statuses)
	a.Priorities = upperAll(a.Priorities)
	if a.Sort == "" {
		a.Sort = "created_time,DESC"
	}
}

type getInvestigationArgs struct {
	ID              string `json:"id" validate:"required"`
	IncludeTimeline *bool  `json:"include_timeline"`
}

func (a *getInvestigationArgs) setDefaults() {
	if a.IncludeTimeline == nil {
		t := true
		a.IncludeTimeline = &t
	}
}

type createInvestigationArgs struct {
	Title         string  `json:"title" validate:"required,max=512"`
	Status        *string `json:"status" validate:"omitempty,oneof=OPEN INVESTIGATING WAITING CLOSED"`
	Priority      *string `json:"priority" validate:"omitempty,oneof=UNSPECIFIED LOW MEDIUM HIGH CRITICAL"`
	Disposition   *string `json:"disposition" validate:"omitempty,oneof=BENIGN MALICIOUS NOT_APPLICABLE UNDECIDED"`
	AssigneeEmail string  `json:"assignee_email" validate:"omitempty,email"`
}

func (a *createInvestigationArgs) setDefaults() {
	upperPtr(a.Status)
	upperPtr(a.Priority)
	upperPtr(a.Disposition)
}

type updateInvestigationArgs struct {
	ID            string  `json:"id" validate:"required"`
	Title         *string `json:"title" validate:"omitempty,min=1,max=512"`
	Status        *string `json:"status" validate:"omitempty,oneof=OPEN INVESTIGATING WAITING CLOSED"`
	Priority      *string `json:"priority" validate:"omitempty,oneof=UNSPECIFIED LOW MEDIUM HIGH CRITICAL"`
	Disposition   *string `json:"disposition" validate:"omitempty,oneof=BENIGN MALICIOUS NOT_APPLICABLE UNDECIDED"`
	AssigneeEmail *string `json:"assignee_email" validate:"omitempty,email"`
}

func (a *updateInvestigationArgs) setDefaults() {
	upperPtr(a.Status)
	upperPtr(a.Priority)
	upperPtr(a.Disposition)
}

type commentArgs struct {
	ID   string `json:"id" validate:"required"`
	Body string `json:"body" validate:"required"`
}

func (ts *Toolset) investigationTools() []server.ServerTool {
	return []server.ServerTool{
		{
			Tool: newTool("list_investigations",
				"List investigations, newest first, optionally filtered by status, priority, source, assignee and time window.",
				with(
					[]mcp.ToolOption{
						readOnly(),
						enumArray("statuses", "Investigation statuses to include", insightidr.InvestigationStatuses),
						enumArray("priorities", "Priorities to include", insightidr.Priorities),
						mcp.WithArray("sources", mcp.Description("Sources to include (e.g. ALERT, USER)"), mcp.Items(map[string]any{"type": "string"})),
						mcp.WithString("assignee_email", mcp.Description("Only investigations assigned to this email")),
						mcp.WithString("sort", mcp.Description("Sort as field,direction"), mcp.DefaultString("created_time,DESC")),
					},
					windowProperties(),
					pageProperties(),
				)...,
			),
			Handler: bind(ts, "list_investigations", ts.listInvestigations),
		},
		{
			Tool: newTool("get_investigation",
				"Get an investigation by ID or RRN, together with its timeline.",
				readOnly(),
				idProperty("Investigation ID or RRN"),
				mcp.WithBoolean("include_timeline", mcp.Description("Also fetch the timeline"), mcp.DefaultBool(true)),
			),
			Handler: bind(ts, "get_investigation", ts.getInvestigation),
		},
		{
			Tool: newTool("create_investigation",
				"Open a new investigation.",
				mutating(),
				mcp.WithString("title", mcp.Required(), mcp.Description("Investigation title")),
				mcp.WithString("status", mcp.Enum(insightidr.InvestigationStatuses...)),
				mcp.WithString("priority", mcp.Enum(insightidr.Priorities...)),
				mcp.WithString("disposition", mcp.Enum(insightidr.Dispositions...)),
				mcp.WithString("assignee_email", mcp.Description("Email of the user to assign")),
			),
			Handler: bind(ts, "create_investigation", ts.createInvestigation),
		},
		{
			Tool: newTool("update_investigation",
				"Change the title, status, priority, disposition or assignee of an investigation. Only supplied fields change.",
				mutating(),
				idProperty("Investigation ID or RRN"),
				mcp.WithString("title"),
				mcp.WithString("status", mcp.Enum(insightidr.InvestigationStatuses...)),
				mcp.WithString("priority", mcp.Enum(insightidr.Priorities...)),
				mcp.WithString("disposition", mcp.Enum(insightidr.Dispositions...)),
				mcp.WithString("assignee_email"),
			),
			Handler: bind(ts, "update_investigation", ts.updateInvestigation),
		},
		{
			Tool: newTool("add_investigation_comment",
				"Add a comment to an investigation.",
				mutating(),
				idProperty("Investigation ID or RRN"),
				mcp.WithString("body", mcp.Required(), mcp.Description("Comment text")),
			),
			Handler: bind(ts, "add_investigation_comment", ts.addInvestigationComment),
		},
		{
			Tool: newTool("list_investigation_alerts",
				"List the alerts attached to an investigation.",
				append([]mcp.ToolOption{readOnly(), idProperty("Investigation ID or RRN")}, pageProperties()...)...,
			),
			Handler: bind(ts, "list_investigation_alerts", ts.listInvestigationAlerts),
		},
	}
}

func (ts *Toolset) listInvestigations(ctx context.Context, a *listInvestigationsArgs) (any, error) {
	page, err := ts.client.Investigations.List(ctx, &insightidr.ListInvestigationsOptions{
		PageOptions:   a.pageArgs.options(),
		Statuses:      a.Statuses,
		Priorities:    a.Priorities,
		Sources:       a.Sources,
		AssigneeEmail: a.AssigneeEmail,
		StartTime:     a.StartTime,
		EndTime:       a.EndTime,
		Sort:          a.Sort,
	})
	if err != nil {
		return nil, err
	}
	return shapePage(page), nil
}

// getInvestigation fetches the investigation and its timeline concurrently.
// A failed timeline lookup degrades to an empty list.
func (ts *Toolset) getInvestigation(ctx context.Context, a *getInvestigationArgs) (any, error) {
	var (
		inv      *insightidr.Single[insightidr.Investigation]
		timeline = []insightidr.TimelineEvent{}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		inv, err = ts.client.Investigations.Get(gctx, a.ID)
		return err
	})
	if *a.IncludeTimeline {
		g.Go(func() error {
			page, err := ts.client.Investigations.Timeline(gctx, a.ID, nil)
			if err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Str("investigation", a.ID).Msg("timeline unavailable")
				return nil
			}
			if page.Data != nil {
				timeline = page.Data
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := map[string]any{"investigation": inv.Data}
	if *a.IncludeTimeline {
		out["timeline"] = timeline
	}
	return out, nil
}

func (ts *Toolset) createInvestigation(ctx context.Context, a *createInvestigationArgs) (any, error) {
	req := &insightidr.CreateInvestigationRequest{
		Title:       strings.TrimSpace(a.Title),
		Status:      a.Status,
		Priority:    a.Priority,
		Disposition: a.Disposition,
	}
	if a.AssigneeEmail != "" {
		req.Assignee = &insightidr.Assignee{Email: a.AssigneeEmail}
	}

	res, err := ts.client.Investigations.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

func (ts *Toolset) updateInvestigation(ctx context.Context, a *updateInvestigationArgs) (any, error) {
	req := &insightidr.UpdateInvestigationRequest{
		Title:       a.Title,
		Status:      a.Status,
		Priority:    a.Priority,
		Disposition: a.Disposition,
	}
	if a.AssigneeEmail != nil {
		req.Assignee = &insightidr.Assignee{Email: *a.AssigneeEmail}
	}
	if *req == (insightidr.UpdateInvestigationRequest{}) {
		return nil, invalidArgs("at least one field to update is required")
	}

	res, err := ts.client.Investigations.Update(ctx, a.ID, req)
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

func (ts *Toolset) addInvestigationComment(ctx context.Context, a *commentArgs) (any, error) {
	res, err := ts.client.Investigations.AddComment(ctx, a.ID, &insightidr.CommentRequest{Body: a.Body})
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

func (ts *Toolset) listInvestigationAlerts(ctx context.Context, a *pagedIDArgs) (any, error) {
	opts := a.options()
	page, err := ts.client.Investigations.Alerts(ctx, a.ID, &opts)
	if err != nil {
		return nil, err
	}
	return shapePage(page), nil
}
