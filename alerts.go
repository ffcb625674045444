package insightidr

import (
	"context"
	"iter"
)

// AlertService provides operations on InsightIDR alerts.
type AlertService interface {
	// List returns a single page of alerts.
	List(ctx context.Context, opts *ListAlertsOptions) (*Page[Alert], error)

	// All returns an iterator over every alert matching opts.
	All(ctx context.Context, opts *ListAlertsOptions) iter.Seq2[Alert, error]

	// Get retrieves an alert by ID or RRN.
	Get(ctx context.Context, id string) (*Single[Alert], error)

	// Update patches the triage fields set in req.
	Update(ctx context.Context, id string, req *UpdateAlertRequest) (*Single[Alert], error)

	// Evidence returns the evidence attached to an alert.
	Evidence(ctx context.Context, id string, page *PageOptions) (*Page[Evidence], error)
}

// ListAlertsOptions filters the alert listing.
type ListAlertsOptions struct {
	PageOptions

	Severities []string
	Statuses   []string
	// StartTime and EndTime are ISO-8601 timestamps.
	StartTime string
	EndTime   string
	Sort      string
}

func (o *ListAlertsOptions) query() *Query {
	q := NewQuery()
	if o == nil {
		return q
	}
	q.Set("severity", o.Severities).Set("status", o.Statuses)
	if o.StartTime != "" {
		q.Set("start_time", o.StartTime)
	}
	if o.EndTime != "" {
		q.Set("end_time", o.EndTime)
	}
	if o.Sort != "" {
		q.Set("sort", o.Sort)
	}
	o.PageOptions.apply(q)
	return q
}

// UpdateAlertRequest contains the alert triage fields to change.
type UpdateAlertRequest struct {
	Status      *string `json:"status,omitempty"`
	Disposition *string `json:"disposition,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	AssigneeID  *string `json:"assignee_id,omitempty"`
	Comment     *string `json:"comment,omitempty"`
}

type alertService struct {
	p *pipeline
}

func (s *alertService) List(ctx context.Context, opts *ListAlertsOptions) (*Page[Alert], error) {
	return doJSON[Page[Alert]](ctx, s.p, request(OpListAlerts, opts.query(), nil))
}

func (s *alertService) All(ctx context.Context, opts *ListAlertsOptions) iter.Seq2[Alert, error] {
	base := ListAlertsOptions{}
	if opts != nil {
		base = *opts
	}
	return Paginate(ctx, base.PageOptions, func(ctx context.Context, page PageOptions) (*Page[Alert], error) {
		o := base
		o.PageOptions = page
		return s.List(ctx, &o)
	})
}

func (s *alertService) Get(ctx context.Context, id string) (*Single[Alert], error) {
	return doJSON[Single[Alert]](ctx, s.p, request(OpGetAlert, nil, nil, id))
}

func (s *alertService) Update(ctx context.Context, id string, req *UpdateAlertRequest) (*Single[Alert], error) {
	return doJSON[Single[Alert]](ctx, s.p, request(OpUpdateAlert, nil, optionalBody(req), id))
}

func (s *alertService) Evidence(ctx context.Context, id string, page *PageOptions) (*Page[Evidence], error) {
	return doJSON[Page[Evidence]](ctx, s.p, request(OpAlertEvidence, pageQuery(page), nil, id))
}
