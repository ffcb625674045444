package insightidr

import (
	"context"
	"iter"
)

// InvestigationService provides operations on InsightIDR investigations.
type InvestigationService interface {
	// List returns a single page of investigations.
	List(ctx context.Context, opts *ListInvestigationsOptions) (*Page[Investigation], error)

	// All returns an iterator over every investigation matching opts.
	// Pages are fetched lazily.
	All(ctx context.Context, opts *ListInvestigationsOptions) iter.Seq2[Investigation, error]

	// Get retrieves an investigation by ID or RRN.
	Get(ctx context.Context, id string) (*Single[Investigation], error)

	// Create opens a new investigation.
	Create(ctx context.Context, req *CreateInvestigationRequest) (*Single[Investigation], error)

	// Update patches the fields set in req.
	Update(ctx context.Context, id string, req *UpdateInvestigationRequest) (*Single[Investigation], error)

	// AddComment attaches a comment to an investigation.
	AddComment(ctx context.Context, id string, req *CommentRequest) (*Single[Comment], error)

	// Timeline returns the investigation's timeline events.
	Timeline(ctx context.Context, id string, page *PageOptions) (*Page[TimelineEvent], error)

	// Alerts returns the alerts associated with an investigation.
	Alerts(ctx context.Context, id string, page *PageOptions) (*Page[Alert], error)
}

// ListInvestigationsOptions filters the investigation listing.
// Only the fields that are set are sent.
type ListInvestigationsOptions struct {
	PageOptions

	Statuses      []string
	Priorities    []string
	AssigneeEmail string
	// StartTime and EndTime are ISO-8601 timestamps.
	StartTime string
	EndTime   string
	Sources   []string
	// Sort is "field,direction", e.g. "created_time,DESC".
	Sort string
}

func (o *ListInvestigationsOptions) query() *Query {
	q := NewQuery()
	if o == nil {
		return q
	}
	q.Set("statuses", o.Statuses).
		Set("priorities", o.Priorities).
		Set("sources", o.Sources)
	if o.AssigneeEmail != "" {
		q.Set("assignee.email", o.AssigneeEmail)
	}
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

// CreateInvestigationRequest contains data for a new investigation.
type CreateInvestigationRequest struct {
	Title       string    `json:"title"`
	Status      *string   `json:"status,omitempty"`
	Priority    *string   `json:"priority,omitempty"`
	Disposition *string   `json:"disposition,omitempty"`
	Assignee    *Assignee `json:"assignee,omitempty"`
}

// UpdateInvestigationRequest contains the fields to change on an investigation.
// nil fields are left untouched.
type UpdateInvestigationRequest struct {
	Title       *string   `json:"title,omitempty"`
	Status      *string   `json:"status,omitempty"`
	Priority    *string   `json:"priority,omitempty"`
	Disposition *string   `json:"disposition,omitempty"`
	Assignee    *Assignee `json:"assignee,omitempty"`
}

// CommentRequest is the body of a new comment.
type CommentRequest struct {
	Body string `json:"body"`
}

type investigationService struct {
	p *pipeline
}

func (s *investigationService) List(ctx context.Context, opts *ListInvestigationsOptions) (*Page[Investigation], error) {
	return doJSON[Page[Investigation]](ctx, s.p, request(OpListInvestigations, opts.query(), nil))
}

func (s *investigationService) All(ctx context.Context, opts *ListInvestigationsOptions) iter.Seq2[Investigation, error] {
	base := ListInvestigationsOptions{}
	if opts != nil {
		base = *opts
	}
	return Paginate(ctx, base.PageOptions, func(ctx context.Context, page PageOptions) (*Page[Investigation], error) {
		o := base
		o.PageOptions = page
		return s.List(ctx, &o)
	})
}

func (s *investigationService) Get(ctx context.Context, id string) (*Single[Investigation], error) {
	return doJSON[Single[Investigation]](ctx, s.p, request(OpGetInvestigation, nil, nil, id))
}

func (s *investigationService) Create(ctx context.Context, req *CreateInvestigationRequest) (*Single[Investigation], error) {
	return doJSON[Single[Investigation]](ctx, s.p, request(OpCreateInvestigation, nil, optionalBody(req)))
}

func (s *investigationService) Update(ctx context.Context, id string, req *UpdateInvestigationRequest) (*Single[Investigation], error) {
	return doJSON[Single[Investigation]](ctx, s.p, request(OpUpdateInvestigation, nil, optionalBody(req), id))
}

func (s *investigationService) AddComment(ctx context.Context, id string, req *CommentRequest) (*Single[Comment], error) {
	return doJSON[Single[Comment]](ctx, s.p, request(OpAddInvestigationNote, nil, optionalBody(req), id))
}

func (s *investigationService) Timeline(ctx context.Context, id string, page *PageOptions) (*Page[TimelineEvent], error) {
	return doJSON[Page[TimelineEvent]](ctx, s.p, request(OpInvestigationTimeline, pageQuery(page), nil, id))
}

func (s *investigationService) Alerts(ctx context.Context, id string, page *PageOptions) (*Page[Alert], error) {
	return doJSON[Page[Alert]](ctx, s.p, request(OpInvestigationAlerts, pageQuery(page), nil, id))
}

// optionalBody keeps a nil request struct from being sent as JSON null.
func optionalBody[T any](v *T) any {
	if v == nil {
		return nil
	}
	return v
}

func pageQuery(page *PageOptions) *Query {
	q := NewQuery()
	if page != nil {
		page.apply(q)
	}
	return q
}
