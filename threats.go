package insightidr

import "context"

// ThreatService provides operations on threat indicators (IOCs).
type ThreatService interface {
	// List returns a page of indicators.
	List(ctx context.Context, opts *ListThreatIndicatorsOptions) (*Page[ThreatIndicator], error)

	// Create adds indicators to a named threat, creating the threat if needed.
	Create(ctx context.Context, req *CreateThreatIndicatorsRequest) (*Single[Threat], error)

	// Activity returns matches of known indicators in collected data.
	Activity(ctx context.Context, opts *ActivityOptions) (*Page[ActivityEvent], error)
}

// Indicator types accepted by the threat endpoints.
var IndicatorTypes = []string{"ip", "domain", "hash", "url"}

// ListThreatIndicatorsOptions filters the indicator listing.
type ListThreatIndicatorsOptions struct {
	PageOptions

	Type   string
	Search string
}

func (o *ListThreatIndicatorsOptions) query() *Query {
	q := NewQuery()
	if o == nil {
		return q
	}
	if o.Type != "" {
		q.Set("type", o.Type)
	}
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	o.PageOptions.apply(q)
	return q
}

// IndicatorSet groups indicator values by type.
type IndicatorSet struct {
	IPs         []string `json:"ips,omitempty"`
	DomainNames []string `json:"domain_names,omitempty"`
	Hashes      []string `json:"hashes,omitempty"`
	URLs        []string `json:"urls,omitempty"`
}

// Add files value under the set for indicatorType ("ip", "domain", "hash" or "url").
// It reports false for an unknown type.
func (s *IndicatorSet) Add(indicatorType, value string) bool {
	switch indicatorType {
	case "ip":
		s.IPs = append(s.IPs, value)
	case "domain":
		s.DomainNames = append(s.DomainNames, value)
	case "hash":
		s.Hashes = append(s.Hashes, value)
	case "url":
		s.URLs = append(s.URLs, value)
	default:
		return false
	}
	return true
}

// CreateThreatIndicatorsRequest is the body of an indicator submission.
type CreateThreatIndicatorsRequest struct {
	Threat     string       `json:"threat"`
	Note       *string      `json:"note,omitempty"`
	Indicators IndicatorSet `json:"indicators"`
}

type threatService struct {
	p *pipeline
}

func (s *threatService) List(ctx context.Context, opts *ListThreatIndicatorsOptions) (*Page[ThreatIndicator], error) {
	return doJSON[Page[ThreatIndicator]](ctx, s.p, request(OpListThreatIndicators, opts.query(), nil))
}

func (s *threatService) Create(ctx context.Context, req *CreateThreatIndicatorsRequest) (*Single[Threat], error) {
	return doJSON[Single[Threat]](ctx, s.p, request(OpCreateThreatIndicators, nil, optionalBody(req)))
}

func (s *threatService) Activity(ctx context.Context, opts *ActivityOptions) (*Page[ActivityEvent], error) {
	return doJSON[Page[ActivityEvent]](ctx, s.p, request(OpThreatActivity, opts.query(), nil))
}
