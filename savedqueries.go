package insightidr

import "context"

// SavedQueryService provides operations on saved LEQL queries.
type SavedQueryService interface {
	List(ctx context.Context, page *PageOptions) (*Page[SavedQuery], error)
	Create(ctx context.Context, req *CreateSavedQueryRequest) (*Single[SavedQuery], error)
}

// CreateSavedQueryRequest is the body of a new saved query.
type CreateSavedQueryRequest struct {
	SavedQuery NewSavedQuery `json:"saved_query"`
}

// NewSavedQuery describes the query to store.
type NewSavedQuery struct {
	Name string   `json:"name"`
	LEQL LEQL     `json:"leql"`
	Logs []string `json:"logs,omitempty"`
}

type savedQueryService struct {
	p *pipeline
}

func (s *savedQueryService) List(ctx context.Context, page *PageOptions) (*Page[SavedQuery], error) {
	return doJSON[Page[SavedQuery]](ctx, s.p, request(OpListSavedQueries, pageQuery(page), nil))
}

func (s *savedQueryService) Create(ctx context.Context, req *CreateSavedQueryRequest) (*Single[SavedQuery], error) {
	return doJSON[Single[SavedQuery]](ctx, s.p, request(OpCreateSavedQuery, nil, optionalBody(req)))
}
