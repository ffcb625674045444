package insightidr

import (
	"context"
	"iter"
)

// AssetService provides operations on assets (endpoints).
type AssetService interface {
	List(ctx context.Context, opts *ListAssetsOptions) (*Page[Asset], error)
	All(ctx context.Context, opts *ListAssetsOptions) iter.Seq2[Asset, error]
	Get(ctx context.Context, id string) (*Single[Asset], error)
	Activity(ctx context.Context, id string, opts *ActivityOptions) (*Page[ActivityEvent], error)
}

// ListAssetsOptions filters the asset listing.
type ListAssetsOptions struct {
	PageOptions

	// Search matches hostnames, IP addresses and asset names.
	Search string
	Sort   string
}

func (o *ListAssetsOptions) query() *Query {
	q := NewQuery()
	if o == nil {
		return q
	}
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	if o.Sort != "" {
		q.Set("sort", o.Sort)
	}
	o.PageOptions.apply(q)
	return q
}

// ActivityOptions bounds an activity lookup for an asset, account or threat.
type ActivityOptions struct {
	PageOptions

	// StartTime and EndTime are ISO-8601 timestamps.
	StartTime string
	EndTime   string
}

func (o *ActivityOptions) query() *Query {
	q := NewQuery()
	if o == nil {
		return q
	}
	if o.StartTime != "" {
		q.Set("start_time", o.StartTime)
	}
	if o.EndTime != "" {
		q.Set("end_time", o.EndTime)
	}
	o.PageOptions.apply(q)
	return q
}

type assetService struct {
	p *pipeline
}

func (s *assetService) List(ctx context.Context, opts *ListAssetsOptions) (*Page[Asset], error) {
	return doJSON[Page[Asset]](ctx, s.p, request(OpListAssets, opts.query(), nil))
}

func (s *assetService) All(ctx context.Context, opts *ListAssetsOptions) iter.Seq2[Asset, error] {
	base := ListAssetsOptions{}
	if opts != nil {
		base = *opts
	}
	return Paginate(ctx, base.PageOptions, func(ctx context.Context, page PageOptions) (*Page[Asset], error) {
		o := base
		o.PageOptions = page
		return s.List(ctx, &o)
	})
}

func (s *assetService) Get(ctx context.Context, id string) (*Single[Asset], error) {
	return doJSON[Single[Asset]](ctx, s.p, request(OpGetAsset, nil, nil, id))
}

func (s *assetService) Activity(ctx context.Context, id string, opts *ActivityOptions) (*Page[ActivityEvent], error) {
	return doJSON[Page[ActivityEvent]](ctx, s.p, request(OpAssetActivity, opts.query(), nil, id))
}
