package insightidr

import "context"

// UserService provides operations on user accounts.
type UserService interface {
	// List returns a page of accounts.
	List(ctx context.Context, opts *ListAccountsOptions) (*Page[Account], error)

	// Activity returns authentication and behavior events for an account.
	Activity(ctx context.Context, id string, opts *ActivityOptions) (*Page[ActivityEvent], error)

	// Risky returns accounts ranked by risk score.
	Risky(ctx context.Context, page *PageOptions) (*Page[Account], error)
}

// ListAccountsOptions filters the account listing.
type ListAccountsOptions struct {
	PageOptions

	Search string
	Domain string
	// Disabled is tri-state: nil lists all accounts.
	Disabled *bool
}

func (o *ListAccountsOptions) query() *Query {
	q := NewQuery()
	if o == nil {
		return q
	}
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	if o.Domain != "" {
		q.Set("domain", o.Domain)
	}
	q.Set("disabled", o.Disabled)
	o.PageOptions.apply(q)
	return q
}

type userService struct {
	p *pipeline
}

func (s *userService) List(ctx context.Context, opts *ListAccountsOptions) (*Page[Account], error) {
	return doJSON[Page[Account]](ctx, s.p, request(OpListAccounts, opts.query(), nil))
}

func (s *userService) Activity(ctx context.Context, id string, opts *ActivityOptions) (*Page[ActivityEvent], error) {
	return doJSON[Page[ActivityEvent]](ctx, s.p, request(OpAccountActivity, opts.query(), nil, id))
}

func (s *userService) Risky(ctx context.Context, page *PageOptions) (*Page[Account], error) {
	return doJSON[Page[Account]](ctx, s.p, request(OpRiskyAccounts, pageQuery(page), nil))
}
