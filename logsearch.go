package insightidr

import "context"

// LogSearchService runs LEQL queries against log sets.
type LogSearchService interface {
	// Query runs a LEQL statement against a log set.
	Query(ctx context.Context, logSetID string, req *LogQueryRequest) (*LogQueryResult, error)

	// LogSets lists the log sets available to the API key.
	LogSets(ctx context.Context) (*LogSetList, error)

	// Entry fetches the entries of one log within a log set.
	Entry(ctx context.Context, logSetID, logID string) (*LogQueryResult, error)

	// Stats runs a groupby/calculate statement and returns its statistics.
	Stats(ctx context.Context, logSetID string, req *LogQueryRequest) (*LogStatsResult, error)
}

// LogQueryRequest is the body of a log query.
type LogQueryRequest struct {
	LEQL LEQL `json:"leql"`
	// Logs narrows the query to specific log IDs within the set.
	Logs []string `json:"logs,omitempty"`
	// PerPage limits the number of events returned.
	PerPage *int `json:"per_page,omitempty"`
}

type logSearchService struct {
	p *pipeline
}

func (s *logSearchService) Query(ctx context.Context, logSetID string, req *LogQueryRequest) (*LogQueryResult, error) {
	return doJSON[LogQueryResult](ctx, s.p, request(OpLogQuery, nil, optionalBody(req), logSetID))
}

func (s *logSearchService) LogSets(ctx context.Context) (*LogSetList, error) {
	return doJSON[LogSetList](ctx, s.p, request(OpListLogSets, nil, nil))
}

func (s *logSearchService) Entry(ctx context.Context, logSetID, logID string) (*LogQueryResult, error) {
	return doJSON[LogQueryResult](ctx, s.p, request(OpGetLogEntry, nil, nil, logSetID, logID))
}

func (s *logSearchService) Stats(ctx context.Context, logSetID string, req *LogQueryRequest) (*LogStatsResult, error) {
	return doJSON[LogStatsResult](ctx, s.p, request(OpLogStats, nil, optionalBody(req), logSetID))
}
