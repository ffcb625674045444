package insightidr

import (
	"net/http"
	"net/url"
	"strings"
)

// Endpoint binds an HTTP verb to a path template. Placeholders are written
// in braces, e.g. /idr/v2/investigations/{id}.
type Endpoint struct {
	Method string
	Path   string
}

// Operation names used as keys in Endpoints.
const (
	OpListInvestigations     = "investigations.list"
	OpGetInvestigation       = "investigations.get"
	OpCreateInvestigation    = "investigations.create"
	OpUpdateInvestigation    = "investigations.update"
	OpAddInvestigationNote   = "investigations.comment"
	OpInvestigationTimeline  = "investigations.timeline"
	OpInvestigationAlerts    = "investigations.alerts"
	OpLogQuery               = "logsearch.query"
	OpListLogSets            = "logsearch.logsets"
	OpGetLogEntry            = "logsearch.entry"
	OpLogStats               = "logsearch.stats"
	OpListAlerts             = "alerts.list"
	OpGetAlert               = "alerts.get"
	OpUpdateAlert            = "alerts.update"
	OpAlertEvidence          = "alerts.evidence"
	OpListAssets             = "assets.list"
	OpGetAsset               = "assets.get"
	OpAssetActivity          = "assets.activity"
	OpListAccounts           = "users.list"
	OpAccountActivity        = "users.activity"
	OpRiskyAccounts          = "users.risky"
	OpListThreatIndicators   = "threats.list"
	OpCreateThreatIndicators = "threats.create"
	OpThreatActivity         = "threats.activity"
	OpListSavedQueries       = "savedqueries.list"
	OpCreateSavedQuery       = "savedqueries.create"
)

// Endpoints is the fixed operation table. It must not be modified.
var Endpoints = map[string]Endpoint{
	OpListInvestigations:    {http.MethodGet, "/idr/v2/investigations"},
	OpGetInvestigation:      {http.MethodGet, "/idr/v2/investigations/{id}"},
	OpCreateInvestigation:   {http.MethodPost, "/idr/v2/investigations"},
	OpUpdateInvestigation:   {http.MethodPatch, "/idr/v2/investigations/{id}"},
	OpAddInvestigationNote:  {http.MethodPost, "/idr/v2/investigations/{id}/comments"},
	OpInvestigationTimeline: {http.MethodGet, "/idr/v2/investigations/{id}/timeline"},
	OpInvestigationAlerts:   {http.MethodGet, "/idr/v2/investigations/{id}/alerts"},

	OpLogQuery:    {http.MethodPost, "/log_search/query/logsets/{id}"},
	OpListLogSets: {http.MethodGet, "/log_search/management/logsets"},
	OpGetLogEntry: {http.MethodGet, "/log_search/query/logsets/{id}/entries/{logId}"},
	OpLogStats:    {http.MethodPost, "/log_search/query/logsets/{id}/stats"},

	OpListAlerts:    {http.MethodGet, "/idr/v2/alerts"},
	OpGetAlert:      {http.MethodGet, "/idr/v2/alerts/{id}"},
	OpUpdateAlert:   {http.MethodPatch, "/idr/v2/alerts/{id}"},
	OpAlertEvidence: {http.MethodGet, "/idr/v2/alerts/{id}/evidence"},

	OpListAssets:    {http.MethodGet, "/idr/v2/assets"},
	OpGetAsset:      {http.MethodGet, "/idr/v2/assets/{id}"},
	OpAssetActivity: {http.MethodGet, "/idr/v2/assets/{id}/activity"},

	OpListAccounts:    {http.MethodGet, "/idr/v2/accounts"},
	OpAccountActivity: {http.MethodGet, "/idr/v2/accounts/{id}/activity"},
	OpRiskyAccounts:   {http.MethodGet, "/idr/v2/accounts/risky"},

	OpListThreatIndicators:   {http.MethodGet, "/idr/v2/threat_indicators"},
	OpCreateThreatIndicators: {http.MethodPost, "/idr/v2/threat_indicators"},
	OpThreatActivity:         {http.MethodGet, "/idr/v2/threat_indicators/activity"},

	OpListSavedQueries: {http.MethodGet, "/log_search/management/saved_queries"},
	OpCreateSavedQuery: {http.MethodPost, "/log_search/management/saved_queries"},
}

// Expand substitutes path parameters into the template in order of
// appearance. Each value is path-escaped.
func (e Endpoint) Expand(params ...string) string {
	if len(params) == 0 {
		return e.Path
	}

	var b strings.Builder
	rest := e.Path
	for _, p := range params {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			break
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			break
		}
		b.WriteString(rest[:open])
		b.WriteString(url.PathEscape(p))
		rest = rest[open+end+1:]
	}
	b.WriteString(rest)
	return b.String()
}

// request builds a Request for the named operation.
func request(op string, query *Query, body any, params ...string) *Request {
	ep := Endpoints[op]
	return &Request{
		Method: ep.Method,
		Path:   ep.Expand(params...),
		Query:  query,
		Body:   body,
	}
}
