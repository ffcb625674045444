package insightidr

import (
	"time"
)

// PageMetadata describes the pagination window of a list response.
type PageMetadata struct {
	Index      int `json:"index"`
	Size       int `json:"size"`
	TotalData  int `json:"total_data"`
	TotalPages int `json:"total_pages"`
}

// Page is a paginated list response.
type Page[T any] struct {
	Data     []T          `json:"data"`
	Metadata PageMetadata `json:"metadata"`
}

// HasMore reports whether pages after this one exist.
func (p *Page[T]) HasMore() bool {
	return p.Metadata.Index+1 < p.Metadata.TotalPages
}

// Single is a single-object response.
type Single[T any] struct {
	Data T `json:"data"`
}

// PageOptions selects a pagination window. Index is zero based.
// Nothing is sent when Size is zero, leaving the server defaults in place.
type PageOptions struct {
	Index int
	Size  int
}

func (p PageOptions) apply(q *Query) {
	if p.Size > 0 {
		q.Set("index", p.Index).Set("size", p.Size)
	}
}

// Investigation status values.
const (
	InvestigationOpen          = "OPEN"
	InvestigationInvestigating = "INVESTIGATING"
	InvestigationWaiting       = "WAITING"
	InvestigationClosed        = "CLOSED"
)

// InvestigationStatuses lists every investigation status.
var InvestigationStatuses = []string{InvestigationOpen, InvestigationInvestigating, InvestigationWaiting, InvestigationClosed}

// Priorities lists investigation and alert priorities.
var Priorities = []string{"UNSPECIFIED", "LOW", "MEDIUM", "HIGH", "CRITICAL"}

// Dispositions lists investigation and alert dispositions.
var Dispositions = []string{"BENIGN", "MALICIOUS", "NOT_APPLICABLE", "UNDECIDED"}

// AlertStatuses lists alert triage states.
var AlertStatuses = []string{"OPEN", "INVESTIGATING", "WAITING", "CLOSED"}

// Severities lists alert severities.
var Severities = []string{"LOW", "MEDIUM", "HIGH", "CRITICAL"}

// Assignee identifies the user an investigation or alert is assigned to.
type Assignee struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`

	Extra Extra `json:"-"`
}

// Investigation is an InsightIDR investigation.
type Investigation struct {
	ID              string    `json:"id"`
	RRN             string    `json:"rrn"`
	Title           string    `json:"title"`
	Status          string    `json:"status"`
	Priority        string    `json:"priority,omitempty"`
	Disposition     string    `json:"disposition,omitempty"`
	Source          string    `json:"source,omitempty"`
	Assignee        *Assignee `json:"assignee,omitempty"`
	CreatedTime     time.Time `json:"created_time,omitzero"`
	LastAccessed    time.Time `json:"last_accessed,omitzero"`
	FirstAlertTime  time.Time `json:"first_alert_time,omitzero"`
	LatestAlertTime time.Time `json:"latest_alert_time,omitzero"`
	OrganizationID  string    `json:"organization_id,omitempty"`
	Responsibility  string    `json:"responsibility,omitempty"`
	Tags            []string  `json:"tags,omitempty"`

	Extra Extra `json:"-"`
}

// Comment is a note attached to an investigation.
type Comment struct {
	RRN         string         `json:"rrn"`
	Target      string         `json:"target,omitempty"`
	Body        string         `json:"body"`
	Creator     map[string]any `json:"creator,omitempty"`
	CreatedTime time.Time      `json:"created_time,omitzero"`

	Extra Extra `json:"-"`
}

// TimelineEvent is one entry in an investigation timeline. Event payloads
// vary by type and are kept as decoded JSON.
type TimelineEvent map[string]any

// Alert is an InsightIDR alert.
type Alert struct {
	ID               string    `json:"id,omitempty"`
	RRN              string    `json:"rrn"`
	Title            string    `json:"title"`
	AlertType        string    `json:"alert_type,omitempty"`
	Severity         string    `json:"severity,omitempty"`
	Priority         string    `json:"priority,omitempty"`
	Status           string    `json:"status,omitempty"`
	Disposition      string    `json:"disposition,omitempty"`
	Assignee         *Assignee `json:"assignee,omitempty"`
	InvestigationRRN string    `json:"investigation_rrn,omitempty"`
	DetectionRuleRRN string    `json:"detection_rule_rrn,omitempty"`
	CreatedTime      time.Time `json:"created_time,omitzero"`
	AlertedTime      time.Time `json:"alerted_time,omitzero"`

	Extra Extra `json:"-"`
}

// Evidence is a piece of alert evidence. Its shape depends on the detection.
type Evidence map[string]any

// Asset is an endpoint known to InsightIDR.
type Asset struct {
	ID          string    `json:"id"`
	RRN         string    `json:"rrn,omitempty"`
	Name        string    `json:"name"`
	Hostnames   []string  `json:"hostnames,omitempty"`
	IPAddresses []string  `json:"ip_addresses,omitempty"`
	MACAddress  string    `json:"mac_address,omitempty"`
	OS          string    `json:"os,omitempty"`
	Type        string    `json:"type,omitempty"`
	LastSeen    time.Time `json:"last_seen,omitzero"`

	Extra Extra `json:"-"`
}

// ActivityEvent is an asset, account or threat activity record.
type ActivityEvent map[string]any

// Account is a user account tracked by InsightIDR.
type Account struct {
	ID          string    `json:"id"`
	RRN         string    `json:"rrn,omitempty"`
	Name        string    `json:"name"`
	Domain      string    `json:"domain,omitempty"`
	Disabled    bool      `json:"disabled,omitempty"`
	RiskScore   *float64  `json:"risk_score,omitempty"`
	RiskReasons []string  `json:"risk_reasons,omitempty"`
	LastSeen    time.Time `json:"last_seen,omitzero"`

	Extra Extra `json:"-"`
}

// ThreatIndicator is a single indicator of compromise.
type ThreatIndicator struct {
	ID          string    `json:"id,omitempty"`
	RRN         string    `json:"rrn,omitempty"`
	Type        string    `json:"type"`
	Value       string    `json:"value"`
	ThreatName  string    `json:"threat_name,omitempty"`
	Source      string    `json:"source,omitempty"`
	CreatedTime time.Time `json:"created_time,omitzero"`

	Extra Extra `json:"-"`
}

// Threat is a named collection of indicators.
type Threat struct {
	RRN            string    `json:"rrn,omitempty"`
	Name           string    `json:"name"`
	Note           string    `json:"note,omitempty"`
	IndicatorCount int       `json:"indicator_count"`
	Published      bool      `json:"published,omitempty"`
	CreatedTime    time.Time `json:"created_time,omitzero"`

	Extra Extra `json:"-"`
}

// LEQL is a log query statement with an optional time window.
type LEQL struct {
	Statement string  `json:"statement"`
	During    *During `json:"during,omitempty"`
}

// During bounds a log query. Either From/To (epoch milliseconds) or
// TimeRange ("last 24 hours") is set.
type During struct {
	From      *int64 `json:"from,omitempty"`
	To        *int64 `json:"to,omitempty"`
	TimeRange string `json:"time_range,omitempty"`
}

// SavedQuery is a stored LEQL query.
type SavedQuery struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	LEQL LEQL     `json:"leql"`
	Logs []string `json:"logs,omitempty"`

	Extra Extra `json:"-"`
}

// LogInfo identifies a log within a log set.
type LogInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LogSet is a named group of logs.
type LogSet struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	LogsInfo    []LogInfo `json:"logs_info,omitempty"`

	Extra Extra `json:"-"`
}

// LogSetList is the response of the log set listing.
type LogSetList struct {
	LogSets []LogSet `json:"logsets"`
}

// LogEvent is a single log entry returned by a query.
type LogEvent struct {
	LogID          string   `json:"log_id"`
	Timestamp      int64    `json:"timestamp"`
	Message        string   `json:"message"`
	SequenceNumber string   `json:"sequence_number_str,omitempty"`
	Labels         []string `json:"labels,omitempty"`

	Extra Extra `json:"-"`
}

// Link is a continuation link for partial query results.
type Link struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

// LogQueryResult is the response of a log query or entry lookup.
type LogQueryResult struct {
	ID     string     `json:"id,omitempty"`
	LEQL   *LEQL      `json:"leql,omitempty"`
	Logs   []string   `json:"logs,omitempty"`
	Events []LogEvent `json:"events"`
	Links  []Link     `json:"links,omitempty"`

	Extra Extra `json:"-"`
}

// HasMore reports whether the server returned a continuation link.
func (r *LogQueryResult) HasMore() bool {
	for _, l := range r.Links {
		if l.Rel == "Next" || l.Rel == "Self" {
			return true
		}
	}
	return false
}

// LogStatsResult is the response of a statistics (groupby/calculate) query.
type LogStatsResult struct {
	LEQL       *LEQL          `json:"leql,omitempty"`
	Logs       []string       `json:"logs,omitempty"`
	Statistics map[string]any `json:"statistics"`
	Links      []Link         `json:"links,omitempty"`

	Extra Extra `json:"-"`
}
