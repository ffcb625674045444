package tools

import (
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tphakala/go-insightidr"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// pageArgs are the pagination arguments shared by list tools.
type pageArgs struct {
	Index int `json:"index" validate:"gte=0"`
	Size  int `json:"size" validate:"gte=1,lte=100"`
}

func (p *pageArgs) setDefaults() {
	if p.Size == 0 {
		p.Size = defaultPageSize
	}
}

func (p *pageArgs) options() insightidr.PageOptions {
	return insightidr.PageOptions{Index: p.Index, Size: p.Size}
}

// windowArgs bound an activity lookup.
type windowArgs struct {
	StartTime string `json:"start_time" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime   string `json:"end_time" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// idArgs address a single object.
type idArgs struct {
	ID string `json:"id" validate:"required"`
}

// pagedIDArgs address a paginated child collection of one object.
type pagedIDArgs struct {
	pageArgs
	ID string `json:"id" validate:"required"`
}

// activityArgs address an object's activity within a time window.
type activityArgs struct {
	pageArgs
	windowArgs
	ID string `json:"id" validate:"required"`
}

func (a *activityArgs) options() *insightidr.ActivityOptions {
	return &insightidr.ActivityOptions{
		PageOptions: a.pageArgs.options(),
		StartTime:   a.StartTime,
		EndTime:     a.EndTime,
	}
}

// noArgs is used by tools without inputs.
type noArgs struct{}

// pageResult is the caller-facing shape of a list response.
type pageResult[T any] struct {
	Items    []T                     `json:"items"`
	Count    int                     `json:"count"`
	Metadata insightidr.PageMetadata `json:"metadata"`
	HasMore  bool                    `json:"has_more"`
}

func shapePage[T any](p *insightidr.Page[T]) pageResult[T] {
	items := p.Data
	if items == nil {
		items = []T{}
	}
	return pageResult[T]{
		Items:    items,
		Count:    len(items),
		Metadata: p.Metadata,
		HasMore:  p.HasMore(),
	}
}

func upperAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToUpper(strings.TrimSpace(v))
	}
	return out
}

func upperPtr(s *string) {
	if s != nil {
		*s = strings.ToUpper(strings.TrimSpace(*s))
	}
}

func newTool(name, description string, opts ...mcp.ToolOption) mcp.Tool {
	return mcp.NewTool(name, append([]mcp.ToolOption{mcp.WithDescription(description)}, opts...)...)
}

func readOnly() mcp.ToolOption {
	return mcp.WithReadOnlyHintAnnotation(true)
}

func mutating() mcp.ToolOption {
	return mcp.WithDestructiveHintAnnotation(false)
}

func pageProperties() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithNumber("index",
			mcp.Description("Zero-based page index"),
			mcp.DefaultNumber(0),
			mcp.Min(0),
		),
		mcp.WithNumber("size",
			mcp.Description("Results per page"),
			mcp.DefaultNumber(defaultPageSize),
			mcp.Min(1),
			mcp.Max(maxPageSize),
		),
	}
}

func windowProperties() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("start_time", mcp.Description("Window start, ISO-8601 (e.g. 2024-01-01T00:00:00Z)")),
		mcp.WithString("end_time", mcp.Description("Window end, ISO-8601")),
	}
}

func idProperty(description string) mcp.ToolOption {
	return mcp.WithString("id", mcp.Required(), mcp.Description(description))
}

func enumArray(name, description string, values []string) mcp.ToolOption {
	return mcp.WithArray(name,
		mcp.Description(description),
		mcp.Items(map[string]any{"type": "string", "enum": values}),
	)
}

// with concatenates option groups.
func with(groups ...[]mcp.ToolOption) []mcp.ToolOption {
	var out []mcp.ToolOption
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
