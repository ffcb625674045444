package tools

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Resource URIs for the static LEQL material.
const (
	ReferenceURI = "insightidr://leql/reference"
	TemplatesURI = "insightidr://leql/templates"
)

//go:embed content/leql_reference.md content/query_templates.json
var content embed.FS

// QueryTemplate is a canned LEQL statement.
type QueryTemplate struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Query       string `json:"query"`
}

var loadTemplates = sync.OnceValues(func() ([]QueryTemplate, error) {
	b, err := content.ReadFile("content/query_templates.json")
	if err != nil {
		return nil, err
	}
	var templates []QueryTemplate
	if err := json.Unmarshal(b, &templates); err != nil {
		return nil, fmt.Errorf("decode query templates: %w", err)
	}
	return templates, nil
})

// LEQLReference returns the embedded LEQL reference text.
func LEQLReference() string {
	b, err := content.ReadFile("content/leql_reference.md")
	if err != nil {
		panic(err)
	}
	return string(b)
}

// QueryTemplates returns the embedded templates, optionally limited to one
// category.
func QueryTemplates(category string) ([]QueryTemplate, error) {
	all, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	if category == "" {
		return all, nil
	}
	out := make([]QueryTemplate, 0, len(all))
	for _, t := range all {
		if strings.EqualFold(t.Category, category) {
			out = append(out, t)
		}
	}
	return out, nil
}

// TemplateCategories returns the sorted set of template categories.
func TemplateCategories() []string {
	all, err := loadTemplates()
	if err != nil {
		return nil
	}
	seen := make(map[string]struct{})
	for _, t := range all {
		seen[t.Category] = struct{}{}
	}
	cats := make([]string, 0, len(seen))
	for c := range seen {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	return cats
}

type listTemplatesArgs struct {
	Category string `json:"category"`
}

func (ts *Toolset) referenceTools() []server.ServerTool {
	return []server.ServerTool{
		{
			Tool: newTool("get_leql_reference",
				"Return the LEQL syntax reference: clauses, operators, time windows and common keys.",
				readOnly(),
			),
			Handler: bind(ts, "get_leql_reference", func(context.Context, *noArgs) (any, error) {
				return text(LEQLReference()), nil
			}),
		},
		{
			Tool: newTool("list_query_templates",
				"List ready-made LEQL queries for common investigations.",
				readOnly(),
				mcp.WithString("category", mcp.Enum(TemplateCategories()...), mcp.Description("Only templates in this category")),
			),
			Handler: bind(ts, "list_query_templates", ts.listQueryTemplates),
		},
	}
}

func (ts *Toolset) listQueryTemplates(_ context.Context, a *listTemplatesArgs) (any, error) {
	templates, err := QueryTemplates(a.Category)
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, invalidArgs("unknown category %q", a.Category)
	}
	return map[string]any{"templates": templates, "count": len(templates)}, nil
}

// Resource pairs an MCP resource with its read handler.
type Resource struct {
	Resource mcp.Resource
	Handler  server.ResourceHandlerFunc
}

// Resources returns the static LEQL resources.
func Resources() []Resource {
	return []Resource{
		{
			Resource: mcp.NewResource(ReferenceURI, "LEQL reference",
				mcp.WithResourceDescription("LEQL syntax reference"),
				mcp.WithMIMEType("text/markdown"),
			),
			Handler: func(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
				return []mcp.ResourceContents{
					mcp.TextResourceContents{URI: ReferenceURI, MIMEType: "text/markdown", Text: LEQLReference()},
				}, nil
			},
		},
		{
			Resource: mcp.NewResource(TemplatesURI, "LEQL query templates",
				mcp.WithResourceDescription("Ready-made LEQL queries by category"),
				mcp.WithMIMEType("application/json"),
			),
			Handler: func(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
				b, err := content.ReadFile("content/query_templates.json")
				if err != nil {
					return nil, err
				}
				return []mcp.ResourceContents{
					mcp.TextResourceContents{URI: TemplatesURI, MIMEType: "application/json", Text: string(b)},
				}, nil
			},
		},
	}
}
