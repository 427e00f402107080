package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	chatHistoryURI = "taskflow://chat/history"
	dashboardURI   = "taskflow://analytics"
	todosTemplate  = "taskflow://todos/{date}"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerChatHistoryResource(srv, svc)
	registerDashboardResource(srv, svc)
	registerTodosTemplate(srv, svc)
}

func registerChatHistoryResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		chatHistoryURI,
		"Chat History",
		mcp.WithResourceDescription("The saved conversation with the assistant."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		msgs, err := svc.ChatHistory(ctx)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"messages": msgs,
			"count":    len(msgs),
		})
	})
}

func registerDashboardResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		dashboardURI,
		"Analytics",
		mcp.WithResourceDescription("The analytics dashboard over the configured series window."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		d, err := svc.Summary(ctx, 0)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, d)
	})
}

func registerTodosTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		todosTemplate,
		"Todos For Day",
		mcp.WithTemplateDescription("Todos dated one YYYY-MM-DD day."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		date := templateArg(request.Params.Arguments["date"])
		if date == "" {
			return nil, fmt.Errorf("date is required")
		}
		todos, err := svc.Todos(ctx, date)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"date":  date,
			"todos": orEmpty(todos),
			"count": len(todos),
		})
	})
}

// templateArg reads a URI template variable, which the server may hand over
// as a string or a single-element list.
func templateArg(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []string:
		if len(t) > 0 {
			return t[0]
		}
	}
	return ""
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
