package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/record"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	srv.AddTool(askTool(), askHandler(svc))
	srv.AddTool(summaryTool(), summaryHandler(svc))
	srv.AddTool(moneyTool(), moneyHandler(svc))
	srv.AddTool(listTodosTool(), listTodosHandler(svc))
	srv.AddTool(addTodoTool(), addTodoHandler(svc))
	srv.AddTool(toggleTodoTool(), toggleTodoHandler(svc))
	srv.AddTool(listRemindersTool(), listRemindersHandler(svc))
	srv.AddTool(addReminderTool(), addReminderHandler(svc))
	srv.AddTool(listNotesTool(), listNotesHandler(svc))
}

func askTool() mcp.Tool {
	return mcp.NewTool(
		"ask",
		mcp.WithDescription("Send a chat message to the assistant. It can create todos, reminders and notes, and answer plan, notes, focus, productivity and money questions."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The message, for example \"what's my plan today\" or \"remind me tomorrow 5pm call mom\"."),
		),
		mcp.WithString("default_date",
			mcp.Description("Optional YYYY-MM-DD day for reminders that name no date."),
		),
	)
}

func askHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Text        string `json:"text"`
			DefaultDate string `json:"default_date"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		res, err := svc.Ask(ctx, args.Text, args.DefaultDate)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(res)
	}
}

func summaryTool() mcp.Tool {
	return mcp.NewTool(
		"analytics_summary",
		mcp.WithDescription("Completion rates, work this month, goal progress, daily series, weekly earnings and goals by category."),
		mcp.WithNumber("days",
			mcp.Description("Days in the per-day series (default from configuration)."),
		),
	)
}

func summaryHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		days := 0
		if v, ok := request.GetArguments()["days"].(float64); ok && v > 0 {
			days = int(v)
		}
		d, err := svc.Summary(ctx, days)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(d)
	}
}

func moneyTool() mcp.Tool {
	return mcp.NewTool(
		"money_summary",
		mcp.WithDescription("Hours, earnings, spending and net for a timeframe."),
		mcp.WithString("timeframe",
			mcp.Description("Timeframe to summarize."),
			mcp.Enum("today", "week", "month", "total"),
		),
	)
}

func moneyHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tf, _ := request.GetArguments()["timeframe"].(string)
		m, err := svc.Money(ctx, tf)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(m)
	}
}

func listTodosTool() mcp.Tool {
	return mcp.NewTool(
		"list_todos",
		mcp.WithDescription("List todos merged across every todo list."),
		mcp.WithString("date",
			mcp.Description("Optional YYYY-MM-DD; only todos dated that day."),
		),
	)
}

func listTodosHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		date, _ := request.GetArguments()["date"].(string)
		todos, err := svc.Todos(ctx, date)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"date":  date,
			"todos": orEmpty(todos),
			"count": len(todos),
		})
	}
}

func addTodoTool() mcp.Tool {
	return mcp.NewTool(
		"add_todo",
		mcp.WithDescription("Create a todo."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("What needs doing."),
		),
		mcp.WithString("date",
			mcp.Description("Optional YYYY-MM-DD, today when omitted."),
		),
	)
}

func addTodoHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := request.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		date, _ := request.GetArguments()["date"].(string)
		res, err := svc.AddTodo(ctx, text, date)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(res)
	}
}

func toggleTodoTool() mcp.Tool {
	return mcp.NewTool(
		"toggle_todo",
		mcp.WithDescription("Flip a todo between done and open in every list that holds it."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Todo identifier."),
		),
	)
}

func toggleTodoHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		t, err := svc.ToggleTodo(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(t)
	}
}

func listRemindersTool() mcp.Tool {
	return mcp.NewTool(
		"list_reminders",
		mcp.WithDescription("List reminders merged across the flat list and the calendar, newest first."),
		mcp.WithString("date",
			mcp.Description("Optional YYYY-MM-DD; only reminders on that day."),
		),
	)
}

func listRemindersHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		date, _ := request.GetArguments()["date"].(string)
		rems, err := svc.Reminders(ctx, date)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"date":      date,
			"reminders": orEmpty(rems),
			"count":     len(rems),
		})
	}
}

func addReminderTool() mcp.Tool {
	return mcp.NewTool(
		"add_reminder",
		mcp.WithDescription("Create a calendar reminder."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("What to be reminded of."),
		),
		mcp.WithString("date",
			mcp.Description("Optional YYYY-MM-DD, today when omitted."),
		),
		mcp.WithString("time",
			mcp.Description("Optional HH:MM, 09:00 when omitted."),
		),
		mcp.WithString("type",
			mcp.Description("Reminder type."),
			mcp.Enum(string(record.ReminderPlain), string(record.Birthday), string(record.Event)),
		),
	)
}

func addReminderHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Text string `json:"text"`
			Date string `json:"date"`
			Time string `json:"time"`
			Type string `json:"type"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		res, err := svc.AddReminder(ctx, app.NewReminder{
			Text: args.Text,
			Date: args.Date,
			Time: args.Time,
			Type: record.ParseReminderType(args.Type),
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(res)
	}
}

func listNotesTool() mcp.Tool {
	return mcp.NewTool(
		"list_notes",
		mcp.WithDescription("List notes. Locked notes show only their title."),
	)
}

func listNotesHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		notes, err := svc.Notes(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"notes": notes,
			"count": len(notes),
		})
	}
}

func orEmpty[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
