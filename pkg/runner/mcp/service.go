// Package mcp provides the Model Context Protocol server integration for taskflow.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tableflip.dev/taskflow/pkg/analytics"
	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/assistant"
	"tableflip.dev/taskflow/pkg/intent"
	"tableflip.dev/taskflow/pkg/record"
	"tableflip.dev/taskflow/pkg/store"
	"tableflip.dev/taskflow/pkg/timeutil"
)

// Service coordinates the store-backed operations shared by the MCP tools
// and resources. Every field is bound to one identity.
type Service struct {
	Store     *store.Accessor
	Stores    *app.Stores
	Analytics *analytics.Aggregator
	Assistant *assistant.Assistant
}

var errNotConfigured = errors.New("mcp: service is not configured")

// NewService builds a service over one identity's stores.
func NewService(acc *store.Accessor, stores *app.Stores, agg *analytics.Aggregator, a *assistant.Assistant) *Service {
	return &Service{Store: acc, Stores: stores, Analytics: agg, Assistant: a}
}

func (s *Service) ready() error {
	if s == nil || s.Store == nil || s.Stores == nil || s.Analytics == nil || s.Assistant == nil {
		return errNotConfigured
	}
	return nil
}

func checkDate(field, iso string) (string, error) {
	iso = strings.TrimSpace(iso)
	if iso != "" && !timeutil.ValidISO(iso) {
		return "", fmt.Errorf("%s %q is not YYYY-MM-DD", field, iso)
	}
	return iso, nil
}

// AskResult is the assistant's answer in transport form.
type AskResult struct {
	Intent   string   `json:"intent"`
	Reply    string   `json:"reply"`
	Navigate string   `json:"navigate,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Ask routes text through the assistant. defaultDate is where undated
// reminders go.
func (s *Service) Ask(ctx context.Context, text, defaultDate string) (AskResult, error) {
	if err := s.ready(); err != nil {
		return AskResult{}, err
	}
	defaultDate, err := checkDate("default date", defaultDate)
	if err != nil {
		return AskResult{}, err
	}
	d := intent.Defaults{Today: s.Analytics.Today(), DefaultDate: defaultDate}
	in := intent.Classify(text, d)
	reply := s.Assistant.Respond(ctx, in)
	return AskResult{
		Intent:   intentName(in),
		Reply:    reply.Text,
		Navigate: string(reply.Navigate),
		Warnings: reply.Warnings,
	}, nil
}

func intentName(in intent.Intent) string {
	switch v := in.(type) {
	case intent.Navigate:
		return "navigate"
	case intent.CreateReminder:
		return "createReminder"
	case intent.CreateNote:
		return "createNote"
	case intent.CreateTodo:
		return "createTodo"
	case intent.Query:
		return string(v.Kind)
	case intent.SocialChat:
		return string(v.Kind)
	case intent.Help:
		return "help"
	default:
		return "unrecognized"
	}
}

// Summary is the analytics dashboard. days overrides the series window.
func (s *Service) Summary(ctx context.Context, days int) (analytics.Dashboard, error) {
	if err := s.ready(); err != nil {
		return analytics.Dashboard{}, err
	}
	return s.Analytics.Dashboard(days), nil
}

// Money is the work and spending summary for a timeframe name.
func (s *Service) Money(ctx context.Context, timeframe string) (analytics.Money, error) {
	if err := s.ready(); err != nil {
		return analytics.Money{}, err
	}
	return s.Analytics.WorkMoney(timeutil.ParseTimeframe(timeframe)), nil
}

// Todos lists todos dated iso, or every todo when iso is empty.
func (s *Service) Todos(ctx context.Context, iso string) ([]record.Todo, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	iso, err := checkDate("date", iso)
	if err != nil {
		return nil, err
	}
	if iso == "" {
		return s.Analytics.Todos(), nil
	}
	return s.Analytics.TodosBetween(iso, iso), nil
}

// AddTodo creates a todo.
func (s *Service) AddTodo(ctx context.Context, text, iso string) (app.TodoResult, error) {
	if err := s.ready(); err != nil {
		return app.TodoResult{}, err
	}
	return s.Stores.Todos.Add(ctx, text, iso)
}

// ToggleTodo flips a todo's completion.
func (s *Service) ToggleTodo(ctx context.Context, id string) (record.Todo, error) {
	if err := s.ready(); err != nil {
		return record.Todo{}, err
	}
	return s.Stores.Todos.Toggle(ctx, strings.TrimSpace(id))
}

// Reminders lists reminders on iso, or every reminder when iso is empty.
func (s *Service) Reminders(ctx context.Context, iso string) ([]record.Reminder, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	iso, err := checkDate("date", iso)
	if err != nil {
		return nil, err
	}
	if iso == "" {
		return s.Analytics.Reminders(), nil
	}
	return s.Analytics.RemindersBetween(iso, iso), nil
}

// AddReminder creates a calendar reminder.
func (s *Service) AddReminder(ctx context.Context, in app.NewReminder) (app.ReminderResult, error) {
	if err := s.ready(); err != nil {
		return app.ReminderResult{}, err
	}
	return s.Stores.Reminders.Add(ctx, in)
}

// NoteDTO is a note with locked content withheld.
type NoteDTO struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content,omitempty"`
	Color     string `json:"color"`
	Locked    bool   `json:"locked"`
	CreatedAt int64  `json:"createdAt"`
}

// Notes lists notes. Protected notes carry only their title.
func (s *Service) Notes(ctx context.Context) ([]NoteDTO, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	notes := s.Analytics.Notes()
	out := make([]NoteDTO, 0, len(notes))
	for _, n := range notes {
		dto := NoteDTO{ID: n.ID, Title: n.Title, Color: string(n.Color), Locked: n.Protect, CreatedAt: n.CreatedAt}
		if !n.Protect {
			dto.Content = n.Content
		}
		out = append(out, dto)
	}
	return out, nil
}

// ChatHistory is the saved conversation.
func (s *Service) ChatHistory(ctx context.Context) ([]record.ChatMessage, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return store.Load(s.Store, store.ChatHistory, []record.ChatMessage{}), nil
}
