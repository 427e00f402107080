package assistant

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/intent"
)

const (
	reminderFailed = "I couldn’t create that reminder. Please include reminder text."
	noteFailed     = "I couldn’t create the note. Please try again."
	todoFailed     = "I couldn’t create that todo. Please include todo text."
)

func (a *Assistant) failed(err error, what, text string) Reply {
	if !errors.Is(err, app.ErrValidation) {
		a.Log.Error().Err(err).Str("intent", what).Msg("create failed")
	}
	return Reply{Text: text}
}

func (a *Assistant) createReminder(ctx context.Context, in intent.CreateReminder) Reply {
	res, err := a.Stores.Reminders.Add(ctx, app.NewReminder{Text: in.Text, Date: in.Date, Time: in.Time})
	if err != nil {
		return a.failed(err, "reminder", reminderFailed)
	}
	r := res.Reminder
	return Reply{
		Text:     fmt.Sprintf("✅ Reminder created\n📅 %s\n⏰ %s\n📝 %s\n\nTip: open calendar to view it.", r.Date, r.Time, r.Text),
		Warnings: res.Warnings,
	}
}

func (a *Assistant) createNote(ctx context.Context, in intent.CreateNote) Reply {
	n, err := a.Stores.Notes.Add(ctx, app.NewNote{Title: in.Title, Content: in.Content})
	if err != nil {
		return a.failed(err, "note", noteFailed)
	}
	return Reply{Text: fmt.Sprintf("✅ Note created\n📝 %s\n\nTip: open notes to view it.", n.Title)}
}

func (a *Assistant) createTodo(ctx context.Context, in intent.CreateTodo) Reply {
	res, err := a.Stores.Todos.Add(ctx, in.Text, in.Date)
	if err != nil {
		return a.failed(err, "todo", todoFailed)
	}
	t := res.Todo
	return Reply{
		Text:     fmt.Sprintf("✅ Todo added\n📅 %s\n📝 %s\n\nTip: open home to see it.", t.Date, t.Text),
		Warnings: res.Warnings,
	}
}
