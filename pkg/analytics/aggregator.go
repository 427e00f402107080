// Package analytics reconciles the todo, reminder, work and goal buckets into
// one canonical view and reduces it to the numbers the assistant and the
// dashboard report. It never writes.
package analytics

import (
	"time"

	"tableflip.dev/taskflow/pkg/clock"
	"tableflip.dev/taskflow/pkg/record"
	"tableflip.dev/taskflow/pkg/store"
	"tableflip.dev/taskflow/pkg/timeutil"
)

// DefaultSeriesDays is the trailing window for per-day series.
const DefaultSeriesDays = 30

// Aggregator reads every bucket of one identity.
type Aggregator struct {
	Store *store.Accessor
	Clock clock.Clock
	// WeekStart is the first day of the week for week ranges.
	WeekStart time.Weekday
	// SeriesDays is the per-day window, DefaultSeriesDays when zero.
	SeriesDays int
}

// New returns an aggregator with Monday weeks.
func New(a *store.Accessor, c clock.Clock) *Aggregator {
	return &Aggregator{Store: a, Clock: c, WeekStart: time.Monday}
}

func (g *Aggregator) now() time.Time { return clock.Or(g.Clock).Now() }

// Today is the current day key.
func (g *Aggregator) Today() string { return timeutil.ISO(g.now()) }

func (g *Aggregator) seriesDays() int {
	if g.SeriesDays <= 0 {
		return DefaultSeriesDays
	}
	return g.SeriesDays
}

// records flattens k. Legacy arrays under day-map keys are dated today.
func (g *Aggregator) records(k store.Key) []record.Raw {
	if g.Store == nil {
		return nil
	}
	arrayDay := ""
	if k.Layout == store.DayMap {
		arrayDay = g.Today()
	}
	return record.Flatten(g.Store.Raw(k), arrayDay)
}

// firstWithData returns the records of the first key holding any.
func (g *Aggregator) firstWithData(keys []store.Key) []record.Raw {
	if g.Store == nil {
		return nil
	}
	for _, k := range keys {
		if g.Store.Has(k) {
			return g.records(k)
		}
	}
	return nil
}

// Todos merges every todo bucket. Records sharing an id, or text and date
// when they have none, collapse into one: later fields overlay earlier ones
// and the merged todo is done if any copy is.
func (g *Aggregator) Todos() []record.Todo {
	var order []string
	byKey := map[string]record.Todo{}
	for _, k := range store.TodoKeys() {
		for _, m := range g.records(k) {
			t, ok := record.TodoFrom(m)
			if !ok {
				continue
			}
			key := dedupeKey(t.ID, t.Text, t.Date)
			prev, seen := byKey[key]
			if !seen {
				order = append(order, key)
				byKey[key] = t
				continue
			}
			byKey[key] = mergeTodo(prev, t)
		}
	}
	out := make([]record.Todo, 0, len(order))
	for _, key := range order {
		out = append(out, byKey[key])
	}
	return out
}

func mergeTodo(prev, next record.Todo) record.Todo {
	merged := next
	if merged.ID == "" {
		merged.ID = prev.ID
	}
	if merged.Date == "" {
		merged.Date = prev.Date
	}
	if merged.CreatedAt == 0 {
		merged.CreatedAt = prev.CreatedAt
	}
	merged.Done = prev.Done || next.Done
	return merged
}

// Reminders merges every reminder bucket the same way todos are merged,
// OR-ing the handled flag.
func (g *Aggregator) Reminders() []record.Reminder {
	var order []string
	byKey := map[string]record.Reminder{}
	for _, k := range store.ReminderKeys() {
		for _, m := range g.records(k) {
			r, ok := record.ReminderFrom(m)
			if !ok {
				continue
			}
			key := dedupeKey(r.ID, r.Text, r.Date)
			prev, seen := byKey[key]
			if !seen {
				order = append(order, key)
				byKey[key] = r
				continue
			}
			merged := r
			if merged.Date == "" {
				merged.Date = prev.Date
			}
			if merged.CreatedAt == 0 {
				merged.CreatedAt = prev.CreatedAt
			}
			merged.Handled = prev.Handled || r.Handled
			byKey[key] = merged
		}
	}
	out := make([]record.Reminder, 0, len(order))
	for _, key := range order {
		out = append(out, byKey[key])
	}
	return out
}

func dedupeKey(id, text, date string) string {
	if id != "" {
		return "id:" + id
	}
	return "td:" + text + "-" + date
}

// Sessions reads the first work session bucket with data.
func (g *Aggregator) Sessions() []record.WorkSession {
	var out []record.WorkSession
	for _, m := range g.firstWithData(store.SessionKeys()) {
		if s, ok := record.SessionFrom(m); ok {
			out = append(out, s)
		}
	}
	return out
}

// Expenses reads the first expense bucket with data.
func (g *Aggregator) Expenses() []record.Expense {
	var out []record.Expense
	for _, m := range g.firstWithData(store.ExpenseKeys()) {
		if e, ok := record.ExpenseFrom(m); ok {
			out = append(out, e)
		}
	}
	return out
}

// Goals reads the first goal bucket with data.
func (g *Aggregator) Goals() []record.GoalView {
	var out []record.GoalView
	for _, m := range g.firstWithData(store.GoalKeys()) {
		if v, ok := record.GoalFrom(m); ok {
			out = append(out, v)
		}
	}
	return out
}

// Notes reads the notes bucket, newest first.
func (g *Aggregator) Notes() []record.Note {
	var out []record.Note
	for _, m := range g.records(store.Notes) {
		if n, ok := record.NoteFrom(m); ok {
			out = append(out, n)
		}
	}
	return out
}
