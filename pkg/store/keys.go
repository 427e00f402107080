package store

import (
	"strings"

	"tableflip.dev/taskflow/pkg/events"
)

// Guest is the identity used when nobody is signed in. Its buckets are the
// unsuffixed legacy keys.
const Guest = "guest"

const identityToken = "{id}"

// Layout describes how a bucket's JSON is shaped.
type Layout int

const (
	// Flat is a JSON array of records, newest first.
	Flat Layout = iota
	// DayMap is an object keyed by ISO day, each holding an array.
	DayMap
	// Object is a single JSON object.
	Object
)

// Key names one persisted bucket.
type Key struct {
	Name   string
	Topic  events.Topic
	Layout Layout
	// Scoped buckets are partitioned by identity.
	Scoped bool
}

// For resolves the storage key for identity. Names carrying {id} embed it;
// other scoped names get an "_identity" suffix except for the guest.
func (k Key) For(identity string) string {
	if identity == "" {
		identity = Guest
	}
	if strings.Contains(k.Name, identityToken) {
		return strings.ReplaceAll(k.Name, identityToken, identity)
	}
	if !k.Scoped || identity == Guest {
		return k.Name
	}
	return k.Name + "_" + identity
}

// matches reports whether resolved is some identity's copy of k.
func (k Key) matches(resolved string) bool {
	if i := strings.Index(k.Name, identityToken); i >= 0 {
		prefix, suffix := k.Name[:i], k.Name[i+len(identityToken):]
		return len(resolved) > len(prefix)+len(suffix) &&
			strings.HasPrefix(resolved, prefix) && strings.HasSuffix(resolved, suffix)
	}
	if resolved == k.Name {
		return true
	}
	return k.Scoped && strings.HasPrefix(resolved, k.Name+"_")
}

// Todo buckets.
var (
	TodosToday  = Key{Name: "taskflow_todos_today", Topic: events.TopicTodos, Layout: DayMap, Scoped: true}
	TodosV1     = Key{Name: "taskflow_todos_v1", Topic: events.TopicTodos, Scoped: true}
	Tasks       = Key{Name: "taskflow_tasks_v1", Topic: events.TopicTodos, Scoped: true}
	UserTodos   = Key{Name: "taskflow:{id}:todos", Topic: events.TopicTodos, Scoped: true}
	TodosLegacy = Key{Name: "taskflow_todos", Topic: events.TopicTodos, Scoped: true}
	TodosBare   = Key{Name: "todos", Topic: events.TopicTodos, Scoped: true}
)

// Reminder buckets.
var (
	CalendarReminders = Key{Name: "taskflow_calendar_reminders_v1", Topic: events.TopicReminders, Layout: DayMap, Scoped: true}
	RemindersToday    = Key{Name: "taskflow_reminders_today", Topic: events.TopicReminders, Layout: DayMap, Scoped: true}
	Reminders         = Key{Name: "taskflow_reminders_v1", Topic: events.TopicReminders, Scoped: true}
	RemindersLegacy   = Key{Name: "taskflow_reminders", Topic: events.TopicReminders, Scoped: true}
	UserReminders     = Key{Name: "taskflow:{id}:reminders", Topic: events.TopicReminders, Scoped: true}
)

// Work buckets are shared by every identity.
var (
	WorkSessions       = Key{Name: "taskflow_work_sessions_v1", Topic: events.TopicWork}
	SessionsV1         = Key{Name: "taskflow_sessions_v1", Topic: events.TopicWork}
	WorkSessionsLegacy = Key{Name: "taskflow_work_sessions", Topic: events.TopicWork}
	WorkSessionsBare   = Key{Name: "work_sessions", Topic: events.TopicWork}
	Expenses           = Key{Name: "taskflow_expenses_v1", Topic: events.TopicWork}
	ExpensesLegacy     = Key{Name: "taskflow_expenses", Topic: events.TopicWork}
	FocusStats         = Key{Name: "taskflow_focus_stats_v1", Topic: events.TopicFocus, Layout: Object}
)

// Remaining per-identity buckets.
var (
	Goals       = Key{Name: "taskflow_goals_v1", Topic: events.TopicGoals, Scoped: true}
	GoalsV1     = Key{Name: "goals_v1", Topic: events.TopicGoals, Scoped: true}
	GoalsLegacy = Key{Name: "taskflow_goals", Topic: events.TopicGoals, Scoped: true}
	GoalsBare   = Key{Name: "goals", Topic: events.TopicGoals, Scoped: true}
	Notes       = Key{Name: "taskflow_notes_v1", Topic: events.TopicNotes, Scoped: true}
	Habits      = Key{Name: "taskflow_habits_v1", Topic: events.TopicHabits, Scoped: true}
	ChatHistory = Key{Name: "taskflow_chat_history_v1", Topic: events.TopicChat, Scoped: true}
)

// Account buckets.
var (
	Users           = Key{Name: "taskflow_users_v1", Topic: events.TopicUsers}
	CurrentSession  = Key{Name: "taskflow_session_v1", Topic: events.TopicUsers, Layout: Object}
	LastCredentials = Key{Name: "taskflow_last_cred_v1", Topic: events.TopicUsers, Layout: Object}
)

// TodoKeys lists every todo bucket, newest scheme first. All are merged.
func TodoKeys() []Key {
	return []Key{TodosToday, TodosV1, Tasks, UserTodos, TodosLegacy, TodosBare}
}

// ReminderKeys lists every reminder bucket, newest scheme first. All are merged.
func ReminderKeys() []Key {
	return []Key{CalendarReminders, RemindersToday, Reminders, UserReminders, RemindersLegacy}
}

// SessionKeys lists work session buckets; the first with data wins.
func SessionKeys() []Key {
	return []Key{WorkSessions, SessionsV1, WorkSessionsLegacy, WorkSessionsBare}
}

// ExpenseKeys lists expense buckets; the first with data wins.
func ExpenseKeys() []Key {
	return []Key{Expenses, ExpensesLegacy}
}

// GoalKeys lists goal buckets; the first with data wins.
func GoalKeys() []Key {
	return []Key{Goals, GoalsV1, GoalsLegacy, GoalsBare}
}

// Catalog returns every known bucket.
func Catalog() []Key {
	all := []Key{Notes, Habits, ChatHistory, FocusStats, Users, CurrentSession, LastCredentials}
	all = append(all, TodoKeys()...)
	all = append(all, ReminderKeys()...)
	all = append(all, SessionKeys()...)
	all = append(all, ExpenseKeys()...)
	return append(all, GoalKeys()...)
}

// Lookup finds the catalog entry a resolved storage key belongs to,
// preferring the longest matching name.
func Lookup(resolved string) (Key, bool) {
	var best Key
	found := false
	for _, k := range Catalog() {
		if k.matches(resolved) && (!found || len(k.Name) > len(best.Name)) {
			best, found = k, true
		}
	}
	return best, found
}
