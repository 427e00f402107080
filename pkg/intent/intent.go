// Package intent turns one line of chat into a typed request. Classification
// is pure: it reads no stores and has no side effects.
package intent

import (
	"strings"
	"time"

	"tableflip.dev/taskflow/pkg/timeutil"
)

// Intent is one of the types in this package.
type Intent interface {
	intent()
}

// Page is an app screen reachable from chat.
type Page string

const (
	PageHome      Page = "/dashboard"
	PageCalendar  Page = "/calendar"
	PageNotes     Page = "/notes"
	PageWorkHours Page = "/work-hours"
	PageGoals     Page = "/goals"
	PageHabits    Page = "/habits"
	PageFocus     Page = "/focus"
	PageAnalytics Page = "/analytics"
)

// Label is the name used in "Opening <label>…".
func (p Page) Label() string {
	if p == PageHome {
		return "home"
	}
	return strings.TrimPrefix(string(p), "/")
}

// QueryKind selects a data answer.
type QueryKind string

const (
	TodayPlan          QueryKind = "todayPlan"
	NotesSummary       QueryKind = "notesSummary"
	FocusPlan          QueryKind = "focusPlan"
	WeeklyProductivity QueryKind = "weeklyProductivity"
	Net                QueryKind = "net"
	Expenses           QueryKind = "expenses"
	Earnings           QueryKind = "earnings"
	WorkHours          QueryKind = "work"
)

// Money reports whether the kind takes a timeframe.
func (k QueryKind) Money() bool {
	switch k {
	case Net, Expenses, Earnings, WorkHours:
		return true
	}
	return false
}

// SocialKind selects a small talk reply.
type SocialKind string

const (
	Greeting        SocialKind = "greeting"
	GreetingTime    SocialKind = "greetingTime"
	HowAreYou       SocialKind = "howAreYou"
	WhoAmI          SocialKind = "whoAmI"
	Thanks          SocialKind = "thanks"
	WhoAreYou       SocialKind = "whoAreYou"
	SmallTalkInvite SocialKind = "smallTalkInvite"
)

// Navigate opens a page.
type Navigate struct {
	Page Page
}

// CreateReminder adds a reminder. Date and Time are always set; Text may be
// empty, which the store rejects.
type CreateReminder struct {
	Date string
	Time string
	Text string
}

// CreateNote adds a note. Both fields are empty when the command carried no
// payload.
type CreateNote struct {
	Title   string
	Content string
}

// CreateTodo adds a todo.
type CreateTodo struct {
	Date string
	Text string
}

// Query asks for a data answer. Timeframe only matters for money kinds.
type Query struct {
	Kind      QueryKind
	Timeframe timeutil.Timeframe
}

// SocialChat is small talk. Text is the normalized input.
type SocialChat struct {
	Kind SocialKind
	Text string
}

// Help asks for the command list.
type Help struct{}

// Unrecognized matched no rule.
type Unrecognized struct{}

func (Navigate) intent()       {}
func (CreateReminder) intent() {}
func (CreateNote) intent()     {}
func (CreateTodo) intent()     {}
func (Query) intent()          {}
func (SocialChat) intent()     {}
func (Help) intent()           {}
func (Unrecognized) intent()   {}

// Defaults are the dates classification resolves against. Today is the
// caller's current day; DefaultDate is the calendar's selected day and only
// applies to reminders.
type Defaults struct {
	Today       string
	DefaultDate string
}

func (d Defaults) today() string {
	if timeutil.ValidISO(d.Today) {
		return d.Today
	}
	return timeutil.ISO(time.Now())
}

// Input is what each rule sees.
type Input struct {
	// Raw is the trimmed original text.
	Raw string
	// Norm is Raw lowercased with whitespace collapsed.
	Norm     string
	Defaults Defaults
}

// Normalize lowercases s and collapses runs of whitespace.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Classify resolves raw to exactly one intent, trying Rules in order.
func Classify(raw string, d Defaults) Intent {
	in := Input{Raw: strings.TrimSpace(raw), Norm: Normalize(raw), Defaults: d}
	in.Defaults.Today = d.today()
	for _, r := range Rules() {
		if got, ok := r.Match(in); ok {
			return got
		}
	}
	return Unrecognized{}
}
