package intent

import (
	"regexp"
	"strings"

	"tableflip.dev/taskflow/pkg/timeutil"
)

// Rule is one classification step. Match reports false to pass the input on.
type Rule struct {
	Name  string
	Match func(in Input) (Intent, bool)
}

// Rules returns the classification steps in precedence order.
func Rules() []Rule {
	return []Rule{
		{Name: "help", Match: matchHelp},
		{Name: "create-reminder", Match: matchCreateReminder},
		{Name: "create-note", Match: matchCreateNote},
		{Name: "create-todo", Match: matchCreateTodo},
		{Name: "open", Match: matchOpen},
		{Name: "social", Match: matchSocial},
		{Name: "plan", Match: matchPlan},
		{Name: "money", Match: matchMoney},
		{Name: "navigate", Match: matchKeyword},
	}
}

func has(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func hasPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func matchHelp(in Input) (Intent, bool) {
	switch in.Norm {
	case "", "help", "menu":
		return Help{}, true
	}
	return nil, false
}

func matchCreateReminder(in Input) (Intent, bool) {
	t := in.Norm
	if has(t, "set reminder", "add reminder", "create reminder") ||
		strings.HasPrefix(t, "remind me") ||
		(strings.Contains(t, "reminder") && strings.Contains(t, "at ")) {
		return ParseReminder(in.Raw, in.Defaults), true
	}
	return nil, false
}

func matchCreateNote(in Input) (Intent, bool) {
	t := in.Norm
	if hasPrefix(t, "create note", "add note") || strings.Contains(t, "create note ") {
		return ParseNote(in.Raw), true
	}
	return nil, false
}

func matchCreateTodo(in Input) (Intent, bool) {
	if hasPrefix(in.Norm, "add todo", "create todo", "add task", "create task") {
		return ParseTodo(in.Raw, in.Defaults), true
	}
	return nil, false
}

var openRe = regexp.MustCompile(`^(?:open|go to)\s+(?:the\s+)?(.+?)(?:\s+page)?$`)

// matchOpen takes "open X" and "go to X" plus phrases that can only mean
// a page.
func matchOpen(in Input) (Intent, bool) {
	switch {
	case has(in.Norm, "focus timer", "start focus"):
		return Navigate{Page: PageFocus}, true
	case strings.Contains(in.Norm, "habit tracker"):
		return Navigate{Page: PageHabits}, true
	}
	m := openRe.FindStringSubmatch(in.Norm)
	if m == nil {
		return nil, false
	}
	if p, ok := routeFor(m[1]); ok {
		return Navigate{Page: p}, true
	}
	return nil, false
}

var (
	homeRe     = regexp.MustCompile(`(^| )home( |$)`)
	calendarRe = regexp.MustCompile(`(^| )calendar( |$)`)
	notesRe    = regexp.MustCompile(`(^| )notes( |$)`)
	goalsRe    = regexp.MustCompile(`(^| )goals( |$)`)
	focusRe    = regexp.MustCompile(`(^| )focus( |$)`)
)

// routeFor is the page keyword table.
func routeFor(t string) (Page, bool) {
	switch {
	case homeRe.MatchString(t) || has(t, "dashboard"):
		return PageHome, true
	case calendarRe.MatchString(t):
		return PageCalendar, true
	case notesRe.MatchString(t):
		return PageNotes, true
	case has(t, "work hours", "open work") || t == "work":
		return PageWorkHours, true
	case goalsRe.MatchString(t):
		return PageGoals, true
	case has(t, "habits", "habit tracker"):
		return PageHabits, true
	case focusRe.MatchString(t) || has(t, "pomodoro", "focus timer", "start focus"):
		return PageFocus, true
	case has(t, "analytics"):
		return PageAnalytics, true
	}
	return "", false
}

func matchKeyword(in Input) (Intent, bool) {
	if p, ok := routeFor(in.Norm); ok {
		return Navigate{Page: p}, true
	}
	return nil, false
}

// socialKind reports the first small talk pattern t matches.
func socialKind(t string) (SocialKind, bool) {
	switch {
	case t == "hi" || t == "hello" || t == "hey" || hasPrefix(t, "hi ", "hello ", "hey "):
		return Greeting, true
	case has(t, "good morning", "good afternoon", "good evening", "good night"):
		return GreetingTime, true
	case has(t, "how are you", "how r you", "how are u"):
		return HowAreYou, true
	case has(t, "who am i", "who i am", "what is my name", "my name"):
		return WhoAmI, true
	case strings.Contains(t, "thank") || t == "ty":
		return Thanks, true
	case has(t, "who are you", "what are you", "your name"):
		return WhoAreYou, true
	case has(t, "talk to me", "interact with me", "chat with me", "be my friend", "keep me company"):
		return SmallTalkInvite, true
	}
	return "", false
}

func matchSocial(in Input) (Intent, bool) {
	if k, ok := socialKind(in.Norm); ok {
		return SocialChat{Kind: k, Text: in.Norm}, true
	}
	return nil, false
}

func matchPlan(in Input) (Intent, bool) {
	t := in.Norm
	var k QueryKind
	switch {
	case has(t, "what should i do today", "plan my day", "today plan") ||
		(has(t, "what") && has(t, "do") && has(t, "today")):
		k = TodayPlan
	case has(t, "summarize my notes", "summary of my notes", "notes summary") ||
		(has(t, "summarize") && has(t, "notes")):
		k = NotesSummary
	case has(t, "focus plan", "pomodoro") || (has(t, "suggest") && has(t, "focus")):
		k = FocusPlan
	case has(t, "this week productivity", "weekly report") ||
		(has(t, "productive") && has(t, "week")):
		k = WeeklyProductivity
	default:
		return nil, false
	}
	return Query{Kind: k, Timeframe: timeutil.Today}, true
}

var netRe = regexp.MustCompile(`\bnet\b`)

func matchMoney(in Input) (Intent, bool) {
	t := in.Norm
	var k QueryKind
	switch {
	case netRe.MatchString(t) || has(t, "profit", "balance"):
		k = Net
	case has(t, "expense", "spent", "spend"):
		k = Expenses
	case has(t, "earning", "income", "salary"):
		k = Earnings
	case has(t, "my work", "workings", "work hours") || (has(t, "hours") && has(t, "work")):
		k = WorkHours
	default:
		return nil, false
	}
	return Query{Kind: k, Timeframe: timeutil.DetectTimeframe(t)}, true
}
