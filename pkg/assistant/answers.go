package assistant

import (
	"fmt"
	"strings"

	"tableflip.dev/taskflow/pkg/intent"
	"tableflip.dev/taskflow/pkg/record"
	"tableflip.dev/taskflow/pkg/timeutil"
)

// Preview sizes.
const (
	topExpenses  = 3
	topTodos     = 5
	topReminders = 5
	topNotes     = 5
	topGoals     = 2
	notePreview  = 80
)

func (a *Assistant) answer(q intent.Query) string {
	switch q.Kind {
	case intent.TodayPlan:
		return a.todayPlan()
	case intent.NotesSummary:
		return a.notesSummary()
	case intent.FocusPlan:
		return a.focusPlan()
	case intent.WeeklyProductivity:
		return a.weekly()
	default:
		return a.money(q.Kind, q.Timeframe)
	}
}

func openTodos(todos []record.Todo) (open []record.Todo, done int) {
	for _, t := range todos {
		if t.Done {
			done++
		} else {
			open = append(open, t)
		}
	}
	return open, done
}

func openReminders(rems []record.Reminder) (open []record.Reminder, handled int) {
	for _, r := range rems {
		if r.Handled {
			handled++
		} else {
			open = append(open, r)
		}
	}
	return open, handled
}

func (a *Assistant) todayPlan() string {
	g := a.Analytics
	today := g.Today()
	todos := g.TodosBetween(today, today)
	rems := g.RemindersBetween(today, today)
	undone, done := openTodos(todos)
	remOpen, handled := openReminders(rems)

	lines := []string{
		fmt.Sprintf("📌 %s, here’s your plan for today (%s):", a.name(), today),
		"",
		fmt.Sprintf("✅ Todos: %d/%d done", done, len(todos)),
	}
	if len(undone) > 0 {
		lines = append(lines, "Next todos:")
		for i, t := range undone[:min(topTodos, len(undone))] {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, t.Text))
		}
	} else {
		lines = append(lines, "No pending todos for today. Add one from Home.")
	}

	lines = append(lines, "", fmt.Sprintf("⏰ Reminders: %d/%d handled", handled, len(rems)))
	if len(remOpen) > 0 {
		lines = append(lines, "Open reminders:")
		for i, r := range remOpen[:min(topReminders, len(remOpen))] {
			lines = append(lines, fmt.Sprintf("%d. [%s] %s", i+1, r.Type, r.Text))
		}
	} else {
		lines = append(lines, "No open reminders for today.")
	}

	var goals []string
	for _, v := range g.Goals() {
		if !v.Completed && v.Title != "" && len(goals) < topGoals {
			goals = append(goals, v.Title)
		}
	}
	if len(goals) > 0 {
		lines = append(lines, "", "🎯 Quick goal nudge:")
		for i, t := range goals {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, t))
		}
		lines = append(lines, "Try spending 25 minutes on one of these today.")
	}
	return strings.Join(lines, "\n")
}

func preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > notePreview {
		return string(r[:notePreview]) + "…"
	}
	return s
}

func (a *Assistant) notesSummary() string {
	notes := a.Analytics.Notes()
	if len(notes) == 0 {
		return "📝 Notes summary:\nYou don’t have any notes yet.\nGo to Notes → Create New Note."
	}
	lines := []string{
		fmt.Sprintf("📝 %s, your notes summary: %d total", a.name(), len(notes)),
		"",
		"Latest notes:",
	}
	for i, n := range notes[:min(topNotes, len(notes))] {
		title := strings.TrimSpace(n.Title)
		if title == "" {
			title = intent.UntitledNote
		}
		body := preview(n.Content)
		if n.Protect {
			body = "🔒 locked"
		}
		lines = append(lines, fmt.Sprintf("%d. %s — %s", i+1, title, body))
	}
	lines = append(lines, "", "Tip: say “open notes” if you want to edit them.")
	return strings.Join(lines, "\n")
}

func (a *Assistant) focusPlan() string {
	today := a.Analytics.Today()
	undone, _ := openTodos(a.Analytics.TodosBetween(today, today))
	var picks []string
	for _, t := range undone {
		if t.Text != "" {
			picks = append(picks, t.Text)
		}
	}

	lines := []string{
		fmt.Sprintf("🎯 %s, here’s a focus plan (fast + effective):", a.name()),
		"",
		"Plan format: 25 min focus + 5 min break (Pomodoro).",
		"",
		"Tip: type “open focus” to start your timer.",
		"",
	}
	if len(picks) > 0 {
		fill := []string{picks[0], "A small task (5–10 min) to build momentum", "Review + clean up tasks/reminders"}
		copy(fill[1:], picks[1:min(3, len(picks))])
		lines = append(lines, "Pick 3 focus blocks:")
		for i, f := range fill {
			lines = append(lines, fmt.Sprintf("%d) %s", i+1, f))
		}
	} else {
		lines = append(lines,
			"You have no pending todos for today.",
			"Recommendation:",
			"1) Add 1–2 todos on Home",
			"2) Do one 25-min block immediately",
			"3) End with 10 mins planning tomorrow",
		)
	}
	lines = append(lines, "", "Power move: after 3 Pomodoros, take a 20–30 min break.")
	return strings.Join(lines, "\n")
}

func (a *Assistant) weekly() string {
	g := a.Analytics
	m := g.WorkMoney(timeutil.Week)
	todos := g.TodosBetween(m.Start, m.End)
	rems := g.RemindersBetween(m.Start, m.End)
	_, done := openTodos(todos)
	_, handled := openReminders(rems)

	return strings.Join([]string{
		fmt.Sprintf("📊 %s, your weekly productivity (%s → %s)", a.name(), m.Start, m.End),
		"",
		fmt.Sprintf("✅ Todos: %d/%d completed", done, len(todos)),
		fmt.Sprintf("⏰ Reminders: %d/%d handled", handled, len(rems)),
		"",
		fmt.Sprintf("💼 Work Hours: %.1fh", m.Hours),
		"💰 Earnings: " + Money(m.Earnings),
		"🧾 Expenses: " + Money(m.Spent),
		"📈 Net: " + Money(m.Net),
		"",
		"Tip: Ask “my earnings this week” or “my expenses this month” anytime.",
	}, "\n")
}

func (a *Assistant) money(kind intent.QueryKind, tf timeutil.Timeframe) string {
	m := a.Analytics.WorkMoney(tf)
	lines := []string{fmt.Sprintf("📌 %s (%s → %s)", tf.Label(), m.Start, m.End), ""}

	switch kind {
	case intent.WorkHours:
		lines = append(lines,
			fmt.Sprintf("💼 Work sessions: %d", len(m.Sessions)),
			fmt.Sprintf("🕒 Total work hours: %.1fh", m.Hours),
			"",
			"Tip: say “open work hours” to view details.",
		)
	case intent.Earnings:
		lines = append(lines,
			fmt.Sprintf("💼 Work sessions: %d", len(m.Sessions)),
			"💰 Total earnings: "+Money(m.Earnings),
		)
		if m.Hours > 0 {
			lines = append(lines, "📈 Effective hourly: "+Money(m.Earnings/max(m.Hours, 0.01))+"/hr")
		}
	case intent.Expenses:
		lines = append(lines,
			fmt.Sprintf("🧾 Expense records: %d", len(m.Expenses)),
			"💸 Total expenses: "+Money(m.Spent),
		)
		if len(m.Expenses) > 0 {
			lines = append(lines, "", "Latest expenses:")
			for i, e := range m.Expenses[:min(topExpenses, len(m.Expenses))] {
				lines = append(lines, fmt.Sprintf("%d. %s — %s", i+1, e.Name, Money(e.Amount)))
			}
		}
	default:
		insight := "Insight: Positive net, keep it up."
		if m.Net < 0 {
			insight = "Insight: You spent more than you earned in this period."
		}
		lines = append(lines,
			"💰 Earnings: "+Money(m.Earnings),
			"💸 Expenses: "+Money(m.Spent),
			"📈 Net (profit): "+Money(m.Net),
			"",
			insight,
		)
	}
	return strings.Join(lines, "\n")
}

