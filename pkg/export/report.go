// Package export renders the plain-text data report and hands it to the
// system mail client.
package export

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"tableflip.dev/taskflow/pkg/analytics"
	"tableflip.dev/taskflow/pkg/record"
)

// Section names accepted by ParseSections.
const (
	SectionWorkHours = "workHours"
	SectionEarnings  = "earnings"
	SectionExpenses  = "expenses"
	SectionGoals     = "goals"
	SectionTodos     = "todos"
	SectionReminders = "reminders"
)

// SectionNames lists every section in report order.
var SectionNames = []string{SectionWorkHours, SectionEarnings, SectionExpenses, SectionGoals, SectionTodos, SectionReminders}

// Sections selects what the report includes.
type Sections struct {
	WorkHours bool
	Earnings  bool
	Expenses  bool
	Goals     bool
	Todos     bool
	Reminders bool
}

// AllSections selects everything.
func AllSections() Sections {
	return Sections{WorkHours: true, Earnings: true, Expenses: true, Goals: true, Todos: true, Reminders: true}
}

// ParseSections reads section names case-insensitively. No names means all.
func ParseSections(names []string) (Sections, error) {
	if len(names) == 0 {
		return AllSections(), nil
	}
	var s Sections
	for _, n := range names {
		switch strings.ToLower(strings.TrimSpace(n)) {
		case "workhours", "work", "hours":
			s.WorkHours = true
		case "earnings":
			s.Earnings = true
		case "expenses":
			s.Expenses = true
		case "goals":
			s.Goals = true
		case "todos":
			s.Todos = true
		case "reminders":
			s.Reminders = true
		default:
			return Sections{}, fmt.Errorf("export: unknown section %q (want one of %s)", n, strings.Join(SectionNames, ", "))
		}
	}
	return s, nil
}

// Data is what a report is built from.
type Data struct {
	Sessions  []record.WorkSession
	Expenses  []record.Expense
	Goals     []record.GoalView
	Todos     []record.Todo
	Reminders []record.Reminder
}

// Collect reads the merged views from g.
func Collect(g *analytics.Aggregator) Data {
	return Data{
		Sessions:  g.Sessions(),
		Expenses:  g.Expenses(),
		Goals:     g.Goals(),
		Todos:     g.Todos(),
		Reminders: g.Reminders(),
	}
}

// Report is one export.
type Report struct {
	User      string
	Generated time.Time
	Sections  Sections
	Data      Data
}

func (r Report) user() string {
	if u := strings.TrimSpace(r.User); u != "" {
		return u
	}
	return "guest"
}

// Subject is the email subject line.
func (r Report) Subject() string {
	return fmt.Sprintf("TaskFlow Export - %s - %s", r.user(), r.Generated.Format("1/2/2006"))
}

func currency(v float64) string {
	p := message.NewPrinter(language.English)
	if v < 0 {
		return p.Sprintf("-$%.2f", -v)
	}
	return p.Sprintf("$%.2f", v)
}

func hours(v float64) string {
	return fmt.Sprintf("%.1fh", v)
}

// String renders the report body.
func (r Report) String() string {
	d, sec := r.Data, r.Sections
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	line("TaskFlow Export Report")
	line("User: %s", r.user())
	line("Generated: %s", r.Generated.Format("1/2/2006, 3:04:05 PM"))
	line("----------------------------------------")
	line("")

	if sec.WorkHours || sec.Earnings {
		var h, earned float64
		for _, s := range d.Sessions {
			h += s.Hours
			earned += s.Earnings
		}
		line("✅ Work Hours / Earnings")
		line("Total sessions: %d", len(d.Sessions))
		if sec.WorkHours {
			line("Total hours: %s", hours(h))
		}
		if sec.Earnings {
			line("Total earnings: %s", currency(earned))
		}
		line("")
	}

	if sec.Expenses {
		var spent float64
		for _, e := range d.Expenses {
			spent += e.Amount
		}
		line("✅ Expenses")
		line("Total records: %d", len(d.Expenses))
		line("Total spent: %s", currency(spent))
		if len(d.Expenses) > 0 {
			line("")
			line("Recent expenses:")
			for i, e := range d.Expenses[:min(5, len(d.Expenses))] {
				typ := ""
				if e.Type != "" {
					typ = " (" + string(e.Type) + ")"
				}
				line("%d. %s%s - %s", i+1, e.Name, typ, currency(e.Amount))
			}
		}
		line("")
	}

	if sec.Goals {
		line("✅ Goals")
		line("Total goals: %d", len(d.Goals))
		upcoming := upcomingGoals(d.Goals, 8)
		if len(upcoming) > 0 {
			line("")
			line("Upcoming goals:")
			for i, g := range upcoming {
				line("%d. %s", i+1, goalLine(g))
			}
		}
		line("")
	}

	if sec.Todos {
		var pending []record.Todo
		for _, t := range d.Todos {
			if !t.Done {
				pending = append(pending, t)
			}
		}
		line("✅ Todos")
		line("Total todos: %d", len(d.Todos))
		line("Completed: %d", len(d.Todos)-len(pending))
		line("Pending: %d", len(pending))
		if len(pending) > 0 {
			line("")
			line("Pending todos:")
			for i, t := range pending[:min(10, len(pending))] {
				line("%d. %s", i+1, orDefault(t.Text, "Todo"))
			}
		}
		line("")
	}

	if sec.Reminders {
		today := r.Generated.Format("2006-01-02")
		handled := 0
		var todays []record.Reminder
		for _, rem := range d.Reminders {
			if rem.Handled {
				handled++
			}
			if rem.Date == today && len(todays) < 10 {
				todays = append(todays, rem)
			}
		}
		line("✅ Reminders")
		line("Total reminders: %d", len(d.Reminders))
		line("Handled: %d", handled)
		line("Pending: %d", len(d.Reminders)-handled)
		if len(todays) > 0 {
			line("")
			line("Today (%s) reminders:", today)
			for i, rem := range todays {
				status := "⏳"
				if rem.Handled {
					status = "✅"
				}
				line("%d. %s %s (%s)", i+1, status, orDefault(rem.Text, "Reminder"), rem.Type)
			}
		}
		line("")
	}

	b.WriteString("— End of report —")
	return b.String()
}

func upcomingGoals(goals []record.GoalView, n int) []record.GoalView {
	var out []record.GoalView
	for _, g := range goals {
		if g.TargetDate != "" {
			out = append(out, g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TargetDate < out[j].TargetDate })
	return out[:min(n, len(out))]
}

func goalLine(g record.GoalView) string {
	parts := []string{orDefault(g.Title, "Goal")}
	if g.Category != "" {
		parts = append(parts, string(g.Category))
	}
	target := strings.TrimSpace(strconv.FormatFloat(g.TargetValue, 'f', -1, 64) + " " + g.Unit)
	parts = append(parts, "Target: "+target, "Due: "+g.TargetDate)
	return strings.Join(parts, " • ")
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}
