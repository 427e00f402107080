package printers

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/assistant"
	"tableflip.dev/taskflow/pkg/record"
)

type PrettyPrint struct {
	ShowID bool
	// Out defaults to color.Output.
	Out io.Writer
}

var (
	spacing = strings.Repeat(" ", len("d3b07384-d9a0-4c9b-8f3e-1ab2c3d4e5f6  "))
)

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out())
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int, noun string) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintf(pp.out(), " %s\n", noun)
	default:
		_, _ = c.Fprintf(pp.out(), " %ss\n", noun)
	}
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	if pp.ShowID {
		_, _ = f.Fprint(pp.out(), spacing)
	}
	_, _ = f.Fprint(pp.out(), " none\n\n")
}

func (pp *PrettyPrint) id(id string) {
	if !pp.ShowID {
		return
	}
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	pad := len(spacing) - len(id)
	if pad < 1 {
		pad = 1
	}
	_, _ = y.Fprint(pp.out(), id+strings.Repeat(" ", pad))
}

func check(done bool) string {
	if done {
		return "✓"
	}
	return "•"
}

func (pp *PrettyPrint) Todos(todos ...record.Todo) {
	if len(todos) == 0 {
		pp.none()
		return
	}
	t := color.New()
	f := color.New(color.Faint)
	for _, td := range todos {
		pp.id(td.ID)
		printer := t
		if td.Done {
			printer = f
		}
		_, _ = printer.Fprintf(pp.out(), "%s %s", check(td.Done), td.Text)
		if td.Date != "" {
			_, _ = f.Fprintf(pp.out(), "  %s", td.Date)
		}
		_, _ = fmt.Fprintln(pp.out())
	}
	pp.NewLine()
}

func (pp *PrettyPrint) Reminders(rems ...record.Reminder) {
	if len(rems) == 0 {
		pp.none()
		return
	}
	t := color.New()
	f := color.New(color.Faint)
	for _, r := range rems {
		pp.id(r.ID)
		printer := t
		if r.Handled {
			printer = f
		}
		_, _ = printer.Fprintf(pp.out(), "%s %s %s %s", check(r.Handled), r.Date, r.Time, r.Text)
		if r.Type != "" && r.Type != record.ReminderPlain {
			_, _ = f.Fprintf(pp.out(), "  (%s)", r.Type)
		}
		_, _ = fmt.Fprintln(pp.out())
	}
	pp.NewLine()
}

func (pp *PrettyPrint) Notes(notes ...record.Note) {
	if len(notes) == 0 {
		pp.none()
		return
	}
	b := color.New(color.Bold)
	f := color.New(color.Faint)
	for _, n := range notes {
		pp.id(n.ID)
		_, _ = b.Fprint(pp.out(), n.Title)
		if n.Protect {
			_, _ = f.Fprintln(pp.out(), "  🔒 locked")
			continue
		}
		_, _ = fmt.Fprintln(pp.out())
		if body := strings.TrimSpace(n.Content); body != "" && body != n.Title {
			pp.id("")
			_, _ = f.Fprintf(pp.out(), "  %s\n", strings.ReplaceAll(body, "\n", " "))
		}
	}
	pp.NewLine()
}

// table renders rows with a bold header through uitable.
func (pp *PrettyPrint) table(header []string, rows [][]string, right ...int) {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	cells := make([]interface{}, 0, len(header)+1)
	if pp.ShowID {
		cells = append(cells, bold.Sprint("ID"))
	}
	for _, h := range header {
		cells = append(cells, bold.Sprint(h))
	}
	tbl.AddRow(cells...)
	for _, row := range rows {
		cells := make([]interface{}, 0, len(row))
		for i, c := range row {
			if i == 0 && !pp.ShowID {
				continue
			}
			cells = append(cells, c)
		}
		tbl.AddRow(cells...)
	}
	offset := 0
	if pp.ShowID {
		offset = 1
	}
	for _, col := range right {
		tbl.RightAlign(col + offset)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (pp *PrettyPrint) Goals(goals ...record.GoalView) {
	if len(goals) == 0 {
		pp.none()
		return
	}
	rows := make([][]string, 0, len(goals))
	for _, g := range goals {
		status := fmt.Sprintf("%.0f%%", g.Progress)
		if g.Completed {
			status = "done"
		}
		rows = append(rows, []string{
			g.ID, g.Title, string(g.Category),
			strings.TrimSpace(num(g.Current) + "/" + num(g.TargetValue) + " " + g.Unit),
			g.TargetDate, status,
		})
	}
	pp.table([]string{"Goal", "Category", "Progress", "Due", "Status"}, rows, 4)
}

func (pp *PrettyPrint) Habits(today string, habits ...record.Habit) {
	if len(habits) == 0 {
		pp.none()
		return
	}
	rows := make([][]string, 0, len(habits))
	for _, h := range habits {
		doneToday := false
		for _, d := range h.Completions {
			if d == today {
				doneToday = true
			}
		}
		rows = append(rows, []string{h.ID, check(doneToday) + " " + h.Title, strconv.Itoa(app.Streak(h, today)) + "d"})
	}
	pp.table([]string{"Habit", "Streak"}, rows, 1)
}

func (pp *PrettyPrint) Sessions(sessions ...record.WorkSession) {
	if len(sessions) == 0 {
		pp.none()
		return
	}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		span := strings.Trim(s.Start+"–"+s.End, "–")
		if s.Source == record.SourceFocus {
			span = "focus"
		}
		rows = append(rows, []string{
			s.ID, s.Date, span, fmt.Sprintf("%.2fh", s.Hours), assistant.Money(s.Earnings), s.Notes,
		})
	}
	pp.table([]string{"Date", "Time", "Hours", "Earned", "Notes"}, rows, 2, 3)
}

func (pp *PrettyPrint) Expenses(expenses ...record.Expense) {
	if len(expenses) == 0 {
		pp.none()
		return
	}
	rows := make([][]string, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, []string{e.ID, e.Date, e.Name, string(e.Type), assistant.Money(e.Amount), e.Where})
	}
	pp.table([]string{"Date", "Name", "Type", "Amount", "Where"}, rows, 3)
}

// Warnings prints secondary-write failures.
func (pp *PrettyPrint) Warnings(warnings ...string) {
	y := color.New(color.FgYellow)
	for _, w := range warnings {
		_, _ = y.Fprintf(pp.out(), "warning: %s\n", w)
	}
}

// Account prints the signed in user, or guest.
func (pp *PrettyPrint) Account(u *record.User) {
	if u == nil {
		_, _ = color.New(color.Faint, color.Italic).Fprintln(pp.out(), "Not signed in (guest).")
		return
	}
	b := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(b.Sprint("Name"), u.DisplayName())
	tbl.AddRow(b.Sprint("Username"), u.Username)
	tbl.AddRow(b.Sprint("Initials"), u.Initials())
	tbl.AddRow(b.Sprint("Identity"), u.IdentityKey())
	_, _ = fmt.Fprintln(pp.out(), tbl)
}
