package analytics

import (
	"math"
	"sort"
	"strings"
	"time"

	"tableflip.dev/taskflow/pkg/record"
	"tableflip.dev/taskflow/pkg/timeutil"
)

// Ratio is a done-out-of-total count. Pct is rounded and 0 when Total is 0.
type Ratio struct {
	Done  int `json:"done"`
	Total int `json:"total"`
	Pct   int `json:"pct"`
}

func ratio(done, total int) Ratio {
	r := Ratio{Done: done, Total: total}
	if total > 0 {
		r.Pct = int(math.Round(float64(done) / float64(total) * 100))
	}
	return r
}

// TodoRatio counts done todos.
func TodoRatio(todos []record.Todo) Ratio {
	done := 0
	for _, t := range todos {
		if t.Done {
			done++
		}
	}
	return ratio(done, len(todos))
}

// ReminderRatio counts handled reminders.
func ReminderRatio(rems []record.Reminder) Ratio {
	done := 0
	for _, r := range rems {
		if r.Handled {
			done++
		}
	}
	return ratio(done, len(rems))
}

// TodoStats is the completion ratio over every todo.
func (g *Aggregator) TodoStats() Ratio { return TodoRatio(g.Todos()) }

// ReminderStats is the handled ratio over every reminder.
func (g *Aggregator) ReminderStats() Ratio { return ReminderRatio(g.Reminders()) }

// TodosBetween returns todos dated within the inclusive range.
func (g *Aggregator) TodosBetween(start, end string) []record.Todo {
	var out []record.Todo
	for _, t := range g.Todos() {
		if timeutil.InRange(t.Date, start, end) {
			out = append(out, t)
		}
	}
	return out
}

// RemindersBetween returns reminders dated within the inclusive range, newest
// first.
func (g *Aggregator) RemindersBetween(start, end string) []record.Reminder {
	var out []record.Reminder
	for _, r := range g.Reminders() {
		if timeutil.InRange(r.Date, start, end) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out
}

// Money is the work and spending summary for one range.
type Money struct {
	Timeframe timeutil.Timeframe   `json:"timeframe,omitempty"`
	Start     string               `json:"start"`
	End       string               `json:"end"`
	Sessions  []record.WorkSession `json:"sessions"`
	Expenses  []record.Expense     `json:"expenses"`
	Hours     float64              `json:"hours"`
	Earnings  float64              `json:"earnings"`
	Spent     float64              `json:"spent"`
	Net       float64              `json:"net"`
}

// WorkMoney summarizes sessions and expenses inside tf.
func (g *Aggregator) WorkMoney(tf timeutil.Timeframe) Money {
	start, end := tf.Range(g.now(), g.WeekStart)
	m := g.WorkMoneyBetween(start, end)
	m.Timeframe = tf
	return m
}

// WorkMoneyBetween summarizes sessions and expenses in the inclusive range.
func (g *Aggregator) WorkMoneyBetween(start, end string) Money {
	m := Money{Start: start, End: end}
	for _, s := range g.Sessions() {
		if !timeutil.InRange(s.Date, start, end) {
			continue
		}
		m.Sessions = append(m.Sessions, s)
		m.Hours += s.Hours
		m.Earnings += s.Earnings
	}
	for _, e := range g.Expenses() {
		if !timeutil.InRange(e.Date, start, end) {
			continue
		}
		m.Expenses = append(m.Expenses, e)
		m.Spent += e.Amount
	}
	m.Net = m.Earnings - m.Spent
	return m
}

// Point is one day of a series.
type Point struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// window lists the trailing day keys ending today, oldest first.
func (g *Aggregator) window(days int) []string {
	if days <= 0 {
		days = g.seriesDays()
	}
	today := timeutil.Midnight(g.now())
	out := make([]string, days)
	for i := 0; i < days; i++ {
		out[i] = timeutil.ISO(today.AddDate(0, 0, i-days+1))
	}
	return out
}

// todoDay dates a todo by its date, else its creation day.
func todoDay(t record.Todo) string {
	if t.Date != "" {
		return t.Date
	}
	if t.CreatedAt > 0 {
		return timeutil.ISO(time.UnixMilli(t.CreatedAt).In(time.Local))
	}
	return ""
}

// CompletionSeries is the per-day todo completion percentage over the
// trailing window. Days without todos are 0.
func (g *Aggregator) CompletionSeries(days int) []Point {
	byDay := map[string][]record.Todo{}
	for _, t := range g.Todos() {
		if d := todoDay(t); d != "" {
			byDay[d] = append(byDay[d], t)
		}
	}
	var out []Point
	for _, day := range g.window(days) {
		out = append(out, Point{Date: day, Value: float64(TodoRatio(byDay[day]).Pct)})
	}
	return out
}

// WorkHoursSeries is hours worked per day over the trailing window.
func (g *Aggregator) WorkHoursSeries(days int) []Point {
	byDay := map[string]float64{}
	for _, s := range g.Sessions() {
		byDay[s.Date] += s.Hours
	}
	var out []Point
	for _, day := range g.window(days) {
		out = append(out, Point{Date: day, Value: math.Round(byDay[day]*100) / 100})
	}
	return out
}

// WeeklyEarnings splits this month's earnings into W1-W4. Days 29 onward
// count toward W4.
func (g *Aggregator) WeeklyEarnings() [4]float64 {
	var weeks [4]float64
	now := g.now()
	for _, s := range g.Sessions() {
		t, ok := timeutil.ParseISO(s.Date)
		if !ok || t.Year() != now.Year() || t.Month() != now.Month() {
			continue
		}
		idx := (t.Day() - 1) / 7
		if idx > 3 {
			idx = 3
		}
		weeks[idx] += s.Earnings
	}
	for i := range weeks {
		weeks[i] = math.Round(weeks[i])
	}
	return weeks
}

// GoalSummary counts goals and averages their progress.
type GoalSummary struct {
	Total       int `json:"total"`
	Active      int `json:"active"`
	Completed   int `json:"completed"`
	AvgProgress int `json:"avgProgress"`
}

// GoalStats summarizes every goal.
func (g *Aggregator) GoalStats() GoalSummary {
	goals := g.Goals()
	s := GoalSummary{Total: len(goals)}
	var sum float64
	for _, v := range goals {
		if v.Completed {
			s.Completed++
		} else {
			s.Active++
		}
		sum += v.Progress
	}
	if len(goals) > 0 {
		s.AvgProgress = int(math.Round(sum / float64(len(goals))))
	}
	return s
}

// CategoryCount is one bar of the goals-by-category chart.
type CategoryCount struct {
	Category  string `json:"category"`
	Active    int    `json:"active"`
	Completed int    `json:"completed"`
}

// GoalBuckets are the chart categories, in order.
var GoalBuckets = []string{"Health", "Learning", "Personal"}

func goalBucket(raw string) int {
	raw = strings.ToLower(raw)
	switch {
	case strings.Contains(raw, "health"):
		return 0
	case strings.Contains(raw, "learn"), strings.Contains(raw, "study"):
		return 1
	default:
		return 2
	}
}

// GoalsByCategory buckets goals into Health, Learning and Personal.
func (g *Aggregator) GoalsByCategory() []CategoryCount {
	out := make([]CategoryCount, len(GoalBuckets))
	for i, c := range GoalBuckets {
		out[i].Category = c
	}
	for _, v := range g.Goals() {
		i := goalBucket(v.RawCategory)
		if v.Completed {
			out[i].Completed++
		} else {
			out[i].Active++
		}
	}
	return out
}

// Dashboard is every derived view at once.
type Dashboard struct {
	Today            string          `json:"today"`
	Todos            Ratio           `json:"todos"`
	Reminders        Ratio           `json:"reminders"`
	WorkThisMonth    Money           `json:"workThisMonth"`
	Goals            GoalSummary     `json:"goals"`
	CompletionSeries []Point         `json:"completionSeries"`
	WorkHoursSeries  []Point         `json:"workHoursSeries"`
	WeeklyEarnings   [4]float64      `json:"weeklyEarnings"`
	GoalsByCategory  []CategoryCount `json:"goalsByCategory"`
}

// Dashboard computes the analytics page. days overrides the series window
// when positive.
func (g *Aggregator) Dashboard(days int) Dashboard {
	return Dashboard{
		Today:            g.Today(),
		Todos:            g.TodoStats(),
		Reminders:        g.ReminderStats(),
		WorkThisMonth:    g.WorkMoney(timeutil.Month),
		Goals:            g.GoalStats(),
		CompletionSeries: g.CompletionSeries(days),
		WorkHoursSeries:  g.WorkHoursSeries(days),
		WeeklyEarnings:   g.WeeklyEarnings(),
		GoalsByCategory:  g.GoalsByCategory(),
	}
}
