package record

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"tableflip.dev/taskflow/pkg/timeutil"
)

// Raw is one undecoded record from any bucket encoding.
type Raw = map[string]any

// Flatten turns a bucket into a record sequence. Arrays are returned as is,
// with undated items given arrayDay when it is set. Objects are read as
// per-day maps: each day's items carry that day unless they name their own.
// Days are visited newest first. Anything else is empty.
func Flatten(data []byte, arrayDay string) []Raw {
	if len(data) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	switch t := v.(type) {
	case []any:
		return items(t, arrayDay)
	case map[string]any:
		days := make([]string, 0, len(t))
		for day := range t {
			days = append(days, day)
		}
		sort.Sort(sort.Reverse(sort.StringSlice(days)))
		var out []Raw
		for _, day := range days {
			if list, ok := t[day].([]any); ok {
				out = append(out, items(list, day)...)
			}
		}
		return out
	default:
		return nil
	}
}

func items(list []any, day string) []Raw {
	out := make([]Raw, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if day != "" && Str(m["date"]) == "" {
			cp := make(Raw, len(m)+1)
			for k, v := range m {
				cp[k] = v
			}
			cp["date"] = day
			m = cp
		}
		out = append(out, m)
	}
	return out
}

// ToBool reads the boolean encodings seen across buckets: literal booleans,
// the number 1, and the strings "true", "1" and "yes".
func ToBool(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t == 1
	case int:
		return t == 1
	case json.Number:
		f, err := t.Float64()
		return err == nil && f == 1
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		return s == "true" || s == "1" || s == "yes"
	default:
		return true
	}
}

// Coalesce returns the first non-nil value.
func Coalesce(vals ...any) any {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

// Str renders scalar values as text; nil and composites are empty.
func Str(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}

// Millis reads createdAt style values: epoch ms numbers or date strings.
func Millis(v any) int64 {
	switch t := v.(type) {
	case float64:
		return int64(t)
	case string:
		if tm, ok := timeutil.ParseLoose(t); ok {
			return tm.UnixMilli()
		}
	}
	return 0
}

func weakDecode(in Raw, out any) bool {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return false
	}
	return dec.Decode(in) == nil
}

type legacyTodo struct {
	ID        string `mapstructure:"id"`
	Text      any    `mapstructure:"text"`
	Title     any    `mapstructure:"title"`
	Date      any    `mapstructure:"date"`
	Done      any    `mapstructure:"done"`
	Completed any    `mapstructure:"completed"`
	IsDone    any    `mapstructure:"isDone"`
	Checked   any    `mapstructure:"checked"`
	CreatedAt any    `mapstructure:"createdAt"`
}

// preferText picks text over title, preferring real strings.
func preferText(text, title any) string {
	if s, ok := text.(string); ok {
		return s
	}
	if s, ok := title.(string); ok {
		return s
	}
	return Str(Coalesce(text, title))
}

// TodoFrom adapts any historical todo shape.
func TodoFrom(m Raw) (Todo, bool) {
	var l legacyTodo
	if !weakDecode(m, &l) {
		return Todo{}, false
	}
	return Todo{
		ID:        l.ID,
		Text:      preferText(l.Text, l.Title),
		Done:      ToBool(Coalesce(l.Done, l.Completed, l.IsDone, l.Checked)),
		Date:      timeutil.LooseISO(Str(l.Date)),
		CreatedAt: Millis(l.CreatedAt),
	}, true
}

type legacyReminder struct {
	ID        string `mapstructure:"id"`
	Text      any    `mapstructure:"text"`
	Title     any    `mapstructure:"title"`
	Type      string `mapstructure:"type"`
	Date      any    `mapstructure:"date"`
	Time      string `mapstructure:"time"`
	Handled   any    `mapstructure:"handled"`
	Done      any    `mapstructure:"done"`
	Completed any    `mapstructure:"completed"`
	CreatedAt any    `mapstructure:"createdAt"`
}

// ReminderFrom adapts any historical reminder shape, filling both text and
// title.
func ReminderFrom(m Raw) (Reminder, bool) {
	var l legacyReminder
	if !weakDecode(m, &l) {
		return Reminder{}, false
	}
	text := preferText(l.Text, l.Title)
	tm := strings.TrimSpace(l.Time)
	if tm == "" {
		tm = DefaultTime
	}
	return Reminder{
		ID:        l.ID,
		Text:      text,
		Title:     text,
		Type:      ParseReminderType(l.Type),
		Date:      timeutil.LooseISO(Str(l.Date)),
		Time:      tm,
		Handled:   ToBool(Coalesce(l.Handled, l.Done, l.Completed)),
		CreatedAt: Millis(l.CreatedAt),
	}, true
}

type legacySession struct {
	ID            string   `mapstructure:"id"`
	Date          any      `mapstructure:"date"`
	Start         string   `mapstructure:"start"`
	End           string   `mapstructure:"end"`
	DurationHours float64  `mapstructure:"durationHours"`
	Hours         float64  `mapstructure:"hours"`
	DurationSec   float64  `mapstructure:"durationSec"`
	Rate          float64  `mapstructure:"rate"`
	HourlyRate    float64  `mapstructure:"hourlyRate"`
	Earnings      *float64 `mapstructure:"earnings"`
	Notes         string   `mapstructure:"notes"`
	Source        string   `mapstructure:"source"`
	CreatedAt     any      `mapstructure:"createdAt"`
}

// SessionFrom adapts work sessions. Hours come from durationHours, hours or
// durationSec; rate from rate or hourlyRate. Stored earnings are kept, and
// only derived when the record has none.
func SessionFrom(m Raw) (WorkSession, bool) {
	var l legacySession
	if !weakDecode(m, &l) {
		return WorkSession{}, false
	}
	hours := firstPositive(l.DurationHours, l.Hours, l.DurationSec/3600)
	rate := firstPositive(l.Rate, l.HourlyRate)
	earnings := hours * rate
	if l.Earnings != nil {
		earnings = *l.Earnings
	}
	src := SessionSource(l.Source)
	if src == "" {
		src = SourceManual
	}
	return WorkSession{
		ID:        l.ID,
		Date:      timeutil.LooseISO(Str(l.Date)),
		Start:     l.Start,
		End:       l.End,
		Hours:     hours,
		Rate:      rate,
		Earnings:  earnings,
		Notes:     l.Notes,
		Source:    src,
		CreatedAt: Millis(l.CreatedAt),
	}, true
}

type legacyExpense struct {
	ID          string  `mapstructure:"id"`
	Date        any     `mapstructure:"date"`
	Name        string  `mapstructure:"name"`
	Title       string  `mapstructure:"title"`
	ExpenseName string  `mapstructure:"expenseName"`
	Type        string  `mapstructure:"type"`
	Where       string  `mapstructure:"where"`
	Amount      float64 `mapstructure:"amount"`
	CreatedAt   any     `mapstructure:"createdAt"`
}

// ExpenseFrom adapts expenses; the name falls back to title, then "Expense".
func ExpenseFrom(m Raw) (Expense, bool) {
	var l legacyExpense
	if !weakDecode(m, &l) {
		return Expense{}, false
	}
	name := firstNonEmpty(l.Name, l.Title, l.ExpenseName, "Expense")
	return Expense{
		ID:        l.ID,
		Date:      timeutil.LooseISO(Str(l.Date)),
		Name:      name,
		Type:      ExpenseType(l.Type),
		Where:     l.Where,
		Amount:    l.Amount,
		CreatedAt: Millis(l.CreatedAt),
	}, true
}

type legacyGoal struct {
	ID          string   `mapstructure:"id"`
	Title       string   `mapstructure:"title"`
	Name        string   `mapstructure:"name"`
	Desc        string   `mapstructure:"desc"`
	TargetValue float64  `mapstructure:"targetValue"`
	Target      float64  `mapstructure:"target"`
	Current     *float64 `mapstructure:"current"`
	Progress    *float64 `mapstructure:"progress"`
	Unit        string   `mapstructure:"unit"`
	Category    string   `mapstructure:"category"`
	Type        string   `mapstructure:"type"`
	TargetDate  any      `mapstructure:"targetDate"`
	DueDate     any      `mapstructure:"dueDate"`
	Completed   any      `mapstructure:"completed"`
	Done        any      `mapstructure:"done"`
	Status      string   `mapstructure:"status"`
	CreatedAt   any      `mapstructure:"createdAt"`
}

// GoalView is a goal plus the facts only older shapes carry.
type GoalView struct {
	Goal
	// Progress is percent complete, 0-100.
	Progress float64
	// RawCategory is the category or type text as stored, for bucketing.
	RawCategory string
}

// GoalFrom adapts goals. Progress uses an explicit progress number, else
// current/target, else 100 for completed goals and 0 otherwise.
func GoalFrom(m Raw) (GoalView, bool) {
	var l legacyGoal
	if !weakDecode(m, &l) {
		return GoalView{}, false
	}
	done := ToBool(Coalesce(l.Completed, l.Done)) || strings.EqualFold(l.Status, "completed")
	target := firstPositive(l.TargetValue, l.Target)
	var current float64
	if l.Current != nil {
		current = *l.Current
	}

	var progress float64
	switch {
	case l.Progress != nil:
		progress = clamp(*l.Progress, 0, 100)
	case l.Current != nil && target > 0:
		progress = clamp(current/target*100, 0, 100)
	case done:
		progress = 100
	}

	rawCat := firstNonEmpty(l.Category, l.Type, string(Personal))
	due := timeutil.LooseISO(Str(Coalesce(l.TargetDate, l.DueDate)))
	return GoalView{
		Goal: Goal{
			ID:          l.ID,
			Title:       firstNonEmpty(l.Title, l.Name),
			Desc:        l.Desc,
			TargetValue: target,
			Current:     current,
			Unit:        l.Unit,
			Category:    ParseGoalCategory(l.Category),
			TargetDate:  due,
			Completed:   done,
			CreatedAt:   Millis(l.CreatedAt),
		},
		Progress:    progress,
		RawCategory: rawCat,
	}, true
}

type legacyNote struct {
	ID        string `mapstructure:"id"`
	Title     string `mapstructure:"title"`
	Content   string `mapstructure:"content"`
	Color     string `mapstructure:"color"`
	Protect   any    `mapstructure:"protect"`
	Password  string `mapstructure:"password"`
	CreatedAt any    `mapstructure:"createdAt"`
}

// NoteFrom adapts notes; a missing colour is the first swatch.
func NoteFrom(m Raw) (Note, bool) {
	var l legacyNote
	if !weakDecode(m, &l) {
		return Note{}, false
	}
	color := NoteColor(l.Color)
	if color == "" {
		color = NoteColors[0]
	}
	return Note{
		ID:        l.ID,
		Title:     l.Title,
		Content:   l.Content,
		Color:     color,
		Protect:   ToBool(l.Protect),
		Password:  l.Password,
		CreatedAt: Millis(l.CreatedAt),
	}, true
}

func firstPositive(vals ...float64) float64 {
	for _, v := range vals {
		if v > 0 && !math.IsInf(v, 0) {
			return v
		}
	}
	return 0
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// NowMillis is the createdAt encoding for new records.
func NowMillis(t time.Time) int64 {
	return t.UnixMilli()
}
