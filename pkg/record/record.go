// Package record defines the canonical shape of every persisted entity.
package record

import (
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks the struct tags on a record.
func Validate(v any) error {
	return validate.Struct(v)
}

// Todo is a single task. Dated todos show up on that day's plan.
type Todo struct {
	ID        string `json:"id" validate:"required"`
	Text      string `json:"text" validate:"required"`
	Done      bool   `json:"done"`
	Date      string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	CreatedAt int64  `json:"createdAt"`
}

// ReminderType classifies reminders.
type ReminderType string

const (
	ReminderPlain ReminderType = "Reminder"
	Birthday      ReminderType = "Birthday"
	Event         ReminderType = "Event"
)

// ParseReminderType maps free text to a type, defaulting to Reminder.
func ParseReminderType(s string) ReminderType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "birthday":
		return Birthday
	case "event":
		return Event
	default:
		return ReminderPlain
	}
}

// Reminder is a dated, timed prompt. Text and Title always carry the same
// value once read.
type Reminder struct {
	ID        string       `json:"id" validate:"required"`
	Text      string       `json:"text" validate:"required"`
	Title     string       `json:"title,omitempty"`
	Type      ReminderType `json:"type" validate:"oneof=Reminder Birthday Event"`
	Date      string       `json:"date" validate:"required,datetime=2006-01-02"`
	Time      string       `json:"time" validate:"required,datetime=15:04"`
	Handled   bool         `json:"handled"`
	CreatedAt int64        `json:"createdAt"`
}

// DefaultTime is used when a reminder has no time.
const DefaultTime = "09:00"

// NoteColor is one of the fixed note swatches.
type NoteColor string

// NoteColors lists the swatches, the first being the default.
var NoteColors = []NoteColor{"#FFF4B8", "#E8F0FF", "#F6E9FF", "#E9FFF1", "#F1F1F1", "#FFEFD9"}

// NoteTitleRunes is how much content an untitled note borrows for its title.
const NoteTitleRunes = 28

// DeriveNoteTitle returns the first NoteTitleRunes runes of content, with an
// ellipsis when truncated.
func DeriveNoteTitle(content string) string {
	content = strings.TrimSpace(content)
	if utf8.RuneCountInString(content) <= NoteTitleRunes {
		return content
	}
	return string([]rune(content)[:NoteTitleRunes]) + "…"
}

// Note is a free-form note, optionally locked with a password.
type Note struct {
	ID        string    `json:"id" validate:"required"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Color     NoteColor `json:"color"`
	Protect   bool      `json:"protect"`
	Password  string    `json:"password,omitempty" validate:"required_if=Protect true"`
	CreatedAt int64     `json:"createdAt"`
}

// GoalCategory groups goals.
type GoalCategory string

const (
	Productivity GoalCategory = "Productivity"
	Health       GoalCategory = "Health"
	Finance      GoalCategory = "Finance"
	Study        GoalCategory = "Study"
	Personal     GoalCategory = "Personal"
)

// GoalCategories lists every category in display order.
var GoalCategories = []GoalCategory{Productivity, Health, Finance, Study, Personal}

// ParseGoalCategory matches s case-insensitively, defaulting to Productivity.
func ParseGoalCategory(s string) GoalCategory {
	for _, c := range GoalCategories {
		if strings.EqualFold(strings.TrimSpace(s), string(c)) {
			return c
		}
	}
	return Productivity
}

// Goal is a measurable target.
type Goal struct {
	ID          string       `json:"id" validate:"required"`
	Title       string       `json:"title" validate:"required"`
	Desc        string       `json:"desc,omitempty"`
	TargetValue float64      `json:"targetValue" validate:"gte=0"`
	Current     float64      `json:"current,omitempty" validate:"gte=0"`
	Unit        string       `json:"unit"`
	Category    GoalCategory `json:"category" validate:"oneof=Productivity Health Finance Study Personal"`
	TargetDate  string       `json:"targetDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Completed   bool         `json:"completed,omitempty"`
	CreatedAt   int64        `json:"createdAt"`
}

// Habit tracks the days it was done. Streaks are derived, never stored.
type Habit struct {
	ID          string   `json:"id" validate:"required"`
	Title       string   `json:"title" validate:"required"`
	Completions []string `json:"completions" validate:"dive,datetime=2006-01-02"`
	CreatedAt   int64    `json:"createdAt"`
}

// SessionSource records where a work session came from.
type SessionSource string

const (
	SourceManual SessionSource = "manual"
	SourceFocus  SessionSource = "focus"
)

// WorkSession is a block of paid (or focus) time. Earnings are fixed when
// the session is created.
type WorkSession struct {
	ID        string        `json:"id" validate:"required"`
	Date      string        `json:"date" validate:"required,datetime=2006-01-02"`
	Start     string        `json:"start"`
	End       string        `json:"end"`
	Hours     float64       `json:"hours" validate:"gte=0"`
	Rate      float64       `json:"rate" validate:"gte=0"`
	Earnings  float64       `json:"earnings" validate:"gte=0"`
	Notes     string        `json:"notes,omitempty"`
	Source    SessionSource `json:"source,omitempty"`
	CreatedAt int64         `json:"createdAt"`
}

// ExpenseType categorizes spending.
type ExpenseType string

// ExpenseTypes lists every type, the first being the default.
var ExpenseTypes = []ExpenseType{"Food", "Transport", "Bills", "Shopping", "Health", "Entertainment", "Other"}

// ParseExpenseType matches s case-insensitively, defaulting to Food.
func ParseExpenseType(s string) ExpenseType {
	for _, t := range ExpenseTypes {
		if strings.EqualFold(strings.TrimSpace(s), string(t)) {
			return t
		}
	}
	return ExpenseTypes[0]
}

// Expense is money spent on a day.
type Expense struct {
	ID        string      `json:"id" validate:"required"`
	Date      string      `json:"date" validate:"required,datetime=2006-01-02"`
	Name      string      `json:"name"`
	Type      ExpenseType `json:"type"`
	Where     string      `json:"where,omitempty"`
	Amount    float64     `json:"amount" validate:"gt=0"`
	CreatedAt int64       `json:"createdAt"`
}

// FocusStats accumulates completed focus blocks.
type FocusStats struct {
	TotalSessions     int `json:"totalSessions"`
	TotalFocusMinutes int `json:"totalFocusMinutes"`
}

// Role is who wrote a chat message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// ChatMessage is one line of conversation. TS is a display time, HH:MM.
type ChatMessage struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
	Text string `json:"text"`
	TS   string `json:"ts"`
}

// User is a registered account. Passwords are stored in cleartext.
type User struct {
	ID        string `json:"id" validate:"required"`
	Username  string `json:"username" validate:"required"`
	FullName  string `json:"fullName,omitempty"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Password  string `json:"password" validate:"min=4"`
	CreatedAt int64  `json:"createdAt"`
}

// IdentityKey partitions per-user buckets: email, then id, then username.
func (u *User) IdentityKey() string {
	if u == nil {
		return "guest"
	}
	for _, v := range []string{u.Email, u.ID, u.Username} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return "guest"
}

// DisplayName is the full name, else the username.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if n := strings.TrimSpace(u.FullName); n != "" {
		return n
	}
	return strings.TrimSpace(u.Username)
}

// Initials returns up to two leading letters of the display name.
func (u *User) Initials() string {
	parts := strings.Fields(u.DisplayName())
	out := make([]rune, 0, 2)
	for _, p := range parts {
		if len(out) == 2 {
			break
		}
		out = append(out, []rune(strings.ToUpper(p))[0])
	}
	if len(out) == 0 {
		return "U"
	}
	return string(out)
}

// Session points at the signed-in user.
type Session struct {
	UserID     string `json:"userId"`
	Username   string `json:"username"`
	LoggedInAt int64  `json:"loggedInAt"`
}
