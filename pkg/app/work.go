package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"tableflip.dev/taskflow/pkg/analytics"
	"tableflip.dev/taskflow/pkg/record"
	"tableflip.dev/taskflow/pkg/store"
)

// FocusMinutes is the length of one Pomodoro block.
const FocusMinutes = 25

// WorkStore owns work sessions, expenses and focus stats. These buckets are
// shared by every identity.
type WorkStore struct {
	Deps
}

// NewSession is the input to AddSession. Start and End are HH:MM.
type NewSession struct {
	Date  string
	Start string
	End   string
	Rate  float64
	Notes string
}

// DiffHours is the span between two HH:MM times, wrapping past midnight
// when end is earlier than start. Unparseable input is 0.
func DiffHours(start, end string) float64 {
	sm, ok1 := minutesOf(start)
	em, ok2 := minutesOf(end)
	if !ok1 || !ok2 {
		return 0
	}
	if em < sm {
		em += 24 * 60
	}
	return float64(em-sm) / 60
}

func minutesOf(hhmm string) (int, bool) {
	h, m, ok := strings.Cut(strings.TrimSpace(hhmm), ":")
	if !ok {
		return 0, false
	}
	hi, err1 := strconv.Atoi(h)
	mi, err2 := strconv.Atoi(m)
	if err1 != nil || err2 != nil {
		return 0, false
	}
	return hi*60 + mi, true
}

// AddSession records worked time. Hours, rate and earnings are rounded to
// cents and earnings are fixed here.
func (s *WorkStore) AddSession(ctx context.Context, in NewSession) (record.WorkSession, error) {
	if err := s.ready(); err != nil {
		return record.WorkSession{}, err
	}
	date := strings.TrimSpace(in.Date)
	if date == "" {
		date = s.today()
	}
	hours := DiffHours(in.Start, in.End)
	if hours <= 0 {
		return record.WorkSession{}, invalid("work session must last longer than zero minutes")
	}
	if in.Rate < 0 {
		return record.WorkSession{}, invalid("hourly rate must not be negative")
	}
	ws := record.WorkSession{
		ID:        s.newID(),
		Date:      date,
		Start:     strings.TrimSpace(in.Start),
		End:       strings.TrimSpace(in.End),
		Hours:     round2(hours),
		Rate:      round2(in.Rate),
		Earnings:  round2(hours * in.Rate),
		Notes:     strings.TrimSpace(in.Notes),
		Source:    record.SourceManual,
		CreatedAt: s.millis(),
	}
	return ws, s.prependSession(ws)
}

func (s *WorkStore) prependSession(ws record.WorkSession) error {
	if err := record.Validate(ws); err != nil {
		return invalid("%v", err)
	}
	defer s.lock()()
	b := openCurrent(s.Store, store.SessionKeys(), s.today())
	b.prepend("", record.Raw{
		"id": ws.ID, "date": ws.Date, "start": ws.Start, "end": ws.End,
		"hours": ws.Hours, "rate": ws.Rate, "earnings": ws.Earnings,
		"notes": ws.Notes, "source": string(ws.Source), "createdAt": ws.CreatedAt,
	})
	return b.save(s.Store)
}

// NewExpense is the input to AddExpense.
type NewExpense struct {
	Date   string
	Name   string
	Type   string
	Where  string
	Amount float64
}

// AddExpense records spending. Amounts must be positive after rounding.
func (s *WorkStore) AddExpense(ctx context.Context, in NewExpense) (record.Expense, error) {
	if err := s.ready(); err != nil {
		return record.Expense{}, err
	}
	amount := round2(in.Amount)
	if amount <= 0 {
		return record.Expense{}, invalid("expense amount must be greater than zero")
	}
	date := strings.TrimSpace(in.Date)
	if date == "" {
		date = s.today()
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = "Expense"
	}
	e := record.Expense{
		ID:        s.newID(),
		Date:      date,
		Name:      name,
		Type:      record.ParseExpenseType(in.Type),
		Where:     strings.TrimSpace(in.Where),
		Amount:    amount,
		CreatedAt: s.millis(),
	}
	if err := record.Validate(e); err != nil {
		return record.Expense{}, invalid("%v", err)
	}
	defer s.lock()()
	b := openCurrent(s.Store, store.ExpenseKeys(), s.today())
	b.prepend("", record.Raw{
		"id": e.ID, "date": e.Date, "name": e.Name, "type": string(e.Type),
		"where": e.Where, "amount": e.Amount, "createdAt": e.CreatedAt,
	})
	return e, b.save(s.Store)
}

// RecordFocus books a completed focus block: the stats counter goes up and
// an unpaid session is added to today's work. minutes defaults to
// FocusMinutes.
func (s *WorkStore) RecordFocus(ctx context.Context, minutes int) (record.WorkSession, record.FocusStats, error) {
	if err := s.ready(); err != nil {
		return record.WorkSession{}, record.FocusStats{}, err
	}
	if minutes <= 0 {
		minutes = FocusMinutes
	}
	ws := record.WorkSession{
		ID:        s.newID(),
		Date:      s.today(),
		Start:     "Focus",
		End:       "Focus",
		Hours:     round2(float64(minutes) / 60),
		Notes:     fmt.Sprintf("Pomodoro focus (%dm)", minutes),
		Source:    record.SourceFocus,
		CreatedAt: s.millis(),
	}
	if err := s.prependSession(ws); err != nil {
		return record.WorkSession{}, record.FocusStats{}, err
	}

	defer s.lock()()
	stats := store.Load(s.Store, store.FocusStats, record.FocusStats{})
	stats.TotalSessions++
	stats.TotalFocusMinutes += minutes
	return ws, stats, s.Store.Put(store.FocusStats, stats)
}

// Focus returns the focus counters.
func (s *WorkStore) Focus(ctx context.Context) (record.FocusStats, error) {
	if err := s.ready(); err != nil {
		return record.FocusStats{}, err
	}
	return store.Load(s.Store, store.FocusStats, record.FocusStats{}), nil
}

// Sessions lists work sessions newest first, filtered by a case-insensitive
// substring of date, times, notes or rate.
func (s *WorkStore) Sessions(ctx context.Context, query string) ([]record.WorkSession, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	var out []record.WorkSession
	for _, ws := range analytics.New(s.Store, s.Clock).Sessions() {
		if q == "" || matches(q, ws.Date, ws.Start, ws.End, ws.Notes, strconv.FormatFloat(ws.Rate, 'f', -1, 64)) {
			out = append(out, ws)
		}
	}
	return out, nil
}

// Expenses lists expenses newest first, filtered like Sessions over date,
// name, type, place and amount.
func (s *WorkStore) Expenses(ctx context.Context, query string) ([]record.Expense, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	var out []record.Expense
	for _, e := range analytics.New(s.Store, s.Clock).Expenses() {
		if q == "" || matches(q, e.Date, e.Name, string(e.Type), e.Where, strconv.FormatFloat(e.Amount, 'f', -1, 64)) {
			out = append(out, e)
		}
	}
	return out, nil
}

func matches(q string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// DeleteSession removes a work session.
func (s *WorkStore) DeleteSession(ctx context.Context, id string) error {
	return s.remove(store.SessionKeys(), id)
}

// DeleteExpense removes an expense.
func (s *WorkStore) DeleteExpense(ctx context.Context, id string) error {
	return s.remove(store.ExpenseKeys(), id)
}

func (s *WorkStore) remove(keys []store.Key, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	defer s.lock()()
	b := openCurrent(s.Store, keys, s.today())
	if b.visit(func(_ string, m record.Raw) (bool, bool) { return idOf(m) == id, false }) == 0 {
		return ErrNotFound
	}
	return b.save(s.Store)
}
