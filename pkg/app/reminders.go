package app

import (
	"context"
	"strings"

	"tableflip.dev/taskflow/pkg/analytics"
	"tableflip.dev/taskflow/pkg/record"
	"tableflip.dev/taskflow/pkg/store"
	"tableflip.dev/taskflow/pkg/timeutil"
)

// ReminderStore writes reminders. The calendar map is the primary copy;
// reminders due today are mirrored into the home view's per-day map.
type ReminderStore struct {
	Deps
}

// NewReminder is the input to Add.
type NewReminder struct {
	Text string
	Type record.ReminderType
	// Date defaults to today.
	Date string
	// Time defaults to record.DefaultTime.
	Time string
}

// ReminderResult is a created reminder plus any non-fatal warnings.
type ReminderResult struct {
	Reminder record.Reminder
	Warnings []string
}

func (s *ReminderStore) build(in NewReminder) (record.Reminder, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return record.Reminder{}, invalid("reminder text is required")
	}
	date := strings.TrimSpace(in.Date)
	if date == "" {
		date = s.today()
	}
	tm := strings.TrimSpace(in.Time)
	if tm == "" {
		tm = record.DefaultTime
	}
	typ := in.Type
	if typ == "" {
		typ = record.ReminderPlain
	}
	r := record.Reminder{
		ID:        s.newID(),
		Text:      text,
		Title:     text,
		Type:      typ,
		Date:      date,
		Time:      tm,
		CreatedAt: s.millis(),
	}
	if err := record.Validate(r); err != nil {
		return record.Reminder{}, invalid("%v", err)
	}
	return r, nil
}

// Add writes a reminder into the calendar map under its date.
func (s *ReminderStore) Add(ctx context.Context, in NewReminder) (ReminderResult, error) {
	if err := s.ready(); err != nil {
		return ReminderResult{}, err
	}
	r, err := s.build(in)
	if err != nil {
		return ReminderResult{}, err
	}
	today := s.today()

	defer s.lock()()
	item := record.Raw{"id": r.ID, "text": r.Text, "time": r.Time, "done": false, "createdAt": r.CreatedAt}
	if r.Type != record.ReminderPlain {
		item["type"] = string(r.Type)
	}
	primary := openBucket(s.Store, store.CalendarReminders, today)
	primary.prepend(r.Date, item)
	if err := primary.save(s.Store); err != nil {
		return ReminderResult{}, err
	}

	res := ReminderResult{Reminder: r}
	if r.Date == today {
		mirror := openBucket(s.Store, store.RemindersToday, today)
		mirror.prepend(today, record.Raw{
			"id": r.ID, "title": r.Text, "type": string(r.Type), "handled": false, "time": r.Time, "createdAt": r.CreatedAt,
		})
		if err := mirror.save(s.Store); err != nil {
			res.Warnings = append(res.Warnings, s.warn(err, store.RemindersToday, "today reminders not updated"))
		}
	}
	return res, nil
}

// AddToList writes a reminder into the flat dated list.
func (s *ReminderStore) AddToList(ctx context.Context, in NewReminder) (record.Reminder, error) {
	if err := s.ready(); err != nil {
		return record.Reminder{}, err
	}
	r, err := s.build(in)
	if err != nil {
		return record.Reminder{}, err
	}
	defer s.lock()()
	b := openBucket(s.Store, store.Reminders, s.today())
	b.prepend(r.Date, record.Raw{
		"id": r.ID, "text": r.Text, "type": string(r.Type), "date": r.Date, "time": r.Time, "handled": false, "createdAt": r.CreatedAt,
	})
	return r, b.save(s.Store)
}

// Toggle flips the handled state in every bucket holding the reminder.
func (s *ReminderStore) Toggle(ctx context.Context, id string) (record.Reminder, error) {
	if err := s.ready(); err != nil {
		return record.Reminder{}, err
	}
	defer s.lock()()
	current, ok := s.find(id)
	if !ok {
		return record.Reminder{}, ErrNotFound
	}
	current.Handled = !current.Handled
	err := s.edit(func(k store.Key, m record.Raw) (bool, bool) {
		if idOf(m) != id {
			return false, false
		}
		m[completionField(k, m)] = current.Handled
		return false, true
	})
	return current, err
}

// completionField is the flag a bucket's records use: calendar entries say
// done, the others handled.
func completionField(k store.Key, m record.Raw) string {
	if _, ok := m["handled"]; ok {
		return "handled"
	}
	if _, ok := m["done"]; ok || k == store.CalendarReminders {
		return "done"
	}
	return "handled"
}

// Remove deletes a reminder from every bucket holding it.
func (s *ReminderStore) Remove(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	defer s.lock()()
	if _, ok := s.find(id); !ok {
		return ErrNotFound
	}
	return s.edit(func(_ store.Key, m record.Raw) (bool, bool) {
		return idOf(m) == id, false
	})
}

// List returns the merged reminders.
func (s *ReminderStore) List(ctx context.Context) ([]record.Reminder, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return analytics.New(s.Store, s.Clock).Reminders(), nil
}

// ForDate returns the reminders dated iso, newest first.
func (s *ReminderStore) ForDate(ctx context.Context, iso string) ([]record.Reminder, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if !timeutil.ValidISO(iso) {
		return nil, nil
	}
	return analytics.New(s.Store, s.Clock).RemindersBetween(iso, iso), nil
}

// Migrate rewrites legacy arrays under per-day keys as day maps.
func (s *ReminderStore) Migrate(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}
	defer s.lock()()
	return s.edit(func(store.Key, record.Raw) (bool, bool) { return false, false })
}

func (s *ReminderStore) find(id string) (record.Reminder, bool) {
	if id = strings.TrimSpace(id); id == "" {
		return record.Reminder{}, false
	}
	for _, r := range analytics.New(s.Store, s.Clock).Reminders() {
		if r.ID == id {
			return r, true
		}
	}
	return record.Reminder{}, false
}

func (s *ReminderStore) edit(fn func(k store.Key, m record.Raw) (drop, changed bool)) error {
	today := s.today()
	for _, k := range store.ReminderKeys() {
		if !s.Store.Has(k) {
			continue
		}
		k := k
		b := openBucket(s.Store, k, today)
		b.visit(func(_ string, m record.Raw) (bool, bool) { return fn(k, m) })
		if err := b.save(s.Store); err != nil {
			return err
		}
	}
	return nil
}
