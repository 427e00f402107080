package app

import (
	"context"
	"strings"

	"tableflip.dev/taskflow/pkg/analytics"
	"tableflip.dev/taskflow/pkg/record"
	"tableflip.dev/taskflow/pkg/store"
	"tableflip.dev/taskflow/pkg/timeutil"
)

// TodoStore writes todos. New todos land in the flat task list; those due
// today are mirrored into the per-day list the home view reads.
type TodoStore struct {
	Deps
}

// TodoResult is a created todo plus any non-fatal warnings.
type TodoResult struct {
	Todo     record.Todo
	Warnings []string
}

// Add creates a todo for date, today when date is empty.
func (s *TodoStore) Add(ctx context.Context, text, date string) (TodoResult, error) {
	if err := s.ready(); err != nil {
		return TodoResult{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return TodoResult{}, invalid("todo text is required")
	}
	today := s.today()
	if date = strings.TrimSpace(date); date == "" {
		date = today
	}
	if !timeutil.ValidISO(date) {
		return TodoResult{}, invalid("todo date %q is not YYYY-MM-DD", date)
	}
	t := record.Todo{ID: s.newID(), Text: text, Date: date, CreatedAt: s.millis()}
	if err := record.Validate(t); err != nil {
		return TodoResult{}, invalid("%v", err)
	}

	defer s.lock()()
	primary := openBucket(s.Store, store.Tasks, today)
	primary.prepend(date, record.Raw{
		"id": t.ID, "text": t.Text, "date": t.Date, "done": false, "createdAt": t.CreatedAt,
	})
	if err := primary.save(s.Store); err != nil {
		return TodoResult{}, err
	}

	res := TodoResult{Todo: t}
	if date == today {
		mirror := openBucket(s.Store, store.TodosToday, today)
		mirror.prepend(today, record.Raw{
			"id": t.ID, "text": t.Text, "done": false, "createdAt": t.CreatedAt,
		})
		if err := mirror.save(s.Store); err != nil {
			res.Warnings = append(res.Warnings, s.warn(err, store.TodosToday, "today list not updated"))
		}
	}
	return res, nil
}

// Toggle flips a todo's completion in every bucket that holds it, so all
// copies agree afterwards.
func (s *TodoStore) Toggle(ctx context.Context, id string) (record.Todo, error) {
	if err := s.ready(); err != nil {
		return record.Todo{}, err
	}
	defer s.lock()()
	current, ok := s.find(id)
	if !ok {
		return record.Todo{}, ErrNotFound
	}
	current.Done = !current.Done
	err := s.edit(func(_ string, m record.Raw) (bool, bool) {
		if idOf(m) != id {
			return false, false
		}
		m["done"] = current.Done
		for _, legacy := range []string{"completed", "isDone", "checked"} {
			delete(m, legacy)
		}
		return false, true
	})
	return current, err
}

// Remove deletes a todo from every bucket that holds it.
func (s *TodoStore) Remove(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	defer s.lock()()
	if _, ok := s.find(id); !ok {
		return ErrNotFound
	}
	return s.edit(func(_ string, m record.Raw) (bool, bool) {
		return idOf(m) == id, false
	})
}

// List returns the merged todos of every bucket.
func (s *TodoStore) List(ctx context.Context) ([]record.Todo, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return analytics.New(s.Store, s.Clock).Todos(), nil
}

// ForDate returns the merged todos dated iso.
func (s *TodoStore) ForDate(ctx context.Context, iso string) ([]record.Todo, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return analytics.New(s.Store, s.Clock).TodosBetween(iso, iso), nil
}

// Migrate rewrites legacy arrays under per-day keys as day maps.
func (s *TodoStore) Migrate(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}
	defer s.lock()()
	return s.edit(func(string, record.Raw) (bool, bool) { return false, false })
}

func (s *TodoStore) find(id string) (record.Todo, bool) {
	if id = strings.TrimSpace(id); id == "" {
		return record.Todo{}, false
	}
	for _, t := range analytics.New(s.Store, s.Clock).Todos() {
		if t.ID == id {
			return t, true
		}
	}
	return record.Todo{}, false
}

// edit applies fn across every todo bucket, saving the ones it changed and
// any legacy layout it migrated.
func (s *TodoStore) edit(fn func(day string, m record.Raw) (drop, changed bool)) error {
	today := s.today()
	for _, k := range store.TodoKeys() {
		if !s.Store.Has(k) {
			continue
		}
		b := openBucket(s.Store, k, today)
		b.visit(fn)
		if err := b.save(s.Store); err != nil {
			return err
		}
	}
	return nil
}
