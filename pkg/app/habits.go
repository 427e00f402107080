package app

import (
	"context"
	"strings"

	"tableflip.dev/taskflow/pkg/record"
	"tableflip.dev/taskflow/pkg/store"
	"tableflip.dev/taskflow/pkg/timeutil"
)

// HabitStore owns the habits bucket.
type HabitStore struct {
	Deps
}

func (s *HabitStore) load() []record.Habit {
	return store.Load(s.Store, store.Habits, []record.Habit{})
}

// Add prepends a habit with no completions.
func (s *HabitStore) Add(ctx context.Context, title string) (record.Habit, error) {
	if err := s.ready(); err != nil {
		return record.Habit{}, err
	}
	h := record.Habit{ID: s.newID(), Title: strings.TrimSpace(title), Completions: []string{}, CreatedAt: s.millis()}
	if err := record.Validate(h); err != nil {
		return record.Habit{}, invalid("%v", err)
	}
	defer s.lock()()
	return h, s.Store.Put(store.Habits, append([]record.Habit{h}, s.load()...))
}

// List returns every habit.
func (s *HabitStore) List(ctx context.Context) ([]record.Habit, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.load(), nil
}

// ToggleToday marks the habit done today, or clears every mark for today
// when one exists.
func (s *HabitStore) ToggleToday(ctx context.Context, id string) (record.Habit, error) {
	if err := s.ready(); err != nil {
		return record.Habit{}, err
	}
	defer s.lock()()
	today := s.today()
	habits := s.load()
	for i, h := range habits {
		if h.ID != id {
			continue
		}
		kept := h.Completions[:0:0]
		for _, d := range h.Completions {
			if d != today {
				kept = append(kept, d)
			}
		}
		if len(kept) == len(h.Completions) {
			kept = append(kept, today)
		}
		habits[i].Completions = kept
		return habits[i], s.Store.Put(store.Habits, habits)
	}
	return record.Habit{}, ErrNotFound
}

// Remove deletes a habit.
func (s *HabitStore) Remove(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	defer s.lock()()
	habits := s.load()
	for i, h := range habits {
		if h.ID == id {
			return s.Store.Put(store.Habits, append(habits[:i], habits[i+1:]...))
		}
	}
	return ErrNotFound
}

// Streak counts consecutive completed days ending today.
func Streak(h record.Habit, today string) int {
	done := make(map[string]bool, len(h.Completions))
	for _, d := range h.Completions {
		done[d] = true
	}
	n := 0
	for day := today; done[day]; day = timeutil.AddDays(day, -1) {
		n++
	}
	return n
}
