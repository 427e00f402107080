package app

import (
	"context"
	"strings"

	"tableflip.dev/taskflow/pkg/analytics"
	"tableflip.dev/taskflow/pkg/record"
	"tableflip.dev/taskflow/pkg/store"
)

// DefaultGoalUnit is used when a goal has no unit.
const DefaultGoalUnit = "tasks"

// GoalStore owns the goals bucket.
type GoalStore struct {
	Deps
}

// NewGoal is the input to Add.
type NewGoal struct {
	Title       string
	Desc        string
	TargetValue float64
	Unit        string
	Category    string
	TargetDate  string
}

// Add prepends a goal.
func (s *GoalStore) Add(ctx context.Context, in NewGoal) (record.Goal, error) {
	if err := s.ready(); err != nil {
		return record.Goal{}, err
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = DefaultGoalUnit
	}
	g := record.Goal{
		ID:          s.newID(),
		Title:       strings.TrimSpace(in.Title),
		Desc:        strings.TrimSpace(in.Desc),
		TargetValue: in.TargetValue,
		Unit:        unit,
		Category:    record.ParseGoalCategory(in.Category),
		TargetDate:  strings.TrimSpace(in.TargetDate),
		CreatedAt:   s.millis(),
	}
	if err := record.Validate(g); err != nil {
		return record.Goal{}, invalid("%v", err)
	}

	defer s.lock()()
	b := openCurrent(s.Store, store.GoalKeys(), s.today())
	b.prepend("", goalRaw(g))
	return g, b.save(s.Store)
}

func goalRaw(g record.Goal) record.Raw {
	m := record.Raw{
		"id": g.ID, "title": g.Title, "desc": g.Desc, "targetValue": g.TargetValue,
		"unit": g.Unit, "category": string(g.Category), "createdAt": g.CreatedAt,
	}
	if g.TargetDate != "" {
		m["targetDate"] = g.TargetDate
	}
	return m
}

// List returns goals as the aggregator reads them.
func (s *GoalStore) List(ctx context.Context) ([]record.GoalView, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return analytics.New(s.Store, s.Clock).Goals(), nil
}

// SetProgress records the current value, completing the goal once it
// reaches a positive target.
func (s *GoalStore) SetProgress(ctx context.Context, id string, current float64) (record.Goal, error) {
	if err := s.ready(); err != nil {
		return record.Goal{}, err
	}
	if current < 0 {
		return record.Goal{}, invalid("goal progress must not be negative")
	}
	defer s.lock()()
	var out record.Goal
	b := openCurrent(s.Store, store.GoalKeys(), s.today())
	hits := b.visit(func(_ string, m record.Raw) (bool, bool) {
		if idOf(m) != id {
			return false, false
		}
		m["current"] = current
		v, _ := record.GoalFrom(m)
		if v.TargetValue > 0 && current >= v.TargetValue {
			m["completed"] = true
			v.Completed = true
		}
		out = v.Goal
		return false, true
	})
	if hits == 0 {
		return record.Goal{}, ErrNotFound
	}
	return out, b.save(s.Store)
}

// Remove deletes a goal.
func (s *GoalStore) Remove(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	defer s.lock()()
	b := openCurrent(s.Store, store.GoalKeys(), s.today())
	if b.visit(func(_ string, m record.Raw) (bool, bool) { return idOf(m) == id, false }) == 0 {
		return ErrNotFound
	}
	return b.save(s.Store)
}
