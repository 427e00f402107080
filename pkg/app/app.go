// Package app holds the per-entity stores. Each store owns its buckets and
// is the only writer to them; reads that span buckets live in analytics.
package app

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"tableflip.dev/taskflow/pkg/clock"
	"tableflip.dev/taskflow/pkg/record"
	"tableflip.dev/taskflow/pkg/store"
	"tableflip.dev/taskflow/pkg/timeutil"
)

var (
	// ErrNotFound is returned by mutating operations when no record has the id.
	ErrNotFound = errors.New("app: record not found")
	// ErrValidation wraps every rejected input.
	ErrValidation = errors.New("app: invalid record")

	errNoStore = errors.New("app: no store configured")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Deps are the collaborators every store shares.
type Deps struct {
	Store *store.Accessor
	Clock clock.Clock
	IDs   clock.IDGenerator

	// mu serializes read-modify-write cycles across the stores built by New.
	mu *sync.Mutex
}

func (d Deps) ready() error {
	if d.Store == nil {
		return errNoStore
	}
	return nil
}

func (d Deps) lock() func() {
	if d.mu == nil {
		return func() {}
	}
	d.mu.Lock()
	return d.mu.Unlock
}

func (d Deps) now() time.Time { return clock.Or(d.Clock).Now() }
func (d Deps) today() string { return timeutil.ISO(d.now()) }
func (d Deps) newID() string { return clock.OrIDs(d.IDs).New() }
func (d Deps) millis() int64 { return record.NowMillis(d.now()) }

// Stores bundles every entity store over one accessor.
type Stores struct {
	Todos     *TodoStore
	Reminders *ReminderStore
	Notes     *NoteStore
	Goals     *GoalStore
	Habits    *HabitStore
	Work      *WorkStore
	Users     *Users
}

// New builds the stores for the accessor's identity.
func New(d Deps) *Stores {
	if d.mu == nil {
		d.mu = &sync.Mutex{}
	}
	return &Stores{
		Todos:     &TodoStore{Deps: d},
		Reminders: &ReminderStore{Deps: d},
		Notes:     &NoteStore{Deps: d},
		Goals:     &GoalStore{Deps: d},
		Habits:    &HabitStore{Deps: d},
		Work:      &WorkStore{Deps: d},
		Users:     &Users{Deps: d},
	}
}

// ForIdentity rebinds every store to identity, sharing the write lock.
func (s *Stores) ForIdentity(identity string) *Stores {
	d := s.Todos.Deps
	d.Store = d.Store.ForIdentity(identity)
	return New(d)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// warn logs a failed secondary write and returns the warning for the caller.
func (d Deps) warn(err error, key store.Key, what string) string {
	log := d.Store.Logger()
	log.Warn().Err(err).Str("key", d.Store.Resolve(key)).Msg(what)
	return fmt.Sprintf("%s: %v", what, err)
}
