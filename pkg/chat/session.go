// Package chat keeps one identity's conversation with the assistant.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"tableflip.dev/taskflow/pkg/assistant"
	"tableflip.dev/taskflow/pkg/clock"
	"tableflip.dev/taskflow/pkg/events"
	"tableflip.dev/taskflow/pkg/intent"
	"tableflip.dev/taskflow/pkg/record"
	"tableflip.dev/taskflow/pkg/store"
	"tableflip.dev/taskflow/pkg/timeutil"
)

// NavigateDelay is how long after a navigation reply the page opens.
const NavigateDelay = 200 * time.Millisecond

// ErrClosed is returned by operations on a closed session.
var ErrClosed = errors.New("chat: session closed")

// State is what the session is doing.
type State int

const (
	Idle State = iota
	Processing
)

func (s State) String() string {
	if s == Processing {
		return "processing"
	}
	return "idle"
}

// Deps are the session's collaborators. Store should already be scoped to
// the signed-in identity.
type Deps struct {
	Store     *store.Accessor
	Assistant *assistant.Assistant
	Clock     clock.Clock
	IDs       clock.IDGenerator
	Log       zerolog.Logger
	// Navigate opens a page. Nil drops navigation.
	Navigate func(intent.Page)
}

// Session is a persisted conversation. Safe for concurrent use.
type Session struct {
	deps Deps

	mu          sync.Mutex
	messages    []record.ChatMessage
	defaultDate string
	timer       *time.Timer
	closed      bool

	state       atomic.Int32
	unsubscribe func()
	done        chan struct{}
}

// Open restores the saved conversation, or starts one with the welcome
// message, and starts following the calendar's selected day.
func Open(d Deps) (*Session, error) {
	if d.Store == nil || d.Assistant == nil {
		return nil, errors.New("chat: store and assistant are required")
	}
	s := &Session{deps: d, done: make(chan struct{})}

	if saved := store.Load(d.Store, store.ChatHistory, []record.ChatMessage{}); len(saved) > 0 {
		s.messages = saved
	} else {
		s.messages = s.seed()
		if err := s.persist(); err != nil {
			return nil, err
		}
	}

	ch, cancel := d.Store.Bus().Subscribe(events.TopicCalendar)
	s.unsubscribe = cancel
	go s.follow(ch)
	return s, nil
}

func (s *Session) follow(ch <-chan events.Event) {
	defer close(s.done)
	for evt := range ch {
		s.SetDefaultDate(evt.Value)
	}
}

func (s *Session) now() time.Time { return clock.Or(s.deps.Clock).Now() }

func (s *Session) message(role record.Role, text string) record.ChatMessage {
	return record.ChatMessage{
		ID:   clock.OrIDs(s.deps.IDs).New(),
		Role: role,
		Text: text,
		TS:   s.now().Format("15:04"),
	}
}

func (s *Session) seed() []record.ChatMessage {
	return []record.ChatMessage{s.message(record.RoleBot, s.deps.Assistant.Welcome())}
}

func (s *Session) persist() error {
	return s.deps.Store.Put(store.ChatHistory, s.messages)
}

func (s *Session) append(m record.ChatMessage, warnings *[]string) {
	s.messages = append(s.messages, m)
	if err := s.persist(); err != nil {
		s.deps.Log.Warn().Err(err).Str("key", s.deps.Store.Resolve(store.ChatHistory)).Msg("chat history not saved")
		*warnings = append(*warnings, "chat history not saved: "+err.Error())
	}
}

// Submit records text and the assistant's answer. Blank text gets the help
// menu without touching the history. A navigation reply opens its page after
// NavigateDelay unless the session is closed first.
func (s *Session) Submit(ctx context.Context, text string) (assistant.Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return assistant.Reply{Text: assistant.HelpText()}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return assistant.Reply{}, ErrClosed
	}
	s.state.Store(int32(Processing))
	defer s.state.Store(int32(Idle))

	var warnings []string
	s.append(s.message(record.RoleUser, text), &warnings)

	d := intent.Defaults{Today: timeutil.ISO(s.now()), DefaultDate: s.defaultDate}
	reply := s.deps.Assistant.Respond(ctx, intent.Classify(text, d))
	s.append(s.message(record.RoleBot, reply.Text), &warnings)
	reply.Warnings = append(reply.Warnings, warnings...)

	if reply.Navigate != "" {
		s.schedule(reply.Navigate)
	}
	return reply, nil
}

// schedule replaces any pending navigation. Called with mu held.
func (s *Session) schedule(p intent.Page) {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(NavigateDelay, func() {
		s.mu.Lock()
		closed := s.closed
		s.mu.Unlock()
		if !closed && s.deps.Navigate != nil {
			s.deps.Navigate(p)
		}
	})
}

// Messages returns a copy of the conversation.
func (s *Session) Messages() []record.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]record.ChatMessage(nil), s.messages...)
}

// State reports whether a Submit is in flight.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Clear resets the conversation to the welcome message.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.messages = s.seed()
	return s.persist()
}

// SetDefaultDate sets the day undated reminders go to. Anything but a valid
// YYYY-MM-DD is ignored.
func (s *Session) SetDefaultDate(iso string) bool {
	iso = strings.TrimSpace(iso)
	if !timeutil.ValidISO(iso) {
		return false
	}
	s.mu.Lock()
	s.defaultDate = iso
	s.mu.Unlock()
	return true
}

// DefaultDate is the day undated reminders go to, today when unset.
func (s *Session) DefaultDate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.defaultDate != "" {
		return s.defaultDate
	}
	return timeutil.ISO(s.now())
}

// Close cancels pending navigation and stops following the calendar.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()

	s.unsubscribe()
	<-s.done
	return nil
}
