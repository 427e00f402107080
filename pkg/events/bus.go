// Package events carries change notifications between stores and the views
// that read them.
package events

import "sync"

// Topic names one entity family.
type Topic string

const (
	TopicTodos     Topic = "todos"
	TopicReminders Topic = "reminders"
	TopicNotes     Topic = "notes"
	TopicGoals     Topic = "goals"
	TopicHabits    Topic = "habits"
	TopicWork      Topic = "work"
	TopicFocus     Topic = "focus"
	TopicChat      Topic = "chat"
	TopicUsers     Topic = "users"
	// TopicCalendar carries the calendar's selected day in Value.
	TopicCalendar Topic = "calendar"
	// TopicExternal marks changes observed on disk from another process.
	TopicExternal Topic = "external"
)

// Event is published after every persistent write.
type Event struct {
	Topic Topic
	// Key is the resolved storage key that changed, if any.
	Key string
	// Value is an optional payload, like a selected ISO day.
	Value string
}

// Bus is an in-process publish/subscribe fan-out. Publishing never blocks:
// a subscriber whose buffer is full misses the event.
type Bus struct {
	mu     sync.RWMutex
	buffer int
	nextID int
	subs   map[int]*subscription
}

type subscription struct {
	ch     chan Event
	topics map[Topic]struct{}
}

func (s *subscription) wants(t Topic) bool {
	if len(s.topics) == 0 {
		return true
	}
	_, ok := s.topics[t]
	return ok
}

// NewBus creates a bus whose subscriber channels hold buffer events.
func NewBus(buffer int) *Bus {
	if buffer <= 0 {
		buffer = 16
	}
	return &Bus{buffer: buffer, subs: make(map[int]*subscription)}
}

// Subscribe returns a channel of events for the given topics, or for every
// topic when none are given. The cancel func closes the channel.
func (b *Bus) Subscribe(topics ...Topic) (<-chan Event, func()) {
	if b == nil {
		ch := make(chan Event)
		close(ch)
		return ch, func() {}
	}
	sub := &subscription{ch: make(chan Event, b.buffer), topics: make(map[Topic]struct{}, len(topics))}
	for _, t := range topics {
		sub.topics[t] = struct{}{}
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = sub
	b.mu.Unlock()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(sub.ch)
		})
	}
}

// Publish fans evt out to interested subscribers and reports how many
// received it. A nil bus drops everything.
func (b *Bus) Publish(evt Event) int {
	if b == nil {
		return 0
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	delivered := 0
	for _, sub := range b.subs {
		if !sub.wants(evt.Topic) {
			continue
		}
		select {
		case sub.ch <- evt:
			delivered++
		default:
		}
	}
	return delivered
}
