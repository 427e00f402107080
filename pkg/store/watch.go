package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"tableflip.dev/taskflow/pkg/events"
)

// Watcher is implemented by backends that can observe writes made by other
// processes.
type Watcher interface {
	Watch(ctx context.Context, bus *events.Bus, log zerolog.Logger) error
}

// Watch forwards bucket file changes onto bus until ctx is done. Bursts are
// coalesced per key.
func (k *DiskKV) Watch(ctx context.Context, bus *events.Bus, log zerolog.Logger) error {
	if k.basePath == "" {
		return errors.New("store: persistence base path unknown")
	}
	if bus == nil {
		return errors.New("store: watch requires a bus")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("store: create watcher: %w", err)
	}
	dir := filepath.Join(k.basePath, bucketDir)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("store: watch %s: %w", dir, err)
	}

	go func() {
		defer func() {
			if err := watcher.Close(); err != nil {
				log.Warn().Err(err).Msg("watcher close")
			}
		}()

		throttle := newEventThrottle(100 * time.Millisecond)
		defer throttle.Stop()
		send := func(ev events.Event) { bus.Publish(ev) }

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Msg("bucket watcher")
				throttle.Enqueue(events.Event{Topic: events.TopicExternal}, send)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				throttle.Enqueue(eventForPath(evt.Name), send)
			}
		}
	}()
	return nil
}

// eventForPath maps a bucket file back to its topic, or TopicExternal when
// the file is not a known bucket.
func eventForPath(path string) events.Event {
	key, err := decodeKey(filepath.Base(path))
	if err != nil {
		return events.Event{Topic: events.TopicExternal}
	}
	if k, ok := Lookup(key); ok {
		return events.Event{Topic: k.Topic, Key: key}
	}
	return events.Event{Topic: events.TopicExternal, Key: key}
}

// eventThrottle coalesces rapid notifications so subscribers see one event
// per key per burst of filesystem activity.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[events.Event]struct{}
	delay   time.Duration
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[events.Event]struct{}),
	}
}

func (t *eventThrottle) Enqueue(ev events.Event, send func(events.Event)) {
	t.mu.Lock()
	t.pending[ev] = struct{}{}
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
	t.mu.Unlock()
}

func (t *eventThrottle) flush(send func(events.Event)) {
	t.mu.Lock()
	pending := t.pending
	t.pending = make(map[events.Event]struct{})
	t.timer = nil
	t.mu.Unlock()

	for ev := range pending {
		send(ev)
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
