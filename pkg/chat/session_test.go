package chat

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/taskflow/pkg/analytics"
	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/assistant"
	"tableflip.dev/taskflow/pkg/events"
	"tableflip.dev/taskflow/pkg/intent"
	"tableflip.dev/taskflow/pkg/record"
	"tableflip.dev/taskflow/pkg/store"
	"tableflip.dev/taskflow/pkg/testutil"
)

type harness struct {
	deps Deps
	acc  *store.Accessor
	bus  *events.Bus
	nav  chan intent.Page
}

func newHarness(t *testing.T, kv store.KV) harness {
	t.Helper()
	if kv == nil {
		kv = store.NewMemoryKV()
	}
	clk := testutil.FixedClock()
	bus := events.NewBus(8)
	acc := store.NewAccessor(kv, bus, zerolog.Nop()).ForIdentity("ana")
	stores := app.New(app.Deps{Store: acc, Clock: clk, IDs: testutil.NewStubIDGenerator()})
	a := assistant.New(stores, analytics.New(acc, clk), zerolog.Nop())
	a.Name = "Ana"
	nav := make(chan intent.Page, 4)
	return harness{
		deps: Deps{
			Store:     acc,
			Assistant: a,
			Clock:     clk,
			IDs:       testutil.NewStubIDGenerator(),
			Log:       zerolog.Nop(),
			Navigate:  func(p intent.Page) { nav <- p },
		},
		acc: acc,
		bus: bus,
		nav: nav,
	}
}

func open(t *testing.T, h harness) *Session {
	t.Helper()
	s, err := Open(h.deps)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenSeedsWelcome(t *testing.T) {
	h := newHarness(t, nil)
	s := open(t, h)

	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, record.RoleBot, msgs[0].Role)
	assert.Equal(t, "10:30", msgs[0].TS)
	assert.Equal(t, "Hi Ana! I’m Chinni.\n\n"+assistant.HelpText(), msgs[0].Text)

	assert.True(t, h.acc.Has(store.ChatHistory), "seed should be persisted")
	assert.Equal(t, "taskflow_chat_history_v1_ana", h.acc.Resolve(store.ChatHistory))
}

func TestSubmitAppendsAndPersists(t *testing.T) {
	h := newHarness(t, nil)
	s := open(t, h)

	reply, err := s.Submit(context.Background(), "  add todo buy milk ")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(reply.Text, "✅ Todo added"))
	assert.Equal(t, Idle, s.State())

	msgs := s.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, record.ChatMessage{ID: "id-2", Role: record.RoleUser, Text: "add todo buy milk", TS: "10:30"}, msgs[1])
	assert.Equal(t, record.RoleBot, msgs[2].Role)
	assert.Equal(t, reply.Text, msgs[2].Text)

	restored, err := Open(h.deps)
	require.NoError(t, err)
	defer restored.Close()
	assert.Equal(t, msgs, restored.Messages())
}

func TestHelpMenuIsStable(t *testing.T) {
	h := newHarness(t, nil)
	s := open(t, h)

	first, err := s.Submit(context.Background(), "help")
	require.NoError(t, err)
	_, err = s.Submit(context.Background(), "add todo something")
	require.NoError(t, err)
	second, err := s.Submit(context.Background(), "MENU")
	require.NoError(t, err)
	assert.Equal(t, assistant.HelpText(), first.Text)
	assert.Equal(t, first.Text, second.Text)
}

func TestBlankSubmitDoesNotAppend(t *testing.T) {
	h := newHarness(t, nil)
	s := open(t, h)
	reply, err := s.Submit(context.Background(), "   ")
	require.NoError(t, err)
	assert.Equal(t, assistant.HelpText(), reply.Text)
	assert.Len(t, s.Messages(), 1)
}

func TestNavigationIsDelayed(t *testing.T) {
	h := newHarness(t, nil)
	s := open(t, h)

	start := time.Now()
	reply, err := s.Submit(context.Background(), "open calendar")
	require.NoError(t, err)
	assert.Equal(t, "Opening calendar…", reply.Text)

	select {
	case p := <-h.nav:
		assert.Equal(t, intent.PageCalendar, p)
		assert.GreaterOrEqual(t, time.Since(start), NavigateDelay)
	case <-time.After(2 * time.Second):
		t.Fatalf("navigation never fired")
	}
}

func TestCloseCancelsNavigation(t *testing.T) {
	h := newHarness(t, nil)
	s, err := Open(h.deps)
	require.NoError(t, err)

	_, err = s.Submit(context.Background(), "open notes")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	select {
	case p := <-h.nav:
		t.Fatalf("navigated to %s after close", p)
	case <-time.After(3 * NavigateDelay):
	}
	_, err = s.Submit(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestClearResetsToWelcome(t *testing.T) {
	h := newHarness(t, nil)
	s := open(t, h)
	_, err := s.Submit(context.Background(), "hi")
	require.NoError(t, err)
	require.NoError(t, s.Clear())

	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.True(t, strings.HasPrefix(msgs[0].Text, "Hi Ana! I’m Chinni."))
	assert.Len(t, store.Load(h.acc, store.ChatHistory, []record.ChatMessage{}), 1)
}

func TestCalendarSelectionSetsDefaultDate(t *testing.T) {
	h := newHarness(t, nil)
	s := open(t, h)
	assert.Equal(t, "2026-10-14", s.DefaultDate())

	h.bus.Publish(events.Event{Topic: events.TopicCalendar, Value: "not a day"})
	h.bus.Publish(events.Event{Topic: events.TopicCalendar, Value: "2026-11-02"})
	require.Eventually(t, func() bool { return s.DefaultDate() == "2026-11-02" }, time.Second, 5*time.Millisecond)

	reply, err := s.Submit(context.Background(), "set reminder 18:30 call mom")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "📅 2026-11-02")

	assert.False(t, s.SetDefaultDate("2026-13-01"))
	assert.Equal(t, "2026-11-02", s.DefaultDate())
}

type failingPut struct {
	store.KV
	fail bool
}

func (f *failingPut) Put(key string, value []byte) error {
	if f.fail && strings.HasPrefix(key, store.ChatHistory.Name) {
		return assert.AnError
	}
	return f.KV.Put(key, value)
}

func TestHistoryWriteFailureIsAWarning(t *testing.T) {
	kv := &failingPut{KV: store.NewMemoryKV()}
	h := newHarness(t, kv)
	s := open(t, h)

	kv.fail = true
	reply, err := s.Submit(context.Background(), "hi")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(reply.Text, "Hi Ana!"))
	assert.Len(t, reply.Warnings, 2)
	assert.Len(t, s.Messages(), 3)
}
