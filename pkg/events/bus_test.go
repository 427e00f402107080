package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusFiltersByTopic(t *testing.T) {
	bus := NewBus(4)
	todos, cancelTodos := bus.Subscribe(TopicTodos)
	defer cancelTodos()
	all, cancelAll := bus.Subscribe()
	defer cancelAll()

	assert.Equal(t, 2, bus.Publish(Event{Topic: TopicTodos, Key: "taskflow_tasks_v1"}))
	assert.Equal(t, 1, bus.Publish(Event{Topic: TopicNotes, Key: "taskflow_notes_v1"}))

	got := <-todos
	assert.Equal(t, "taskflow_tasks_v1", got.Key)
	select {
	case evt := <-todos:
		t.Fatalf("unexpected event on todos subscription: %+v", evt)
	default:
	}

	require.Len(t, all, 2)
}

func TestBusPublishDoesNotBlock(t *testing.T) {
	bus := NewBus(1)
	_, cancel := bus.Subscribe(TopicChat)
	defer cancel()

	assert.Equal(t, 1, bus.Publish(Event{Topic: TopicChat}))
	assert.Equal(t, 0, bus.Publish(Event{Topic: TopicChat}))
}

func TestBusCancelClosesChannel(t *testing.T) {
	bus := NewBus(1)
	ch, cancel := bus.Subscribe(TopicGoals)
	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, bus.Publish(Event{Topic: TopicGoals}))
}

func TestNilBusIsSafe(t *testing.T) {
	var bus *Bus
	assert.Equal(t, 0, bus.Publish(Event{Topic: TopicTodos}))
	ch, cancel := bus.Subscribe(TopicTodos)
	cancel()
	_, ok := <-ch
	assert.False(t, ok)
}
