package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"tableflip.dev/taskflow/pkg/events"
)

type testConfig struct {
	path    string
	backend Backend
}

func (t testConfig) BasePath() string { return t.path }
func (t testConfig) Backend() Backend { return t.backend }

func backends(t *testing.T) map[string]KV {
	t.Helper()
	disk, err := Open(testConfig{path: t.TempDir(), backend: BackendDisk})
	if err != nil {
		t.Fatalf("open disk: %v", err)
	}
	lite, err := Open(testConfig{path: filepath.Join(t.TempDir(), "kv.sqlite"), backend: BackendSQLite})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = lite.Close() })
	return map[string]KV{
		"disk":   disk,
		"sqlite": lite,
		"memory": NewMemoryKV(),
	}
}

func TestBackendsRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := kv.Get("taskflow:a@b.c:todos"); err != ErrNotFound {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
			if err := kv.Put("taskflow:a@b.c:todos", []byte(`[1]`)); err != nil {
				t.Fatalf("put: %v", err)
			}
			if err := kv.Put("taskflow:a@b.c:todos", []byte(`[2]`)); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			got, err := kv.Get("taskflow:a@b.c:todos")
			if err != nil || string(got) != `[2]` {
				t.Fatalf("expected [2], got %q (%v)", got, err)
			}
			if err := kv.Put("todos", []byte(`[]`)); err != nil {
				t.Fatalf("put: %v", err)
			}
			keys, err := kv.Keys(ctx)
			if err != nil {
				t.Fatalf("keys: %v", err)
			}
			if len(keys) != 2 || keys[0] != "taskflow:a@b.c:todos" || keys[1] != "todos" {
				t.Fatalf("unexpected keys %v", keys)
			}
			if err := kv.Delete("todos"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if err := kv.Delete("todos"); err != nil {
				t.Fatalf("delete missing: %v", err)
			}
			if _, err := kv.Get("todos"); err != ErrNotFound {
				t.Fatalf("expected ErrNotFound after delete, got %v", err)
			}
		})
	}
}

func TestUnknownBackend(t *testing.T) {
	if _, err := Open(testConfig{path: t.TempDir(), backend: "etcd"}); err == nil {
		t.Fatalf("expected unknown backend error")
	}
}

func TestKeyScoping(t *testing.T) {
	cases := []struct {
		key      Key
		identity string
		want     string
	}{
		{Tasks, "", "taskflow_tasks_v1"},
		{Tasks, Guest, "taskflow_tasks_v1"},
		{Tasks, "ana@example.com", "taskflow_tasks_v1_ana@example.com"},
		{UserTodos, "", "taskflow:guest:todos"},
		{UserTodos, "ana", "taskflow:ana:todos"},
		{WorkSessions, "ana", "taskflow_work_sessions_v1"},
		{ChatHistory, "ana", "taskflow_chat_history_v1_ana"},
	}
	for _, tc := range cases {
		if got := tc.key.For(tc.identity); got != tc.want {
			t.Fatalf("%s for %q = %q, want %q", tc.key.Name, tc.identity, got, tc.want)
		}
	}
}

func TestLookupPrefersLongestName(t *testing.T) {
	k, ok := Lookup("taskflow_todos_today_ana")
	if !ok || k.Name != TodosToday.Name {
		t.Fatalf("expected todos today bucket, got %+v (%v)", k, ok)
	}
	k, ok = Lookup("taskflow:ana:todos")
	if !ok || k.Name != UserTodos.Name {
		t.Fatalf("expected user todos bucket, got %+v", k)
	}
	if _, ok := Lookup("unrelated"); ok {
		t.Fatalf("expected unrelated key to miss")
	}
}

func TestAccessorTolerantReads(t *testing.T) {
	kv := NewMemoryKV()
	a := NewAccessor(kv, nil, zerolog.Nop())

	_ = kv.Put(Tasks.Name, []byte(`{not json`))
	if got := Load(a, Tasks, []int{7}); len(got) != 1 || got[0] != 7 {
		t.Fatalf("expected fallback for malformed bucket, got %v", got)
	}
	_ = kv.Put(Tasks.Name, []byte(`null`))
	if a.Has(Tasks) {
		t.Fatalf("expected null bucket to read as absent")
	}
	_ = kv.Put(Tasks.Name, []byte(`[1,2]`))
	if got := Load(a, Tasks, []int(nil)); len(got) != 2 {
		t.Fatalf("expected two values, got %v", got)
	}
}

func TestAccessorPublishesWrites(t *testing.T) {
	bus := events.NewBus(4)
	ch, cancel := bus.Subscribe(events.TopicTodos)
	defer cancel()

	a := NewAccessor(NewMemoryKV(), bus, zerolog.Nop()).ForIdentity("ana")
	if err := a.Put(Tasks, []string{"x"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	select {
	case evt := <-ch:
		if evt.Key != "taskflow_tasks_v1_ana" {
			t.Fatalf("unexpected key %q", evt.Key)
		}
	case <-time.After(time.Second):
		t.Fatal("expected change event")
	}

	if err := a.Delete(Tasks); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if evt := <-ch; evt.Topic != events.TopicTodos {
		t.Fatalf("expected todos topic, got %s", evt.Topic)
	}
}

func TestIdentitiesArePartitioned(t *testing.T) {
	kv := NewMemoryKV()
	base := NewAccessor(kv, nil, zerolog.Nop())
	ana := base.ForIdentity("ana")
	bo := base.ForIdentity("bo")

	if err := ana.Put(Notes, []string{"mine"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if bo.Has(Notes) || base.Has(Notes) {
		t.Fatalf("expected other identities to see no notes")
	}
	if !ana.Has(Notes) {
		t.Fatalf("expected ana to see her notes")
	}
}

func TestDiskWatchEmitsBucketChanges(t *testing.T) {
	kv, err := NewDiskKV(t.TempDir())
	if err != nil {
		t.Fatalf("open disk: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := events.NewBus(16)
	ch, unsubscribe := bus.Subscribe(events.TopicReminders)
	defer unsubscribe()

	if err := kv.Watch(ctx, bus, zerolog.Nop()); err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Allow the watcher goroutine to start before writing.
	time.Sleep(50 * time.Millisecond)

	if err := kv.Put(CalendarReminders.Name, []byte(`{}`)); err != nil {
		t.Fatalf("put: %v", err)
	}

	select {
	case evt := <-ch:
		if evt.Key != CalendarReminders.Name {
			t.Fatalf("expected key %q, got %q", CalendarReminders.Name, evt.Key)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for bucket change event")
	}
}
