package analytics

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/taskflow/pkg/store"
	"tableflip.dev/taskflow/pkg/testutil"
	"tableflip.dev/taskflow/pkg/timeutil"
)

func newAggregator(t *testing.T, buckets map[store.Key]string) *Aggregator {
	t.Helper()
	kv := store.NewMemoryKV()
	for k, v := range buckets {
		require.NoError(t, kv.Put(k.Name, []byte(v)))
	}
	a := store.NewAccessor(kv, nil, zerolog.Nop())
	return New(a, testutil.FixedClock())
}

func TestTodosMergeAcrossBucketsWithDoneOR(t *testing.T) {
	g := newAggregator(t, map[store.Key]string{
		store.TodosToday:  `{"2026-10-14":[{"id":"t1","text":"call mom","done":false}]}`,
		store.Tasks:       `[{"id":"t1","text":"call mom","date":"2026-10-14","done":true},{"id":"t2","text":"milk","date":"2026-10-13"}]`,
		store.TodosLegacy: `[{"title":"stretch","date":"2026-10-12","completed":"yes"},{"title":"stretch","date":"2026-10-12"}]`,
		store.TodosBare:   `{bad json`,
	})

	todos := g.Todos()
	require.Len(t, todos, 3)
	assert.Equal(t, "t1", todos[0].ID)
	assert.True(t, todos[0].Done, "a done copy wins")
	assert.Equal(t, "2026-10-14", todos[0].Date)
	assert.Equal(t, "t2", todos[1].ID)
	assert.Equal(t, "stretch", todos[2].Text)
	assert.True(t, todos[2].Done)

	assert.Equal(t, Ratio{Done: 2, Total: 3, Pct: 67}, g.TodoStats())
}

func TestLegacyArrayUnderDayMapIsToday(t *testing.T) {
	g := newAggregator(t, map[store.Key]string{
		store.TodosToday: `[{"id":"a","text":"water plants"}]`,
	})
	todos := g.Todos()
	require.Len(t, todos, 1)
	assert.Equal(t, "2026-10-14", todos[0].Date)
}

func TestRemindersNormalizeTextAndHandled(t *testing.T) {
	g := newAggregator(t, map[store.Key]string{
		store.CalendarReminders: `{"2026-10-14":[{"id":"r1","text":"dentist","time":"15:00","done":false}]}`,
		store.RemindersToday:    `{"2026-10-14":[{"id":"r1","title":"dentist","type":"Reminder","handled":true}]}`,
		store.Reminders:         `[{"id":"r2","text":"party","type":"Birthday","date":"2026-10-20","handled":false}]`,
	})
	rems := g.Reminders()
	require.Len(t, rems, 2)
	assert.Equal(t, "dentist", rems[0].Title)
	assert.True(t, rems[0].Handled)
	assert.Equal(t, Ratio{Done: 1, Total: 2, Pct: 50}, g.ReminderStats())
	assert.Len(t, g.RemindersBetween("2026-10-14", "2026-10-14"), 1)
}

func TestSessionsFirstBucketWins(t *testing.T) {
	g := newAggregator(t, map[store.Key]string{
		store.SessionsV1:       `[{"id":"old","date":"2026-10-14","hours":9,"rate":1}]`,
		store.WorkSessionsBare: `[{"id":"older","date":"2026-10-14","hours":1,"rate":1}]`,
	})
	sessions := g.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, "old", sessions[0].ID)
}

func TestWorkMoneyTimeframes(t *testing.T) {
	g := newAggregator(t, map[store.Key]string{
		store.WorkSessions: `[
			{"id":"s1","date":"2026-10-14","hours":2,"rate":20,"earnings":40},
			{"id":"s2","date":"2026-10-12","durationHours":1.5,"hourlyRate":10},
			{"id":"s3","date":"2026-10-02","hours":4,"rate":10,"earnings":40},
			{"id":"s4","date":"2025-01-01","hours":1,"rate":100,"earnings":100}
		]`,
		store.Expenses: `[
			{"id":"e1","date":"2026-10-14","name":"Lunch","amount":12.5},
			{"id":"e2","date":"2026-10-07","name":"Bus","amount":3}
		]`,
	})

	today := g.WorkMoney(timeutil.Today)
	assert.Equal(t, "2026-10-14", today.Start)
	assert.Len(t, today.Sessions, 1)
	assert.Equal(t, 40.0, today.Earnings)
	assert.Equal(t, 27.5, today.Net)

	week := g.WorkMoney(timeutil.Week)
	assert.Equal(t, "2026-10-12", week.Start)
	assert.Equal(t, 3.5, week.Hours)
	assert.Equal(t, 55.0, week.Earnings)
	assert.Len(t, week.Expenses, 1, "a date before Monday is outside the week")

	month := g.WorkMoney(timeutil.Month)
	assert.Len(t, month.Sessions, 3)
	assert.Equal(t, 15.5, month.Spent)

	total := g.WorkMoney(timeutil.Total)
	assert.Equal(t, timeutil.Epoch, total.Start)
	assert.Equal(t, 195.0, total.Earnings)

	assert.Equal(t, [4]float64{40, 55, 0, 0}, g.WeeklyEarnings())
}

func TestSeriesWindows(t *testing.T) {
	g := newAggregator(t, map[store.Key]string{
		store.Tasks:        `[{"id":"a","text":"x","date":"2026-10-14","done":true},{"id":"b","text":"y","date":"2026-10-14"}]`,
		store.WorkSessions: `[{"id":"s","date":"2026-10-13","hours":1.234,"rate":0}]`,
	})
	comp := g.CompletionSeries(0)
	require.Len(t, comp, DefaultSeriesDays)
	assert.Equal(t, "2026-09-15", comp[0].Date)
	assert.Equal(t, Point{Date: "2026-10-14", Value: 50}, comp[len(comp)-1])

	hours := g.WorkHoursSeries(7)
	require.Len(t, hours, 7)
	assert.Equal(t, Point{Date: "2026-10-13", Value: 1.23}, hours[5])
}

func TestGoalStatsAndCategories(t *testing.T) {
	g := newAggregator(t, map[store.Key]string{
		store.GoalsBare: `[
			{"id":"g1","title":"Run","category":"Health","progress":50},
			{"id":"g2","title":"Read","type":"study","current":1,"target":4},
			{"id":"g3","title":"Ship","status":"completed"}
		]`,
	})
	assert.Equal(t, GoalSummary{Total: 3, Active: 2, Completed: 1, AvgProgress: 58}, g.GoalStats())
	assert.Equal(t, []CategoryCount{
		{Category: "Health", Active: 1},
		{Category: "Learning", Active: 1},
		{Category: "Personal", Completed: 1},
	}, g.GoalsByCategory())
}

func TestEmptyStoreIsZero(t *testing.T) {
	g := newAggregator(t, nil)
	assert.Empty(t, g.Todos())
	assert.Equal(t, Ratio{}, g.TodoStats())
	assert.Equal(t, GoalSummary{}, g.GoalStats())
	assert.Equal(t, 0.0, g.WorkMoney(timeutil.Total).Net)
}

func TestAggregationIsIdempotent(t *testing.T) {
	g := newAggregator(t, map[store.Key]string{
		store.TodosToday:   `{"2026-10-14":[{"id":"t1","text":"a"}],"2026-10-13":[{"id":"t2","text":"b","done":1}]}`,
		store.Tasks:        `[{"id":"t1","text":"a","done":true}]`,
		store.WorkSessions: `[{"id":"s1","date":"2026-10-14","hours":2,"rate":3}]`,
		store.Goals:        `[{"id":"g","title":"x","progress":10}]`,
	})
	first, err := json.Marshal(g.Dashboard(0))
	require.NoError(t, err)
	second, err := json.Marshal(g.Dashboard(0))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}
