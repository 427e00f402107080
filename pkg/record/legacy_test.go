package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenArrayAndDayMap(t *testing.T) {
	got := Flatten([]byte(`[{"id":"a"},{"id":"b","date":"2026-10-01"},7]`), "2026-10-14")
	require.Len(t, got, 2)
	assert.Equal(t, "2026-10-14", got[0]["date"])
	assert.Equal(t, "2026-10-01", got[1]["date"])

	got = Flatten([]byte(`{"2026-10-13":[{"id":"old"}],"2026-10-14":[{"id":"new"},{"id":"moved","date":"2026-10-20"}],"junk":3}`), "")
	require.Len(t, got, 3)
	assert.Equal(t, "new", got[0]["id"])
	assert.Equal(t, "2026-10-14", got[0]["date"])
	assert.Equal(t, "2026-10-20", got[1]["date"])
	assert.Equal(t, "2026-10-13", got[2]["date"])

	assert.Empty(t, Flatten([]byte(`"hello"`), ""))
	assert.Empty(t, Flatten([]byte(`{oops`), ""))
	assert.Empty(t, Flatten(nil, ""))
}

func TestFlattenLeavesUndatedWithoutDay(t *testing.T) {
	got := Flatten([]byte(`[{"id":"a"}]`), "")
	require.Len(t, got, 1)
	_, dated := got[0]["date"]
	assert.False(t, dated)
}

func TestToBool(t *testing.T) {
	for _, v := range []any{true, 1.0, "true", "1", "yes", " YES "} {
		assert.True(t, ToBool(v), "%#v", v)
	}
	for _, v := range []any{nil, false, 0.0, 2.0, "no", "", "0"} {
		assert.False(t, ToBool(v), "%#v", v)
	}
}

func TestTodoFromLegacyShapes(t *testing.T) {
	td, ok := TodoFrom(Raw{"id": 42.0, "title": "buy milk", "completed": "yes", "date": "10/14/2026", "createdAt": 1760000000000.0})
	require.True(t, ok)
	assert.Equal(t, "42", td.ID)
	assert.Equal(t, "buy milk", td.Text)
	assert.True(t, td.Done)
	assert.Equal(t, "2026-10-14", td.Date)
	assert.Equal(t, int64(1760000000000), td.CreatedAt)

	td, ok = TodoFrom(Raw{"id": "x", "text": "call", "title": "ignored", "done": false, "isDone": true})
	require.True(t, ok)
	assert.Equal(t, "call", td.Text)
	assert.False(t, td.Done, "done wins over later flags when present")

	td, _ = TodoFrom(Raw{"id": "y", "text": "t", "checked": 1.0})
	assert.True(t, td.Done)
}

func TestReminderFromFillsTextAndTitle(t *testing.T) {
	r, ok := ReminderFrom(Raw{"id": "r1", "title": "pay rent", "done": true, "date": "2026-10-14"})
	require.True(t, ok)
	assert.Equal(t, "pay rent", r.Text)
	assert.Equal(t, "pay rent", r.Title)
	assert.True(t, r.Handled)
	assert.Equal(t, ReminderPlain, r.Type)
	assert.Equal(t, DefaultTime, r.Time)

	r, _ = ReminderFrom(Raw{"id": "r2", "text": "party", "type": "birthday", "time": "18:30", "handled": false, "done": true})
	assert.Equal(t, Birthday, r.Type)
	assert.Equal(t, "18:30", r.Time)
	assert.False(t, r.Handled)
}

func TestSessionFromDerivesHoursAndEarnings(t *testing.T) {
	s, ok := SessionFrom(Raw{"id": "s1", "date": "2026-10-14", "durationHours": "2.5", "hourlyRate": 20.0})
	require.True(t, ok)
	assert.Equal(t, 2.5, s.Hours)
	assert.Equal(t, 20.0, s.Rate)
	assert.Equal(t, 50.0, s.Earnings)
	assert.Equal(t, SourceManual, s.Source)

	s, _ = SessionFrom(Raw{"id": "s2", "date": "2026-10-14", "durationSec": 5400.0, "rate": 10.0})
	assert.Equal(t, 1.5, s.Hours)
	assert.Equal(t, 15.0, s.Earnings)

	s, _ = SessionFrom(Raw{"id": "s3", "date": "2026-10-14", "hours": 2.0, "rate": 10.0, "earnings": 99.0})
	assert.Equal(t, 99.0, s.Earnings, "stored earnings are kept")
}

func TestExpenseFromNameFallback(t *testing.T) {
	e, ok := ExpenseFrom(Raw{"id": "e1", "title": "Bus", "amount": "3.25", "type": "Transport", "date": "2026-10-14"})
	require.True(t, ok)
	assert.Equal(t, "Bus", e.Name)
	assert.Equal(t, 3.25, e.Amount)

	e, _ = ExpenseFrom(Raw{"id": "e2", "amount": 1.0})
	assert.Equal(t, "Expense", e.Name)
}

func TestGoalFromProgress(t *testing.T) {
	g, ok := GoalFrom(Raw{"id": "g1", "title": "Run", "progress": 140.0, "category": "Health"})
	require.True(t, ok)
	assert.Equal(t, 100.0, g.Progress)
	assert.Equal(t, Health, g.Category)

	g, _ = GoalFrom(Raw{"id": "g2", "name": "Read", "current": 5.0, "target": 20.0, "type": "study"})
	assert.Equal(t, "Read", g.Title)
	assert.Equal(t, 25.0, g.Progress)
	assert.Equal(t, "study", g.RawCategory)

	g, _ = GoalFrom(Raw{"id": "g3", "title": "Ship", "status": "completed"})
	assert.True(t, g.Completed)
	assert.Equal(t, 100.0, g.Progress)

	g, _ = GoalFrom(Raw{"id": "g4", "title": "Idle"})
	assert.False(t, g.Completed)
	assert.Equal(t, 0.0, g.Progress)
	assert.Equal(t, string(Personal), g.RawCategory)
}
