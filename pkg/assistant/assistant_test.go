package assistant

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/taskflow/pkg/analytics"
	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/intent"
	"tableflip.dev/taskflow/pkg/store"
	"tableflip.dev/taskflow/pkg/testutil"
)

type fixture struct {
	a      *Assistant
	stores *app.Stores
	agg    *analytics.Aggregator
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	clk := testutil.FixedClock()
	acc := store.NewAccessor(store.NewMemoryKV(), nil, zerolog.Nop())
	stores := app.New(app.Deps{Store: acc, Clock: clk, IDs: testutil.NewStubIDGenerator()})
	agg := analytics.New(acc, clk)
	return fixture{a: New(stores, agg, zerolog.Nop()), stores: stores, agg: agg}
}

func (f fixture) ask(text string) Reply {
	return f.a.Ask(context.Background(), text, intent.Defaults{})
}

func TestTodayPlanOnEmptyStore(t *testing.T) {
	f := newFixture(t)
	want := strings.Join([]string{
		"📌 there, here’s your plan for today (2026-10-14):",
		"",
		"✅ Todos: 0/0 done",
		"No pending todos for today. Add one from Home.",
		"",
		"⏰ Reminders: 0/0 handled",
		"No open reminders for today.",
	}, "\n")
	assert.Equal(t, want, f.ask("what should I do today").Text)
}

func TestCreatedTodoShowsInPlan(t *testing.T) {
	f := newFixture(t)
	reply := f.ask("add todo buy milk")
	assert.Equal(t, "✅ Todo added\n📅 2026-10-14\n📝 buy milk\n\nTip: open home to see it.", reply.Text)

	todos := f.agg.TodosBetween("2026-10-14", "2026-10-14")
	require.Len(t, todos, 1)
	assert.Equal(t, "buy milk", todos[0].Text)
	assert.False(t, todos[0].Done)

	plan := f.ask("plan my day").Text
	assert.Contains(t, plan, "✅ Todos: 0/1 done\nNext todos:\n1. buy milk")
}

func TestCreatedReminderRoundTrips(t *testing.T) {
	f := newFixture(t)
	reply := f.ask("remind me tomorrow 5pm pay rent")
	assert.Equal(t, "✅ Reminder created\n📅 2026-10-15\n⏰ 17:00\n📝 pay rent\n\nTip: open calendar to view it.", reply.Text)

	rems := f.agg.RemindersBetween("2026-10-15", "2026-10-15")
	require.Len(t, rems, 1)
	assert.Equal(t, "pay rent", rems[0].Text)
	assert.Equal(t, "17:00", rems[0].Time)
	assert.Empty(t, f.agg.RemindersBetween("2026-10-14", "2026-10-14"))
}

func TestReminderUsesCalendarDefaultDate(t *testing.T) {
	f := newFixture(t)
	reply := f.a.Ask(context.Background(), "set reminder 6pm call mom", intent.Defaults{DefaultDate: "2026-11-02"})
	assert.Contains(t, reply.Text, "📅 2026-11-02\n⏰ 18:00\n📝 call mom")
	require.Len(t, f.agg.RemindersBetween("2026-11-02", "2026-11-02"), 1)

	reply = f.a.Ask(context.Background(), "set reminder today 7am stretch", intent.Defaults{DefaultDate: "2026-11-02"})
	assert.Contains(t, reply.Text, "📅 2026-10-14")
}

func TestCreatedNoteShowsInSummary(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, "✅ Note created\n📝 Shopping\n\nTip: open notes to view it.",
		f.ask("create note Shopping | eggs, milk,   bread").Text)

	summary := f.ask("summarize my notes").Text
	assert.Contains(t, summary, "📝 there, your notes summary: 1 total")
	assert.Contains(t, summary, "1. Shopping — eggs, milk, bread")
}

func TestEmptyNotesSummary(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, "📝 Notes summary:\nYou don’t have any notes yet.\nGo to Notes → Create New Note.",
		f.ask("notes summary").Text)
}

func TestEmptyPayloadsFail(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, reminderFailed, f.ask("set reminder 2026-10-20").Text)
	assert.Equal(t, noteFailed, f.ask("create note").Text)
	assert.Equal(t, todoFailed, f.ask("add todo tomorrow").Text)
	assert.Empty(t, f.agg.Reminders())
	assert.Empty(t, f.agg.Todos())
}

func TestMoneyAnswers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.stores.Work.AddSession(ctx, app.NewSession{Start: "09:00", End: "11:00", Rate: 20})
	require.NoError(t, err)
	_, err = f.stores.Work.AddExpense(ctx, app.NewExpense{Name: "Groceries", Amount: 52.5})
	require.NoError(t, err)
	_, err = f.stores.Work.AddExpense(ctx, app.NewExpense{Date: "2026-09-30", Name: "Rent", Amount: 900})
	require.NoError(t, err)

	net := f.ask("my profit this month").Text
	assert.True(t, strings.HasPrefix(net, "📌 This month (2026-10-01 → 2026-10-14)\n\n"), net)
	assert.Contains(t, net, "💰 Earnings: $40.00\n💸 Expenses: $52.50")
	assert.Contains(t, net, "Insight: You spent more than you earned in this period.")

	earn := f.ask("my earnings this week").Text
	assert.Contains(t, earn, "💼 Work sessions: 1\n💰 Total earnings: $40.00\n📈 Effective hourly: $20.00/hr")

	exp := f.ask("total expenses").Text
	assert.Contains(t, exp, "🧾 Expense records: 2")
	assert.Contains(t, exp, "Latest expenses:\n1. Rent — $900.00\n2. Groceries — $52.50")

	work := f.ask("my work hours").Text
	assert.Contains(t, work, "📌 Today (2026-10-14 → 2026-10-14)")
	assert.Contains(t, work, "🕒 Total work hours: 2.0h")
}

func TestWeeklyProductivity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res, err := f.stores.Todos.Add(ctx, "write report", "2026-10-12")
	require.NoError(t, err)
	_, err = f.stores.Todos.Toggle(ctx, res.Todo.ID)
	require.NoError(t, err)
	_, err = f.stores.Todos.Add(ctx, "last week", "2026-10-05")
	require.NoError(t, err)

	got := f.ask("how productive was i this week").Text
	assert.True(t, strings.HasPrefix(got, "📊 there, your weekly productivity (2026-10-12 → 2026-10-14)"), got)
	assert.Contains(t, got, "✅ Todos: 1/1 completed\n⏰ Reminders: 0/0 handled")
	assert.Contains(t, got, "📈 Net: $0.00")
}

func TestFocusPlanFillsBlocks(t *testing.T) {
	f := newFixture(t)
	_, err := f.stores.Todos.Add(context.Background(), "draft slides", "")
	require.NoError(t, err)
	got := f.ask("suggest a focus plan").Text
	assert.Contains(t, got, "Pick 3 focus blocks:\n1) draft slides\n2) A small task (5–10 min) to build momentum\n3) Review + clean up tasks/reminders")
}

func TestNavigateAndSocial(t *testing.T) {
	f := newFixture(t)
	nav := f.ask("open work hours")
	assert.Equal(t, "Opening work-hours…", nav.Text)
	assert.Equal(t, intent.PageWorkHours, nav.Navigate)

	f.a.Name = "Ana"
	assert.True(t, strings.HasPrefix(f.ask("good morning").Text, "Good Morning, Ana!\n"))
	assert.True(t, strings.HasPrefix(f.ask("who am i").Text, "You are logged in as: Ana\n"))
	assert.True(t, strings.HasPrefix(f.ask("who are you").Text, "I’m Chinni, your TaskFlow assistant."))
	assert.True(t, strings.HasPrefix(f.ask("blorp").Text, "I can help with your TaskFlow data, Ana."))
}

func TestHelpAndWelcome(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, HelpText(), f.ask("help").Text)
	assert.Equal(t, HelpText(), f.ask("").Text)
	assert.Equal(t, "Hi there! I’m Chinni.\n\n"+HelpText(), f.a.Welcome())

	f.a.BotName = "Mochi"
	assert.True(t, strings.HasPrefix(f.a.Welcome(), "Hi there! I’m Mochi."))
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$12.50", Money(12.5))
	assert.Equal(t, "$0.00", Money(0))
}
