package export

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/taskflow/pkg/record"
)

var generated = time.Date(2026, time.October, 14, 15, 4, 5, 0, time.Local)

func sampleData() Data {
	return Data{
		Sessions: []record.WorkSession{
			{ID: "s1", Date: "2026-10-14", Hours: 2, Earnings: 40},
			{ID: "s2", Date: "2026-10-13", Hours: 1.5, Earnings: 1200},
		},
		Expenses: []record.Expense{
			{ID: "e1", Name: "Groceries", Type: "Food", Amount: 52.5},
			{ID: "e2", Name: "Laptop", Amount: 1499},
		},
		Goals: []record.GoalView{
			{Goal: record.Goal{Title: "Run 5k", Category: record.Health, TargetValue: 5, Unit: "km", TargetDate: "2026-12-01"}},
			{Goal: record.Goal{Title: "Read", Category: record.Study, TargetValue: 4, Unit: "books", TargetDate: "2026-11-01"}},
			{Goal: record.Goal{Title: "Someday"}},
		},
		Todos: []record.Todo{
			{ID: "t1", Text: "buy milk"},
			{ID: "t2", Text: "ship it", Done: true},
		},
		Reminders: []record.Reminder{
			{ID: "r1", Text: "call mom", Type: record.ReminderPlain, Date: "2026-10-14", Handled: true},
			{ID: "r2", Text: "party", Type: record.Birthday, Date: "2026-10-20"},
		},
	}
}

func TestReportAllSections(t *testing.T) {
	r := Report{User: "Ana", Generated: generated, Sections: AllSections(), Data: sampleData()}
	want := strings.Join([]string{
		"TaskFlow Export Report",
		"User: Ana",
		"Generated: 10/14/2026, 3:04:05 PM",
		"----------------------------------------",
		"",
		"✅ Work Hours / Earnings",
		"Total sessions: 2",
		"Total hours: 3.5h",
		"Total earnings: $1,240.00",
		"",
		"✅ Expenses",
		"Total records: 2",
		"Total spent: $1,551.50",
		"",
		"Recent expenses:",
		"1. Groceries (Food) - $52.50",
		"2. Laptop - $1,499.00",
		"",
		"✅ Goals",
		"Total goals: 3",
		"",
		"Upcoming goals:",
		"1. Read • Study • Target: 4 books • Due: 2026-11-01",
		"2. Run 5k • Health • Target: 5 km • Due: 2026-12-01",
		"",
		"✅ Todos",
		"Total todos: 2",
		"Completed: 1",
		"Pending: 1",
		"",
		"Pending todos:",
		"1. buy milk",
		"",
		"✅ Reminders",
		"Total reminders: 2",
		"Handled: 1",
		"Pending: 1",
		"",
		"Today (2026-10-14) reminders:",
		"1. ✅ call mom (Reminder)",
		"",
		"— End of report —",
	}, "\n")
	assert.Equal(t, want, r.String())
	assert.Equal(t, "TaskFlow Export - Ana - 10/14/2026", r.Subject())
}

func TestReportOnlySelectedSections(t *testing.T) {
	r := Report{Generated: generated, Sections: Sections{Earnings: true}, Data: sampleData()}
	got := r.String()
	assert.Contains(t, got, "User: guest")
	assert.Contains(t, got, "Total earnings: $1,240.00")
	assert.NotContains(t, got, "Total hours")
	assert.NotContains(t, got, "✅ Todos")
}

func TestParseSections(t *testing.T) {
	s, err := ParseSections(nil)
	require.NoError(t, err)
	assert.Equal(t, AllSections(), s)

	s, err = ParseSections([]string{"Todos", " goals "})
	require.NoError(t, err)
	assert.Equal(t, Sections{Todos: true, Goals: true}, s)

	_, err = ParseSections([]string{"weather"})
	assert.Error(t, err)
}

func TestCurrency(t *testing.T) {
	assert.Equal(t, "$0.00", currency(0))
	assert.Equal(t, "-$12.50", currency(-12.5))
}

func TestMailtoURL(t *testing.T) {
	u := MailtoURL("ana@example.com", "TaskFlow Export - Ana", "a & b = c\nnext")
	assert.Equal(t, "mailto:ana%40example.com?subject=TaskFlow%20Export%20-%20Ana&body=a%20%26%20b%20%3D%20c%0Anext", u)

	parsed, err := url.Parse(u)
	require.NoError(t, err)
	assert.Equal(t, "a & b = c\nnext", parsed.Query().Get("body"))
}

type recordingOpener struct {
	urls []string
	err  error
}

func (o *recordingOpener) Open(_ context.Context, u string) error {
	o.urls = append(o.urls, u)
	return o.err
}

func TestMailerSend(t *testing.T) {
	op := &recordingOpener{}
	m := Mailer{Opener: op}
	r := Report{User: "Ana", Generated: generated, Sections: Sections{Todos: true}, Data: sampleData()}

	_, err := m.Send(context.Background(), "  ", r)
	assert.ErrorIs(t, err, ErrNoRecipient)
	_, err = m.Send(context.Background(), "not-an-address", r)
	assert.Error(t, err)
	assert.Empty(t, op.urls)

	u, err := m.Send(context.Background(), "ana@example.com", r)
	require.NoError(t, err)
	require.Equal(t, []string{u}, op.urls)
	assert.True(t, strings.HasPrefix(u, "mailto:ana%40example.com?subject=TaskFlow%20Export%20-%20Ana%20-%2010%2F14%2F2026&body="))

	op.err = errors.New("no handler")
	_, err = m.Send(context.Background(), "ana@example.com", r)
	assert.EqualError(t, err, "no handler")
}

func TestSystemOpenerUsesDefaultHandler(t *testing.T) {
	var opened []string
	prev := openURL
	openURL = func(u string) error {
		opened = append(opened, u)
		return nil
	}
	t.Cleanup(func() { openURL = prev })

	require.NoError(t, SystemOpener{}.Open(context.Background(), "mailto:x"))
	assert.Equal(t, []string{"mailto:x"}, opened)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, SystemOpener{}.Open(ctx, "mailto:y"), context.Canceled)
	assert.Len(t, opened, 1)
}
