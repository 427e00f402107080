package printers

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/taskflow/pkg/analytics"
	"tableflip.dev/taskflow/pkg/record"
)

func newPrinter(t *testing.T) (*PrettyPrint, *bytes.Buffer) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
	var buf bytes.Buffer
	return &PrettyPrint{Out: &buf}, &buf
}

func TestTitleWithCount(t *testing.T) {
	pp, buf := newPrinter(t)
	pp.TitleWithCount("Todos", 1, "todo")
	pp.TitleWithCount("Todos", 3, "todo")
	if got, want := buf.String(), "Todos - 1 todo\nTodos - 3 todos\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTodosAndEmpty(t *testing.T) {
	pp, buf := newPrinter(t)
	pp.Todos(
		record.Todo{ID: "a", Text: "buy milk", Date: "2026-10-14"},
		record.Todo{ID: "b", Text: "ship it", Done: true},
	)
	pp.Todos()
	want := "• buy milk  2026-10-14\n✓ ship it\n\n none\n\n"
	if got := buf.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestShowIDPrefixesRows(t *testing.T) {
	pp, buf := newPrinter(t)
	pp.ShowID = true
	pp.Reminders(record.Reminder{ID: "r1", Text: "call mom", Date: "2026-10-14", Time: "09:00", Type: record.Birthday})
	line := strings.SplitN(buf.String(), "\n", 2)[0]
	if !strings.HasPrefix(line, "r1 ") || !strings.HasSuffix(line, "• 2026-10-14 09:00 call mom  (Birthday)") {
		t.Fatalf("unexpected row %q", line)
	}
}

func TestLockedNotesHideContent(t *testing.T) {
	pp, buf := newPrinter(t)
	pp.Notes(record.Note{ID: "n", Title: "Secret", Content: "the code is 42", Protect: true})
	if strings.Contains(buf.String(), "42") {
		t.Fatalf("locked note leaked content: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "🔒 locked") {
		t.Fatalf("expected lock marker, got %q", buf.String())
	}
}

func TestActivityGrid(t *testing.T) {
	pp, buf := newPrinter(t)
	pp.Activity(time.Monday,
		analytics.Point{Date: "2026-10-13", Value: 0},
		analytics.Point{Date: "2026-10-14", Value: 2},
	)
	lines := strings.Split(buf.String(), "\n")
	if strings.TrimSpace(lines[0]) != "October" {
		t.Fatalf("month header = %q", lines[0])
	}
	if lines[1] != "Mo Tu We Th Fr Sa Su " {
		t.Fatalf("weekday header = %q", lines[1])
	}
	if lines[2] != strings.Repeat(" ", 9)+" 1  2  3  4 " {
		t.Fatalf("first week = %q", lines[2])
	}
	if lines[3] != " 5  6  7  8  9 10 11 " {
		t.Fatalf("second week = %q", lines[3])
	}
}

func TestDaysIn(t *testing.T) {
	if got := DaysIn(time.Date(2028, time.February, 10, 0, 0, 0, 0, time.Local)); got != 29 {
		t.Fatalf("DaysIn(Feb 2028) = %d", got)
	}
	if got := StartDay(time.Date(2026, time.October, 20, 0, 0, 0, 0, time.Local)); got != time.Thursday {
		t.Fatalf("StartDay(Oct 2026) = %s", got)
	}
}

func TestTranscriptWrapsBodies(t *testing.T) {
	pp, buf := newPrinter(t)
	tr := Transcript{PrettyPrint: pp, Bot: "Chinni", Wrap: 10}
	tr.Message(record.ChatMessage{Role: record.RoleBot, Text: "hello there friend", TS: "10:30"})
	want := "Chinni 10:30\n  hello\n  there\n  friend\n\n"
	if got := buf.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
