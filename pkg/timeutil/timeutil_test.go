package timeutil

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 15, 4, 5, 0, time.Local)
}

func TestISOUsesCalendarFields(t *testing.T) {
	if got := ISO(day(2026, time.January, 5)); got != "2026-01-05" {
		t.Fatalf("expected 2026-01-05, got %s", got)
	}
}

func TestParseISORejectsInvalid(t *testing.T) {
	for _, in := range []string{"", "2026-1-5", "2026-02-31", "tomorrow", "2026-13-01"} {
		if _, ok := ParseISO(in); ok {
			t.Fatalf("expected %q to be invalid", in)
		}
	}
	if _, ok := ParseISO(" 2026-02-28 "); !ok {
		t.Fatalf("expected padded ISO day to parse")
	}
}

func TestParseLooseFormats(t *testing.T) {
	cases := map[string]string{
		"2026-03-04":           "2026-03-04",
		"03/04/2026":           "2026-03-04",
		"2026-03-04T10:00:00Z": ISO(time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC).In(time.Local)),
		"garbage":              "",
	}
	for in, want := range cases {
		if got := LooseISO(in); got != want {
			t.Fatalf("LooseISO(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAddDaysCrossesMonth(t *testing.T) {
	if got := AddDays("2026-01-31", 1); got != "2026-02-01" {
		t.Fatalf("expected 2026-02-01, got %s", got)
	}
	if got := AddDays("nope", 1); got != "" {
		t.Fatalf("expected invalid input to yield empty, got %q", got)
	}
}

func TestStartOfWeekMonday(t *testing.T) {
	// 2026-10-14 is a Wednesday.
	got := ISO(StartOfWeek(day(2026, time.October, 14), time.Monday))
	if got != "2026-10-12" {
		t.Fatalf("expected 2026-10-12, got %s", got)
	}
	got = ISO(StartOfWeek(day(2026, time.October, 18), time.Monday))
	if got != "2026-10-12" {
		t.Fatalf("expected Sunday to roll back to 2026-10-12, got %s", got)
	}
	got = ISO(StartOfWeek(day(2026, time.October, 14), time.Sunday))
	if got != "2026-10-11" {
		t.Fatalf("expected 2026-10-11 for sunday start, got %s", got)
	}
}

func TestInRangeInclusive(t *testing.T) {
	if !InRange("2026-10-12", "2026-10-12", "2026-10-14") {
		t.Fatalf("expected start bound to be inclusive")
	}
	if !InRange("2026-10-14", "2026-10-12", "2026-10-14") {
		t.Fatalf("expected end bound to be inclusive")
	}
	if InRange("2026-10-11", "2026-10-12", "2026-10-14") {
		t.Fatalf("expected day before start to be excluded")
	}
	if InRange("bogus", "2026-10-12", "2026-10-14") {
		t.Fatalf("expected invalid day to be excluded")
	}
}

func TestTimeframePartitioning(t *testing.T) {
	now := day(2026, time.October, 14)
	sevenAgo := AddDays(ISO(now), -7)

	ws, we := Week.Range(now, time.Monday)
	if InRange(sevenAgo, ws, we) {
		t.Fatalf("%s should fall before week start %s", sevenAgo, ws)
	}
	ms, me := Month.Range(now, time.Monday)
	if !InRange(sevenAgo, ms, me) {
		t.Fatalf("%s should be inside month %s..%s", sevenAgo, ms, me)
	}
	ts, te := Total.Range(now, time.Monday)
	if ts != Epoch || !InRange(sevenAgo, ts, te) {
		t.Fatalf("total range should start at epoch and include %s", sevenAgo)
	}
	ds, de := Today.Range(now, time.Monday)
	if ds != de || ds != "2026-10-14" {
		t.Fatalf("unexpected today range %s..%s", ds, de)
	}
}

func TestDetectTimeframe(t *testing.T) {
	cases := map[string]Timeframe{
		"my profit this month":    Month,
		"my expenses":             Today,
		"earnings this week":      Week,
		"total expenses":          Total,
		"lifetime earnings month": Total,
	}
	for in, want := range cases {
		if got := DetectTimeframe(in); got != want {
			t.Fatalf("DetectTimeframe(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestParseWindow(t *testing.T) {
	days, label, err := ParseWindow("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 30 || label != "4w2d" {
		t.Fatalf("expected 30 days (4w2d), got %d (%s)", days, label)
	}
	days, _, err = ParseWindow("2w3d")
	if err != nil || days != 17 {
		t.Fatalf("expected 17 days, got %d (%v)", days, err)
	}
	if _, _, err := ParseWindow("3h"); err == nil {
		t.Fatalf("expected hour unit to be rejected")
	}
}

func TestParseWeekday(t *testing.T) {
	if ParseWeekday("sun") != time.Sunday || ParseWeekday("") != time.Monday {
		t.Fatalf("unexpected weekday parsing")
	}
}
