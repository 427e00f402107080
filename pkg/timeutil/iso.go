package timeutil

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// LayoutISO is the calendar day key used by every persisted bucket.
const LayoutISO = "2006-01-02"

// Epoch is the lower bound used for all-time ranges.
const Epoch = "1970-01-01"

var (
	isoPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	usPattern  = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	msPattern  = regexp.MustCompile(`^\d{10,}$`)
)

// ISO renders t as YYYY-MM-DD using its own calendar fields, no zone
// conversion.
func ISO(t time.Time) string {
	return t.Format(LayoutISO)
}

// Midnight truncates t to the start of its calendar day in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseISO parses a strict YYYY-MM-DD key in the local zone. The boolean is
// false for anything else, including impossible days like 2024-02-31.
func ParseISO(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if !isoPattern.MatchString(s) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(LayoutISO, s, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ValidISO reports whether s is a well formed day key.
func ValidISO(s string) bool {
	_, ok := ParseISO(s)
	return ok
}

// ParseLoose accepts the date encodings found in older buckets: ISO days,
// MM/DD/YYYY, RFC3339 timestamps and epoch milliseconds.
func ParseLoose(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, ok := ParseISO(s); ok {
		return t, true
	}
	if usPattern.MatchString(s) {
		if t, err := time.ParseInLocation("01/02/2006", s, time.Local); err == nil {
			return t, true
		}
		return time.Time{}, false
	}
	if msPattern.MatchString(s) {
		ms, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return time.Time{}, false
		}
		return time.UnixMilli(ms).In(time.Local), true
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.In(time.Local), true
		}
	}
	return time.Time{}, false
}

// LooseISO normalizes any ParseLoose input to a day key, or "" if invalid.
func LooseISO(s string) string {
	t, ok := ParseLoose(s)
	if !ok {
		return ""
	}
	return ISO(t)
}

// AddDays shifts an ISO day by n calendar days. Invalid input yields "".
func AddDays(iso string, n int) string {
	t, ok := ParseISO(iso)
	if !ok {
		return ""
	}
	return ISO(t.AddDate(0, 0, n))
}

// StartOfWeek returns midnight of the most recent day matching first.
func StartOfWeek(t time.Time, first time.Weekday) time.Time {
	day := Midnight(t)
	diff := (int(day.Weekday()) - int(first) + 7) % 7
	return day.AddDate(0, 0, -diff)
}

// StartOfMonth returns midnight of the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// InRange reports whether iso falls between start and end, both inclusive.
// Any invalid bound or value is treated as outside the range.
func InRange(iso, start, end string) bool {
	if !ValidISO(iso) || !ValidISO(start) || !ValidISO(end) {
		return false
	}
	return iso >= start && iso <= end
}

// ParseWeekday maps names like "monday" or "sun" to a weekday, falling back
// to Monday.
func ParseWeekday(s string) time.Weekday {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || (len(s) >= 3 && strings.HasPrefix(name, s)) {
			return d
		}
	}
	return time.Monday
}
