package timeutil

import (
	"strings"
	"time"
)

// Timeframe scopes work and money summaries.
type Timeframe string

const (
	Today Timeframe = "today"
	Week  Timeframe = "week"
	Month Timeframe = "month"
	Total Timeframe = "total"
)

// DetectTimeframe picks a timeframe from normalized text. Broader scopes win
// when several are mentioned; no mention means today.
func DetectTimeframe(norm string) Timeframe {
	switch {
	case containsAny(norm, "all time", "overall", "total", "lifetime"):
		return Total
	case strings.Contains(norm, "month"):
		return Month
	case strings.Contains(norm, "week"):
		return Week
	default:
		return Today
	}
}

// ParseTimeframe accepts a flag value, defaulting to Today.
func ParseTimeframe(s string) Timeframe {
	switch tf := Timeframe(strings.ToLower(strings.TrimSpace(s))); tf {
	case Week, Month, Total:
		return tf
	case "all", "alltime", "all-time":
		return Total
	default:
		return Today
	}
}

// Range resolves tf to inclusive ISO bounds ending on now's day.
func (tf Timeframe) Range(now time.Time, first time.Weekday) (start, end string) {
	end = ISO(now)
	switch tf {
	case Week:
		return ISO(StartOfWeek(now, first)), end
	case Month:
		return ISO(StartOfMonth(now)), end
	case Total:
		return Epoch, end
	default:
		return end, end
	}
}

// Label is the heading used in summaries.
func (tf Timeframe) Label() string {
	switch tf {
	case Week:
		return "This week"
	case Month:
		return "This month"
	case Total:
		return "Total"
	default:
		return "Today"
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
