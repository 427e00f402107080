package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/taskflow/pkg/analytics"
	"tableflip.dev/taskflow/pkg/timeutil"
)

const width = len("11 12 13 14 15 16 17") // an example week

// Activity prints one month grid per month the series touches, with active
// days in bold.
func (pp *PrettyPrint) Activity(first time.Weekday, series ...analytics.Point) {
	if len(series) == 0 {
		return
	}
	byMonth := map[string][]int{}
	var months []time.Time
	for _, p := range series {
		t, ok := timeutil.ParseISO(p.Date)
		if !ok {
			continue
		}
		key := t.Format("2006-01")
		if _, seen := byMonth[key]; !seen {
			byMonth[key] = make([]int, DaysIn(t))
			months = append(months, time.Date(t.Year(), t.Month(), 1, 1, 0, 0, 0, time.Local))
		}
		if p.Value > 0 {
			byMonth[key][t.Day()-1]++
		}
	}
	for _, m := range months {
		pp.PrintMonthCount(m, first, byMonth[m.Format("2006-01")])
	}
}

func (pp *PrettyPrint) PrintMonthCount(then time.Time, first time.Weekday, count []int) {
	w := pp.out()
	d := StartDay(then)

	tf := color.New(color.FgWhite, color.Italic)

	m := then.Month().String()
	mid := (width - len(m)) / 2
	_, _ = tf.Fprintf(w, "%s%s%s\n", strings.Repeat(" ", mid), m, strings.Repeat(" ", width-mid-len(m)))

	hdr := color.New(color.Faint)
	for i := 0; i < 7; i++ {
		day := (first + time.Weekday(i)) % 7
		_, _ = hdr.Fprintf(w, "%2s ", day.String()[0:2])
	}
	_, _ = fmt.Fprint(w, "\n")

	// Pad out the start of the month.
	for i := first; i != d; i = (i + 1) % 7 {
		_, _ = fmt.Fprint(w, "   ")
	}

	l1 := color.New(color.Faint, color.FgWhite)
	l2 := color.New(color.Bold, color.FgHiWhite)

	last := (first + 6) % 7
	days := DaysIn(then)
	for i := 0; i < days; i++ {
		if i < len(count) && count[i] > 0 {
			_, _ = l2.Fprintf(w, "%2d ", i+1)
		} else {
			_, _ = l1.Fprintf(w, "%2d ", i+1)
		}

		if d == last && i < days-1 {
			_, _ = fmt.Fprint(w, "\n")
		}
		d = (d + 1) % 7
	}
	_, _ = fmt.Fprint(w, "\n\n")
}

func DaysIn(then time.Time) int {
	return time.Date(then.Year(), then.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func StartDay(then time.Time) time.Weekday {
	return time.Date(then.Year(), then.Month(), 1, 1, 0, 0, 0, time.UTC).Weekday()
}
