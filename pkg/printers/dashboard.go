package printers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/taskflow/pkg/analytics"
	"tableflip.dev/taskflow/pkg/assistant"
)

func pct(r analytics.Ratio) string {
	return fmt.Sprintf("%d/%d (%d%%)", r.Done, r.Total, r.Pct)
}

func bar(v, max float64, cells int) string {
	if max <= 0 || v <= 0 {
		return ""
	}
	n := int(v / max * float64(cells))
	if n < 1 {
		n = 1
	}
	return strings.Repeat("█", n)
}

// Dashboard prints the analytics view.
func (pp *PrettyPrint) Dashboard(d analytics.Dashboard, window string, first time.Weekday) {
	b := color.New(color.Bold)

	pp.Title("Overview · " + d.Today)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(b.Sprint("Todos"), pct(d.Todos))
	tbl.AddRow(b.Sprint("Reminders"), pct(d.Reminders))
	tbl.AddRow(b.Sprint("Hours this month"), fmt.Sprintf("%.2fh", d.WorkThisMonth.Hours))
	tbl.AddRow(b.Sprint("Earnings this month"), assistant.Money(d.WorkThisMonth.Earnings))
	tbl.AddRow(b.Sprint("Spent this month"), assistant.Money(d.WorkThisMonth.Spent))
	tbl.AddRow(b.Sprint("Net this month"), assistant.Money(d.WorkThisMonth.Net))
	tbl.AddRow(b.Sprint("Goals"), fmt.Sprintf("%d active, %d completed, %d%% average", d.Goals.Active, d.Goals.Completed, d.Goals.AvgProgress))
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()

	pp.Title("Completed todos · last " + window)
	pp.Activity(first, d.CompletionSeries...)

	pp.Title("Work hours · last " + window)
	var most float64
	for _, p := range d.WorkHoursSeries {
		most = max(most, p.Value)
	}
	hours := uitable.New()
	hours.Separator = "  "
	for _, p := range d.WorkHoursSeries {
		if p.Value > 0 {
			hours.AddRow(p.Date, fmt.Sprintf("%.2fh", p.Value), bar(p.Value, most, 30))
		}
	}
	if len(hours.Rows) == 0 {
		pp.none()
	} else {
		hours.RightAlign(1)
		_, _ = fmt.Fprintln(pp.out(), hours)
		pp.NewLine()
	}

	pp.Title("Weekly earnings · last 4 weeks")
	var top float64
	for _, v := range d.WeeklyEarnings {
		top = max(top, v)
	}
	weeks := uitable.New()
	weeks.Separator = "  "
	for i, v := range d.WeeklyEarnings {
		weeks.AddRow("W"+strconv.Itoa(i+1), assistant.Money(v), bar(v, top, 30))
	}
	weeks.RightAlign(1)
	_, _ = fmt.Fprintln(pp.out(), weeks)
	pp.NewLine()

	pp.Title("Goals by category")
	cats := uitable.New()
	cats.Separator = "  "
	cats.AddRow(b.Sprint("Category"), b.Sprint("Active"), b.Sprint("Completed"))
	for _, c := range d.GoalsByCategory {
		cats.AddRow(c.Category, c.Active, c.Completed)
	}
	cats.RightAlign(1)
	cats.RightAlign(2)
	_, _ = fmt.Fprintln(pp.out(), cats)
	pp.NewLine()
}
