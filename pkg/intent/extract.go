package intent

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"tableflip.dev/taskflow/pkg/record"
	"tableflip.dev/taskflow/pkg/timeutil"
)

var (
	isoDateRe = regexp.MustCompile(`\b(20\d{2})-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])\b`)
	clock24Re = regexp.MustCompile(`\b([01]?\d|2[0-3]):([0-5]\d)\b`)
	clock12Re = regexp.MustCompile(`(?i)\b(1[0-2]|0?\d)(?::([0-5]\d))?\s*(am|pm)\b`)

	todoPrefixRe = regexp.MustCompile(`(?i)^(add|create)\s+(todo|task)\s*`)
	notePrefixRe = regexp.MustCompile(`(?i)^(create|add)\s+note\s*`)
)

// UntitledNote titles a note whose title part is blank.
const UntitledNote = "Untitled"

// reminderCommands are stripped from reminder text, longest first.
var reminderCommands = []string{
	"set reminder", "add reminder", "create reminder", "remind me", "reminder",
	"at", "today", "tomorrow",
}

// ParseTime finds a time of day in s. A 24h HH:MM wins over a 12h H[:MM]am/pm;
// the first match of each form counts. token is the matched text.
func ParseTime(s string) (hhmm, token string, ok bool) {
	if m := clock24Re.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		return fmt.Sprintf("%02d:%s", h, m[2]), m[0], true
	}
	if m := clock12Re.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		mm := 0
		if m[2] != "" {
			mm, _ = strconv.Atoi(m[2])
		}
		switch pm := strings.EqualFold(m[3], "pm"); {
		case pm && h != 12:
			h += 12
		case !pm && h == 12:
			h = 0
		}
		return fmt.Sprintf("%02d:%02d", h, mm), m[0], true
	}
	return "", "", false
}

// withMeridiem extends a matched time token over an am/pm that follows it,
// so "5:30 pm" leaves no stray "pm" behind.
func withMeridiem(s, tok string) string {
	if tok == "" {
		return tok
	}
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(tok) + `\s*(am|pm)\b`)
	if m := re.FindString(s); m != "" {
		return m
	}
	return tok
}

// ParseDate finds a day in s: an ISO literal, then "tomorrow", then "today".
// token is the ISO literal when one was found.
func ParseDate(s, today string) (iso, token string, ok bool) {
	if m := isoDateRe.FindString(s); m != "" && timeutil.ValidISO(m) {
		return m, m, true
	}
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "tomorrow"):
		return timeutil.AddDays(today, 1), "", true
	case strings.Contains(lower, "today"):
		return today, "", true
	}
	return "", "", false
}

// Strip removes every token from s, case-insensitively and on word
// boundaries, then collapses whitespace. Case of the rest is kept.
func Strip(s string, tokens ...string) string {
	for _, tok := range tokens {
		if tok = strings.TrimSpace(tok); tok == "" {
			continue
		}
		s = tokenPattern(tok).ReplaceAllString(s, " ")
	}
	return strings.Join(strings.Fields(s), " ")
}

func tokenPattern(tok string) *regexp.Regexp {
	pat := regexp.QuoteMeta(tok)
	if isWord(rune(tok[0])) {
		pat = `\b` + pat
	}
	if isWord(rune(tok[len(tok)-1])) {
		pat += `\b`
	}
	return regexp.MustCompile(`(?i)` + pat)
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// ParseReminder extracts a reminder from raw. The date falls back to
// d.DefaultDate when it is a valid day, then to today; the time to 09:00.
func ParseReminder(raw string, d Defaults) CreateReminder {
	today := d.today()
	date, dateTok, ok := ParseDate(raw, today)
	if !ok {
		date = today
		if timeutil.ValidISO(d.DefaultDate) {
			date = d.DefaultDate
		}
	}
	hhmm, timeTok, ok := ParseTime(raw)
	if !ok {
		hhmm = record.DefaultTime
	}
	tokens := append(append([]string{}, reminderCommands...), dateTok, withMeridiem(raw, timeTok))
	return CreateReminder{Date: date, Time: hhmm, Text: Strip(raw, tokens...)}
}

// ParseTodo extracts a todo from raw. Undated todos land on today.
func ParseTodo(raw string, d Defaults) CreateTodo {
	today := d.today()
	date, dateTok, ok := ParseDate(raw, today)
	if !ok {
		date = today
	}
	body := todoPrefixRe.ReplaceAllString(strings.TrimSpace(raw), "")
	return CreateTodo{Date: date, Text: Strip(body, "today", "tomorrow", dateTok)}
}

// ParseNote splits raw into a title and content. "title | content" and
// "title: content" name the title; otherwise the title is the first
// runes of the content as notes derive it.
func ParseNote(raw string) CreateNote {
	body := strings.TrimSpace(notePrefixRe.ReplaceAllString(strings.TrimSpace(raw), ""))
	if body == "" {
		return CreateNote{}
	}
	if title, content, ok := strings.Cut(body, "|"); ok {
		return CreateNote{Title: titleOr(title), Content: strings.TrimSpace(content)}
	}
	if i := strings.Index(body, ":"); i > 0 {
		return CreateNote{Title: titleOr(body[:i]), Content: strings.TrimSpace(body[i+1:])}
	}
	return CreateNote{Title: record.DeriveNoteTitle(body), Content: body}
}

func titleOr(s string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return UntitledNote
}
