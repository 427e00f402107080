package printers

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/taskflow/pkg/record"
)

// DefaultWrap is the transcript width when Wrap is unset.
const DefaultWrap = 72

// Transcript prints chat messages.
type Transcript struct {
	*PrettyPrint
	Bot  string
	User string
	// Wrap is the body width.
	Wrap int
}

func (t Transcript) wrap() int {
	if t.Wrap > 0 {
		return t.Wrap
	}
	return DefaultWrap
}

func (t Transcript) speaker(r record.Role) (string, *color.Color) {
	if r == record.RoleUser {
		name := t.User
		if name == "" {
			name = "you"
		}
		return name, color.New(color.FgCyan, color.Bold)
	}
	name := t.Bot
	if name == "" {
		name = "bot"
	}
	return name, color.New(color.FgMagenta, color.Bold)
}

// Body wraps and indents a message body.
func (t Transcript) Body(text string) string {
	return indent.String(wordwrap.String(text, t.wrap()), 2)
}

func (t Transcript) Message(m record.ChatMessage) {
	name, c := t.speaker(m.Role)
	_, _ = c.Fprint(t.out(), name)
	_, _ = color.New(color.Faint).Fprintf(t.out(), " %s\n", m.TS)
	_, _ = fmt.Fprintln(t.out(), strings.TrimRight(t.Body(m.Text), " "))
	t.NewLine()
}

func (t Transcript) Messages(msgs ...record.ChatMessage) {
	for _, m := range msgs {
		t.Message(m)
	}
}
