package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tableflip.dev/taskflow/pkg/chat"
	"tableflip.dev/taskflow/pkg/commands/options"
	"tableflip.dev/taskflow/pkg/events"
	"tableflip.dev/taskflow/pkg/intent"
	"tableflip.dev/taskflow/pkg/printers"
	"tableflip.dev/taskflow/pkg/store"
)

// pageCommands is the CLI stand-in for each page the assistant can open.
var pageCommands = map[intent.Page]string{
	intent.PageHome:      "taskflow analytics",
	intent.PageCalendar:  "taskflow reminder list",
	intent.PageNotes:     "taskflow note list",
	intent.PageWorkHours: "taskflow work list",
	intent.PageGoals:     "taskflow goal list",
	intent.PageHabits:    "taskflow habit list",
	intent.PageFocus:     "taskflow focus record",
	intent.PageAnalytics: "taskflow analytics",
}

func interactive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func addChat(topLevel *cobra.Command) {
	on := &options.OnOptions{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the assistant",
		Long: `Chat keeps a conversation with the assistant, restored on the next run.

Lines starting with a colon are commands:
  :date YYYY-MM-DD  day that reminders without a date go to
  :clear            start the conversation over
  :quit             leave`,
		Example: `
taskflow chat
taskflow chat --on 2026-10-20
echo "what's my plan today" | taskflow chat
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			day, err := on.GetOn()
			if err != nil {
				return err
			}

			c, cancel := context.WithCancel(cmdContext(cmd))
			defer cancel()
			if w, ok := e.KV.(store.Watcher); ok {
				if err := w.Watch(c, e.Bus, e.Log); err != nil {
					e.Log.Warn().Err(err).Msg("not watching for changes from other sessions")
				}
			}

			out := cmd.OutOrStdout()
			a := e.Assistant()
			tr := printers.Transcript{
				PrettyPrint: e.printer(cmd, false),
				Bot:         a.BotName,
				User:        e.User.DisplayName(),
				Wrap:        options.Width(out, printers.DefaultWrap),
			}
			if tr.Bot == "" {
				tr.Bot = "Chinni"
			}
			hint := color.New(color.Faint, color.Italic)

			showPage := func(p intent.Page) {
				if see, ok := pageCommands[p]; ok {
					_, _ = hint.Fprintf(out, "  (see: %s)\n", see)
				}
			}
			tty := interactive()
			deps := chat.Deps{
				Store:     e.Store,
				Assistant: a,
				Clock:     e.Clock,
				IDs:       e.IDs,
				Log:       e.Log,
			}
			if tty {
				deps.Navigate = showPage
			}
			sess, err := chat.Open(deps)
			if err != nil {
				return err
			}
			defer sess.Close()
			if day != "" {
				sess.SetDefaultDate(day)
			}

			if tty {
				tr.Messages(sess.Messages()...)
			}
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				if tty {
					_, _ = fmt.Fprint(out, "> ")
				}
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if strings.HasPrefix(line, ":") {
					done, err := chatCommand(line, sess, e.Bus, tr)
					if err != nil {
						_, _ = color.New(color.FgRed).Fprintln(out, err.Error())
					}
					if done {
						return nil
					}
					continue
				}

				before := len(sess.Messages())
				reply, err := sess.Submit(c, line)
				if err != nil {
					return err
				}
				if msgs := sess.Messages(); len(msgs) > before {
					tr.Message(msgs[len(msgs)-1])
				} else {
					_, _ = fmt.Fprintln(out, tr.Body(reply.Text))
				}
				if !tty && reply.Navigate != "" {
					showPage(reply.Navigate)
				}
				(&printers.PrettyPrint{Out: cmd.ErrOrStderr()}).Warnings(reply.Warnings...)
			}
			return scanner.Err()
		},
	}

	options.AddOnArgs(cmd, on)
	topLevel.AddCommand(cmd)
}

// chatCommand runs one colon command. done ends the session.
func chatCommand(line string, sess *chat.Session, bus *events.Bus, tr printers.Transcript) (done bool, err error) {
	name, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
	switch strings.ToLower(name) {
	case "q", "quit", "exit":
		return true, nil
	case "clear":
		if err := sess.Clear(); err != nil {
			return false, err
		}
		tr.Messages(sess.Messages()...)
		return false, nil
	case "date":
		arg = strings.TrimSpace(arg)
		if !sess.SetDefaultDate(arg) {
			return false, fmt.Errorf("%q is not a YYYY-MM-DD day", arg)
		}
		bus.Publish(events.Event{Topic: events.TopicCalendar, Value: arg})
		_, _ = fmt.Fprintf(tr.Out, "Reminders without a date now go to %s.\n", arg)
		return false, nil
	default:
		return false, fmt.Errorf("unknown command :%s (try :date, :clear or :quit)", name)
	}
}
