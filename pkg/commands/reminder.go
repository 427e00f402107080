package commands

import (
	"errors"
	"fmt"
	"strings"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/commands/options"
	"tableflip.dev/taskflow/pkg/intent"
	"tableflip.dev/taskflow/pkg/record"
)

func addReminder(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "reminder",
		Aliases: []string{"reminders", "remind"},
		Short:   "Manage calendar reminders",
	}

	addReminderAdd(cmd)
	addReminderList(cmd)
	addReminderDone(cmd)
	addReminderRemove(cmd)
	topLevel.AddCommand(cmd)
}

func addReminderAdd(parent *cobra.Command) {
	on := &options.OnOptions{}
	var (
		text string
		at   string
		kind string
	)

	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a reminder",
		Long:  "Add a reminder. A time (17:30, 5pm) or day (tomorrow) in the text is used when --at or --on is not given.",
		Example: `
taskflow reminder add call mom --on 2026-10-20 --at 18:30
taskflow reminder add tomorrow 5pm dentist
taskflow reminder add Ana turns 30 --type birthday --on 2026-11-02
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires reminder text")
			}
			text = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			day, err := on.GetOn()
			if err != nil {
				return finish(cmd, err)
			}
			parsed := intent.ParseReminder(text, intent.Defaults{Today: e.Analytics.Today(), DefaultDate: day})
			in := app.NewReminder{
				Text: parsed.Text,
				Date: parsed.Date,
				Time: parsed.Time,
				Type: record.ParseReminderType(kind),
			}
			if in.Text == "" {
				in.Text = text
			}
			if at != "" {
				hhmm, _, ok := intent.ParseTime(at)
				if !ok {
					return finish(cmd, fmt.Errorf("--at: %q is not a time", at))
				}
				in.Time = hhmm
			}
			res, err := e.Stores.Reminders.Add(cmdContext(cmd), in)
			if err != nil {
				return finish(cmd, err)
			}
			if output.JSON {
				return options.PrintJSON(cmd.OutOrStdout(), res.Reminder)
			}
			r := res.Reminder
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added reminder for %s %s: %s\n", r.Date, r.Time, r.Text)
			return finish(cmd, nil, res.Warnings...)
		},
	}

	options.AddOnArgs(cmd, on)
	cmd.Flags().StringVar(&at, "at", "", `Time of day, example: --at 18:30 or --at 6pm.`)
	cmd.Flags().StringVar(&kind, "type", string(record.ReminderPlain), "One of reminder, birthday or event.")
	base.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addReminderList(parent *cobra.Command) {
	on := &options.OnOptions{}
	io := &options.IDOptions{}
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reminders",
		Long:  "List today's reminders, another day's with --on, or every reminder with --all. Newest first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			day, err := on.GetOn()
			if err != nil {
				return finish(cmd, err)
			}
			if day == "" {
				day = e.Analytics.Today()
			}
			rems := e.Analytics.Reminders()
			title := "Reminders"
			if !all {
				rems = e.Analytics.RemindersBetween(day, day)
				title = "Reminders · " + day
			}
			if output.JSON {
				return options.PrintJSON(cmd.OutOrStdout(), rems)
			}
			pp := e.printer(cmd, io.ShowID)
			pp.TitleWithCount(title, len(rems), "reminder")
			pp.Reminders(rems...)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "List every reminder regardless of date.")
	options.AddOnArgs(cmd, on)
	options.AddShowIDArgs(cmd, io)
	base.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addReminderDone(parent *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "done <id>",
		Aliases: []string{"toggle", "handled"},
		Short:   "Toggle a reminder between handled and pending",
		Args:    options.IDArg(io),
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			r, err := e.Stores.Reminders.Toggle(cmdContext(cmd), io.ID)
			if err != nil {
				return finish(cmd, err)
			}
			if output.JSON {
				return options.PrintJSON(cmd.OutOrStdout(), r)
			}
			e.printer(cmd, false).Reminders(r)
			return nil
		},
	}

	base.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addReminderRemove(parent *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a reminder from every list",
		Args:    options.IDArg(io),
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()
			return finish(cmd, e.Stores.Reminders.Remove(cmdContext(cmd), io.ID))
		},
	}

	base.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}
