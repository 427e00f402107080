package commands

import (
	"errors"
	"fmt"
	"strings"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/commands/options"
)

func addHabit(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "habit",
		Aliases: []string{"habits"},
		Short:   "Track daily habits",
	}

	addHabitAdd(cmd)
	addHabitList(cmd)
	addHabitToggle(cmd)
	addHabitRemove(cmd)
	topLevel.AddCommand(cmd)
}

func addHabitAdd(parent *cobra.Command) {
	var title string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a habit",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a habit")
			}
			title = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			h, err := e.Stores.Habits.Add(cmdContext(cmd), title)
			if err != nil {
				return finish(cmd, err)
			}
			if output.JSON {
				return options.PrintJSON(cmd.OutOrStdout(), h)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added habit: %s\n", h.Title)
			return nil
		},
	}

	base.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addHabitList(parent *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List habits with streaks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			habits, err := e.Stores.Habits.List(cmdContext(cmd))
			if err != nil {
				return finish(cmd, err)
			}
			today := e.Analytics.Today()
			if output.JSON {
				type habitView struct {
					ID     string   `json:"id"`
					Title  string   `json:"title"`
					Days   []string `json:"completions"`
					Streak int      `json:"streak"`
				}
				views := make([]habitView, 0, len(habits))
				for _, h := range habits {
					views = append(views, habitView{ID: h.ID, Title: h.Title, Days: h.Completions, Streak: app.Streak(h, today)})
				}
				return options.PrintJSON(cmd.OutOrStdout(), views)
			}
			pp := e.printer(cmd, io.ShowID)
			pp.TitleWithCount("Habits", len(habits), "habit")
			pp.Habits(today, habits...)
			return nil
		},
	}

	options.AddShowIDArgs(cmd, io)
	base.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addHabitToggle(parent *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "toggle <id>",
		Aliases: []string{"done"},
		Short:   "Mark a habit done today, or undo it",
		Args:    options.IDArg(io),
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			h, err := e.Stores.Habits.ToggleToday(cmdContext(cmd), io.ID)
			if err != nil {
				return finish(cmd, err)
			}
			if output.JSON {
				return options.PrintJSON(cmd.OutOrStdout(), h)
			}
			e.printer(cmd, false).Habits(e.Analytics.Today(), h)
			return nil
		},
	}

	base.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addHabitRemove(parent *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a habit",
		Args:    options.IDArg(io),
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()
			return finish(cmd, e.Stores.Habits.Remove(cmdContext(cmd), io.ID))
		},
	}

	base.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}
