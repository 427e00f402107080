package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/commands/options"
	"tableflip.dev/taskflow/pkg/record"
)

func addGoal(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "goal",
		Aliases: []string{"goals"},
		Short:   "Manage goals",
	}

	addGoalAdd(cmd)
	addGoalList(cmd)
	addGoalProgress(cmd)
	addGoalRemove(cmd)
	topLevel.AddCommand(cmd)
}

func addGoalAdd(parent *cobra.Command) {
	on := &options.OnOptions{}
	in := app.NewGoal{}

	categories := make([]string, 0, len(record.GoalCategories))
	for _, c := range record.GoalCategories {
		categories = append(categories, string(c))
	}

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a goal",
		Example: `
taskflow goal add Run a 10k --target 10 --unit km --category health --on 2026-12-31
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a goal title")
			}
			in.Title = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			if in.TargetDate, err = on.GetOn(); err != nil {
				return finish(cmd, err)
			}
			g, err := e.Stores.Goals.Add(cmdContext(cmd), in)
			if err != nil {
				return finish(cmd, err)
			}
			if output.JSON {
				return options.PrintJSON(cmd.OutOrStdout(), g)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added %s goal: %s\n", g.Category, g.Title)
			return nil
		},
	}

	cmd.Flags().Float64Var(&in.TargetValue, "target", 1, "Target value.")
	cmd.Flags().StringVar(&in.Unit, "unit", "", `Unit of the target (default "tasks").`)
	cmd.Flags().StringVar(&in.Category, "category", "", "One of "+strings.Join(categories, ", ")+".")
	cmd.Flags().StringVar(&in.Desc, "desc", "", "Description.")
	options.AddOnArgs(cmd, on)
	base.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addGoalList(parent *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List goals with progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			goals := e.Analytics.Goals()
			if output.JSON {
				return options.PrintJSON(cmd.OutOrStdout(), goals)
			}
			pp := e.printer(cmd, io.ShowID)
			pp.TitleWithCount("Goals", len(goals), "goal")
			pp.Goals(goals...)
			return nil
		},
	}

	options.AddShowIDArgs(cmd, io)
	base.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addGoalProgress(parent *cobra.Command) {
	var (
		id      string
		current float64
	)

	cmd := &cobra.Command{
		Use:   "progress <id> <current>",
		Short: "Set how far along a goal is",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("requires a goal id and the current value")
			}
			id = args[0]
			v, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("current value %q is not a number", args[1])
			}
			current = v
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			g, err := e.Stores.Goals.SetProgress(cmdContext(cmd), id, current)
			if err != nil {
				return finish(cmd, err)
			}
			if output.JSON {
				return options.PrintJSON(cmd.OutOrStdout(), g)
			}
			status := "in progress"
			if g.Completed {
				status = "completed"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %v/%v %s, %s\n", g.Title, g.Current, g.TargetValue, g.Unit, status)
			return nil
		},
	}

	base.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addGoalRemove(parent *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a goal",
		Args:    options.IDArg(io),
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()
			return finish(cmd, e.Stores.Goals.Remove(cmdContext(cmd), io.ID))
		},
	}

	base.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}
