package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/assistant"
	"tableflip.dev/taskflow/pkg/commands/options"
	"tableflip.dev/taskflow/pkg/record"
)

func addWork(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "work",
		Short: "Log work hours and expenses",
	}

	addWorkSession(cmd)
	addWorkExpense(cmd)
	addWorkList(cmd)
	addWorkRemove(cmd)
	topLevel.AddCommand(cmd)
}

func addWorkSession(parent *cobra.Command) {
	on := &options.OnOptions{}
	in := app.NewSession{}

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Log a block of paid work",
		Long:  "Log a block of paid work. An end before the start runs past midnight.",
		Example: `
taskflow work session --start 09:00 --end 17:30 --rate 25
taskflow work session --on 2026-10-13 --start 22:00 --end 01:30 --rate 30 --notes "release night"
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			if in.Date, err = on.GetOn(); err != nil {
				return finish(cmd, err)
			}
			ws, err := e.Stores.Work.AddSession(cmdContext(cmd), in)
			if err != nil {
				return finish(cmd, err)
			}
			if output.JSON {
				return options.PrintJSON(cmd.OutOrStdout(), ws)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged %.2fh on %s, earned %s\n", ws.Hours, ws.Date, assistant.Money(ws.Earnings))
			return nil
		},
	}

	options.AddOnArgs(cmd, on)
	cmd.Flags().StringVar(&in.Start, "start", "", "Start time, HH:MM.")
	cmd.Flags().StringVar(&in.End, "end", "", "End time, HH:MM.")
	cmd.Flags().Float64Var(&in.Rate, "rate", 0, "Hourly rate.")
	cmd.Flags().StringVar(&in.Notes, "notes", "", "Notes.")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	base.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addWorkExpense(parent *cobra.Command) {
	on := &options.OnOptions{}
	in := app.NewExpense{}

	types := make([]string, 0, len(record.ExpenseTypes))
	for _, t := range record.ExpenseTypes {
		types = append(types, string(t))
	}

	cmd := &cobra.Command{
		Use:   "expense <amount> [name]",
		Short: "Log money spent",
		Example: `
taskflow work expense 12.50 lunch --type food --where cafe
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires an amount")
			}
			v, err := strconv.ParseFloat(strings.TrimPrefix(args[0], "$"), 64)
			if err != nil {
				return fmt.Errorf("amount %q is not a number", args[0])
			}
			in.Amount = v
			in.Name = strings.Join(args[1:], " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			if in.Date, err = on.GetOn(); err != nil {
				return finish(cmd, err)
			}
			x, err := e.Stores.Work.AddExpense(cmdContext(cmd), in)
			if err != nil {
				return finish(cmd, err)
			}
			if output.JSON {
				return options.PrintJSON(cmd.OutOrStdout(), x)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged %s %s (%s) on %s\n", assistant.Money(x.Amount), x.Name, x.Type, x.Date)
			return nil
		},
	}

	options.AddOnArgs(cmd, on)
	cmd.Flags().StringVar(&in.Type, "type", "", "One of "+strings.Join(types, ", ")+".")
	cmd.Flags().StringVar(&in.Where, "where", "", "Where the money went.")
	base.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addWorkList(parent *cobra.Command) {
	io := &options.IDOptions{}
	var (
		query    string
		expenses bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List work sessions, or expenses with --expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			pp := e.printer(cmd, io.ShowID)
			if expenses {
				xs, err := e.Stores.Work.Expenses(cmdContext(cmd), query)
				if err != nil {
					return finish(cmd, err)
				}
				if output.JSON {
					return options.PrintJSON(cmd.OutOrStdout(), xs)
				}
				pp.TitleWithCount("Expenses", len(xs), "expense")
				pp.Expenses(xs...)
				return nil
			}
			sessions, err := e.Stores.Work.Sessions(cmdContext(cmd), query)
			if err != nil {
				return finish(cmd, err)
			}
			if output.JSON {
				return options.PrintJSON(cmd.OutOrStdout(), sessions)
			}
			pp.TitleWithCount("Work sessions", len(sessions), "session")
			pp.Sessions(sessions...)
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Only records matching this text.")
	cmd.Flags().BoolVar(&expenses, "expenses", false, "List expenses instead of sessions.")
	options.AddShowIDArgs(cmd, io)
	base.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addWorkRemove(parent *cobra.Command) {
	io := &options.IDOptions{}
	var expense bool

	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a work session, or an expense with --expense",
		Args:    options.IDArg(io),
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()
			if expense {
				return finish(cmd, e.Stores.Work.DeleteExpense(cmdContext(cmd), io.ID))
			}
			return finish(cmd, e.Stores.Work.DeleteSession(cmdContext(cmd), io.ID))
		},
	}

	cmd.Flags().BoolVar(&expense, "expense", false, "The id is an expense.")
	base.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}
