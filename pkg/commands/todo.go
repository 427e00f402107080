package commands

import (
	"errors"
	"fmt"
	"strings"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/taskflow/pkg/commands/options"
)

func addTodo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "todo",
		Aliases: []string{"todos", "task"},
		Short:   "Manage todos",
	}

	addTodoAdd(cmd)
	addTodoList(cmd)
	addTodoDone(cmd)
	addTodoRemove(cmd)
	topLevel.AddCommand(cmd)
}

func addTodoAdd(parent *cobra.Command) {
	on := &options.OnOptions{}
	var text string

	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a todo",
		Example: `
taskflow todo add buy milk
taskflow todo add file taxes --on 2026-10-20
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a todo")
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
			res, err := e.Stores.Todos.Add(cmdContext(cmd), text, day)
			if err != nil {
				return finish(cmd, err)
			}
			if output.JSON {
				return options.PrintJSON(cmd.OutOrStdout(), res.Todo)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added todo for %s: %s\n", res.Todo.Date, res.Todo.Text)
			return finish(cmd, nil, res.Warnings...)
		},
	}

	options.AddOnArgs(cmd, on)
	base.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addTodoList(parent *cobra.Command) {
	on := &options.OnOptions{}
	io := &options.IDOptions{}
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List todos",
		Long:  "List today's todos, another day's with --on, or every todo in every list with --all.",
		Example: `
taskflow todo list
taskflow todo list --all --show-id
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
				return finish(cmd, err)
			}
			if day == "" {
				day = e.Analytics.Today()
			}
			todos := e.Analytics.Todos()
			title := "Todos"
			if !all {
				todos = e.Analytics.TodosBetween(day, day)
				title = "Todos · " + day
			}
			if output.JSON {
				return options.PrintJSON(cmd.OutOrStdout(), todos)
			}
			pp := e.printer(cmd, io.ShowID)
			pp.TitleWithCount(title, len(todos), "todo")
			pp.Todos(todos...)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "List every todo regardless of date.")
	options.AddOnArgs(cmd, on)
	options.AddShowIDArgs(cmd, io)
	base.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addTodoDone(parent *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "done <id>",
		Aliases: []string{"toggle", "complete"},
		Short:   "Toggle a todo between done and open",
		Args:    options.IDArg(io),
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			t, err := e.Stores.Todos.Toggle(cmdContext(cmd), io.ID)
			if err != nil {
				return finish(cmd, err)
			}
			if output.JSON {
				return options.PrintJSON(cmd.OutOrStdout(), t)
			}
			e.printer(cmd, false).Todos(t)
			return nil
		},
	}

	base.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addTodoRemove(parent *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a todo from every list",
		Args:    options.IDArg(io),
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()
			return finish(cmd, e.Stores.Todos.Remove(cmdContext(cmd), io.ID))
		},
	}

	base.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}
