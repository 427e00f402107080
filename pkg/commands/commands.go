package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
)

var (
	output = &base.OutputOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "taskflow",
		Short: base.Wrap80("Todos, reminders, notes, goals, habits and work hours, with a chat assistant that routes plain sentences to them."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addChat(topLevel)
	addAsk(topLevel)
	addTodo(topLevel)
	addReminder(topLevel)
	addNote(topLevel)
	addGoal(topLevel)
	addHabit(topLevel)
	addWork(topLevel)
	addFocus(topLevel)
	addAnalytics(topLevel)
	addExport(topLevel)
	addUser(topLevel)
	addInfo(topLevel)
	addMCP(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}
