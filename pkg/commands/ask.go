package commands

import (
	"errors"
	"fmt"
	"strings"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/taskflow/pkg/commands/options"
	"tableflip.dev/taskflow/pkg/intent"
)

func addAsk(topLevel *cobra.Command) {
	on := &options.OnOptions{}
	var text string

	cmd := &cobra.Command{
		Use:   "ask <message>",
		Short: "Ask the assistant one thing",
		Example: `
taskflow ask "what's my plan today"
taskflow ask remind me tomorrow 5pm call mom
taskflow ask how much did I earn this week --json
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a message")
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
			reply := e.Assistant().Ask(cmdContext(cmd), text, intent.Defaults{DefaultDate: day})
			if output.JSON {
				return options.PrintJSON(cmd.OutOrStdout(), map[string]any{
					"reply":    reply.Text,
					"navigate": reply.Navigate,
					"warnings": reply.Warnings,
				})
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), reply.Text)
			if c, ok := pageCommands[reply.Navigate]; ok {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "(see: %s)\n", c)
			}
			return finish(cmd, nil, reply.Warnings...)
		},
	}

	options.AddOnArgs(cmd, on)
	base.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
