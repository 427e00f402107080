package commands

import (
	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/taskflow/pkg/commands/options"
)

func addAnalytics(topLevel *cobra.Command) {
	wo := &options.WindowOptions{}

	cmd := &cobra.Command{
		Use:     "analytics",
		Aliases: []string{"dashboard", "stats"},
		Short:   "Show completion rates, work, goals and trends",
		Long: `Analytics shows the dashboard: todo and reminder completion, this month's hours,
earnings, spending and net, goal progress, per-day series over the window,
the last four weeks of earnings and goals by category.`,
		Example: `
taskflow analytics
taskflow analytics --last 2w
taskflow analytics --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			days, label, err := wo.Days()
			if err != nil {
				return err
			}
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			d := e.Analytics.Dashboard(days)
			if output.JSON {
				return options.PrintJSON(cmd.OutOrStdout(), d)
			}
			e.printer(cmd, false).Dashboard(d, label, e.Settings.FirstWeekday())
			return nil
		},
	}

	options.AddWindowArgs(cmd, wo)
	base.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
