package commands

import (
	"fmt"
	"time"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/taskflow/pkg/commands/options"
)

func addFocus(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "focus",
		Aliases: []string{"pomodoro"},
		Short:   "Record focus blocks",
	}

	addFocusRecord(cmd)
	addFocusStats(cmd)
	topLevel.AddCommand(cmd)
}

func addFocusRecord(parent *cobra.Command) {
	var length time.Duration

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a completed focus block",
		Long:  "Record a completed focus block. It counts toward focus stats and shows up as an unpaid work session.",
		Example: `
taskflow focus record
taskflow focus record --length 50m
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			ws, stats, err := e.Stores.Work.RecordFocus(cmdContext(cmd), int(length.Minutes()))
			if err != nil {
				return finish(cmd, err)
			}
			if output.JSON {
				return options.PrintJSON(cmd.OutOrStdout(), map[string]any{"session": ws, "stats": stats})
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s of focus. %d blocks, %d minutes in total.\n",
				length, stats.TotalSessions, stats.TotalFocusMinutes)
			return nil
		},
	}

	cmd.Flags().DurationVar(&length, "length", 25*time.Minute, "Length of the block.")
	base.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addFocusStats(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show focus totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			stats, err := e.Stores.Work.Focus(cmdContext(cmd))
			if err != nil {
				return finish(cmd, err)
			}
			if output.JSON {
				return options.PrintJSON(cmd.OutOrStdout(), stats)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d focus blocks, %d minutes.\n", stats.TotalSessions, stats.TotalFocusMinutes)
			return nil
		},
	}

	base.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}
