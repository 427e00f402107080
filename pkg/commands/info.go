package commands

import (
	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/taskflow/pkg/commands/options"
	"tableflip.dev/taskflow/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the store and the buckets kept in it.",
		Example: `
taskflow info
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			s := info.Info{
				Config:   e.Settings,
				KV:       e.KV,
				Identity: e.Store.Identity(),
				Out:      cmd.OutOrStdout(),
			}
			if output.JSON {
				buckets, err := s.Buckets(cmdContext(cmd))
				if err != nil {
					return output.HandleError(err)
				}
				return options.PrintJSON(cmd.OutOrStdout(), map[string]any{
					"path":     e.Settings.BasePath(),
					"backend":  e.Settings.Backend(),
					"identity": e.Store.Identity(),
					"buckets":  buckets,
				})
			}
			err = s.Do(cmdContext(cmd))
			return output.HandleError(err)
		},
	}

	base.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
