package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/taskflow/pkg/timeutil"
)

// WindowOptions
type WindowOptions struct {
	Last string
}

func AddWindowArgs(cmd *cobra.Command, o *WindowOptions) {
	cmd.Flags().StringVar(&o.Last, "last", timeutil.DefaultWindow,
		"Days in the per-day series, for example 7d, 2w or 30d.")
}

// Days parses --last into a day count and its label.
func (o *WindowOptions) Days() (int, string, error) {
	return timeutil.ParseWindow(o.Last)
}
