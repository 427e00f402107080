package options

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/taskflow/pkg/timeutil"
)

// OnOptions
type OnOptions struct {
	OnString string
}

func AddOnArgs(cmd *cobra.Command, o *OnOptions) {
	cmd.Flags().StringVar(&o.OnString, "on", "",
		`Specify a date, example: --on="2026-02-28" or --on="2/28/2026".`)
}

// GetOn returns the day as YYYY-MM-DD, empty when the flag is unset.
func (o *OnOptions) GetOn() (string, error) {
	s := strings.TrimSpace(o.OnString)
	if s == "" {
		return "", nil
	}
	if iso := timeutil.LooseISO(s); iso != "" {
		return iso, nil
	}
	return "", fmt.Errorf("--on: %q is not a date", o.OnString)
}
