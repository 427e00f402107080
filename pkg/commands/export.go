package commands

import (
	"fmt"
	"time"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/taskflow/pkg/commands/options"
	"tableflip.dev/taskflow/pkg/export"
)

func addExport(topLevel *cobra.Command) {
	var (
		to       string
		sections []string
		printOnly bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Email a plain-text report of your data",
		Long: fmt.Sprintf(`Export builds a report and opens your mail client with it ready to send.

Sections: %v (default all).`, export.SectionNames),
		Example: `
taskflow export --to me@example.com
taskflow export --to me@example.com --sections todos,reminders
taskflow export --print
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sec, err := export.ParseSections(sections)
			if err != nil {
				return err
			}
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			r := export.Report{
				User:      e.User.DisplayName(),
				Generated: time.Now(),
				Sections:  sec,
				Data:      export.Collect(e.Analytics),
			}
			if printOnly {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), r.String())
				return nil
			}
			u, err := export.Mailer{}.Send(cmdContext(cmd), to, r)
			if err != nil {
				return finish(cmd, err)
			}
			if output.JSON {
				return options.PrintJSON(cmd.OutOrStdout(), map[string]string{"to": to, "subject": r.Subject(), "url": u})
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Opened your mail app with %q.\n", r.Subject())
			e.Log.Debug().Str("url", u).Msg("mailto")
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Recipient email address.")
	cmd.Flags().StringSliceVar(&sections, "sections", nil, "Comma separated sections to include.")
	cmd.Flags().BoolVar(&printOnly, "print", false, "Print the report instead of emailing it.")
	base.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
