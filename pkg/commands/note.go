package commands

import (
	"errors"
	"fmt"
	"strings"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/commands/options"
	"tableflip.dev/taskflow/pkg/intent"
	"tableflip.dev/taskflow/pkg/record"
)

func addNote(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "note",
		Aliases: []string{"notes"},
		Short:   "Manage notes",
	}

	addNoteAdd(cmd)
	addNoteList(cmd)
	addNoteUnlock(cmd)
	addNoteRemove(cmd)
	topLevel.AddCommand(cmd)
}

func addNoteAdd(parent *cobra.Command) {
	var (
		text     string
		title    string
		color    string
		password bool
	)

	cmd := &cobra.Command{
		Use:   "add <content>",
		Short: "Add a note",
		Long:  `Add a note. "Title | body" or "Title: body" splits the title off; otherwise the title comes from the first words.`,
		Example: `
taskflow note add Groceries: eggs, milk
taskflow note add the wifi password is on the fridge --password
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a note")
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

			parsed := intent.ParseNote(text)
			in := app.NewNote{Title: parsed.Title, Content: parsed.Content, Color: record.NoteColor(color)}
			if title != "" {
				in.Title, in.Content = title, text
			}
			if password {
				if in.Password, err = readSecret(cmd, "Note password: "); err != nil {
					return finish(cmd, err)
				}
			}
			n, err := e.Stores.Notes.Add(cmdContext(cmd), in)
			if err != nil {
				return finish(cmd, err)
			}
			if output.JSON {
				n.Password = ""
				return options.PrintJSON(cmd.OutOrStdout(), n)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added note: %s\n", n.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Title; the whole text becomes the body.")
	cmd.Flags().StringVar(&color, "color", string(record.NoteColors[0]), "Note colour swatch.")
	cmd.Flags().BoolVar(&password, "password", false, "Prompt for a password that locks the note.")
	base.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addNoteList(parent *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			notes := e.Analytics.Notes()
			if output.JSON {
				for i := range notes {
					notes[i].Password = ""
					if notes[i].Protect {
						notes[i].Content = ""
					}
				}
				return options.PrintJSON(cmd.OutOrStdout(), notes)
			}
			pp := e.printer(cmd, io.ShowID)
			pp.TitleWithCount("Notes", len(notes), "note")
			pp.Notes(notes...)
			return nil
		},
	}

	options.AddShowIDArgs(cmd, io)
	base.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addNoteUnlock(parent *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "unlock <id>",
		Short: "Show a locked note",
		Args:  options.IDArg(io),
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			pw, err := readSecret(cmd, "Note password: ")
			if err != nil {
				return finish(cmd, err)
			}
			n, err := e.Stores.Notes.Unlock(cmdContext(cmd), io.ID, pw)
			if err != nil {
				return finish(cmd, err)
			}
			if output.JSON {
				n.Password = ""
				return options.PrintJSON(cmd.OutOrStdout(), n)
			}
			n.Protect = false
			e.printer(cmd, false).Notes(n)
			return nil
		},
	}

	base.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addNoteRemove(parent *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a note",
		Args:    options.IDArg(io),
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()
			return finish(cmd, e.Stores.Notes.Remove(cmdContext(cmd), io.ID))
		},
	}

	base.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}
