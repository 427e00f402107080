package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tableflip.dev/taskflow/pkg/app"
	"tableflip.dev/taskflow/pkg/commands/options"
	"tableflip.dev/taskflow/pkg/record"
)

func addUser(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "user",
		Aliases: []string{"account"},
		Short:   "Register, sign in and out. Data is kept per signed-in user.",
	}

	addUserRegister(cmd)
	addUserLogin(cmd)
	addUserLogout(cmd)
	addUserWhoami(cmd)

	topLevel.AddCommand(cmd)
}

// account is a user without the password, for --json.
type account struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Identity string `json:"identity"`
}

func toAccount(u *record.User) *account {
	if u == nil {
		return nil
	}
	return &account{ID: u.ID, Username: u.Username, Name: u.DisplayName(), Identity: u.IdentityKey()}
}

func addUserRegister(parent *cobra.Command) {
	var (
		name     string
		password string
	)
	cmd := &cobra.Command{
		Use:   "register <username>",
		Short: "Create an account and sign in",
		Example: `
taskflow user register ana --name "Ana Lima"
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			if password == "" {
				if password, err = readSecret(cmd, "Password: "); err != nil {
					return finish(cmd, err)
				}
			}
			u, err := e.Stores.Users.Register(cmdContext(cmd), args[0], password, name)
			if err != nil {
				return finish(cmd, err)
			}
			return signedIn(cmd, app.MsgRegistered, &u)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Full name, the username when empty.")
	cmd.Flags().StringVar(&password, "password", "", "Password, prompted for when empty.")
	base.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func addUserLogin(parent *cobra.Command) {
	var password string
	cmd := &cobra.Command{
		Use:   "login [username]",
		Short: "Sign in. Without a username the last one used is tried.",
		Example: `
taskflow user login ana
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			ctx := cmdContext(cmd)
			username := ""
			if len(args) == 1 {
				username = args[0]
			}
			if username == "" {
				last, err := e.Stores.Users.LastCredentials(ctx)
				if err != nil {
					return finish(cmd, err)
				}
				if last.Username == "" {
					return finish(cmd, errors.New("no previous sign-in, name a username"))
				}
				username = last.Username
				if password == "" {
					password = last.Password
				}
			}
			if password == "" {
				if password, err = readSecret(cmd, "Password: "); err != nil {
					return finish(cmd, err)
				}
			}
			u, err := e.Stores.Users.Login(ctx, username, password)
			if err != nil {
				return finish(cmd, err)
			}
			return signedIn(cmd, app.MsgLoggedIn, &u)
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "Password, prompted for when empty.")
	base.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func signedIn(cmd *cobra.Command, msg string, u *record.User) error {
	if output.JSON {
		return options.PrintJSON(cmd.OutOrStdout(), toAccount(u))
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s Welcome, %s.\n", msg, u.DisplayName())
	return nil
}

func addUserLogout(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out. Later commands use the guest data.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.Stores.Users.Logout(cmdContext(cmd)); err != nil {
				return finish(cmd, err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
	parent.AddCommand(cmd)
}

func addUserWhoami(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			if output.JSON {
				return options.PrintJSON(cmd.OutOrStdout(), toAccount(e.User))
			}
			e.printer(cmd, false).Account(e.User)
			return nil
		},
	}
	base.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

// readSecret reads a line without echo when stdin is a terminal, else reads
// it plainly.
func readSecret(cmd *cobra.Command, prompt string) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		_, _ = fmt.Fprint(cmd.ErrOrStderr(), prompt)
		b, err := term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s%w", strings.ToLower(prompt), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
