// login.go implements the "trace login" and "trace logout" commands.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/trace-bio/trace/internal/cleanup"
	"github.com/trace-bio/trace/internal/log"
	"github.com/trace-bio/trace/internal/session"
)

func newLoginCmd(opts *globalOptions) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and obtain a bearer token",
		Long: `Prompt for the password of --email and exchange the pair for a bearer
token. With session.persist enabled the token is stored in the local vault;
otherwise it is printed for use with --token or TRACE_TOKEN.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}
			e.describe(cmd.ErrOrStderr())

			password, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			token, err := e.client.Login(cmd.Context(), email, password)
			if err != nil {
				return errors.New("incorrect email or password")
			}

			p, closeVault, err := e.persister()
			if err != nil {
				return err
			}
			defer closeVault()

			if p == nil {
				fmt.Fprintln(cmd.OutOrStdout(), token)
				return nil
			}

			store := session.NewStore()
			store.SetCredential(token, email)
			if err := p.Remember(store); err != nil {
				return fmt.Errorf("storing credential: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s.\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email address")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd(opts *globalOptions) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored credential for the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}

			if all {
				vault, err := e.openVault()
				if err != nil {
					return err
				}
				defer func() { _ = vault.Close() }()

				removed, err := cleanup.PruneKeepRecent(vault, 0, false)
				if err != nil {
					return fmt.Errorf("removing credentials: %w", err)
				}
				for _, baseURL := range removed {
					e.logger.Record(log.LogEvent{Event: log.EventLogout, Data: map[string]any{"base_url": baseURL}})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d stored credential(s).\n", len(removed))
				return nil
			}

			p, closeVault, err := e.persister()
			if err != nil {
				return err
			}
			defer closeVault()

			if err := p.Forget(); err != nil {
				return fmt.Errorf("removing credential: %w", err)
			}
			e.logger.Record(log.LogEvent{Event: log.EventLogout})
			fmt.Fprintln(cmd.OutOrStdout(), "You have been logged out.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Remove stored credentials for every backend")
	return cmd
}

// readPassword reads without echo from a terminal, or one line from in
// when input is piped.
func readPassword(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
