// account.go implements the "trace register" and "trace whoami" commands.
package cli

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/trace-bio/trace/internal/api"
)

func newRegisterCmd(opts *globalOptions) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account on the backend",
		Long: `Prompt for a password and create an account for --email. Sign in
afterwards with "trace login".`,
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

			user, err := e.client.Register(cmd.Context(), email, password)
			if err != nil {
				var acctErr *api.AccountError
				if errors.As(err, &acctErr) && acctErr.Detail != "" {
					return fmt.Errorf("registering %s: %s", email, acctErr.Detail)
				}
				return fmt.Errorf("registering %s: %w", email, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s.\n", user.Email)
			fmt.Fprintf(cmd.OutOrStdout(), "Sign in with: trace login --email %s\n", user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email address")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newWhoamiCmd(opts *globalOptions) *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the account the current credential belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}
			tok, err := e.token(token)
			if err != nil {
				return err
			}

			user, err := e.client.Me(cmd.Context(), tok)
			if err != nil {
				if api.StatusOf(err) == http.StatusUnauthorized {
					return errNotLoggedIn
				}
				return fmt.Errorf("looking up account: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s (id %d, %d job(s))\n", user.Email, user.ID, len(user.Jobs))
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Bearer token (default $TRACE_TOKEN or stored credential)")
	return cmd
}
