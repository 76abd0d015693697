// init.go implements the "trace init" command.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/trace-bio/trace/internal/config"
)

func newInitCmd(opts *globalOptions) *cobra.Command {
	var persist bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Create the configuration directory (default ~/.trace) with a
config.yaml holding default settings. --api-url and --timeout are written
into the new file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := opts.configDir
			if dir == "" {
				dir = config.DefaultDir()
			}

			path := filepath.Join(dir, "config.yaml")
			if _, err := os.Stat(path); err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Warning: %s already exists.\n", path)
				if !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Overwrite?") {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			cfg := config.DefaultConfig()
			if opts.apiURL != "" {
				cfg.API.BaseURL = opts.apiURL
			}
			if opts.timeout > 0 {
				cfg.API.TimeoutSeconds = max(int(opts.timeout.Seconds()), 1)
			}
			cfg.Session.Persist = persist

			if err := config.WriteConfig(dir, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&persist, "persist", false, "Keep the login across runs in a local credential vault")
	return cmd
}
