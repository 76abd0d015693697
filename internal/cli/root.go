// Package cli defines Cobra command definitions for the trace CLI.
// This file contains the root command, global flags, and TUI launch.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/trace-bio/trace/internal/log"
	"github.com/trace-bio/trace/internal/session"
	"github.com/trace-bio/trace/internal/tui"
	"github.com/trace-bio/trace/internal/tui/app"
)

var version = "dev" // set via ldflags at build time

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	apiURL    string
	configDir string
	timeout   time.Duration
	verbose   bool
}

// NewRootCmd builds the trace command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "trace [file]",
		Short: "Client for the TRACE cfDNA analysis service",
		Long: `trace signs in to a TRACE backend, uploads samples for tissue-of-origin
analysis, and tracks the resulting jobs. Without a subcommand it opens the
interactive dashboard; an optional file argument is preselected for upload.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd, opts, args)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.apiURL, "api-url", "", "Backend base URL (overrides api.base_url)")
	flags.StringVar(&opts.configDir, "config-dir", "", "Configuration directory (default ~/.trace)")
	flags.DurationVar(&opts.timeout, "timeout", 0, "Per-request timeout (overrides api.timeout_seconds)")
	flags.BoolVar(&opts.verbose, "verbose", false, "Print backend and log file details")

	cmd.AddCommand(newInitCmd(opts))
	cmd.AddCommand(newRegisterCmd(opts))
	cmd.AddCommand(newLoginCmd(opts))
	cmd.AddCommand(newLogoutCmd(opts))
	cmd.AddCommand(newWhoamiCmd(opts))
	cmd.AddCommand(newUploadCmd(opts))
	cmd.AddCommand(newJobsCmd(opts))
	cmd.AddCommand(newDeleteCmd(opts))
	cmd.AddCommand(newLogCmd(opts))

	return cmd
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runDashboard(cmd *cobra.Command, opts *globalOptions, args []string) error {
	e, err := loadEnv(opts)
	if err != nil {
		return err
	}
	e.describe(cmd.ErrOrStderr())

	persister, closeVault, err := e.persister()
	if err != nil {
		return err
	}
	defer closeVault()

	store := session.NewStore()
	restored, err := persister.Restore(store)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not restore session: %v\n", err)
	}
	if restored {
		e.logger.Record(log.LogEvent{Event: log.EventSessionRestored, Email: store.Email()})
	}

	startDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	var initial string
	if len(args) == 1 {
		initial = args[0]
	}

	return tui.Run(app.New(app.Deps{
		Config:      e.cfg,
		Backend:     e.client,
		Session:     store,
		Persister:   persister,
		Logger:      e.logger,
		StartDir:    startDir,
		InitialFile: initial,
	}))
}
