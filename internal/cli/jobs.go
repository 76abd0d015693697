// jobs.go implements the one-shot "upload", "jobs" and "delete" commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/trace-bio/trace/internal/api"
	"github.com/trace-bio/trace/internal/tui"
	"github.com/trace-bio/trace/internal/ui"
)

const deletePrompt = "Are you sure you want to permanently delete this job?"

func newUploadCmd(opts *globalOptions) *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a sample and start an analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}
			e.describe(cmd.ErrOrStderr())

			tok, err := e.token(token)
			if err != nil {
				return err
			}
			if err := e.client.CreateAnalysis(cmd.Context(), tok, args[0]); err != nil {
				return fmt.Errorf("uploading %s: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tui.MsgUploadSucceeded)
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Bearer token (default $TRACE_TOKEN or stored credential)")
	return cmd
}

func newJobsCmd(opts *globalOptions) *cobra.Command {
	var (
		token    string
		asJSON   bool
		watch    bool
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List your analysis jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}
			e.describe(cmd.ErrOrStderr())

			tok, err := e.token(token)
			if err != nil {
				return err
			}
			if watch {
				return watchJobs(cmd, e, tok, interval)
			}
			jobs, err := e.client.ListAnalyses(cmd.Context(), tok)
			if err != nil {
				return fmt.Errorf("listing jobs: %w", err)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(jobs)
			}
			printJobs(cmd.OutOrStdout(), jobs, e.cfg.UI.DateFormat)
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Bearer token (default $TRACE_TOKEN or stored credential)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the roster as JSON")
	cmd.Flags().BoolVar(&watch, "watch", false, "Keep refreshing until no job is pending")
	cmd.Flags().DurationVar(&interval, "interval", 5*time.Second, "Refresh interval for --watch")
	return cmd
}

func newDeleteCmd(opts *globalOptions) *cobra.Command {
	var (
		token string
		yes   bool
	)

	cmd := &cobra.Command{
		Use:   "delete <job-id>",
		Short: "Permanently delete an analysis job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}
			e.describe(cmd.ErrOrStderr())

			tok, err := e.token(token)
			if err != nil {
				return err
			}
			if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), deletePrompt) {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
			if err := e.client.DeleteAnalysis(cmd.Context(), tok, args[0]); err != nil {
				return fmt.Errorf("deleting job %s: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tui.MsgJobDeleted)
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Bearer token (default $TRACE_TOKEN or stored credential)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// watchJobs re-fetches the roster every interval until nothing is pending
// or the command is interrupted.
func watchJobs(cmd *cobra.Command, e *env, token string, interval time.Duration) error {
	out := cmd.OutOrStdout()
	w := ui.NewJobWatch(out, isTerminal(out), e.cfg.UI.DateFormat)
	defer w.Finish()

	// Ctrl+C ends the watch with the summary instead of killing the process.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	for {
		jobs, err := e.client.ListAnalyses(ctx, token)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return fmt.Errorf("listing jobs: %w", err)
		}
		w.Update(jobs)
		if w.Settled() {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
	}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// printJobs writes the roster in server order, one job per line.
func printJobs(w io.Writer, jobs []api.Job, dateFormat string) {
	if len(jobs) == 0 {
		fmt.Fprintln(w, "Your analysis jobs will appear here.")
		return
	}
	fmt.Fprintf(w, "  %-2s  %-10s  %-10s  %s\n", "", "JOB ID", "STATUS", "DATE CREATED")
	for _, j := range jobs {
		created := "-"
		if !j.CreatedAt.IsZero() {
			created = j.CreatedAt.Local().Format(dateFormat)
		}
		fmt.Fprintf(w, "  %-2s  %-10s  %-10s  %s\n", tui.StatusGlyph(j.Status), j.ID, j.Status, created)
	}
}
