// log.go implements the "trace log" command showing recent client events.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLogCmd(opts *globalOptions) *cobra.Command {
	var tail int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent client events",
		Long: `Print the most recent entries of the local event log (log.jsonl in the
configuration directory). Request ids match the X-Request-ID header sent to
the backend.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}
			e.describe(cmd.ErrOrStderr())

			events, err := e.logger.Tail(tail)
			if err != nil {
				return err
			}
			if len(events) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No events recorded yet.")
				return nil
			}
			for _, ev := range events {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-17s %-8s %s\n",
					ev.Time.Local().Format("2006-01-02 15:04:05"), ev.Event, shortID(ev.RequestID), ev.Summary())
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&tail, "tail", "n", 20, "Number of events to show (0 for all)")
	return cmd
}

// shortID trims a request id to its first block.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
