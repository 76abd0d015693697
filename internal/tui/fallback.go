package tui

import (
	"fmt"
	"io"
)

// runFallback handles non-TTY execution by pointing at the one-shot commands.
func runFallback(w io.Writer) error {
	fmt.Fprintln(w, "Non-TTY environment detected.")
	fmt.Fprintln(w, "Use the subcommands instead:")
	fmt.Fprintln(w, "  trace register --email <address>")
	fmt.Fprintln(w, "  trace login --email <address>")
	fmt.Fprintln(w, "  trace upload <file>")
	fmt.Fprintln(w, "  trace jobs")
	fmt.Fprintln(w, "  trace delete <job-id>")
	return nil
}
