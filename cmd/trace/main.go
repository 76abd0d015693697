// Command trace is the terminal client for the TRACE analysis service.
package main

import "github.com/trace-bio/trace/internal/cli"

func main() {
	cli.Execute()
}
