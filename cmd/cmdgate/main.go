// Command cmdgate is the illustrative CLI surface for the shell-command
// safety gate (§6): it drives the same validate/approve/exec engine an
// MCP tool endpoint or shell pre-exec hook would call directly.
package main

import (
	"fmt"
	"os"

	"github.com/kesaralabs/cmdgate/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cmdgate:", err)
		os.Exit(1)
	}
}
