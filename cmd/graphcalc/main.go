// Command graphcalc evaluates, records and replays exact calculations.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/graphcalc/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
