// Command nars runs the non-axiomatic reasoner.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/nars/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
