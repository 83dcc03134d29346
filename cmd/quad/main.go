// Command quad evaluates fixed-order quadrature rules and runs convergence
// studies over them.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/quadrature/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
