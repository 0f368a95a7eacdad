// Command ffbuilder assembles RASPA force-field input files.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/ffbuilder/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil && !cli.Reported(err) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
