// Command masomo is the command-line portal to the Masomo LMS.
package main

import (
	"fmt"
	"os"

	"github.com/trezcool/masomo/portal/core"
)

func main() {
	os.Exit(run(os.Args[1:], core.NewConfig, streams{in: os.Stdin, out: os.Stdout, errOut: os.Stderr}))
}

// run executes one command line and returns its exit code.
func run(args []string, newConfig func() (*core.Config, error), std streams) int {
	var a *app
	if err := newContainer(newConfig, std).Invoke(func(app *app) { a = app }); err != nil {
		fmt.Fprintf(std.errOut, "error: %v\n", err)
		return ExitFailure
	}
	return a.execute(args)
}
