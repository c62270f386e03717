// Command sparqlwhere compiles semantic wiki query descriptions into
// SPARQL where clauses.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/sparqlwhere/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		// Commands report their own failures; anything else is a usage
		// or flag error.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
