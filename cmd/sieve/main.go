// Command sieve simplifies boolean predicates with ordered rewrite rules
// and decides whether one predicate implies another.
//
// Usage:
//
//	# Simplify a scenario's predicate and print the rule firings
//	sieve simplify ./scenarios/not_not.yaml --verbose
//
//	# Match a query predicate against a candidate
//	sieve match ./scenarios/ranges.yaml
//
//	# Run every scenario in a directory against its golden file
//	sieve test ./scenarios --rules ./rulesets --db ./sieve.db
//
//	# Validate CUE rule sets
//	sieve rules ./rulesets
//
//	# Show a recorded run
//	sieve trace --db ./sieve.db --run <id>
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/roach88/sieve/internal/cli"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	cmd := cli.NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	err := cmd.Execute()
	if err != nil {
		// Commands report their own ExitErrors; usage errors are bare.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(stderr, "Error:", err)
		}
	}
	return cli.GetExitCode(err)
}
