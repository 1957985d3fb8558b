package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/sieve/internal/harness"
)

// NewMatchCommand creates the match command.
func NewMatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScenarioOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "match <scenario.yaml>",
		Short: "Decide whether a query predicate implies a candidate",
		Long: `Run a match scenario: decide whether the candidate predicate holds
for every row the query predicate accepts, and print the outcome
(exact, compensated or no_match) with the residual filter.

Examples:
  sieve match ./scenarios/ranges.yaml
  sieve match ./scenarios/ranges.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarioFile(opts, args[0], harness.KindMatch, cmd)
		},
	}
	opts.addFlags(cmd)

	return cmd
}
