package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/sieve/internal/harness"
)

// NewSimplifyCommand creates the simplify command.
func NewSimplifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScenarioOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "simplify <scenario.yaml>",
		Short: "Simplify a scenario's predicate",
		Long: `Run a simplify scenario: rewrite its predicate to a fixpoint with the
scenario's rules and print the result. With --verbose the rule firings
are printed too.

Exit codes:
  0 - Simplified, all expectations met
  1 - One or more expectations failed
  2 - Command error (unreadable scenario, bad rule sets, database error)

Examples:
  sieve simplify ./scenarios/not_not.yaml
  sieve simplify ./scenarios/cleanup.yaml --rules ./rulesets
  sieve simplify ./scenarios/not_not.yaml --db ./sieve.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarioFile(opts, args[0], harness.KindSimplify, cmd)
		},
	}
	opts.addFlags(cmd)

	return cmd
}
