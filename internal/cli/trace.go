package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/roach88/sieve/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database  string
	RunID     string // optional - show one run and its firings
	InputHash string // optional - list runs of one input
	Stats     bool   // per-rule firing counts
}

// RunSummary is one stored run.
type RunSummary struct {
	ID        string   `json:"id"`
	Kind      string   `json:"kind"`
	RuleSet   string   `json:"ruleset"`
	Rules     []string `json:"rules"`
	Input     string   `json:"input"`
	InputHash string   `json:"input_hash"`
	Output    string   `json:"output,omitempty"`
	Status    string   `json:"status"`
	Error     string   `json:"error,omitempty"`
	Steps     int      `json:"steps"`
}

// FiringEntry is one rule firing in a run's timeline.
type FiringEntry struct {
	Seq    int64  `json:"seq"`
	Rule   string `json:"rule"`
	Kind   string `json:"kind"`
	Before string `json:"before"`
	After  string `json:"after"`
	Root   bool   `json:"root"`
}

// RuleStat is the number of recorded firings of one rule.
type RuleStat struct {
	Rule  string `json:"rule"`
	Count int    `json:"count"`
}

// TraceResult holds the trace output. Run and Firings are set when a
// single run was requested; Runs otherwise.
type TraceResult struct {
	Run     *RunSummary   `json:"run,omitempty"`
	Firings []FiringEntry `json:"firings,omitempty"`
	Runs    []RunSummary  `json:"runs,omitempty"`
	Stats   []RuleStat    `json:"stats,omitempty"`
}

// RenderText prints a run timeline or a run listing.
func (r TraceResult) RenderText(w io.Writer, verbose bool) {
	if r.Run != nil {
		writeRunSummary(w, *r.Run)
		for _, f := range r.Firings {
			root := ""
			if f.Root {
				root = " (root)"
			}
			fmt.Fprintf(w, "  [%d] %s%s: %s => %s\n", f.Seq, f.Rule, root, f.Before, f.After)
		}
	} else if len(r.Runs) == 0 && r.Stats == nil {
		fmt.Fprintln(w, "No runs found.")
	}
	for _, run := range r.Runs {
		writeRunSummary(w, run)
	}
	for _, s := range r.Stats {
		fmt.Fprintf(w, "%6d  %s\n", s.Count, s.Rule)
	}
}

func writeRunSummary(w io.Writer, run RunSummary) {
	fmt.Fprintf(w, "%s  %s  %s  %s  steps=%d\n", run.ID, run.Kind, run.RuleSet, run.Status, run.Steps)
	fmt.Fprintf(w, "  input:  %s\n", run.Input)
	if run.Output != "" {
		fmt.Fprintf(w, "  output: %s\n", run.Output)
	}
	if run.Error != "" {
		fmt.Fprintf(w, "  error:  %s\n", run.Error)
	}
	if len(run.Rules) > 0 {
		fmt.Fprintf(w, "  rules:  %s\n", strings.Join(run.Rules, ", "))
	}
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show recorded runs and rule firings",
		Long: `Query a database written with --db.

Without --run, lists every recorded run in order. With --run, shows
that run and the rule firings it adopted, in sequence.

Examples:
  sieve trace --db ./sieve.db
  sieve trace --db ./sieve.db --run simplify_not_not
  sieve trace --db ./sieve.db --input <sha256>
  sieve trace --db ./sieve.db --stats --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run id to show")
	cmd.Flags().StringVar(&opts.InputHash, "input", "", "list runs with this input hash")
	cmd.Flags().BoolVar(&opts.Stats, "stats", false, "show firing counts per rule")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := opts.formatter(cmd)

	// Opening would create an empty database.
	if _, err := os.Stat(opts.Database); err != nil {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("database not found: %s", opts.Database), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	st, err := store.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	result, err := buildTrace(ctx, st, opts)
	if errors.Is(err, store.ErrRunNotFound) {
		_ = formatter.Error(ErrCodeNotFound, err.Error(), nil)
		return WrapExitError(ExitFailure, "run not found", err)
	}
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read trace", err)
	}
	return formatter.Success(result)
}

func buildTrace(ctx context.Context, st *store.Store, opts *TraceOptions) (TraceResult, error) {
	var result TraceResult

	switch {
	case opts.RunID != "":
		run, err := st.ReadRun(ctx, opts.RunID)
		if err != nil {
			return result, err
		}
		firings, err := st.ReadFirings(ctx, opts.RunID)
		if err != nil {
			return result, err
		}
		summary := summarize(run)
		result.Run = &summary
		result.Firings = make([]FiringEntry, len(firings))
		for i, f := range firings {
			result.Firings[i] = FiringEntry{
				Seq:    f.Seq,
				Rule:   f.Rule,
				Kind:   f.Kind,
				Before: f.Before,
				After:  f.After,
				Root:   f.AtRoot,
			}
		}
	case opts.InputHash != "":
		runs, err := st.RunsByInput(ctx, opts.InputHash)
		if err != nil {
			return result, err
		}
		result.Runs = summarizeAll(runs)
	case !opts.Stats:
		runs, err := st.ListRuns(ctx)
		if err != nil {
			return result, err
		}
		result.Runs = summarizeAll(runs)
	}

	if opts.Stats {
		counts, err := st.RuleCounts(ctx)
		if err != nil {
			return result, err
		}
		result.Stats = make([]RuleStat, len(counts))
		for i, c := range counts {
			result.Stats[i] = RuleStat{Rule: c.Rule, Count: c.Count}
		}
	}
	return result, nil
}

func summarize(run store.Run) RunSummary {
	return RunSummary{
		ID:        run.ID,
		Kind:      run.Kind,
		RuleSet:   run.RuleSet,
		Rules:     run.Rules,
		Input:     run.Input,
		InputHash: run.InputHash,
		Output:    run.Output,
		Status:    run.Status,
		Error:     run.Error,
		Steps:     run.Steps,
	}
}

func summarizeAll(runs []store.Run) []RunSummary {
	out := make([]RunSummary, len(runs))
	for i, r := range runs {
		out[i] = summarize(r)
	}
	return out
}
