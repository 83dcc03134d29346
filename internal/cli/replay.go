package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/quadrature/internal/store"
	"github.com/roach88/quadrature/internal/study"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	RunID    string // optional - specific run only
	Workers  int
}

// ReplayRunResult holds the replay result for a single stored run.
type ReplayRunResult struct {
	RunID       string       `json:"run_id"`
	StudyName   string       `json:"study_name"`
	Replayed    string       `json:"replayed"`
	Identical   bool         `json:"identical"`
	Differences []study.Diff `json:"differences,omitempty"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Runs         []ReplayRunResult `json:"runs"`
	TotalRuns    int               `json:"total_runs"`
	AllIdentical bool              `json:"all_identical"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-run stored studies and verify bit-identical results",
		Long: `Re-run the study spec of every stored run and verify that the fresh result has
the same fingerprint, meaning every measurement is bit-identical.

Exit codes:
  0 - Every replay is identical
  1 - A replay drifted (differences detected)
  2 - Command error (database not found, unknown run, etc.)

Examples:
  quad replay --db ./quad.db
  quad replay --db ./quad.db --run 3f2a9c...
  quad replay --db ./quad.db --workers 8 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from config)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "replay specific run only")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "goroutines for sample evaluation (0 uses config)")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd)
	formatter := opts.formatter(cmd)

	st, err := openExistingStore(opts.RootOptions, opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	// Get run IDs to process
	var runIDs []string
	if opts.RunID != "" {
		runIDs = []string{opts.RunID}
	} else {
		runs, err := st.ListRuns(ctx, "")
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
		for _, r := range runs {
			runIDs = append(runIDs, r.ID)
		}
	}

	result := ReplayResult{
		Runs:         make([]ReplayRunResult, 0, len(runIDs)),
		TotalRuns:    len(runIDs),
		AllIdentical: true,
	}

	if len(runIDs) == 0 {
		if opts.Format == "json" {
			return outputReplayJSON(cmd.OutOrStdout(), result)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No runs found in database.")
		return nil
	}

	workers := opts.Workers
	if workers == 0 {
		workers = opts.config().Workers
	}
	runner := &study.Runner{Logger: formatter.Logger(), Workers: workers}

	for _, id := range runIDs {
		stored, err := st.ReadRun(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return WrapExitError(ExitCommandError, fmt.Sprintf("run not found: %s", id), err)
		}
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to read run %s", id), err)
		}

		formatter.VerboseLog("Replaying run %s (%s)", id, stored.Study.Name)
		replayed, err := study.Replay(ctx, runner, stored)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay run %s", id), err)
		}

		result.Runs = append(result.Runs, ReplayRunResult{
			RunID:       id,
			StudyName:   replayed.StudyName,
			Replayed:    replayed.Replayed,
			Identical:   replayed.Identical,
			Differences: replayed.Differences,
		})
		if !replayed.Identical {
			result.AllIdentical = false
		}
	}

	if opts.Format == "json" {
		return outputReplayJSON(cmd.OutOrStdout(), result)
	}
	return outputReplayText(cmd.OutOrStdout(), result, opts.Verbose)
}

// outputReplayJSON outputs the replay result as JSON.
func outputReplayJSON(w io.Writer, result ReplayResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}

	if !result.AllIdentical {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    "E_DETERMINISM",
			Message: "determinism verification failed",
		}
	}

	if err := encodeIndented(w, response); err != nil {
		return err
	}

	if !result.AllIdentical {
		// Determinism failure = exit code 1
		return NewExitError(ExitFailure, "determinism verification failed")
	}
	return nil
}

// outputReplayText outputs the replay result as text.
func outputReplayText(w io.Writer, result ReplayResult, verbose bool) error {
	fmt.Fprintf(w, "Replay Summary: %d run(s)\n", result.TotalRuns)
	fmt.Fprintln(w)

	for _, run := range result.Runs {
		status := "✓"
		if !run.Identical {
			status = "✗"
		}

		fmt.Fprintf(w, "%s Run: %s (%s)\n", status, shortID(run.RunID), run.StudyName)
		if verbose {
			fmt.Fprintf(w, "  Stored:   %s\n", run.RunID)
			fmt.Fprintf(w, "  Replayed: %s\n", run.Replayed)
		}
		for _, d := range run.Differences {
			fmt.Fprintf(w, "  %s n=%d: stored %v, replayed %v\n", d.Method, d.N, d.Stored, d.Replayed)
		}
	}
	fmt.Fprintln(w)

	if result.AllIdentical {
		fmt.Fprintln(w, "✓ All runs verified bit-identical")
		return nil
	}

	fmt.Fprintln(w, "✗ Determinism verification failed")
	// Determinism failure = exit code 1
	return NewExitError(ExitFailure, "determinism verification failed")
}
