package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/quadrature/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Study    string // optional - one study only
}

// HistoryResult lists stored runs.
type HistoryResult struct {
	Runs  []store.Run `json:"runs"`
	Total int         `json:"total"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored study runs",
		Long: `List the study runs in the results database in the order they were written.

Examples:
  quad history --db ./quad.db
  quad history --db ./quad.db --study exp_orders --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from config)")
	cmd.Flags().StringVar(&opts.Study, "study", "", "list runs of one study only")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd)

	st, err := openExistingStore(opts.RootOptions, opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns(ctx, opts.Study)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	result := HistoryResult{Runs: runs, Total: len(runs)}
	if opts.Format == "json" {
		return encodeIndented(cmd.OutOrStdout(), CLIResponse{Status: "ok", Data: result})
	}

	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found in database.")
		return nil
	}

	fmt.Fprintf(w, "%4s  %-12s  %-20s  %-36s  %s\n", "SEQ", "RUN", "STUDY", "BATCH", "RESULT")
	for _, r := range runs {
		outcome := "pass"
		if !r.Passed {
			outcome = "fail"
		}
		fmt.Fprintf(w, "%4d  %-12s  %-20s  %-36s  %s\n", r.Seq, shortID(r.ID), r.StudyName, r.Batch, outcome)
	}
	fmt.Fprintf(w, "\n%d run(s)\n", len(runs))
	return nil
}

// openExistingStore opens the database named by the flag or the config. It
// refuses to create a new file, so a mistyped path is a command error
// rather than an empty history.
func openExistingStore(opts *RootOptions, flagPath string) (*store.Store, error) {
	path := flagPath
	if path == "" {
		path = opts.config().DB
	}
	if _, err := os.Stat(path); err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("database not found: %s", path), err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

// shortID abbreviates a content hash for tables.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
