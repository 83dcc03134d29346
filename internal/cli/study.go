package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/quadrature/internal/compiler"
	"github.com/roach88/quadrature/internal/ir"
	"github.com/roach88/quadrature/internal/quad"
	"github.com/roach88/quadrature/internal/store"
	"github.com/roach88/quadrature/internal/study"
)

// StudyOptions holds flags for the study command.
type StudyOptions struct {
	*RootOptions
	Study    string // run only this study
	Save     bool   // persist results
	Database string
	Workers  int

	// Batch issues the token shared by every run of one invocation.
	Batch store.BatchGenerator
}

// StudySummary is the outcome of one study run.
type StudySummary struct {
	Name         string           `json:"name"`
	StudyID      string           `json:"study_id"`
	RunID        string           `json:"run_id,omitempty"`
	Exact        float64          `json:"exact"`
	Passed       bool             `json:"passed"`
	Fits         []ir.OrderFit    `json:"fits"`
	Measurements []ir.Measurement `json:"measurements"`
}

// StudyReport holds every study run by one invocation.
type StudyReport struct {
	Batch   string         `json:"batch,omitempty"`
	Studies []StudySummary `json:"studies"`
	Passed  int            `json:"passed"`
	Failed  int            `json:"failed"`
	Total   int            `json:"total"`
}

// NewStudyCommand creates the study command.
func NewStudyCommand(rootOpts *RootOptions) *cobra.Command {
	return newStudyCommand(rootOpts, store.UUIDv7Generator{})
}

func newStudyCommand(rootOpts *RootOptions, batch store.BatchGenerator) *cobra.Command {
	opts := &StudyOptions{RootOptions: rootOpts, Batch: batch}

	cmd := &cobra.Command{
		Use:   "study <specs-dir>",
		Short: "Run convergence studies",
		Long: `Run the convergence studies declared in a directory of CUE specs.

Each method is evaluated at each subdivision count, the absolute error is
measured against the closed form, and the order of accuracy is fitted from
log(error) against log(N). With --save every result is written to the
results database under a fresh batch token.

Exit codes:
  0 - Every fitted order is within tolerance
  1 - One or more fits failed
  2 - Command error (invalid specs, unusable database, etc.)

Examples:
  quad study ./testdata/studies
  quad study ./testdata/studies --study exp_orders --workers 4
  quad study ./testdata/studies --save --db ./quad.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStudies(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Study, "study", "", "run only the named study")
	cmd.Flags().BoolVar(&opts.Save, "save", false, "write results to the database")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from config)")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "goroutines for sample evaluation (0 uses config)")

	return cmd
}

func runStudies(opts *StudyOptions, specsDir string, cmd *cobra.Command) error {
	ctx := commandContext(cmd)
	formatter := opts.formatter(cmd)
	cfg := opts.config()

	loadResult, loadErrors := LoadStudies(specsDir, LoadModeCollectAll,
		compiler.WithDefaults(cfg.Study.Floor, cfg.Study.Tolerance))
	if loadResult == nil && len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return outputCompileError(formatter, loadErr.Code, loadErr.Message, nil)
		}
		return outputCompileError(formatter, ErrCodeGeneric, loadErrors[0].Error(), nil)
	}
	if len(loadErrors) > 0 {
		return outputCompileErrors(formatter, loadErrors)
	}

	specs := make([]ir.StudySpec, 0, len(loadResult.Studies))
	for _, entry := range loadResult.Studies {
		if opts.Study == "" || entry.Spec.Name == opts.Study {
			specs = append(specs, entry.Spec)
		}
	}
	if len(specs) == 0 {
		return outputCompileError(formatter, ErrCodeNotFound, fmt.Sprintf("study %q not found in %s", opts.Study, specsDir), nil)
	}

	workers := opts.Workers
	if workers == 0 {
		workers = cfg.Workers
	}
	runner := &study.Runner{Logger: formatter.Logger(), Workers: workers}

	report := StudyReport{
		Studies: make([]StudySummary, 0, len(specs)),
		Total:   len(specs),
	}

	var st *store.Store
	if opts.Save {
		dbPath := opts.Database
		if dbPath == "" {
			dbPath = cfg.DB
		}
		var err error
		st, err = store.Open(dbPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer st.Close()

		report.Batch = opts.Batch.Generate()
		formatter.VerboseLog("Writing to %s, batch %s", dbPath, report.Batch)
	}

	for _, spec := range specs {
		result, err := runner.Run(ctx, spec)
		if err != nil {
			code := string(quad.CodeOf(err))
			if code == "" {
				code = ErrCodeGeneric
			}
			return outputCompileError(formatter, code, err.Error(), nil)
		}

		summary := StudySummary{
			Name:         spec.Name,
			StudyID:      result.StudyID,
			Exact:        result.Exact,
			Passed:       result.Passed(),
			Fits:         result.Fits,
			Measurements: result.Measurements,
		}

		if st != nil {
			id, inserted, err := st.WriteRun(ctx, report.Batch, result)
			if err != nil {
				return WrapExitError(ExitCommandError, fmt.Sprintf("failed to store study %s", spec.Name), err)
			}
			if !inserted {
				formatter.VerboseLog("Run %s already stored", id)
			}
			summary.RunID = id
		}

		report.Studies = append(report.Studies, summary)
		if summary.Passed {
			report.Passed++
		} else {
			report.Failed++
		}
	}

	if formatter.Format == "json" {
		return outputStudyJSON(formatter.Writer, report)
	}
	return outputStudyText(formatter.Writer, report)
}

// outputStudyJSON outputs the study report as JSON.
func outputStudyJSON(w io.Writer, report StudyReport) error {
	response := CLIResponse{
		Status: "ok",
		Data:   report,
		Batch:  report.Batch,
	}
	if report.Failed > 0 {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    "E_STUDY_FAILED",
			Message: fmt.Sprintf("%d study(s) failed", report.Failed),
		}
	}

	if err := encodeIndented(w, response); err != nil {
		return err
	}

	if report.Failed > 0 {
		// Order out of tolerance = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("%d study(s) failed", report.Failed))
	}
	return nil
}

// outputStudyText outputs the study report as a table per study.
func outputStudyText(w io.Writer, report StudyReport) error {
	for _, s := range report.Studies {
		status := "✓"
		if !s.Passed {
			status = "✗"
		}
		fmt.Fprintf(w, "%s %s (exact %v)\n", status, s.Name, s.Exact)
		fmt.Fprintf(w, "  %-16s %8s %8s %6s  %s\n", "METHOD", "EXPECTED", "MEASURED", "POINTS", "STATUS")
		for _, f := range s.Fits {
			measured := "-"
			if f.Status == ir.FitPass || f.Status == ir.FitFail {
				measured = fmt.Sprintf("%.3f", f.Measured)
			}
			fmt.Fprintf(w, "  %-16s %8d %8s %6d  %s\n", f.Method, f.Expected, measured, f.Points, f.Status)
		}
		if s.RunID != "" {
			fmt.Fprintf(w, "  stored as run %s\n", s.RunID)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Study Summary: %d passed, %d failed, %d total\n", report.Passed, report.Failed, report.Total)
	if report.Batch != "" {
		fmt.Fprintf(w, "Batch: %s\n", report.Batch)
	}

	if report.Failed > 0 {
		// Order out of tolerance = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("%d study(s) failed", report.Failed))
	}

	fmt.Fprintln(w, "✓ All studies passed")
	return nil
}

// commandContext returns the command's context, or Background for commands
// executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
