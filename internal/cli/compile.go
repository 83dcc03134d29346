package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/quadrature/internal/compiler"
	"github.com/roach88/quadrature/internal/ir"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// CompiledStudy is a study spec with its content-addressed ID.
type CompiledStudy struct {
	ID   string       `json:"id"`
	Spec ir.StudySpec `json:"spec"`
}

// CanonicalValue implements ir.Canonicalizer.
func (c CompiledStudy) CanonicalValue() map[string]any {
	return map[string]any{
		"id":   c.ID,
		"spec": c.Spec,
	}
}

// CompilationResult holds the compiled studies.
type CompilationResult struct {
	IRVersion string          `json:"ir_version"`
	Studies   []CompiledStudy `json:"studies"`
}

// CanonicalValue implements ir.Canonicalizer.
func (r CompilationResult) CanonicalValue() map[string]any {
	studies := make([]any, len(r.Studies))
	for i, s := range r.Studies {
		studies[i] = s
	}
	return map[string]any{
		"ir_version": r.IRVersion,
		"studies":    studies,
	}
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <specs-dir>",
		Short: "Compile CUE study specs to canonical IR",
		Long: `Compile CUE study specs to canonical IR format.

The compiler parses CUE files, fills in defaults, validates every study and
outputs canonical JSON. Each study carries its content-addressed ID, the
same ID the results store files runs under.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, specsDir string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	cfg := opts.config()

	loadResult, loadErrors := LoadStudies(specsDir, LoadModeCollectAll,
		compiler.WithDefaults(cfg.Study.Floor, cfg.Study.Tolerance))

	// Handle load errors (directory not found, no files, etc.)
	if loadResult == nil && len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return outputCompileError(formatter, loadErr.Code, loadErr.Message, nil)
		}
		return outputCompileError(formatter, ErrCodeGeneric, loadErrors[0].Error(), nil)
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, specsDir)

	if len(loadErrors) > 0 {
		return outputCompileErrors(formatter, loadErrors)
	}

	result := CompilationResult{
		IRVersion: ir.IRVersion,
		Studies:   make([]CompiledStudy, 0, len(loadResult.Studies)),
	}
	for _, entry := range loadResult.Studies {
		id, err := ir.StudyID(entry.Spec)
		if err != nil {
			return outputCompileError(formatter, ErrCodeGeneric, fmt.Sprintf("study %s: %v", entry.Spec.Name, err), nil)
		}
		formatter.VerboseLog("Compiled study: %s (%s)", entry.Spec.Name, id)
		result.Studies = append(result.Studies, CompiledStudy{ID: id, Spec: entry.Spec})
	}

	// Write to file if --output specified
	if opts.Output != "" {
		if err := writeIRToFile(result, opts.Output); err != nil {
			return outputCompileError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
		}
	}

	return outputCompileSuccess(formatter, result, opts.Output)
}

// outputCompileSuccess outputs successful compilation results.
func outputCompileSuccess(formatter *OutputFormatter, result CompilationResult, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Compiled %d study(s)\n\n", len(result.Studies))

	for _, s := range result.Studies {
		fmt.Fprintf(formatter.Writer, "  %s: %s on [%g, %g], %d method(s) x %d subdivision count(s)\n",
			s.Spec.Name, s.Spec.Integrand, s.Spec.A, s.Spec.B,
			len(s.Spec.Methods), len(s.Spec.Subdivisions))
		fmt.Fprintf(formatter.Writer, "    id %s\n", s.ID)
	}
	fmt.Fprintln(formatter.Writer)

	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "Wrote canonical IR to %s\n", outputFile)
	}

	return nil
}

// outputCompileError outputs a single compilation error.
func outputCompileError(formatter *OutputFormatter, code, message string, details interface{}) error {
	_ = formatter.Error(code, message, details)
	// Compilation errors are command-level errors (exit code 2)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), nil)
}

// outputCompileErrors outputs multiple compilation errors.
func outputCompileErrors(formatter *OutputFormatter, errs []error) error {
	if formatter.Format == "json" {
		cliErrors := make([]CLIError, len(errs))
		for i, err := range errs {
			code, message := parseCompileError(err)
			cliErrors[i] = CLIError{
				Code:    code,
				Message: message,
			}
		}

		response := CLIResponse{
			Status: "error",
			Error:  &cliErrors[0],
			Data:   cliErrors, // Include all errors in data
		}
		if err := encodeIndented(formatter.Writer, response); err != nil {
			return err
		}

		// Compilation errors are command-level errors (exit code 2)
		return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Compilation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		code, message := parseCompileError(err)
		var loadErr *LoadError
		if errors.As(err, &loadErr) && loadErr.Pos.IsValid() {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n",
				loadErr.Pos.Filename(),
				loadErr.Pos.Line(),
				loadErr.Pos.Column())
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", code, message)
	}

	// Compilation errors are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
}

// parseCompileError extracts error code and message from an error.
func parseCompileError(err error) (string, string) {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message
	}
	return ErrCodeGeneric, err.Error()
}

// writeIRToFile writes the compilation result to a file in canonical JSON format.
func writeIRToFile(result CompilationResult, filename string) error {
	data, err := ir.MarshalCanonical(result)
	if err != nil {
		return fmt.Errorf("marshaling IR: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}
