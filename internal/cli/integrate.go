package cli

import (
	"errors"
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/roach88/quadrature/internal/compiler"
	"github.com/roach88/quadrature/internal/integrand"
	"github.com/roach88/quadrature/internal/ir"
	"github.com/roach88/quadrature/internal/quad"
)

// IntegrateOptions holds flags for the integrate command.
type IntegrateOptions struct {
	*RootOptions
	Integrand string
	Poly      []float64
	A, B      float64
	N         int
	Method    string
	Workers   int
}

// IntegrateResult is one quadrature evaluation.
type IntegrateResult struct {
	Integrand string  `json:"integrand"`
	Expr      string  `json:"expr"`
	Method    string  `json:"method"`
	A         float64 `json:"a"`
	B         float64 `json:"b"`
	N         int     `json:"n"`
	Value     float64 `json:"value"`
	Exact     float64 `json:"exact"`
	AbsError  float64 `json:"abs_error"`
}

// NewIntegrateCommand creates the integrate command.
func NewIntegrateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IntegrateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "integrate",
		Short: "Approximate one definite integral",
		Long: `Approximate the integral of a catalog integrand or a polynomial over [a, b]
with one quadrature rule and report the absolute error against the closed
form.

Examples:
  quad integrate --integrand exp -a 0 -b 1 -n 16 --method simpson
  quad integrate --poly 1,2 -a 0 -b 1 -n 1 --method trapezoid
  quad integrate --integrand quarter_circle -a 0 -b 1 -n 1024 --workers 4`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIntegrate(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Integrand, "integrand", "", "catalog integrand name")
	cmd.Flags().Float64SliceVar(&opts.Poly, "poly", nil, "polynomial coefficients, ascending powers")
	cmd.Flags().Float64VarP(&opts.A, "lower", "a", 0, "lower bound")
	cmd.Flags().Float64VarP(&opts.B, "upper", "b", 1, "upper bound")
	cmd.Flags().IntVarP(&opts.N, "subdivisions", "n", 16, "subdivision count")
	cmd.Flags().StringVarP(&opts.Method, "method", "m", string(quad.MethodSimpson), "quadrature rule")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "goroutines for sample evaluation (0 uses config)")

	return cmd
}

func runIntegrate(opts *IntegrateOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	in, err := integrand.Resolve(ir.IntegrandRef{Name: opts.Integrand, Poly: opts.Poly})
	if err != nil {
		return outputIntegrateError(formatter, compiler.ErrUnknownIntegrand, err.Error(), nil)
	}

	method, err := quad.ParseMethod(opts.Method)
	if err != nil {
		return outputIntegrateError(formatter, string(quad.ErrCodeInvalidMethod), err.Error(), nil)
	}

	workers := opts.Workers
	if workers == 0 {
		workers = opts.config().Workers
	}
	var qopts []quad.Option
	if workers > 1 {
		qopts = append(qopts, quad.WithWorkers(workers))
	}

	formatter.VerboseLog("Integrating %s with %s, n=%d, workers=%d", in.Expr, method, opts.N, workers)

	value, err := quad.Integrate(method, in.F, opts.A, opts.B, opts.N, qopts...)
	if err != nil {
		return outputIntegrateError(formatter, string(quad.CodeOf(err)), err.Error(), quadDetails(err))
	}

	exact := in.Exact(opts.A, opts.B)
	result := IntegrateResult{
		Integrand: in.Name,
		Expr:      in.Expr,
		Method:    string(method),
		A:         opts.A,
		B:         opts.B,
		N:         opts.N,
		Value:     value,
		Exact:     exact,
		AbsError:  math.Abs(value - exact),
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "%s n=%d on %s over [%v, %v]\n", result.Method, result.N, result.Expr, result.A, result.B)
	fmt.Fprintf(w, "  value:     %v\n", result.Value)
	fmt.Fprintf(w, "  exact:     %v\n", result.Exact)
	fmt.Fprintf(w, "  abs error: %.3e\n", result.AbsError)
	return nil
}

// quadDetails exposes the abscissa of a domain error.
func quadDetails(err error) interface{} {
	var qerr *quad.Error
	if errors.As(err, &qerr) && qerr.Code == quad.ErrCodeDomain {
		return map[string]float64{"x": qerr.X}
	}
	return nil
}

// outputIntegrateError outputs an integration failure. The input was
// rejected, so this is a command error (exit code 2).
func outputIntegrateError(formatter *OutputFormatter, code, message string, details interface{}) error {
	if code == "" {
		code = ErrCodeGeneric
	}
	_ = formatter.Error(code, message, details)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}
