// Package study runs convergence studies: every method of a StudySpec at
// every subdivision count, followed by a fit of the observed order of
// accuracy.
package study

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/roach88/quadrature/internal/integrand"
	"github.com/roach88/quadrature/internal/ir"
	"github.com/roach88/quadrature/internal/quad"
)

// Runner evaluates studies. The zero value is usable: it logs nowhere and
// evaluates serially.
type Runner struct {
	Logger  *slog.Logger
	Workers int
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

// Run evaluates spec and fits the order of each method. The context is
// checked before every evaluation; a cancelled run returns ctx.Err().
func (r *Runner) Run(ctx context.Context, spec ir.StudySpec) (*ir.StudyResult, error) {
	in, err := integrand.Resolve(spec.Integrand)
	if err != nil {
		return nil, fmt.Errorf("study %s: %w", spec.Name, err)
	}
	id, err := ir.StudyID(spec)
	if err != nil {
		return nil, fmt.Errorf("study %s: %w", spec.Name, err)
	}

	log := r.logger().With("study", spec.Name, "study_id", id)
	exact := in.Exact(spec.A, spec.B)
	log.Info("starting study",
		"integrand", in.Expr,
		"a", spec.A,
		"b", spec.B,
		"exact", exact,
		"methods", len(spec.Methods),
		"subdivisions", len(spec.Subdivisions),
	)

	ns := slices.Clone(spec.Subdivisions)
	slices.Sort(ns)

	result := &ir.StudyResult{
		StudyID:      id,
		Study:        spec,
		Exact:        exact,
		Measurements: []ir.Measurement{},
		Fits:         []ir.OrderFit{},
	}

	var opts []quad.Option
	if r.Workers > 1 {
		opts = append(opts, quad.WithWorkers(r.Workers))
	}

	for _, name := range spec.Methods {
		m, err := quad.ParseMethod(name)
		if err != nil {
			return nil, fmt.Errorf("study %s: %w", spec.Name, err)
		}

		ms := make([]ir.Measurement, 0, len(ns))
		for _, n := range ns {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			value, err := quad.Integrate(m, in.F, spec.A, spec.B, n, opts...)
			if err != nil {
				return nil, fmt.Errorf("study %s: %w", spec.Name, err)
			}
			meas := ir.Measurement{
				Method:   name,
				N:        n,
				Value:    value,
				AbsError: math.Abs(value - exact),
			}
			log.Debug("measured", "method", name, "n", n, "value", value, "abs_error", meas.AbsError)
			ms = append(ms, meas)
		}

		fit := FitOrder(m, ms, spec.Floor, spec.Tolerance)
		if !spec.CheckOrder {
			fit.Status = ir.FitSkipped
		}
		log.Info("fitted order",
			"method", name,
			"expected", fit.Expected,
			"measured", fit.Measured,
			"points", fit.Points,
			"status", fit.Status,
		)

		result.Measurements = append(result.Measurements, ms...)
		result.Fits = append(result.Fits, fit)
	}

	return result, nil
}
