package harness

import (
	"fmt"
	"math"
	"slices"

	"github.com/roach88/quadrature/internal/ir"
	"github.com/roach88/quadrature/internal/quad"
	"github.com/roach88/quadrature/internal/study"
)

const (
	defaultFloor          = 1e-12
	defaultOrderTolerance = 0.2

	// idempotentWorkers is the pool size idempotent compares against the
	// serial evaluation.
	idempotentWorkers = 4
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // assertion type
	Expected string // human-readable expected outcome
	Actual   string // human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Type, e.Expected, e.Actual)
}

func (h *Harness) evaluateAssertion(a Assertion) error {
	switch a.Type {
	case AssertExact:
		return h.assertExact(a)
	case AssertConverges:
		return h.assertConverges(a)
	case AssertOrder:
		return h.assertOrder(a)
	case AssertIdempotent:
		return h.assertIdempotent()
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertExact checks every successful case (of a.Method, if set) against
// the closed-form integral.
func (h *Harness) assertExact(a Assertion) error {
	exact := h.integrand.Exact(h.a, h.b)
	checked := 0
	for _, o := range h.outcomes {
		if o.err != nil || (a.Method != "" && o.method != a.Method) {
			continue
		}
		checked++
		if !within(o.value, exact, a.Tolerance) {
			return &AssertionError{
				Type:     AssertExact,
				Expected: fmt.Sprintf("%v ± %g", exact, a.Tolerance),
				Actual:   fmt.Sprintf("%v from %s n=%d", o.value, o.method, o.n),
			}
		}
	}
	if checked == 0 {
		return &AssertionError{
			Type:     AssertExact,
			Expected: "at least one successful case",
			Actual:   "none",
		}
	}
	return nil
}

// measure evaluates method over ns (ascending) against the closed form.
func (h *Harness) measure(method string, ns []int) ([]ir.Measurement, error) {
	exact := h.integrand.Exact(h.a, h.b)
	sorted := slices.Clone(ns)
	slices.Sort(sorted)

	ms := make([]ir.Measurement, 0, len(sorted))
	for _, n := range sorted {
		v, err := h.eval(method, n, h.scenario.Workers)
		if err != nil {
			return nil, err
		}
		ms = append(ms, ir.Measurement{Method: method, N: n, Value: v, AbsError: math.Abs(v - exact)})
	}
	return ms, nil
}

func (h *Harness) assertConverges(a Assertion) error {
	ms, err := h.measure(a.Method, a.Subdivisions)
	if err != nil {
		return err
	}
	if !study.Converges(ms, orDefault(a.Floor, defaultFloor)) {
		errs := make([]float64, len(ms))
		for i, m := range ms {
			errs[i] = m.AbsError
		}
		return &AssertionError{
			Type:     AssertConverges,
			Expected: "errors decreasing with n",
			Actual:   fmt.Sprintf("%v", errs),
		}
	}
	return nil
}

func (h *Harness) assertOrder(a Assertion) error {
	ms, err := h.measure(a.Method, a.Subdivisions)
	if err != nil {
		return err
	}
	m, err := quad.ParseMethod(a.Method)
	if err != nil {
		return err
	}

	tol := orDefault(a.Tolerance, defaultOrderTolerance)
	fit := study.FitOrder(m, ms, orDefault(a.Floor, defaultFloor), tol)
	if fit.Status != ir.FitPass {
		return &AssertionError{
			Type:     AssertOrder,
			Expected: fmt.Sprintf("order %d ± %g", fit.Expected, tol),
			Actual:   fmt.Sprintf("%.3f over %d points (%s)", fit.Measured, fit.Points, fit.Status),
		}
	}
	return nil
}

// assertIdempotent re-runs every case serially and on a worker pool and
// requires bit-identical values and identical error codes.
func (h *Harness) assertIdempotent() error {
	for _, o := range h.outcomes {
		for _, workers := range []int{0, idempotentWorkers} {
			v, err := h.eval(o.method, o.n, workers)
			if errorCode(err) != errorCode(o.err) {
				return &AssertionError{
					Type:     AssertIdempotent,
					Expected: fmt.Sprintf("%s n=%d error %q", o.method, o.n, errorCode(o.err)),
					Actual:   fmt.Sprintf("error %q with %d workers", errorCode(err), workers),
				}
			}
			if err == nil && math.Float64bits(v) != math.Float64bits(o.value) {
				return &AssertionError{
					Type:     AssertIdempotent,
					Expected: fmt.Sprintf("%s n=%d = %v", o.method, o.n, o.value),
					Actual:   fmt.Sprintf("%v with %d workers", v, workers),
				}
			}
		}
	}
	return nil
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
