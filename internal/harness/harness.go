package harness

import (
	"errors"
	"fmt"
	"math"

	"github.com/roach88/quadrature/internal/integrand"
	"github.com/roach88/quadrature/internal/quad"
)

// Harness evaluates one scenario. Build it with Run.
type Harness struct {
	scenario  *Scenario
	integrand integrand.Integrand
	a, b      float64
	outcomes  []outcome
}

// outcome is the recorded result of one case.
type outcome struct {
	method string
	n      int
	value  float64
	err    error
}

// Run executes a scenario and returns the result.
//
// Cases run in order and each is traced. Assertions run afterwards against
// the recorded outcomes, re-evaluating the rules where they need more data.
// The returned error is reserved for scenarios that cannot run at all, such
// as an unknown integrand; failed expectations land in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	if len(scenario.Interval) != 2 {
		return nil, fmt.Errorf("interval must have exactly 2 bounds, got %d", len(scenario.Interval))
	}
	in, err := integrand.Resolve(scenario.Integrand)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve integrand: %w", err)
	}

	h := &Harness{
		scenario:  scenario,
		integrand: in,
		a:         scenario.Interval[0],
		b:         scenario.Interval[1],
	}

	result := NewResult()
	for i, c := range scenario.Cases {
		h.runCase(i, c, result)
	}

	for i, a := range scenario.Assertions {
		err := h.evaluateAssertion(a)
		result.addAssertionTrace(a.Type, a.Method, err == nil)
		if err != nil {
			result.AddError(fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}

	return result, nil
}

// eval runs method at n with the given worker count.
func (h *Harness) eval(method string, n, workers int) (float64, error) {
	m, err := quad.ParseMethod(method)
	if err != nil {
		return 0, err
	}
	var opts []quad.Option
	if workers > 1 {
		opts = append(opts, quad.WithWorkers(workers))
	}
	return quad.Integrate(m, h.integrand.F, h.a, h.b, n, opts...)
}

func (h *Harness) runCase(i int, c Case, result *Result) {
	value, err := h.eval(c.Method, c.N, h.scenario.Workers)
	h.outcomes = append(h.outcomes, outcome{method: c.Method, n: c.N, value: value, err: err})

	code := errorCode(err)
	if err != nil {
		var x *float64
		var qe *quad.Error
		if errors.As(err, &qe) && qe.Code == quad.ErrCodeDomain {
			x = &qe.X
		}
		result.addCaseTrace(c.Method, c.N, nil, code, x)
	} else {
		result.addCaseTrace(c.Method, c.N, &value, "", nil)
	}

	label := fmt.Sprintf("cases[%d] %s n=%d", i, c.Method, c.N)
	switch {
	case c.Expect == nil:
		if err != nil {
			result.AddError(fmt.Sprintf("%s: unexpected error: %v", label, err))
		}
	case c.Expect.Error != "":
		if err == nil {
			result.AddError(fmt.Sprintf("%s: expected error %s, got value %v", label, c.Expect.Error, value))
		} else if code != c.Expect.Error {
			result.AddError(fmt.Sprintf("%s: expected error %s, got %s", label, c.Expect.Error, code))
		}
	default:
		if err != nil {
			result.AddError(fmt.Sprintf("%s: unexpected error: %v", label, err))
		} else if !within(value, *c.Expect.Value, c.Expect.Tolerance) {
			result.AddError(fmt.Sprintf("%s: expected %v ± %g, got %v", label, *c.Expect.Value, c.Expect.Tolerance, value))
		}
	}
}

// errorCode returns the quad error code of err, or "ERROR" for anything
// that is not a quad.Error.
func errorCode(err error) string {
	if err == nil {
		return ""
	}
	if code := quad.CodeOf(err); code != "" {
		return string(code)
	}
	return "ERROR"
}

// within compares with zero tolerance meaning exact equality.
func within(got, want, tol float64) bool {
	if tol == 0 {
		return got == want
	}
	return math.Abs(got-want) <= tol
}
