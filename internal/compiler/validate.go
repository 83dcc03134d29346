package compiler

import (
	"fmt"
	"math"

	"github.com/roach88/quadrature/internal/integrand"
	"github.com/roach88/quadrature/internal/ir"
	"github.com/roach88/quadrature/internal/quad"
)

// Validation error codes (E200-E299)
const (
	ErrStudyNameEmpty      = "E201" // study name is required
	ErrInvalidInterval     = "E202" // bounds not finite or a > b
	ErrUnknownIntegrand    = "E203" // integrand does not resolve
	ErrOutsideDomain       = "E204" // interval leaves the integrand's domain
	ErrNoMethods           = "E205" // at least one method required
	ErrUnknownMethod       = "E206" // method name not recognised
	ErrInvalidSubdivisions = "E207" // missing or non-positive N
	ErrIncompatibleN       = "E208" // N violates a method's constraint
	ErrInvalidThreshold    = "E209" // floor or tolerance out of range
)

// ValidationError represents a study validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a compiled study and returns every problem found.
// It does not fail fast.
func Validate(spec *ir.StudySpec) []ValidationError {
	var errs []ValidationError
	add := func(field, code, format string, args ...any) {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf(format, args...),
			Code:    code,
		})
	}

	if spec.Name == "" {
		add("name", ErrStudyNameEmpty, "study name is required")
	}

	intervalOK := true
	if !isFinite(spec.A) || !isFinite(spec.B) {
		add("interval", ErrInvalidInterval, "interval bounds must be finite, got [%g, %g]", spec.A, spec.B)
		intervalOK = false
	} else if spec.A > spec.B {
		add("interval", ErrInvalidInterval, "interval lower bound %g exceeds upper bound %g", spec.A, spec.B)
		intervalOK = false
	}

	if in, err := integrand.Resolve(spec.Integrand); err != nil {
		add("integrand", ErrUnknownIntegrand, "%v", err)
	} else if intervalOK && !in.Contains(spec.A, spec.B) {
		add("interval", ErrOutsideDomain, "interval [%g, %g] leaves the domain of %s [%g, %g]",
			spec.A, spec.B, in.Name, in.Domain[0], in.Domain[1])
	}

	if len(spec.Methods) == 0 {
		add("methods", ErrNoMethods, "at least one method is required")
	}
	seenMethod := make(map[string]bool)
	var methods []quad.Method
	for _, name := range spec.Methods {
		m, err := quad.ParseMethod(name)
		if err != nil {
			add("methods", ErrUnknownMethod, "unknown method %q", name)
			continue
		}
		if seenMethod[name] {
			add("methods", ErrUnknownMethod, "method %q listed twice", name)
			continue
		}
		seenMethod[name] = true
		methods = append(methods, m)
	}

	if len(spec.Subdivisions) == 0 {
		add("subdivisions", ErrInvalidSubdivisions, "at least one subdivision count is required")
	}
	seenN := make(map[int]bool)
	for _, n := range spec.Subdivisions {
		if n <= 0 {
			add("subdivisions", ErrInvalidSubdivisions, "subdivision count must be positive, got %d", n)
			continue
		}
		if seenN[n] {
			add("subdivisions", ErrInvalidSubdivisions, "subdivision count %d listed twice", n)
			continue
		}
		seenN[n] = true
		for _, m := range methods {
			if err := m.ValidN(n); err != nil {
				add("subdivisions", ErrIncompatibleN, "%s cannot use n=%d: %s", m, n, quadMessage(err))
			}
		}
	}

	if !isFinite(spec.Floor) || spec.Floor < 0 {
		add("floor", ErrInvalidThreshold, "floor must be a finite non-negative number, got %g", spec.Floor)
	}
	if !isFinite(spec.Tolerance) || spec.Tolerance <= 0 {
		add("tolerance", ErrInvalidThreshold, "tolerance must be a finite positive number, got %g", spec.Tolerance)
	}

	return errs
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// quadMessage keeps the human part of a quad.Error.
func quadMessage(err error) string {
	if qe, ok := err.(*quad.Error); ok {
		return qe.Message
	}
	return err.Error()
}
