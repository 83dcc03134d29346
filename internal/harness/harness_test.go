package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/quadrature/internal/ir"
)

func TestRunExpOrdersScenario(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "exp_orders.yaml"))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)

	// Two cases then five assertions.
	require.Len(t, result.Trace, 7)
	assert.Equal(t, EventCase, result.Trace[0].Type)
	assert.Equal(t, EventAssertion, result.Trace[2].Type)
	for i, e := range result.Trace {
		assert.Equal(t, int64(i+1), e.Seq)
	}
}

func TestRunCaseFailures(t *testing.T) {
	tests := []struct {
		name string
		c    Case
		want string
	}{
		{"wrong value", Case{Method: "trapezoid", N: 1, Expect: &Expect{Value: ptr(3)}}, "expected 3 ± 0, got 2"},
		{"outside tolerance", Case{Method: "riemann-left", N: 2, Expect: &Expect{Value: ptr(2), Tolerance: 0.25}}, "expected 2 ± 0.25, got 1.5"},
		{"expected error got value", Case{Method: "trapezoid", N: 2, Expect: &Expect{Error: "DOMAIN_ERROR"}}, "expected error DOMAIN_ERROR, got value 2"},
		{"wrong error code", Case{Method: "simpson", N: 3, Expect: &Expect{Error: "DOMAIN_ERROR"}}, "expected error DOMAIN_ERROR, got INVALID_SUBDIVISION_COUNT"},
		{"unexpected error", Case{Method: "bode", N: 2}, "unexpected error"},
		{"unknown method", Case{Method: "gauss", N: 2}, "unknown method"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Scenario{
				Name:        "failing",
				Description: "d",
				Integrand:   ir.IntegrandRef{Poly: []float64{1, 2}},
				Interval:    []float64{0, 1},
				Cases:       []Case{tt.c},
			}
			result, err := Run(s)
			require.NoError(t, err)
			assert.False(t, result.Pass)
			require.Len(t, result.Errors, 1)
			assert.Contains(t, result.Errors[0], tt.want)
		})
	}
}

func TestRunTolerancePasses(t *testing.T) {
	s := &Scenario{
		Name:        "tolerance",
		Description: "d",
		Integrand:   ir.IntegrandRef{Poly: []float64{1, 2}},
		Interval:    []float64{0, 1},
		Cases:       []Case{{Method: "riemann-left", N: 2, Expect: &Expect{Value: ptr(2), Tolerance: 0.5}}},
	}
	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass)
}

func TestRunReversedInterval(t *testing.T) {
	s := &Scenario{
		Name:        "reversed",
		Description: "d",
		Integrand:   ir.IntegrandRef{Name: "exp"},
		Interval:    []float64{1, 0},
		Cases:       []Case{{Method: "trapezoid", N: 4, Expect: &Expect{Error: "INVALID_INTERVAL"}}},
	}
	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "INVALID_INTERVAL", result.Trace[0].Error)
	assert.Nil(t, result.Trace[0].Value)
}

func TestRunAssertionFailures(t *testing.T) {
	tests := []struct {
		name      string
		integrand ir.IntegrandRef
		interval  []float64
		cases     []Case
		assertion Assertion
		want      string
	}{
		{
			name:      "exact fails for riemann",
			integrand: ir.IntegrandRef{Poly: []float64{1, 2}},
			interval:  []float64{0, 1},
			cases:     []Case{{Method: "riemann-left", N: 2}},
			assertion: Assertion{Type: AssertExact},
			want:      "exact: expected 2 ± 0, got 1.5 from riemann-left n=2",
		},
		{
			name:      "exact with no matching cases",
			integrand: ir.IntegrandRef{Poly: []float64{1, 2}},
			interval:  []float64{0, 1},
			cases:     []Case{{Method: "trapezoid", N: 2}},
			assertion: Assertion{Type: AssertExact, Method: "simpson"},
			want:      "at least one successful case",
		},
		{
			name:      "order of a non-smooth integrand",
			integrand: ir.IntegrandRef{Name: "quarter_circle"},
			interval:  []float64{0, 1},
			cases:     []Case{{Method: "trapezoid", N: 8}},
			assertion: Assertion{Type: AssertOrder, Method: "trapezoid", Subdivisions: []int{8, 16, 32, 64}},
			want:      "order: expected order 2 ± 0.2",
		},
		{
			name:      "order with too few points",
			integrand: ir.IntegrandRef{Poly: []float64{1, 2}},
			interval:  []float64{0, 1},
			cases:     []Case{{Method: "trapezoid", N: 8}},
			assertion: Assertion{Type: AssertOrder, Method: "trapezoid", Subdivisions: []int{8, 16}},
			want:      "(exact)",
		},
		{
			name:      "converges with an invalid n",
			integrand: ir.IntegrandRef{Name: "exp"},
			interval:  []float64{0, 1},
			cases:     []Case{{Method: "simpson", N: 8}},
			assertion: Assertion{Type: AssertConverges, Method: "simpson", Subdivisions: []int{8, 9}},
			want:      "INVALID_SUBDIVISION_COUNT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Scenario{
				Name:        "assertions",
				Description: "d",
				Integrand:   tt.integrand,
				Interval:    tt.interval,
				Cases:       tt.cases,
				Assertions:  []Assertion{tt.assertion},
			}
			result, err := Run(s)
			require.NoError(t, err)
			assert.False(t, result.Pass)
			require.Len(t, result.Errors, 1)
			assert.Contains(t, result.Errors[0], tt.want)

			last := result.Trace[len(result.Trace)-1]
			assert.Equal(t, EventAssertion, last.Type)
			require.NotNil(t, last.Pass)
			assert.False(t, *last.Pass)
		})
	}
}

func TestRunConvergesPasses(t *testing.T) {
	s := &Scenario{
		Name:        "converges",
		Description: "d",
		Integrand:   ir.IntegrandRef{Name: "sin_half_pi"},
		Interval:    []float64{0, 1},
		Cases:       []Case{{Method: "simpson", N: 8}},
		Assertions: []Assertion{
			{Type: AssertConverges, Method: "simpson", Subdivisions: []int{32, 8, 16}},
			{Type: AssertOrder, Method: "simpson", Subdivisions: []int{8, 16, 32, 64}},
		},
	}
	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRunErrors(t *testing.T) {
	_, err := Run(&Scenario{Name: "s", Integrand: ir.IntegrandRef{Name: "tan"}, Interval: []float64{0, 1}})
	assert.ErrorContains(t, err, "failed to resolve integrand")

	_, err = Run(&Scenario{Name: "s", Integrand: ir.IntegrandRef{Name: "exp"}})
	assert.ErrorContains(t, err, "exactly 2 bounds")
}

func TestAssertionErrorFormatting(t *testing.T) {
	err := &AssertionError{Type: AssertOrder, Expected: "order 4 ± 0.2", Actual: "3.100 over 4 points (fail)"}
	assert.Equal(t, "order: expected order 4 ± 0.2, got 3.100 over 4 points (fail)", err.Error())
}
