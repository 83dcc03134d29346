package compiler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/quadrature/internal/ir"
)

func validStudy() *ir.StudySpec {
	return &ir.StudySpec{
		Name:         "unit",
		Integrand:    ir.IntegrandRef{Name: "exp"},
		A:            0,
		B:            1,
		Methods:      []string{"trapezoid", "simpson", "bode"},
		Subdivisions: []int{8, 16},
		Floor:        DefaultFloor,
		Tolerance:    DefaultTolerance,
		CheckOrder:   true,
	}
}

func codes(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func TestValidateValidStudy(t *testing.T) {
	assert.Empty(t, Validate(validStudy()))
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ir.StudySpec)
		codes  []string
	}{
		{"empty name", func(s *ir.StudySpec) { s.Name = "" }, []string{ErrStudyNameEmpty}},
		{"reversed interval", func(s *ir.StudySpec) { s.A, s.B = 1, 0 }, []string{ErrInvalidInterval}},
		{"infinite bound", func(s *ir.StudySpec) { s.B = math.Inf(1) }, []string{ErrInvalidInterval}},
		{"unknown integrand", func(s *ir.StudySpec) { s.Integrand = ir.IntegrandRef{Name: "tan"} }, []string{ErrUnknownIntegrand}},
		{"empty integrand", func(s *ir.StudySpec) { s.Integrand = ir.IntegrandRef{} }, []string{ErrUnknownIntegrand}},
		{"outside domain", func(s *ir.StudySpec) {
			s.Integrand = ir.IntegrandRef{Name: "quarter_circle"}
			s.B = 2
		}, []string{ErrOutsideDomain}},
		{"no methods", func(s *ir.StudySpec) { s.Methods = nil }, []string{ErrNoMethods}},
		{"unknown method", func(s *ir.StudySpec) { s.Methods = []string{"gauss"} }, []string{ErrUnknownMethod}},
		{"duplicate method", func(s *ir.StudySpec) { s.Methods = []string{"simpson", "simpson"} }, []string{ErrUnknownMethod}},
		{"no subdivisions", func(s *ir.StudySpec) { s.Subdivisions = nil }, []string{ErrInvalidSubdivisions}},
		{"zero subdivisions", func(s *ir.StudySpec) { s.Subdivisions = []int{0} }, []string{ErrInvalidSubdivisions}},
		{"duplicate subdivisions", func(s *ir.StudySpec) { s.Subdivisions = []int{8, 8} }, []string{ErrInvalidSubdivisions}},
		{"odd n for simpson and bode", func(s *ir.StudySpec) { s.Subdivisions = []int{7} }, []string{ErrIncompatibleN, ErrIncompatibleN}},
		{"n=6 for bode", func(s *ir.StudySpec) { s.Subdivisions = []int{6} }, []string{ErrIncompatibleN}},
		{"negative floor", func(s *ir.StudySpec) { s.Floor = -1 }, []string{ErrInvalidThreshold}},
		{"zero tolerance", func(s *ir.StudySpec) { s.Tolerance = 0 }, []string{ErrInvalidThreshold}},
		{"nan tolerance", func(s *ir.StudySpec) { s.Tolerance = math.NaN() }, []string{ErrInvalidThreshold}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := validStudy()
			tt.mutate(spec)
			assert.Equal(t, tt.codes, codes(Validate(spec)))
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	spec := &ir.StudySpec{
		A:         2,
		B:         1,
		Methods:   []string{"nope"},
		Tolerance: -1,
	}
	errs := Validate(spec)

	assert.Equal(t, []string{
		ErrStudyNameEmpty,
		ErrInvalidInterval,
		ErrUnknownIntegrand,
		ErrUnknownMethod,
		ErrInvalidSubdivisions,
		ErrInvalidThreshold,
	}, codes(errs))
}

func TestValidateIncompatibleMessage(t *testing.T) {
	spec := validStudy()
	spec.Methods = []string{"bode"}
	spec.Subdivisions = []int{6}

	errs := Validate(spec)
	require.Len(t, errs, 1)
	assert.Equal(t, "[E208] subdivisions: bode cannot use n=6: subdivision count must be a multiple of 4", errs[0].Error())
}

func TestValidationErrorFormatting(t *testing.T) {
	err := ValidationError{Field: "interval", Message: "bad", Code: ErrInvalidInterval, Line: 4}
	assert.Equal(t, "[E202] line 4: interval: bad", err.Error())
}
