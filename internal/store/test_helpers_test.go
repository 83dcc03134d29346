package store

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/roach88/quadrature/internal/ir"
)

// createTestStore opens a fresh store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestResult builds a small deterministic result without running the
// quadrature rules.
func createTestResult(name string, values ...float64) *ir.StudyResult {
	spec := ir.StudySpec{
		Name:         name,
		Integrand:    ir.IntegrandRef{Poly: []float64{0, 1}},
		A:            0,
		B:            1,
		Methods:      []string{"trapezoid"},
		Subdivisions: []int{1, 2},
		Floor:        1e-12,
		Tolerance:    0.2,
		CheckOrder:   true,
	}
	result := &ir.StudyResult{
		StudyID: ir.MustStudyID(spec),
		Study:   spec,
		Exact:   0.5,
		Fits: []ir.OrderFit{
			{Method: "trapezoid", Expected: 2, Points: 0, Status: ir.FitExact},
		},
	}
	for i, v := range values {
		result.Measurements = append(result.Measurements, ir.Measurement{
			Method:   "trapezoid",
			N:        i + 1,
			Value:    v,
			AbsError: math.Abs(v - 0.5),
		})
	}
	return result
}
