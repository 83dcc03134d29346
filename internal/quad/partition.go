package quad

import (
	"fmt"
	"math"
)

// Partition is an equally spaced grid of N+1 abscissas on [A, B].
//
// H is computed once as (B-A)/N. At(N) is exactly B so the last sample never
// drifts past the interval.
type Partition struct {
	A, B float64
	H    float64
	N    int
}

// NewPartition builds the partition of [a, b] into n sub-intervals.
func NewPartition(a, b float64, n int) (Partition, error) {
	if err := checkInterval(a, b); err != nil {
		return Partition{}, err
	}
	if n <= 0 {
		return Partition{}, newSubdivisionError("", n, "subdivision count must be positive")
	}
	return Partition{A: a, B: b, H: (b - a) / float64(n), N: n}, nil
}

// At returns the i-th abscissa, 0 <= i <= N.
func (p Partition) At(i int) float64 {
	if i == p.N {
		return p.B
	}
	return p.A + float64(i)*p.H
}

// Mid returns the midpoint of the i-th sub-interval, 0 <= i < N.
func (p Partition) Mid(i int) float64 {
	return p.A + (float64(i)+0.5)*p.H
}

// Points returns all N+1 abscissas including both endpoints.
func (p Partition) Points() []float64 {
	xs := make([]float64, p.N+1)
	for i := range xs {
		xs[i] = p.At(i)
	}
	return xs
}

func checkInterval(a, b float64) error {
	if math.IsNaN(a) || math.IsNaN(b) || math.IsInf(a, 0) || math.IsInf(b, 0) {
		return &Error{
			Code:    ErrCodeInvalidInterval,
			Message: fmt.Sprintf("interval bounds must be finite (a=%v, b=%v)", a, b),
		}
	}
	if a > b {
		return &Error{
			Code:    ErrCodeInvalidInterval,
			Message: fmt.Sprintf("lower bound exceeds upper bound (a=%v, b=%v)", a, b),
		}
	}
	return nil
}
