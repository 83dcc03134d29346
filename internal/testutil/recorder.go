package testutil

import (
	"slices"
	"sync"
)

// RecordingFunc wraps an integrand and records every abscissa it is called at.
//
// Use rec.F wherever a quad.Func is expected. Thread-safe, so it also works
// with quad.WithWorkers.
type RecordingFunc struct {
	mu sync.Mutex
	f  func(float64) float64
	xs []float64
}

// NewRecordingFunc wraps f.
func NewRecordingFunc(f func(float64) float64) *RecordingFunc {
	return &RecordingFunc{f: f}
}

// F evaluates the wrapped integrand and records x.
func (r *RecordingFunc) F(x float64) float64 {
	r.mu.Lock()
	r.xs = append(r.xs, x)
	r.mu.Unlock()
	return r.f(x)
}

// Calls returns the number of evaluations since the last Reset.
func (r *RecordingFunc) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.xs)
}

// Points returns the recorded abscissas sorted ascending.
// Sorting makes parallel and serial recordings comparable.
func (r *RecordingFunc) Points() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	xs := slices.Clone(r.xs)
	slices.Sort(xs)
	return xs
}

// Reset forgets all recorded calls.
func (r *RecordingFunc) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.xs = nil
}
