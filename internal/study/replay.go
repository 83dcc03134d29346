package study

import (
	"context"
	"fmt"
	"math"

	"github.com/roach88/quadrature/internal/ir"
)

// ReplayResult compares a stored result with a fresh run of its spec.
type ReplayResult struct {
	StudyName   string `json:"study_name"`
	Stored      string `json:"stored"`   // fingerprint of the stored result
	Replayed    string `json:"replayed"` // fingerprint of the new run
	Identical   bool   `json:"identical"`
	Differences []Diff `json:"differences,omitempty"`
}

// Diff is one measurement whose bits changed.
type Diff struct {
	Method   string  `json:"method"`
	N        int     `json:"n"`
	Stored   float64 `json:"stored"`
	Replayed float64 `json:"replayed"`
}

// Replay re-runs stored.Study and reports whether every measurement is
// bit-identical to the stored one.
func Replay(ctx context.Context, r *Runner, stored *ir.StudyResult) (*ReplayResult, error) {
	storedFP, err := ir.ResultFingerprint(*stored)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", stored.Study.Name, err)
	}

	fresh, err := r.Run(ctx, stored.Study)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", stored.Study.Name, err)
	}
	freshFP, err := ir.ResultFingerprint(*fresh)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", stored.Study.Name, err)
	}

	out := &ReplayResult{
		StudyName: stored.Study.Name,
		Stored:    storedFP,
		Replayed:  freshFP,
		Identical: storedFP == freshFP,
	}
	if out.Identical {
		return out, nil
	}

	n := min(len(stored.Measurements), len(fresh.Measurements))
	for i := 0; i < n; i++ {
		s, f := stored.Measurements[i], fresh.Measurements[i]
		if s.Method != f.Method || s.N != f.N || math.Float64bits(s.Value) != math.Float64bits(f.Value) {
			out.Differences = append(out.Differences, Diff{
				Method:   f.Method,
				N:        f.N,
				Stored:   s.Value,
				Replayed: f.Value,
			})
		}
	}
	return out, nil
}
