package quad

import (
	"math"

	"golang.org/x/sync/errgroup"
)

// chunkSize is the number of samples reduced into one partial sum.
// Partial sums are always added in chunk order, serial or parallel.
const chunkSize = 256

// Option configures a quadrature call.
type Option func(*options)

type options struct {
	workers int
}

// WithWorkers evaluates samples on up to n goroutines.
// Values below 2 keep evaluation on the calling goroutine. The integrand must
// be safe for concurrent use when n > 1.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// sampler describes count weighted samples. A nil weight means 1.
type sampler struct {
	count  int
	x      func(i int) float64
	weight func(i int) float64
}

// weightedSum returns Σ weight(i)·f(x(i)) for i in [0, count).
// The first non-finite sample (lowest index) is reported as a domain error.
func weightedSum(f Func, s sampler, o options) (float64, error) {
	chunks := (s.count + chunkSize - 1) / chunkSize
	partial := make([]float64, chunks)
	errs := make([]error, chunks)

	reduce := func(c int) {
		lo := c * chunkSize
		hi := min(lo+chunkSize, s.count)
		var acc float64
		for i := lo; i < hi; i++ {
			x := s.x(i)
			y := f(x)
			if math.IsNaN(y) || math.IsInf(y, 0) {
				errs[c] = newDomainError(x, y)
				return
			}
			if s.weight != nil {
				y *= s.weight(i)
			}
			acc += y
		}
		partial[c] = acc
	}

	if o.workers < 2 || chunks < 2 {
		for c := range chunks {
			reduce(c)
			if errs[c] != nil {
				return 0, errs[c]
			}
		}
	} else {
		var g errgroup.Group
		g.SetLimit(o.workers)
		for c := range chunks {
			g.Go(func() error {
				reduce(c)
				return nil
			})
		}
		_ = g.Wait()
	}

	var total float64
	for c := range chunks {
		if errs[c] != nil {
			return 0, errs[c]
		}
		total += partial[c]
	}
	return total, nil
}
