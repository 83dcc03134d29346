package quad

// Trapezoid returns (h/2)·(f(x_0) + 2f(x_1) + … + 2f(x_{n-1}) + f(x_n)).
// With n == 1 this is exactly (b-a)/2·(f(a)+f(b)).
func Trapezoid(f Func, a, b float64, n int, opts ...Option) (float64, error) {
	p, err := partitionFor(MethodTrapezoid, a, b, n)
	if err != nil {
		return 0, err
	}
	if a == b {
		return 0, nil
	}

	sum, err := weightedSum(f, sampler{
		count: n + 1,
		x:     p.At,
		weight: func(i int) float64 {
			if i == 0 || i == n {
				return 1
			}
			return 2
		},
	}, buildOptions(opts))
	if err != nil {
		return 0, withMethod(err, MethodTrapezoid, n)
	}
	return p.H / 2 * sum, nil
}

// Simpson applies (h/3)·(f(x_0) + 4f(x_1) + f(x_2)) to each of the n/2 pairs
// of sub-intervals. n must be even; odd n is rejected, never truncated.
func Simpson(f Func, a, b float64, n int, opts ...Option) (float64, error) {
	p, err := partitionFor(MethodSimpson, a, b, n)
	if err != nil {
		return 0, err
	}
	if a == b {
		return 0, nil
	}

	sum, err := weightedSum(f, sampler{
		count: n + 1,
		x:     p.At,
		weight: func(i int) float64 {
			switch {
			case i == 0 || i == n:
				return 1
			case i%2 == 1:
				return 4
			default:
				return 2
			}
		},
	}, buildOptions(opts))
	if err != nil {
		return 0, withMethod(err, MethodSimpson, n)
	}
	return p.H * sum / 3, nil
}

// Bode applies Boole's rule (h/45)·(14f_0 + 64f_1 + 24f_2 + 64f_3 + 14f_4) to
// each of the n/4 groups of five points. n must be a multiple of 4.
func Bode(f Func, a, b float64, n int, opts ...Option) (float64, error) {
	p, err := partitionFor(MethodBode, a, b, n)
	if err != nil {
		return 0, err
	}
	if a == b {
		return 0, nil
	}

	sum, err := weightedSum(f, sampler{
		count: n + 1,
		x:     p.At,
		weight: func(i int) float64 {
			if i == 0 || i == n {
				return 14
			}
			switch i % 4 {
			case 1, 3:
				return 64
			case 2:
				return 24
			default:
				// shared endpoint of two groups
				return 28
			}
		},
	}, buildOptions(opts))
	if err != nil {
		return 0, withMethod(err, MethodBode, n)
	}
	return p.H * sum / 45, nil
}

// partitionFor validates n and the interval for m and builds the grid.
func partitionFor(m Method, a, b float64, n int) (Partition, error) {
	if err := m.ValidN(n); err != nil {
		return Partition{}, err
	}
	p, err := NewPartition(a, b, n)
	if err != nil {
		return Partition{}, withMethod(err, m, n)
	}
	return p, nil
}

func withMethod(err error, m Method, n int) error {
	if qe, ok := err.(*Error); ok && qe.Method == "" {
		qe.Method = m
		qe.N = n
	}
	return err
}
