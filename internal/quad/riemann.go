package quad

import "fmt"

// RiemannKind selects where each sub-interval is sampled.
type RiemannKind int

const (
	// Left samples x_i = a + i·h.
	Left RiemannKind = iota
	// Middle samples x_i = a + (i+0.5)·h.
	Middle
	// Right samples x_i = a + (i+1)·h.
	Right
)

// String returns the lowercase kind name.
func (k RiemannKind) String() string {
	switch k {
	case Left:
		return "left"
	case Middle:
		return "middle"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("RiemannKind(%d)", int(k))
	}
}

// Method returns the Method that runs this kind of Riemann sum.
func (k RiemannKind) Method() Method {
	switch k {
	case Left:
		return MethodRiemannLeft
	case Middle:
		return MethodRiemannMiddle
	case Right:
		return MethodRiemannRight
	default:
		return ""
	}
}

// ParseRiemannKind parses "left", "middle" or "right". Only exact names are
// accepted; "l" or "mid" are errors.
func ParseRiemannKind(s string) (RiemannKind, error) {
	switch s {
	case "left":
		return Left, nil
	case "middle":
		return Middle, nil
	case "right":
		return Right, nil
	}
	return 0, &Error{
		Code:    ErrCodeInvalidMethod,
		Message: fmt.Sprintf("unknown Riemann kind %q (want left, middle or right)", s),
	}
}

// Riemann returns h·Σ f(x_i) over the n samples selected by kind.
func Riemann(f Func, a, b float64, n int, kind RiemannKind, opts ...Option) (float64, error) {
	m := kind.Method()
	if m == "" {
		return 0, &Error{
			Code:    ErrCodeInvalidMethod,
			Message: fmt.Sprintf("unknown Riemann kind %d", int(kind)),
			N:       n,
		}
	}
	p, err := partitionFor(m, a, b, n)
	if err != nil {
		return 0, err
	}
	if a == b {
		return 0, nil
	}

	s := sampler{count: n}
	switch kind {
	case Left:
		s.x = p.At
	case Middle:
		s.x = p.Mid
	case Right:
		s.x = func(i int) float64 { return p.At(i + 1) }
	}

	sum, err := weightedSum(f, s, buildOptions(opts))
	if err != nil {
		return 0, withMethod(err, m, n)
	}
	return p.H * sum, nil
}
