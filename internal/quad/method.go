package quad

import "fmt"

// Method names a quadrature rule.
type Method string

const (
	MethodRiemannLeft   Method = "riemann-left"
	MethodRiemannMiddle Method = "riemann-middle"
	MethodRiemannRight  Method = "riemann-right"
	MethodTrapezoid     Method = "trapezoid"
	MethodSimpson       Method = "simpson"
	MethodBode          Method = "bode"
)

type methodInfo struct {
	order  int // error ∝ N^-order for smooth integrands
	degree int // highest polynomial degree integrated exactly
	step   int // N must be a positive multiple of step
}

var methods = map[Method]methodInfo{
	MethodRiemannLeft:   {order: 1, degree: 0, step: 1},
	MethodRiemannMiddle: {order: 2, degree: 1, step: 1},
	MethodRiemannRight:  {order: 1, degree: 0, step: 1},
	MethodTrapezoid:     {order: 2, degree: 1, step: 1},
	MethodSimpson:       {order: 4, degree: 3, step: 2},
	MethodBode:          {order: 6, degree: 5, step: 4},
}

// Methods returns every rule in increasing order of accuracy.
func Methods() []Method {
	return []Method{
		MethodRiemannLeft,
		MethodRiemannRight,
		MethodRiemannMiddle,
		MethodTrapezoid,
		MethodSimpson,
		MethodBode,
	}
}

// ParseMethod returns the Method with exactly the given name.
func ParseMethod(s string) (Method, error) {
	m := Method(s)
	if !m.Valid() {
		return "", &Error{
			Code:    ErrCodeInvalidMethod,
			Message: fmt.Sprintf("unknown method %q", s),
		}
	}
	return m, nil
}

// Valid reports whether m names a known rule.
func (m Method) Valid() bool {
	_, ok := methods[m]
	return ok
}

// Order is the expected convergence order for smooth integrands.
func (m Method) Order() int {
	return methods[m].order
}

// Degree is the highest polynomial degree the rule integrates exactly.
func (m Method) Degree() int {
	return methods[m].degree
}

// Step is the value N must be a multiple of.
func (m Method) Step() int {
	return methods[m].step
}

// ValidN reports whether n subdivisions are acceptable for m.
func (m Method) ValidN(n int) error {
	info, ok := methods[m]
	if !ok {
		return &Error{
			Code:    ErrCodeInvalidMethod,
			Message: fmt.Sprintf("unknown method %q", string(m)),
			N:       n,
		}
	}
	if n <= 0 {
		return newSubdivisionError(m, n, "subdivision count must be positive")
	}
	if n%info.step != 0 {
		switch info.step {
		case 2:
			return newSubdivisionError(m, n, "subdivision count must be even")
		default:
			return newSubdivisionError(m, n, fmt.Sprintf("subdivision count must be a multiple of %d", info.step))
		}
	}
	return nil
}

// Integrate runs the rule named by m.
func Integrate(m Method, f Func, a, b float64, n int, opts ...Option) (float64, error) {
	switch m {
	case MethodRiemannLeft:
		return Riemann(f, a, b, n, Left, opts...)
	case MethodRiemannMiddle:
		return Riemann(f, a, b, n, Middle, opts...)
	case MethodRiemannRight:
		return Riemann(f, a, b, n, Right, opts...)
	case MethodTrapezoid:
		return Trapezoid(f, a, b, n, opts...)
	case MethodSimpson:
		return Simpson(f, a, b, n, opts...)
	case MethodBode:
		return Bode(f, a, b, n, opts...)
	}
	return 0, &Error{
		Code:    ErrCodeInvalidMethod,
		Message: fmt.Sprintf("unknown method %q", string(m)),
		N:       n,
	}
}
