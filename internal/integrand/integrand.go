package integrand

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/roach88/quadrature/internal/ir"
	"github.com/roach88/quadrature/internal/quad"
)

// Integrand is a function together with its antiderivative.
type Integrand struct {
	// Name is the catalog key, or "poly" for polynomials.
	Name string

	// Expr is a human-readable formula.
	Expr string

	// F evaluates the integrand.
	F quad.Func

	// Antiderivative is any F' = f on Domain.
	Antiderivative func(x float64) float64

	// Domain is the closed interval where F is defined.
	Domain [2]float64

	// Smooth is false when a derivative blows up inside or at the edge of
	// Domain; convergence orders do not apply there.
	Smooth bool

	// Degree is the polynomial degree, or -1 for non-polynomials.
	Degree int
}

// Exact returns ∫_a^b f(x) dx from the antiderivative.
func (in Integrand) Exact(a, b float64) float64 {
	return in.Antiderivative(b) - in.Antiderivative(a)
}

// Contains reports whether [a, b] lies inside the domain.
func (in Integrand) Contains(a, b float64) bool {
	return a >= in.Domain[0] && b <= in.Domain[1]
}

var catalog = map[string]Integrand{
	"exp": {
		Name:           "exp",
		Expr:           "e^x",
		F:              math.Exp,
		Antiderivative: math.Exp,
		Domain:         [2]float64{math.Inf(-1), math.Inf(1)},
		Smooth:         true,
		Degree:         -1,
	},
	"sin_half_pi": {
		Name: "sin_half_pi",
		Expr: "sin(πx/2)",
		F:    func(x float64) float64 { return math.Sin(math.Pi * x / 2) },
		Antiderivative: func(x float64) float64 {
			return -2 / math.Pi * math.Cos(math.Pi*x/2)
		},
		Domain: [2]float64{math.Inf(-1), math.Inf(1)},
		Smooth: true,
		Degree: -1,
	},
	"quarter_circle": {
		Name: "quarter_circle",
		Expr: "√(1−x²)",
		F:    func(x float64) float64 { return math.Sqrt(1 - x*x) },
		Antiderivative: func(x float64) float64 {
			return (x*math.Sqrt(1-x*x) + math.Asin(x)) / 2
		},
		Domain: [2]float64{-1, 1},
		Smooth: false,
		Degree: -1,
	},
	"cos": {
		Name:           "cos",
		Expr:           "cos(x)",
		F:              math.Cos,
		Antiderivative: math.Sin,
		Domain:         [2]float64{math.Inf(-1), math.Inf(1)},
		Smooth:         true,
		Degree:         -1,
	},
	"runge": {
		Name:           "runge",
		Expr:           "1/(1+x²)",
		F:              func(x float64) float64 { return 1 / (1 + x*x) },
		Antiderivative: math.Atan,
		Domain:         [2]float64{math.Inf(-1), math.Inf(1)},
		Smooth:         true,
		Degree:         -1,
	},
}

// Lookup returns the catalog integrand with the given name.
func Lookup(name string) (Integrand, error) {
	in, ok := catalog[name]
	if !ok {
		return Integrand{}, fmt.Errorf("unknown integrand %q (known: %s)", name, strings.Join(Names(), ", "))
	}
	return in, nil
}

// Names returns the catalog keys sorted.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve turns an IR reference into an Integrand. Exactly one of Name and
// Poly must be set.
func Resolve(ref ir.IntegrandRef) (Integrand, error) {
	switch {
	case ref.Name != "" && len(ref.Poly) > 0:
		return Integrand{}, fmt.Errorf("integrand reference sets both name %q and poly", ref.Name)
	case ref.Name != "":
		return Lookup(ref.Name)
	case len(ref.Poly) > 0:
		return Polynomial(ref.Poly...), nil
	}
	return Integrand{}, fmt.Errorf("integrand reference is empty")
}

// Polynomial returns c[0] + c[1]x + … + c[k]x^k.
// Trailing zero coefficients do not count towards Degree.
func Polynomial(coeffs ...float64) Integrand {
	c := append([]float64(nil), coeffs...)
	deg := len(c) - 1
	for deg > 0 && c[deg] == 0 {
		deg--
	}

	anti := make([]float64, len(c)+1)
	for i, ci := range c {
		anti[i+1] = ci / float64(i+1)
	}

	return Integrand{
		Name:           "poly",
		Expr:           polyExpr(c),
		F:              horner(c),
		Antiderivative: horner(anti),
		Domain:         [2]float64{math.Inf(-1), math.Inf(1)},
		Smooth:         true,
		Degree:         deg,
	}
}

func horner(c []float64) func(float64) float64 {
	return func(x float64) float64 {
		var y float64
		for i := len(c) - 1; i >= 0; i-- {
			y = y*x + c[i]
		}
		return y
	}
}

func polyExpr(c []float64) string {
	var terms []string
	for i, ci := range c {
		if ci == 0 {
			continue
		}
		coef := strconv.FormatFloat(ci, 'g', -1, 64)
		switch i {
		case 0:
			terms = append(terms, coef)
		case 1:
			terms = append(terms, coef+"x")
		default:
			terms = append(terms, fmt.Sprintf("%sx^%d", coef, i))
		}
	}
	if len(terms) == 0 {
		return "0"
	}
	return strings.Join(terms, " + ")
}
