package integrand

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/quadrature/internal/ir"
)

func TestCatalogExactValues(t *testing.T) {
	tests := []struct {
		name string
		want float64
	}{
		{"exp", math.E - 1},
		{"sin_half_pi", 2 / math.Pi},
		{"quarter_circle", math.Pi / 4},
		{"cos", math.Sin(1)},
		{"runge", math.Pi / 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := Lookup(tt.name)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, in.Exact(0, 1), 1e-15)
		})
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("gamma")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exp")
}

func TestNamesSorted(t *testing.T) {
	assert.Equal(t, []string{"cos", "exp", "quarter_circle", "runge", "sin_half_pi"}, Names())
}

func TestQuarterCircleDomain(t *testing.T) {
	in, err := Lookup("quarter_circle")
	require.NoError(t, err)

	assert.True(t, in.Contains(0, 1))
	assert.False(t, in.Contains(0, 2))
	assert.False(t, in.Smooth)
	assert.True(t, math.IsNaN(in.F(1.5)))
}

func TestPolynomial(t *testing.T) {
	p := Polynomial(1, 0, 3) // 1 + 3x²

	assert.Equal(t, 2, p.Degree)
	assert.Equal(t, 13.0, p.F(2))
	assert.Equal(t, 2.0, p.Exact(0, 1))
	assert.Equal(t, "1 + 3x^2", p.Expr)
}

func TestPolynomialTrailingZeros(t *testing.T) {
	p := Polynomial(0, 1, 0, 0)
	assert.Equal(t, 1, p.Degree)
	assert.Equal(t, "1x", p.Expr)
	assert.Equal(t, "0", Polynomial(0).Expr)
}

func TestResolve(t *testing.T) {
	in, err := Resolve(ir.IntegrandRef{Name: "exp"})
	require.NoError(t, err)
	assert.Equal(t, "exp", in.Name)

	in, err = Resolve(ir.IntegrandRef{Poly: []float64{0, 0, 0, 4}})
	require.NoError(t, err)
	assert.Equal(t, 3, in.Degree)
	assert.Equal(t, 1.0, in.Exact(0, 1))

	_, err = Resolve(ir.IntegrandRef{})
	assert.Error(t, err)

	_, err = Resolve(ir.IntegrandRef{Name: "exp", Poly: []float64{1}})
	assert.Error(t, err)
}
