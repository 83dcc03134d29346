package study

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/roach88/quadrature/internal/ir"
	"github.com/roach88/quadrature/internal/quad"
)

// FitOrder fits log(err) against log(N) by least squares and reports the
// negated slope as the measured order. ms must be in ascending N order.
//
// Only the leading run of measurements with error above floor is used;
// once the error reaches the floor the rest is rounding noise.
func FitOrder(m quad.Method, ms []ir.Measurement, floor, tolerance float64) ir.OrderFit {
	fit := ir.OrderFit{
		Method:   string(m),
		Expected: m.Order(),
	}

	var xs, ys []float64
	for _, meas := range ms {
		if meas.AbsError <= floor {
			break
		}
		xs = append(xs, math.Log(float64(meas.N)))
		ys = append(ys, math.Log(meas.AbsError))
	}
	fit.Points = len(xs)

	switch {
	case len(ms) > 0 && len(xs) == 0:
		fit.Status = ir.FitExact
		return fit
	case len(xs) < 2:
		fit.Status = ir.FitInsufficient
		return fit
	}

	_, slope := stat.LinearRegression(xs, ys, nil, false)
	fit.Measured = -slope
	if math.Abs(fit.Measured-float64(fit.Expected)) <= tolerance {
		fit.Status = ir.FitPass
	} else {
		fit.Status = ir.FitFail
	}
	return fit
}

// Converges reports whether the error strictly decreases with N until it
// reaches floor. ms must be in ascending N order.
func Converges(ms []ir.Measurement, floor float64) bool {
	for i := 1; i < len(ms); i++ {
		prev := ms[i-1].AbsError
		if prev <= floor {
			return true
		}
		if ms[i].AbsError >= prev {
			return false
		}
	}
	return true
}
