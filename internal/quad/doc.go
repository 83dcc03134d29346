// Package quad implements fixed-order quadrature rules over a finite interval.
//
// Every rule samples the integrand on an equally spaced partition of [a, b]
// and returns a weighted sum of the samples:
//
//   - Riemann: left, middle or right sample per sub-interval (order 1, 2, 1)
//   - Trapezoid: composite trapezoidal rule (order 2, exact for affine f)
//   - Simpson: composite Simpson's rule, N even (order 4, exact for cubics)
//   - Bode: composite Boole's rule, N a multiple of 4 (order 6, exact for quintics)
//
// The rules are pure functions. Calling one twice with the same inputs gives
// bit-identical results, and so does calling it with a different worker count:
// samples are reduced in fixed-size chunks that are combined in index order.
//
// Errors are reported as *Error values with a Code. Invalid subdivision counts
// and intervals fail before the integrand is called; a non-finite sample
// fails with DOMAIN_ERROR and the offending abscissa.
package quad
