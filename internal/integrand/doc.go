// Package integrand provides test integrands with closed-form integrals.
//
// Each Integrand pairs a quad.Func with a hand-written antiderivative so
// studies can measure absolute error against the exact value. The catalog
// holds the classic demonstration functions (e^x, sin(πx/2), √(1−x²), …);
// Polynomial builds integrands from coefficients for exactness checks.
package integrand
