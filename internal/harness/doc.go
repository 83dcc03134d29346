// Package harness runs YAML scenarios against the quadrature rules.
//
// A scenario fixes one integrand on one interval and lists cases, each a
// (method, n) pair with an expected value or error code. Assertions then
// check properties across evaluations:
//
//   - exact: case values match the closed-form integral
//   - converges: error shrinks as n grows until it reaches the floor
//   - order: the fitted convergence order matches the method's
//   - idempotent: every case gives bit-identical results when repeated
//     serially and on a worker pool
//
// Every case and assertion outcome is appended to a trace. The trace is
// serialized as canonical JSON and compared against golden files, so a
// change in the last bit of any value shows up as a golden mismatch.
package harness
