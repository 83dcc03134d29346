// Package ir provides the shared types for quadrature studies and results.
//
// This package contains type definitions and their canonical encoding only.
// All other internal packages may import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Floats must be finite; NaN and ±Inf are rejected by MarshalCanonical
//   - Floats are written in shortest round-trip form, so equal bits give
//     equal bytes and equal hashes
//   - All JSON tags use snake_case
package ir
