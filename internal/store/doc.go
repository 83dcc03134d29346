// Package store persists study runs in SQLite.
//
// Three tables:
//   - studies: one row per distinct StudySpec, keyed by its content hash
//   - runs: one row per distinct result, keyed by the result fingerprint
//   - measurements: the (method, N, value, error) rows of each run
//
// Writes are idempotent. Re-running a study that produces bit-identical
// values maps to the same run ID and inserts nothing. Every read orders by
// seq ASC, id ASC so listings are stable.
//
// Floats are stored as REAL, which SQLite keeps as IEEE-754 doubles, so a
// stored result fingerprints the same after a round trip.
package store
