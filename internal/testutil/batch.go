package testutil

// FixedBatchGenerator returns the same batch token every time.
//
// Stores written with a fixed token are byte-identical across test runs.
// Safe for concurrent use.
type FixedBatchGenerator struct {
	token string
}

// NewFixedBatchGenerator creates a generator for token.
// An empty token becomes "test-batch-default".
func NewFixedBatchGenerator(token string) *FixedBatchGenerator {
	if token == "" {
		token = "test-batch-default"
	}
	return &FixedBatchGenerator{token: token}
}

// Generate returns the fixed token.
func (g *FixedBatchGenerator) Generate() string {
	return g.token
}
