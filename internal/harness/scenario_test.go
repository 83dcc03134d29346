package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "exp_orders.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "exp_orders", s.Name)
	assert.Equal(t, "exp", s.Integrand.Name)
	assert.Equal(t, []float64{0, 1}, s.Interval)
	require.Len(t, s.Cases, 2)
	assert.Equal(t, "simpson", s.Cases[1].Method)
	require.NotNil(t, s.Cases[1].Expect.Value)
	assert.Equal(t, 1e-9, s.Cases[1].Expect.Tolerance)
	require.Len(t, s.Assertions, 5)
	assert.Equal(t, []int{8, 16, 32, 64, 128}, s.Assertions[3].Subdivisions)
}

func TestLoadScenarioMissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read scenario file")
}

func TestLoadScenarioFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poly.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: poly
description: polynomial integrand
integrand:
  poly: [1, 0, 3]
interval: [-1, 1]
cases:
  - method: simpson
    n: 2
`), 0644))

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 3}, s.Integrand.Poly)
	assert.Nil(t, s.Cases[0].Expect)
}

func TestParseScenarioErrors(t *testing.T) {
	base := "name: s\ndescription: d\nintegrand: {name: exp}\ninterval: [0, 1]\n"
	oneCase := "cases:\n  - method: trapezoid\n    n: 4\n"

	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown field", base + oneCase + "assertion: []\n", "field assertion not found"},
		{"missing name", "description: d\nintegrand: {name: exp}\ninterval: [0, 1]\n" + oneCase, "name is required"},
		{"missing description", "name: s\nintegrand: {name: exp}\ninterval: [0, 1]\n" + oneCase, "description is required"},
		{"missing integrand", "name: s\ndescription: d\ninterval: [0, 1]\n" + oneCase, "integrand needs a name or poly"},
		{"short interval", "name: s\ndescription: d\nintegrand: {name: exp}\ninterval: [0]\n" + oneCase, "exactly 2 bounds"},
		{"no cases", base, "cases list is required"},
		{"case without method", base + "cases:\n  - n: 4\n", "cases[0]: method is required"},
		{"empty expect", base + "cases:\n  - method: trapezoid\n    n: 4\n    expect: {tolerance: 1}\n", "value or error is required"},
		{"value and error", base + "cases:\n  - method: trapezoid\n    n: 4\n    expect: {value: 1, error: DOMAIN_ERROR}\n", "mutually exclusive"},
		{"assertion without type", base + oneCase + "assertions:\n  - method: trapezoid\n", "type is required"},
		{"unknown assertion", base + oneCase + "assertions:\n  - type: monotone\n", `unknown assertion type "monotone"`},
		{"order without method", base + oneCase + "assertions:\n  - type: order\n    subdivisions: [8, 16]\n", "method is required for order"},
		{"converges with one n", base + oneCase + "assertions:\n  - type: converges\n    method: trapezoid\n    subdivisions: [8]\n", "at least 2 subdivisions"},
		{"assertion unknown method", base + oneCase + "assertions:\n  - type: exact\n    method: gauss\n", "unknown method"},
		{"negative workers", base + oneCase + "workers: -1\n", "workers must be non-negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
