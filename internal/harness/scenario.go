package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/quadrature/internal/ir"
	"github.com/roach88/quadrature/internal/quad"
)

// Scenario is one integrand on one interval, a list of evaluations and
// the assertions to check over them.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Integrand is a catalog name or polynomial coefficients.
	Integrand ir.IntegrandRef `yaml:"integrand"`

	// Interval is [a, b]. It is passed through unchecked so scenarios can
	// exercise INVALID_INTERVAL.
	Interval []float64 `yaml:"interval"`

	// Workers sets the worker pool for case evaluation; 0 is serial.
	Workers int `yaml:"workers,omitempty"`

	Cases      []Case      `yaml:"cases"`
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Case is a single rule evaluation.
type Case struct {
	Method string `yaml:"method"`
	N      int    `yaml:"n"`

	// Expect is optional; without it the case only has to succeed.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect is either a value (with tolerance) or an error code.
type Expect struct {
	// Value is the expected result. A zero Tolerance requires equality.
	Value     *float64 `yaml:"value,omitempty"`
	Tolerance float64  `yaml:"tolerance,omitempty"`

	// Error is the expected quad error code, e.g. INVALID_SUBDIVISION_COUNT.
	Error string `yaml:"error,omitempty"`
}

// Assertion checks a property over several evaluations.
type Assertion struct {
	// Type is one of exact, converges, order, idempotent.
	Type string `yaml:"type"`

	// Method restricts exact to one method; converges and order require it.
	Method string `yaml:"method,omitempty"`

	// Subdivisions is the N sweep for converges and order.
	Subdivisions []int `yaml:"subdivisions,omitempty"`

	// Tolerance is the absolute value tolerance for exact (default 0) or
	// the allowed order difference for order (default 0.2).
	Tolerance float64 `yaml:"tolerance,omitempty"`

	// Floor is the error below which measurements count as exact
	// (default 1e-12).
	Floor float64 `yaml:"floor,omitempty"`
}

// Assertion type constants.
const (
	AssertExact      = "exact"
	AssertConverges  = "converges"
	AssertOrder      = "order"
	AssertIdempotent = "idempotent"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields, or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // catches typos like "assertion:" vs "assertions:"
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Integrand.Name == "" && len(s.Integrand.Poly) == 0 {
		return fmt.Errorf("integrand needs a name or poly")
	}
	if len(s.Interval) != 2 {
		return fmt.Errorf("interval must have exactly 2 bounds, got %d", len(s.Interval))
	}
	if s.Workers < 0 {
		return fmt.Errorf("workers must be non-negative")
	}
	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	for i, c := range s.Cases {
		if c.Method == "" {
			return fmt.Errorf("cases[%d]: method is required", i)
		}
		if c.Expect != nil {
			if c.Expect.Value == nil && c.Expect.Error == "" {
				return fmt.Errorf("cases[%d].expect: value or error is required", i)
			}
			if c.Expect.Value != nil && c.Expect.Error != "" {
				return fmt.Errorf("cases[%d].expect: value and error are mutually exclusive", i)
			}
			if c.Expect.Tolerance < 0 {
				return fmt.Errorf("cases[%d].expect: tolerance must be non-negative", i)
			}
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if a.Method != "" {
		if _, err := quad.ParseMethod(a.Method); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
	}
	if a.Tolerance < 0 || a.Floor < 0 {
		return fmt.Errorf("assertions[%d]: tolerance and floor must be non-negative", index)
	}

	switch a.Type {
	case AssertExact, AssertIdempotent:
	case AssertConverges, AssertOrder:
		if a.Method == "" {
			return fmt.Errorf("assertions[%d]: method is required for %s", index, a.Type)
		}
		if len(a.Subdivisions) < 2 {
			return fmt.Errorf("assertions[%d]: at least 2 subdivisions are required for %s", index, a.Type)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
