package config

import (
	"fmt"
	"math"
	"strings"
)

// ValidationError represents a single validation failure.
type ValidationError struct {
	Field   string // config key, e.g. "study.floor"
	Value   any    // the invalid value
	Message string // human-readable description
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Validate returns every invalid setting. A nil result means valid.
func (c *Config) Validate() ValidationErrors {
	var errs ValidationErrors

	if c.Format != "text" && c.Format != "json" {
		errs = append(errs, ValidationError{Field: "format", Value: c.Format, Message: "must be text or json"})
	}
	if c.Workers < 0 {
		errs = append(errs, ValidationError{Field: "workers", Value: c.Workers, Message: "must be non-negative"})
	}
	if c.DB == "" {
		errs = append(errs, ValidationError{Field: "db", Value: c.DB, Message: "must not be empty"})
	}
	if math.IsNaN(c.Study.Floor) || math.IsInf(c.Study.Floor, 0) || c.Study.Floor < 0 {
		errs = append(errs, ValidationError{Field: "study.floor", Value: c.Study.Floor, Message: "must be a finite non-negative number"})
	}
	if math.IsNaN(c.Study.Tolerance) || math.IsInf(c.Study.Tolerance, 0) || c.Study.Tolerance <= 0 {
		errs = append(errs, ValidationError{Field: "study.tolerance", Value: c.Study.Tolerance, Message: "must be a finite positive number"})
	}

	return errs
}
