package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue/token"

	"github.com/roach88/quadrature/internal/compiler"
)

// LoadMode controls how errors are handled during study loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the studies loaded from a directory.
type LoadResult struct {
	Studies   []compiler.StudyEntry
	FileCount int // Number of CUE files found
}

// LoadError represents an error that occurred during study loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadStudies compiles the CUE studies in dir and, unless compilation
// failed, validates each one. Every returned error is a *LoadError.
//
// A nil result means the directory itself could not be used.
func LoadStudies(dir string, mode LoadMode, opts ...compiler.Option) (*LoadResult, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("specs directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing specs directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	result := &LoadResult{FileCount: len(cueFiles)}

	entries, compileErrs := compiler.LoadStudies(dir, opts...)
	var errs []error
	for _, err := range compileErrs {
		errs = append(errs, convertCompileError(err))
		if mode == LoadModeFailFast {
			return result, errs
		}
	}

	for _, entry := range entries {
		spec := entry.Spec
		verrs := compiler.Validate(&spec)
		for _, v := range verrs {
			errs = append(errs, &LoadError{
				Code:    v.Code,
				Message: fmt.Sprintf("study %s: %s: %s", spec.Name, v.Field, v.Message),
				Pos:     entry.Pos,
			})
			if mode == LoadModeFailFast {
				return result, errs
			}
		}
		if len(verrs) == 0 {
			result.Studies = append(result.Studies, entry)
		}
	}

	return result, errs
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		code := MapFieldToErrorCode(compileErr.Field)
		message := err.Error()
		if compileErr.Pos.IsValid() {
			// The position is reported separately.
			message = compileErr.Message
		}
		return &LoadError{
			Code:    code,
			Message: message,
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeLoadFailed,
		Message: err.Error(),
	}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // File write error

	// Study structure errors
	ErrCodeNoStudies    = "E101" // No study field
	ErrCodeInvalidField = "E102" // Field has the wrong shape or type
)

// MapFieldToErrorCode maps a compiler error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch field {
	case "study":
		return ErrCodeNoStudies
	case "cue":
		return ErrCodeBuildFailed
	case "name":
		return compiler.ErrStudyNameEmpty
	case "integrand", "integrand.name", "integrand.poly":
		return compiler.ErrUnknownIntegrand
	case "interval":
		return compiler.ErrInvalidInterval
	case "methods":
		return compiler.ErrUnknownMethod
	case "subdivisions":
		return compiler.ErrInvalidSubdivisions
	case "floor", "tolerance":
		return compiler.ErrInvalidThreshold
	default:
		return ErrCodeInvalidField
	}
}
