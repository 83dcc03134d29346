package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const badStudies = `package studies

study: bode_six: {
	integrand: name: "exp"
	interval: [0, 1]
	methods: ["bode"]
	subdivisions: [6, 8]
}

study: backwards: {
	integrand: name: "exp"
	interval: [1, 0]
	methods: ["trapezoid"]
	subdivisions: [8]
}
`

func TestValidateValidStudies(t *testing.T) {
	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), studiesDir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ All studies valid (4)")
}

func TestValidateValidStudiesJSON(t *testing.T) {
	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "json"}), studiesDir)
	require.NoError(t, err)

	var result ValidationResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, result.Valid)
	assert.Equal(t, 4, result.Studies)
}

func TestValidateNonExistentDirectory(t *testing.T) {
	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), "/nonexistent/directory/path")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeNotFound)
	assert.Contains(t, out, "not found")
}

func TestValidateEmptyDirectory(t *testing.T) {
	_, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeNoFiles)
}

func TestValidateReportsEveryProblem(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.cue", badStudies)

	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "json"}), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var result ValidationResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "error", resp.Status)
	assert.False(t, result.Valid)

	var codes []string
	for _, e := range result.Errors {
		codes = append(codes, e.Code)
	}
	// Studies are validated in name order: backwards, then bode_six.
	assert.Equal(t, []string{"E202", "E208"}, codes)
	assert.Contains(t, result.Errors[1].Message, "bode cannot use n=6")
}

func TestValidateTextShowsLines(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.cue", badStudies)

	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), dir)
	require.Error(t, err)
	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, "line ")
	assert.Contains(t, out, "E208: study bode_six")
}

func TestValidateCompileError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "shape.cue", `package studies

study: three_bounds: {
	integrand: name: "exp"
	interval: [0, 1, 2]
}
`)

	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "json"}), dir)
	require.Error(t, err)

	var result ValidationResult
	decodeResponse(t, out, &result)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "E202", result.Errors[0].Code)
	assert.Greater(t, result.Errors[0].Line, 0)
}

func TestMapFieldToErrorCode(t *testing.T) {
	tests := map[string]string{
		"study":          ErrCodeNoStudies,
		"cue":            ErrCodeBuildFailed,
		"interval":       "E202",
		"integrand.poly": "E203",
		"methods":        "E206",
		"subdivisions":   "E207",
		"tolerance":      "E209",
		"check_order":    ErrCodeInvalidField,
	}
	for field, want := range tests {
		assert.Equal(t, want, MapFieldToErrorCode(field), field)
	}
}
