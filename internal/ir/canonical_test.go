package ir

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalSortsKeys(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{"b": 1, "a": "x", "c": true})
	require.NoError(t, err)
	assert.Equal(t, `{"a":"x","b":1,"c":true}`, string(got))
}

func TestMarshalCanonicalFloats(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.25, "0.25"},
		{4, "4"},
		{-0.0, "0"},
		{1e-12, "1e-12"},
		{math.E - 1, "1.718281828459045"},
		{1.0 / 3, "0.3333333333333333"},
	}

	for _, tt := range tests {
		got, err := MarshalCanonical(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(got))
	}
}

func TestMarshalCanonicalFloatRoundTrip(t *testing.T) {
	for _, f := range []float64{math.Pi, 2 / math.Pi, 1e-300, 123456789.125} {
		data, err := MarshalCanonical(f)
		require.NoError(t, err)
		var back float64
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, math.Float64bits(f), math.Float64bits(back))
	}
}

func TestMarshalCanonicalRejects(t *testing.T) {
	for name, v := range map[string]any{
		"nan":   math.NaN(),
		"inf":   math.Inf(1),
		"null":  nil,
		"chan":  make(chan int),
		"inner": map[string]any{"x": math.Inf(-1)},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := MarshalCanonical(v)
			assert.Error(t, err)
		})
	}
}

func TestMarshalCanonicalNoHTMLEscape(t *testing.T) {
	got, err := MarshalCanonical("a<b>&c")
	require.NoError(t, err)
	assert.Equal(t, `"a<b>&c"`, string(got))
}

func TestMarshalCanonicalLineSeparators(t *testing.T) {
	got, err := MarshalCanonical("a\u2028b")
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\"", string(got))

	// a literal backslash followed by u2028 text stays escaped
	got, err = MarshalCanonical(`a\u2028b`)
	require.NoError(t, err)
	assert.Equal(t, `"a\\u2028b"`, string(got))
}

func TestMarshalCanonicalNFC(t *testing.T) {
	// e + combining acute accent normalizes to U+00E9
	got, err := MarshalCanonical("e\u0301")
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(got))
}

func TestMarshalCanonicalUTF16Order(t *testing.T) {
	// U+10000 encodes as surrogates starting 0xD800, which sort before U+FFFD
	// in UTF-16 but after it in UTF-8.
	got, err := MarshalCanonical(map[string]any{"\ufffd": 1, "\U00010000": 2})
	require.NoError(t, err)
	assert.Equal(t, "{\"\U00010000\":2,\"\ufffd\":1}", string(got))
}

func TestMarshalCanonicalStudySpec(t *testing.T) {
	spec := StudySpec{
		Name:         "unit",
		Integrand:    IntegrandRef{Name: "exp"},
		A:            0,
		B:            1,
		Methods:      []string{"trapezoid"},
		Subdivisions: []int{8, 16},
		Floor:        1e-12,
		Tolerance:    0.2,
		CheckOrder:   true,
	}

	got, err := MarshalCanonical(spec)
	require.NoError(t, err)
	assert.Equal(t,
		`{"a":0,"b":1,"check_order":true,"floor":1e-12,"integrand":{"name":"exp"},"methods":["trapezoid"],"name":"unit","subdivisions":[8,16],"tolerance":0.2}`,
		string(got))
}

func TestResultPassed(t *testing.T) {
	r := StudyResult{Fits: []OrderFit{{Status: FitPass}, {Status: FitExact}, {Status: FitSkipped}}}
	assert.True(t, r.Passed())

	r.Fits = append(r.Fits, OrderFit{Status: FitFail})
	assert.False(t, r.Passed())
}

func TestMeasurementsFor(t *testing.T) {
	r := StudyResult{Measurements: []Measurement{
		{Method: "simpson", N: 8},
		{Method: "bode", N: 8},
		{Method: "simpson", N: 16},
	}}
	got := r.MeasurementsFor("simpson")
	require.Len(t, got, 2)
	assert.Equal(t, 16, got[1].N)
}
