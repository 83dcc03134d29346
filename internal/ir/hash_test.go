package ir

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSpec() StudySpec {
	return StudySpec{
		Name:         "exp_unit",
		Integrand:    IntegrandRef{Name: "exp"},
		A:            0,
		B:            1,
		Methods:      []string{"simpson", "bode"},
		Subdivisions: []int{8, 16, 32},
		Floor:        1e-12,
		Tolerance:    0.2,
		CheckOrder:   true,
	}
}

func TestStudyIDDeterminism(t *testing.T) {
	id1, err := StudyID(testSpec())
	require.NoError(t, err)
	id2, err := StudyID(testSpec())
	require.NoError(t, err)

	assert.Equal(t, id1, id2, "StudyID must be deterministic")
	assert.Len(t, id1, 64, "SHA-256 hex is 64 characters")
}

func TestStudyIDChangesWithSpec(t *testing.T) {
	base := MustStudyID(testSpec())

	changed := testSpec()
	changed.B = 2
	assert.NotEqual(t, base, MustStudyID(changed), "different interval")

	changed = testSpec()
	changed.Subdivisions = []int{8, 16}
	assert.NotEqual(t, base, MustStudyID(changed), "different subdivisions")

	changed = testSpec()
	changed.Integrand = IntegrandRef{Poly: []float64{1, 2}}
	assert.NotEqual(t, base, MustStudyID(changed), "different integrand")
}

func TestResultFingerprintDetectsBitChanges(t *testing.T) {
	r := StudyResult{
		StudyID:      MustStudyID(testSpec()),
		Study:        testSpec(),
		Exact:        1.718281828459045,
		Measurements: []Measurement{{Method: "simpson", N: 8, Value: 1.7182841546998968, AbsError: 2.3262408518e-06}},
		Fits:         []OrderFit{{Method: "simpson", Expected: 4, Measured: 3.99, Points: 1, Status: FitInsufficient}},
	}

	fp1, err := ResultFingerprint(r)
	require.NoError(t, err)
	fp2, err := ResultFingerprint(r)
	require.NoError(t, err)
	assert.Equal(t, fp1, fp2)

	r.Measurements[0].Value = math.Nextafter(r.Measurements[0].Value, 2)
	fp3, err := ResultFingerprint(r)
	require.NoError(t, err)
	assert.NotEqual(t, fp1, fp3, "one-ulp change must change the fingerprint")
}

func TestStudyAndResultDomainsDiffer(t *testing.T) {
	data := []byte(`{}`)
	assert.NotEqual(t, hashWithDomain(DomainStudy, data), hashWithDomain(DomainResult, data))
}
