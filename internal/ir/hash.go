package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix allows the encoding to change later.
const (
	DomainStudy  = "quadrature/study/v1"
	DomainResult = "quadrature/result/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte keeps the domain/data boundary unambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// StudyID computes the content-addressed ID of a study spec.
// Identical specs share an ID across runs and machines.
func StudyID(spec StudySpec) (string, error) {
	canonical, err := MarshalCanonical(spec)
	if err != nil {
		return "", fmt.Errorf("StudyID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainStudy, canonical), nil
}

// ResultFingerprint hashes every value and error of a result.
// Two runs of the same study have the same fingerprint only if every
// measurement is bit-identical.
func ResultFingerprint(r StudyResult) (string, error) {
	canonical, err := MarshalCanonical(r)
	if err != nil {
		return "", fmt.Errorf("ResultFingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainResult, canonical), nil
}

// MustStudyID is like StudyID but panics on error.
// Use only in tests or when the StudySpec is known to be finite.
func MustStudyID(spec StudySpec) string {
	id, err := StudyID(spec)
	if err != nil {
		panic(err)
	}
	return id
}
