package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/quadrature/internal/ir"
)

// marshalSpec converts a StudySpec to canonical JSON TEXT.
func marshalSpec(spec ir.StudySpec) (string, error) {
	data, err := ir.MarshalCanonical(spec)
	if err != nil {
		return "", fmt.Errorf("marshal spec: %w", err)
	}
	return string(data), nil
}

// marshalFits converts the fits of a run to a canonical JSON array.
func marshalFits(fits []ir.OrderFit) (string, error) {
	arr := make([]any, len(fits))
	for i, f := range fits {
		arr[i] = f
	}
	data, err := ir.MarshalCanonical(arr)
	if err != nil {
		return "", fmt.Errorf("marshal fits: %w", err)
	}
	return string(data), nil
}

// Canonical JSON is plain JSON, and the shortest float form parses back to
// the same double, so encoding/json suffices for reading.

func unmarshalSpec(s string) (ir.StudySpec, error) {
	var spec ir.StudySpec
	if err := json.Unmarshal([]byte(s), &spec); err != nil {
		return ir.StudySpec{}, fmt.Errorf("unmarshal spec: %w", err)
	}
	return spec, nil
}

func unmarshalFits(s string) ([]ir.OrderFit, error) {
	fits := []ir.OrderFit{}
	if err := json.Unmarshal([]byte(s), &fits); err != nil {
		return nil, fmt.Errorf("unmarshal fits: %w", err)
	}
	return fits, nil
}
