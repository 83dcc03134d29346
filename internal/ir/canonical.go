package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// Canonicalizer is implemented by types with a canonical map form.
type Canonicalizer interface {
	CanonicalValue() map[string]any
}

// MarshalCanonical produces RFC 8785 style canonical JSON.
// This is the only serialization used for content-addressed IDs and golden
// files.
//
// Differences from json.Marshal:
//  1. Object keys sorted by UTF-16 code units
//  2. No HTML escaping
//  3. Strings are NFC normalized
//  4. Floats in shortest round-trip form; NaN and ±Inf are errors
//  5. null is an error
func MarshalCanonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		return fmt.Errorf("null is forbidden in canonical JSON")
	case Canonicalizer:
		return writeCanonical(buf, val.CanonicalValue())
	case string:
		return writeString(buf, val)
	case bool:
		buf.WriteString(strconv.FormatBool(val))
	case int:
		buf.WriteString(strconv.Itoa(val))
	case int64:
		buf.WriteString(strconv.FormatInt(val, 10))
	case float64:
		s, err := formatFloat(val)
		if err != nil {
			return err
		}
		buf.WriteString(s)
	case []float64:
		return writeArray(buf, len(val), func(i int) any { return val[i] })
	case []int:
		return writeArray(buf, len(val), func(i int) any { return val[i] })
	case []string:
		return writeArray(buf, len(val), func(i int) any { return val[i] })
	case []any:
		return writeArray(buf, len(val), func(i int) any { return val[i] })
	case map[string]any:
		return writeObject(buf, val)
	default:
		return fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
	return nil
}

// formatFloat returns the shortest decimal that round-trips to f.
func formatFloat(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("non-finite floats are forbidden in canonical JSON: %v", f)
	}
	if f == 0 {
		// -0 and 0 encode the same
		return "0", nil
	}
	return strconv.FormatFloat(f, 'g', -1, 64), nil
}

func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(norm.NFC.String(s)); err != nil {
		return err
	}
	// json.Encoder escapes U+2028/U+2029 for JavaScript; RFC 8785 does not
	out := bytes.TrimSuffix(tmp.Bytes(), []byte("\n"))
	out = unescapeLineSeparators(out)
	buf.Write(out)
	return nil
}

// unescapeLineSeparators turns the \u2028 and \u2029 escapes back into literal
// characters unless the backslash is itself escaped.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] == '\\' && i+5 < len(data) && string(data[i+1:i+5]) == "u202" &&
			(data[i+5] == '8' || data[i+5] == '9') {
			backslashes := 0
			for j := len(out) - 1; j >= 0 && out[j] == '\\'; j-- {
				backslashes++
			}
			if backslashes%2 == 0 {
				if data[i+5] == '8' {
					out = append(out, "\u2028"...)
				} else {
					out = append(out, "\u2029"...)
				}
				i += 5
				continue
			}
		}
		out = append(out, data[i])
	}
	return out
}

func writeArray(buf *bytes.Buffer, n int, at func(int) any) error {
	buf.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeCanonical(buf, at(i)); err != nil {
			return fmt.Errorf("array[%d]: %w", i, err)
		}
	}
	buf.WriteByte(']')
	return nil
}

func writeObject(buf *bytes.Buffer, obj map[string]any) error {
	keys := SortedKeys(obj)
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeString(buf, k); err != nil {
			return fmt.Errorf("key %q: %w", k, err)
		}
		buf.WriteByte(':')
		if err := writeCanonical(buf, obj[k]); err != nil {
			return fmt.Errorf("value for key %q: %w", k, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

// SortedKeys returns keys in RFC 8785 order (UTF-16 code units).
func SortedKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareUTF16)
	return keys
}

func compareUTF16(a, b string) int {
	return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
}

// CanonicalValue implements Canonicalizer.
func (r IntegrandRef) CanonicalValue() map[string]any {
	m := map[string]any{}
	if r.Name != "" {
		m["name"] = r.Name
	}
	if len(r.Poly) > 0 {
		m["poly"] = r.Poly
	}
	return m
}

// CanonicalValue implements Canonicalizer.
func (s StudySpec) CanonicalValue() map[string]any {
	m := map[string]any{
		"name":         s.Name,
		"integrand":    s.Integrand,
		"a":            s.A,
		"b":            s.B,
		"methods":      nonNilStrings(s.Methods),
		"subdivisions": nonNilInts(s.Subdivisions),
		"floor":        s.Floor,
		"tolerance":    s.Tolerance,
		"check_order":  s.CheckOrder,
	}
	if s.Description != "" {
		m["description"] = s.Description
	}
	return m
}

// CanonicalValue implements Canonicalizer.
func (m Measurement) CanonicalValue() map[string]any {
	return map[string]any{
		"method":    m.Method,
		"n":         m.N,
		"value":     m.Value,
		"abs_error": m.AbsError,
	}
}

// CanonicalValue implements Canonicalizer.
func (f OrderFit) CanonicalValue() map[string]any {
	return map[string]any{
		"method":   f.Method,
		"expected": f.Expected,
		"measured": f.Measured,
		"points":   f.Points,
		"status":   f.Status,
	}
}

// CanonicalValue implements Canonicalizer.
func (r StudyResult) CanonicalValue() map[string]any {
	ms := make([]any, len(r.Measurements))
	for i, m := range r.Measurements {
		ms[i] = m
	}
	fits := make([]any, len(r.Fits))
	for i, f := range r.Fits {
		fits[i] = f
	}
	return map[string]any{
		"study_id":     r.StudyID,
		"study":        r.Study,
		"exact":        r.Exact,
		"measurements": ms,
		"fits":         fits,
	}
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilInts(s []int) []int {
	if s == nil {
		return []int{}
	}
	return s
}
