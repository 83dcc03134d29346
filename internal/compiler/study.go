package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/quadrature/internal/ir"
	"github.com/roach88/quadrature/internal/quad"
)

// Defaults applied when a study omits the optional fields.
const (
	DefaultFloor     = 1e-12
	DefaultTolerance = 0.2
)

// DefaultSubdivisions is the N sweep used when a study lists none.
var DefaultSubdivisions = []int{8, 16, 32, 64, 128, 256, 512, 1024}

// Option adjusts how studies are compiled.
type Option func(*options)

type options struct {
	floor     float64
	tolerance float64
}

// WithDefaults sets the floor and tolerance given to studies that omit
// them.
func WithDefaults(floor, tolerance float64) Option {
	return func(o *options) {
		o.floor = floor
		o.tolerance = tolerance
	}
}

func buildOptions(opts []Option) options {
	o := options{floor: DefaultFloor, tolerance: DefaultTolerance}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// CompileStudy parses a CUE value into a StudySpec.
//
// The value should be the study struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`study: unit: { ... }`)
//	spec, err := CompileStudy(v.LookupPath(cue.ParsePath("study.unit")))
func CompileStudy(v cue.Value, opts ...Option) (*ir.StudySpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	o := buildOptions(opts)
	spec := &ir.StudySpec{
		Floor:      o.floor,
		Tolerance:  o.tolerance,
		CheckOrder: true,
	}

	labels := v.Path().Selectors()
	if len(labels) > 0 {
		spec.Name = unquote(labels[len(labels)-1].String())
	}

	if d := v.LookupPath(cue.ParsePath("description")); d.Exists() {
		s, err := d.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		spec.Description = s
	}

	ref, err := parseIntegrand(v)
	if err != nil {
		return nil, err
	}
	spec.Integrand = ref

	spec.A, spec.B, err = parseInterval(v)
	if err != nil {
		return nil, err
	}

	spec.Methods, err = parseMethods(v)
	if err != nil {
		return nil, err
	}

	spec.Subdivisions, err = parseSubdivisions(v)
	if err != nil {
		return nil, err
	}

	if f := v.LookupPath(cue.ParsePath("floor")); f.Exists() {
		if spec.Floor, err = f.Float64(); err != nil {
			return nil, fieldError("floor", "floor must be a number", f)
		}
	}
	if t := v.LookupPath(cue.ParsePath("tolerance")); t.Exists() {
		if spec.Tolerance, err = t.Float64(); err != nil {
			return nil, fieldError("tolerance", "tolerance must be a number", t)
		}
	}
	if c := v.LookupPath(cue.ParsePath("check_order")); c.Exists() {
		if spec.CheckOrder, err = c.Bool(); err != nil {
			return nil, fieldError("check_order", "check_order must be a boolean", c)
		}
	}

	return spec, nil
}

// parseIntegrand reads either `integrand: name: "exp"` or
// `integrand: poly: [c0, c1, ...]`.
func parseIntegrand(v cue.Value) (ir.IntegrandRef, error) {
	var ref ir.IntegrandRef

	iv := v.LookupPath(cue.ParsePath("integrand"))
	if !iv.Exists() {
		return ref, &CompileError{
			Field:   "integrand",
			Message: "integrand is required",
			Pos:     v.Pos(),
		}
	}

	if nv := iv.LookupPath(cue.ParsePath("name")); nv.Exists() {
		name, err := nv.String()
		if err != nil {
			return ref, fieldError("integrand.name", "integrand name must be a string", nv)
		}
		ref.Name = name
	}

	if pv := iv.LookupPath(cue.ParsePath("poly")); pv.Exists() {
		iter, err := pv.List()
		if err != nil {
			return ref, fieldError("integrand.poly", "poly must be a list of numbers", pv)
		}
		ref.Poly = []float64{}
		for iter.Next() {
			c, err := iter.Value().Float64()
			if err != nil {
				return ref, fieldError("integrand.poly", "poly coefficients must be numbers", iter.Value())
			}
			ref.Poly = append(ref.Poly, c)
		}
	}

	if ref.Name == "" && ref.Poly == nil {
		return ref, &CompileError{
			Field:   "integrand",
			Message: "integrand needs a name or poly",
			Pos:     iv.Pos(),
		}
	}
	return ref, nil
}

func parseInterval(v cue.Value) (float64, float64, error) {
	iv := v.LookupPath(cue.ParsePath("interval"))
	if !iv.Exists() {
		return 0, 0, &CompileError{
			Field:   "interval",
			Message: "interval is required",
			Pos:     v.Pos(),
		}
	}
	iter, err := iv.List()
	if err != nil {
		return 0, 0, fieldError("interval", "interval must be a list [a, b]", iv)
	}

	var bounds []float64
	for iter.Next() {
		x, err := iter.Value().Float64()
		if err != nil {
			return 0, 0, fieldError("interval", "interval bounds must be numbers", iter.Value())
		}
		bounds = append(bounds, x)
	}
	if len(bounds) != 2 {
		return 0, 0, &CompileError{
			Field:   "interval",
			Message: fmt.Sprintf("interval must have exactly 2 bounds, got %d", len(bounds)),
			Pos:     iv.Pos(),
		}
	}
	return bounds[0], bounds[1], nil
}

func parseMethods(v cue.Value) ([]string, error) {
	mv := v.LookupPath(cue.ParsePath("methods"))
	if !mv.Exists() {
		all := quad.Methods()
		names := make([]string, len(all))
		for i, m := range all {
			names[i] = string(m)
		}
		return names, nil
	}

	iter, err := mv.List()
	if err != nil {
		return nil, fieldError("methods", "methods must be a list of strings", mv)
	}
	methods := []string{}
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, fieldError("methods", "method names must be strings", iter.Value())
		}
		methods = append(methods, s)
	}
	return methods, nil
}

func parseSubdivisions(v cue.Value) ([]int, error) {
	sv := v.LookupPath(cue.ParsePath("subdivisions"))
	if !sv.Exists() {
		return append([]int(nil), DefaultSubdivisions...), nil
	}

	iter, err := sv.List()
	if err != nil {
		return nil, fieldError("subdivisions", "subdivisions must be a list of integers", sv)
	}
	ns := []int{}
	for iter.Next() {
		n, err := iter.Value().Int64()
		if err != nil {
			return nil, fieldError("subdivisions", "subdivisions must be integers", iter.Value())
		}
		ns = append(ns, int(n))
	}
	return ns, nil
}

// unquote strips the quotes CUE keeps on labels like "my-study".
func unquote(label string) string {
	if len(label) >= 2 && label[0] == '"' && label[len(label)-1] == '"' {
		return label[1 : len(label)-1]
	}
	return label
}

// fieldError reports a type mismatch on field at v's position.
func fieldError(field, message string, v cue.Value) error {
	return &CompileError{Field: field, Message: message, Pos: v.Pos()}
}

// CompileError is a compile failure with the CUE source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}

// StudyEntry pairs a compiled study with where it was declared, so
// validation errors can point back at the source line.
type StudyEntry struct {
	Spec ir.StudySpec
	Pos  token.Pos
}
