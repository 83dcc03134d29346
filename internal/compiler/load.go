package compiler

import (
	"fmt"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
)

// LoadStudies builds the CUE files in dir as one instance and compiles every
// field under `study:`. Compile errors are collected rather than returned on
// the first failure; the studies that did compile come back sorted by name.
func LoadStudies(dir string, opts ...Option) ([]StudyEntry, []error) {
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, []error{fmt.Errorf("no CUE instances loaded from %s", dir)}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{formatCUEError(inst.Err)}
	}

	value := cuecontext.New().BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{formatCUEError(err)}
	}
	return CompileStudies(value, opts...)
}

// CompileStudies compiles every field under `study:` in v.
func CompileStudies(v cue.Value, opts ...Option) ([]StudyEntry, []error) {
	studies := v.LookupPath(cue.ParsePath("study"))
	if !studies.Exists() {
		return nil, []error{&CompileError{Field: "study", Message: "no studies found", Pos: v.Pos()}}
	}

	iter, err := studies.Fields()
	if err != nil {
		return nil, []error{formatCUEError(err)}
	}

	var (
		entries []StudyEntry
		errs    []error
	)
	for iter.Next() {
		spec, err := CompileStudy(iter.Value(), opts...)
		if err != nil {
			errs = append(errs, fmt.Errorf("study %s: %w", iter.Selector().String(), err))
			continue
		}
		entries = append(entries, StudyEntry{Spec: *spec, Pos: iter.Value().Pos()})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Spec.Name < entries[j].Spec.Name
	})
	return entries, errs
}
