// Package contrib implements the standard change contributors from
// spec.md §4.11: copy-down, propagate-up, remove-unused,
// copy-record-parameters, copy-constructor-parameters,
// copy-lambda-parameters-down, and a composite wrapper.
package contrib

import (
	"github.com/oxhq/hypo/internal/mapping"
	"github.com/oxhq/hypo/internal/model"
	"github.com/oxhq/hypo/internal/typelang"
)

// memberExists reports whether class currently declares a field or
// method matching (name, descriptor) — used by remove-unused to decide
// whether a recorded mapping still corresponds to something real.
func memberExists(class *model.Class, name, descriptor string) bool {
	for _, m := range class.Methods() {
		if m.Name() == name && m.RawDescriptor() == descriptor {
			return true
		}
	}
	for _, c := range class.Constructors() {
		if c.Name() == name && c.RawDescriptor() == descriptor {
			return true
		}
	}
	for _, f := range class.Fields() {
		if f.Name() == name && f.RawDescriptor() == descriptor {
			return true
		}
	}
	return false
}

// paramCount returns how many parameters a (member, descriptor) pair on
// class declares, or -1 if no such member exists.
func paramCount(class *model.Class, name, descriptor string) int {
	for _, m := range class.Methods() {
		if m.Name() == name && m.RawDescriptor() == descriptor {
			return m.ParamCount()
		}
	}
	for _, c := range class.Constructors() {
		if c.Name() == name && c.RawDescriptor() == descriptor {
			return c.ParamCount()
		}
	}
	return -1
}

// lvtWidth is 2 for the wide primitives (long, double) and 1 otherwise,
// per spec.md's LVT-index glossary entry.
func lvtWidth(d *typelang.TypeDescriptor) int {
	if d.IsPrimitive() {
		switch d.PrimitiveLetter() {
		case 'J', 'D':
			return 2
		}
	}
	return 1
}

// lvtIndexForParam returns the local-variable-table slot of the
// instance-method parameter at erased index idx (0-based), reserving
// slot 0 for `this` and accounting for wide-primitive predecessors.
func lvtIndexForParam(desc *typelang.MethodDescriptor, idx int) int {
	index := 1
	for i := 0; i < idx; i++ {
		index += lvtWidth(desc.Params()[i])
	}
	return index
}

var (
	_ mapping.Contributor = (*CopyDown)(nil)
	_ mapping.Contributor = (*PropagateUp)(nil)
	_ mapping.Contributor = (*RemoveUnused)(nil)
	_ mapping.Contributor = (*CopyRecordParameters)(nil)
	_ mapping.Contributor = (*CopyConstructorParameters)(nil)
	_ mapping.Contributor = (*CopyLambdaParametersDown)(nil)
	_ mapping.Contributor = (*Composite)(nil)
)
