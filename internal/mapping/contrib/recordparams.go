package contrib

import (
	"github.com/oxhq/hypo/internal/mapping"
	"github.com/oxhq/hypo/internal/model"
	"github.com/oxhq/hypo/internal/provider"
)

// CopyRecordParameters emits a parameter mapping on a record's
// canonical constructor for each record component, named after the
// component's backing field when that field has a mapping, else the
// component's own name, per spec.md §8's seed scenario 5.
type CopyRecordParameters struct{}

func (CopyRecordParameters) Name() string { return "copy-record-parameters" }

func (CopyRecordParameters) Contribute(t mapping.Target, current mapping.Set, p *provider.Provider, reg *mapping.Registry) error {
	if t.Class == nil || !t.Class.Kinds().Has(model.KindRecord) {
		return nil
	}
	components, err := t.Class.RecordComponents()
	if err != nil || len(components) == 0 {
		return nil
	}
	ctor := canonicalConstructor(t.Class, len(components))
	if ctor == nil {
		return nil
	}
	for i, comp := range components {
		name := comp.Name()
		if field := comp.BackingField(); field != nil {
			if mapped, ok := current.MemberMapping(t.ClassName, field.Name(), field.RawDescriptor()); ok && mapped != "" {
				name = mapped
			}
		}
		index := lvtIndexForParam(ctor.Descriptor(), i)
		ref := mapping.ParamRef(t.ClassName, model.ConstructorName, ctor.RawDescriptor(), index)
		if err := reg.Submit(&mapping.AddNewParameterMapping{Ref: ref, Name: name}); err != nil {
			return err
		}
	}
	return nil
}

// canonicalConstructor returns the constructor whose parameter count
// matches the record's component count — the canonical constructor
// per the JVM record specification.
func canonicalConstructor(class *model.Class, componentCount int) *model.Constructor {
	for _, ctor := range class.Constructors() {
		if ctor.ParamCount() == componentCount {
			return ctor
		}
	}
	return nil
}
