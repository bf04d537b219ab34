package contrib

import (
	"github.com/oxhq/hypo/internal/decoder"
	"github.com/oxhq/hypo/internal/hydrate/providers"
	"github.com/oxhq/hypo/internal/mapping"
	"github.com/oxhq/hypo/internal/model"
	"github.com/oxhq/hypo/internal/provider"
)

// CopyConstructorParameters copies parameter names from a this-class
// constructor's direct super() call target into the constructor itself,
// following the call's parameter correspondence, per spec.md §4.11.
type CopyConstructorParameters struct{}

func (CopyConstructorParameters) Name() string { return "copy-constructor-parameters" }

func (CopyConstructorParameters) Contribute(t mapping.Target, current mapping.Set, p *provider.Provider, reg *mapping.Registry) error {
	if t.Class == nil {
		return nil
	}
	for _, ctor := range t.Class.Constructors() {
		call := providers.InitialCall(ctor)
		if call == nil || call.Kind != decoder.CallKindSuper {
			continue
		}
		super, err := t.Class.Superclass()
		if err != nil || super == nil {
			continue
		}
		source := findConstructor(super, call.Callee.Descriptor)
		if source == nil {
			continue
		}
		change := &mapping.CopyConstructorMapping{
			TargetRef:       mapping.MemberRef(t.ClassName, model.ConstructorName, ctor.RawDescriptor()),
			Source:          mapping.MemberRef(super.Name(), model.ConstructorName, source.RawDescriptor()),
			ChainPath:       []string{super.Name()},
			Correspondences: correspondencesFor(call.Correspondences),
			SourceHasNames:  hasAnyParamMapping(current, super.Name(), model.ConstructorName, source.RawDescriptor()),
		}
		if err := reg.Submit(change); err != nil {
			return err
		}
	}
	return nil
}

func findConstructor(class *model.Class, descriptor string) *model.Constructor {
	for _, c := range class.Constructors() {
		if c.RawDescriptor() == descriptor {
			return c
		}
	}
	return nil
}

func hasAnyParamMapping(current mapping.Set, class, member, descriptor string) bool {
	for _, entry := range current.ParameterMappings(class) {
		if entry.Member == member && entry.Descriptor == descriptor {
			return true
		}
	}
	return false
}

func correspondencesFor(cs []decoder.ParamCorrespondence) []mapping.ParamCorrespondence {
	out := make([]mapping.ParamCorrespondence, 0, len(cs))
	for _, c := range cs {
		out = append(out, mapping.ParamCorrespondence{TargetIndex: c.CallerIndex, SourceIndex: c.CalleeIndex})
	}
	return out
}
