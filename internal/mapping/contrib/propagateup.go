package contrib

import (
	"github.com/oxhq/hypo/internal/mapping"
	"github.com/oxhq/hypo/internal/provider"
)

// PropagateUp copies a mapped method's name onto the method it directly
// overrides, one level per stage, per spec.md §8's seed scenario 3
// ("propagate-up then copy-down").
type PropagateUp struct{}

func (PropagateUp) Name() string { return "propagate-up" }

func (PropagateUp) Contribute(t mapping.Target, current mapping.Set, p *provider.Provider, reg *mapping.Registry) error {
	if t.Class == nil {
		return nil
	}
	for _, m := range t.Class.Methods() {
		name, ok := current.MemberMapping(t.ClassName, m.Name(), m.RawDescriptor())
		if !ok || name == "" {
			continue
		}
		super := m.SuperMethod()
		if super == nil {
			continue
		}
		parent := super.Parent()
		if parent == nil {
			continue
		}
		ref := mapping.MemberRef(parent.Name(), super.Name(), super.RawDescriptor())
		if err := reg.Submit(&mapping.AddNewMapping{Ref: ref, Name: name}); err != nil {
			return err
		}
	}
	return nil
}
