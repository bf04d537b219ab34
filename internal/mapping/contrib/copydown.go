package contrib

import (
	"github.com/oxhq/hypo/internal/hydrate/providers"
	"github.com/oxhq/hypo/internal/mapping"
	"github.com/oxhq/hypo/internal/model"
	"github.com/oxhq/hypo/internal/provider"
)

// CopyDown cascades each mapped method's name down the override
// relation to every method that (transitively) overrides it, per
// spec.md §4.11 and the seed scenarios in §8.
type CopyDown struct{}

func (CopyDown) Name() string { return "copy-down" }

func (CopyDown) Contribute(t mapping.Target, current mapping.Set, p *provider.Provider, reg *mapping.Registry) error {
	if t.Class == nil {
		return nil
	}
	for _, m := range t.Class.Methods() {
		name, ok := current.MemberMapping(t.ClassName, m.Name(), m.RawDescriptor())
		if !ok || name == "" {
			continue
		}
		if err := cascadeDown(reg, m, name); err != nil {
			return err
		}
	}
	return nil
}

func cascadeDown(reg *mapping.Registry, m *model.Method, name string) error {
	for _, child := range m.ChildMethods() {
		parent := child.Parent()
		if parent == nil {
			continue
		}
		ref := mapping.MemberRef(parent.Name(), child.Name(), child.RawDescriptor())
		if err := reg.Submit(&mapping.AddNewMapping{Ref: ref, Name: name}); err != nil {
			return err
		}
		if err := cascadeBridge(reg, child, name); err != nil {
			return err
		}
		if err := cascadeDown(reg, child, name); err != nil {
			return err
		}
	}
	return cascadeBridge(reg, m, name)
}

// cascadeBridge names m's bridge-forward target the same as m, per
// spec.md §8 seed scenario 6: a covariant-return bridge is not itself
// reachable through the override relation (its descriptor differs from
// the overridden method's), only through the bridge-target attachment
// the BridgeTarget enrichment provider leaves behind.
func cascadeBridge(reg *mapping.Registry, m *model.Method, name string) error {
	if !m.IsBridge() {
		return nil
	}
	target := providers.Target(m)
	if target == nil || target.Parent() == nil {
		return nil
	}
	ref := mapping.MemberRef(target.Parent().Name(), target.Name(), target.RawDescriptor())
	return reg.Submit(&mapping.AddNewMapping{Ref: ref, Name: name})
}
