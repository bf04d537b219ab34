package contrib

import (
	"github.com/oxhq/hypo/internal/mapping"
	"github.com/oxhq/hypo/internal/provider"
)

// RemoveUnused removes every member or parameter mapping that no longer
// corresponds to a real member on its class — stale by name, by
// descriptor, or because the class itself no longer exists — per
// spec.md §8's seed scenario 4.
type RemoveUnused struct{}

func (RemoveUnused) Name() string { return "remove-unused" }

func (RemoveUnused) Contribute(t mapping.Target, current mapping.Set, p *provider.Provider, reg *mapping.Registry) error {
	if t.Class == nil {
		return removeEverything(t, current, reg)
	}
	for _, entry := range current.MemberMappings(t.ClassName) {
		if memberExists(t.Class, entry.Member, entry.Descriptor) {
			continue
		}
		ref := mapping.MemberRef(t.ClassName, entry.Member, entry.Descriptor)
		if err := reg.Submit(&mapping.RemoveMapping{Ref: ref}); err != nil {
			return err
		}
	}
	for _, entry := range current.ParameterMappings(t.ClassName) {
		count := paramCount(t.Class, entry.Member, entry.Descriptor)
		if count >= 0 && entry.Index < count {
			continue
		}
		ref := mapping.ParamRef(t.ClassName, entry.Member, entry.Descriptor, entry.Index)
		if err := reg.Submit(&mapping.RemoveMapping{Ref: ref}); err != nil {
			return err
		}
	}
	return nil
}

// removeEverything handles a target whose class node no longer exists
// in the corpus at all: every recorded entry for it is stale.
func removeEverything(t mapping.Target, current mapping.Set, reg *mapping.Registry) error {
	for _, entry := range current.MemberMappings(t.ClassName) {
		ref := mapping.MemberRef(t.ClassName, entry.Member, entry.Descriptor)
		if err := reg.Submit(&mapping.RemoveMapping{Ref: ref}); err != nil {
			return err
		}
	}
	for _, entry := range current.ParameterMappings(t.ClassName) {
		ref := mapping.ParamRef(t.ClassName, entry.Member, entry.Descriptor, entry.Index)
		if err := reg.Submit(&mapping.RemoveMapping{Ref: ref}); err != nil {
			return err
		}
	}
	if _, ok := current.ClassMapping(t.ClassName); ok {
		if err := reg.Submit(&mapping.RemoveMapping{Ref: mapping.ClassRef(t.ClassName)}); err != nil {
			return err
		}
	}
	return nil
}
