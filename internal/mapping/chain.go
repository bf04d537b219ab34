package mapping

import (
	"fmt"

	"github.com/oxhq/hypo/internal/model"
	"github.com/oxhq/hypo/internal/provider"
)

// Target pairs a class node and/or a mapping-set class entry for one
// contributor invocation, per spec.md §4.11's "exactly one of the
// class node or class mapping may be null, never both." ClassName is
// always populated.
type Target struct {
	Class      *model.Class // nil if only a mapping-set entry exists
	ClassName  string
	HasMapping bool // whether the mapping set has an entry for ClassName
}

// Contributor is a named procedure that inspects a (class node,
// mapping-set entry) pairing and the hydrated graph, then submits zero
// or more changes to the registry. Contributors must not mutate the
// mapping set directly.
type Contributor interface {
	Name() string
	Contribute(t Target, current Set, p *provider.Provider, reg *Registry) error
}

// AuditableSet is optionally implemented by a Set that wants to record
// which contributor proposed each applied change — the mappingstore
// GORM implementation uses this to populate its audit-trail column.
// Plain Sets (e.g. the in-memory reference implementation) need not
// implement it.
type AuditableSet interface {
	Set
	RecordAudit(ref Reference, contributor, description string)
}

// SnapshotListener receives the resulting mapping set after each stage
// applies its merged changes.
type SnapshotListener interface {
	OnSnapshot(stage string, snapshot Set)
}

// SnapshotListenerFunc adapts a plain function to SnapshotListener.
type SnapshotListenerFunc func(stage string, snapshot Set)

func (f SnapshotListenerFunc) OnSnapshot(stage string, snapshot Set) { f(stage, snapshot) }

// ChangeChain drives the mapping-completion engine: for each
// registered contributor in order, it iterates the union of every
// class mapping and every class node, collects and merges submitted
// changes, applies them to a fresh copy of the mapping set, and
// optionally emits the resulting snapshot, per spec.md §4.11.
type ChangeChain struct {
	Provider     *provider.Provider
	Contributors []Contributor
	Listeners    []SnapshotListener
}

// Run executes every contributor in order against classes (the corpus
// to consider alongside any mapping-set entries) and the given initial
// mapping set, returning the final snapshot.
func (c *ChangeChain) Run(initial Set, classes []*model.Class) (Set, error) {
	current := initial
	byName := make(map[string]*model.Class, len(classes))
	for _, cls := range classes {
		byName[cls.Name()] = cls
	}

	for _, contributor := range c.Contributors {
		reg := newRegistry()
		for _, t := range unionTargets(byName, current) {
			if err := contributor.Contribute(t, current, c.Provider, reg); err != nil {
				return nil, fmt.Errorf("hypo: contributor %q on %q: %w", contributor.Name(), t.ClassName, err)
			}
		}

		next := current.Clone()
		for _, change := range reg.Changes() {
			if err := change.Apply(next); err != nil {
				return nil, fmt.Errorf("hypo: applying %s from contributor %q: %w", change, contributor.Name(), err)
			}
			if auditable, ok := next.(AuditableSet); ok {
				auditable.RecordAudit(change.Target(), contributor.Name(), change.String())
			}
		}
		current = next

		for _, l := range c.Listeners {
			l.OnSnapshot(contributor.Name(), current)
		}
	}
	return current, nil
}

// unionTargets builds the union of every class node and every
// mapping-set class entry, pairing by class name.
func unionTargets(byName map[string]*model.Class, set Set) []Target {
	seen := make(map[string]struct{}, len(byName))
	out := make([]Target, 0, len(byName))

	for name, cls := range byName {
		_, hasMapping := set.ClassMapping(name)
		if !hasMapping {
			hasMapping = set.HasClass(name)
		}
		out = append(out, Target{Class: cls, ClassName: name, HasMapping: hasMapping})
		seen[name] = struct{}{}
	}
	for _, name := range set.ClassNames() {
		if _, ok := seen[name]; ok {
			continue
		}
		out = append(out, Target{ClassName: name, HasMapping: true})
		seen[name] = struct{}{}
	}
	return out
}
