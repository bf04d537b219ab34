package mapping

import "fmt"

// Registry collects changes submitted by contributors within a single
// stage, keyed by target reference, invoking the mergeable protocol
// when two changes target the same reference.
type Registry struct {
	byRef map[Reference]Change
	order []Reference
}

func newRegistry() *Registry {
	return &Registry{byRef: make(map[Reference]Change)}
}

// NewRegistry constructs an empty registry. Contributors normally
// receive one from ChangeChain.Run; this is exported for tests that
// drive a contributor directly.
func NewRegistry() *Registry { return newRegistry() }

// Submit adds change to the registry. If another change already
// targets the same reference, the two are merged per the Mergeable
// protocol; a non-Mergeable collision, or a merge failure, returns an
// error naming both changes.
func (r *Registry) Submit(change Change) error {
	ref := change.Target()
	existing, ok := r.byRef[ref]
	if !ok {
		r.byRef[ref] = change
		r.order = append(r.order, ref)
		return nil
	}
	mergeable, ok := existing.(Mergeable)
	if !ok {
		return conflictErr(existing, change)
	}
	merged, err := mergeable.Merge(change)
	if err != nil {
		return err
	}
	r.byRef[ref] = merged
	return nil
}

// Changes returns every registered change, in submission order.
func (r *Registry) Changes() []Change {
	out := make([]Change, 0, len(r.order))
	for _, ref := range r.order {
		out = append(out, r.byRef[ref])
	}
	return out
}

func (r *Registry) String() string {
	return fmt.Sprintf("registry(%d changes)", len(r.order))
}
