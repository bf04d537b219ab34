// Package hypo is a queryable, in-memory model of a Java class-file
// corpus: descriptor/signature parsing (internal/typelang), a
// class-data provider (internal/provider), a hydration pipeline
// (internal/hydrate), and a mapping-completion engine
// (internal/mapping, internal/mapping/contrib) for inferring
// deobfuscated names across a class hierarchy.
//
// This file is the read-only query facade (spec.md §4.12): thin
// convenience over an already-built provider/hydrated graph, for
// consumers that don't want to reach into internal/model directly for
// the common "every class" or "every override" questions.
package hypo

import (
	"context"
	"iter"

	"github.com/oxhq/hypo/internal/model"
	"github.com/oxhq/hypo/internal/provider"
)

// Classes iterates every class reachable from p's standard roots,
// skipping any entry that failed to decode — a caller who needs to
// observe decode errors should call p.StreamAll directly. Enumeration
// uses a background context; callers who need cancellation should use
// p.StreamAll instead.
func Classes(p *provider.Provider) iter.Seq[*model.Class] {
	return func(yield func(*model.Class) bool) {
		ch, err := p.StreamAll(context.Background())
		if err != nil {
			return
		}
		for result := range ch {
			if result.Err != nil || result.Class == nil {
				continue
			}
			if !yield(result.Class) {
				return
			}
		}
	}
}

// FindOverrides returns every method the hydrated graph already knows
// overrides m, transitively through the override chain base hydration
// built — the reverse of m.SuperMethod(). Order follows the order
// base hydration attached each child, depth-first.
func FindOverrides(m *model.Method) []*model.Method {
	var out []*model.Method
	var walk func(*model.Method)
	walk = func(cur *model.Method) {
		for _, child := range cur.ChildMethods() {
			out = append(out, child)
			walk(child)
		}
	}
	walk(m)
	return out
}
