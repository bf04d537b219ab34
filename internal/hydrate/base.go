// Package hydrate implements the base hydrator and the wave-parallel
// enrichment scheduler from spec.md §4.8 and §4.10. Grounded on the
// teacher's worker-pool fan-out/fan-in shape (providers/golang's
// ParallelQuery, providers/golang/parallel_query.go): a buffered job
// channel feeding a fixed worker pool, results drained through a
// WaitGroup-closed channel.
package hydrate

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/oxhq/hypo/internal/model"
)

// BaseHydrator builds the inheritance DAG, inverts it into subclass and
// inner-class sets, and computes the override relation closure, per
// spec.md §4.8.
type BaseHydrator struct {
	workers int
}

// NewBaseHydrator constructs a base hydrator with the given worker-pool
// size; a size below 1 selects runtime.NumCPU(). A size of 1 runs every
// task in sequence on a single worker goroutine, which spec.md §5
// requires be fully supported.
func NewBaseHydrator(workers int) *BaseHydrator {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	return &BaseHydrator{workers: workers}
}

// Hydrate runs the base hydration algorithm over classes: every
// subclass/inner-class set and every override link reachable from this
// vertex set is populated. Any I/O error raised by a lazy resolver
// aborts hydration; nodes already enriched when the error surfaces
// remain valid (spec.md §4.8's partial-results guarantee).
func (h *BaseHydrator) Hydrate(ctx context.Context, classes []*model.Class) error {
	order, err := h.buildAndOrder(classes)
	if err != nil {
		return err
	}

	if err := h.populateRelations(order); err != nil {
		return err
	}

	return h.computeOverrides(ctx, order.classes)
}

// edge is one directed (source -> target) relation discovered while
// walking supertype/interface/enclosing links.
type edge struct {
	from, to *model.Class
}

type ordering struct {
	classes []*model.Class // topological order: from before to, for every edge
	edges   []edge
}

// buildAndOrder discovers the full reachable vertex set (the input
// classes plus every supertype/interface/enclosing class transitively
// reachable from them) and returns it topologically sorted, per
// spec.md §4.8 step 1-2.
func (h *BaseHydrator) buildAndOrder(roots []*model.Class) (*ordering, error) {
	visited := make(map[*model.Class]struct{})
	var vertices []*model.Class
	var edges []edge
	seenEdge := make(map[edge]struct{})

	var visit func(c *model.Class) error
	visit = func(c *model.Class) error {
		if c == nil {
			return nil
		}
		if _, ok := visited[c]; ok {
			return nil
		}
		visited[c] = struct{}{}
		vertices = append(vertices, c)

		super, err := c.Superclass()
		if err != nil {
			return fmt.Errorf("hypo: base hydration: resolve superclass of %q: %w", c.Name(), err)
		}
		if super != nil {
			addEdge(&edges, seenEdge, edge{from: super, to: c})
			if err := visit(super); err != nil {
				return err
			}
		}

		ifaces, err := c.Interfaces()
		if err != nil {
			return fmt.Errorf("hypo: base hydration: resolve interfaces of %q: %w", c.Name(), err)
		}
		for _, iface := range ifaces {
			addEdge(&edges, seenEdge, edge{from: iface, to: c})
			if err := visit(iface); err != nil {
				return err
			}
		}

		enclosing, err := c.Enclosing()
		if err != nil {
			return fmt.Errorf("hypo: base hydration: resolve enclosing class of %q: %w", c.Name(), err)
		}
		if enclosing != nil {
			addEdge(&edges, seenEdge, edge{from: enclosing, to: c})
			if err := visit(enclosing); err != nil {
				return err
			}
		}

		return nil
	}

	for _, c := range roots {
		if err := visit(c); err != nil {
			return nil, err
		}
	}

	sorted, err := topoSort(vertices, edges)
	if err != nil {
		return nil, err
	}
	return &ordering{classes: sorted, edges: edges}, nil
}

func addEdge(edges *[]edge, seen map[edge]struct{}, e edge) {
	if _, ok := seen[e]; ok {
		return // duplicate edges are silently dropped, per spec.md §4.8 step 1
	}
	seen[e] = struct{}{}
	*edges = append(*edges, e)
}

// topoSort orders vertices via Kahn's algorithm so that for every edge
// (s, t), s precedes t.
func topoSort(vertices []*model.Class, edges []edge) ([]*model.Class, error) {
	inDegree := make(map[*model.Class]int, len(vertices))
	adj := make(map[*model.Class][]*model.Class, len(vertices))
	for _, v := range vertices {
		inDegree[v] = 0
	}
	for _, e := range edges {
		adj[e.from] = append(adj[e.from], e.to)
		inDegree[e.to]++
	}

	var queue []*model.Class
	for _, v := range vertices {
		if inDegree[v] == 0 {
			queue = append(queue, v)
		}
	}

	var order []*model.Class
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		order = append(order, v)
		for _, next := range adj[v] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(order) != len(vertices) {
		return nil, fmt.Errorf("hypo: base hydration: inheritance graph has a cycle")
	}
	return order, nil
}

// populateRelations walks edges in topological order, adding each edge's
// target to the source's inner-class set (when the target's enclosing
// class is the source) or subclass set otherwise, per spec.md §4.8
// step 2.
func (h *BaseHydrator) populateRelations(order *ordering) error {
	for _, e := range order.edges {
		enclosing, err := e.to.Enclosing()
		if err != nil {
			return fmt.Errorf("hypo: base hydration: resolve enclosing class of %q: %w", e.to.Name(), err)
		}
		if enclosing == e.from {
			e.from.AddInnerClass(e.to)
		} else {
			e.from.AddSubclass(e.to)
		}
	}
	return nil
}

// computeOverrides walks, for every non-constructor method, every proper
// ancestor in the extends/implements closure, and links the nearest
// same-name/same-descriptor visible method as its super-method, per
// spec.md §4.8 step 3. Runs fanned out across the hydrator's worker
// pool; a per-method lock (held inside model.Method) serializes
// concurrent writes to a single method's child-method set.
func (h *BaseHydrator) computeOverrides(ctx context.Context, classes []*model.Class) error {
	jobs := make(chan *model.Class, len(classes))
	errCh := make(chan error, h.workers)

	var wg sync.WaitGroup
	for i := 0; i < h.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				if err := h.computeOverridesForClass(c); err != nil {
					select {
					case errCh <- err:
					default:
					}
					return
				}
			}
		}()
	}

	for _, c := range classes {
		jobs <- c
	}
	close(jobs)
	wg.Wait()
	close(errCh)

	for err := range errCh {
		return err
	}
	return nil
}

func (h *BaseHydrator) computeOverridesForClass(c *model.Class) error {
	for _, m := range c.Methods() {
		if m.IsStatic() {
			continue
		}
		ancestors, err := ancestorClosure(c)
		if err != nil {
			return fmt.Errorf("hypo: base hydration: override walk for %q: %w", c.Name(), err)
		}
		for _, p := range ancestors {
			for _, n := range p.Methods() {
				if n.Name() != m.Name() || !n.Descriptor().Equal(m.Descriptor()) {
					continue
				}
				if n.IsStatic() {
					continue
				}
				if !visibleTo(n, c) {
					continue
				}
				m.SetSuperMethod(n)
				n.AddChildMethod(m)
				break
			}
			if m.SuperMethod() != nil {
				break
			}
		}
	}
	return nil
}

// ancestorClosure returns every proper ancestor of c in the
// extends/implements closure, nearest first: direct supertype and
// interfaces, then their ancestors, breadth-first.
func ancestorClosure(c *model.Class) ([]*model.Class, error) {
	var out []*model.Class
	seen := make(map[*model.Class]struct{})
	queue := []*model.Class{c}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		super, err := cur.Superclass()
		if err != nil {
			return nil, err
		}
		if super != nil {
			if _, ok := seen[super]; !ok {
				seen[super] = struct{}{}
				out = append(out, super)
				queue = append(queue, super)
			}
		}

		ifaces, err := cur.Interfaces()
		if err != nil {
			return nil, err
		}
		for _, iface := range ifaces {
			if _, ok := seen[iface]; !ok {
				seen[iface] = struct{}{}
				out = append(out, iface)
				queue = append(queue, iface)
			}
		}
	}

	return out, nil
}

// visibleTo reports whether a candidate super-method n is visible to an
// overriding class c: public/protected members are always visible;
// package-private members require c to share n's package.
func visibleTo(n *model.Method, c *model.Class) bool {
	switch n.Visibility() {
	case model.VisibilityPublic, model.VisibilityProtected:
		return true
	case model.VisibilityPrivate:
		return false
	default:
		return packageOf(n.Parent().Name()) == packageOf(c.Name())
	}
}

func packageOf(internalName string) string {
	for i := len(internalName) - 1; i >= 0; i-- {
		if internalName[i] == '/' {
			return internalName[:i]
		}
	}
	return ""
}
