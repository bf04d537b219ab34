package source

import (
	"context"
	"sync"
)

// CompositeRoot concatenates several roots into one, per spec.md §4.4:
// FetchBytes consults each in order and returns the first hit;
// Enumerate yields every root's entries, earlier roots first, with
// later duplicates of an already-seen name suppressed (first root on
// the classpath wins, matching standard classloader precedence).
type CompositeRoot struct {
	roots []Root
}

func NewCompositeRoot(roots ...Root) *CompositeRoot {
	return &CompositeRoot{roots: roots}
}

func (c *CompositeRoot) FetchBytes(name string) ([]byte, error) {
	for _, r := range c.roots {
		data, err := r.FetchBytes(name)
		if err != nil {
			return nil, err
		}
		if data != nil {
			return data, nil
		}
	}
	return nil, nil
}

func (c *CompositeRoot) Enumerate(ctx context.Context) (<-chan EntryRef, error) {
	out := make(chan EntryRef, 64)

	go func() {
		defer close(out)
		var mu sync.Mutex
		seen := make(map[string]struct{})

		for _, r := range c.roots {
			ch, err := r.Enumerate(ctx)
			if err != nil {
				continue
			}
			for ref := range ch {
				mu.Lock()
				_, dup := seen[ref.Name]
				if !dup {
					seen[ref.Name] = struct{}{}
				}
				mu.Unlock()
				if dup {
					continue
				}
				select {
				case <-ctx.Done():
					return
				case out <- ref:
				}
			}
		}
	}()

	return out, nil
}

func (c *CompositeRoot) Close() error {
	return closeAll(c.roots)
}
