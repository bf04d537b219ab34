// Package provider implements the class-data provider from spec.md
// §4.5: a cache-backed factory that turns source-root bytes, via an
// injected decoder.Decoder, into model.Class nodes under a strict
// identity contract. Grounded on the teacher's providers/base.ASTCache
// (providers/base/cache.go) for the sync.Map-plus-atomic-counters
// cache shape, reused here for indefinite retention instead of a
// time-boxed eviction window, since spec.md §4.5 caches "indefinitely
// during its lifetime."
package provider

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/oxhq/hypo/internal/decoder"
	"github.com/oxhq/hypo/internal/herr"
	"github.com/oxhq/hypo/internal/model"
	"github.com/oxhq/hypo/internal/source"
	"github.com/oxhq/hypo/internal/typelang"
)

// absent is the negative-lookup marker cached under a name once the
// provider has established, definitively, that no class by that name
// exists on any root — spec.md §4.5's "negative marker" so repeated
// misses are cheap.
var absent = &struct{}{}

// Config configures a Provider at construction time.
type Config struct {
	// StandardRoots are the roots holding classes to analyze.
	StandardRoots []source.Root
	// ContextRoots are the roots holding supporting classes resolved
	// on demand but not walked during hydration.
	ContextRoots []source.Root
	// Decoder turns entry bytes into structural class-file facts.
	Decoder decoder.Decoder
	// StrictClasspath makes a missing superclass/interface during node
	// construction a hard error instead of a best-effort nil.
	StrictClasspath bool
}

// Provider maps class names to model.Class nodes, per spec.md §4.5.
type Provider struct {
	standardRoots []source.Root
	contextRoots  []source.Root
	decoder       decoder.Decoder
	strict        bool

	cache sync.Map // normalized name -> *model.Class, or the absent marker
	hits  atomic.Int64
	miss  atomic.Int64

	// building serializes concurrent find() calls for the same name so
	// only one decode/construct happens per class, mirroring the
	// teacher cache's LoadOrStore race-loser-discards-its-work pattern.
	building sync.Map // normalized name -> *sync.Once
}

// New constructs a Provider. Decoder must be non-nil.
func New(cfg Config) *Provider {
	return &Provider{
		standardRoots: cfg.StandardRoots,
		contextRoots:  cfg.ContextRoots,
		decoder:       cfg.Decoder,
		strict:        cfg.StrictClasspath,
	}
}

// Roots exposes the underlying root list — standard roots followed by
// context roots — for reuse by other collaborators, per spec.md §4.5.
func (p *Provider) Roots() []source.Root {
	out := make([]source.Root, 0, len(p.standardRoots)+len(p.contextRoots))
	out = append(out, p.standardRoots...)
	out = append(out, p.contextRoots...)
	return out
}

// NormalizeName applies the provider's name normalization (spec.md
// §4.5): slash-separated, trailing ".class" stripped if present,
// leading '/' removed, dots translated to slashes.
func NormalizeName(name string) string {
	name = strings.TrimPrefix(name, "/")
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimSuffix(name, ".class")
	name = strings.ReplaceAll(name, ".", "/")
	return name
}

// Find looks up a class by internal name. On a cache miss it parses
// the class from the first root (standard, then context) that has an
// entry for it, caches the resulting node under the identity contract,
// and returns it. A definitive absence caches a negative marker so
// repeated misses are cheap and returns (nil, nil).
func (p *Provider) Find(name string) (*model.Class, error) {
	norm := NormalizeName(name)

	if v, ok := p.cache.Load(norm); ok {
		if v == absent {
			p.hits.Add(1)
			return nil, nil
		}
		p.hits.Add(1)
		return v.(*model.Class), nil
	}
	p.miss.Add(1)

	onceVal, _ := p.building.LoadOrStore(norm, &sync.Once{})
	once := onceVal.(*sync.Once)

	var buildErr error
	once.Do(func() {
		buildErr = p.build(norm)
	})
	if buildErr != nil {
		return nil, buildErr
	}

	if v, ok := p.cache.Load(norm); ok && v != absent {
		return v.(*model.Class), nil
	}
	return nil, nil
}

// build decodes and constructs the node for norm, or records absence.
func (p *Provider) build(norm string) error {
	if _, ok := p.cache.Load(norm); ok {
		return nil // another goroutine already resolved it
	}

	entryName := norm + ".class"
	data, err := p.fetchFromAnyRoot(entryName)
	if err != nil {
		return err
	}
	if data == nil {
		p.cache.Store(norm, absent)
		return nil
	}

	decoded, err := p.decoder.Decode(norm, data)
	if err != nil {
		return fmt.Errorf("hypo: decode %q: %w", norm, err)
	}

	class, err := p.toClass(decoded)
	if err != nil {
		return err
	}

	p.cache.LoadOrStore(norm, class)
	return nil
}

func (p *Provider) fetchFromAnyRoot(entryName string) ([]byte, error) {
	for _, r := range p.standardRoots {
		data, err := r.FetchBytes(entryName)
		if err != nil {
			return nil, err
		}
		if data != nil {
			return data, nil
		}
	}
	for _, r := range p.contextRoots {
		data, err := r.FetchBytes(entryName)
		if err != nil {
			return nil, err
		}
		if data != nil {
			return data, nil
		}
	}
	return nil, nil
}

// FindByType resolves a class by type descriptor, failing unless the
// descriptor names a class type.
func (p *Provider) FindByType(desc *typelang.TypeDescriptor) (*model.Class, error) {
	if desc == nil || desc.Kind() != typelang.DescClass {
		return nil, nil
	}
	return p.Find(desc.ClassName())
}

// StreamAll lazily enumerates every class reachable from standard
// roots. Enumeration also populates the cache under the identity
// contract, so a later Find for an enumerated name returns the same
// instance.
func (p *Provider) StreamAll(ctx context.Context) (<-chan StreamResult, error) {
	out := make(chan StreamResult, 64)

	go func() {
		defer close(out)
		for _, r := range p.standardRoots {
			ch, err := r.Enumerate(ctx)
			if err != nil {
				select {
				case out <- StreamResult{Err: err}:
				case <-ctx.Done():
				}
				return
			}
			for ref := range ch {
				norm := NormalizeName(ref.Name)
				if v, ok := p.cache.Load(norm); ok {
					if v == absent {
						continue
					}
					select {
					case out <- StreamResult{Class: v.(*model.Class)}:
					case <-ctx.Done():
						return
					}
					continue
				}

				onceVal, _ := p.building.LoadOrStore(norm, &sync.Once{})
				once := onceVal.(*sync.Once)
				var buildErr error
				once.Do(func() {
					buildErr = p.buildFromEntry(norm, ref)
				})
				if buildErr != nil {
					select {
					case out <- StreamResult{Err: buildErr}:
					case <-ctx.Done():
					}
					return
				}
				v, ok := p.cache.Load(norm)
				if !ok || v == absent {
					continue
				}
				select {
				case out <- StreamResult{Class: v.(*model.Class)}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// buildFromEntry decodes directly from an already-discovered entry
// (skipping the root-fetch-by-name step StreamAll's caller already
// did via Enumerate).
func (p *Provider) buildFromEntry(norm string, ref source.EntryRef) error {
	if _, ok := p.cache.Load(norm); ok {
		return nil
	}
	data, err := ref.Read()
	if err != nil {
		return err
	}
	if data == nil {
		p.cache.Store(norm, absent)
		return nil
	}
	decoded, err := p.decoder.Decode(norm, data)
	if err != nil {
		return fmt.Errorf("hypo: decode %q: %w", norm, err)
	}
	class, err := p.toClass(decoded)
	if err != nil {
		return err
	}
	p.cache.LoadOrStore(norm, class)
	return nil
}

// StreamResult is one item from StreamAll: either a class or a
// terminal error.
type StreamResult struct {
	Class *model.Class
	Err   error
}

// Stats returns the provider's cache hit/miss counters.
func (p *Provider) Stats() (hits, misses int64) {
	return p.hits.Load(), p.miss.Load()
}

// classpathError wraps herr.ErrClasspathIncomplete for a missing
// supertype/interface under strict mode.
func (p *Provider) classpathError(owner, missing string) error {
	return fmt.Errorf("hypo: class %q references missing %q: %w", owner, missing, herr.ErrClasspathIncomplete)
}
