package model

import "sync"

// Token is an opaque, identity-only key for the attached-data substrate
// from spec.md §4.7. Two tokens with the same human-readable name are
// distinct — comparison is always by pointer identity, never by Name.
// The value type a token is declared to carry is a convention enforced by
// callers, not by the type system (the bag itself stores `any`), mirroring
// the original's reflection-based HypoKey/HypoData pattern per spec.md §9.
type Token struct {
	Name string
}

// NewToken creates a fresh token for one attribute family. Call this once
// per family at package/provider initialization and share the resulting
// *Token — never reconstruct one from a name.
func NewToken(name string) *Token {
	return &Token{Name: name}
}

// Bag is the per-node concurrent token -> value map. Every ClassNode,
// FieldNode, MethodNode, and ConstructorNode embeds one.
type Bag struct {
	mu   sync.RWMutex
	data map[*Token]any
}

// Put stores value under token. Putting a nil value removes the entry,
// per spec.md §4.7.
func (b *Bag) Put(token *Token, value any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if value == nil {
		if b.data != nil {
			delete(b.data, token)
		}
		return
	}
	if b.data == nil {
		b.data = make(map[*Token]any)
	}
	b.data[token] = value
}

// Get returns the value stored under token, or nil, false if absent.
func (b *Bag) Get(token *Token) (any, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.data == nil {
		return nil, false
	}
	v, ok := b.data[token]
	return v, ok
}

// Contains reports whether token has a stored value.
func (b *Bag) Contains(token *Token) bool {
	_, ok := b.Get(token)
	return ok
}

// ComputeIfAbsent returns the existing value for token, or computes,
// stores, and returns compute()'s result if absent. Under contention two
// callers may both invoke compute, but only one result is kept — callers
// must tolerate that the returned value might not be the caller's own
// computation, consistent with spec.md §5's "duplicate computation may
// occur under contention but is harmless" policy for attached data.
func (b *Bag) ComputeIfAbsent(token *Token, compute func() any) any {
	if v, ok := b.Get(token); ok {
		return v
	}
	value := compute()
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.data == nil {
		b.data = make(map[*Token]any)
	}
	if existing, ok := b.data[token]; ok {
		return existing
	}
	b.data[token] = value
	return value
}
