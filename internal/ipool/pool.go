// Package ipool is the process-wide interning substrate described in
// spec.md §4.1. It guarantees that structurally equal parsed values (type
// descriptors, type signatures, method descriptors/signatures, class
// signatures) share a single instance, so reference equality can stand in
// for structural equality everywhere downstream.
//
// Grounded on the teacher's providers/base.ASTCache: a lock-free sync.Map
// keyed by a canonical string, with atomic hit/miss counters and a
// best-effort background reaper instead of a dedicated long-running
// thread, per spec.md §9's design note on the interning background
// reaper.
package ipool

import (
	"sync"
	"sync/atomic"
	"time"
)

// entry is the weak-valued slot. Go has no true weak references, so the
// "weak-valued" contract from spec.md §4.1 is approximated: entries are
// swept by the reaper once they haven't been touched for maxIdle, rather
// than collected the instant the last external reference drops. This is
// the same tradeoff the teacher's ASTCache makes with its maxAge-based
// eviction in providers/base/cache.go.
type entry struct {
	value      any
	lastTouch  atomic.Int64 // unix nanos
}

// Pool interns values of a single logical type, keyed by the caller-supplied
// canonical string form of each value (for descriptors, the JVM textual
// form; for signatures, the generic-signature textual form).
type Pool struct {
	table sync.Map // string -> *entry

	hits   atomic.Int64
	misses atomic.Int64

	maxIdle     time.Duration
	disabled    atomic.Bool
	reapStarted atomic.Bool
	reapOnce    sync.Once
}

// Global process-wide pools, one per interned AST family. Declared here so
// every parser in internal/typelang shares the same tables regardless of
// which provider instance constructed them, matching spec.md's "process-wide"
// requirement.
var (
	Descriptors       = New(5 * time.Minute)
	TypeSignatures    = New(5 * time.Minute)
	MethodDescriptors = New(5 * time.Minute)
	MethodSignatures  = New(5 * time.Minute)
	ClassSignatures   = New(5 * time.Minute)
)

// Disable turns off interning process-wide for every pool declared above,
// the opt-out flag from spec.md §4.1. Intern then becomes the identity
// function: every call allocates and returns its input unchanged.
func Disable() {
	Descriptors.disabled.Store(true)
	TypeSignatures.disabled.Store(true)
	MethodDescriptors.disabled.Store(true)
	MethodSignatures.disabled.Store(true)
	ClassSignatures.disabled.Store(true)
}

// New creates a standalone pool. Most callers should use the package-level
// pools above; New exists for tests that want isolation.
func New(maxIdle time.Duration) *Pool {
	return &Pool{maxIdle: maxIdle}
}

// Intern returns the canonical instance for key, installing value if this
// is the first time key has been seen (or if the previous instance was
// reaped). Equal keys always yield the same returned value by reference,
// satisfying intern(a).equals(a) and intern(a) == intern(b) for a.equals(b).
func (p *Pool) Intern(key string, value any) any {
	if p.disabled.Load() {
		return value
	}
	p.startReaper()

	if existing, ok := p.table.Load(key); ok {
		e := existing.(*entry)
		e.lastTouch.Store(time.Now().UnixNano())
		p.hits.Add(1)
		return e.value
	}

	e := &entry{value: value}
	e.lastTouch.Store(time.Now().UnixNano())
	actual, loaded := p.table.LoadOrStore(key, e)
	if loaded {
		// Another goroutine won the race to install this key; use its value.
		winner := actual.(*entry)
		winner.lastTouch.Store(time.Now().UnixNano())
		p.hits.Add(1)
		return winner.value
	}
	p.misses.Add(1)
	return value
}

// Stats reports interning effectiveness, exposed for diagnostics and tests.
func (p *Pool) Stats() (hits, misses int64) {
	return p.hits.Load(), p.misses.Load()
}

// startReaper lazily starts a single idle housekeeping goroutine per pool
// the first time it is used, rather than unconditionally on New — this
// keeps pools that are never exercised (e.g. in tests that disable
// interning) from spawning a goroutine at all.
func (p *Pool) startReaper() {
	if p.reapStarted.Load() {
		return
	}
	p.reapOnce.Do(func() {
		p.reapStarted.Store(true)
		go p.reapLoop()
	})
}

func (p *Pool) reapLoop() {
	ticker := time.NewTicker(p.maxIdle)
	defer ticker.Stop()
	for range ticker.C {
		if p.disabled.Load() {
			continue
		}
		now := time.Now().UnixNano()
		p.table.Range(func(key, value any) bool {
			e := value.(*entry)
			if now-e.lastTouch.Load() > p.maxIdle.Nanoseconds() {
				p.table.Delete(key)
			}
			return true
		})
	}
}
