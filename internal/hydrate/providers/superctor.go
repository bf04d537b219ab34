package providers

import (
	"sync"

	"github.com/oxhq/hypo/internal/decoder"
	"github.com/oxhq/hypo/internal/hydrate"
	"github.com/oxhq/hypo/internal/model"
	"github.com/oxhq/hypo/internal/provider"
)

var (
	superCallToken     = model.NewToken("super-constructor-call")
	superCallBackToken = model.NewToken("super-constructor-call-back-edge")
)

// callerSet guards the back-edge list attached to a super
// constructor: several subclass constructors across different classes
// being processed concurrently in the same wave may target the same
// super constructor, so the append itself needs its own lock — the
// Bag's per-token Put is atomic, but a read-modify-write across two
// Bag calls is not.
type callerSet struct {
	mu    sync.Mutex
	items []*model.Constructor
}

func (s *callerSet) add(ctor *model.Constructor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, ctor)
}

func (s *callerSet) snapshot() []*model.Constructor {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Constructor, len(s.items))
	copy(out, s.items)
	return out
}

// SuperConstructorCall attaches, on each constructor, the initial
// this()/super() invocation it makes (with its parameter
// correspondence list) and a back-edge on the callee, per spec.md §4.9.
type SuperConstructorCall struct{}

func (SuperConstructorCall) Name() string          { return "super-constructor-call" }
func (SuperConstructorCall) Family() hydrate.Family { return hydrate.FamilyMethod }
func (SuperConstructorCall) Produces() []hydrate.Token {
	return []hydrate.Token{TokenSuperConstructorCall}
}
func (SuperConstructorCall) Consumes() []hydrate.Token { return nil }

func (SuperConstructorCall) ApplyConstructor(ctor *model.Constructor) error {
	body := provider.MethodBody(ctor)
	if body == nil || body.InitialCall == nil {
		return nil
	}
	call := body.InitialCall
	ctor.Put(superCallToken, call)

	parent := ctor.Parent()
	if parent == nil {
		return nil
	}
	callee := parent
	if call.Kind == decoder.CallKindSuper {
		super, err := parent.Superclass()
		if err != nil || super == nil {
			return nil
		}
		callee = super
	}
	for _, cand := range callee.Constructors() {
		if cand.RawDescriptor() != call.Callee.Descriptor {
			continue
		}
		set := cand.ComputeIfAbsent(superCallBackToken, func() any { return &callerSet{} }).(*callerSet)
		set.add(ctor)
		return nil
	}
	return nil
}

func (SuperConstructorCall) ApplyClass(*model.Class) error   { return nil }
func (SuperConstructorCall) ApplyMethod(*model.Method) error { return nil }
func (SuperConstructorCall) ApplyField(*model.Field) error   { return nil }

// InitialCall returns the constructor's initial this()/super()
// invocation record, or nil if it makes none (only possible for
// java/lang/Object's implicit constructor, which has no body).
func InitialCall(ctor *model.Constructor) *decoder.ConstructorCall {
	v, ok := ctor.Get(superCallToken)
	if !ok {
		return nil
	}
	return v.(*decoder.ConstructorCall)
}

// Callers returns every constructor whose initial this() or super()
// call targets ctor.
func Callers(ctor *model.Constructor) []*model.Constructor {
	v, ok := ctor.Get(superCallBackToken)
	if !ok {
		return nil
	}
	return v.(*callerSet).snapshot()
}
