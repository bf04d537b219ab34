package typelang

import "github.com/oxhq/hypo/internal/herr"

// unboundVariableError is raised when AsDescriptor is requested on a
// signature that still contains an unbound type variable, per spec.md §7.
type unboundVariableError struct {
	name string
}

func (e *unboundVariableError) Error() string {
	return "hypo: type variable " + e.name + " is unbound; bind it before converting to a descriptor"
}

func (e *unboundVariableError) Unwrap() error { return herr.ErrUnboundVariable }

// Resolver maps a type-variable name to its declaring type parameter, the
// consumer of Bind from spec.md §4.3.
type Resolver interface {
	Resolve(name string) (*TypeParameter, bool)
}

// MapResolver is the common case: a resolver backed by an explicit
// name -> parameter map, typically built from a class's or method's own
// declared type-parameter list.
type MapResolver map[string]*TypeParameter

func (m MapResolver) Resolve(name string) (*TypeParameter, bool) {
	p, ok := m[name]
	return p, ok
}

// NewMapResolver builds a MapResolver from a type-parameter list, as
// produced by a ClassSignature or MethodSignature.
func NewMapResolver(params []*TypeParameter) MapResolver {
	m := make(MapResolver, len(params))
	for _, p := range params {
		m[p.Name()] = p
	}
	return m
}

// ChainResolver tries each resolver in order, falling back to the next on
// a miss — used to resolve a method's own type variables against the
// method's list first, then the enclosing class's list.
type ChainResolver []Resolver

func (c ChainResolver) Resolve(name string) (*TypeParameter, bool) {
	for _, r := range c {
		if p, ok := r.Resolve(name); ok {
			return p, true
		}
	}
	return nil, false
}

// fabricatingResolver resolves every name it is asked about by fabricating
// a fresh type parameter with no bounds, the "convenience resolver" from
// spec.md §4.3 used when callers need a signature to always resolve but
// do not care about accuracy.
type fabricatingResolver struct{}

func (fabricatingResolver) Resolve(name string) (*TypeParameter, bool) {
	return &TypeParameter{name: name}, true
}

// FabricatingResolver is the shared instance of the convenience resolver.
var FabricatingResolver Resolver = fabricatingResolver{}

// Bind walks t, replacing every unbound type-variable node whose name
// resolver knows about with a bound variant pointing at the resolved
// parameter. Any subtree containing an unbound variable recurses so the
// replacement can occur at any depth; subtrees with nothing to bind are
// returned unchanged. Nodes rebuilt by binding are not interned: the pools
// are keyed by textual form, which a bound node shares with its unbound
// original.
func Bind(t *TypeSignature, resolver Resolver) *TypeSignature {
	if t == nil || !t.IsUnbound() {
		return t
	}
	switch t.kind {
	case SigTypeVariable:
		if t.varBound != nil {
			return t
		}
		if param, ok := resolver.Resolve(t.varName); ok {
			return &TypeSignature{kind: SigTypeVariable, varName: t.varName, varBound: param}
		}
		return t
	case SigArray:
		bound := Bind(t.arrayBase, resolver)
		if bound == t.arrayBase {
			return t
		}
		return &TypeSignature{kind: SigArray, arrayBase: bound, arrayDims: t.arrayDims}
	case SigClassType:
		owner := t.owner
		if owner != nil {
			owner = Bind(owner, resolver)
		}
		args := t.typeArgs
		changed := owner != t.owner
		if args != nil {
			newArgs := make([]*TypeArgument, len(args))
			for i, a := range args {
				if a.ref == nil {
					newArgs[i] = a
					continue
				}
				bound := Bind(a.ref, resolver)
				if bound != a.ref {
					changed = true
					newArgs[i] = &TypeArgument{kind: a.kind, ref: bound}
				} else {
					newArgs[i] = a
				}
			}
			args = newArgs
		}
		if !changed {
			return t
		}
		return &TypeSignature{kind: SigClassType, owner: owner, className: t.className, typeArgs: args}
	default:
		return t
	}
}

// Unbind converts a bound signature back to unbound form, for textual
// rendering that must preserve original syntax (bound type-variable nodes
// still render identically via writeInternal, so Unbind only matters for
// callers that branch on VariableBound() == nil).
func Unbind(t *TypeSignature) *TypeSignature {
	if t == nil {
		return nil
	}
	switch t.kind {
	case SigTypeVariable:
		if t.varBound == nil {
			return t
		}
		return newTypeVariableSignature(t.varName)
	case SigArray:
		return newArraySignature(Unbind(t.arrayBase), t.arrayDims)
	case SigClassType:
		var owner *TypeSignature
		if t.owner != nil {
			owner = Unbind(t.owner)
		}
		args := t.typeArgs
		if args != nil {
			newArgs := make([]*TypeArgument, len(args))
			for i, a := range args {
				if a.ref == nil {
					newArgs[i] = a
					continue
				}
				newArgs[i] = &TypeArgument{kind: a.kind, ref: Unbind(a.ref)}
			}
			args = newArgs
		}
		return newClassTypeSignature(owner, t.className, args)
	default:
		return t
	}
}
