// Package providers implements the three standard hydration providers
// from spec.md §4.9: bridge-target, super-constructor call, and
// lambda closure. Each reads the pre-extracted call-site facts the
// class-data provider attached to a method/constructor node (see
// provider.MethodBody) rather than decoding bytecode itself.
package providers

import (
	"fmt"

	"github.com/oxhq/hypo/internal/hydrate"
	"github.com/oxhq/hypo/internal/model"
	"github.com/oxhq/hypo/internal/provider"
)

// Attribute tokens the standard providers produce and consume, for
// scheduler wave ordering.
const (
	TokenBridgeTarget        hydrate.Token = "bridge-target"
	TokenSuperConstructorCall hydrate.Token = "super-constructor-call"
	TokenLambdaClosure       hydrate.Token = "lambda-closure"
)

var (
	bridgeTargetToken = model.NewToken("bridge-target")
	bridgeSourceToken = model.NewToken("bridge-source") // back-edge: target -> bridge
)

// BridgeTarget attaches, on each synthetic bridge method, the
// same-class method it forwards to (and a back-edge on that target),
// per spec.md §4.9.
type BridgeTarget struct{}

func (BridgeTarget) Name() string            { return "bridge-target" }
func (BridgeTarget) Family() hydrate.Family   { return hydrate.FamilyMethod }
func (BridgeTarget) Produces() []hydrate.Token { return []hydrate.Token{TokenBridgeTarget} }
func (BridgeTarget) Consumes() []hydrate.Token { return nil }

func (BridgeTarget) ApplyMethod(m *model.Method) error {
	if !m.IsBridge() {
		return nil
	}
	body := provider.MethodBody(m)
	if body == nil || body.BridgeTarget == nil {
		return nil
	}
	target := body.BridgeTarget
	parent := m.Parent()
	if parent == nil {
		return nil
	}
	for _, cand := range parent.Methods() {
		if cand.Name() != target.Name || cand.RawDescriptor() != target.Descriptor {
			continue
		}
		m.Put(bridgeTargetToken, cand)
		cand.Put(bridgeSourceToken, m)
		return nil
	}
	return fmt.Errorf("hypo: bridge-target: %q.%q forwards to unresolved %q%s", parent.Name(), m.Name(), target.Name, target.Descriptor)
}

func (BridgeTarget) ApplyClass(*model.Class) error             { return nil }
func (BridgeTarget) ApplyConstructor(*model.Constructor) error { return nil }
func (BridgeTarget) ApplyField(*model.Field) error             { return nil }

// Target returns the method a bridge forwards to, or nil.
func Target(m *model.Method) *model.Method {
	v, ok := m.Get(bridgeTargetToken)
	if !ok {
		return nil
	}
	return v.(*model.Method)
}

// BridgeSource returns the bridge method that forwards to m, if any.
func BridgeSource(m *model.Method) *model.Method {
	v, ok := m.Get(bridgeSourceToken)
	if !ok {
		return nil
	}
	return v.(*model.Method)
}
