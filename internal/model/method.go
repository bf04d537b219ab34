package model

import (
	"sync"

	"github.com/oxhq/hypo/internal/typelang"
)

// MethodConfig is the frozen structural data for one non-constructor
// method, as decoded from the class file.
type MethodConfig struct {
	Name          string
	Descriptor    *typelang.MethodDescriptor
	Signature     *typelang.MethodSignature // nil if absent
	Visibility    Visibility
	Static        bool
	Abstract      bool
	Final         bool
	Synthetic     bool
	Bridge        bool
	Native        bool
	HasBody       bool
	RawDescriptor string
}

// Method is the MethodNode from spec.md §3. Constructors are modeled as
// the separate Constructor type below — not as a Method with a flag —
// so the override-relation invariants ("a constructor's super-method is
// always null; its child-method set is always empty") hold by
// construction rather than by convention.
type Method struct {
	Bag

	parent        *Class
	name          string
	descriptor    *typelang.MethodDescriptor
	signature     *typelang.MethodSignature
	visibility    Visibility
	static        bool
	abstract      bool
	final         bool
	synthetic     bool
	bridge        bool
	native        bool
	hasBody       bool
	rawDescriptor string

	mu          sync.Mutex
	superMethod *Method
	children    map[*Method]struct{}
}

func NewMethod(cfg MethodConfig) *Method {
	return &Method{
		name:          cfg.Name,
		descriptor:    cfg.Descriptor,
		signature:     cfg.Signature,
		visibility:    cfg.Visibility,
		static:        cfg.Static,
		abstract:      cfg.Abstract,
		final:         cfg.Final,
		synthetic:     cfg.Synthetic,
		bridge:        cfg.Bridge,
		native:        cfg.Native,
		hasBody:       cfg.HasBody,
		rawDescriptor: cfg.RawDescriptor,
		children:      make(map[*Method]struct{}),
	}
}

func (m *Method) Name() string       { return m.name }
func (m *Method) Parent() *Class     { return m.parent }
func (m *Method) Descriptor() *typelang.MethodDescriptor { return m.descriptor }
func (m *Method) Signature() *typelang.MethodSignature   { return m.signature }
func (m *Method) Visibility() Visibility { return m.visibility }
func (m *Method) IsStatic() bool     { return m.static }
func (m *Method) IsAbstract() bool   { return m.abstract }
func (m *Method) IsFinal() bool      { return m.final }
func (m *Method) IsSynthetic() bool  { return m.synthetic }
func (m *Method) IsBridge() bool     { return m.bridge }
func (m *Method) IsNative() bool     { return m.native }
func (m *Method) HasBody() bool      { return m.hasBody }
func (m *Method) RawDescriptor() string { return m.rawDescriptor }

// ParamCount is the erased parameter count.
func (m *Method) ParamCount() int { return m.descriptor.ParamCount() }

// ParamDescriptor returns the erased descriptor of parameter i.
func (m *Method) ParamDescriptor(i int) *typelang.TypeDescriptor {
	return m.descriptor.Params()[i]
}

// SuperMethod returns the method this one directly overrides (the nearest
// ancestor match), or nil if it overrides nothing. Populated during base
// hydration.
func (m *Method) SuperMethod() *Method {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.superMethod
}

// SetSuperMethod records m's override target. Called at most once per
// method by the base hydrator; guarded so a method can be read safely
// while another goroutine is still hydrating a sibling class.
func (m *Method) SetSuperMethod(super *Method) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.superMethod = super
}

// AddChildMethod records that child directly overrides m. Concurrent
// updates across classes being hydrated in parallel are serialized by
// this per-method lock, per spec.md §4.8.
func (m *Method) AddChildMethod(child *Method) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.children[child] = struct{}{}
}

// ChildMethods returns a snapshot of the direct-override set.
func (m *Method) ChildMethods() []*Method {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Method, 0, len(m.children))
	for c := range m.children {
		out = append(out, c)
	}
	return out
}
