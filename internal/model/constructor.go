package model

import "github.com/oxhq/hypo/internal/typelang"

// ConstructorName is the JVM sigil every constructor is named, fixed per
// spec.md §3.
const ConstructorName = "<init>"

// ConstructorConfig is the frozen structural data for one constructor.
type ConstructorConfig struct {
	Descriptor    *typelang.MethodDescriptor
	Signature     *typelang.MethodSignature // nil if absent
	Visibility    Visibility
	Synthetic     bool
	HasBody       bool
	RawDescriptor string
}

// Constructor is the ConstructorNode from spec.md §3: a specialization of
// MethodNode with its name fixed to ConstructorName and the
// static/abstract/final/bridge/native predicates forced false. It never
// participates in the override relation — there is no SuperMethod or
// ChildMethods on this type at all, so that invariant holds by
// construction rather than as a runtime flag.
type Constructor struct {
	Bag

	parent        *Class
	descriptor    *typelang.MethodDescriptor
	signature     *typelang.MethodSignature
	visibility    Visibility
	synthetic     bool
	hasBody       bool
	rawDescriptor string
}

func NewConstructor(cfg ConstructorConfig) *Constructor {
	return &Constructor{
		descriptor:    cfg.Descriptor,
		signature:     cfg.Signature,
		visibility:    cfg.Visibility,
		synthetic:     cfg.Synthetic,
		hasBody:       cfg.HasBody,
		rawDescriptor: cfg.RawDescriptor,
	}
}

func (c *Constructor) Name() string       { return ConstructorName }
func (c *Constructor) Parent() *Class     { return c.parent }
func (c *Constructor) Descriptor() *typelang.MethodDescriptor { return c.descriptor }
func (c *Constructor) Signature() *typelang.MethodSignature   { return c.signature }
func (c *Constructor) Visibility() Visibility { return c.visibility }
func (c *Constructor) IsStatic() bool     { return false }
func (c *Constructor) IsAbstract() bool   { return false }
func (c *Constructor) IsFinal() bool      { return false }
func (c *Constructor) IsSynthetic() bool  { return c.synthetic }
func (c *Constructor) IsBridge() bool     { return false }
func (c *Constructor) IsNative() bool     { return false }
func (c *Constructor) HasBody() bool      { return c.hasBody }
func (c *Constructor) RawDescriptor() string { return c.rawDescriptor }

func (c *Constructor) ParamCount() int { return c.descriptor.ParamCount() }

func (c *Constructor) ParamDescriptor(i int) *typelang.TypeDescriptor {
	return c.descriptor.Params()[i]
}
