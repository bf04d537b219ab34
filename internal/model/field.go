package model

import "github.com/oxhq/hypo/internal/typelang"

// FieldConfig is the frozen structural data for one field, as decoded
// from the class file.
type FieldConfig struct {
	Name       string
	Descriptor *typelang.TypeDescriptor
	Signature  *typelang.TypeSignature // nil if absent
	Visibility Visibility
	Static     bool
	Final      bool
	Synthetic  bool
	RawDescriptor string
}

// Field is the FieldNode from spec.md §3.
type Field struct {
	Bag

	parent     *Class
	name       string
	descriptor *typelang.TypeDescriptor
	signature  *typelang.TypeSignature
	visibility Visibility
	static     bool
	final      bool
	synthetic  bool
	rawDesc    string
}

func NewField(cfg FieldConfig) *Field {
	return &Field{
		name:       cfg.Name,
		descriptor: cfg.Descriptor,
		signature:  cfg.Signature,
		visibility: cfg.Visibility,
		static:     cfg.Static,
		final:      cfg.Final,
		synthetic:  cfg.Synthetic,
		rawDesc:    cfg.RawDescriptor,
	}
}

func (f *Field) Name() string       { return f.name }
func (f *Field) Parent() *Class     { return f.parent }
func (f *Field) Descriptor() *typelang.TypeDescriptor { return f.descriptor }
func (f *Field) Signature() *typelang.TypeSignature   { return f.signature }
func (f *Field) Visibility() Visibility { return f.visibility }
func (f *Field) IsStatic() bool     { return f.static }
func (f *Field) IsFinal() bool      { return f.final }
func (f *Field) IsSynthetic() bool  { return f.synthetic }
func (f *Field) RawDescriptor() string { return f.rawDesc }
