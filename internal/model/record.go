package model

import "github.com/oxhq/hypo/internal/typelang"

// RecordComponentConfig names a record component as decoded from the
// class file's Record attribute.
type RecordComponentConfig struct {
	Name       string
	Descriptor *typelang.TypeDescriptor
	Signature  *typelang.TypeSignature // nil if absent
	Parent     *Class
}

// RecordComponent resolves lazily against its parent's field list by
// (name, type), per spec.md §3.
type RecordComponent struct {
	name       string
	descriptor *typelang.TypeDescriptor
	signature  *typelang.TypeSignature
	field      *lazy[*Field]
}

func NewRecordComponent(cfg RecordComponentConfig) *RecordComponent {
	rc := &RecordComponent{
		name:       cfg.Name,
		descriptor: cfg.Descriptor,
		signature:  cfg.Signature,
	}
	parent := cfg.Parent
	rc.field = newLazy(func() (*Field, error) {
		if parent == nil {
			return nil, nil
		}
		for _, f := range parent.Fields() {
			if f.Name() == rc.name && f.Descriptor() == rc.descriptor {
				return f, nil
			}
		}
		return nil, nil
	})
	return rc
}

func (rc *RecordComponent) Name() string       { return rc.name }
func (rc *RecordComponent) Descriptor() *typelang.TypeDescriptor { return rc.descriptor }
func (rc *RecordComponent) Signature() *typelang.TypeSignature   { return rc.signature }

// BackingField resolves the field this component reflects, by (name,
// descriptor) against the parent class's field list.
func (rc *RecordComponent) BackingField() *Field {
	f, _ := rc.field.get()
	return f
}
