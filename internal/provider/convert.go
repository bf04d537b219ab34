package provider

import (
	"github.com/oxhq/hypo/internal/decoder"
	"github.com/oxhq/hypo/internal/model"
	"github.com/oxhq/hypo/internal/typelang"
)

// toClass builds a frozen model.Class from a decoded class-file,
// wiring every cross-class accessor to a resolver closure that calls
// back into Find — the class itself is constructed before its
// supertype is necessarily resolved, per spec.md §4.5's "a class can
// be constructed before its supertype has been parsed."
func (p *Provider) toClass(d *decoder.Class) (*model.Class, error) {
	kinds := kindSetFor(d.AccessFlags)
	if d.SuperName == "java/lang/Record" {
		kinds |= model.KindSet(model.KindRecord)
	}
	vis := visibilityFor(d.AccessFlags)

	var classSig *typelang.ClassSignature
	if d.Signature != "" {
		sig, err := typelang.ParseClassSignature(d.Signature)
		if err != nil {
			return nil, err
		}
		classSig = sig
	}

	fields := make([]*model.Field, 0, len(d.Fields))
	for _, f := range d.Fields {
		fields = append(fields, p.toField(f))
	}

	methods := make([]*model.Method, 0, len(d.Methods))
	var constructors []*model.Constructor
	for _, m := range d.Methods {
		if m.Name == model.ConstructorName {
			constructors = append(constructors, p.toConstructor(m))
			continue
		}
		methods = append(methods, p.toMethod(m))
	}

	owner := d.Name
	superName := d.SuperName
	ifaceNames := d.Interfaces
	permittedNames := d.PermittedSubclasses
	outer := d.OuterClass
	innerEntries := d.InnerClasses
	enclosingMethod := d.EnclosingMethod
	recordComponents := d.RecordComponents

	cfg := model.ClassConfig{
		Name:       owner,
		Kinds:      kinds,
		Visibility: vis,
		Final:      d.AccessFlags.Has(decoder.AccFinal),
		Synthetic:  d.AccessFlags.Has(decoder.AccSynthetic),
		Sealed:     len(permittedNames) > 0,

		ResolveSuper: func() (*model.Class, error) {
			if superName == "" {
				return nil, nil
			}
			sup, err := p.Find(superName)
			if err != nil {
				if p.strict {
					return nil, p.classpathError(owner, superName)
				}
				return nil, nil
			}
			if sup == nil && p.strict {
				return nil, p.classpathError(owner, superName)
			}
			return sup, nil
		},
		ResolveInterfaces: func() ([]*model.Class, error) {
			out := make([]*model.Class, 0, len(ifaceNames))
			for _, name := range ifaceNames {
				iface, err := p.Find(name)
				if err != nil {
					if p.strict {
						return nil, p.classpathError(owner, name)
					}
					continue
				}
				if iface == nil {
					if p.strict {
						return nil, p.classpathError(owner, name)
					}
					continue
				}
				out = append(out, iface)
			}
			return out, nil
		},
		ResolveEnclosing: func() (*model.Class, error) {
			if outer != nil {
				return p.Find(outer.Name)
			}
			for _, ic := range innerEntries {
				if ic.InnerName == owner && ic.OuterName != "" {
					return p.Find(ic.OuterName)
				}
			}
			return nil, nil
		},
		ResolveStaticInner: func() (bool, error) {
			return resolveStaticInner(owner, outer, innerEntries, enclosingMethod, p)
		},
		ResolvePermittedSubclasses: func() ([]*model.Class, error) {
			out := make([]*model.Class, 0, len(permittedNames))
			for _, name := range permittedNames {
				sub, err := p.Find(name)
				if err != nil {
					return nil, err
				}
				if sub != nil {
					out = append(out, sub)
				}
			}
			return out, nil
		},

		Fields:       fields,
		Methods:      methods,
		Constructors: constructors,
	}

	// self refers to the class being built below. The resolver closure
	// captures the variable, not its (nil) value at this point — by the
	// time RecordComponents() actually invokes it, self has been
	// assigned, since that lazy cell is never forced before NewClass
	// returns.
	var self *model.Class
	if kinds.Has(model.KindRecord) {
		cfg.RecordComponent = func() ([]*model.RecordComponent, error) {
			rcs := make([]*model.RecordComponent, 0, len(recordComponents))
			for _, rc := range recordComponents {
				desc, err := typelang.ParseTypeDescriptor(rc.Descriptor)
				if err != nil {
					return nil, err
				}
				var sig *typelang.TypeSignature
				if rc.Signature != "" {
					sig, err = typelang.ParseTypeSignature(rc.Signature)
					if err != nil {
						return nil, err
					}
				}
				rcs = append(rcs, model.NewRecordComponent(model.RecordComponentConfig{
					Name: rc.Name, Descriptor: desc, Signature: sig, Parent: self,
				}))
			}
			return rcs, nil
		}
	}

	self = model.NewClass(cfg)
	if classSig != nil {
		self.Put(classSignatureToken, classSig)
	}
	return self, nil
}

// classSignatureToken is the attached-data key a class's parsed generic
// class signature is stored under — spec.md's data model doesn't list
// the class signature as an essential ClassNode field the way field and
// method signatures are, so it rides the attached-data substrate instead
// of a dedicated accessor.
var classSignatureToken = model.NewToken("class-signature")

// ClassSignature retrieves a class's parsed generic signature, or nil if
// the class file carried no Signature attribute.
func ClassSignature(c *model.Class) *typelang.ClassSignature {
	v, ok := c.Get(classSignatureToken)
	if !ok {
		return nil
	}
	return v.(*typelang.ClassSignature)
}

// methodBodyToken is the attached-data key a method or constructor's
// pre-extracted method body facts (decoder.MethodBody) are stored
// under, when the decoder provided any — the standard hydration
// providers (bridge-target, super-constructor-call, lambda-closure)
// read these back via MethodBody.
var methodBodyToken = model.NewToken("method-body")

// bagHolder is the minimal capability the attached-data substrate
// exposes on every node type; Method and Constructor both embed Bag
// but share no common named type.
type bagHolder interface {
	Get(*model.Token) (any, bool)
}

// MethodBody retrieves the pre-extracted call-site facts attached to a
// method or constructor node, or nil if the decoder supplied none.
func MethodBody(node bagHolder) *decoder.MethodBody {
	v, ok := node.Get(methodBodyToken)
	if !ok {
		return nil
	}
	return v.(*decoder.MethodBody)
}

func (p *Provider) toField(f decoder.Field) *model.Field {
	desc, err := typelang.ParseTypeDescriptor(f.Descriptor)
	if err != nil {
		desc = nil
	}
	var sig *typelang.TypeSignature
	if f.Signature != "" {
		sig, _ = typelang.ParseTypeSignature(f.Signature)
	}
	return model.NewField(model.FieldConfig{
		Name:          f.Name,
		Descriptor:    desc,
		Signature:     sig,
		Visibility:    visibilityFor(f.AccessFlags),
		Static:        f.AccessFlags.Has(decoder.AccStatic),
		Final:         f.AccessFlags.Has(decoder.AccFinal),
		Synthetic:     f.AccessFlags.Has(decoder.AccSynthetic),
		RawDescriptor: f.Descriptor,
	})
}

func (p *Provider) toMethod(m decoder.Method) *model.Method {
	desc, err := typelang.ParseMethodDescriptor(m.Descriptor)
	if err != nil {
		desc = nil
	}
	var sig *typelang.MethodSignature
	if m.Signature != "" {
		sig, _ = typelang.ParseMethodSignature(m.Signature)
	}
	method := model.NewMethod(model.MethodConfig{
		Name:          m.Name,
		Descriptor:    desc,
		Signature:     sig,
		Visibility:    visibilityFor(m.AccessFlags),
		Static:        m.AccessFlags.Has(decoder.AccStatic),
		Abstract:      m.AccessFlags.Has(decoder.AccAbstract),
		Final:         m.AccessFlags.Has(decoder.AccFinal),
		Synthetic:     m.AccessFlags.Has(decoder.AccSynthetic),
		Bridge:        m.AccessFlags.Has(decoder.AccBridge),
		Native:        m.AccessFlags.Has(decoder.AccNative),
		HasBody:       m.HasBody,
		RawDescriptor: m.Descriptor,
	})
	if m.Body != nil {
		method.Put(methodBodyToken, m.Body)
	}
	return method
}

func (p *Provider) toConstructor(m decoder.Method) *model.Constructor {
	desc, err := typelang.ParseMethodDescriptor(m.Descriptor)
	if err != nil {
		desc = nil
	}
	var sig *typelang.MethodSignature
	if m.Signature != "" {
		sig, _ = typelang.ParseMethodSignature(m.Signature)
	}
	ctor := model.NewConstructor(model.ConstructorConfig{
		Descriptor:    desc,
		Signature:     sig,
		Visibility:    visibilityFor(m.AccessFlags),
		Synthetic:     m.AccessFlags.Has(decoder.AccSynthetic),
		HasBody:       m.HasBody,
		RawDescriptor: m.Descriptor,
	})
	if m.Body != nil {
		ctor.Put(methodBodyToken, m.Body)
	}
	return ctor
}

func kindSetFor(f decoder.AccessFlags) model.KindSet {
	var k model.ClassKind
	switch {
	case f.Has(decoder.AccAnnotation):
		k |= model.KindAnnotation | model.KindInterface
	case f.Has(decoder.AccEnum):
		k |= model.KindEnum
	case f.Has(decoder.AccInterface):
		k |= model.KindInterface
	default:
		k |= model.KindClass
	}
	if f.Has(decoder.AccAbstract) && !f.Has(decoder.AccInterface) {
		k |= model.KindAbstract
	}
	return model.KindSet(k)
}

func visibilityFor(f decoder.AccessFlags) model.Visibility {
	switch {
	case f.Has(decoder.AccPublic):
		return model.VisibilityPublic
	case f.Has(decoder.AccProtected):
		return model.VisibilityProtected
	case f.Has(decoder.AccPrivate):
		return model.VisibilityPrivate
	default:
		return model.VisibilityPackagePrivate
	}
}

// resolveStaticInner implements spec.md §4.6's heuristic: true iff
// (a) an enclosing class is present and the matching InnerClasses
// entry carries the static or enum bit, (b) an enclosing method is
// recorded and resolves to a static method, or (c) no enclosing method
// is recorded and the matching InnerClasses entry carries the static or
// enum bit. An enclosing method that cannot be resolved yields false.
// No separate record bit is checked.
func resolveStaticInner(
	owner string,
	outer *decoder.OuterClass,
	innerEntries []decoder.InnerClassEntry,
	enclosingMethod *decoder.EnclosingMethod,
	p *Provider,
) (bool, error) {
	var matchingEntry *decoder.InnerClassEntry
	for i := range innerEntries {
		if innerEntries[i].InnerName == owner {
			matchingEntry = &innerEntries[i]
			break
		}
	}

	hasEnclosing := outer != nil || (matchingEntry != nil && matchingEntry.OuterName != "")
	if hasEnclosing && matchingEntry != nil && staticLikeBit(matchingEntry.AccessFlags) {
		return true, nil
	}

	if enclosingMethod != nil && enclosingMethod.MethodName != "" {
		encClass, err := p.Find(enclosingMethod.ClassName)
		if err != nil || encClass == nil {
			return false, nil
		}
		for _, m := range encClass.Methods() {
			if m.Name() == enclosingMethod.MethodName && m.RawDescriptor() == enclosingMethod.MethodDescriptor {
				return m.IsStatic(), nil
			}
		}
		return false, nil
	}

	if matchingEntry != nil && staticLikeBit(matchingEntry.AccessFlags) {
		return true, nil
	}

	return false, nil
}

func staticLikeBit(f decoder.AccessFlags) bool {
	return f.Has(decoder.AccStatic) || f.Has(decoder.AccEnum)
}
