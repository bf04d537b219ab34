package typelang

import (
	"strings"

	"github.com/oxhq/hypo/internal/ipool"
)

// SigKind discriminates the closed sum of type-signature shapes from
// spec.md §3: primitive, void, class-type (with optional owner and
// args), array, type variable.
type SigKind int

const (
	SigPrimitive SigKind = iota
	SigVoid
	SigClassType
	SigArray
	SigTypeVariable
)

// ArgKind discriminates a generic type argument: wildcard, upper-bound
// ("+ T"), lower-bound ("- T"), or a plain reference type.
type ArgKind int

const (
	ArgWildcard ArgKind = iota
	ArgUpperBound
	ArgLowerBound
	ArgPlain
)

// TypeArgument is one element of a class type's `<...>` argument list.
type TypeArgument struct {
	kind ArgKind
	ref  *TypeSignature // nil when kind == ArgWildcard
}

func (a *TypeArgument) Kind() ArgKind        { return a.kind }
func (a *TypeArgument) Ref() *TypeSignature  { return a.ref }

func (a *TypeArgument) writeInternal(b *strings.Builder) {
	switch a.kind {
	case ArgWildcard:
		b.WriteByte('*')
	case ArgUpperBound:
		b.WriteByte('+')
		a.ref.writeInternal(b)
	case ArgLowerBound:
		b.WriteByte('-')
		a.ref.writeInternal(b)
	case ArgPlain:
		a.ref.writeInternal(b)
	}
}

// TypeSignature is the generic-preserving type form used by the compiler,
// per spec.md §3. Values are immutable and produced only through this
// package's Parse* factories (or AsSignature conversions), which intern
// the result; Bind's bound results are the one uninterned form.
type TypeSignature struct {
	kind SigKind

	primitive byte

	owner     *TypeSignature // optional enclosing generic-class signature (SigClassType)
	className string
	typeArgs  []*TypeArgument // nil means no <...> was written; never len 0

	arrayBase *TypeSignature
	arrayDims int

	varName  string
	varBound *TypeParameter // nil until bound; see bind.go
}

func (t *TypeSignature) Kind() SigKind           { return t.kind }
func (t *TypeSignature) IsPrimitive() bool       { return t.kind == SigPrimitive }
func (t *TypeSignature) IsVoid() bool            { return t.kind == SigVoid }
func (t *TypeSignature) IsClassType() bool       { return t.kind == SigClassType }
func (t *TypeSignature) IsArray() bool           { return t.kind == SigArray }
func (t *TypeSignature) IsTypeVariable() bool    { return t.kind == SigTypeVariable }
func (t *TypeSignature) PrimitiveLetter() byte   { return t.primitive }
func (t *TypeSignature) Owner() *TypeSignature   { return t.owner }
func (t *TypeSignature) ClassName() string       { return t.className }
func (t *TypeSignature) TypeArgs() []*TypeArgument { return t.typeArgs }
func (t *TypeSignature) ArrayBase() *TypeSignature { return t.arrayBase }
func (t *TypeSignature) ArrayDims() int          { return t.arrayDims }
func (t *TypeSignature) VariableName() string    { return t.varName }

// VariableBound returns the type parameter this variable has been bound
// to, or nil if the variable is unbound. See IsUnbound and Bind.
func (t *TypeSignature) VariableBound() *TypeParameter { return t.varBound }

// IsUnbound reports whether this signature contains at least one type
// variable whose declaring type parameter has not been attached, per
// spec.md §4.3.
func (t *TypeSignature) IsUnbound() bool {
	switch t.kind {
	case SigTypeVariable:
		return t.varBound == nil
	case SigArray:
		return t.arrayBase.IsUnbound()
	case SigClassType:
		if t.owner != nil && t.owner.IsUnbound() {
			return true
		}
		for _, a := range t.typeArgs {
			if a.ref != nil && a.ref.IsUnbound() {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func (t *TypeSignature) Internal() string {
	var b strings.Builder
	t.writeInternal(&b)
	return b.String()
}

func (t *TypeSignature) writeInternal(b *strings.Builder) {
	switch t.kind {
	case SigPrimitive:
		b.WriteByte(t.primitive)
	case SigVoid:
		b.WriteByte('V')
	case SigTypeVariable:
		b.WriteByte('T')
		b.WriteString(t.varName)
		b.WriteByte(';')
	case SigArray:
		for i := 0; i < t.arrayDims; i++ {
			b.WriteByte('[')
		}
		t.arrayBase.writeInternal(b)
	case SigClassType:
		b.WriteByte('L')
		t.writeClassBody(b)
		b.WriteByte(';')
	}
}

func (t *TypeSignature) writeClassBody(b *strings.Builder) {
	if t.owner != nil {
		t.owner.writeClassBody(b)
		b.WriteByte('.')
	}
	b.WriteString(t.className)
	if t.typeArgs != nil {
		b.WriteByte('<')
		for _, a := range t.typeArgs {
			a.writeInternal(b)
		}
		b.WriteByte('>')
	}
}

// Readable renders a human-friendly form: dots for packages, generic
// arguments in angle brackets, arrays suffixed.
func (t *TypeSignature) Readable() string {
	switch t.kind {
	case SigPrimitive:
		return primitiveReadable(t.primitive)
	case SigVoid:
		return "void"
	case SigTypeVariable:
		return t.varName
	case SigArray:
		return t.arrayBase.Readable() + strings.Repeat("[]", t.arrayDims)
	case SigClassType:
		var b strings.Builder
		if t.owner != nil {
			b.WriteString(t.owner.Readable())
			b.WriteByte('.')
		}
		b.WriteString(strings.ReplaceAll(t.className, "/", "."))
		if t.typeArgs != nil {
			b.WriteByte('<')
			for i, a := range t.typeArgs {
				if i > 0 {
					b.WriteString(", ")
				}
				switch a.kind {
				case ArgWildcard:
					b.WriteByte('?')
				case ArgUpperBound:
					b.WriteString("? extends ")
					b.WriteString(a.ref.Readable())
				case ArgLowerBound:
					b.WriteString("? super ")
					b.WriteString(a.ref.Readable())
				case ArgPlain:
					b.WriteString(a.ref.Readable())
				}
			}
			b.WriteByte('>')
		}
		return b.String()
	default:
		return t.Internal()
	}
}

func internTypeSignature(t *TypeSignature) *TypeSignature {
	key := t.Internal()
	return ipool.TypeSignatures.Intern(key, t).(*TypeSignature)
}

func newPrimitiveSignature(letter byte) *TypeSignature {
	return internTypeSignature(&TypeSignature{kind: SigPrimitive, primitive: letter})
}

func newVoidSignature() *TypeSignature {
	return internTypeSignature(&TypeSignature{kind: SigVoid})
}

func newClassTypeSignature(owner *TypeSignature, name string, args []*TypeArgument) *TypeSignature {
	return internTypeSignature(&TypeSignature{kind: SigClassType, owner: owner, className: name, typeArgs: args})
}

func newArraySignature(base *TypeSignature, dims int) *TypeSignature {
	return internTypeSignature(&TypeSignature{kind: SigArray, arrayBase: base, arrayDims: dims})
}

func newTypeVariableSignature(name string) *TypeSignature {
	return internTypeSignature(&TypeSignature{kind: SigTypeVariable, varName: name})
}

// ParseTypeSignature parses s as a complete type signature.
func ParseTypeSignature(s string) (*TypeSignature, error) {
	c := newCursor(s)
	t, err := parseTypeSignature(c, true)
	if err != nil {
		return nil, err
	}
	if err := c.requireConsumed(); err != nil {
		return nil, err
	}
	return t, nil
}

// ParseTypeSignatureFrom parses a type signature starting at index.
func ParseTypeSignatureFrom(s string, index int) (*TypeSignature, int, error) {
	c := &cursor{s: s, pos: index}
	t, err := parseTypeSignature(c, true)
	if err != nil {
		return nil, 0, err
	}
	return t, c.pos, nil
}

func parseTypeSignature(c *cursor, allowVoid bool) (*TypeSignature, error) {
	start := c.pos
	b, ok := c.peek()
	if !ok {
		return nil, c.fail("unexpected end of input; expected a type signature")
	}
	switch {
	case isPrimitiveLetter(b):
		c.pos++
		return newPrimitiveSignature(b), nil
	case b == 'V':
		if !allowVoid {
			return nil, c.failAt(start, "'V' is only valid as a method return type")
		}
		c.pos++
		return newVoidSignature(), nil
	case b == 'T':
		return parseTypeVariableSignature(c)
	case b == 'L':
		return parseClassTypeSignature(c)
	case b == '[':
		return parseArraySignature(c)
	default:
		return nil, c.failAt(start, "unknown leading character where a type signature was expected")
	}
}

// parseReferenceTypeSignature parses a FieldTypeSignature: class type,
// array, or type variable — never a primitive or void. Used for type
// arguments, wildcard bounds, and type-parameter bounds.
func parseReferenceTypeSignature(c *cursor) (*TypeSignature, error) {
	start := c.pos
	t, err := parseTypeSignature(c, false)
	if err != nil {
		return nil, err
	}
	if t.IsPrimitive() {
		return nil, c.failAt(start, "a primitive type cannot be used where a reference type signature is required")
	}
	return t, nil
}

func parseTypeVariableSignature(c *cursor) (*TypeSignature, error) {
	start := c.pos
	c.pos++ // consume 'T'
	nameStart := c.pos
	for {
		b, ok := c.peek()
		if !ok {
			return nil, c.failAt(start, "type variable not terminated with ';'")
		}
		if b == ';' {
			break
		}
		c.pos++
	}
	name := c.s[nameStart:c.pos]
	c.pos++ // consume ';'
	if name == "" {
		return nil, c.failAt(start, "type variable has an empty name")
	}
	return newTypeVariableSignature(name), nil
}

func parseArraySignature(c *cursor) (*TypeSignature, error) {
	start := c.pos
	dims := 0
	for {
		b, ok := c.peek()
		if !ok || b != '[' {
			break
		}
		dims++
		c.pos++
	}
	if c.eof() {
		return nil, c.failAt(start, "array with no element type")
	}
	elem, err := parseTypeSignature(c, false)
	if err != nil {
		return nil, err
	}
	return newArraySignature(elem, dims), nil
}

// isClassSegmentStop reports whether b terminates a class-name or
// simple-class-type-signature segment: generic-argument open, nested-type
// dot, and the descriptor terminator.
func isClassSegmentStop(b byte) bool {
	return b == ';' || b == '<' || b == '.'
}

func parseClassTypeSignature(c *cursor) (*TypeSignature, error) {
	start := c.pos
	c.pos++ // consume 'L'

	var owner *TypeSignature
	for {
		segStart := c.pos
		for {
			b, ok := c.peek()
			if !ok {
				return nil, c.failAt(start, "class signature not terminated with ';'")
			}
			if isClassSegmentStop(b) {
				break
			}
			c.pos++
		}
		name := c.s[segStart:c.pos]
		if name == "" {
			return nil, c.failAt(start, "class type signature has an empty name segment")
		}

		var args []*TypeArgument
		if b, ok := c.peek(); ok && b == '<' {
			var err error
			args, err = parseTypeArguments(c)
			if err != nil {
				return nil, err
			}
		}

		node := newClassTypeSignature(owner, name, args)

		b, ok := c.peek()
		if !ok {
			return nil, c.failAt(start, "class signature not terminated with ';'")
		}
		if b == '.' {
			c.pos++
			owner = node
			continue
		}
		if b != ';' {
			return nil, c.failAt(start, "class signature not terminated with ';'")
		}
		c.pos++ // consume ';'
		return node, nil
	}
}

func parseTypeArguments(c *cursor) ([]*TypeArgument, error) {
	start := c.pos
	c.pos++ // consume '<'
	var args []*TypeArgument
	for {
		b, ok := c.peek()
		if !ok {
			return nil, c.failAt(start, "generic type-argument list not terminated with '>'")
		}
		if b == '>' {
			c.pos++
			break
		}
		switch b {
		case '*':
			c.pos++
			args = append(args, &TypeArgument{kind: ArgWildcard})
		case '+':
			c.pos++
			ref, err := parseReferenceTypeSignature(c)
			if err != nil {
				return nil, err
			}
			args = append(args, &TypeArgument{kind: ArgUpperBound, ref: ref})
		case '-':
			c.pos++
			ref, err := parseReferenceTypeSignature(c)
			if err != nil {
				return nil, err
			}
			args = append(args, &TypeArgument{kind: ArgLowerBound, ref: ref})
		default:
			ref, err := parseReferenceTypeSignature(c)
			if err != nil {
				return nil, err
			}
			args = append(args, &TypeArgument{kind: ArgPlain, ref: ref})
		}
	}
	if len(args) == 0 {
		return nil, c.failAt(start, "generic type-argument list must have at least one argument")
	}
	return args, nil
}

// AsDescriptor converts a bound signature back to its erased descriptor
// form. Unbound type variables cannot be erased: spec.md §4.3 requires
// this to fail with an unbound-variable error.
func (t *TypeSignature) AsDescriptor() (*TypeDescriptor, error) {
	switch t.kind {
	case SigPrimitive:
		return newPrimitiveDescriptor(t.primitive), nil
	case SigVoid:
		return newVoidDescriptor(), nil
	case SigClassType:
		return newClassDescriptor(t.className), nil
	case SigArray:
		base, err := t.arrayBase.AsDescriptor()
		if err != nil {
			return nil, err
		}
		if base.IsArray() {
			return newArrayDescriptor(base.arrayBase, t.arrayDims+base.arrayDims), nil
		}
		return newArrayDescriptor(base, t.arrayDims), nil
	case SigTypeVariable:
		if t.varBound == nil {
			return nil, &unboundVariableError{name: t.varName}
		}
		return t.varBound.erasedDescriptor(), nil
	default:
		return nil, &unboundVariableError{name: "<unknown>"}
	}
}
