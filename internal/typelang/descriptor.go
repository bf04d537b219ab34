package typelang

import (
	"strings"

	"github.com/oxhq/hypo/internal/ipool"
)

// DescKind discriminates the closed sum of type-descriptor shapes from
// spec.md §3: { primitive, void, class(name), array(base, dims >= 1) }.
type DescKind int

const (
	DescPrimitive DescKind = iota
	DescVoid
	DescClass
	DescArray
)

// TypeDescriptor is the erased, generic-free type form used for JVM
// linkage. Values are immutable and always produced through the package's
// Parse* factories, which intern the result — constructors are
// unexported, matching spec.md §4.1's "constructors of interned values
// are package-private".
type TypeDescriptor struct {
	kind DescKind

	primitive byte // valid when kind == DescPrimitive: one of B S I J F D C Z
	className string // valid when kind == DescClass: slash-form internal name

	arrayBase *TypeDescriptor // valid when kind == DescArray; never itself an array
	arrayDims int             // valid when kind == DescArray; always >= 1
}

var primitiveLetters = "BSIJFDCZ"

func isPrimitiveLetter(b byte) bool {
	return strings.IndexByte(primitiveLetters, b) >= 0
}

func (d *TypeDescriptor) Kind() DescKind { return d.kind }
func (d *TypeDescriptor) IsPrimitive() bool { return d.kind == DescPrimitive }
func (d *TypeDescriptor) IsVoid() bool      { return d.kind == DescVoid }
func (d *TypeDescriptor) IsClass() bool     { return d.kind == DescClass }
func (d *TypeDescriptor) IsArray() bool     { return d.kind == DescArray }

// PrimitiveLetter returns the descriptor letter (B S I J F D C Z) when
// Kind() == DescPrimitive, else the zero byte.
func (d *TypeDescriptor) PrimitiveLetter() byte { return d.primitive }

// ClassName returns the slash-form internal class name when
// Kind() == DescClass, else "".
func (d *TypeDescriptor) ClassName() string { return d.className }

// ArrayBase returns the (never-array) element type when Kind() == DescArray.
func (d *TypeDescriptor) ArrayBase() *TypeDescriptor { return d.arrayBase }

// ArrayDims returns the array dimension count (>= 1) when Kind() == DescArray.
func (d *TypeDescriptor) ArrayDims() int { return d.arrayDims }

// Internal renders the canonical JVM textual form, e.g. "I", "V",
// "Ljava/lang/Object;", "[[I".
func (d *TypeDescriptor) Internal() string {
	var b strings.Builder
	d.writeInternal(&b)
	return b.String()
}

func (d *TypeDescriptor) writeInternal(b *strings.Builder) {
	switch d.kind {
	case DescPrimitive:
		b.WriteByte(d.primitive)
	case DescVoid:
		b.WriteByte('V')
	case DescClass:
		b.WriteByte('L')
		b.WriteString(d.className)
		b.WriteByte(';')
	case DescArray:
		for i := 0; i < d.arrayDims; i++ {
			b.WriteByte('[')
		}
		d.arrayBase.writeInternal(b)
	}
}

// Readable renders the human form: dots instead of slashes, array
// brackets suffixed after the element type (e.g. "java.lang.Object",
// "int[][]").
func (d *TypeDescriptor) Readable() string {
	switch d.kind {
	case DescPrimitive:
		return primitiveReadable(d.primitive)
	case DescVoid:
		return "void"
	case DescClass:
		return strings.ReplaceAll(d.className, "/", ".")
	case DescArray:
		return d.arrayBase.Readable() + strings.Repeat("[]", d.arrayDims)
	default:
		return d.Internal()
	}
}

func primitiveReadable(letter byte) string {
	switch letter {
	case 'B':
		return "byte"
	case 'S':
		return "short"
	case 'I':
		return "int"
	case 'J':
		return "long"
	case 'F':
		return "float"
	case 'D':
		return "double"
	case 'C':
		return "char"
	case 'Z':
		return "boolean"
	default:
		return string(letter)
	}
}

func internTypeDescriptor(d *TypeDescriptor) *TypeDescriptor {
	key := d.Internal()
	return ipool.Descriptors.Intern(key, d).(*TypeDescriptor)
}

func newPrimitiveDescriptor(letter byte) *TypeDescriptor {
	return internTypeDescriptor(&TypeDescriptor{kind: DescPrimitive, primitive: letter})
}

func newVoidDescriptor() *TypeDescriptor {
	return internTypeDescriptor(&TypeDescriptor{kind: DescVoid})
}

func newClassDescriptor(name string) *TypeDescriptor {
	return internTypeDescriptor(&TypeDescriptor{kind: DescClass, className: name})
}

func newArrayDescriptor(base *TypeDescriptor, dims int) *TypeDescriptor {
	return internTypeDescriptor(&TypeDescriptor{kind: DescArray, arrayBase: base, arrayDims: dims})
}

// ParseTypeDescriptor parses s as a complete type descriptor, failing if
// trailing input remains.
func ParseTypeDescriptor(s string) (*TypeDescriptor, error) {
	c := newCursor(s)
	d, err := parseTypeDescriptor(c, true)
	if err != nil {
		return nil, err
	}
	if err := c.requireConsumed(); err != nil {
		return nil, err
	}
	return d, nil
}

// ParseTypeDescriptorFrom parses a type descriptor starting at index,
// returning the node and the index immediately after it.
func ParseTypeDescriptorFrom(s string, index int) (*TypeDescriptor, int, error) {
	c := &cursor{s: s, pos: index}
	d, err := parseTypeDescriptor(c, true)
	if err != nil {
		return nil, 0, err
	}
	return d, c.pos, nil
}

// parseTypeDescriptor parses one type. allowVoid controls whether 'V' is
// accepted (only valid as a method return type per spec.md §4.2).
func parseTypeDescriptor(c *cursor, allowVoid bool) (*TypeDescriptor, error) {
	start := c.pos
	b, ok := c.peek()
	if !ok {
		return nil, c.fail("unexpected end of input; expected a type descriptor")
	}

	switch {
	case isPrimitiveLetter(b):
		c.pos++
		return newPrimitiveDescriptor(b), nil
	case b == 'V':
		if !allowVoid {
			return nil, c.failAt(start, "'V' is only valid as a method return type")
		}
		c.pos++
		return newVoidDescriptor(), nil
	case b == 'L':
		return parseClassDescriptor(c)
	case b == '[':
		return parseArrayDescriptor(c, allowVoid)
	default:
		return nil, c.failAt(start, "unknown leading character where a type descriptor was expected")
	}
}

func parseClassDescriptor(c *cursor) (*TypeDescriptor, error) {
	start := c.pos
	c.pos++ // consume 'L'
	nameStart := c.pos
	for {
		b, ok := c.peek()
		if !ok {
			return nil, c.failAt(start, "class descriptor not terminated with ';'")
		}
		if b == ';' {
			break
		}
		c.pos++
	}
	name := c.s[nameStart:c.pos]
	c.pos++ // consume ';'
	if name == "" {
		return nil, c.failAt(start, "class descriptor has an empty name")
	}
	return newClassDescriptor(name), nil
}

func parseArrayDescriptor(c *cursor, allowVoid bool) (*TypeDescriptor, error) {
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
	if dims == 0 {
		return nil, c.failAt(start, "array with no dimension marker")
	}
	if c.eof() {
		return nil, c.failAt(start, "array with no element type")
	}
	// The element type of an array is never itself an array, and 'V' can
	// never appear as an array element.
	elem, err := parseTypeDescriptor(c, false)
	if err != nil {
		return nil, err
	}
	// elem can never itself be an array: the loop above already consumed
	// every leading '[', so parseTypeDescriptor's own array branch can't fire.
	return newArrayDescriptor(elem, dims), nil
}

// AsSignature converts a descriptor to the equivalent (non-generic) type
// signature, the identity embedding used by spec.md §8's round-trip
// property d.AsSignature().AsDescriptor() == d.
func (d *TypeDescriptor) AsSignature() *TypeSignature {
	switch d.kind {
	case DescPrimitive:
		return newPrimitiveSignature(d.primitive)
	case DescVoid:
		return newVoidSignature()
	case DescClass:
		return newClassTypeSignature(nil, d.className, nil)
	case DescArray:
		return newArraySignature(d.arrayBase.AsSignature(), d.arrayDims)
	default:
		return nil
	}
}
