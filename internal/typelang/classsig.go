package typelang

import (
	"strings"

	"github.com/oxhq/hypo/internal/ipool"
)

// ClassSignature is (type params, super class signature, super interface
// signatures), the generic declaration attached to a class file's
// Signature attribute.
type ClassSignature struct {
	typeParams      []*TypeParameter
	superClass      *TypeSignature
	superInterfaces []*TypeSignature
}

func (c *ClassSignature) TypeParams() []*TypeParameter    { return c.typeParams }
func (c *ClassSignature) SuperClass() *TypeSignature       { return c.superClass }
func (c *ClassSignature) SuperInterfaces() []*TypeSignature { return c.superInterfaces }

func (c *ClassSignature) Internal() string {
	var b strings.Builder
	writeTypeParameterList(&b, c.typeParams)
	c.superClass.writeInternal(&b)
	for _, i := range c.superInterfaces {
		i.writeInternal(&b)
	}
	return b.String()
}

func internClassSignature(c *ClassSignature) *ClassSignature {
	return ipool.ClassSignatures.Intern(c.Internal(), c).(*ClassSignature)
}

// ParseClassSignature parses s as a complete class signature.
func ParseClassSignature(s string) (*ClassSignature, error) {
	cur := newCursor(s)
	cs, err := parseClassSignature(cur)
	if err != nil {
		return nil, err
	}
	if err := cur.requireConsumed(); err != nil {
		return nil, err
	}
	return cs, nil
}

func parseClassSignature(c *cursor) (*ClassSignature, error) {
	start := c.pos
	typeParams, err := parseTypeParameterList(c)
	if err != nil {
		return nil, err
	}

	if c.eof() {
		return nil, c.failAt(start, "class signature missing required superclass component")
	}
	super, err := parseClassTypeSignatureExpectingL(c)
	if err != nil {
		return nil, err
	}

	var ifaces []*TypeSignature
	for {
		b, ok := c.peek()
		if !ok || b != 'L' {
			break
		}
		iface, err := parseClassTypeSignatureExpectingL(c)
		if err != nil {
			return nil, err
		}
		ifaces = append(ifaces, iface)
	}

	return internClassSignature(&ClassSignature{
		typeParams:      typeParams,
		superClass:      super,
		superInterfaces: ifaces,
	}), nil
}
