package typelang

import (
	"strings"

	"github.com/oxhq/hypo/internal/ipool"
)

// MethodSignature is (type params, parameter list, return type, throws
// list), the generic-preserving counterpart of MethodDescriptor.
type MethodSignature struct {
	typeParams []*TypeParameter
	params     []*TypeSignature
	ret        *TypeSignature
	throws     []*TypeSignature
}

func (m *MethodSignature) TypeParams() []*TypeParameter { return m.typeParams }
func (m *MethodSignature) Params() []*TypeSignature     { return m.params }
func (m *MethodSignature) Return() *TypeSignature        { return m.ret }
func (m *MethodSignature) Throws() []*TypeSignature      { return m.throws }

func (m *MethodSignature) Internal() string {
	var b strings.Builder
	writeTypeParameterList(&b, m.typeParams)
	b.WriteByte('(')
	for _, p := range m.params {
		p.writeInternal(&b)
	}
	b.WriteByte(')')
	m.ret.writeInternal(&b)
	for _, t := range m.throws {
		b.WriteByte('^')
		t.writeInternal(&b)
	}
	return b.String()
}

func internMethodSignature(m *MethodSignature) *MethodSignature {
	return ipool.MethodSignatures.Intern(m.Internal(), m).(*MethodSignature)
}

// ParseMethodSignature parses s as a complete method signature.
func ParseMethodSignature(s string) (*MethodSignature, error) {
	c := newCursor(s)
	m, err := parseMethodSignature(c)
	if err != nil {
		return nil, err
	}
	if err := c.requireConsumed(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseMethodSignature(c *cursor) (*MethodSignature, error) {
	start := c.pos
	typeParams, err := parseTypeParameterList(c)
	if err != nil {
		return nil, err
	}

	if err := c.expect('(', "method signature must start with '('"); err != nil {
		return nil, c.failAt(start, "method signature missing parameter list")
	}

	var params []*TypeSignature
	for {
		b, ok := c.peek()
		if !ok {
			return nil, c.failAt(start, "method signature parameter list not terminated with ')'")
		}
		if b == ')' {
			c.pos++
			break
		}
		p, err := parseTypeSignature(c, false)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}

	if c.eof() {
		return nil, c.failAt(start, "method signature missing return type")
	}
	ret, err := parseTypeSignature(c, true)
	if err != nil {
		return nil, err
	}

	var throws []*TypeSignature
	for {
		b, ok := c.peek()
		if !ok || b != '^' {
			break
		}
		c.pos++
		var t *TypeSignature
		if tb, ok := c.peek(); ok && tb == 'T' {
			t, err = parseTypeVariableSignature(c)
		} else {
			t, err = parseClassTypeSignatureExpectingL(c)
		}
		if err != nil {
			return nil, err
		}
		throws = append(throws, t)
	}

	return internMethodSignature(&MethodSignature{
		typeParams: typeParams,
		params:     params,
		ret:        ret,
		throws:     throws,
	}), nil
}

// parseClassTypeSignatureExpectingL requires the next character to be 'L',
// used for throws-signature entries which must be a class type (or, via
// the 'T' branch in the caller, a type variable) per spec.md §4.2.
func parseClassTypeSignatureExpectingL(c *cursor) (*TypeSignature, error) {
	start := c.pos
	b, ok := c.peek()
	if !ok || b != 'L' {
		return nil, c.failAt(start, "throws signature must be a class type or type variable")
	}
	return parseClassTypeSignature(c)
}
