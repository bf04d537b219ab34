package typelang

import "strings"

// TypeParameter is a single `name : classBound {: interfaceBound}` entry
// from a class or method signature's `<...>` declaration list, per
// spec.md §4.2.
type TypeParameter struct {
	name            string
	classBound      *TypeSignature // nil when omitted (e.g. "T::Ljava/lang/Runnable;")
	interfaceBounds []*TypeSignature
}

func NewTypeParameter(name string, classBound *TypeSignature, interfaceBounds []*TypeSignature) *TypeParameter {
	return &TypeParameter{name: name, classBound: classBound, interfaceBounds: interfaceBounds}
}

func (p *TypeParameter) Name() string                     { return p.name }
func (p *TypeParameter) ClassBound() *TypeSignature        { return p.classBound }
func (p *TypeParameter) InterfaceBounds() []*TypeSignature { return p.interfaceBounds }

// erasedDescriptor returns the descriptor a variable bound to this
// parameter erases to: its class bound if present, else its first
// interface bound, else java/lang/Object (the implicit bound when none
// is declared).
func (p *TypeParameter) erasedDescriptor() *TypeDescriptor {
	if p.classBound != nil {
		if d, err := p.classBound.AsDescriptor(); err == nil {
			return d
		}
	}
	for _, ib := range p.interfaceBounds {
		if d, err := ib.AsDescriptor(); err == nil {
			return d
		}
	}
	return newClassDescriptor("java/lang/Object")
}

func (p *TypeParameter) writeInternal(b *strings.Builder) {
	b.WriteString(p.name)
	b.WriteByte(':')
	if p.classBound != nil {
		p.classBound.writeInternal(b)
	}
	for _, ib := range p.interfaceBounds {
		b.WriteByte(':')
		ib.writeInternal(b)
	}
}

func (p *TypeParameter) Internal() string {
	var b strings.Builder
	p.writeInternal(&b)
	return b.String()
}

// parseTypeParameterList parses an optional `< TypeParameter+ >` prefix.
// Returns nil, nil when the input does not start with '<'.
func parseTypeParameterList(c *cursor) ([]*TypeParameter, error) {
	b, ok := c.peek()
	if !ok || b != '<' {
		return nil, nil
	}
	start := c.pos
	c.pos++ // consume '<'

	var params []*TypeParameter
	for {
		if c.eof() {
			return nil, c.failAt(start, "type parameter list not terminated with '>'")
		}
		if b, _ := c.peek(); b == '>' {
			c.pos++
			break
		}
		p, err := parseTypeParameter(c)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	if len(params) == 0 {
		return nil, c.failAt(start, "type parameter list must declare at least one parameter")
	}
	return params, nil
}

func parseTypeParameter(c *cursor) (*TypeParameter, error) {
	start := c.pos
	nameStart := c.pos
	for {
		b, ok := c.peek()
		if !ok {
			return nil, c.failAt(start, "type parameter missing ':'")
		}
		if b == ':' {
			break
		}
		c.pos++
	}
	name := c.s[nameStart:c.pos]
	if name == "" {
		return nil, c.failAt(start, "type parameter has an empty name")
	}
	c.pos++ // consume ':'

	var classBound *TypeSignature
	if b, ok := c.peek(); ok && (b == 'L' || b == '[' || b == 'T') {
		var err error
		classBound, err = parseReferenceTypeSignature(c)
		if err != nil {
			return nil, err
		}
	}

	var interfaceBounds []*TypeSignature
	for {
		b, ok := c.peek()
		if !ok || b != ':' {
			break
		}
		c.pos++
		ib, err := parseReferenceTypeSignature(c)
		if err != nil {
			return nil, err
		}
		interfaceBounds = append(interfaceBounds, ib)
	}

	return &TypeParameter{name: name, classBound: classBound, interfaceBounds: interfaceBounds}, nil
}

func writeTypeParameterList(b *strings.Builder, params []*TypeParameter) {
	if len(params) == 0 {
		return
	}
	b.WriteByte('<')
	for _, p := range params {
		p.writeInternal(b)
	}
	b.WriteByte('>')
}
