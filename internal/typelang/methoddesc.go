package typelang

import (
	"strings"

	"github.com/oxhq/hypo/internal/ipool"
)

// MethodDescriptor is the (parameter list, return type) pair used for
// method linkage, per spec.md §3.
type MethodDescriptor struct {
	params []*TypeDescriptor
	ret    *TypeDescriptor
}

func (m *MethodDescriptor) Params() []*TypeDescriptor { return m.params }
func (m *MethodDescriptor) ParamCount() int           { return len(m.params) }
func (m *MethodDescriptor) Return() *TypeDescriptor    { return m.ret }

// Equal is descriptor equality by value, which interning turns into
// reference equality for values obtained through Parse*.
func (m *MethodDescriptor) Equal(other *MethodDescriptor) bool {
	return m == other
}

func (m *MethodDescriptor) Internal() string {
	var b strings.Builder
	b.WriteByte('(')
	for _, p := range m.params {
		p.writeInternal(&b)
	}
	b.WriteByte(')')
	m.ret.writeInternal(&b)
	return b.String()
}

func (m *MethodDescriptor) Readable() string {
	var parts []string
	for _, p := range m.params {
		parts = append(parts, p.Readable())
	}
	return m.ret.Readable() + "(" + strings.Join(parts, ", ") + ")"
}

func internMethodDescriptor(m *MethodDescriptor) *MethodDescriptor {
	key := m.Internal()
	return ipool.MethodDescriptors.Intern(key, m).(*MethodDescriptor)
}

// ParseMethodDescriptor parses s as a complete method descriptor.
func ParseMethodDescriptor(s string) (*MethodDescriptor, error) {
	c := newCursor(s)
	m, err := parseMethodDescriptor(c)
	if err != nil {
		return nil, err
	}
	if err := c.requireConsumed(); err != nil {
		return nil, err
	}
	return m, nil
}

// ParseMethodDescriptorFrom parses a method descriptor starting at index.
func ParseMethodDescriptorFrom(s string, index int) (*MethodDescriptor, int, error) {
	c := &cursor{s: s, pos: index}
	m, err := parseMethodDescriptor(c)
	if err != nil {
		return nil, 0, err
	}
	return m, c.pos, nil
}

func parseMethodDescriptor(c *cursor) (*MethodDescriptor, error) {
	start := c.pos
	if err := c.expect('(', "method descriptor must start with '('"); err != nil {
		return nil, c.failAt(start, "method descriptor not starting with '('")
	}

	var params []*TypeDescriptor
	for {
		b, ok := c.peek()
		if !ok {
			return nil, c.failAt(start, "method descriptor parameter list not terminated with ')'")
		}
		if b == ')' {
			c.pos++
			break
		}
		if b == '(' {
			return nil, c.fail("nested method descriptor inside parameter list")
		}
		p, err := parseTypeDescriptor(c, false)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}

	if c.eof() {
		return nil, c.failAt(start, "method descriptor missing return type")
	}
	ret, err := parseTypeDescriptor(c, true)
	if err != nil {
		return nil, err
	}

	return internMethodDescriptor(&MethodDescriptor{params: params, ret: ret}), nil
}
