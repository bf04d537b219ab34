package typelang

import (
	"fmt"

	"github.com/oxhq/hypo/internal/herr"
)

// cursor is the mutable scan position shared by every parser in this
// package, per spec.md §4.2's "mutable cursor over the input string".
type cursor struct {
	s   string
	pos int
}

func newCursor(s string) *cursor {
	return &cursor{s: s}
}

func (c *cursor) eof() bool {
	return c.pos >= len(c.s)
}

func (c *cursor) peek() (byte, bool) {
	if c.eof() {
		return 0, false
	}
	return c.s[c.pos], true
}

func (c *cursor) next() (byte, bool) {
	b, ok := c.peek()
	if ok {
		c.pos++
	}
	return b, ok
}

// expect consumes b if it is next, else raises a structured parse error.
func (c *cursor) expect(b byte, what string) error {
	got, ok := c.peek()
	if !ok || got != b {
		return c.fail(fmt.Sprintf("expected %q (%s)", b, what))
	}
	c.pos++
	return nil
}

func (c *cursor) fail(msg string) error {
	return &herr.ParseError{Input: c.s, Index: c.pos, Msg: msg}
}

// failAt raises a parse error anchored at a specific earlier index, for
// messages that want to point at the start of the offending token rather
// than the cursor's current (post-advance) position.
func (c *cursor) failAt(index int, msg string) error {
	return &herr.ParseError{Input: c.s, Index: index, Msg: msg}
}

// requireConsumed is the "parse-all" contract: fails if trailing input
// remains after a top-level parse.
func (c *cursor) requireConsumed() error {
	if !c.eof() {
		return c.fail("trailing input after parse")
	}
	return nil
}
