package mappingstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplicate_CopiesEveryEntryAcrossImplementations(t *testing.T) {
	src := NewMemorySet()
	src.SetClassMapping("com/example/A", "Foo")
	src.SetMemberMapping("com/example/A", "run", "()V", "execute")
	src.SetParameterMapping("com/example/A", "run", "()V", 0, "self")

	dst := NewMemorySet()
	dst.SetClassMapping("com/example/Stale", "ShouldRemain")

	Replicate(dst, src)

	name, ok := dst.ClassMapping("com/example/A")
	assert.True(t, ok)
	assert.Equal(t, "Foo", name)

	memberName, ok := dst.MemberMapping("com/example/A", "run", "()V")
	assert.True(t, ok)
	assert.Equal(t, "execute", memberName)

	paramName, ok := dst.ParameterMapping("com/example/A", "run", "()V", 0)
	assert.True(t, ok)
	assert.Equal(t, "self", paramName)

	_, ok = dst.ClassMapping("com/example/Stale")
	assert.True(t, ok, "replicate only adds/overwrites entries present in src, it does not clear dst first")
}
