package mappingstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/hypo/internal/mapping"
)

func openTestSet(t *testing.T) *GormSet {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGormSet_ClassMappingRoundTrip(t *testing.T) {
	s := openTestSet(t)

	_, ok := s.ClassMapping("com/example/A")
	assert.False(t, ok)

	s.SetClassMapping("com/example/A", "Foo")
	name, ok := s.ClassMapping("com/example/A")
	require.True(t, ok)
	assert.Equal(t, "Foo", name)

	s.SetClassMapping("com/example/A", "Bar")
	name, ok = s.ClassMapping("com/example/A")
	require.True(t, ok)
	assert.Equal(t, "Bar", name, "re-setting the same class must update, not duplicate, the row")
}

func TestGormSet_ParameterMappingIndexZeroSurvivesFirstOrCreate(t *testing.T) {
	s := openTestSet(t)

	s.SetParameterMapping("com/example/A", "foo", "(I)V", 0, "arg0")
	name, ok := s.ParameterMapping("com/example/A", "foo", "(I)V", 0)
	require.True(t, ok, "parameter index 0 must not be dropped by a zero-value Where clause")
	assert.Equal(t, "arg0", name)

	s.SetParameterMapping("com/example/A", "foo", "(I)V", 1, "arg1")
	s.SetParameterMapping("com/example/A", "foo", "(I)V", 0, "renamed0")

	name0, ok := s.ParameterMapping("com/example/A", "foo", "(I)V", 0)
	require.True(t, ok)
	assert.Equal(t, "renamed0", name0, "updating index 0 must not affect index 1's row")

	name1, ok := s.ParameterMapping("com/example/A", "foo", "(I)V", 1)
	require.True(t, ok)
	assert.Equal(t, "arg1", name1)
}

func TestGormSet_HasClassConsidersAllLevels(t *testing.T) {
	s := openTestSet(t)
	assert.False(t, s.HasClass("com/example/A"))

	s.SetMemberMapping("com/example/A", "foo", "()V", "bar")
	assert.True(t, s.HasClass("com/example/A"))
}

func TestGormSet_CloneIsIndependent(t *testing.T) {
	s := openTestSet(t)
	s.SetClassMapping("com/example/A", "Foo")
	s.SetMemberMapping("com/example/A", "foo", "()V", "bar")
	s.SetParameterMapping("com/example/A", "foo", "()V", 0, "arg0")

	cloned := s.Clone()
	defer func() {
		if closer, ok := cloned.(*GormSet); ok {
			_ = closer.Close()
		}
	}()
	cloned.SetClassMapping("com/example/A", "Changed")

	name, ok := s.ClassMapping("com/example/A")
	require.True(t, ok)
	assert.Equal(t, "Foo", name, "mutating the clone must not affect the original store")

	clonedName, ok := cloned.ClassMapping("com/example/A")
	require.True(t, ok)
	assert.Equal(t, "Changed", clonedName)
}

func TestGormSet_RecordAuditAppendsEntries(t *testing.T) {
	s := openTestSet(t)
	s.SetClassMapping("com/example/A", "Foo")

	s.RecordAudit(mapping.ClassRef("com/example/A"), "first-contributor", "add-new-mapping")
	s.RecordAudit(mapping.ClassRef("com/example/A"), "second-contributor", "copy-down")

	var row ClassMappingRow
	require.NoError(t, s.db.Where("class = ?", "com/example/A").First(&row).Error)
	assert.Contains(t, string(row.Audit), "first-contributor")
	assert.Contains(t, string(row.Audit), "second-contributor")
}

func TestGormSet_DumpIsSortedAndStable(t *testing.T) {
	s := openTestSet(t)
	s.SetClassMapping("com/example/B", "B")
	s.SetClassMapping("com/example/A", "A")

	dump := s.Dump()
	require.Len(t, dump, 2)
	assert.Equal(t, "class com/example/A -> A", dump[0])
	assert.Equal(t, "class com/example/B -> B", dump[1])
}
