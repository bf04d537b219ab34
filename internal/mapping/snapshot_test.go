package mapping

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dumpableFakeSet struct {
	*fakeSet
	lines []string
}

func (s *dumpableFakeSet) Dump() []string { return s.lines }

func TestDiffListener_FirstSnapshotEmitsNothing(t *testing.T) {
	var writes []string
	listener := &DiffListener{Write: func(s string) { writes = append(writes, s) }}

	listener.OnSnapshot("seed", &dumpableFakeSet{fakeSet: newFakeSet(), lines: []string{"class A -> Foo"}})

	assert.Empty(t, writes, "the first snapshot has nothing to diff against")
}

func TestDiffListener_SubsequentSnapshotEmitsUnifiedDiff(t *testing.T) {
	var writes []string
	listener := &DiffListener{Write: func(s string) { writes = append(writes, s) }}

	listener.OnSnapshot("seed", &dumpableFakeSet{fakeSet: newFakeSet(), lines: []string{"class A -> Foo"}})
	listener.OnSnapshot("rename", &dumpableFakeSet{fakeSet: newFakeSet(), lines: []string{"class A -> Bar"}})

	require.Len(t, writes, 1)
	assert.True(t, strings.Contains(writes[0], "-class A -> Foo"))
	assert.True(t, strings.Contains(writes[0], "+class A -> Bar"))
}

func TestDiffListener_NoChangeEmitsNoDiffNotice(t *testing.T) {
	var writes []string
	listener := &DiffListener{Write: func(s string) { writes = append(writes, s) }}

	lines := []string{"class A -> Foo"}
	listener.OnSnapshot("seed", &dumpableFakeSet{fakeSet: newFakeSet(), lines: lines})
	listener.OnSnapshot("noop", &dumpableFakeSet{fakeSet: newFakeSet(), lines: lines})

	require.Len(t, writes, 1)
	assert.Contains(t, writes[0], "no mapping changes")
}

func TestDiffListener_NonDumpableSnapshotIsSkipped(t *testing.T) {
	var writes []string
	listener := &DiffListener{Write: func(s string) { writes = append(writes, s) }}

	listener.OnSnapshot("seed", newFakeSet())
	listener.OnSnapshot("next", newFakeSet())

	assert.Empty(t, writes)
}
