package mapping

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/hypo/internal/herr"
)

type fakeSet struct {
	classes map[string]string
	members map[string]string
	params  map[string]string
}

func newFakeSet() *fakeSet {
	return &fakeSet{classes: map[string]string{}, members: map[string]string{}, params: map[string]string{}}
}

func memberKeyStr(class, member, descriptor string) string { return class + "#" + member + descriptor }
func paramKeyStr(class, member, descriptor string, index int) string {
	return memberKeyStr(class, member, descriptor) + "#" + string(rune('0'+index))
}

func (s *fakeSet) ClassMapping(class string) (string, bool) { v, ok := s.classes[class]; return v, ok }
func (s *fakeSet) SetClassMapping(class, name string)        { s.classes[class] = name }
func (s *fakeSet) RemoveClassMapping(class string)           { delete(s.classes, class) }
func (s *fakeSet) MemberMapping(class, member, descriptor string) (string, bool) {
	v, ok := s.members[memberKeyStr(class, member, descriptor)]
	return v, ok
}
func (s *fakeSet) SetMemberMapping(class, member, descriptor, name string) {
	s.members[memberKeyStr(class, member, descriptor)] = name
}
func (s *fakeSet) RemoveMemberMapping(class, member, descriptor string) {
	delete(s.members, memberKeyStr(class, member, descriptor))
}
func (s *fakeSet) ParameterMapping(class, member, descriptor string, index int) (string, bool) {
	v, ok := s.params[paramKeyStr(class, member, descriptor, index)]
	return v, ok
}
func (s *fakeSet) SetParameterMapping(class, member, descriptor string, index int, name string) {
	s.params[paramKeyStr(class, member, descriptor, index)] = name
}
func (s *fakeSet) RemoveParameterMapping(class, member, descriptor string, index int) {
	delete(s.params, paramKeyStr(class, member, descriptor, index))
}
func (s *fakeSet) HasClass(class string) bool {
	if _, ok := s.classes[class]; ok {
		return true
	}
	return false
}
func (s *fakeSet) ClassNames() []string {
	out := make([]string, 0, len(s.classes))
	for c := range s.classes {
		out = append(out, c)
	}
	return out
}
func (s *fakeSet) MemberMappings(class string) []MemberMappingEntry {
	var out []MemberMappingEntry
	for k, name := range s.members {
		if len(k) <= len(class) || k[:len(class)] != class {
			continue
		}
		out = append(out, MemberMappingEntry{Name: name})
	}
	return out
}

func (s *fakeSet) ParameterMappings(class string) []ParamMappingEntry {
	var out []ParamMappingEntry
	for k, name := range s.params {
		if len(k) <= len(class) || k[:len(class)] != class {
			continue
		}
		out = append(out, ParamMappingEntry{Name: name})
	}
	return out
}

func (s *fakeSet) Clone() Set {
	clone := newFakeSet()
	for k, v := range s.classes {
		clone.classes[k] = v
	}
	for k, v := range s.members {
		clone.members[k] = v
	}
	for k, v := range s.params {
		clone.params[k] = v
	}
	return clone
}

func TestAddNewMapping_MergeSameNameSucceeds(t *testing.T) {
	ref := MemberRef("com/example/A", "foo", "()V")
	a := &AddNewMapping{Ref: ref, Name: "bar"}
	b := &AddNewMapping{Ref: ref, Name: "bar"}

	merged, err := a.Merge(b)
	require.NoError(t, err)
	assert.Equal(t, "bar", merged.(*AddNewMapping).Name)
}

func TestAddNewMapping_MergeDifferentNameConflicts(t *testing.T) {
	ref := MemberRef("com/example/A", "foo", "()V")
	a := &AddNewMapping{Ref: ref, Name: "bar"}
	b := &AddNewMapping{Ref: ref, Name: "baz"}

	_, err := a.Merge(b)
	assert.True(t, errors.Is(err, herr.ErrMergeConflict))
}

func TestRemoveMapping_PrunesEmptyClass(t *testing.T) {
	set := newFakeSet()
	set.SetClassMapping("com/example/A", "A")
	set.SetMemberMapping("com/example/A", "foo", "()V", "bar")

	change := &RemoveMapping{Ref: MemberRef("com/example/A", "foo", "()V")}
	require.NoError(t, change.Apply(set))

	_, ok := set.ClassMapping("com/example/A")
	assert.False(t, ok, "class mapping should be pruned once its only member mapping is removed")
}

func TestCopyConstructorMapping_MergePrefersDeeperChain(t *testing.T) {
	target := MemberRef("com/example/Sub", "<init>", "()V")
	shallow := &CopyConstructorMapping{
		TargetRef: target,
		Source:    MemberRef("com/example/Mid", "<init>", "()V"),
		ChainPath: []string{"com/example/Mid"},
	}
	deep := &CopyConstructorMapping{
		TargetRef: target,
		Source:    MemberRef("com/example/Base", "<init>", "()V"),
		ChainPath: []string{"com/example/Mid", "com/example/Base"},
	}

	merged, err := shallow.Merge(deep)
	require.NoError(t, err)
	assert.Equal(t, "com/example/Base", merged.(*CopyConstructorMapping).Source.Class)
}

func TestCopyConstructorMapping_DivergentChainsConflict(t *testing.T) {
	target := MemberRef("com/example/Sub", "<init>", "()V")
	a := &CopyConstructorMapping{
		TargetRef: target,
		Source:    MemberRef("com/example/BranchA", "<init>", "()V"),
		ChainPath: []string{"com/example/BranchA"},
	}
	b := &CopyConstructorMapping{
		TargetRef: target,
		Source:    MemberRef("com/example/BranchB", "<init>", "()V"),
		ChainPath: []string{"com/example/BranchB"},
	}

	_, err := a.Merge(b)
	assert.True(t, errors.Is(err, herr.ErrMergeConflict))
}

func TestCopyLambdaParameterMapping_MergePrefersLargerCount(t *testing.T) {
	target := MemberRef("com/example/Sub", "lambda$run$0", "()V")
	small := &CopyLambdaParameterMapping{TargetRef: target, SourceMappingCount: 1}
	large := &CopyLambdaParameterMapping{TargetRef: target, SourceMappingCount: 3}

	merged, err := small.Merge(large)
	require.NoError(t, err)
	assert.Equal(t, 3, merged.(*CopyLambdaParameterMapping).SourceMappingCount)
}
