package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/hypo/internal/model"
	"github.com/oxhq/hypo/internal/provider"
)

// nameAllContributor proposes a class-level mapping for every target that
// doesn't already have one, named after the stage it runs in.
type nameAllContributor struct {
	stage string
}

func (c *nameAllContributor) Name() string { return c.stage }

func (c *nameAllContributor) Contribute(t Target, current Set, p *provider.Provider, reg *Registry) error {
	if t.HasMapping {
		return nil
	}
	return reg.Submit(&AddNewMapping{Ref: ClassRef(t.ClassName), Name: c.stage + ":" + t.ClassName})
}

// auditingFakeSet extends fakeSet with RecordAudit so it satisfies
// AuditableSet, letting the chain test exercise that optional path.
type auditingFakeSet struct {
	*fakeSet
	audits []string
}

func (s *auditingFakeSet) Clone() Set {
	return &auditingFakeSet{fakeSet: s.fakeSet.Clone().(*fakeSet)}
}

func (s *auditingFakeSet) RecordAudit(ref Reference, contributor, description string) {
	s.audits = append(s.audits, contributor+":"+ref.String())
}

func TestUnionTargets_MappingOnlyClassSurfacesWithNilNode(t *testing.T) {
	set := newFakeSet()
	set.SetClassMapping("com/example/A", "A")

	targets := unionTargets(map[string]*model.Class{}, set)
	require.Len(t, targets, 1)
	assert.Equal(t, "com/example/A", targets[0].ClassName)
	assert.True(t, targets[0].HasMapping)
	assert.Nil(t, targets[0].Class)
}

func TestChangeChain_RunAppliesContributorsInOrderAndSnapshots(t *testing.T) {
	var stages []string
	listener := SnapshotListenerFunc(func(stage string, snapshot Set) {
		stages = append(stages, stage)
	})

	chain := &ChangeChain{
		Contributors: []Contributor{
			&nameAllContributor{stage: "first"},
			&nameAllContributor{stage: "second"},
		},
		Listeners: []SnapshotListener{listener},
	}

	set := &auditingFakeSet{fakeSet: newFakeSet()}
	result, err := chain.Run(set, nil)
	require.NoError(t, err)

	name, ok := result.ClassMapping("dummy")
	assert.False(t, ok, "no class target existed, so nothing should have been named")
	_ = name

	assert.Equal(t, []string{"first", "second"}, stages)
}

func TestChangeChain_RunLeavesAlreadyMappedClassUnchanged(t *testing.T) {
	set := &auditingFakeSet{fakeSet: newFakeSet()}
	set.SetClassMapping("com/example/Seed", "")
	set.RemoveClassMapping("com/example/Seed")

	classes := map[string]*model.Class{}
	chain := &ChangeChain{
		Contributors: []Contributor{&nameAllContributor{stage: "rename"}},
	}

	initial := &auditingFakeSet{fakeSet: newFakeSet()}
	initial.SetClassMapping("com/example/Seen", "placeholder")

	result, err := chain.Run(initial, nil)
	require.NoError(t, err)
	_ = classes

	name, ok := result.ClassMapping("com/example/Seen")
	require.True(t, ok)
	assert.Equal(t, "placeholder", name, "a class that already has a mapping should not be renamed by name-all")

	auditSet, ok := result.(*auditingFakeSet)
	require.True(t, ok)
	assert.Empty(t, auditSet.audits, "no change was applied for the already-mapped class, so no audit entry should exist")
}
