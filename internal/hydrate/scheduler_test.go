package hydrate

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/hypo/internal/model"
)

// recordingProvider tracks the order of classes it was invoked on and
// optionally depends on another provider's token.
type recordingProvider struct {
	name      string
	fam       Family
	produces  []Token
	consumes  []Token
	mu        sync.Mutex
	classHits []string
}

func (r *recordingProvider) Name() string      { return r.name }
func (r *recordingProvider) Family() Family     { return r.fam }
func (r *recordingProvider) Produces() []Token  { return r.produces }
func (r *recordingProvider) Consumes() []Token  { return r.consumes }

func (r *recordingProvider) ApplyClass(c *model.Class) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classHits = append(r.classHits, c.Name())
	return nil
}
func (r *recordingProvider) ApplyMethod(*model.Method) error           { return nil }
func (r *recordingProvider) ApplyConstructor(*model.Constructor) error { return nil }
func (r *recordingProvider) ApplyField(*model.Field) error             { return nil }

func TestScheduler_RunsWavesInDependencyOrder(t *testing.T) {
	var order []string
	var mu sync.Mutex

	first := &orderedProvider{name: "first", produces: []Token{"a"}, order: &order, mu: &mu}
	second := &orderedProvider{name: "second", consumes: []Token{"a"}, order: &order, mu: &mu}

	classA := model.NewClass(model.ClassConfig{Name: "com/example/A", Kinds: model.KindSet(model.KindClass)})

	sched := NewScheduler([]EnrichmentProvider{second, first}, 2)
	runID, err := sched.Run(context.Background(), []*model.Class{classA})
	require.NoError(t, err)
	assert.NotEmpty(t, runID)

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestScheduler_IndependentProvidersRunInFirstWave(t *testing.T) {
	a := &recordingProvider{name: "a", fam: FamilyClass}
	b := &recordingProvider{name: "b", fam: FamilyClass}

	classX := model.NewClass(model.ClassConfig{Name: "com/example/X", Kinds: model.KindSet(model.KindClass)})

	sched := NewScheduler([]EnrichmentProvider{a, b}, 2)
	_, err := sched.Run(context.Background(), []*model.Class{classX})
	require.NoError(t, err)

	assert.Contains(t, a.classHits, "com/example/X")
	assert.Contains(t, b.classHits, "com/example/X")
}

func TestScheduleWaves_DetectsCycle(t *testing.T) {
	p1 := &recordingProvider{name: "p1", produces: []Token{"x"}, consumes: []Token{"y"}}
	p2 := &recordingProvider{name: "p2", produces: []Token{"y"}, consumes: []Token{"x"}}

	_, err := scheduleWaves([]EnrichmentProvider{p1, p2})
	assert.Error(t, err)
}

// orderedProvider records its own name into a shared, mutex-guarded
// order slice the first time it runs, to assert wave sequencing.
type orderedProvider struct {
	name     string
	fam      Family
	produces []Token
	consumes []Token
	order    *[]string
	mu       *sync.Mutex
	once     sync.Once
}

func (o *orderedProvider) Name() string     { return o.name }
func (o *orderedProvider) Family() Family    { return FamilyClass }
func (o *orderedProvider) Produces() []Token { return o.produces }
func (o *orderedProvider) Consumes() []Token { return o.consumes }

func (o *orderedProvider) ApplyClass(c *model.Class) error {
	o.once.Do(func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		*o.order = append(*o.order, o.name)
	})
	return nil
}
func (o *orderedProvider) ApplyMethod(*model.Method) error           { return nil }
func (o *orderedProvider) ApplyConstructor(*model.Constructor) error { return nil }
func (o *orderedProvider) ApplyField(*model.Field) error             { return nil }
