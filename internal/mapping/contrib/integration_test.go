package contrib

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/hypo/internal/decoder"
	"github.com/oxhq/hypo/internal/hydrate/providers"
	"github.com/oxhq/hypo/internal/mapping"
	"github.com/oxhq/hypo/internal/mappingstore"
	"github.com/oxhq/hypo/internal/model"
	"github.com/oxhq/hypo/internal/provider"
	"github.com/oxhq/hypo/internal/source"
)

// fakeRoot and fakeDecoder let these tests build real model.Class
// graphs through the actual provider pipeline, exactly as
// internal/hydrate/providers' own tests do, so the attached-data tokens
// the standard hydration providers write are the ones these contributors
// read back through the public accessor functions.
type fakeRoot struct{ entries map[string][]byte }

func (r *fakeRoot) FetchBytes(name string) ([]byte, error) { return r.entries[name], nil }
func (r *fakeRoot) Enumerate(ctx context.Context) (<-chan source.EntryRef, error) {
	panic("unused")
}
func (r *fakeRoot) Close() error { return nil }

type fakeDecoder struct{ classes map[string]*decoder.Class }

func (f *fakeDecoder) Decode(name string, data []byte) (*decoder.Class, error) {
	return f.classes[name], nil
}

func newProvider(t *testing.T, classes map[string]*decoder.Class) *provider.Provider {
	t.Helper()
	entries := make(map[string][]byte, len(classes))
	for name := range classes {
		entries[name+".class"] = []byte{1}
	}
	return provider.New(provider.Config{
		StandardRoots: []source.Root{&fakeRoot{entries: entries}},
		Decoder:       &fakeDecoder{classes: classes},
	})
}

func TestCopyConstructorParameters_CopiesAcrossSuperCall(t *testing.T) {
	ctorDesc := "(I)V"
	p := newProvider(t, map[string]*decoder.Class{
		"com/example/Super": {
			Name:    "com/example/Super",
			Methods: []decoder.Method{{Name: "<init>", Descriptor: ctorDesc, HasBody: true}},
		},
		"com/example/Sub": {
			Name:      "com/example/Sub",
			SuperName: "com/example/Super",
			Methods: []decoder.Method{{
				Name: "<init>", Descriptor: ctorDesc, HasBody: true,
				Body: &decoder.MethodBody{InitialCall: &decoder.ConstructorCall{
					Kind:            decoder.CallKindSuper,
					Callee:          decoder.MethodRef{Owner: "com/example/Super", Name: "<init>", Descriptor: ctorDesc},
					Correspondences: []decoder.ParamCorrespondence{{CalleeIndex: 0, CallerIndex: 0}},
				}},
			}},
		},
	})

	super, err := p.Find("com/example/Super")
	require.NoError(t, err)
	sub, err := p.Find("com/example/Sub")
	require.NoError(t, err)

	var sp providers.SuperConstructorCall
	require.NoError(t, sp.ApplyConstructor(sub.Constructors()[0]))

	set := mappingstore.NewMemorySet()
	set.SetParameterMapping("com/example/Super", "<init>", ctorDesc, 0, "value")

	reg := mapping.NewRegistry()
	c := CopyConstructorParameters{}
	require.NoError(t, c.Contribute(mapping.Target{Class: sub, ClassName: "com/example/Sub"}, set, p, reg))
	for _, change := range reg.Changes() {
		require.NoError(t, change.Apply(set))
	}

	name, ok := set.ParameterMapping("com/example/Sub", "<init>", ctorDesc, 0)
	require.True(t, ok)
	assert.Equal(t, "value", name)
}

func TestCopyDown_PropagatesAcrossCovariantReturnBridge(t *testing.T) {
	objDesc := "()Ljava/lang/Object;"
	strDesc := "()Ljava/lang/String;"
	p := newProvider(t, map[string]*decoder.Class{
		"com/example/Parent": {
			Name:    "com/example/Parent",
			Methods: []decoder.Method{{Name: "get", Descriptor: objDesc, HasBody: true}},
		},
		"com/example/Child": {
			Name:      "com/example/Child",
			SuperName: "com/example/Parent",
			Methods: []decoder.Method{
				{
					Name: "get", Descriptor: objDesc, HasBody: true, AccessFlags: decoder.AccBridge | decoder.AccSynthetic,
					Body: &decoder.MethodBody{BridgeTarget: &decoder.MethodRef{Owner: "com/example/Child", Name: "get", Descriptor: strDesc}},
				},
				{Name: "get", Descriptor: strDesc, HasBody: true},
			},
		},
	})

	parent, err := p.Find("com/example/Parent")
	require.NoError(t, err)
	child, err := p.Find("com/example/Child")
	require.NoError(t, err)

	var bt providers.BridgeTarget
	for _, m := range child.Methods() {
		require.NoError(t, bt.ApplyMethod(m))
	}

	var bridgeMethod, covariantMethod, parentMethod *model.Method
	for _, m := range child.Methods() {
		if m.RawDescriptor() == objDesc {
			bridgeMethod = m
		} else {
			covariantMethod = m
		}
	}
	for _, m := range parent.Methods() {
		parentMethod = m
	}
	require.NotNil(t, bridgeMethod)
	require.NotNil(t, covariantMethod)
	bridgeMethod.SetSuperMethod(parentMethod)
	parentMethod.AddChildMethod(bridgeMethod)

	set := mappingstore.NewMemorySet()
	set.SetMemberMapping("com/example/Parent", "get", objDesc, "getObject")

	reg := mapping.NewRegistry()
	c := CopyDown{}
	require.NoError(t, c.Contribute(mapping.Target{Class: parent, ClassName: "com/example/Parent", HasMapping: true}, set, p, reg))
	for _, change := range reg.Changes() {
		require.NoError(t, change.Apply(set))
	}

	bridgeName, ok := set.MemberMapping("com/example/Child", "get", objDesc)
	require.True(t, ok)
	assert.Equal(t, "getObject", bridgeName)

	covariantName, ok := set.MemberMapping("com/example/Child", "get", strDesc)
	require.True(t, ok)
	assert.Equal(t, "getObject", covariantName)
}

func TestCopyLambdaParametersDown_CopiesFromFunctionalMethod(t *testing.T) {
	siteDesc := "(I)V"
	sites := []decoder.LambdaSite{{
		BodyMethod:       decoder.MethodRef{Owner: "com/example/E", Name: "lambda$run$0", Descriptor: siteDesc},
		FunctionalMethod: decoder.MethodRef{Owner: "com/example/Functional", Name: "accept", Descriptor: siteDesc},
	}}
	p := newProvider(t, map[string]*decoder.Class{
		"com/example/Functional": {
			Name:    "com/example/Functional",
			Methods: []decoder.Method{{Name: "accept", Descriptor: siteDesc, AccessFlags: decoder.AccAbstract}},
		},
		"com/example/E": {
			Name: "com/example/E",
			Methods: []decoder.Method{
				{Name: "run", Descriptor: "()V", HasBody: true, Body: &decoder.MethodBody{LambdaSites: sites}},
				{Name: "lambda$run$0", Descriptor: siteDesc, HasBody: true, AccessFlags: decoder.AccSynthetic},
			},
		},
	})

	class, err := p.Find("com/example/E")
	require.NoError(t, err)

	var lp providers.LambdaClosure
	for _, m := range class.Methods() {
		if m.Name() == "run" {
			require.NoError(t, lp.ApplyMethod(m))
		}
	}

	set := mappingstore.NewMemorySet()
	set.SetParameterMapping("com/example/Functional", "accept", siteDesc, 0, "value")

	reg := mapping.NewRegistry()
	c := CopyLambdaParametersDown{}
	require.NoError(t, c.Contribute(mapping.Target{Class: class, ClassName: "com/example/E"}, set, p, reg))
	for _, change := range reg.Changes() {
		require.NoError(t, change.Apply(set))
	}

	name, ok := set.ParameterMapping("com/example/E", "lambda$run$0", siteDesc, 0)
	require.True(t, ok)
	assert.Equal(t, "value", name)
}
