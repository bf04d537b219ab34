package hypo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/hypo/internal/decoder"
	"github.com/oxhq/hypo/internal/model"
	"github.com/oxhq/hypo/internal/provider"
	"github.com/oxhq/hypo/internal/source"
	"github.com/oxhq/hypo/internal/typelang"
)

type fakeRoot struct{ entries map[string][]byte }

func (r *fakeRoot) FetchBytes(name string) ([]byte, error) { return r.entries[name], nil }
func (r *fakeRoot) Enumerate(ctx context.Context) (<-chan source.EntryRef, error) {
	ch := make(chan source.EntryRef, len(r.entries))
	for name := range r.entries {
		n := name[:len(name)-len(".class")]
		ch <- source.EntryRef{Name: n, Read: func() ([]byte, error) { return r.entries[name], nil }}
	}
	close(ch)
	return ch, nil
}
func (r *fakeRoot) Close() error { return nil }

type fakeDecoder struct{ classes map[string]*decoder.Class }

func (f *fakeDecoder) Decode(name string, data []byte) (*decoder.Class, error) {
	return f.classes[name], nil
}

func TestClasses_IteratesEveryDecodedClass(t *testing.T) {
	classes := map[string]*decoder.Class{
		"com/example/A": {Name: "com/example/A"},
		"com/example/B": {Name: "com/example/B"},
	}
	entries := map[string][]byte{"com/example/A.class": {1}, "com/example/B.class": {1}}
	p := provider.New(provider.Config{
		StandardRoots: []source.Root{&fakeRoot{entries: entries}},
		Decoder:       &fakeDecoder{classes: classes},
	})

	var names []string
	for c := range Classes(p) {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"com/example/A", "com/example/B"}, names)
}

func TestFindOverrides_ReturnsTransitiveChildren(t *testing.T) {
	desc, err := typelang.ParseMethodDescriptor("()V")
	require.NoError(t, err)

	root := model.NewMethod(model.MethodConfig{Name: "method", Descriptor: desc, RawDescriptor: "()V"})
	mid := model.NewMethod(model.MethodConfig{Name: "method", Descriptor: desc, RawDescriptor: "()V"})
	leaf := model.NewMethod(model.MethodConfig{Name: "method", Descriptor: desc, RawDescriptor: "()V"})

	root.AddChildMethod(mid)
	mid.SetSuperMethod(root)
	mid.AddChildMethod(leaf)
	leaf.SetSuperMethod(mid)

	overrides := FindOverrides(root)
	assert.Equal(t, []*model.Method{mid, leaf}, overrides)
}
