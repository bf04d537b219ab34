package hydrate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/hypo/internal/model"
	"github.com/oxhq/hypo/internal/typelang"
)

func mustMethodDesc(t *testing.T, s string) *typelang.MethodDescriptor {
	t.Helper()
	d, err := typelang.ParseMethodDescriptor(s)
	require.NoError(t, err)
	return d
}

func TestBaseHydrator_PopulatesSubclassAndInnerSets(t *testing.T) {
	object := model.NewClass(model.ClassConfig{Name: "java/lang/Object", Kinds: model.KindSet(model.KindClass)})
	parent := model.NewClass(model.ClassConfig{
		Name: "com/example/Parent", Kinds: model.KindSet(model.KindClass),
		ResolveSuper: func() (*model.Class, error) { return object, nil },
	})
	inner := model.NewClass(model.ClassConfig{
		Name: "com/example/Parent$Inner", Kinds: model.KindSet(model.KindClass),
		ResolveSuper:     func() (*model.Class, error) { return object, nil },
		ResolveEnclosing: func() (*model.Class, error) { return parent, nil },
	})
	child := model.NewClass(model.ClassConfig{
		Name: "com/example/Child", Kinds: model.KindSet(model.KindClass),
		ResolveSuper: func() (*model.Class, error) { return parent, nil },
	})

	h := NewBaseHydrator(2)
	err := h.Hydrate(context.Background(), []*model.Class{child, inner})
	require.NoError(t, err)

	assert.ElementsMatch(t, []*model.Class{child}, parent.Subclasses())
	assert.ElementsMatch(t, []*model.Class{inner}, parent.InnerClasses())
}

func TestBaseHydrator_ComputesOverrideLink(t *testing.T) {
	desc := mustMethodDesc(t, "()V")

	object := model.NewClass(model.ClassConfig{Name: "java/lang/Object", Kinds: model.KindSet(model.KindClass)})

	baseMethod := model.NewMethod(model.MethodConfig{Name: "run", Descriptor: desc, Visibility: model.VisibilityPublic})
	base := model.NewClass(model.ClassConfig{
		Name: "com/example/Base", Kinds: model.KindSet(model.KindClass),
		ResolveSuper: func() (*model.Class, error) { return object, nil },
		Methods:      []*model.Method{baseMethod},
	})

	overrideMethod := model.NewMethod(model.MethodConfig{Name: "run", Descriptor: desc, Visibility: model.VisibilityPublic})
	derived := model.NewClass(model.ClassConfig{
		Name: "com/example/Derived", Kinds: model.KindSet(model.KindClass),
		ResolveSuper: func() (*model.Class, error) { return base, nil },
		Methods:      []*model.Method{overrideMethod},
	})

	h := NewBaseHydrator(1)
	err := h.Hydrate(context.Background(), []*model.Class{derived})
	require.NoError(t, err)

	assert.Same(t, baseMethod, overrideMethod.SuperMethod())
	assert.ElementsMatch(t, []*model.Method{overrideMethod}, baseMethod.ChildMethods())
}

func TestBaseHydrator_PrivateSuperMethodNotOverridden(t *testing.T) {
	desc := mustMethodDesc(t, "()V")

	baseMethod := model.NewMethod(model.MethodConfig{Name: "helper", Descriptor: desc, Visibility: model.VisibilityPrivate})
	base := model.NewClass(model.ClassConfig{
		Name:    "com/example/Base",
		Kinds:   model.KindSet(model.KindClass),
		Methods: []*model.Method{baseMethod},
	})

	siblingMethod := model.NewMethod(model.MethodConfig{Name: "helper", Descriptor: desc, Visibility: model.VisibilityPrivate})
	derived := model.NewClass(model.ClassConfig{
		Name:         "com/example/Derived",
		Kinds:        model.KindSet(model.KindClass),
		ResolveSuper: func() (*model.Class, error) { return base, nil },
		Methods:      []*model.Method{siblingMethod},
	})

	h := NewBaseHydrator(1)
	err := h.Hydrate(context.Background(), []*model.Class{derived})
	require.NoError(t, err)

	assert.Nil(t, siblingMethod.SuperMethod())
	assert.Empty(t, baseMethod.ChildMethods())
}

func TestBaseHydrator_StaticMethodsDoNotOverride(t *testing.T) {
	desc := mustMethodDesc(t, "()V")

	baseMethod := model.NewMethod(model.MethodConfig{Name: "valueOf", Descriptor: desc, Visibility: model.VisibilityPublic, Static: true})
	base := model.NewClass(model.ClassConfig{
		Name:    "com/example/Base",
		Kinds:   model.KindSet(model.KindClass),
		Methods: []*model.Method{baseMethod},
	})

	shadowMethod := model.NewMethod(model.MethodConfig{Name: "valueOf", Descriptor: desc, Visibility: model.VisibilityPublic, Static: true})
	derived := model.NewClass(model.ClassConfig{
		Name:         "com/example/Derived",
		Kinds:        model.KindSet(model.KindClass),
		ResolveSuper: func() (*model.Class, error) { return base, nil },
		Methods:      []*model.Method{shadowMethod},
	})

	h := NewBaseHydrator(1)
	err := h.Hydrate(context.Background(), []*model.Class{derived})
	require.NoError(t, err)

	assert.Nil(t, shadowMethod.SuperMethod())
	assert.Empty(t, baseMethod.ChildMethods())
}

func TestBaseHydrator_ResolverErrorAbortsHydration(t *testing.T) {
	boom := assert.AnError
	broken := model.NewClass(model.ClassConfig{
		Name:         "com/example/Broken",
		Kinds:        model.KindSet(model.KindClass),
		ResolveSuper: func() (*model.Class, error) { return nil, boom },
	})

	h := NewBaseHydrator(1)
	err := h.Hydrate(context.Background(), []*model.Class{broken})
	assert.Error(t, err)
}
