package typelang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTypeSignature_RoundTrip(t *testing.T) {
	cases := []string{
		"I",
		"TT;",
		"Ljava/util/List<Ljava/lang/String;>;",
		"Ljava/util/Map<TK;TV;>;",
		"[Ljava/util/List<TT;>;",
		"Ljava/util/List<*>;",
		"Ljava/util/List<+Ljava/lang/Number;>;",
		"Ljava/util/List<-Ljava/lang/Integer;>;",
		"Lcom/example/Outer<TT;>.Inner<TU;>;",
	}
	for _, s := range cases {
		t.Run(s, func(t *testing.T) {
			sig, err := ParseTypeSignature(s)
			require.NoError(t, err)
			assert.Equal(t, s, sig.Internal())
		})
	}
}

func TestParseTypeSignature_Interning(t *testing.T) {
	a, err := ParseTypeSignature("Ljava/util/List<Ljava/lang/String;>;")
	require.NoError(t, err)
	b, err := ParseTypeSignature("Ljava/util/List<Ljava/lang/String;>;")
	require.NoError(t, err)
	assert.True(t, a == b)
}

func TestParseTypeSignature_Errors(t *testing.T) {
	cases := map[string]string{
		"unterminated type variable": "TT",
		"unterminated generic args":  "Ljava/util/List<Ljava/lang/String;",
		"unterminated class":         "Ljava/util/List",
		"empty type arg list":        "Ljava/util/List<>;",
		"primitive as type argument": "Ljava/util/List<I>;",
	}
	for name, s := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseTypeSignature(s)
			assert.Error(t, err)
		})
	}
}

func TestParseMethodSignature_RoundTrip(t *testing.T) {
	cases := []string{
		"<T:Ljava/lang/Object;>(TT;)TT;",
		"()V^Ljava/lang/Exception;",
		"(Ljava/util/List<TT;>;)V",
		"<T::Ljava/lang/Runnable;>()V",
	}
	for _, s := range cases {
		m, err := ParseMethodSignature(s)
		require.NoError(t, err)
		assert.Equal(t, s, m.Internal())
	}
}

func TestParseMethodSignature_MissingComponents(t *testing.T) {
	_, err := ParseMethodSignature("<T:Ljava/lang/Object;>")
	assert.Error(t, err)

	_, err = ParseMethodSignature("(I)")
	assert.Error(t, err)
}

func TestParseClassSignature_RoundTrip(t *testing.T) {
	cases := []string{
		"<T:Ljava/lang/Object;>Ljava/lang/Object;Ljava/lang/Comparable<TT;>;",
		"Ljava/lang/Object;",
		"Ljava/util/AbstractList<TE;>;Ljava/util/List<TE;>;",
	}
	for _, s := range cases {
		cs, err := ParseClassSignature(s)
		require.NoError(t, err)
		assert.Equal(t, s, cs.Internal())
	}
}

func TestParseClassSignature_MissingSuperclass(t *testing.T) {
	_, err := ParseClassSignature("<T:Ljava/lang/Object;>")
	assert.Error(t, err)
}

func TestBind_ReplacesUnboundVariables(t *testing.T) {
	sig, err := ParseTypeSignature("Ljava/util/List<TT;>;")
	require.NoError(t, err)
	assert.True(t, sig.IsUnbound())

	param := NewTypeParameter("T", nil, nil)
	resolver := NewMapResolver([]*TypeParameter{param})

	bound := Bind(sig, resolver)
	assert.False(t, bound.IsUnbound())
	assert.Equal(t, sig.Internal(), bound.Internal(), "binding must not change textual form")

	d, err := bound.AsDescriptor()
	require.NoError(t, err, "erasure of a class type ignores its (now-bound) type arguments entirely")
	assert.Equal(t, "Ljava/util/List;", d.Internal())
}

func TestBind_UnboundVariableCannotConvertToDescriptor(t *testing.T) {
	sig, err := ParseTypeSignature("TT;")
	require.NoError(t, err)
	_, err = sig.AsDescriptor()
	assert.Error(t, err)
}

func TestBind_BoundVariableConvertsToDescriptor(t *testing.T) {
	sig, err := ParseTypeSignature("TT;")
	require.NoError(t, err)

	bound := NewTypeParameter("T", mustSig(t, "Ljava/lang/Runnable;"), nil)
	resolved := Bind(sig, NewMapResolver([]*TypeParameter{bound}))

	d, err := resolved.AsDescriptor()
	require.NoError(t, err)
	assert.Equal(t, "Ljava/lang/Runnable;", d.Internal())
}

func TestFabricatingResolver_AlwaysResolves(t *testing.T) {
	sig, err := ParseTypeSignature("TAnything;")
	require.NoError(t, err)
	bound := Bind(sig, FabricatingResolver)
	assert.False(t, bound.IsUnbound())
}

func TestUnbind_RoundTrips(t *testing.T) {
	sig, err := ParseTypeSignature("TT;")
	require.NoError(t, err)
	bound := Bind(sig, FabricatingResolver)
	require.False(t, bound.IsUnbound())

	unbound := Unbind(bound)
	assert.True(t, unbound.IsUnbound())
	assert.Equal(t, sig.Internal(), unbound.Internal())
}

func mustSig(t *testing.T, s string) *TypeSignature {
	t.Helper()
	sig, err := ParseTypeSignature(s)
	require.NoError(t, err)
	return sig
}
