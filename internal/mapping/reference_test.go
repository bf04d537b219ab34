package mapping

import "testing"

func TestReference_Predicates(t *testing.T) {
	cases := []struct {
		name    string
		ref     Reference
		isClass bool
		isParam bool
	}{
		{"class", ClassRef("com/example/A"), true, false},
		{"member", MemberRef("com/example/A", "foo", "()V"), false, false},
		{"param zero", ParamRef("com/example/A", "foo", "(I)V", 0), false, true},
		{"param nonzero", ParamRef("com/example/A", "foo", "(II)V", 1), false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.ref.IsClass(); got != tc.isClass {
				t.Errorf("IsClass() = %v, want %v", got, tc.isClass)
			}
			if got := tc.ref.IsParam(); got != tc.isParam {
				t.Errorf("IsParam() = %v, want %v", got, tc.isParam)
			}
		})
	}
}

func TestReference_ParamZeroIsNotSentinel(t *testing.T) {
	ref := ParamRef("com/example/A", "foo", "(I)V", 0)
	if !ref.IsParam() {
		t.Fatal("parameter index 0 must still be recognized as a parameter reference, not the -1 sentinel")
	}
}

func TestReference_EqualityIsByValue(t *testing.T) {
	a := MemberRef("com/example/A", "foo", "()V")
	b := MemberRef("com/example/A", "foo", "()V")
	if a != b {
		t.Fatal("two references built from identical components must compare equal")
	}
}

func TestReference_String(t *testing.T) {
	if got := ClassRef("com/example/A").String(); got != "com/example/A" {
		t.Errorf("class ref String() = %q", got)
	}
	if got := MemberRef("com/example/A", "foo", "()V").String(); got != "com/example/A.foo()V" {
		t.Errorf("member ref String() = %q", got)
	}
	if got := ParamRef("com/example/A", "foo", "(I)V", 0).String(); got != "com/example/A.foo(I)V#0" {
		t.Errorf("param ref String() = %q", got)
	}
}
