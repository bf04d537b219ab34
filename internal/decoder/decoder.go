// Package decoder defines the class-file decoder contract from spec.md
// §6: the external collaborator that turns a byte blob into the
// structural facts the model and hydration pipeline need. Hypo never
// implements bytecode decoding itself (spec.md §1 names the concrete
// decoder explicitly out of scope) — this package is the well-typed
// injection point, mirrored on the teacher's provider.LanguageProvider
// contract-interface pattern (internal/provider/contract.go): a minimal
// interface plus plain data structs the implementation populates.
package decoder

// AccessFlags is the raw u2 access_flags bitset from a class, field, or
// method_info structure.
type AccessFlags uint16

const (
	AccPublic       AccessFlags = 0x0001
	AccPrivate      AccessFlags = 0x0002
	AccProtected    AccessFlags = 0x0004
	AccStatic       AccessFlags = 0x0008
	AccFinal        AccessFlags = 0x0010
	AccSuper        AccessFlags = 0x0020 // class: ACC_SUPER
	AccSynchronized AccessFlags = 0x0020 // method: ACC_SYNCHRONIZED (same bit)
	AccBridge       AccessFlags = 0x0040 // method: ACC_BRIDGE
	AccVolatile     AccessFlags = 0x0040 // field: ACC_VOLATILE (same bit)
	AccVarargs      AccessFlags = 0x0080 // method: ACC_VARARGS
	AccTransient    AccessFlags = 0x0080 // field: ACC_TRANSIENT (same bit)
	AccNative       AccessFlags = 0x0100
	AccInterface    AccessFlags = 0x0200
	AccAbstract     AccessFlags = 0x0400
	AccStrict       AccessFlags = 0x0800
	AccSynthetic    AccessFlags = 0x1000
	AccAnnotation   AccessFlags = 0x2000
	AccEnum         AccessFlags = 0x4000
	AccModule       AccessFlags = 0x8000
)

func (f AccessFlags) Has(bit AccessFlags) bool { return f&bit != 0 }

// MethodRef names a method or constructor by owner, name, and descriptor.
type MethodRef struct {
	Owner      string
	Name       string
	Descriptor string
}

// ParamCorrespondence maps a callee's parameter LVT index to the caller's
// LVT index for a direct local-variable-load argument, per spec.md §4.9.
type ParamCorrespondence struct {
	CalleeIndex int
	CallerIndex int
}

// CallKind distinguishes a this(...) call from a super(...) call.
type CallKind int

const (
	CallKindThis CallKind = iota
	CallKindSuper
)

// ConstructorCall is the initial this()/super() invocation found at the
// head of a constructor body, per spec.md §4.9's super-constructor-call
// provider.
type ConstructorCall struct {
	Kind            CallKind
	Callee          MethodRef
	Correspondences []ParamCorrespondence
}

// LambdaSite is one invokedynamic call site in a method body whose
// bootstrap is a functional-interface metafactory, per spec.md §4.9's
// lambda-closure provider.
type LambdaSite struct {
	BodyMethod        MethodRef // the synthetic lambda-body method
	FunctionalMethod  MethodRef // the functional interface's abstract method
	CapturedLVTIndices []int    // LVT indices captured into the lambda's synthetic prefix
}

// LocalVariable is one entry from a method's LocalVariableTable.
type LocalVariable struct {
	Index      int
	Name       string
	Descriptor string
}

// MethodBody is the pre-extracted, call-site-level view of a method's
// code a hydration provider needs. Because the concrete bytecode decoder
// is out of scope (spec.md §1), Hypo's contract stops at the granularity
// the standard hydration providers actually consume (spec.md §4.9)
// instead of exposing a raw instruction stream.
type MethodBody struct {
	Parameters  []LocalVariable
	InitialCall *ConstructorCall // non-nil only for constructors that make one
	BridgeTarget *MethodRef      // non-nil only for a synthetic bridge that forwards to a same-class method
	LambdaSites []LambdaSite
}

// Method is one method_info (or constructor) entry.
type Method struct {
	Name          string
	AccessFlags   AccessFlags
	Descriptor    string
	Signature     string // "" if the Signature attribute is absent
	HasBody       bool
	Body          *MethodBody // nil unless HasBody and the decoder extracted call-site facts
}

// Field is one field_info entry.
type Field struct {
	Name        string
	AccessFlags AccessFlags
	Descriptor  string
	Signature   string // "" if absent
}

// RecordComponent is one entry from a class's Record attribute.
type RecordComponent struct {
	Name       string
	Descriptor string
	Signature  string // "" if absent
}

// InnerClassEntry is one entry from the InnerClasses attribute.
type InnerClassEntry struct {
	InnerName       string
	OuterName       string // "" if absent
	InnerSimpleName string // "" if anonymous
	AccessFlags     AccessFlags
}

// EnclosingMethod is the class's EnclosingMethod attribute, when present.
type EnclosingMethod struct {
	ClassName           string
	MethodName          string // "" if the class is not enclosed by a method
	MethodDescriptor    string // "" if MethodName is ""
}

// Class is the full structural decode of one class file, the minimum
// spec.md §6 requires: access flags; internal name; superclass name (may
// be absent); interface names; field/method entries; inner-classes and
// outer-class attributes; permitted-subclasses and record-component
// lists when present.
type Class struct {
	AccessFlags AccessFlags
	Name        string
	SuperName   string // "" for java/lang/Object and primitive-holder classes
	Interfaces  []string
	Signature   string // "" if the Signature attribute is absent

	Fields  []Field
	Methods []Method

	InnerClasses    []InnerClassEntry
	OuterClass      *OuterClass // non-nil only if an OuterClass (enclosing-class) attribute is present
	EnclosingMethod *EnclosingMethod

	PermittedSubclasses []string // nil unless sealed
	RecordComponents    []RecordComponent // nil unless a record
}

// OuterClass is the class-file attribute naming an enclosing class
// directly (distinct from the InnerClasses-entry fallback), per
// spec.md §4.6.
type OuterClass struct {
	Name string
}

// Decoder is the single injection point for turning bytes into a Class.
// Implementations are supplied by the embedding application; Hypo ships
// none.
type Decoder interface {
	Decode(name string, data []byte) (*Class, error)
}
