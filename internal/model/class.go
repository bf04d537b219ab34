package model

import "sync"

// ClassConfig is the frozen structural data the provider passes when
// constructing a Class node. Everything here came from the class-file
// decoder; nothing is re-derived from other classes at this point —
// cross-class resolution (superclass, interfaces, enclosing class) is
// deferred to the resolver functions below so a class can be constructed
// before its supertype has been parsed.
type ClassConfig struct {
	Name       string
	Kinds      KindSet
	Visibility Visibility
	Final      bool
	Synthetic  bool
	Sealed     bool

	// ResolveSuper resolves the superclass. Returns (nil, nil) for
	// java/lang/Object and primitive-holder classes, which have none.
	ResolveSuper func() (*Class, error)
	// ResolveInterfaces resolves the implemented/extended interface list.
	ResolveInterfaces func() ([]*Class, error)
	// ResolveEnclosing resolves the enclosing class via the OuterClass
	// attribute, falling back to the matching InnerClasses entry, per
	// spec.md §4.6.
	ResolveEnclosing func() (*Class, error)
	// ResolveStaticInner computes the isStaticInner heuristic from
	// spec.md §4.6, which may require resolving an EnclosingMethod
	// attribute against another class's method list.
	ResolveStaticInner func() (bool, error)
	// ResolvePermittedSubclasses resolves the sealed permits list. Only
	// called when Kinds has no bearing on emptiness — callers should gate
	// on Sealed themselves if they want to skip the call entirely.
	ResolvePermittedSubclasses func() ([]*Class, error)

	Fields          []*Field
	Methods         []*Method
	Constructors    []*Constructor
	RecordComponent func() ([]*RecordComponent, error) // nil unless Kinds.Has(KindRecord)
}

// Class is the ClassNode from spec.md §3.
type Class struct {
	Bag

	name       string
	kinds      KindSet
	visibility Visibility
	final      bool
	synthetic  bool
	sealed     bool

	super            *lazy[*Class]
	interfaces       *lazy[[]*Class]
	enclosing        *lazy[*Class]
	staticInner      *lazy[bool]
	permitted        *lazy[[]*Class]
	recordComponents *lazy[[]*RecordComponent]

	fields       []*Field
	methods      []*Method
	constructors []*Constructor

	mu           sync.Mutex
	subclasses   map[*Class]struct{}
	innerClasses map[*Class]struct{}
}

// NewClass constructs a frozen Class node from cfg. Called by the
// class-data provider exactly once per resolved name; the provider's
// cache is what makes the result of later lookups identical, per the
// identity contract in spec.md §4.5.
func NewClass(cfg ClassConfig) *Class {
	c := &Class{
		name:       cfg.Name,
		kinds:      cfg.Kinds,
		visibility: cfg.Visibility,
		final:      cfg.Final,
		synthetic:  cfg.Synthetic,
		sealed:     cfg.Sealed,

		fields:       cfg.Fields,
		methods:      cfg.Methods,
		constructors: cfg.Constructors,

		subclasses:   make(map[*Class]struct{}),
		innerClasses: make(map[*Class]struct{}),
	}

	resolveSuper := cfg.ResolveSuper
	if resolveSuper == nil {
		resolveSuper = func() (*Class, error) { return nil, nil }
	}
	c.super = newLazy(resolveSuper)

	resolveIfaces := cfg.ResolveInterfaces
	if resolveIfaces == nil {
		resolveIfaces = func() ([]*Class, error) { return nil, nil }
	}
	c.interfaces = newLazy(resolveIfaces)

	resolveEnclosing := cfg.ResolveEnclosing
	if resolveEnclosing == nil {
		resolveEnclosing = func() (*Class, error) { return nil, nil }
	}
	c.enclosing = newLazy(resolveEnclosing)

	resolveStaticInner := cfg.ResolveStaticInner
	if resolveStaticInner == nil {
		resolveStaticInner = func() (bool, error) { return false, nil }
	}
	c.staticInner = newLazy(resolveStaticInner)

	resolvePermitted := cfg.ResolvePermittedSubclasses
	if resolvePermitted == nil {
		resolvePermitted = func() ([]*Class, error) { return nil, nil }
	}
	c.permitted = newLazy(resolvePermitted)

	resolveRecordComponents := cfg.RecordComponent
	if resolveRecordComponents == nil {
		resolveRecordComponents = func() ([]*RecordComponent, error) { return nil, nil }
	}
	c.recordComponents = newLazy(resolveRecordComponents)

	for _, f := range cfg.Fields {
		f.parent = c
	}
	for _, m := range cfg.Methods {
		m.parent = c
	}
	for _, ctor := range cfg.Constructors {
		ctor.parent = c
	}

	return c
}

func (c *Class) Name() string         { return c.name }
func (c *Class) Kinds() KindSet       { return c.kinds }
func (c *Class) Visibility() Visibility { return c.visibility }
func (c *Class) IsFinal() bool        { return c.final }
func (c *Class) IsSynthetic() bool    { return c.synthetic }
func (c *Class) IsSealed() bool       { return c.sealed }
func (c *Class) Fields() []*Field     { return c.fields }
func (c *Class) Methods() []*Method   { return c.methods }
func (c *Class) Constructors() []*Constructor { return c.constructors }

// Superclass resolves the supertype. Returns (nil, nil) for
// java/lang/Object and primitive-holder classes.
func (c *Class) Superclass() (*Class, error) { return c.super.get() }

// Interfaces resolves the implemented/extended interface list.
func (c *Class) Interfaces() ([]*Class, error) { return c.interfaces.get() }

// Enclosing resolves the enclosing class, or (nil, nil) for a top-level
// class.
func (c *Class) Enclosing() (*Class, error) { return c.enclosing.get() }

// IsStaticInner evaluates the heuristic from spec.md §4.6 and §9's design
// note: imperfect when the enclosing method cannot be resolved, in which
// case it falls back to assuming non-static.
func (c *Class) IsStaticInner() (bool, error) { return c.staticInner.get() }

// PermittedSubclasses resolves the sealed `permits` list, or (nil, nil)
// when the class is not sealed.
func (c *Class) PermittedSubclasses() ([]*Class, error) { return c.permitted.get() }

// RecordComponents resolves the record-component list, or (nil, nil) when
// the class is not a record.
func (c *Class) RecordComponents() ([]*RecordComponent, error) { return c.recordComponents.get() }

// AddSubclass records that sub directly extends/implements c. Populated
// only during base hydration (spec.md §4.8); guarded by a per-owner lock
// during that phase and read-only afterward, per spec.md §5.
func (c *Class) AddSubclass(sub *Class) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subclasses[sub] = struct{}{}
}

// Subclasses returns a snapshot of the direct subclass set.
func (c *Class) Subclasses() []*Class {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Class, 0, len(c.subclasses))
	for s := range c.subclasses {
		out = append(out, s)
	}
	return out
}

// AddInnerClass records that inner is a direct inner class of c.
func (c *Class) AddInnerClass(inner *Class) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.innerClasses[inner] = struct{}{}
}

// InnerClasses returns a snapshot of the direct inner-class set.
func (c *Class) InnerClasses() []*Class {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Class, 0, len(c.innerClasses))
	for i := range c.innerClasses {
		out = append(out, i)
	}
	return out
}
