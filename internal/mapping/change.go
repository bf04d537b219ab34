package mapping

import (
	"fmt"

	"github.com/oxhq/hypo/internal/herr"
)

// Change names a single target reference and an apply operation that
// mutates a mapping set in place, per spec.md §4.11.
type Change interface {
	Target() Reference
	Apply(Set) error
	fmt.Stringer
}

// Mergeable is a Change that can resolve a conflict with another
// change targeting the same reference: producing a single combined
// change, a single preferred change, or a merge failure.
type Mergeable interface {
	Change
	// Merge combines c with other, which always targets the same
	// Reference. It returns the change to keep, or an error wrapping
	// herr.ErrMergeConflict naming both changes if they cannot be
	// reconciled.
	Merge(other Change) (Change, error)
}

// ParamCorrespondence maps a source parameter index to a target
// parameter index for the parameter-copying change variants.
type ParamCorrespondence struct {
	TargetIndex int
	SourceIndex int
}

func conflictErr(a, b Change) error {
	return fmt.Errorf("hypo: %s conflicts with %s: %w", a, b, herr.ErrMergeConflict)
}

// AddNewMapping adds or sets the deobfuscated name for a class or
// class member. Merge succeeds iff both propose the same name.
type AddNewMapping struct {
	Ref  Reference
	Name string
}

func (c *AddNewMapping) Target() Reference { return c.Ref }

func (c *AddNewMapping) Apply(s Set) error {
	if c.Ref.IsClass() {
		s.SetClassMapping(c.Ref.Class, c.Name)
		return nil
	}
	s.SetMemberMapping(c.Ref.Class, c.Ref.Member, c.Ref.Descriptor, c.Name)
	return nil
}

func (c *AddNewMapping) String() string {
	return fmt.Sprintf("add-new-mapping(%s -> %q)", c.Ref, c.Name)
}

func (c *AddNewMapping) Merge(other Change) (Change, error) {
	o, ok := other.(*AddNewMapping)
	if !ok || o.Name != c.Name {
		return nil, conflictErr(c, other)
	}
	return c, nil
}

// AddNewParameterMapping adds or sets the deobfuscated name for one
// method parameter. Merge succeeds iff both propose the same name.
type AddNewParameterMapping struct {
	Ref  Reference // Ref.IsParam() must be true
	Name string
}

func (c *AddNewParameterMapping) Target() Reference { return c.Ref }

func (c *AddNewParameterMapping) Apply(s Set) error {
	s.SetParameterMapping(c.Ref.Class, c.Ref.Member, c.Ref.Descriptor, c.Ref.Param, c.Name)
	return nil
}

func (c *AddNewParameterMapping) String() string {
	return fmt.Sprintf("add-new-parameter-mapping(%s -> %q)", c.Ref, c.Name)
}

func (c *AddNewParameterMapping) Merge(other Change) (Change, error) {
	o, ok := other.(*AddNewParameterMapping)
	if !ok || o.Name != c.Name {
		return nil, conflictErr(c, other)
	}
	return c, nil
}

// RemoveMapping removes a member or class mapping, pruning an emptied
// class entry after. Merging with another RemoveMapping always
// succeeds; any other change kind on the same reference conflicts.
type RemoveMapping struct {
	Ref Reference
}

func (c *RemoveMapping) Target() Reference { return c.Ref }

func (c *RemoveMapping) Apply(s Set) error {
	switch {
	case c.Ref.IsParam():
		s.RemoveParameterMapping(c.Ref.Class, c.Ref.Member, c.Ref.Descriptor, c.Ref.Param)
	case c.Ref.IsClass():
		s.RemoveClassMapping(c.Ref.Class)
		return nil
	default:
		s.RemoveMemberMapping(c.Ref.Class, c.Ref.Member, c.Ref.Descriptor)
	}
	if !s.HasClass(c.Ref.Class) {
		s.RemoveClassMapping(c.Ref.Class)
	}
	return nil
}

func (c *RemoveMapping) String() string {
	return fmt.Sprintf("remove-mapping(%s)", c.Ref)
}

func (c *RemoveMapping) Merge(other Change) (Change, error) {
	if _, ok := other.(*RemoveMapping); !ok {
		return nil, conflictErr(c, other)
	}
	return c, nil
}

// CopyConstructorMapping copies parameter names from a super
// constructor's mapping into a this-class constructor's mapping,
// following a parameter-index correspondence. ChainPath lists the
// ancestor classes from the one just above Target's class up to and
// including Source's class, used to resolve a merge between two
// candidate sources.
type CopyConstructorMapping struct {
	TargetRef         Reference // the this-class constructor
	Source          Reference // the super-constructor actually sourcing names
	ChainPath       []string
	Correspondences []ParamCorrespondence
	SourceHasNames  bool // true if Source currently has any parameter mapping
}

func (c *CopyConstructorMapping) Target() Reference { return c.TargetRef }

func (c *CopyConstructorMapping) Apply(s Set) error {
	for _, corr := range c.Correspondences {
		name, ok := s.ParameterMapping(c.Source.Class, c.Source.Member, c.Source.Descriptor, corr.SourceIndex)
		if !ok || name == "" {
			continue
		}
		s.SetParameterMapping(c.TargetRef.Class, c.TargetRef.Member, c.TargetRef.Descriptor, corr.TargetIndex, name)
	}
	return nil
}

func (c *CopyConstructorMapping) String() string {
	return fmt.Sprintf("copy-constructor-mapping(%s <- %s)", c.TargetRef, c.Source)
}

// Merge implements spec.md §4.11's three-way rule: prefer the change
// sourced higher (further) up the super-constructor chain; if the two
// chains are the same length, prefer whichever source currently has
// parameter mappings when only one does; fail if the two sources lie
// on divergent chains (neither ChainPath is a prefix of the other).
func (c *CopyConstructorMapping) Merge(other Change) (Change, error) {
	o, ok := other.(*CopyConstructorMapping)
	if !ok {
		return nil, conflictErr(c, other)
	}
	if c.Source == o.Source {
		return c, nil
	}
	if !chainPrefix(c.ChainPath, o.ChainPath) {
		return nil, conflictErr(c, other)
	}
	switch {
	case len(c.ChainPath) > len(o.ChainPath):
		return c, nil
	case len(o.ChainPath) > len(c.ChainPath):
		return o, nil
	case c.SourceHasNames && !o.SourceHasNames:
		return c, nil
	case o.SourceHasNames && !c.SourceHasNames:
		return o, nil
	default:
		return c, nil
	}
}

// chainPrefix reports whether a is a prefix of b or vice versa.
func chainPrefix(a, b []string) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// CopyLambdaParameterMapping copies parameter names from a functional
// interface's abstract method into a lambda body method, offset by
// the lambda's captured-variable prefix length.
type CopyLambdaParameterMapping struct {
	TargetRef          Reference // the synthetic lambda body method
	Source           Reference // the functional interface's abstract method
	Correspondences  []ParamCorrespondence
	SourceMappingCount int // number of parameters Source currently has mapped
}

func (c *CopyLambdaParameterMapping) Target() Reference { return c.TargetRef }

func (c *CopyLambdaParameterMapping) Apply(s Set) error {
	for _, corr := range c.Correspondences {
		name, ok := s.ParameterMapping(c.Source.Class, c.Source.Member, c.Source.Descriptor, corr.SourceIndex)
		if !ok || name == "" {
			continue
		}
		s.SetParameterMapping(c.TargetRef.Class, c.TargetRef.Member, c.TargetRef.Descriptor, corr.TargetIndex, name)
	}
	return nil
}

func (c *CopyLambdaParameterMapping) String() string {
	return fmt.Sprintf("copy-lambda-parameter-mapping(%s <- %s)", c.TargetRef, c.Source)
}

// Merge picks the change whose source currently has the larger
// parameter-mapping count, per spec.md §4.11.
func (c *CopyLambdaParameterMapping) Merge(other Change) (Change, error) {
	o, ok := other.(*CopyLambdaParameterMapping)
	if !ok {
		return nil, conflictErr(c, other)
	}
	if o.SourceMappingCount > c.SourceMappingCount {
		return o, nil
	}
	return c, nil
}

func (r Reference) String() string {
	switch {
	case r.IsParam():
		return fmt.Sprintf("%s.%s%s#%d", r.Class, r.Member, r.Descriptor, r.Param)
	case r.IsClass():
		return r.Class
	default:
		return fmt.Sprintf("%s.%s%s", r.Class, r.Member, r.Descriptor)
	}
}
