// Package mapping implements the mapping-completion engine from
// spec.md §4.11: member references, the change/contributor protocol,
// and the change-chain driver that runs contributors over a hydrated
// graph and applies merged changes to an external mapping set.
package mapping

// Reference is an immutable, value-equal triple (class name, member
// name, optional descriptor) optionally extended with a non-negative
// parameter index. A bare class-level reference has an empty Member.
type Reference struct {
	Class      string
	Member     string // "" for a class-level reference
	Descriptor string // "" for a class-level or descriptor-less reference
	Param      int    // -1 unless this reference names a parameter
}

// ClassRef builds a class-level reference.
func ClassRef(class string) Reference {
	return Reference{Class: class, Param: -1}
}

// MemberRef builds a field or method reference.
func MemberRef(class, member, descriptor string) Reference {
	return Reference{Class: class, Member: member, Descriptor: descriptor, Param: -1}
}

// ParamRef builds a parameter reference.
func ParamRef(class, member, descriptor string, index int) Reference {
	return Reference{Class: class, Member: member, Descriptor: descriptor, Param: index}
}

// IsClass reports whether r names a class rather than a member.
func (r Reference) IsClass() bool { return r.Member == "" }

// IsParam reports whether r names a parameter rather than a bare member.
func (r Reference) IsParam() bool { return r.Param >= 0 }
