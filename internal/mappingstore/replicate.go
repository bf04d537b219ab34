package mappingstore

import "github.com/oxhq/hypo/internal/mapping"

// Replicate overwrites dst's entries with every entry src currently
// holds, driven purely through the mapping.Set contract so it works
// between any two implementations — in particular for copying a
// ChangeChain.Run result (always a Clone(), per chain.go, so never the
// on-disk store the caller opened) back into a persistent store.
func Replicate(dst, src mapping.Set) {
	for _, class := range src.ClassNames() {
		if name, ok := src.ClassMapping(class); ok {
			dst.SetClassMapping(class, name)
		}
		for _, m := range src.MemberMappings(class) {
			dst.SetMemberMapping(class, m.Member, m.Descriptor, m.Name)
		}
		for _, p := range src.ParameterMappings(class) {
			dst.SetParameterMapping(class, p.Member, p.Descriptor, p.Index, p.Name)
		}
	}
}
