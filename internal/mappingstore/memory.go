// Package mappingstore provides two implementations of
// mapping.Set: an in-memory reference implementation for tests and
// small runs, and a GORM+SQLite-backed implementation for mapping work
// that should survive a process restart.
package mappingstore

import (
	"fmt"
	"sort"
	"sync"

	"github.com/oxhq/hypo/internal/mapping"
)

type memberKey struct {
	Class, Member, Descriptor string
}

type paramKey struct {
	memberKey
	Index int
}

// MemorySet is a mutex-guarded, map-backed mapping.Set, grounded on
// the same per-key-map-plus-RWMutex shape internal/model's Bag uses
// for attached data.
type MemorySet struct {
	mu      sync.RWMutex
	classes map[string]string
	members map[memberKey]string
	params  map[paramKey]string
}

// NewMemorySet constructs an empty in-memory mapping set.
func NewMemorySet() *MemorySet {
	return &MemorySet{
		classes: make(map[string]string),
		members: make(map[memberKey]string),
		params:  make(map[paramKey]string),
	}
}

func (s *MemorySet) ClassMapping(class string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name, ok := s.classes[class]
	return name, ok
}

func (s *MemorySet) SetClassMapping(class, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classes[class] = name
}

func (s *MemorySet) RemoveClassMapping(class string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.classes, class)
}

func (s *MemorySet) MemberMapping(class, member, descriptor string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name, ok := s.members[memberKey{class, member, descriptor}]
	return name, ok
}

func (s *MemorySet) SetMemberMapping(class, member, descriptor, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[memberKey{class, member, descriptor}] = name
}

func (s *MemorySet) RemoveMemberMapping(class, member, descriptor string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.members, memberKey{class, member, descriptor})
}

func (s *MemorySet) ParameterMapping(class, member, descriptor string, index int) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name, ok := s.params[paramKey{memberKey{class, member, descriptor}, index}]
	return name, ok
}

func (s *MemorySet) SetParameterMapping(class, member, descriptor string, index int, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params[paramKey{memberKey{class, member, descriptor}, index}] = name
}

func (s *MemorySet) RemoveParameterMapping(class, member, descriptor string, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.params, paramKey{memberKey{class, member, descriptor}, index})
}

func (s *MemorySet) HasClass(class string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.classes[class]; ok {
		return true
	}
	for k := range s.members {
		if k.Class == class {
			return true
		}
	}
	for k := range s.params {
		if k.Class == class {
			return true
		}
	}
	return false
}

func (s *MemorySet) ClassNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	for c := range s.classes {
		seen[c] = struct{}{}
	}
	for k := range s.members {
		seen[k.Class] = struct{}{}
	}
	for k := range s.params {
		seen[k.Class] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func (s *MemorySet) MemberMappings(class string) []mapping.MemberMappingEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []mapping.MemberMappingEntry
	for k, name := range s.members {
		if k.Class != class {
			continue
		}
		out = append(out, mapping.MemberMappingEntry{Member: k.Member, Descriptor: k.Descriptor, Name: name})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Member != out[j].Member {
			return out[i].Member < out[j].Member
		}
		return out[i].Descriptor < out[j].Descriptor
	})
	return out
}

func (s *MemorySet) ParameterMappings(class string) []mapping.ParamMappingEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []mapping.ParamMappingEntry
	for k, name := range s.params {
		if k.Class != class {
			continue
		}
		out = append(out, mapping.ParamMappingEntry{Member: k.Member, Descriptor: k.Descriptor, Index: k.Index, Name: name})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Member != out[j].Member {
			return out[i].Member < out[j].Member
		}
		if out[i].Descriptor != out[j].Descriptor {
			return out[i].Descriptor < out[j].Descriptor
		}
		return out[i].Index < out[j].Index
	})
	return out
}

// Clone returns an independent deep copy.
func (s *MemorySet) Clone() mapping.Set {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clone := NewMemorySet()
	for k, v := range s.classes {
		clone.classes[k] = v
	}
	for k, v := range s.members {
		clone.members[k] = v
	}
	for k, v := range s.params {
		clone.params[k] = v
	}
	return clone
}

// Dump renders every entry as a stable, sorted line, for mapping.DiffListener.
func (s *MemorySet) Dump() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.classes)+len(s.members)+len(s.params))
	for class, name := range s.classes {
		out = append(out, fmt.Sprintf("class %s -> %s", class, name))
	}
	for k, name := range s.members {
		out = append(out, fmt.Sprintf("member %s.%s%s -> %s", k.Class, k.Member, k.Descriptor, name))
	}
	for k, name := range s.params {
		out = append(out, fmt.Sprintf("param %s.%s%s#%d -> %s", k.Class, k.Member, k.Descriptor, k.Index, name))
	}
	sort.Strings(out)
	return out
}

var _ mapping.Set = (*MemorySet)(nil)
var _ mapping.Dumpable = (*MemorySet)(nil)
