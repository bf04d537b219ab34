package source

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// DirRoot is a single directory tree, entries named by their path
// relative to the root using '/' separators with the ".class" suffix
// intact, per spec.md §6.
type DirRoot struct {
	base    string
	include []string // optional doublestar include globs; nil means "**/*.class"
	exclude []string // optional doublestar exclude globs

	workers int
}

// DirRootOption configures optional include/exclude filtering, mirroring
// core.FileWalker's FileScope.Include/Exclude fields.
type DirRootOption func(*DirRoot)

func WithInclude(patterns ...string) DirRootOption {
	return func(d *DirRoot) { d.include = patterns }
}

func WithExclude(patterns ...string) DirRootOption {
	return func(d *DirRoot) { d.exclude = patterns }
}

// NewDirRoot opens base as a directory source root.
func NewDirRoot(base string, opts ...DirRootOption) (*DirRoot, error) {
	info, err := os.Stat(base)
	if err != nil {
		return nil, wrapIOError("open directory root", base, err)
	}
	if !info.IsDir() {
		return nil, wrapIOError("open directory root", base, os.ErrInvalid)
	}
	d := &DirRoot{base: base, workers: runtime.NumCPU() * 2}
	for _, opt := range opts {
		opt(d)
	}
	if d.include == nil {
		d.include = []string{"**/*.class"}
	}
	return d, nil
}

func (d *DirRoot) FetchBytes(name string) ([]byte, error) {
	full := filepath.Join(d.base, filepath.FromSlash(name))
	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, wrapIOError("read", name, err)
	}
	return data, nil
}

func (d *DirRoot) Enumerate(ctx context.Context) (<-chan EntryRef, error) {
	var rel []string
	walkErr := filepath.WalkDir(d.base, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		r, err := filepath.Rel(d.base, path)
		if err != nil {
			return err
		}
		r = filepath.ToSlash(r)
		if !d.matches(r) {
			return nil
		}
		rel = append(rel, r)
		return nil
	})
	if walkErr != nil {
		return nil, wrapIOError("walk", d.base, walkErr)
	}
	sort.Strings(rel)

	out := make(chan EntryRef, 64)
	go func() {
		defer close(out)
		for _, r := range rel {
			r := r
			select {
			case <-ctx.Done():
				return
			case out <- EntryRef{Name: r, Read: func() ([]byte, error) { return d.FetchBytes(r) }}:
			}
		}
	}()
	return out, nil
}

func (d *DirRoot) matches(rel string) bool {
	matched := false
	for _, pat := range d.include {
		if ok, _ := doublestar.Match(pat, rel); ok {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	for _, pat := range d.exclude {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return false
		}
	}
	return true
}

func (d *DirRoot) Close() error { return nil }
