package source

import (
	"archive/zip"
	"context"
	"io"
	"runtime"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
)

// ArchiveRoot is a zip- or jar-backed source root: every entry's name is
// its path within the archive, '/'-separated, per spec.md §6. Grounded
// on the teacher's core.FileWalker worker-pool shape (core/filewalker.go)
// for parallel entry-read fan-out, reused here across archive members
// instead of directory-tree file reads.
type ArchiveRoot struct {
	zr      *zip.ReadCloser
	byName  map[string]*zip.File
	include []string
	exclude []string
	workers int
}

type ArchiveRootOption func(*ArchiveRoot)

func WithArchiveInclude(patterns ...string) ArchiveRootOption {
	return func(a *ArchiveRoot) { a.include = patterns }
}

func WithArchiveExclude(patterns ...string) ArchiveRootOption {
	return func(a *ArchiveRoot) { a.exclude = patterns }
}

// NewArchiveRoot opens path as a zip/jar archive.
func NewArchiveRoot(path string, opts ...ArchiveRootOption) (*ArchiveRoot, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, wrapIOError("open archive root", path, err)
	}
	a := &ArchiveRoot{
		zr:      zr,
		byName:  make(map[string]*zip.File, len(zr.File)),
		workers: runtime.NumCPU() * 2,
	}
	for _, f := range zr.File {
		a.byName[f.Name] = f
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.include == nil {
		a.include = []string{"**/*.class"}
	}
	return a, nil
}

func (a *ArchiveRoot) FetchBytes(name string) ([]byte, error) {
	f, ok := a.byName[name]
	if !ok {
		return nil, nil
	}
	return a.readFile(f)
}

func (a *ArchiveRoot) readFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, wrapIOError("read", f.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, wrapIOError("read", f.Name, err)
	}
	return data, nil
}

func (a *ArchiveRoot) matches(name string) bool {
	matched := false
	for _, pat := range a.include {
		if ok, _ := doublestar.Match(pat, name); ok {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	for _, pat := range a.exclude {
		if ok, _ := doublestar.Match(pat, name); ok {
			return false
		}
	}
	return true
}

// Enumerate fans the matching archive members out across a worker pool
// that emits a lazy EntryRef for each one, mirroring core.FileWalker's
// paths/results channel pair; a member is decompressed only when its
// Read is called.
func (a *ArchiveRoot) Enumerate(ctx context.Context) (<-chan EntryRef, error) {
	var names []string
	for _, f := range a.zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if a.matches(f.Name) {
			names = append(names, f.Name)
		}
	}
	sort.Strings(names)

	jobs := make(chan string, a.workers)
	out := make(chan EntryRef, 64)

	var wg sync.WaitGroup
	for i := 0; i < a.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range jobs {
				name := name
				ref := EntryRef{Name: name, Read: func() ([]byte, error) { return a.FetchBytes(name) }}
				select {
				case <-ctx.Done():
					return
				case out <- ref:
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, name := range names {
			select {
			case <-ctx.Done():
				return
			case jobs <- name:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	return out, nil
}

func (a *ArchiveRoot) Close() error {
	return a.zr.Close()
}
