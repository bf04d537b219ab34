// Package source implements the class-file source roots from spec.md
// §4.4 and §6: a uniform read-only view over a directory tree, an
// archive, the running platform's class library, or a concatenation of
// any of those. Grounded on the teacher's core.FileWalker
// (core/filewalker.go) for parallel, context-cancellable traversal, and
// on github.com/bmatcuk/doublestar/v4 for the same include/exclude glob
// matching core/filewalker.go uses.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/oxhq/hypo/internal/herr"
)

// EntryRef is one discovered class-file entry: its name within the root
// and a thunk to read its bytes on demand.
type EntryRef struct {
	Name string
	Read func() ([]byte, error)
}

// Root is the uniform interface every source-root variant implements, per
// spec.md §4.4.
type Root interface {
	// FetchBytes returns the entry's bytes, or (nil, nil) if absent —
	// absence is not an error.
	FetchBytes(name string) ([]byte, error)
	// Enumerate yields every entry as a lazy, finite sequence over ch,
	// closing ch when exhausted or ctx is cancelled.
	Enumerate(ctx context.Context) (<-chan EntryRef, error)
	// Close releases the root's underlying handle(s).
	Close() error
}

// wrapIOError tags err as a source.Root I/O failure per spec.md §7.
func wrapIOError(op, name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("hypo: %s %q: %w: %w", op, name, err, herr.ErrIO)
}

// closeAll closes every root, accumulating failures rather than stopping
// at the first one, per spec.md §4.4's "errors are accumulated and
// re-raised as suppressed causes" — Go's equivalent of suppressed
// exceptions is errors.Join.
func closeAll(roots []Root) error {
	var errs []error
	for _, r := range roots {
		if r == nil {
			continue
		}
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
