package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/oxhq/hypo/internal/source"
)

// buildRoots opens each path as a directory or archive root, dispatched
// on whether it names a directory or a file with a .jar/.zip suffix.
func buildRoots(paths []string) ([]source.Root, error) {
	roots := make([]source.Root, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("hypo: root %q: %w", p, err)
		}
		if info.IsDir() {
			r, err := source.NewDirRoot(p)
			if err != nil {
				return nil, err
			}
			roots = append(roots, r)
			continue
		}
		if strings.HasSuffix(p, ".jar") || strings.HasSuffix(p, ".zip") {
			r, err := source.NewArchiveRoot(p)
			if err != nil {
				return nil, err
			}
			roots = append(roots, r)
			continue
		}
		return nil, fmt.Errorf("hypo: root %q: not a directory or .jar/.zip archive", p)
	}
	return roots, nil
}
