package mapping

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Dumpable is implemented by a Set that can render its entries as a
// stable, sorted line-per-entry text form, for unified diffing between
// stages. Both mappingstore implementations provide it; a Set that
// doesn't is simply skipped by DiffListener.
type Dumpable interface {
	Dump() []string
}

// DiffListener renders a unified diff between each stage's snapshot
// and the one before it, per SPEC_FULL.md §4.13 — a supplemented
// feature for CLI dry-run display, wired in as an ordinary
// SnapshotListener rather than a change to chain semantics. The first
// snapshot it receives is recorded as the baseline and produces no
// output.
type DiffListener struct {
	Write func(diff string)

	previous []string
	haveAny  bool
}

func (d *DiffListener) OnSnapshot(stage string, snapshot Set) {
	dumpable, ok := snapshot.(Dumpable)
	if !ok || d.Write == nil {
		return
	}
	current := dumpable.Dump()
	if d.haveAny {
		diff := difflib.UnifiedDiff{
			A:        difflib.SplitLines(strings.Join(d.previous, "\n")),
			B:        difflib.SplitLines(strings.Join(current, "\n")),
			FromFile: "before " + stage,
			ToFile:   "after " + stage,
			Context:  3,
		}
		text, err := difflib.GetUnifiedDiffString(diff)
		if err == nil && strings.TrimSpace(text) != "" {
			d.Write(text)
		} else if err == nil {
			d.Write(fmt.Sprintf("stage %q: no mapping changes\n", stage))
		}
	}
	d.previous = current
	d.haveAny = true
}
