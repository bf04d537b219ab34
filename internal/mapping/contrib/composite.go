package contrib

import (
	"fmt"

	"github.com/oxhq/hypo/internal/mapping"
	"github.com/oxhq/hypo/internal/provider"
)

// Composite wraps an ordered list of contributors and runs each one in
// turn for a single target, submitting to the same registry — a stage
// made of several contributors without needing its own chain stage per
// contributor, per spec.md §4.11's "composite that wraps a list of
// contributors."
type Composite struct {
	Label        string
	Contributors []mapping.Contributor
}

func (c *Composite) Name() string {
	if c.Label != "" {
		return c.Label
	}
	return "composite"
}

func (c *Composite) Contribute(t mapping.Target, current mapping.Set, p *provider.Provider, reg *mapping.Registry) error {
	for _, contributor := range c.Contributors {
		if err := contributor.Contribute(t, current, p, reg); err != nil {
			return fmt.Errorf("%s: %w", contributor.Name(), err)
		}
	}
	return nil
}
