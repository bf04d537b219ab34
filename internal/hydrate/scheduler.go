package hydrate

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/oxhq/hypo/internal/herr"
	"github.com/oxhq/hypo/internal/model"
)

// Family is the node kind an enrichment provider targets.
type Family int

const (
	FamilyClass Family = iota
	FamilyMethod
	FamilyField
)

// Token identifies an attached-data attribute an enrichment provider
// produces or consumes, used purely for scheduling — it is distinct
// from (but typically backed by) a model.Token.
type Token string

// EnrichmentProvider is one pluggable hydration step, per spec.md §4.9.
// A provider declares the node family it targets and the attribute
// tokens it produces/consumes; the scheduler orders waves from these
// declarations.
type EnrichmentProvider interface {
	Name() string
	Family() Family
	Produces() []Token
	Consumes() []Token

	// ApplyClass runs the provider on a class. Called only when
	// Family() == FamilyClass.
	ApplyClass(c *model.Class) error
	// ApplyMethod runs the provider on a method. Called only when
	// Family() == FamilyMethod.
	ApplyMethod(m *model.Method) error
	// ApplyConstructor runs the provider on a constructor. Called only
	// when Family() == FamilyMethod — spec.md §4.9 has no separate
	// constructor family, and the super-constructor-call provider is
	// the only standard provider that needs this hook; providers that
	// don't care about constructors implement it as a no-op.
	ApplyConstructor(ctor *model.Constructor) error
	// ApplyField runs the provider on a field. Called only when
	// Family() == FamilyField.
	ApplyField(f *model.Field) error
}

// Scheduler runs the base hydrator followed by every registered
// enrichment provider, wave by wave, per spec.md §4.10.
type Scheduler struct {
	base      *BaseHydrator
	providers []EnrichmentProvider
	workers   int
}

// NewScheduler constructs a scheduler over the given enrichment
// providers, using workers-sized task pools for both base hydration's
// override pass and each enrichment wave.
func NewScheduler(providers []EnrichmentProvider, workers int) *Scheduler {
	base := NewBaseHydrator(workers)
	return &Scheduler{
		base:      base,
		providers: providers,
		workers:   base.workers,
	}
}

// Run executes base hydration, then schedules and runs every wave of
// enrichment providers against classes, per spec.md §4.10's algorithm:
// build a dependency DAG over producer/consumer tokens, and repeatedly
// run the zero-in-degree frontier as one wave until none remain. The
// returned run ID tags every error this run produces, so concurrent
// hydration runs against the same corpus can be told apart in logs.
func (s *Scheduler) Run(ctx context.Context, classes []*model.Class) (string, error) {
	runID := uuid.NewString()

	if err := s.base.Hydrate(ctx, classes); err != nil {
		return runID, fmt.Errorf("hydration run %s: %w", runID, err)
	}

	waves, err := scheduleWaves(s.providers)
	if err != nil {
		return runID, fmt.Errorf("hydration run %s: %w", runID, err)
	}

	for _, wave := range waves {
		if err := s.runWave(ctx, wave, classes); err != nil {
			return runID, fmt.Errorf("hydration run %s: %w", runID, err)
		}
	}
	return runID, nil
}

// scheduleWaves topologically layers providers into waves: for each
// token T a provider P declares consumed, every provider Q that
// declares T produced gets an edge Q -> P. A wave is the current
// zero-in-degree frontier; cycles are reported as a configuration
// error.
func scheduleWaves(providers []EnrichmentProvider) ([][]EnrichmentProvider, error) {
	producedBy := make(map[Token][]EnrichmentProvider)
	for _, p := range providers {
		for _, t := range p.Produces() {
			producedBy[t] = append(producedBy[t], p)
		}
	}

	inDegree := make(map[EnrichmentProvider]int, len(providers))
	dependents := make(map[EnrichmentProvider][]EnrichmentProvider)
	for _, p := range providers {
		inDegree[p] = 0
	}
	for _, p := range providers {
		seen := make(map[EnrichmentProvider]struct{})
		for _, t := range p.Consumes() {
			for _, producer := range producedBy[t] {
				if producer == p {
					continue
				}
				if _, ok := seen[producer]; ok {
					continue
				}
				seen[producer] = struct{}{}
				inDegree[p]++
				dependents[producer] = append(dependents[producer], p)
			}
		}
	}

	var waves [][]EnrichmentProvider
	remaining := len(providers)
	for remaining > 0 {
		var wave []EnrichmentProvider
		for _, p := range providers {
			if inDegree[p] == 0 {
				wave = append(wave, p)
			}
		}
		if len(wave) == 0 {
			return nil, fmt.Errorf("hypo: hydration scheduler: %w", herr.ErrDependencyCycle)
		}
		waves = append(waves, wave)
		for _, p := range wave {
			inDegree[p] = -1 // mark done, excluded from future frontiers
			remaining--
		}
		for _, p := range wave {
			for _, dep := range dependents[p] {
				if inDegree[dep] > 0 {
					inDegree[dep]--
				}
			}
		}
	}
	return waves, nil
}

// runWave submits one task per class, each invoking every wave
// provider eligible for that class's members, fanned out across the
// worker pool; errors from any task abort after the in-flight wave
// completes, per spec.md §4.10's cancellation policy.
func (s *Scheduler) runWave(ctx context.Context, wave []EnrichmentProvider, classes []*model.Class) error {
	classProviders := filterFamily(wave, FamilyClass)
	methodProviders := filterFamily(wave, FamilyMethod)
	fieldProviders := filterFamily(wave, FamilyField)

	jobs := make(chan *model.Class, len(classes))
	errCh := make(chan error, s.workers)

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				if err := runProvidersOnClass(c, classProviders, methodProviders, fieldProviders); err != nil {
					select {
					case errCh <- err:
					default:
					}
					return
				}
			}
		}()
	}

	for _, c := range classes {
		jobs <- c
	}
	close(jobs)
	wg.Wait()
	close(errCh)

	for err := range errCh {
		return err
	}
	return nil
}

// runProvidersOnClass runs every eligible provider against one class.
// Providers run serially within the task; only tasks across different
// classes run concurrently, per spec.md §4.10.
func runProvidersOnClass(c *model.Class, classProviders, methodProviders, fieldProviders []EnrichmentProvider) error {
	for _, p := range classProviders {
		if err := p.ApplyClass(c); err != nil {
			return fmt.Errorf("hypo: hydration provider %q on %q: %w", p.Name(), c.Name(), err)
		}
	}
	for _, m := range c.Methods() {
		for _, p := range methodProviders {
			if err := p.ApplyMethod(m); err != nil {
				return fmt.Errorf("hypo: hydration provider %q on %q.%q: %w", p.Name(), c.Name(), m.Name(), err)
			}
		}
	}
	for _, ctor := range c.Constructors() {
		for _, p := range methodProviders {
			if err := p.ApplyConstructor(ctor); err != nil {
				return fmt.Errorf("hypo: hydration provider %q on %q.<init>: %w", p.Name(), c.Name(), err)
			}
		}
	}
	for _, f := range c.Fields() {
		for _, p := range fieldProviders {
			if err := p.ApplyField(f); err != nil {
				return fmt.Errorf("hypo: hydration provider %q on %q.%q: %w", p.Name(), c.Name(), f.Name(), err)
			}
		}
	}
	return nil
}

func filterFamily(providers []EnrichmentProvider, fam Family) []EnrichmentProvider {
	var out []EnrichmentProvider
	for _, p := range providers {
		if p.Family() == fam {
			out = append(out, p)
		}
	}
	return out
}
