package main

import (
	"fmt"

	"github.com/spf13/cobra"

	hypo "github.com/oxhq/hypo"
	"github.com/oxhq/hypo/internal/hydrate"
	"github.com/oxhq/hypo/internal/hydrate/providers"
	"github.com/oxhq/hypo/internal/model"
	"github.com/oxhq/hypo/internal/provider"
)

// newHydrateCmd builds `hypo hydrate`: runs base hydration plus the
// standard enrichment providers (bridge targets, lambda closures,
// super-constructor calls) over every class the configured roots
// resolve, and prints the hydrated class count and the run ID.
func newHydrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hydrate",
		Short: "Run base hydration and the standard enrichment providers over the corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolvedConfig(cmd)
			if err != nil {
				return err
			}
			if classDecoder == nil {
				return fmt.Errorf("hypo: no class-file decoder linked into this build")
			}
			standardRoots, err := buildRoots(cfg.Roots)
			if err != nil {
				return err
			}
			contextRoots, err := buildRoots(cfg.ContextRoots)
			if err != nil {
				return err
			}

			p := provider.New(provider.Config{
				StandardRoots:   standardRoots,
				ContextRoots:    contextRoots,
				Decoder:         classDecoder,
				StrictClasspath: cfg.StrictClasspath,
			})

			var classes []*model.Class
			for class := range hypo.Classes(p) {
				classes = append(classes, class)
			}
			logger.Debug("resolved corpus", "classes", len(classes))

			sched := hydrate.NewScheduler([]hydrate.EnrichmentProvider{
				providers.BridgeTarget{},
				providers.LambdaClosure{},
				providers.SuperConstructorCall{},
			}, cfg.Workers)

			runID, err := sched.Run(cmd.Context(), classes)
			if err != nil {
				return err
			}
			logger.Info("hydration complete", "run_id", runID, "classes", len(classes))
			fmt.Fprintf(cmd.OutOrStdout(), "hydrated %d classes (run %s)\n", len(classes), runID)
			return nil
		},
	}
}
