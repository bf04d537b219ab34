package main

import (
	"fmt"

	"github.com/spf13/cobra"

	hypo "github.com/oxhq/hypo"
	"github.com/oxhq/hypo/internal/hydrate"
	"github.com/oxhq/hypo/internal/hydrate/providers"
	"github.com/oxhq/hypo/internal/mapping"
	"github.com/oxhq/hypo/internal/mapping/contrib"
	"github.com/oxhq/hypo/internal/mappingstore"
	"github.com/oxhq/hypo/internal/model"
	"github.com/oxhq/hypo/internal/provider"
)

// newMappingCmd builds the `hypo mapping` command group.
func newMappingCmd() *cobra.Command {
	group := &cobra.Command{
		Use:   "mapping",
		Short: "Run the mapping-completion engine over a stored mapping set",
	}
	group.AddCommand(newMappingApplyCmd())
	return group
}

// newMappingApplyCmd builds `hypo mapping apply`: runs the standard
// change chain (copy-down, propagate-up, remove-unused, record/
// constructor/lambda parameter copy) against a GORM-backed mapping
// store, printing a unified diff per stage in --dry-run mode.
func newMappingApplyCmd() *cobra.Command {
	var (
		storePath string
		dryRun    bool
	)
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Complete mappings across the corpus by running the standard change chain",
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
			p := provider.New(provider.Config{
				StandardRoots:   standardRoots,
				Decoder:         classDecoder,
				StrictClasspath: cfg.StrictClasspath,
			})

			var classes []*model.Class
			for class := range hypo.Classes(p) {
				classes = append(classes, class)
			}

			sched := hydrate.NewScheduler([]hydrate.EnrichmentProvider{
				providers.BridgeTarget{},
				providers.LambdaClosure{},
				providers.SuperConstructorCall{},
			}, cfg.Workers)
			if _, err := sched.Run(cmd.Context(), classes); err != nil {
				return err
			}

			set, err := mappingstore.Open(storePath)
			if err != nil {
				return fmt.Errorf("hypo: opening mapping store %q: %w", storePath, err)
			}

			chain := &mapping.ChangeChain{
				Provider: p,
				Contributors: []mapping.Contributor{
					contrib.CopyDown{},
					contrib.PropagateUp{},
					contrib.RemoveUnused{},
					contrib.CopyRecordParameters{},
					contrib.CopyConstructorParameters{},
					contrib.CopyLambdaParametersDown{},
				},
			}
			if dryRun {
				diff := &mapping.DiffListener{
					Write: func(diff string) { fmt.Fprint(cmd.OutOrStdout(), diff) },
				}
				diff.OnSnapshot("initial", set)
				chain.Listeners = append(chain.Listeners, diff)
			}

			final, err := chain.Run(set, classes)
			if err != nil {
				return err
			}

			// chain.Run always applies each stage to a Clone() (see
			// mapping.ChangeChain.Run), so final is never the *set we
			// opened on storePath — write its entries back so the
			// on-disk store actually reflects this run's result.
			if !dryRun {
				mappingstore.Replicate(set, final)
			}

			logger.Info("mapping apply complete", "classes", len(classes), "stages", len(chain.Contributors))
			return nil
		},
	}
	cmd.Flags().StringVar(&storePath, "store", "mappings.db", "path to the SQLite-backed mapping store")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print a unified diff per stage instead of relying on the store's persisted state")
	return cmd
}
