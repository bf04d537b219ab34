package main

import (
	"fmt"

	"github.com/spf13/cobra"

	hypo "github.com/oxhq/hypo"
	"github.com/oxhq/hypo/internal/provider"
)

// newInspectCmd builds `hypo inspect`: lists every class the configured
// roots resolve, a read-only sanity check over the provider before
// running hydration or mapping completion.
func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "List classes reachable from the configured source roots",
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

			count := 0
			for class := range hypo.Classes(p) {
				fmt.Fprintln(cmd.OutOrStdout(), class.Name())
				count++
			}
			hits, misses := p.Stats()
			logger.Info("inspect complete", "classes", count, "cache_hits", hits, "cache_misses", misses)
			return nil
		},
	}
}
