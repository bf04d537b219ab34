package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/oxhq/hypo/internal/decoder"
)

// classDecoder is the byte-level class-file parser, injected by
// whichever build of this binary links one in. spec.md §2 treats the
// decoder as an external collaborator to the library; this command
// tree only drives roots/provider/hydration/mapping around it, so a
// build with no decoder wired fails fast with a clear message rather
// than silently decoding nothing.
var classDecoder decoder.Decoder

var (
	logLevel string
	logger   *slog.Logger
)

func main() {
	root := &cobra.Command{
		Use:   "hypo",
		Short: "Query and complete deobfuscation mappings over a Java class-file corpus",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			var level slog.Level
			if err := level.UnmarshalText([]byte(logLevel)); err != nil {
				level = slog.LevelInfo
			}
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	root.PersistentFlags().String("config", "", "path to a JSON run config")
	root.PersistentFlags().StringSlice("root", nil, "source root directory or archive (repeatable)")
	root.PersistentFlags().Int("workers", 0, "worker parallelism, 0 uses the config default")
	root.PersistentFlags().Bool("strict-classpath", false, "fail node construction on a missing superclass/interface")

	root.AddCommand(newInspectCmd())
	root.AddCommand(newHydrateCmd())
	root.AddCommand(newMappingCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolvedConfig merges a loaded RunConfig with any flags the caller
// set on cmd, flags taking precedence.
func resolvedConfig(cmd *cobra.Command) (RunConfig, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := loadConfig(configPath)
	if err != nil {
		return cfg, err
	}
	if roots, _ := cmd.Flags().GetStringSlice("root"); len(roots) > 0 {
		cfg.Roots = roots
	}
	if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
		cfg.Workers = workers
	}
	if strict, _ := cmd.Flags().GetBool("strict-classpath"); strict {
		cfg.StrictClasspath = true
	}
	if len(cfg.Roots) == 0 {
		return cfg, fmt.Errorf("hypo: no source roots given (use --root or a config file)")
	}
	return cfg, nil
}
