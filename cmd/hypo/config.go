package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// RunConfig is the run configuration for a hypo invocation: roots to
// scan, parallelism, and classpath strictness. Analogous to the
// teacher's model.Config, generalized from a source-edit run to a
// class-corpus run.
type RunConfig struct {
	Roots           []string `json:"roots"`
	ContextRoots    []string `json:"contextRoots"`
	Workers         int      `json:"workers"`
	StrictClasspath bool     `json:"strictClasspath"`
}

// loadConfig reads RunConfig from path (if given) and applies
// HYPO_-prefixed environment variable overrides, loading a .env file
// first if one is present in the working directory — the same
// override-local-dev-defaults idiom the teacher uses its own .env
// loading for.
func loadConfig(path string) (RunConfig, error) {
	var cfg RunConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("hypo: reading config %q: %w", path, err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("hypo: parsing config %q: %w", path, err)
		}
	}

	_ = godotenv.Load() // optional; missing .env is not an error

	if v := os.Getenv("HYPO_ROOT"); v != "" {
		cfg.Roots = []string{v}
	}
	if v := os.Getenv("HYPO_WORKERS"); v != "" {
		var workers int
		if _, err := fmt.Sscanf(v, "%d", &workers); err == nil {
			cfg.Workers = workers
		}
	}
	if os.Getenv("HYPO_STRICT_CLASSPATH") == "1" {
		cfg.StrictClasspath = true
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	return cfg, nil
}
