// Package config loads CLI settings from defaults, a TOML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// FileName is the project-level config file looked up in the working
	// directory when no explicit path is given.
	FileName = ".polaris-migrator.toml"
	// EnvPrefix prefixes every environment override, e.g.
	// POLARIS_MIGRATOR_PARALLEL=4.
	EnvPrefix = "POLARIS_MIGRATOR_"
	// DefaultReports is the directory run reports are written to.
	DefaultReports = ".polaris-migrator-reports"
)

// Config holds the settings shared by the CLI commands. Flags given on the
// command line take precedence over every value here.
type Config struct {
	Parallel        int      `koanf:"parallel"`
	Namespace       string   `koanf:"namespace"`
	ReplacementMaps string   `koanf:"replacement_maps"`
	Reports         string   `koanf:"reports"`
	DryRun          bool     `koanf:"dry_run"`
	Exclude         []string `koanf:"exclude"`
	Verbosity       int      `koanf:"verbosity"`
}

// Defaults returns the built-in settings.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"parallel":         1,
		"namespace":        "",
		"replacement_maps": "",
		"reports":          DefaultReports,
		"dry_run":          false,
		"exclude":          []string{},
		"verbosity":        0,
	}
}

// Load layers defaults, the config file and the environment. An explicit
// path must exist; otherwise FileName is used when present.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath, err := resolvePath(path)
	if err != nil {
		return nil, err
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	}

	err = k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		if key == "exclude" {
			return key, splitList(value)
		}

		return key, value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if cfg.Parallel < 1 {
		return nil, fmt.Errorf("parallel must be at least 1, got %d", cfg.Parallel)
	}

	return &cfg, nil
}

func resolvePath(path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config file: %w", err)
		}

		return path, nil
	}

	if _, err := os.Stat(FileName); err == nil {
		return FileName, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("config file: %w", err)
	}

	return "", nil
}

func splitList(value string) []string {
	var out []string

	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}
