// Package config loads the monowalk CLI's on-disk settings: logging
// verbosity, a few parsed-but-unused fields (see Config), and optional
// overrides for the two genuinely tunable parts of the library
// itself — the signature catalog and the PE header offset table, both
// already expressed as embedded YAML data in internal/sigs and
// internal/peexport. ApplyOverrides is how a CLI invocation retargets those
// without a rebuild; the monowalk library proper still takes no config.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/unityscope/monowalk/internal/peexport"
	"github.com/unityscope/monowalk/internal/sigs"
)

// Config is the monowalk CLI's top-level settings file.
type Config struct {
	// ProcessName names a target executable, e.g. "MyGame.exe". It is
	// parsed but not read: the CLI selects its target only by --pid or
	// --dump.
	ProcessName string `yaml:"process_name"`

	// DefaultAssembly is parsed but not read: GetDefaultImage always
	// resolves monowalk.DefaultAssemblyName.
	DefaultAssembly string `yaml:"default_assembly"`

	// PollInterval is parsed but not read: the Wait* methods always poll
	// at internal/retry's DefaultInterval.
	PollInterval time.Duration `yaml:"poll_interval"`

	// Verbose enables debug-level logging.
	Verbose bool `yaml:"verbose"`

	// SignatureCatalog, if set, replaces internal/sigs's embedded default
	// catalog.yaml — for a Unity fork whose .text signatures differ.
	SignatureCatalog string `yaml:"signature_catalog"`

	// PEOffsets, if set, replaces internal/peexport's embedded default
	// offsets.yaml — for a PE layout internal/peexport's defaults don't
	// match.
	PEOffsets string `yaml:"pe_offsets"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		DefaultAssembly: "Assembly-CSharp",
		PollInterval:    100 * time.Millisecond,
	}
}

// Load reads and parses a YAML config file at path, filling unset fields
// from Default().
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyOverrides installs cfg's SignatureCatalog/PEOffsets files as the
// active catalog/offset table, if set. Call it once at startup, before any
// attach — neither internal/sigs.Load nor internal/peexport.Load is safe to
// call concurrently with a walker in flight.
func (cfg Config) ApplyOverrides() error {
	if cfg.SignatureCatalog != "" {
		if err := sigs.Load(cfg.SignatureCatalog); err != nil {
			return err
		}
	}
	if cfg.PEOffsets != "" {
		if err := peexport.Load(cfg.PEOffsets); err != nil {
			return err
		}
	}
	return nil
}
