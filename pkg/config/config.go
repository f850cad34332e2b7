// Package config defines the oasgate configuration: where the OpenAPI
// document comes from, how the gateway listens, and how strictly it
// validates.
package config

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/oasgate/oasgate/pkg/engine"
	"github.com/oasgate/oasgate/pkg/spec"
)

// SpecSource names where the OpenAPI document is loaded from. Exactly one
// of the fields must be set; Files may list several documents, which are
// merged into one.
type SpecSource struct {
	Files  []string `yaml:"files,omitempty"`
	URL    string   `yaml:"url,omitempty"`
	Inline string   `yaml:"inline,omitempty"`
}

// IsEmpty reports whether no source is configured.
func (s SpecSource) IsEmpty() bool {
	return len(s.Files) == 0 && s.URL == "" && s.Inline == ""
}

// Load materializes the source into a Document.
func (s SpecSource) Load(ctx context.Context) (*spec.Document, error) {
	switch {
	case len(s.Files) > 0:
		return spec.LoadFiles(s.Files)
	case s.URL != "":
		return spec.LoadURL(ctx, s.URL)
	case s.Inline != "":
		return spec.Load([]byte(s.Inline))
	default:
		return nil, fmt.Errorf("no OpenAPI spec source configured (files, url, or inline required)")
	}
}

// Log holds logging settings.
type Log struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Config is the top-level oasgate configuration.
type Config struct {
	// Listen is the address the gateway serves on.
	Listen string `yaml:"listen"`

	// Upstream, when set, is the URL requests are proxied to after
	// validation. Without it the gateway answers accepted requests with
	// 204 No Content.
	Upstream string `yaml:"upstream,omitempty"`

	// Mode is strict, warn, or permissive.
	Mode string `yaml:"mode"`

	// PayloadChecks enables body well-formedness checks on accepted
	// requests.
	PayloadChecks bool `yaml:"payloadChecks"`

	Spec SpecSource `yaml:"spec"`
	Log  Log        `yaml:"log,omitempty"`
}

// Default returns the configuration used when nothing is specified.
func Default() *Config {
	return &Config{
		Listen:        ":8080",
		Mode:          engine.ModeStrict,
		PayloadChecks: true,
		Log:           Log{Level: "info", Format: "text"},
	}
}

// Load reads a YAML config file on top of the defaults. Unknown fields
// are rejected.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// FromEnv applies OASGATE_* environment overrides to cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("OASGATE_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("OASGATE_UPSTREAM"); v != "" {
		cfg.Upstream = v
	}
	if v := os.Getenv("OASGATE_MODE"); v != "" {
		cfg.Mode = v
	}
	if v := os.Getenv("OASGATE_SPEC_FILE"); v != "" {
		cfg.Spec = SpecSource{Files: []string{v}}
	} else if v := os.Getenv("OASGATE_SPEC_URL"); v != "" {
		cfg.Spec = SpecSource{URL: v}
	} else if v := os.Getenv("OASGATE_SPEC"); v != "" {
		cfg.Spec = SpecSource{Inline: v}
	}
	if v := os.Getenv("OASGATE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("OASGATE_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// Validate checks the configuration for values the gateway cannot start
// with.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address is required")
	}
	switch c.Mode {
	case engine.ModeStrict, engine.ModeWarn, engine.ModePermissive:
	default:
		return fmt.Errorf("invalid mode %q (want strict, warn, or permissive)", c.Mode)
	}
	if c.Spec.IsEmpty() {
		return fmt.Errorf("no OpenAPI spec source configured (files, url, or inline required)")
	}
	sources := 0
	if len(c.Spec.Files) > 0 {
		sources++
	}
	if c.Spec.URL != "" {
		sources++
	}
	if c.Spec.Inline != "" {
		sources++
	}
	if sources > 1 {
		return fmt.Errorf("spec source must be exactly one of files, url, or inline")
	}
	return nil
}
