// Package config provides configuration loading and management for the AIFR
// pipeline.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kepae/aifr-jsonld-example/graph"
	"github.com/kepae/aifr-jsonld-example/kb"
	"github.com/kepae/aifr-jsonld-example/vocabulary/aifr"
)

// Config represents the complete AIFR configuration
type Config struct {
	KB     KBConfig     `yaml:"kb"`
	Report ReportConfig `yaml:"report"`
	Server ServerConfig `yaml:"server"`
	NATS   NATSConfig   `yaml:"nats"`
}

// KBConfig configures the knowledge base
type KBConfig struct {
	// Path is the knowledge base directory
	Path string `yaml:"path"`
	// SystemsGlob matches the AI systems collection files within Path
	SystemsGlob string `yaml:"systems_glob"`
	// OrganizationsGlob matches the organizations collection files within Path
	OrganizationsGlob string `yaml:"organizations_glob"`
	// Watch enables hot reload on knowledge base file changes
	Watch bool `yaml:"watch"`
	// DebounceDelay is how long to wait for more changes before reloading
	DebounceDelay time.Duration `yaml:"debounce_delay"`
}

// ReportConfig configures report document generation
type ReportConfig struct {
	// BaseURI is the base under which report @ids are minted
	BaseURI string `yaml:"base_uri"`
}

// ServerConfig configures the HTTP front end
type ServerConfig struct {
	// Addr is the listen address (e.g. ":8080")
	Addr string `yaml:"addr"`
}

// NATSConfig configures report document publishing
type NATSConfig struct {
	// URL is the NATS server URL (empty = publishing disabled)
	URL string `yaml:"url"`
	// Subject is the subject documents are published on
	Subject string `yaml:"subject"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		KB: KBConfig{
			Path:              "knowledge-base",
			SystemsGlob:       kb.DefaultSystemsGlob,
			OrganizationsGlob: kb.DefaultOrganizationsGlob,
			Watch:             false,
			DebounceDelay:     500 * time.Millisecond,
		},
		Report: ReportConfig{
			BaseURI: aifr.DefaultReportBase,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		NATS: NATSConfig{
			URL:     "", // Publishing disabled
			Subject: graph.DefaultSubject,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.KB.Path == "" {
		return fmt.Errorf("kb.path is required")
	}
	if c.KB.SystemsGlob == "" {
		return fmt.Errorf("kb.systems_glob is required")
	}
	if c.KB.OrganizationsGlob == "" {
		return fmt.Errorf("kb.organizations_glob is required")
	}
	if c.Report.BaseURI == "" {
		return fmt.Errorf("report.base_uri is required")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// KB
	if other.KB.Path != "" {
		c.KB.Path = other.KB.Path
	}
	if other.KB.SystemsGlob != "" {
		c.KB.SystemsGlob = other.KB.SystemsGlob
	}
	if other.KB.OrganizationsGlob != "" {
		c.KB.OrganizationsGlob = other.KB.OrganizationsGlob
	}
	if other.KB.Watch {
		c.KB.Watch = true
	}
	if other.KB.DebounceDelay != 0 {
		c.KB.DebounceDelay = other.KB.DebounceDelay
	}

	// Report
	if other.Report.BaseURI != "" {
		c.Report.BaseURI = other.Report.BaseURI
	}

	// Server
	if other.Server.Addr != "" {
		c.Server.Addr = other.Server.Addr
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.Subject != "" {
		c.NATS.Subject = other.NATS.Subject
	}
}
