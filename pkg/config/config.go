package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/umputun/apprestrictions/pkg/restrictions"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server       ServerConfig       `yaml:"server" json:"server" jsonschema:"description=Server configuration"`
	Database     DatabaseConfig     `yaml:"database" json:"database" jsonschema:"description=Database configuration"`
	Restrictions RestrictionsConfig `yaml:"restrictions" json:"restrictions" jsonschema:"description=Resource data of the published restrictions"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Listen         string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
	Timeout        time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	DefaultProfile string        `yaml:"default_profile" json:"default_profile" jsonschema:"default=restricted,description=Profile shown when none is requested"`
	SessionTTL     time.Duration `yaml:"session_ttl" json:"session_ttl" jsonschema:"default=30m,description=Lifetime of an idle custom settings session"`
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:apprestrictions.db?cache=shared&mode=rwc,description=Database connection string"`
	MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
	MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
}

// RestrictionsConfig holds the static resource data used to build the restriction catalog
type RestrictionsConfig struct {
	BooleanTitle string       `yaml:"boolean_title" json:"boolean_title" jsonschema:"description=Title of the boolean restriction"`
	Choice       ChoiceConfig `yaml:"choice" json:"choice" jsonschema:"description=Single-choice restriction"`
	Multi        ChoiceConfig `yaml:"multi" json:"multi" jsonschema:"description=Multi-select restriction"`
	NotAvailable string       `yaml:"not_available" json:"not_available" jsonschema:"default=N/A,description=Placeholder shown for missing values"`
}

// ChoiceConfig describes a choice restriction: title and parallel label/value lists
type ChoiceConfig struct {
	Title  string   `yaml:"title" json:"title" jsonschema:"description=Title of the restriction"`
	Labels []string `yaml:"labels" json:"labels" jsonschema:"description=Display labels, parallel to values"`
	Values []string `yaml:"values" json:"values" jsonschema:"description=Legal values"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

// Default returns configuration with all defaults, used when no config file is given
func Default() *Config {
	var cfg Config
	cfg.setDefaults()
	return &cfg
}

// setDefaults fills in everything not set in the file
func (c *Config) setDefaults() {
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}
	if c.Server.DefaultProfile == "" {
		c.Server.DefaultProfile = "restricted"
	}
	if c.Server.SessionTTL == 0 {
		c.Server.SessionTTL = 30 * time.Minute
	}

	if c.Database.DSN == "" {
		c.Database.DSN = "file:apprestrictions.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 3600
	}

	// resource data missing from the file comes from the built-in set
	def := restrictions.DefaultResources()
	r := &c.Restrictions
	if r.BooleanTitle == "" {
		r.BooleanTitle = def.BooleanTitle
	}
	if r.Choice.Title == "" {
		r.Choice.Title = def.ChoiceTitle
	}
	if len(r.Choice.Values) == 0 && len(r.Choice.Labels) == 0 {
		r.Choice.Labels, r.Choice.Values = def.ChoiceLabels, def.ChoiceValues
	}
	if r.Multi.Title == "" {
		r.Multi.Title = def.MultiTitle
	}
	if len(r.Multi.Values) == 0 && len(r.Multi.Labels) == 0 {
		r.Multi.Labels, r.Multi.Values = def.MultiLabels, def.MultiValues
	}
	if r.NotAvailable == "" {
		r.NotAvailable = def.NotAvailable
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}
	if cfg.Server.SessionTTL < time.Second {
		return fmt.Errorf("server session_ttl must be at least 1 second")
	}
	if err := cfg.GetResources().Validate(); err != nil {
		return fmt.Errorf("restrictions: %w", err)
	}
	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetResources returns the resource data of the restriction catalog
func (c *Config) GetResources() restrictions.Resources {
	return restrictions.Resources{
		BooleanTitle: c.Restrictions.BooleanTitle,
		ChoiceTitle:  c.Restrictions.Choice.Title,
		ChoiceLabels: c.Restrictions.Choice.Labels,
		ChoiceValues: c.Restrictions.Choice.Values,
		MultiTitle:   c.Restrictions.Multi.Title,
		MultiLabels:  c.Restrictions.Multi.Labels,
		MultiValues:  c.Restrictions.Multi.Values,
		NotAvailable: c.Restrictions.NotAvailable,
	}
}

// GetFullConfig returns the full configuration
func (c *Config) GetFullConfig() *Config {
	return c
}
