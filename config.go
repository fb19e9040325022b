package sourcetrace

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/poiesic/sourcetrace/ai"
	"github.com/poiesic/sourcetrace/fetch"
	"github.com/poiesic/sourcetrace/pipeline"
	"github.com/poiesic/sourcetrace/retrieval"
)

const (
	// CacheMemory keeps fetched sources in a map for the lifetime of the engine.
	CacheMemory = "memory"
	// CacheBadger keeps fetched sources in BadgerDB, in memory unless a path is set.
	CacheBadger = "badger"
)

// ErrInvalidConfig indicates engine settings failed validation.
var ErrInvalidConfig = errors.New("invalid engine config")

// CacheConfig selects the fetch cache.
type CacheConfig struct {
	// Backend is "memory" or "badger". Default: memory
	Backend string `yaml:"backend"`
	// Path is the badger directory. Empty keeps badger in memory.
	Path string `yaml:"path"`
	// TTL expires badger entries. Zero keeps them for the cache's lifetime.
	TTL time.Duration `yaml:"ttl"`
}

// EnrichConfig controls source metadata lookup. Empty host, model and key
// fall back to the analyzer settings of the AI config.
type EnrichConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Host      string `yaml:"host"`
	Model     string `yaml:"model"`
	APIKey    string `yaml:"api_key"`
	BatchSize int    `yaml:"batch_size"`
}

// Config aggregates the settings of every component.
type Config struct {
	AI        ai.Config        `yaml:"ai"`
	Pipeline  pipeline.Config  `yaml:",inline"`
	Retrieval retrieval.Config `yaml:"retrieval"`
	Fetch     fetch.Config     `yaml:"fetch"`
	Cache     CacheConfig      `yaml:"cache"`
	Enrich    EnrichConfig     `yaml:"enrich"`
}

// DefaultConfig returns a configuration that runs fully offline: lexical
// AI capabilities and an in-memory fetch cache.
func DefaultConfig() Config {
	return Config{
		AI:        *ai.DefaultConfig(),
		Pipeline:  pipeline.DefaultConfig(),
		Retrieval: retrieval.DefaultConfig(),
		Fetch:     fetch.DefaultConfig(),
		Cache:     CacheConfig{Backend: CacheMemory},
		Enrich:    EnrichConfig{BatchSize: 10},
	}
}

// LoadConfig reads a YAML file over the defaults and fills unset provider
// credentials from the environment. An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	cfg.Retrieval.ApplyEnv()
	return cfg, nil
}

// Marshal renders the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks every component's settings.
func (c *Config) Validate() error {
	if err := c.AI.Validate(); err != nil {
		return err
	}
	if err := c.Pipeline.Validate(); err != nil {
		return err
	}
	if err := c.Retrieval.Validate(); err != nil {
		return err
	}
	if err := c.Fetch.Validate(); err != nil {
		return err
	}
	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	switch c.Cache.Backend {
	case CacheMemory, CacheBadger:
	case "":
		c.Cache.Backend = CacheMemory
	default:
		return fmt.Errorf("%w: unknown cache backend %q", ErrInvalidConfig, c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("%w: cache ttl must not be negative", ErrInvalidConfig)
	}
	if c.Enrich.Enabled && c.Enrich.BatchSize <= 0 {
		return fmt.Errorf("%w: enrich batch_size must be positive", ErrInvalidConfig)
	}
	return nil
}
