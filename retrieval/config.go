package retrieval

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/sourcetrace/ai/openai"
)

// Mode selects how providers are combined.
type Mode string

const (
	// ModeCascade calls the primary provider and falls back to the others
	// in order when it fails, returns nothing or is not confident.
	ModeCascade Mode = "cascade"
	// ModeBudget spends a per-document budget of primary queries and always
	// merges in the default provider's results.
	ModeBudget Mode = "budget"
)

// ParseMode converts a string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeCascade, "":
		return ModeCascade, nil
	case ModeBudget:
		return ModeBudget, nil
	default:
		return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, s)
	}
}

// SearchAPIConfig configures the Perplexity-style primary provider.
type SearchAPIConfig struct {
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	Endpoint string `yaml:"endpoint"`
}

// GoogleConfig configures the Custom Search provider.
type GoogleConfig struct {
	APIKey   string `yaml:"api_key"`
	CSEID    string `yaml:"cse_id"`
	Endpoint string `yaml:"endpoint"`
}

// BingConfig configures the Bing provider.
type BingConfig struct {
	APIKey   string `yaml:"api_key"`
	Endpoint string `yaml:"endpoint"`
}

// DuckDuckGoConfig configures the keyless DuckDuckGo provider.
type DuckDuckGoConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	UserAgent string `yaml:"user_agent"`
}

// LLMConfig configures the language-model provider. It is used as the
// primary provider when Host and Model are set and no search API key is.
type LLMConfig struct {
	Host   string `yaml:"host"`
	Model  string `yaml:"model"`
	APIKey string `yaml:"api_key"`
}

// Config holds retrieval settings.
type Config struct {
	// Mode is "cascade" or "budget". Default: cascade
	Mode Mode `yaml:"mode"`

	// TopK is the number of results requested from each provider. Default: 10
	TopK int `yaml:"top_k"`

	// FallbackThreshold is the primary confidence below which the cascade
	// falls back. Default: 0.5
	FallbackThreshold float64 `yaml:"fallback_threshold"`

	// Budget caps primary queries per document in budget mode. Default: 2
	Budget int `yaml:"budget"`

	// Timeout bounds each provider request attempt. Default: 30s
	Timeout time.Duration `yaml:"timeout"`

	Retry RetryPolicy `yaml:"retry"`

	SearchAPI  SearchAPIConfig  `yaml:"search_api"`
	LLM        LLMConfig        `yaml:"llm"`
	Google     GoogleConfig     `yaml:"google"`
	Bing       BingConfig       `yaml:"bing"`
	DuckDuckGo DuckDuckGoConfig `yaml:"duckduckgo"`
}

// DefaultConfig returns the default retrieval settings.
func DefaultConfig() Config {
	return Config{
		Mode:              ModeCascade,
		TopK:              10,
		FallbackThreshold: 0.5,
		Budget:            2,
		Timeout:           30 * time.Second,
		Retry:             DefaultRetryPolicy(),
	}
}

// ApplyEnv fills unset credentials from the environment.
func (c *Config) ApplyEnv() {
	setFromEnv(&c.SearchAPI.APIKey, "PERPLEXITY_API_KEY")
	setFromEnv(&c.Google.APIKey, "GOOGLE_API_KEY")
	setFromEnv(&c.Google.CSEID, "GOOGLE_CSE_ID")
	setFromEnv(&c.Bing.APIKey, "BING_API_KEY")
}

func setFromEnv(dst *string, key string) {
	if *dst == "" {
		*dst = os.Getenv(key)
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if _, err := ParseMode(string(c.Mode)); err != nil {
		return err
	}
	if c.TopK <= 0 {
		return fmt.Errorf("%w: top_k must be positive", ErrInvalidConfig)
	}
	if c.FallbackThreshold < 0 || c.FallbackThreshold > 1 {
		return fmt.Errorf("%w: fallback_threshold must be within [0, 1]", ErrInvalidConfig)
	}
	if c.Budget < 0 {
		return fmt.Errorf("%w: budget must not be negative", ErrInvalidConfig)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	if c.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, ErrInvalidMaxAttempts)
	}
	return nil
}

// NewProviders builds the primary provider and the ordered fallbacks from
// cfg. Providers without credentials are still returned; they report
// ErrProviderNotConfigured and the orchestrator treats them as empty.
// The primary is the LLM provider when it is configured and no search API
// key is present, otherwise the search API provider. Fallbacks are Google,
// Bing and, when enabled, DuckDuckGo.
func NewProviders(cfg Config, logger *slog.Logger) (Provider, []Provider, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts := func(endpoint string) []ProviderOption {
		return []ProviderOption{
			WithEndpoint(endpoint),
			WithTimeout(cfg.Timeout),
			WithRetryPolicy(cfg.Retry),
			WithProviderLogger(logger),
		}
	}

	var primary Provider
	if cfg.SearchAPI.APIKey == "" && cfg.LLM.Host != "" && cfg.LLM.Model != "" {
		model, err := openai.NewChatModel(cfg.LLM.Host, cfg.LLM.Model, cfg.LLM.APIKey)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create search model: %w", err)
		}
		llm, err := NewLLMProvider(model, logger)
		if err != nil {
			return nil, nil, err
		}
		primary = llm
	} else {
		primary = NewSearchAPIProvider(cfg.SearchAPI.APIKey, cfg.SearchAPI.Model, opts(cfg.SearchAPI.Endpoint)...)
	}

	fallbacks := []Provider{
		NewGoogleProvider(cfg.Google.APIKey, cfg.Google.CSEID, opts(cfg.Google.Endpoint)...),
		NewBingProvider(cfg.Bing.APIKey, opts(cfg.Bing.Endpoint)...),
	}
	if cfg.DuckDuckGo.Enabled {
		fallbacks = append(fallbacks, NewDuckDuckGoProvider(cfg.DuckDuckGo.UserAgent, opts(cfg.DuckDuckGo.Endpoint)...))
	}
	return primary, fallbacks, nil
}
