// Package config loads skillprobe settings from an optional YAML file, a
// .env file and SKILLPROBE_* environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/abhisek/skillprobe/internal/evaluation"
	"github.com/abhisek/skillprobe/internal/interview"
	"github.com/abhisek/skillprobe/internal/llm"
	"github.com/abhisek/skillprobe/internal/store"
)

// Config is the root configuration.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Store     StoreConfig     `mapstructure:"store"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Interview InterviewConfig `mapstructure:"interview"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"` // sqlite | postgres
	DSN    string `mapstructure:"dsn"`    // empty = default SQLite path
}

// ProviderConfig holds one LLM provider's credentials.
type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type LLMConfig struct {
	// Provider is empty to discover one from standard API key variables.
	Provider   string         `mapstructure:"provider"`
	Timeout    time.Duration  `mapstructure:"timeout"`
	Anthropic  ProviderConfig `mapstructure:"anthropic"`
	OpenAI     ProviderConfig `mapstructure:"openai"`
	Gemini     ProviderConfig `mapstructure:"gemini"`
	OpenRouter ProviderConfig `mapstructure:"openrouter"`
}

type InterviewConfig struct {
	MaxQuestions       int           `mapstructure:"max_questions"`
	AITimeout          time.Duration `mapstructure:"ai_timeout"`
	RuleConfidenceGate float64       `mapstructure:"rule_confidence_gate"`
	CatalogFile        string        `mapstructure:"catalog_file"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"` // empty disables the listener
}

var knownProviders = map[string]bool{
	"": true, "anthropic": true, "openai": true, "gemini": true, "openrouter": true, "mock": true,
}

// Validate checks values that would otherwise fail deep inside a session.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case store.DriverSQLite:
	case store.DriverPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("store.driver %q is not supported", c.Store.Driver)
	}

	if !knownProviders[c.LLM.Provider] {
		return fmt.Errorf("llm.provider %q is not supported", c.LLM.Provider)
	}

	if c.Interview.MaxQuestions <= 0 {
		return fmt.Errorf("interview.max_questions must be positive, got %d", c.Interview.MaxQuestions)
	}
	if c.Interview.AITimeout <= 0 {
		return fmt.Errorf("interview.ai_timeout must be positive, got %s", c.Interview.AITimeout)
	}
	if g := c.Interview.RuleConfidenceGate; g <= 0 || g > 1 {
		return fmt.Errorf("interview.rule_confidence_gate must be in (0,1], got %g", g)
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when redis.enabled is set")
	}
	if c.Redis.TTL < 0 {
		return fmt.Errorf("redis.ttl must not be negative")
	}
	return nil
}

// LLMSettings returns the provider configuration for the AI judge. The
// second result is false when no provider is configured or discoverable,
// which leaves the evaluator in rule-only mode.
func (c *Config) LLMSettings() (llm.Config, bool) {
	if c.LLM.Provider == "" {
		cfg, ok := llm.DiscoverConfig()
		if ok && c.LLM.Timeout > 0 {
			cfg.Timeout = c.LLM.Timeout
		}
		return cfg, ok
	}

	cfg := llm.DefaultConfig()
	cfg.Provider = c.LLM.Provider
	if c.LLM.Timeout > 0 {
		cfg.Timeout = c.LLM.Timeout
	}
	overlay(&cfg.Anthropic.APIKey, &cfg.Anthropic.Model, nil, c.LLM.Anthropic)
	overlay(&cfg.OpenAI.APIKey, &cfg.OpenAI.Model, &cfg.OpenAI.BaseURL, c.LLM.OpenAI)
	overlay(&cfg.Gemini.APIKey, &cfg.Gemini.Model, nil, c.LLM.Gemini)
	overlay(&cfg.OpenRouter.APIKey, &cfg.OpenRouter.Model, &cfg.OpenRouter.BaseURL, c.LLM.OpenRouter)
	return cfg, true
}

func overlay(key, model, baseURL *string, p ProviderConfig) {
	if p.APIKey != "" {
		*key = p.APIKey
	}
	if p.Model != "" {
		*model = p.Model
	}
	if baseURL != nil && p.BaseURL != "" {
		*baseURL = p.BaseURL
	}
}

// EvaluationConfig maps interview settings onto the evaluator.
func (c *Config) EvaluationConfig() evaluation.Config {
	return evaluation.Config{
		ConfidenceGate: c.Interview.RuleConfidenceGate,
		Timeout:        c.Interview.AITimeout,
	}
}

// ManagerConfig maps interview settings onto the session manager.
func (c *Config) ManagerConfig() interview.Config {
	return interview.Config{MaxQuestions: c.Interview.MaxQuestions}
}
