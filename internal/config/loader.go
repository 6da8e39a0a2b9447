package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/skillprobe/internal/evaluation"
	"github.com/abhisek/skillprobe/internal/interview"
	"github.com/abhisek/skillprobe/internal/store"
)

// EnvPrefix prefixes every environment override, e.g.
// SKILLPROBE_INTERVIEW_MAX_QUESTIONS.
const EnvPrefix = "SKILLPROBE"

// Load reads configuration. An explicit path must exist; otherwise
// skillprobe.yaml is looked up in the working directory and the user config
// directory, and its absence is not an error.
func Load(path string) (*Config, error) {
	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("skillprobe")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "skillprobe"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)

	v.SetDefault("store.driver", store.DriverSQLite)
	v.SetDefault("store.dsn", "")

	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.timeout", "30s")
	for _, p := range []string{"anthropic", "openai", "gemini", "openrouter"} {
		v.SetDefault("llm."+p+".api_key", "")
		v.SetDefault("llm."+p+".model", "")
		v.SetDefault("llm."+p+".base_url", "")
	}

	v.SetDefault("interview.max_questions", interview.DefaultMaxQuestions)
	v.SetDefault("interview.ai_timeout", evaluation.DefaultJudgeTimeout.String())
	v.SetDefault("interview.rule_confidence_gate", evaluation.DefaultConfidenceGate)
	v.SetDefault("interview.catalog_file", "")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "24h")

	v.SetDefault("metrics.addr", "")
}
