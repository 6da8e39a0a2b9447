package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "skillprobe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, 10, cfg.Interview.MaxQuestions)
	assert.Equal(t, 20*time.Second, cfg.Interview.AITimeout)
	assert.InDelta(t, 0.8, cfg.Interview.RuleConfidenceGate, 1e-9)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 24*time.Hour, cfg.Redis.TTL)
	assert.Empty(t, cfg.Metrics.Addr)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
log:
  json: true
store:
  driver: postgres
  dsn: postgres://localhost/skillprobe?sslmode=disable
llm:
  provider: anthropic
  anthropic:
    api_key: sk-test
    model: claude-sonnet-4-5
interview:
  max_questions: 6
  ai_timeout: 5s
  rule_confidence_gate: 0.75
redis:
  enabled: true
  addr: redis:6379
  ttl: 2h
metrics:
  addr: ":9090"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 6, cfg.Interview.MaxQuestions)
	assert.Equal(t, 5*time.Second, cfg.Interview.AITimeout)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 2*time.Hour, cfg.Redis.TTL)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)

	llmCfg, ok := cfg.LLMSettings()
	require.True(t, ok)
	assert.Equal(t, "anthropic", llmCfg.Provider)
	assert.Equal(t, "sk-test", llmCfg.Anthropic.APIKey)
	assert.Equal(t, "claude-sonnet-4-5", llmCfg.Anthropic.Model)
	assert.NoError(t, llmCfg.Validate())

	ev := cfg.EvaluationConfig()
	assert.InDelta(t, 0.75, ev.ConfidenceGate, 1e-9)
	assert.Equal(t, 6, cfg.ManagerConfig().MaxQuestions)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "interview:\n  max_questions: 6\n")
	t.Setenv("SKILLPROBE_INTERVIEW_MAX_QUESTIONS", "12")
	t.Setenv("SKILLPROBE_METRICS_ADDR", ":9100")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Interview.MaxQuestions)
	assert.Equal(t, ":9100", cfg.Metrics.Addr)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	path := writeConfig(t, "interview:\n  max_questions: 0\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "max_questions")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Store:     StoreConfig{Driver: "sqlite"},
			Interview: InterviewConfig{MaxQuestions: 10, AITimeout: time.Second, RuleConfidenceGate: 0.8},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"valid", func(*Config) {}, ""},
		{"gate of one", func(c *Config) { c.Interview.RuleConfidenceGate = 1 }, ""},
		{"unknown driver", func(c *Config) { c.Store.Driver = "mysql" }, "store.driver"},
		{"postgres without dsn", func(c *Config) { c.Store.Driver = "postgres" }, "store.dsn"},
		{"unknown provider", func(c *Config) { c.LLM.Provider = "cohere" }, "llm.provider"},
		{"negative max questions", func(c *Config) { c.Interview.MaxQuestions = -1 }, "max_questions"},
		{"zero timeout", func(c *Config) { c.Interview.AITimeout = 0 }, "ai_timeout"},
		{"zero gate", func(c *Config) { c.Interview.RuleConfidenceGate = 0 }, "rule_confidence_gate"},
		{"gate above one", func(c *Config) { c.Interview.RuleConfidenceGate = 1.2 }, "rule_confidence_gate"},
		{"redis without addr", func(c *Config) { c.Redis.Enabled = true }, "redis.addr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestLLMSettings_Discover(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	cfg := &Config{}

	_, ok := cfg.LLMSettings()
	assert.False(t, ok, "no provider and no keys disables the AI tier")

	t.Setenv("OPENAI_API_KEY", "sk-openai")
	cfg.LLM.Timeout = 7 * time.Second
	llmCfg, ok := cfg.LLMSettings()
	require.True(t, ok)
	assert.Equal(t, "openai", llmCfg.Provider)
	assert.Equal(t, 7*time.Second, llmCfg.Timeout)
}
