package llm

import (
	"context"
	"testing"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
		model   string
	}{
		{"mock", Config{Provider: ProviderMock}, false, "mock"},
		{"anthropic", Config{Provider: ProviderAnthropic, Anthropic: AnthropicConfig{APIKey: "k", Model: "claude-haiku"}}, false, "claude-haiku-4-5-20251001"},
		{"openai", Config{Provider: ProviderOpenAI, OpenAI: OpenAIConfig{APIKey: "k", Model: "gpt-4o-mini"}}, false, "gpt-4o-mini"},
		{"openrouter", Config{Provider: ProviderOpenRouter, OpenRouter: OpenRouterConfig{APIKey: "k", Model: "google/gemini-2.5-flash"}}, false, "google/gemini-2.5-flash"},
		{"missing key", Config{Provider: ProviderOpenAI}, true, ""},
		{"unknown", Config{Provider: "cohere"}, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(context.Background(), tt.cfg, nil, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewProvider() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if _, ok := p.(*RetryProvider); !ok {
				t.Errorf("provider = %T, want *RetryProvider", p)
			}
			if p.ModelID() != tt.model {
				t.Errorf("ModelID = %q, want %q", p.ModelID(), tt.model)
			}
		})
	}
}
