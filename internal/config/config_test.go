package config

import (
	"os"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP:      HTTPConfig{Port: 8080},
		Database:  DatabaseConfig{Addrs: []string{"localhost:6379"}},
		Embedding: EmbeddingConfig{APIKey: "test-key"},
		LLM:       LLMConfig{APIKey: "test-key"},
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.HTTP.Port = 0 }},
		{"port too high", func(c *Config) { c.HTTP.Port = 70000 }},
		{"no db addrs", func(c *Config) { c.Database.Addrs = nil }},
		{"no embedding key", func(c *Config) { c.Embedding.APIKey = "" }},
		{"no llm key", func(c *Config) { c.LLM.APIKey = "" }},
		{"floor too high", func(c *Config) { c.Pipeline.SimilarityFloor = 1.5 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestApplyDefaults_Pipeline(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()

	if cfg.Pipeline.SimilarityFloor != 0.3 {
		t.Errorf("similarity_floor = %g, want 0.3", cfg.Pipeline.SimilarityFloor)
	}
	if cfg.Pipeline.RerankTopN != 5 {
		t.Errorf("rerank_top_n = %d, want 5", cfg.Pipeline.RerankTopN)
	}
	if cfg.Pipeline.TruncateChars != 500 {
		t.Errorf("truncate_chars = %d, want 500", cfg.Pipeline.TruncateChars)
	}
	if cfg.Storage.KeyPrefix != "talentrag:" {
		t.Errorf("key_prefix = %q, want %q", cfg.Storage.KeyPrefix, "talentrag:")
	}
	if cfg.Relay.RequestSubject != "jobs.requests" {
		t.Errorf("request_subject = %q, want %q", cfg.Relay.RequestSubject, "jobs.requests")
	}
}

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("TALENTRAG_TEST_VAR", "secret")
	defer os.Unsetenv("TALENTRAG_TEST_VAR")

	tests := []struct {
		in, want string
	}{
		{"api_key: ${TALENTRAG_TEST_VAR}", "api_key: secret"},
		{"api_key: ${TALENTRAG_MISSING:-fallback}", "api_key: fallback"},
		{"api_key: ${TALENTRAG_TEST_VAR:-fallback}", "api_key: secret"},
		{"plain: value", "plain: value"},
	}
	for _, tc := range tests {
		got := string(expandEnvVars([]byte(tc.in)))
		if got != tc.want {
			t.Errorf("expandEnvVars(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
