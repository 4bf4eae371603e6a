package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.IntentClassifier != "keyword" {
		t.Errorf("expected default classifier keyword, got %s", cfg.IntentClassifier)
	}
	if cfg.IntentThreshold != 0.12 {
		t.Errorf("expected default threshold 0.12, got %f", cfg.IntentThreshold)
	}
	if cfg.EmbeddingProvider != "hash" {
		t.Errorf("expected default embedding provider hash, got %s", cfg.EmbeddingProvider)
	}
	if cfg.RAGTopK != 5 {
		t.Errorf("expected default top_k 5, got %d", cfg.RAGTopK)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("expected 30s shutdown timeout, got %v", cfg.ShutdownTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("INTENT_CLASSIFIER", "TFIDF")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("RATE_LIMIT_PER_SECOND", "2.5")

	cfg := Load()

	if cfg.Port != "9999" {
		t.Errorf("expected port 9999, got %s", cfg.Port)
	}
	if cfg.IntentClassifier != "tfidf" {
		t.Errorf("expected lowercased classifier tfidf, got %s", cfg.IntentClassifier)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example.com" {
		t.Errorf("unexpected origins: %v", cfg.CORSAllowedOrigins)
	}
	if cfg.RateLimitPerSecond != 2.5 {
		t.Errorf("expected rate 2.5, got %f", cfg.RateLimitPerSecond)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults ok", func(c *Config) {}, false},
		{"llm classifier without key", func(c *Config) { c.IntentClassifier = "llm" }, true},
		{"llm classifier with key", func(c *Config) { c.IntentClassifier = "llm"; c.GeminiAPIKey = "k" }, false},
		{"unknown classifier", func(c *Config) { c.IntentClassifier = "oracle" }, true},
		{"gemini embeddings without key", func(c *Config) { c.EmbeddingProvider = "gemini" }, true},
		{"sendgrid without key", func(c *Config) { c.EmailProvider = "sendgrid" }, true},
		{"ses ok", func(c *Config) { c.EmailProvider = "ses" }, false},
		{"bad top_k", func(c *Config) { c.RAGTopK = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
