package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	AppName            string
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string
	RateLimitPerSecond float64
	RateLimitBurst     int

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Gemini (LLM + embeddings)
	GeminiAPIKey         string
	GeminiModelID        string
	GeminiEmbeddingModel string

	// Intent classification strategy: keyword, tfidf or llm.
	IntentClassifier string
	IntentThreshold  float64

	// Email
	EmailProvider    string
	SendGridAPIKey   string
	EmailFromAddress string
	EmailFromName    string
	AWSRegion        string

	// Google Calendar
	GoogleServiceAccountFile string
	CalendarTimezone         string

	// Embeddings provider: gemini or hash (deterministic, for dev/test).
	EmbeddingProvider string
	RAGTopK           int

	AdminJWTSecret string

	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		AppName:            getEnv("APP_NAME", "Conversational Sales Agent"),
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvAsSlice("ALLOWED_ORIGINS"),
		RateLimitPerSecond: getEnvAsFloat("RATE_LIMIT_PER_SECOND", 10),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 20),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		GeminiAPIKey:         getEnv("GEMINI_API_KEY", ""),
		GeminiModelID:        getEnv("GEMINI_MODEL_ID", "gemini-1.5-pro"),
		GeminiEmbeddingModel: getEnv("GEMINI_EMBEDDING_MODEL", "text-embedding-004"),

		IntentClassifier: strings.ToLower(strings.TrimSpace(getEnv("INTENT_CLASSIFIER", "keyword"))),
		IntentThreshold:  getEnvAsFloat("INTENT_THRESHOLD", 0.12),

		EmailProvider:     strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "stub"))),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		EmailFromAddress: getEnv("EMAIL_FROM_ADDRESS", ""),
		EmailFromName:    getEnv("EMAIL_FROM_NAME", "Sales Agent"),
		AWSRegion:         getEnv("AWS_REGION", "us-east-1"),

		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
		CalendarTimezone:         getEnv("CALENDAR_TIMEZONE", "UTC"),

		EmbeddingProvider: strings.ToLower(strings.TrimSpace(getEnv("EMBEDDING_PROVIDER", "hash"))),
		RAGTopK:           getEnvAsInt("RAG_TOP_K", 5),

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

// Validate fails fast on combinations that would otherwise break
// mid-conversation.
func (c *Config) Validate() error {
	switch c.IntentClassifier {
	case "keyword", "tfidf":
	case "llm":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("config: INTENT_CLASSIFIER=llm requires GEMINI_API_KEY")
		}
	default:
		return fmt.Errorf("config: unknown INTENT_CLASSIFIER %q", c.IntentClassifier)
	}

	switch c.EmbeddingProvider {
	case "hash":
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("config: EMBEDDING_PROVIDER=gemini requires GEMINI_API_KEY")
		}
	default:
		return fmt.Errorf("config: unknown EMBEDDING_PROVIDER %q", c.EmbeddingProvider)
	}

	switch c.EmailProvider {
	case "stub", "ses":
	case "sendgrid":
		if c.SendGridAPIKey == "" {
			return fmt.Errorf("config: EMAIL_PROVIDER=sendgrid requires SENDGRID_API_KEY")
		}
	default:
		return fmt.Errorf("config: unknown EMAIL_PROVIDER %q", c.EmailProvider)
	}

	if c.RAGTopK <= 0 {
		return fmt.Errorf("config: RAG_TOP_K must be positive")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsFloat retrieves an environment variable as a float
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsDuration retrieves an environment variable as a duration
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsSlice splits a comma separated environment variable
func getEnvAsSlice(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
