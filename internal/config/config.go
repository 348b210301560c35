package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Shared-secret API key. Empty means all requests are accepted
	// unauthenticated (local dev).
	APIKey string

	AnthropicAPIKey string
	ModelName       string
	MaxTokens       int

	StorageBackend string // "memory" or "dynamo"
	UseMockLLM     bool   // true = scripted replies, no provider calls

	DynamoTableName string
	DynamoEndpoint  string // set to target dynamodb-local
	AWSRegion       string
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

func getIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("%s must be an integer, got %q", key, v)
	}
	return n
}

// Load reads all env vars and builds the config.
// A .env file is honored when present (dev convenience).
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port: getEnv("VERBA_PORT", "8080"),

		APIKey: getEnv("VERBA_API_KEY", ""),

		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		ModelName:       getEnv("VERBA_MODEL_NAME", "claude-sonnet-4-20250514"),
		MaxTokens:       getIntEnv("VERBA_MAX_TOKENS", 4096),

		StorageBackend: getEnv("VERBA_STORAGE_BACKEND", "memory"),
		UseMockLLM:     getBoolEnv("VERBA_USE_MOCK_LLM", false),

		DynamoTableName: getEnv("DYNAMODB_TABLE_NAME", "verba-dialog"),
		DynamoEndpoint:  getEnv("DYNAMODB_ENDPOINT", ""),
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
	}

	if !cfg.UseMockLLM && cfg.AnthropicAPIKey == "" {
		log.Fatal("ANTHROPIC_API_KEY must be set unless VERBA_USE_MOCK_LLM=1")
	}

	return cfg
}
