package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	App  AppConfig
	Keys APIKeys
	Ai   AIConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type APIKeys struct {
	Bing      string
	OpenAI    string
	Anthropic string
}

type AIConfig struct {
	DefaultModel     string // e.g. "gpt-4o-mini"
	BingBaseURL      string
	OpenAIBaseURL    string
	AnthropicBaseURL string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Keys: APIKeys{
			Bing:      getEnv("BING_API_KEY", ""),
			OpenAI:    getEnv("OPENAI_API_KEY", ""),
			Anthropic: getEnv("ANTHROPIC_API_KEY", ""),
		},
		Ai: AIConfig{
			DefaultModel:     getEnv("DEFAULT_MODEL", "gpt-4o-mini"),
			BingBaseURL:      getEnv("BING_BASE_URL", ""),
			OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", ""),
			AnthropicBaseURL: getEnv("ANTHROPIC_BASE_URL", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
