package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App   AppConfig
	Ai    AIConfig
	Cache CacheConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	AuditLogFilePath   string
	CorsAllowedOrigins string
	NatsURL            string
	JWTSecret          string
}

type AIConfig struct {
	LLMProvider     string // "openai" or "ollama"
	LLMModel        string // e.g. "gpt-4o-mini", "llama3"
	SearchModel     string
	ModerationModel string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	OllamaBaseURL   string
}

type CacheConfig struct {
	RedisURL   string // empty: in-memory verdict cache
	VerdictTTL time.Duration
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
			AuditLogFilePath:   getEnv("AUDIT_LOG_FILE_PATH", "audit.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			JWTSecret:          getEnv("JWT_SECRET", ""),
		},
		Ai: AIConfig{
			LLMProvider:     getEnv("LLM_PROVIDER", "openai"),
			LLMModel:        getEnv("LLM_MODEL", "gpt-4o-mini"),
			SearchModel:     getEnv("SEARCH_MODEL", "gpt-4o-search-preview"),
			ModerationModel: getEnv("MODERATION_MODEL", "omni-moderation-latest"),
			OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			OllamaBaseURL:   getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		},
		Cache: CacheConfig{
			RedisURL:   getEnv("REDIS_URL", ""),
			VerdictTTL: time.Duration(getEnvAsInt("VERDICT_CACHE_TTL_SECONDS", 300)) * time.Second,
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
