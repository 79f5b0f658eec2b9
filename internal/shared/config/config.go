package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string

	DefaultModelID string

	OpenAIAPIKey string
	OpenAIModel  string
	GeminiAPIKey string
	GeminiModel  string

	SheetID           string
	SheetRange        string
	GoogleClientEmail string
	GooglePrivateKey  string
	SheetTimeoutSecs  int

	DatabaseURL string

	MaxConcurrentAnalyses int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && os.Getenv("OPENAI_API_KEY") == "" && os.Getenv("GEMINI_API_KEY") == "" {
		log.Printf("no provider API key configured; classification calls will fail")
	}

	return Config{
		Port:                  getEnv("PORT", "8080"),
		Env:                   env,
		CORSAllowOrigin:       splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")),
		DefaultModelID:        normalizeModelID(getEnv("DEFAULT_MODEL_ID", "chatgpt")),
		OpenAIAPIKey:          getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:           getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		GeminiAPIKey:          getEnv("GEMINI_API_KEY", ""),
		GeminiModel:           getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		SheetID:               getEnv("GOOGLE_SHEET_ID", ""),
		SheetRange:            getEnv("SHEET_RANGE", "Respuestas_IA!A:L"),
		GoogleClientEmail:     getEnv("GOOGLE_CLIENT_EMAIL", ""),
		GooglePrivateKey:      getEnv("GOOGLE_PRIVATE_KEY", ""),
		SheetTimeoutSecs:      getEnvInt("SHEET_TIMEOUT_SECONDS", 15),
		DatabaseURL:           dbURL,
		MaxConcurrentAnalyses: getEnvInt("MAX_CONCURRENT_ANALYSES", 4),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		log.Printf("config %s invalid int %q; using %d", key, raw, def)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeModelID(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "gemini":
		return "gemini"
	default:
		return "chatgpt"
	}
}
