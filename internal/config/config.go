package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	HTTPAddr string

	DBDriver string
	DBDSN    string

	BlobBasePath string // exported quiz results live here

	SessionSecret string // HMAC key for session tokens
	AdminPassHash string // bcrypt; empty disables the admin surface

	CORSOrigins []string

	// Chat completion collaborator (review mode).
	ChatAPIURL     string
	ChatAPIKey     string
	ChatModel      string
	ChatTimeoutSec int
}

func FromEnv() Config {
	return Config{
		HTTPAddr: envOr("HTTP_ADDR", ":8080"),

		DBDriver: envOr("DB_DRIVER", "sqlite"),
		DBDSN:    envOr("DB_DSN", ""),

		BlobBasePath: envOr("BLOB_BASE_PATH", "./data"),

		SessionSecret: envOr("SESSION_HMAC_SECRET", "supersecret-dev-key"),
		AdminPassHash: os.Getenv("ADMIN_PASS_HASH"),

		CORSOrigins: csvOr("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"),

		ChatAPIURL:     envOr("CHAT_API_URL", "https://openrouter.ai/api/v1/chat/completions"),
		ChatAPIKey:     os.Getenv("CHAT_API_KEY"),
		ChatModel:      envOr("CHAT_MODEL", "deepseek/deepseek-r1-0528:free"),
		ChatTimeoutSec: envInt("CHAT_TIMEOUT_SEC", 30),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
