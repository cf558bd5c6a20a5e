package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	MenubotAPIURL   string
	RedisURL        string
	AuthProvider    string
	ClerkAPIURL     string
	ClerkSecretKey  string
	SupabaseURL     string
	SupabaseAnonKey string
	ServerPort      string
	SessionTTL      int
	RequestTimeout  int
}

func Load() *Config {
	// Load .env file if exists
	godotenv.Load()

	return &Config{
		MenubotAPIURL:   getEnv("MENUBOT_API_URL", "https://menubot-backend.onrender.com"),
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379"),
		AuthProvider:    getEnv("AUTH_PROVIDER", "clerk"),
		ClerkAPIURL:     getEnv("CLERK_API_URL", "https://api.clerk.com"),
		ClerkSecretKey:  getEnv("CLERK_SECRET_KEY", "your_clerk_secret_key"),
		SupabaseURL:     getEnv("SUPABASE_URL", "https://your-project.supabase.co"),
		SupabaseAnonKey: getEnv("SUPABASE_ANON_KEY", "your_supabase_anon_key"),
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		SessionTTL:      getEnvAsInt("SESSION_TTL", 3600),
		RequestTimeout:  getEnvAsInt("REQUEST_TIMEOUT", 30),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
