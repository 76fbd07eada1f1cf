package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Iris     IrisConfig
	Kakao    KakaoConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	Paste    PasteConfig
	Pokedex  PokedexConfig
	NLU      NLUConfig
	Pager    PagerConfig
	Logging  LoggingConfig
	Health   HealthConfig
	Bot      BotConfig
}

type IrisConfig struct {
	BaseURL string
	WSURL   string
}

type KakaoConfig struct {
	Rooms []string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type PasteConfig struct {
	// HostPrefix is the only accepted prefix for team links.
	HostPrefix       string
	BreakerThreshold int
	BreakerReset     time.Duration
}

type PokedexConfig struct {
	File string
}

type NLUConfig struct {
	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
}

type PagerConfig struct {
	PageSize int
	Timeout  time.Duration
}

type LoggingConfig struct {
	Level string
	File  string
}

type HealthConfig struct {
	Port int
}

type BotConfig struct {
	Prefix           string
	AdminUsers       []string
	AddTeamAdminOnly bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Iris: IrisConfig{
			BaseURL: getEnv("IRIS_BASE_URL", "http://localhost:3000"),
			WSURL:   getEnv("IRIS_WS_URL", "ws://localhost:3000/ws"),
		},
		Kakao: KakaoConfig{
			Rooms: parseCommaSeparated(getEnv("KAKAO_ROOMS", "")),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Postgres: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "poketeam"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Database: getEnv("POSTGRES_DB", "poketeam"),
		},
		Paste: PasteConfig{
			HostPrefix:       getEnv("PASTE_HOST_PREFIX", "https://pokepast.es/"),
			BreakerThreshold: getEnvInt("PASTE_BREAKER_THRESHOLD", 5),
			BreakerReset:     time.Duration(getEnvInt("PASTE_BREAKER_RESET_SECONDS", 60)) * time.Second,
		},
		Pokedex: PokedexConfig{
			File: getEnv("POKEDEX_FILE", "data/pokedex.json"),
		},
		NLU: NLUConfig{
			GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
			GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		},
		Pager: PagerConfig{
			PageSize: getEnvInt("PAGER_PAGE_SIZE", 5),
			Timeout:  time.Duration(getEnvInt("PAGER_TIMEOUT_SECONDS", 60)) * time.Second,
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
		Health: HealthConfig{
			Port: getEnvInt("HEALTH_PORT", 8080),
		},
		Bot: BotConfig{
			Prefix:           getEnv("BOT_PREFIX", "!"),
			AdminUsers:       parseCommaSeparated(getEnv("ADMIN_USERS", "")),
			AddTeamAdminOnly: getEnvBool("ADDTEAM_ADMIN_ONLY", true),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Iris.BaseURL == "" {
		return fmt.Errorf("IRIS_BASE_URL is required")
	}
	if c.Iris.WSURL == "" {
		return fmt.Errorf("IRIS_WS_URL is required")
	}
	if len(c.Kakao.Rooms) == 0 {
		return fmt.Errorf("KAKAO_ROOMS is required")
	}
	if c.Paste.HostPrefix == "" {
		return fmt.Errorf("PASTE_HOST_PREFIX is required")
	}
	if c.Pokedex.File == "" {
		return fmt.Errorf("POKEDEX_FILE is required")
	}
	if c.Pager.PageSize <= 0 {
		return fmt.Errorf("PAGER_PAGE_SIZE must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func parseCommaSeparated(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
