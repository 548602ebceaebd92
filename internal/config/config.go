// File: internal/config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppName     string
	Environment string
	ServerPort  string
	LogLevel    string
	CORSOrigin  string

	DatabasePath string

	JWTSecret        string
	JWTRefreshSecret string
	JWTExpiresIn     time.Duration
	JWTRefreshIn     time.Duration
	BcryptCost       int

	OpenAIAPIKey      string
	OpenAIBaseURL     string
	OpenAIModel       string
	OpenAITemperature float32
	OpenAIMaxTokens   int

	ChatContextWindow int
}

// IsProduction reports whether ENV is production.
func (c *Config) IsProduction() bool { return c.Environment == "production" }

// IsDevelopment reports whether error details may be shown to clients.
func (c *Config) IsDevelopment() bool { return c.Environment == "development" }

// Load reads configuration from environment variables or .env file.
func Load() (*Config, error) {
	env := strings.ToLower(getEnv("ENV", "development"))
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
		// .env may set ENV itself
		env = strings.ToLower(getEnv("ENV", "development"))
	}

	cfg := &Config{
		AppName:     getEnv("APP_NAME", "CodeMentor"),
		Environment: env,
		ServerPort:  getEnv("SERVER_PORT", "5000"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigin:  getEnv("CORS_ORIGIN", "http://localhost:3000"),

		DatabasePath: getEnv("DATABASE_PATH", "codementor.db"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTRefreshSecret: getEnv("JWT_REFRESH_SECRET", ""),
		JWTExpiresIn:     getEnvAsDuration("JWT_EXPIRES_IN", 24*time.Hour),
		JWTRefreshIn:     getEnvAsDuration("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour),
		BcryptCost:       getEnvAsInt("BCRYPT_COST", 12),

		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-4-turbo-preview"),
		OpenAITemperature: float32(getEnvAsFloat("OPENAI_TEMPERATURE", 0.7)),
		OpenAIMaxTokens:   getEnvAsInt("OPENAI_MAX_TOKENS", 2000),

		ChatContextWindow: getEnvAsInt("CHAT_CONTEXT_WINDOW", 20),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate enforces required secrets. Outside production, missing JWT
// secrets are tolerated with a warning so local runs work out of the box.
func (c *Config) Validate() error {
	missing := []string{}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.JWTRefreshSecret == "" {
		missing = append(missing, "JWT_REFRESH_SECRET")
	}
	if c.OpenAIAPIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}

	if c.IsProduction() && len(missing) > 0 {
		return fmt.Errorf("missing required production environment variables: %v", missing)
	}
	if c.JWTSecret == "" {
		log.Println("Warning: JWT_SECRET not set; using an insecure development secret")
		c.JWTSecret = "dev-access-secret"
	}
	if c.JWTRefreshSecret == "" {
		log.Println("Warning: JWT_REFRESH_SECRET not set; using an insecure development secret")
		c.JWTRefreshSecret = "dev-refresh-secret"
	}
	if c.JWTSecret == c.JWTRefreshSecret {
		return fmt.Errorf("JWT_SECRET and JWT_REFRESH_SECRET must differ")
	}
	if c.ChatContextWindow <= 0 {
		return fmt.Errorf("CHAT_CONTEXT_WINDOW must be positive")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}
	return nil
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(strValue, 64)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as float. Using default value.", key)
		return defaultValue
	}
	return value
}

// getEnvAsDuration accepts Go durations ("24h") and day suffixes ("7d").
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	strValue := strings.TrimSpace(getEnv(key, ""))
	if strValue == "" {
		return defaultValue
	}
	if days, ok := strings.CutSuffix(strValue, "d"); ok {
		if n, err := strconv.Atoi(days); err == nil && n > 0 {
			return time.Duration(n) * 24 * time.Hour
		}
	}
	value, err := time.ParseDuration(strValue)
	if err != nil || value <= 0 {
		log.Printf("Warning: could not parse env var %s as duration. Using default value.", key)
		return defaultValue
	}
	return value
}
