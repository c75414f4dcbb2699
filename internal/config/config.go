package config

import "os"

// Config collects process configuration from the environment. Call
// godotenv.Load before Load in mains that support .env files.
type Config struct {
	Port        string
	Environment string

	LogLevel string
	LogFile  string

	// DatabaseURL takes precedence; the DB_* components are the fallback.
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	RedisHost     string
	RedisPort     string
	RedisPassword string
}

// Load reads configuration from environment variables with development
// defaults.
func Load() *Config {
	return &Config{
		Port:        getEnvOrDefault("PORT", "8787"),
		Environment: getEnvOrDefault("ENVIRONMENT", "development"),

		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		LogFile:  getEnvOrDefault("LOG_FILE", "gratia.log"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      getEnvOrDefault("DB_HOST", "localhost"),
		DBPort:      getEnvOrDefault("DB_PORT", "5432"),
		DBUser:      getEnvOrDefault("DB_USER", "postgres"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      getEnvOrDefault("DB_NAME", "gratia"),
		DBSSLMode:   getEnvOrDefault("DB_SSLMODE", "disable"),

		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPort:     getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
	}
}

// RedisEnabled reports whether a Redis cache is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
