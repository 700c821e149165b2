package config

import (
	"errors"  // For validation errors
	"fmt"     // For error formatting
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"time"    // For token and cache durations

	"github.com/joho/godotenv" // For loading .env files
)

// Supported database drivers
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Config holds the application configuration
type Config struct {
	AppPort          string        // Application port
	DBDriver         string        // Database driver: mysql or postgres
	DBUser           string        // Database user
	DBPassword       string        // Database password
	DBHost           string        // Database host
	DBPort           string        // Database port
	DBName           string        // Database name
	JWTAccessSecret  string        // Secret for access tokens
	JWTRefreshSecret string        // Secret for refresh tokens
	JWTAccessTTL     time.Duration // Access token lifetime
	JWTRefreshTTL    time.Duration // Refresh token lifetime
	RedisAddr        string        // Redis server address, empty disables Redis
	RedisPass        string        // Redis password
	RedisDB          int           // Redis database number
	CacheTTL         time.Duration // Lifetime of cached transaction pages
	WebhookSecret    string        // Shared secret for the webhook, empty disables it
	LogLevel         string        // Logrus level name
	IsProd           bool          // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:          getEnv("APP_PORT", "8080"),                     // Application port
		DBDriver:         getEnv("DB_DRIVER", DriverMySQL),               // Database driver
		DBUser:           os.Getenv("DB_USER"),                           // Database user
		DBPassword:       os.Getenv("DB_PASSWORD"),                       // Database password
		DBHost:           getEnv("DB_HOST", "localhost"),                 // Database host
		DBPort:           os.Getenv("DB_PORT"),                           // Database port
		DBName:           os.Getenv("DB_NAME"),                           // Database name
		JWTAccessSecret:  os.Getenv("JWT_ACCESS_SECRET"),                 // Access token secret
		JWTRefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),                // Refresh token secret
		JWTAccessTTL:     getDuration("JWT_ACCESS_TTL", 15*time.Minute),  // Access token lifetime
		JWTRefreshTTL:    getDuration("JWT_REFRESH_TTL", 7*24*time.Hour), // Refresh token lifetime
		RedisAddr:        os.Getenv("REDIS_ADDR"),                        // Redis server address
		RedisPass:        os.Getenv("REDIS_PASS"),                        // Redis password
		RedisDB:          redisDB,                                        // Redis database number
		CacheTTL:         getDuration("CACHE_TTL", 60*time.Second),       // Cache lifetime
		WebhookSecret:    os.Getenv("WEBHOOK_SECRET"),                    // Webhook shared secret
		LogLevel:         getEnv("LOG_LEVEL", "info"),                    // Log level
		IsProd:           os.Getenv("IS_PROD") == "true",                 // Is production environment
	}
}

// Validate reports configuration that would make the server unsafe or unable to start
func (c *Config) Validate() error {
	if c.DBDriver != DriverMySQL && c.DBDriver != DriverPostgres {
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.JWTAccessSecret == "" || c.JWTRefreshSecret == "" {
		return errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must be set")
	}
	// A shared secret would let refresh tokens pass as access tokens
	if c.JWTAccessSecret == c.JWTRefreshSecret {
		return errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	}
	if c.JWTAccessTTL <= 0 || c.JWTRefreshTTL <= 0 {
		return errors.New("token lifetimes must be positive")
	}
	return nil
}

// DSN builds the data source name for the configured driver
func (c *Config) DSN() string {
	if c.DBDriver == DriverPostgres {
		port := c.DBPort
		if port == "" {
			port = "5432"
		}
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			c.DBHost, c.DBUser, c.DBPassword, c.DBName, port)
	}
	port := c.DBPort
	if port == "" {
		port = "3306"
	}
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + port + ")/" + c.DBName + "?parseTime=true"
}

// getEnv returns the variable or a fallback when it is unset
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getDuration parses a Go duration, falling back on missing or malformed values
func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return d
}
