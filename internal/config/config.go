package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Storage    StorageConfig
	Generation GenerationConfig
	JWT        JWTConfig
	CORS       CORSConfig
	Flights    FlightsConfig
}

type ServerConfig struct {
	Port string
}

// StorageConfig selects and configures the itinerary store
type StorageConfig struct {
	Driver             string // "postgres" | "mongo"
	PostgresURL        string
	PostgresDriverName string // "pgx" | "postgres" (lib/pq)
	MongoURI           string
	MongoDatabase      string
}

// GenerationConfig configures the generative text service
type GenerationConfig struct {
	Provider     string // "gemini" | "openai"
	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string
	Timeout      time.Duration
}

type JWTConfig struct {
	Secret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// FlightsConfig holds the Amadeus client credentials
type FlightsConfig struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	CacheTTL     time.Duration
	Timeout      time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load("../.env"); err != nil {
		if err := godotenv.Load(".env"); err != nil {
			log.Printf("Warning: .env file not found: %v", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Storage: StorageConfig{
			Driver:             strings.ToLower(getEnv("STORAGE_DRIVER", "postgres")),
			PostgresURL:        os.Getenv("POSTGRES_URL"),
			PostgresDriverName: getEnv("POSTGRES_DRIVER_NAME", "pgx"),
			MongoURI:           getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			MongoDatabase:      getEnv("MONGODB_DATABASE", "travel_ai"),
		},
		Generation: GenerationConfig{
			Provider:     strings.ToLower(getEnv("GENERATION_PROVIDER", "gemini")),
			GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
			GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
			OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			Timeout:      getDurationEnv("GENERATION_TIMEOUT", 60*time.Second),
		},
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getSliceEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Flights: FlightsConfig{
			ClientID:     os.Getenv("AMADEUS_CLIENT_ID"),
			ClientSecret: os.Getenv("AMADEUS_CLIENT_SECRET"),
			BaseURL:      strings.TrimRight(getEnv("AMADEUS_BASE_URL", "https://test.api.amadeus.com"), "/"),
			CacheTTL:     getDurationEnv("FLIGHT_CACHE_TTL", 10*time.Minute),
			Timeout:      getDurationEnv("FLIGHT_TIMEOUT", 15*time.Second),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "postgres":
		if c.Storage.PostgresURL == "" {
			return fmt.Errorf("POSTGRES_URL is required when STORAGE_DRIVER=postgres")
		}
		if c.Storage.PostgresDriverName != "pgx" && c.Storage.PostgresDriverName != "postgres" {
			return fmt.Errorf("unsupported POSTGRES_DRIVER_NAME: %s. Use 'pgx' or 'postgres'", c.Storage.PostgresDriverName)
		}
	case "mongo":
		if c.Storage.MongoURI == "" {
			return fmt.Errorf("MONGODB_URI is required when STORAGE_DRIVER=mongo")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER: %s. Use 'postgres' or 'mongo'", c.Storage.Driver)
	}

	switch c.Generation.Provider {
	case "gemini":
		if c.Generation.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when using Gemini provider")
		}
	case "openai":
		if c.Generation.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when using OpenAI provider")
		}
	default:
		return fmt.Errorf("unsupported generation provider: %s. Use 'openai' or 'gemini'", c.Generation.Provider)
	}

	if c.Generation.Timeout <= 0 {
		return fmt.Errorf("GENERATION_TIMEOUT must be positive")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}

// FlightsEnabled reports whether Amadeus credentials are present
func (c *Config) FlightsEnabled() bool {
	return c.Flights.ClientID != "" && c.Flights.ClientSecret != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Printf("Warning: invalid duration for %s: %q, using %s", key, value, defaultValue)
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
