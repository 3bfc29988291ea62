package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("POSTGRES_URL", "postgres://localhost/test")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, "pgx", cfg.Storage.PostgresDriverName)
	assert.Equal(t, "gemini", cfg.Generation.Provider)
	assert.Equal(t, "gemini-1.5-flash", cfg.Generation.GeminiModel)
	assert.Equal(t, 60*time.Second, cfg.Generation.Timeout)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.FlightsEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "MONGO")
	t.Setenv("GENERATION_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("GENERATION_TIMEOUT", "90s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("AMADEUS_CLIENT_ID", "id")
	t.Setenv("AMADEUS_CLIENT_SECRET", "secret")
	t.Setenv("AMADEUS_BASE_URL", "https://api.amadeus.com/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mongo", cfg.Storage.Driver)
	assert.Equal(t, 90*time.Second, cfg.Generation.Timeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "https://api.amadeus.com", cfg.Flights.BaseURL)
	assert.True(t, cfg.FlightsEnabled())
}

func TestValidate_Rejects(t *testing.T) {
	base := func() *Config {
		return &Config{
			Storage:    StorageConfig{Driver: "postgres", PostgresURL: "dsn", PostgresDriverName: "pgx"},
			Generation: GenerationConfig{Provider: "gemini", GeminiAPIKey: "k", Timeout: time.Second},
			JWT:        JWTConfig{Secret: "s"},
		}
	}
	require.NoError(t, base().Validate())

	cases := map[string]func(c *Config){
		"unknown storage":  func(c *Config) { c.Storage.Driver = "sqlite" },
		"missing dsn":      func(c *Config) { c.Storage.PostgresURL = "" },
		"bad sql driver":   func(c *Config) { c.Storage.PostgresDriverName = "mysql" },
		"unknown provider": func(c *Config) { c.Generation.Provider = "claude" },
		"missing key":      func(c *Config) { c.Generation.GeminiAPIKey = "" },
		"zero timeout":     func(c *Config) { c.Generation.Timeout = 0 },
		"missing secret":   func(c *Config) { c.JWT.Secret = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := base()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
