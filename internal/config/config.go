package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the scriptcast CLI
type Config struct {
	// ElevenLabs TTS API configuration. The API key is optional here: the
	// CLI falls back to the stored credential when the variable is unset,
	// and the key is always passed explicitly into the synthesis client.
	ElevenLabsAPIKey string `envconfig:"ELEVENLABS_API_KEY" default:""`
	ElevenLabsURL    string `envconfig:"ELEVENLABS_URL" default:"https://api.elevenlabs.io"`
	ModelID          string `envconfig:"ELEVENLABS_MODEL_ID" default:"eleven_multilingual_v2"`

	// Default per-line synthesis parameters. Individual script lines
	// override these.
	DefaultVoiceID   string  `envconfig:"DEFAULT_VOICE_ID" default:""`
	DefaultStability float64 `envconfig:"DEFAULT_STABILITY" default:"0.5"` // [0,1]
	DefaultSpeed     float64 `envconfig:"DEFAULT_SPEED" default:"1.0"`     // [0.5,2.0]
	DefaultStyle     float64 `envconfig:"DEFAULT_STYLE" default:"0.0"`     // [0,1]
	SpeakerBoost     bool    `envconfig:"SPEAKER_BOOST" default:"true"`

	// HTTP configuration
	RequestTimeout int `envconfig:"REQUEST_TIMEOUT" default:"60"` // seconds

	// Credential store configuration
	CredentialFile string `envconfig:"CREDENTIAL_FILE" default:""` // defaults to ~/.config/scriptcast/credentials.yaml

	// Observability configuration
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`        // Log level: debug, info, warn, error
	LogPretty      bool   `envconfig:"LOG_PRETTY" default:"false"`      // Pretty print logs (for development)
	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"false"` // Enable Prometheus metrics listener
	MetricsPort    string `envconfig:"METRICS_PORT" default:"9090"`     // Port for /metrics, /health, /ready
}

// Load reads configuration from environment variables.
// It first attempts to load from .env file if it exists, then from environment
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	return LoadFromEnv()
}

// LoadFromEnv loads configuration directly from environment variables
// without attempting to load .env file
func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.DefaultStability < 0 || cfg.DefaultStability > 1 {
		return nil, fmt.Errorf("DEFAULT_STABILITY must be in [0,1], got %f", cfg.DefaultStability)
	}
	if cfg.DefaultStyle < 0 || cfg.DefaultStyle > 1 {
		return nil, fmt.Errorf("DEFAULT_STYLE must be in [0,1], got %f", cfg.DefaultStyle)
	}
	if cfg.DefaultSpeed < 0.5 || cfg.DefaultSpeed > 2.0 {
		return nil, fmt.Errorf("DEFAULT_SPEED must be in [0.5,2.0], got %f", cfg.DefaultSpeed)
	}

	return &cfg, nil
}

// GetEnv returns the value of an environment variable or a default value
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
