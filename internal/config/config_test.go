package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("ELEVENLABS_API_KEY")
	os.Unsetenv("LOG_LEVEL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.ElevenLabsURL != "https://api.elevenlabs.io" {
		t.Errorf("Expected default ElevenLabsURL 'https://api.elevenlabs.io', got '%s'", cfg.ElevenLabsURL)
	}

	if cfg.ModelID != "eleven_multilingual_v2" {
		t.Errorf("Expected default ModelID 'eleven_multilingual_v2', got '%s'", cfg.ModelID)
	}

	if cfg.DefaultStability != 0.5 {
		t.Errorf("Expected default DefaultStability 0.5, got %f", cfg.DefaultStability)
	}

	if cfg.DefaultSpeed != 1.0 {
		t.Errorf("Expected default DefaultSpeed 1.0, got %f", cfg.DefaultSpeed)
	}

	if cfg.DefaultStyle != 0.0 {
		t.Errorf("Expected default DefaultStyle 0.0, got %f", cfg.DefaultStyle)
	}

	if !cfg.SpeakerBoost {
		t.Error("Expected default SpeakerBoost true, got false")
	}

	if cfg.RequestTimeout != 60 {
		t.Errorf("Expected default RequestTimeout 60, got %d", cfg.RequestTimeout)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected default LogLevel 'info', got '%s'", cfg.LogLevel)
	}

	if cfg.LogPretty {
		t.Error("Expected default LogPretty false, got true")
	}

	if cfg.MetricsEnabled {
		t.Error("Expected default MetricsEnabled false, got true")
	}

	if cfg.MetricsPort != "9090" {
		t.Errorf("Expected default MetricsPort '9090', got '%s'", cfg.MetricsPort)
	}
}

func TestLoad_Overrides(t *testing.T) {
	os.Setenv("ELEVENLABS_API_KEY", "test-xi-key")
	os.Setenv("DEFAULT_VOICE_ID", "test-voice")
	defer os.Unsetenv("ELEVENLABS_API_KEY")
	defer os.Unsetenv("DEFAULT_VOICE_ID")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.ElevenLabsAPIKey != "test-xi-key" {
		t.Errorf("Expected ElevenLabsAPIKey 'test-xi-key', got '%s'", cfg.ElevenLabsAPIKey)
	}

	if cfg.DefaultVoiceID != "test-voice" {
		t.Errorf("Expected DefaultVoiceID 'test-voice', got '%s'", cfg.DefaultVoiceID)
	}
}

func TestLoad_InvalidRanges(t *testing.T) {
	cases := map[string]string{
		"DEFAULT_STABILITY": "1.5",
		"DEFAULT_STYLE":     "-0.1",
		"DEFAULT_SPEED":     "3.0",
	}

	for key, value := range cases {
		os.Setenv(key, value)

		_, err := LoadFromEnv()
		if err == nil {
			t.Errorf("Expected error for %s=%s, got none", key, value)
		}

		os.Unsetenv(key)
	}
}

func TestGetEnv(t *testing.T) {
	os.Setenv("TEST_KEY", "test-value")
	defer os.Unsetenv("TEST_KEY")

	value := GetEnv("TEST_KEY", "default")
	if value != "test-value" {
		t.Errorf("Expected 'test-value', got '%s'", value)
	}

	value = GetEnv("NON_EXISTENT_KEY", "default")
	if value != "default" {
		t.Errorf("Expected 'default', got '%s'", value)
	}
}
