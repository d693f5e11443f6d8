package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.elevenlabs.io"

// Client talks to the ElevenLabs TTS API. It carries no credential: the
// API key is an argument on every call so the application state owns it.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new ElevenLabs client
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ListVoices fetches the voices available to the given credential.
// Fails with *AuthError on a rejected credential, *NetworkError on
// transport failure. No retries; the caller decides.
func (c *Client) ListVoices(ctx context.Context, apiKey string) ([]Voice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("xi-api-key", apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &AuthError{Message: readErrorMessage(resp.Body)}
	}

	var payload voicesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode voices response: %w", err)
	}

	return payload.Voices, nil
}

// Synthesize converts one text into one encoded (MP3) audio buffer.
// Stability and style are clamped to [0,1] and speed to [0.5,2.0] per the
// provider's contract. Fails with *AuthError, *SynthesisError carrying the
// provider's message, or *NetworkError. No automatic retry: a failure
// aborts this line only and the caller keeps already completed clips.
func (c *Client) Synthesize(ctx context.Context, apiKey, voiceID string, req SynthesizeRequest) ([]byte, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, &SynthesisError{Message: "text must not be empty"}
	}
	if voiceID == "" {
		return nil, &SynthesisError{Message: "voice id must not be empty"}
	}

	req.VoiceSettings = clampSettings(req.VoiceSettings)

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", c.baseURL, voiceID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "audio/mpeg")
	httpReq.Header.Set("xi-api-key", apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &AuthError{Message: readErrorMessage(resp.Body)}
	case resp.StatusCode != http.StatusOK:
		return nil, &SynthesisError{
			StatusCode: resp.StatusCode,
			Message:    readErrorMessage(resp.Body),
		}
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	if len(audio) == 0 {
		return nil, &SynthesisError{StatusCode: resp.StatusCode, Message: "provider returned empty audio"}
	}

	return audio, nil
}

// HealthCheck validates that the client is usable with the given credential
func (c *Client) HealthCheck(ctx context.Context, apiKey string) (bool, error) {
	if apiKey == "" {
		return false, fmt.Errorf("no credential configured")
	}
	_, err := c.ListVoices(ctx, apiKey)
	if err != nil {
		return false, err
	}
	return true, nil
}

func clampSettings(s VoiceSettings) VoiceSettings {
	s.Stability = clamp(s.Stability, 0, 1)
	s.Style = clamp(s.Style, 0, 1)
	s.SimilarityBoost = clamp(s.SimilarityBoost, 0, 1)
	if s.Speed != 0 {
		s.Speed = clamp(s.Speed, 0.5, 2.0)
	}
	return s
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// readErrorMessage extracts the provider's error message from a non-success
// response body; falls back to the raw body when it is not the usual shape.
func readErrorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var payload errorResponse
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Detail.Message != "" {
		return payload.Detail.Message
	}

	return strings.TrimSpace(string(raw))
}
