package elevenlabs

import "fmt"

// Voice is one voice offered by the provider. Read-only reference data,
// fetched once per credential and never mutated locally.
type Voice struct {
	VoiceID     string            `json:"voice_id"`
	Name        string            `json:"name"`
	PreviewURL  string            `json:"preview_url"`
	Category    string            `json:"category"`
	Labels      map[string]string `json:"labels,omitempty"`
	Description string            `json:"description,omitempty"`
}

type voicesResponse struct {
	Voices []Voice `json:"voices"`
}

// VoiceSettings are the per-request synthesis parameters.
// Stability and Style live in [0,1], Speed in [0.5,2.0]; Synthesize clamps
// out-of-range values to the provider's contract before sending.
type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
	Speed           float64 `json:"speed,omitempty"`
}

// SynthesizeRequest is the payload for one text-to-speech call
type SynthesizeRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id,omitempty"`
	VoiceSettings VoiceSettings `json:"voice_settings"`
}

type errorDetail struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type errorResponse struct {
	Detail errorDetail `json:"detail"`
}

// AuthError means the provider rejected the credential
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "elevenlabs: credential rejected"
	}
	return fmt.Sprintf("elevenlabs: credential rejected: %s", e.Message)
}

// NetworkError means the request never produced a provider response
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("elevenlabs: network failure: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// SynthesisError means the provider rejected a specific request
// (quota exceeded, invalid voice, text too long, bad parameters).
type SynthesisError struct {
	StatusCode int
	Message    string
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("elevenlabs: synthesis rejected (status %d): %s", e.StatusCode, e.Message)
}
