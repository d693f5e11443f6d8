package elevenlabs

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
)

// streamInit opens a stream-input session and pins the voice settings
type streamInit struct {
	Text          string        `json:"text"`
	VoiceSettings VoiceSettings `json:"voice_settings"`
}

type streamText struct {
	Text                 string `json:"text"`
	TryTriggerGeneration bool   `json:"try_trigger_generation,omitempty"`
}

type streamFrame struct {
	Audio   string `json:"audio"`
	IsFinal bool   `json:"isFinal"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// SynthesizeStream converts one text into one encoded audio buffer over the
// provider's stream-input WebSocket endpoint. The result is identical in
// shape to Synthesize: the chunks are collected and returned as a single
// buffer once the provider signals the final frame.
func (c *Client) SynthesizeStream(ctx context.Context, apiKey, voiceID string, req SynthesizeRequest) ([]byte, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, &SynthesisError{Message: "text must not be empty"}
	}
	if voiceID == "" {
		return nil, &SynthesisError{Message: "voice id must not be empty"}
	}

	wsURL := fmt.Sprintf("%s/v1/text-to-speech/%s/stream-input?model_id=%s",
		toWebsocketURL(c.baseURL), voiceID, req.ModelID)

	header := http.Header{}
	header.Set("xi-api-key", apiKey)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil {
			defer resp.Body.Close()
			if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
				return nil, &AuthError{Message: readErrorMessage(resp.Body)}
			}
		}
		return nil, &NetworkError{Err: err}
	}
	defer conn.Close()

	settings := clampSettings(req.VoiceSettings)

	// The provider expects a leading space on the init message and an empty
	// text message as end-of-stream.
	if err := conn.WriteJSON(streamInit{Text: " ", VoiceSettings: settings}); err != nil {
		return nil, &NetworkError{Err: err}
	}
	if err := conn.WriteJSON(streamText{Text: req.Text + " ", TryTriggerGeneration: true}); err != nil {
		return nil, &NetworkError{Err: err}
	}
	if err := conn.WriteJSON(streamText{Text: ""}); err != nil {
		return nil, &NetworkError{Err: err}
	}

	var audio bytes.Buffer
	for {
		var frame streamFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) && audio.Len() > 0 {
				break
			}
			return nil, &NetworkError{Err: err}
		}

		if frame.Error != "" {
			return nil, &SynthesisError{Message: fmt.Sprintf("%s: %s", frame.Error, frame.Message)}
		}

		if frame.Audio != "" {
			chunk, err := base64.StdEncoding.DecodeString(frame.Audio)
			if err != nil {
				return nil, fmt.Errorf("failed to decode audio chunk: %w", err)
			}
			audio.Write(chunk)
		}

		if frame.IsFinal {
			break
		}
	}

	if audio.Len() == 0 {
		return nil, &SynthesisError{Message: "provider returned empty audio"}
	}

	return audio.Bytes(), nil
}

func toWebsocketURL(base string) string {
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://")
	default:
		return base
	}
}
