// Package audio is the merge engine: it decodes encoded clips into raw
// sample buffers, concatenates them in script order and serializes the
// result as a single uncompressed WAV file.
package audio

import (
	"bytes"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
)

// PCM is a decoded clip: mono floating-point samples in [-1.0, 1.0]
type PCM struct {
	Samples    []float32
	SampleRate int
}

// DecodeError means a clip's bytes are not valid audio
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("audio: decode failed: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// DecodeMP3 decodes one MP3 clip into mono float samples. The decoder
// emits 16-bit little-endian stereo regardless of the source channel
// layout; the left channel is kept as the representative one, no mixing.
func DecodeMP3(data []byte) (PCM, error) {
	decoder, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return PCM{}, &DecodeError{Err: err}
	}

	raw, err := io.ReadAll(decoder)
	if err != nil {
		return PCM{}, &DecodeError{Err: err}
	}

	return PCM{
		Samples:    pcm16ToFloat32(raw, 2),
		SampleRate: decoder.SampleRate(),
	}, nil
}

// pcm16ToFloat32 converts interleaved 16-bit little-endian PCM to float
// samples in [-1.0, 1.0], keeping only the first channel.
func pcm16ToFloat32(pcm []byte, channels int) []float32 {
	if channels < 1 {
		channels = 1
	}
	frameSize := channels * 2
	frames := len(pcm) / frameSize

	samples := make([]float32, frames)
	for i := 0; i < frames; i++ {
		offset := i * frameSize
		sample := int16(pcm[offset]) | int16(pcm[offset+1])<<8
		samples[i] = float32(sample) / 32768.0
	}
	return samples
}
