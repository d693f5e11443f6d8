package audio

import (
	"encoding/binary"
	"fmt"
)

// WAV format constants
const (
	headerSize    = 44
	formatPCM     = 1
	numChannels   = 1 // output is always mono
	bitsPerSample = 16
)

// EncodeError means the output could not be serialized
type EncodeError struct {
	Reason string
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("audio: encode failed: %s", e.Reason)
}

// EncodeWAV serializes mono float samples as a complete 16-bit PCM WAV
// file: a 44-byte canonical header followed by the sample data. Samples are
// clamped to [-1.0, 1.0]; negative values scale by 32768 and non-negative
// by 32767 so +1.0 cannot overflow the signed 16-bit range.
func EncodeWAV(pcm PCM) ([]byte, error) {
	if len(pcm.Samples) == 0 {
		return nil, &EncodeError{Reason: "no samples"}
	}
	if pcm.SampleRate <= 0 {
		return nil, &EncodeError{Reason: fmt.Sprintf("invalid sample rate %d", pcm.SampleRate)}
	}

	dataSize := len(pcm.Samples) * bitsPerSample / 8
	byteRate := pcm.SampleRate * numChannels * bitsPerSample / 8
	blockAlign := numChannels * bitsPerSample / 8

	out := make([]byte, headerSize+dataSize)

	// RIFF chunk
	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(36+dataSize))
	copy(out[8:12], "WAVE")

	// fmt subchunk
	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16)
	binary.LittleEndian.PutUint16(out[20:22], formatPCM)
	binary.LittleEndian.PutUint16(out[22:24], numChannels)
	binary.LittleEndian.PutUint32(out[24:28], uint32(pcm.SampleRate))
	binary.LittleEndian.PutUint32(out[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:36], bitsPerSample)

	// data subchunk
	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], uint32(dataSize))

	for i, sample := range pcm.Samples {
		binary.LittleEndian.PutUint16(out[headerSize+i*2:], uint16(floatToPCM16(sample)))
	}

	return out, nil
}

// floatToPCM16 converts one float sample to signed 16-bit with symmetric
// clamping to [-1.0, 1.0] before scaling.
func floatToPCM16(s float32) int16 {
	if s < -1.0 {
		s = -1.0
	}
	if s > 1.0 {
		s = 1.0
	}
	if s < 0 {
		return int16(s * 32768)
	}
	return int16(s * 32767)
}
