package audio

import (
	"errors"
)

// ErrNoClips is returned when there is nothing to concatenate
var ErrNoClips = errors.New("audio: no clips to merge")

// Concat joins decoded clips back-to-back in the given order. The output
// length is the exact sum of the input lengths and each clip lands at the
// offset equal to the total length of the clips before it.
//
// The output sample rate is taken from the first clip. Later clips with a
// different native rate are appended as-is without resampling; the caller
// is expected to surface a warning for the audible artifact at the
// boundary.
func Concat(clips []PCM) (PCM, error) {
	if len(clips) == 0 {
		return PCM{}, ErrNoClips
	}

	total := 0
	for _, clip := range clips {
		total += len(clip.Samples)
	}

	out := PCM{
		Samples:    make([]float32, total),
		SampleRate: clips[0].SampleRate,
	}

	offset := 0
	for _, clip := range clips {
		copy(out.Samples[offset:], clip.Samples)
		offset += len(clip.Samples)
	}

	return out, nil
}

// RateMismatch reports the indexes of clips whose native sample rate
// differs from the first clip's.
func RateMismatch(clips []PCM) []int {
	if len(clips) == 0 {
		return nil
	}
	var mismatched []int
	for i, clip := range clips[1:] {
		if clip.SampleRate != clips[0].SampleRate {
			mismatched = append(mismatched, i+1)
		}
	}
	return mismatched
}
