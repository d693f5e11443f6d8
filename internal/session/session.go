// Package session orchestrates one multi-speaker synthesis run: it owns the
// script state, routes commands through the reducer, drives sequential
// per-line synthesis against the provider and runs the merge engine over
// the collected clips.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/scriptcast/scriptcast/internal/audio"
	"github.com/scriptcast/scriptcast/internal/clipstore"
	"github.com/scriptcast/scriptcast/internal/elevenlabs"
	"github.com/scriptcast/scriptcast/internal/observability"
	"github.com/scriptcast/scriptcast/internal/script"
)

// Provider default when a line does not carry its own similarity boost
const defaultSimilarityBoost = 0.75

// Synthesizer is the slice of the provider client the session needs.
// *elevenlabs.Client satisfies it; tests substitute a fake.
type Synthesizer interface {
	Synthesize(ctx context.Context, apiKey, voiceID string, req elevenlabs.SynthesizeRequest) ([]byte, error)
}

// DecodeFunc turns one encoded clip into raw samples
type DecodeFunc func(data []byte) (audio.PCM, error)

// LineResult captures the outcome of one line's synthesis
type LineResult struct {
	LineID   string
	Speaker  string
	OwnerKey string
	Skipped  bool // line already had a live clip
	Bytes    int
	Err      error
}

// Session holds the script, its clips and the collaborators needed to turn
// them into one merged audio file.
type Session struct {
	mu      sync.Mutex
	state   script.State
	clips   *clipstore.Store
	synth   Synthesizer
	decode  DecodeFunc
	modelID string
	logger  zerolog.Logger
	metrics *observability.SessionMetrics
}

// New creates an empty session. A nil decode falls back to the MP3 decoder.
func New(synth Synthesizer, modelID string, decode DecodeFunc) *Session {
	if decode == nil {
		decode = audio.DecodeMP3
	}
	id := observability.NewSessionID()
	return &Session{
		clips:   clipstore.New(),
		synth:   synth,
		decode:  decode,
		modelID: modelID,
		logger:  observability.WithSession(id),
		metrics: observability.NewSessionMetrics(id),
	}
}

// Script returns a copy of the current script state
func (s *Session) Script() script.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]script.Line, len(s.state.Lines))
	copy(lines, s.state.Lines)
	return script.State{Lines: lines}
}

// Apply runs one command through the reducer and releases the clips the
// reducer reports as stale.
func (s *Session) Apply(cmd script.Command) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, stale := script.Apply(s.state, cmd)
	s.state = next

	for _, key := range stale {
		if s.clips.Remove(key) {
			s.logger.Debug().Str("owner_key", key).Msg("Released stale clip")
		}
	}
	observability.SetLiveClips(s.clips.Len())
}

// HasClip reports whether the line currently owns a live clip
func (s *Session) HasClip(line script.Line) bool {
	_, ok := s.clips.Get(line.OwnerKey())
	return ok
}

// SynthesizeAll synthesizes every line that has no live clip yet, strictly
// sequentially in script order with one request in flight. The first
// failure stops further calls; clips already produced are kept and the
// failing line's previous clip, if any, stays untouched. The returned
// results capture the per-line outcome; the error is the first failure.
func (s *Session) SynthesizeAll(ctx context.Context, apiKey string) ([]LineResult, error) {
	lines := s.Script().Lines
	results := make([]LineResult, 0, len(lines))

	for i, line := range lines {
		result := LineResult{LineID: line.ID, Speaker: line.Speaker, OwnerKey: line.OwnerKey()}

		if s.HasClip(line) {
			result.Skipped = true
			results = append(results, result)
			continue
		}

		n, err := s.synthesizeLine(ctx, apiKey, i, line)
		result.Bytes = n
		result.Err = err
		results = append(results, result)

		if err != nil {
			// Stop issuing further synthesis calls
			return results, err
		}
	}

	return results, nil
}

// Regenerate re-synthesizes one line, superseding its previous clip on
// success and leaving it untouched on failure.
func (s *Session) Regenerate(ctx context.Context, apiKey, lineID string) error {
	lines := s.Script().Lines
	for i, line := range lines {
		if line.ID == lineID {
			_, err := s.synthesizeLine(ctx, apiKey, i, line)
			return err
		}
	}
	return fmt.Errorf("session: unknown line %q", lineID)
}

func (s *Session) synthesizeLine(ctx context.Context, apiKey string, index int, line script.Line) (int, error) {
	if err := line.Validate(); err != nil {
		return 0, &LineError{Speaker: line.Speaker, Index: index, Err: err}
	}

	s.metrics.RecordSynthesisStart()

	encoded, err := s.synth.Synthesize(ctx, apiKey, line.VoiceID, elevenlabs.SynthesizeRequest{
		Text:    line.Text,
		ModelID: s.modelID,
		VoiceSettings: elevenlabs.VoiceSettings{
			Stability:       line.Stability,
			SimilarityBoost: defaultSimilarityBoost,
			Style:           line.Style,
			UseSpeakerBoost: line.SpeakerBoost,
			Speed:           line.Speed,
		},
	})

	s.metrics.RecordSynthesisEnd(err == nil)

	if err != nil {
		s.metrics.RecordError("synthesis", "session")
		s.logger.Error().Err(err).Int("line", index+1).Str("speaker", line.Speaker).Msg("Synthesis failed")
		return 0, &LineError{Speaker: line.Speaker, Index: index, Err: err}
	}

	superseded := s.clips.Put(line.OwnerKey(), encoded)
	observability.SetLiveClips(s.clips.Len())
	s.metrics.RecordAudioBytes("encoded", int64(len(encoded)))

	s.logger.Info().
		Int("line", index+1).
		Str("speaker", line.Speaker).
		Int("bytes", len(encoded)).
		Bool("superseded", superseded).
		Msg("Line synthesized")

	return len(encoded), nil
}

// Merge produces one uncompressed WAV buffer from the current script's
// clips. Every line must own a live clip; otherwise it fails with
// *IncompleteScriptError naming the missing speakers and produces nothing.
// Any decode or encode failure aborts the whole merge: no partial file.
func (s *Session) Merge() ([]byte, error) {
	lines := s.Script().Lines

	s.metrics.RecordMergeStart()
	out, err := s.merge(lines)
	s.metrics.RecordMergeEnd(err == nil)

	if err != nil {
		s.metrics.RecordError("merge", "session")
		return nil, err
	}
	return out, nil
}

func (s *Session) merge(lines []script.Line) ([]byte, error) {
	if len(lines) == 0 {
		return nil, &IncompleteScriptError{}
	}

	var missing []string
	ordered := make([]*clipstore.Clip, 0, len(lines))
	for _, line := range lines {
		clip, ok := s.clips.Get(line.OwnerKey())
		if !ok {
			missing = append(missing, line.Speaker)
			continue
		}
		ordered = append(ordered, clip)
	}
	if len(missing) > 0 {
		return nil, &IncompleteScriptError{Missing: missing}
	}

	decoded := make([]audio.PCM, len(ordered))
	for i, clip := range ordered {
		pcm, err := s.decode(clip.Audio)
		if err != nil {
			return nil, &LineError{Speaker: lines[i].Speaker, Index: i, Err: err}
		}
		decoded[i] = pcm
		s.metrics.RecordAudioBytes("decoded", int64(len(pcm.Samples)*2))
	}

	// Mismatched native rates are concatenated as-is; the boundary artifact
	// is accepted, but worth a warning.
	for _, idx := range audio.RateMismatch(decoded) {
		s.logger.Warn().
			Int("line", idx+1).
			Str("speaker", lines[idx].Speaker).
			Int("rate", decoded[idx].SampleRate).
			Int("output_rate", decoded[0].SampleRate).
			Msg("Clip sample rate differs from output rate, appending without resampling")
	}

	merged, err := audio.Concat(decoded)
	if err != nil {
		return nil, err
	}

	out, err := audio.EncodeWAV(merged)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordAudioBytes("output", int64(len(out)))
	s.logger.Info().
		Int("lines", len(lines)).
		Int("samples", len(merged.Samples)).
		Int("rate", merged.SampleRate).
		Int("bytes", len(out)).
		Msg("Merge complete")

	return out, nil
}

// Reset releases every clip and clears the script
func (s *Session) Reset() {
	s.Apply(script.Clear{})
}
