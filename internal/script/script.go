// Package script holds the multi-speaker script model: ordered dialogue
// lines, the speaker/text file parser and the command reducer that mutates
// script state.
package script

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Line is one dialogue entry in a script. Speaker names need not be unique;
// the line's identity is its generated ID.
type Line struct {
	ID           string
	Speaker      string
	Text         string
	VoiceID      string
	Stability    float64 // [0,1]
	Speed        float64 // [0.5,2.0]
	Style        float64 // [0,1]
	SpeakerBoost bool
}

// NewLine creates a line with a fresh identity
func NewLine(speaker, text string) Line {
	return Line{
		ID:           uuid.New().String(),
		Speaker:      speaker,
		Text:         text,
		Stability:    0.5,
		Speed:        1.0,
		SpeakerBoost: true,
	}
}

// OwnerKey identifies the clip slot belonging to this line. It combines the
// speaker name with the line's stable ID, so duplicate speaker names,
// reordering and removal never make two lines share a slot.
func (l Line) OwnerKey() string {
	return l.Speaker + "#" + l.ID
}

// Validate checks the line is synthesizable
func (l Line) Validate() error {
	if strings.TrimSpace(l.Speaker) == "" {
		return fmt.Errorf("speaker must not be empty")
	}
	if strings.TrimSpace(l.Text) == "" {
		return fmt.Errorf("line %q has no text", l.Speaker)
	}
	if l.Stability < 0 || l.Stability > 1 {
		return fmt.Errorf("line %q: stability %f out of [0,1]", l.Speaker, l.Stability)
	}
	if l.Style < 0 || l.Style > 1 {
		return fmt.Errorf("line %q: style %f out of [0,1]", l.Speaker, l.Style)
	}
	if l.Speed < 0.5 || l.Speed > 2.0 {
		return fmt.Errorf("line %q: speed %f out of [0.5,2.0]", l.Speaker, l.Speed)
	}
	return nil
}
