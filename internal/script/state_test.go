package script

import (
	"testing"
)

func twoLineState() State {
	return State{Lines: []Line{NewLine("Alice", "Hello there"), NewLine("Bob", "Hi Alice")}}
}

func TestApply_Append(t *testing.T) {
	s := twoLineState()
	next, stale := Apply(s, Append{Line: NewLine("Carol", "Hey")})

	if len(next.Lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d", len(next.Lines))
	}
	if len(stale) != 0 {
		t.Errorf("Expected no stale keys on append, got %v", stale)
	}
	if len(s.Lines) != 2 {
		t.Errorf("Expected original state untouched, got %d lines", len(s.Lines))
	}
}

func TestApply_Remove(t *testing.T) {
	s := twoLineState()
	removed := s.Lines[0]

	next, stale := Apply(s, Remove{LineID: removed.ID})

	if len(next.Lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(next.Lines))
	}
	if next.Lines[0].Speaker != "Bob" {
		t.Errorf("Expected Bob to remain, got %s", next.Lines[0].Speaker)
	}
	if len(stale) != 1 || stale[0] != removed.OwnerKey() {
		t.Errorf("Expected exactly the removed line's key stale, got %v", stale)
	}
}

func TestApply_SetVoiceInvalidatesClip(t *testing.T) {
	s := twoLineState()
	target := s.Lines[1]

	next, stale := Apply(s, SetVoice{LineID: target.ID, VoiceID: "voice-9"})

	if next.Lines[1].VoiceID != "voice-9" {
		t.Errorf("Expected voice 'voice-9', got '%s'", next.Lines[1].VoiceID)
	}
	if len(stale) != 1 || stale[0] != target.OwnerKey() {
		t.Errorf("Expected the edited line's key stale, got %v", stale)
	}
}

func TestApply_SetTextInvalidatesClip(t *testing.T) {
	s := twoLineState()
	target := s.Lines[0]

	next, stale := Apply(s, SetText{LineID: target.ID, Text: "Changed"})

	if next.Lines[0].Text != "Changed" {
		t.Errorf("Expected text 'Changed', got '%s'", next.Lines[0].Text)
	}
	if len(stale) != 1 || stale[0] != target.OwnerKey() {
		t.Errorf("Expected the edited line's key stale, got %v", stale)
	}
}

func TestApply_SetSpeakerMovesClipSlot(t *testing.T) {
	s := twoLineState()
	target := s.Lines[0]
	oldKey := target.OwnerKey()

	next, stale := Apply(s, SetSpeaker{LineID: target.ID, Speaker: "Alicia"})

	if next.Lines[0].Speaker != "Alicia" {
		t.Errorf("Expected speaker 'Alicia', got '%s'", next.Lines[0].Speaker)
	}
	if next.Lines[0].OwnerKey() == oldKey {
		t.Error("Expected owner key to change with the speaker name")
	}
	if len(stale) != 1 || stale[0] != oldKey {
		t.Errorf("Expected the old key stale, got %v", stale)
	}
}

func TestApply_SetParams(t *testing.T) {
	s := twoLineState()
	target := s.Lines[0]

	next, stale := Apply(s, SetParams{
		LineID:       target.ID,
		Stability:    0.8,
		Speed:        1.5,
		Style:        0.3,
		SpeakerBoost: false,
	})

	got := next.Lines[0]
	if got.Stability != 0.8 || got.Speed != 1.5 || got.Style != 0.3 || got.SpeakerBoost {
		t.Errorf("Unexpected params after SetParams: %+v", got)
	}
	if len(stale) != 1 {
		t.Errorf("Expected 1 stale key, got %v", stale)
	}
}

func TestApply_ReplaceInvalidatesAll(t *testing.T) {
	s := twoLineState()
	next, stale := Apply(s, Replace{Lines: []Line{NewLine("Dan", "New script")}})

	if len(next.Lines) != 1 || next.Lines[0].Speaker != "Dan" {
		t.Fatalf("Unexpected state after replace: %+v", next.Lines)
	}
	if len(stale) != 2 {
		t.Errorf("Expected all previous keys stale, got %v", stale)
	}
}

func TestApply_Clear(t *testing.T) {
	s := twoLineState()
	next, stale := Apply(s, Clear{})

	if len(next.Lines) != 0 {
		t.Errorf("Expected empty script, got %d lines", len(next.Lines))
	}
	if len(stale) != 2 {
		t.Errorf("Expected all keys stale, got %v", stale)
	}
}

func TestApply_UnknownLineIDIsNoop(t *testing.T) {
	s := twoLineState()
	next, stale := Apply(s, SetText{LineID: "nope", Text: "x"})

	if len(stale) != 0 {
		t.Errorf("Expected no stale keys, got %v", stale)
	}
	for i := range s.Lines {
		if next.Lines[i] != s.Lines[i] {
			t.Errorf("Expected line %d unchanged", i)
		}
	}
}

func TestLine_Validate(t *testing.T) {
	good := NewLine("Alice", "Hello")
	if err := good.Validate(); err != nil {
		t.Errorf("Expected valid line, got %v", err)
	}

	bad := NewLine("", "Hello")
	if err := bad.Validate(); err == nil {
		t.Error("Expected error for empty speaker")
	}

	fast := NewLine("Alice", "Hello")
	fast.Speed = 2.5
	if err := fast.Validate(); err == nil {
		t.Error("Expected error for speed out of range")
	}
}
