package clipstore

import (
	"testing"
)

func TestPutAndGet(t *testing.T) {
	s := New()

	superseded := s.Put("Alice#1", []byte{1, 2, 3})
	if superseded {
		t.Error("Expected no superseded clip on first put")
	}

	clip, ok := s.Get("Alice#1")
	if !ok {
		t.Fatal("Expected clip for Alice#1")
	}
	if len(clip.Audio) != 3 {
		t.Errorf("Expected 3 audio bytes, got %d", len(clip.Audio))
	}
}

func TestPut_SupersedesExactlyOne(t *testing.T) {
	s := New()
	s.Put("Alice#1", []byte{1})
	s.Put("Bob#2", []byte{2})

	old, _ := s.Get("Alice#1")

	superseded := s.Put("Alice#1", []byte{9, 9})
	if !superseded {
		t.Error("Expected regeneration to supersede the previous clip")
	}
	if old.Audio != nil {
		t.Error("Expected the superseded clip's buffer to be released")
	}

	// The other owner's clip is untouched
	other, ok := s.Get("Bob#2")
	if !ok || len(other.Audio) != 1 {
		t.Errorf("Expected Bob#2 untouched, got %+v ok=%v", other, ok)
	}

	fresh, _ := s.Get("Alice#1")
	if len(fresh.Audio) != 2 {
		t.Errorf("Expected regenerated clip with 2 bytes, got %d", len(fresh.Audio))
	}

	if s.Len() != 2 {
		t.Errorf("Expected 2 live clips, got %d", s.Len())
	}
}

func TestRemove_IsolatedToOwnKey(t *testing.T) {
	s := New()
	s.Put("Alice#1", []byte{1})
	s.Put("Bob#2", []byte{2})

	clip, _ := s.Get("Alice#1")

	if !s.Remove("Alice#1") {
		t.Error("Expected Remove to report a released clip")
	}
	if clip.Audio != nil {
		t.Error("Expected the removed clip's buffer to be released")
	}

	if _, ok := s.Get("Alice#1"); ok {
		t.Error("Expected Alice#1 gone")
	}
	if _, ok := s.Get("Bob#2"); !ok {
		t.Error("Expected Bob#2 untouched")
	}
}

func TestRemove_AbsentKey(t *testing.T) {
	s := New()
	if s.Remove("nope") {
		t.Error("Expected Remove of absent key to report false")
	}
}

func TestReset(t *testing.T) {
	s := New()
	s.Put("Alice#1", []byte{1})
	s.Put("Bob#2", []byte{2})

	s.Reset()

	if s.Len() != 0 {
		t.Errorf("Expected empty store after reset, got %d clips", s.Len())
	}
}

func TestKeys(t *testing.T) {
	s := New()
	s.Put("Alice#1", []byte{1})
	s.Put("Bob#2", []byte{2})

	keys := s.Keys()
	if len(keys) != 2 {
		t.Fatalf("Expected 2 keys, got %d", len(keys))
	}

	seen := map[string]bool{}
	for _, k := range keys {
		seen[k] = true
	}
	if !seen["Alice#1"] || !seen["Bob#2"] {
		t.Errorf("Unexpected key set: %v", keys)
	}
}
