// Package clipstore holds synthesized audio clips keyed by their owning
// script line. At most one live clip exists per owner key; superseded
// buffers are released immediately so repeated regenerate/remove cycles do
// not accumulate audio in memory.
package clipstore

import (
	"sync"
)

// Clip is one synthesized, still-encoded audio buffer
type Clip struct {
	OwnerKey string
	Audio    []byte
}

// Store is a thread-safe map from owner key to clip. Synthesis writes to it
// sequentially, but removal and reset may race with reads, so every access
// is guarded.
type Store struct {
	mu    sync.RWMutex
	clips map[string]*Clip
}

// New creates an empty store
func New() *Store {
	return &Store{clips: make(map[string]*Clip)}
}

// Put stores a clip for the given owner key, releasing any previous clip
// for that key. Returns true when a previous clip was superseded.
func (s *Store) Put(ownerKey string, audio []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, existed := s.clips[ownerKey]
	if existed {
		old.Audio = nil
	}
	s.clips[ownerKey] = &Clip{OwnerKey: ownerKey, Audio: audio}
	return existed
}

// Get returns the live clip for the owner key, if any
func (s *Store) Get(ownerKey string) (*Clip, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clip, ok := s.clips[ownerKey]
	return clip, ok
}

// Remove releases the clip for the owner key. Removing an absent key is a
// no-op. Returns true when a clip was actually released.
func (s *Store) Remove(ownerKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	clip, ok := s.clips[ownerKey]
	if !ok {
		return false
	}
	clip.Audio = nil
	delete(s.clips, ownerKey)
	return true
}

// Reset releases every clip
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, clip := range s.clips {
		clip.Audio = nil
		delete(s.clips, key)
	}
}

// Keys returns the owner keys with a live clip
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.clips))
	for key := range s.clips {
		keys = append(keys, key)
	}
	return keys
}

// Len returns the number of live clips
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clips)
}
