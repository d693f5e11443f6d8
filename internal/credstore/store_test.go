package credstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "scriptcast", "credentials.yaml"))
}

func TestSetAndGet(t *testing.T) {
	s := newTestStore(t)

	if err := s.Set(APIKeyName, "xi-secret"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, err := s.Get(APIKeyName)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != "xi-secret" {
		t.Errorf("Expected 'xi-secret', got '%s'", value)
	}
}

func TestGet_Missing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(APIKeyName)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestSet_Overwrite(t *testing.T) {
	s := newTestStore(t)

	s.Set(APIKeyName, "old")
	if err := s.Set(APIKeyName, "new"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, err := s.Get(APIKeyName)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != "new" {
		t.Errorf("Expected 'new', got '%s'", value)
	}
}

func TestRemove(t *testing.T) {
	s := newTestStore(t)

	s.Set(APIKeyName, "xi-secret")
	if err := s.Remove(APIKeyName); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	if _, err := s.Get(APIKeyName); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after remove, got %v", err)
	}
}

func TestRemove_Absent(t *testing.T) {
	s := newTestStore(t)
	if err := s.Remove(APIKeyName); err != nil {
		t.Errorf("Expected removing an absent key to be a no-op, got %v", err)
	}
}

func TestFilePermissions(t *testing.T) {
	s := newTestStore(t)
	s.Set(APIKeyName, "xi-secret")

	info, err := os.Stat(s.path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}

	if info.Mode().Perm() != 0o600 {
		t.Errorf("Expected file mode 0600, got %o", info.Mode().Perm())
	}
}

func TestKeysAreIndependent(t *testing.T) {
	s := newTestStore(t)

	s.Set(APIKeyName, "xi-secret")
	s.Set("other", "value")

	if err := s.Remove("other"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	value, err := s.Get(APIKeyName)
	if err != nil || value != "xi-secret" {
		t.Errorf("Expected credential untouched, got '%s' (%v)", value, err)
	}
}
