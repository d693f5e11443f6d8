// Package credstore is a small file-backed key-value store for the user's
// provider credential. Only the CLI layer touches it; the synthesis client
// always receives the credential explicitly.
package credstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// APIKeyName is the key under which the provider credential is stored
const APIKeyName = "elevenlabs_api_key"

// ErrNotFound means the requested key has no stored value
var ErrNotFound = errors.New("credstore: key not found")

// Store persists string values in one YAML file with owner-only permissions
type Store struct {
	path string
}

// DefaultPath returns the standard credential file location
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config directory: %w", err)
	}
	return filepath.Join(configDir, "scriptcast", "credentials.yaml"), nil
}

// New creates a store backed by the given file path
func New(path string) *Store {
	return &Store{path: path}
}

// Get returns the stored value for key, or ErrNotFound
func (s *Store) Get(key string) (string, error) {
	values, err := s.load()
	if err != nil {
		return "", err
	}

	value, ok := values[key]
	if !ok || value == "" {
		return "", ErrNotFound
	}
	return value, nil
}

// Set stores the value for key, creating the file and its directory on
// first use.
func (s *Store) Set(key, value string) error {
	values, err := s.load()
	if err != nil {
		return err
	}

	values[key] = value
	return s.save(values)
}

// Remove deletes the value for key. Removing an absent key is a no-op.
func (s *Store) Remove(key string) error {
	values, err := s.load()
	if err != nil {
		return err
	}

	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return s.save(values)
}

func (s *Store) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}

	values := map[string]string{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse credential file: %w", err)
	}
	return values, nil
}

func (s *Store) save(values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create credential directory: %w", err)
	}

	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write credential file: %w", err)
	}
	return nil
}
