// Package localstate is the client's durable local storage: a small
// string key-value store mirrored to a JSON file, standing in for the
// browser's localStorage. Values survive process restarts; callers
// serialize their own structures into the values.
package localstate

import (
	"encoding/json"
	"os"
	"sync"
)

// Store is a file-backed key-value store. The zero value is not
// usable; create one with New and call Load before first use.
type Store struct {
	path string

	mu     sync.Mutex
	values map[string]string
}

// New returns a Store persisting to the given file path.
func New(path string) *Store {
	return &Store{path: path, values: make(map[string]string)}
}

// Load reads the state file. A missing file is not an error: the
// store simply starts empty, as a fresh browser profile would.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.values = make(map[string]string)
			return nil
		}
		return err
	}
	defer f.Close()

	values := make(map[string]string)
	if err := json.NewDecoder(f).Decode(&values); err != nil {
		return err
	}
	s.values = values
	return nil
}

// save writes the current values to disk. Callers must hold s.mu.
func (s *Store) save() error {
	f, err := os.Create(s.path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(s.values)
}

// Get returns the value stored under key and whether it was present.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores value under key and persists synchronously.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.save()
}

// Delete removes key and persists synchronously. Deleting an absent
// key is a no-op.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.save()
}
