// Package fielddefaults remembers the last value used for selected settings
// fields so new sessions can start from them.
//
// The store is a flat YAML mapping of settings key to value. Only the keys
// listed in Fields can be stored.
package fielddefaults

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/xdg/llvmbuilder/internal/pathutil"
	"github.com/xdg/llvmbuilder/internal/settings"
)

// ErrNotDefaultable is returned when a key is not one of Fields.
var ErrNotDefaultable = errors.New("field does not support remembered defaults")

var defaultable = []string{
	"compilerPath",
	"llvmDir",
	"buildDir",
	"installPath",
	"timerFile",
	"projects",
	"runtimes",
	"compiler",
	"cxxCompiler",
	"linker",
}

// Fields returns the settings keys that can hold a remembered default.
func Fields() []string {
	return append([]string(nil), defaultable...)
}

// IsDefaultable reports whether key is one of Fields.
func IsDefaultable(key string) bool {
	for _, k := range defaultable {
		if k == key {
			return true
		}
	}
	return false
}

// Store holds remembered values backed by a YAML file.
type Store struct {
	path   string
	values map[string]string
}

// Open loads the store at path. A missing file gives an empty store; the
// file is created on the first write.
func Open(path string) (*Store, error) {
	s := &Store{path: path, values: map[string]string{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read field defaults: %w", err)
	}

	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse field defaults %s: %w", path, err)
	}
	for k, v := range raw {
		// Entries for fields that are no longer defaultable are dropped.
		if IsDefaultable(k) {
			s.values[k] = v
		}
	}
	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Get returns the remembered value for key.
func (s *Store) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Has reports whether key has a remembered value.
func (s *Store) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Keys returns the keys that currently have a value, sorted.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set remembers value for key and writes the store to disk.
func (s *Store) Set(key, value string) error {
	if !IsDefaultable(key) {
		return fmt.Errorf("%w: %s", ErrNotDefaultable, key)
	}
	s.values[key] = value
	return s.Save()
}

// Delete forgets key and writes the store to disk. Deleting a key with no
// value is not an error.
func (s *Store) Delete(key string) error {
	if !IsDefaultable(key) {
		return fmt.Errorf("%w: %s", ErrNotDefaultable, key)
	}
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.Save()
}

// Remember stores the current value of every defaultable field of st and
// writes the store once.
func (s *Store) Remember(st *settings.Settings) error {
	for _, key := range defaultable {
		v, _ := st.Get(key)
		s.values[key] = v
	}
	return s.Save()
}

// Save writes the store with 0600 permissions, creating the parent
// directory if needed.
func (s *Store) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("ensure field defaults dir: %w", err)
	}
	data, err := yaml.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("marshal field defaults: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write field defaults: %w", err)
	}
	return nil
}

// Apply copies every remembered value onto st. Path fields have a leading
// ~ expanded.
func (s *Store) Apply(st *settings.Settings) error {
	for _, key := range defaultable {
		v, ok := s.values[key]
		if !ok {
			continue
		}
		if settings.IsPathKey(key) {
			v = pathutil.ExpandHome(v)
		}
		if err := st.Set(key, v); err != nil {
			return fmt.Errorf("apply field default %s: %w", key, err)
		}
	}
	return nil
}
