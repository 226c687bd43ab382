// Package presets stores named settings records, one YAML file per name.
//
// Files hold the flat key/value mapping produced by settings.Serialize. A
// preset is loaded on top of the built-in defaults, so files written by an
// older version that lack newer keys still load.
package presets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/xdg/llvmbuilder/internal/settings"
)

// Ext is the file extension of preset files.
const Ext = ".yaml"

var (
	// ErrInvalidName is returned for names that cannot be used as a file name.
	ErrInvalidName = errors.New("invalid preset name")
	// ErrNotFound is returned when a preset does not exist.
	ErrNotFound = errors.New("preset not found")
	// ErrExists is returned by Save when a preset exists and overwrite is false.
	ErrExists = errors.New("preset already exists")
)

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,63}$`)

// ValidateName checks that name is usable as a preset name: 1-64 characters
// from [A-Za-z0-9._-], not starting with '.', '_' or '-'.
func ValidateName(name string) error {
	if !validName.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Store is a directory of preset files.
type Store struct {
	Dir string
}

// NewStore returns a Store rooted at dir. The directory is created lazily
// on the first Save.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// Path returns the file path for name. It does not validate name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.Dir, name+Ext)
}

// Exists reports whether a preset named name exists.
func (s *Store) Exists(name string) bool {
	if ValidateName(name) != nil {
		return false
	}
	info, err := os.Stat(s.Path(name))
	return err == nil && info.Mode().IsRegular()
}

// List returns the names of all presets, sorted. A missing directory yields
// an empty list.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list presets: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.HasSuffix(e.Name(), Ext) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), Ext)
		if ValidateName(name) == nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Save writes st as preset name. If the preset exists and overwrite is
// false, it returns ErrExists. The directory is created with 0700
// permissions and the file is written with 0600.
func (s *Store) Save(name string, st *settings.Settings, overwrite bool) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	path := s.Path(name)

	_, err := os.Stat(path)
	if err == nil && !overwrite {
		return fmt.Errorf("%w: %s", ErrExists, name)
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat preset file: %w", err)
	}

	data, err := st.Serialize()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.Dir, 0o700); err != nil {
		return fmt.Errorf("ensure presets dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write preset %q: %w", name, err)
	}
	return nil
}

// Read returns the raw contents of preset name.
func (s *Store) Read(name string) ([]byte, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("read preset %q: %w", name, err)
	}
	return data, nil
}

// Load returns preset name applied on top of settings.Default().
func (s *Store) Load(name string) (*settings.Settings, error) {
	st := settings.Default()
	if err := s.LoadInto(name, st); err != nil {
		return nil, err
	}
	return st, nil
}

// LoadInto applies preset name onto st. Keys the file does not mention keep
// their current value in st.
func (s *Store) LoadInto(name string, st *settings.Settings) error {
	data, err := s.Read(name)
	if err != nil {
		return err
	}
	if err := st.Deserialize(data); err != nil {
		return fmt.Errorf("load preset %q: %w", name, err)
	}
	return nil
}

// Import reads a settings file from path and saves it as preset name.
// Both YAML and the JSON files written by earlier desktop versions are
// accepted, since the JSON is valid YAML.
func (s *Store) Import(name, path string, overwrite bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	st := settings.Default()
	if err := st.Deserialize(data); err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}
	return s.Save(name, st, overwrite)
}

// Delete removes preset name.
func (s *Store) Delete(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := os.Remove(s.Path(name)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return fmt.Errorf("delete preset %q: %w", name, err)
	}
	return nil
}
