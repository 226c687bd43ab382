package settings

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownKey is returned by Set for a key that names no field.
var ErrUnknownKey = errors.New("unknown settings key")

// field describes one Settings field addressed by its serialization key.
type field struct {
	key    string
	index  int
	isBool bool
}

var (
	fields     = buildFields()
	fieldByKey = indexFields(fields)
)

func buildFields() []field {
	t := reflect.TypeOf(Settings{})
	out := make([]field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		key, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		out = append(out, field{
			key:    key,
			index:  i,
			isBool: f.Type.Kind() == reflect.Bool,
		})
	}
	return out
}

func indexFields(fs []field) map[string]field {
	m := make(map[string]field, len(fs))
	for _, f := range fs {
		m[f.key] = f
	}
	return m
}

// Keys returns every serialization key in declaration order.
func Keys() []string {
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.key
	}
	return keys
}

// BoolKeys returns the keys of every boolean toggle in declaration order.
func BoolKeys() []string {
	var keys []string
	for _, f := range fields {
		if f.isBool {
			keys = append(keys, f.key)
		}
	}
	return keys
}

// IsBoolKey reports whether key names a boolean toggle.
func IsBoolKey(key string) bool {
	f, ok := fieldByKey[key]
	return ok && f.isBool
}

var pathKeys = map[string]bool{
	"compilerPath": true,
	"llvmDir":      true,
	"buildDir":     true,
	"installPath":  true,
	"timerFile":    true,
}

// IsPathKey reports whether key names a filesystem path field.
func IsPathKey(key string) bool {
	return pathKeys[key]
}

// Get returns the value of the field named key as text.
// Booleans are rendered as "true" or "false".
func (s *Settings) Get(key string) (string, bool) {
	f, ok := fieldByKey[key]
	if !ok {
		return "", false
	}
	v := reflect.ValueOf(s).Elem().Field(f.index)
	if f.isBool {
		return strconv.FormatBool(v.Bool()), true
	}
	return v.String(), true
}

// Set assigns value to the field named key. Boolean fields accept anything
// strconv.ParseBool does plus on/off and yes/no. The LTO toggles go through
// SetNoLTO and SetFullLTO so the exclusivity rule holds.
func (s *Settings) Set(key, value string) error {
	f, ok := fieldByKey[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	if !f.isBool {
		reflect.ValueOf(s).Elem().Field(f.index).SetString(value)
		return nil
	}

	b, err := parseBool(value)
	if err != nil {
		return fmt.Errorf("settings key %q: %w", key, err)
	}
	switch key {
	case "noLto":
		s.SetNoLTO(b)
	case "fullLto":
		s.SetFullLTO(b)
	default:
		reflect.ValueOf(s).Elem().Field(f.index).SetBool(b)
	}
	return nil
}

// ToMap returns the record as a flat key to text mapping.
func (s *Settings) ToMap() map[string]string {
	m := make(map[string]string, len(fields))
	for _, f := range fields {
		m[f.key], _ = s.Get(f.key)
	}
	return m
}

// Serialize encodes the record as a flat YAML mapping of key to value.
func (s *Settings) Serialize() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal settings: %w", err)
	}
	return data, nil
}

// Deserialize overlays a flat YAML mapping onto the record. Keys missing from
// data keep their current value and unknown keys are ignored. Only input
// that is not a YAML mapping is an error.
//
// Values are applied directly, bypassing the LTO exclusivity rule, so that a
// serialized record always round-trips exactly.
func (s *Settings) Deserialize(data []byte) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("unmarshal settings: %w", err)
	}

	v := reflect.ValueOf(s).Elem()
	for key, val := range raw {
		f, ok := fieldByKey[key]
		if !ok {
			continue
		}
		if f.isBool {
			if b, ok := toBool(val); ok {
				v.Field(f.index).SetBool(b)
			}
			continue
		}
		v.Field(f.index).SetString(toText(val))
	}
	return nil
}

func toBool(val any) (bool, bool) {
	switch b := val.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := parseBool(b)
		return parsed, err == nil
	default:
		return false, false
	}
}

func toText(val any) string {
	switch t := val.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "yes", "y":
		return true, nil
	case "off", "no", "n":
		return false, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, fmt.Errorf("invalid boolean %q", s)
	}
	return b, nil
}
