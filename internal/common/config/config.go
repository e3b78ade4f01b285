package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// FileName is the name of the plugin configuration file inside the data folder
const FileName = "config.yml"

var (
	ErrResourceNotFound = errors.New("bundled resource not found")
	ErrNotAMapping      = errors.New("configuration root must be a mapping")
)

// Store is a YAML backed key/value configuration file.
// Keys may address nested mappings with dots ("update.url").
type Store struct {
	path string
	data map[string]interface{}
	mu   sync.RWMutex
}

// DataDir returns the default plugin data folder
// 1. $XDG_DATA_HOME/pluginutils
// 2. ~/.local/share/pluginutils
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	xdgData := os.Getenv("XDG_DATA_HOME")
	if xdgData == "" {
		xdgData = filepath.Join(home, ".local", "share")
	}

	return filepath.Join(xdgData, "pluginutils"), nil
}

// Open loads the store at path. A missing file yields an empty store.
func Open(path string) (*Store, error) {
	s := &Store{
		path: path,
		data: make(map[string]interface{}),
	}
	if err := s.Reload(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return s, nil
}

// Path returns the file the store persists to
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the backing file is present on disk
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Reload replaces the in-memory values with the file contents
func (s *Store) Reload() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	data, err := Parse(raw)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

// Parse decodes YAML into a generic mapping. Empty input is an empty mapping.
func Parse(raw []byte) (map[string]interface{}, error) {
	var doc interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return make(map[string]interface{}), nil
	}
	data, ok := doc.(map[string]interface{})
	if !ok {
		return nil, ErrNotAMapping
	}
	return data, nil
}

// Get returns the value for key or def when the key is absent
func (s *Store) Get(key string, def interface{}) interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var current interface{} = s.data
	for _, part := range strings.Split(key, ".") {
		m, ok := current.(map[string]interface{})
		if !ok {
			return def
		}
		current, ok = m[part]
		if !ok {
			return def
		}
	}
	return current
}

// GetString returns the value for key formatted as a string
func (s *Store) GetString(key, def string) string {
	v := s.Get(key, nil)
	if v == nil {
		return def
	}
	if str, ok := v.(string); ok {
		return str
	}
	return fmt.Sprint(v)
}

// Set stores value under key, creating intermediate mappings as needed
func (s *Store) Set(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parts := strings.Split(key, ".")
	m := s.data
	for _, part := range parts[:len(parts)-1] {
		next, ok := m[part].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			m[part] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = value
}

// All returns a deep copy of every value in the store
func (s *Store) All() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyMap(s.data)
}

// SetDefaults adds every key of defaults the store does not have yet.
// Existing values are never replaced; nested mappings are filled recursively.
// Returns the number of values added, counted recursively.
func (s *Store) SetDefaults(defaults map[string]interface{}) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fillDefaults(defaults, s.data)
}

func fillDefaults(defaults, data map[string]interface{}) int {
	added := 0
	for key, def := range defaults {
		current, exists := data[key]
		if !exists {
			data[key] = copyValue(def)
			added += 1 + countValue(def)
			continue
		}
		defMap, defIsMap := def.(map[string]interface{})
		curMap, curIsMap := current.(map[string]interface{})
		if defIsMap && curIsMap {
			added += fillDefaults(defMap, curMap)
		}
	}
	return added
}

// CountRecursive counts every entry of m including entries of nested mappings and lists
func CountRecursive(m map[string]interface{}) int {
	n := 0
	for _, v := range m {
		n += 1 + countValue(v)
	}
	return n
}

func countValue(v interface{}) int {
	switch t := v.(type) {
	case map[string]interface{}:
		return CountRecursive(t)
	case []interface{}:
		n := 0
		for _, item := range t {
			n += 1 + countValue(item)
		}
		return n
	default:
		return 0
	}
}

func copyMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return copyMap(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}

// Save writes the store back to its file
func (s *Store) Save() error {
	s.mu.RLock()
	data, err := yaml.Marshal(s.data)
	s.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}

// LoadDefaults parses the bundled default configuration
func LoadDefaults(resources fs.FS) (map[string]interface{}, error) {
	raw, err := fs.ReadFile(resources, FileName)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, FileName)
		}
		return nil, err
	}
	return Parse(raw)
}

// SaveDefault copies the bundled config.yml to the store's path when no file exists.
// Returns true when the file was written, after which the store holds the defaults.
func (s *Store) SaveDefault(resources fs.FS) (bool, error) {
	if s.Exists() {
		return false, nil
	}

	raw, err := fs.ReadFile(resources, FileName)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, fmt.Errorf("%w: %s", ErrResourceNotFound, FileName)
		}
		return false, err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return false, err
	}
	if err := os.WriteFile(s.path, raw, 0644); err != nil {
		return false, err
	}
	if err := s.Reload(); err != nil {
		return false, err
	}
	return true, nil
}
