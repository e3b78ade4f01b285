// Package lang loads translated message catalogs for the plugin.
//
// Catalogs are TOML files named after a three letter language code
// (locale/eng.toml, locale/jpn.toml). Keys may be quoted dotted strings
// or nested tables; both flatten to the same dotted key. Messages carry
// positional parameters written as {%0}, {%1}, ...
package lang

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Extension is the file extension of catalog files
const Extension = ".toml"

// KeyName is the catalog key holding the display name of a language
const KeyName = "language.name"

var (
	// ErrLanguageNotFound is returned when neither the requested nor the fallback catalog exists
	ErrLanguageNotFound = errors.New("language not found")
	// ErrInvalidCatalog is returned when a catalog holds a value that is not a string or table
	ErrInvalidCatalog = errors.New("invalid language catalog")
)

// Language is a loaded message catalog with a fallback catalog behind it
type Language struct {
	code         string
	fallbackCode string
	messages     map[string]string
	fallback     map[string]string
}

// Path returns the catalog file of code inside dir
func Path(dir, code string) string {
	return filepath.Join(dir, strings.ToLower(code)+Extension)
}

// Load reads <dir>/<code>.toml and <dir>/<fallback>.toml.
// An unknown code silently falls back to the fallback language; a missing
// fallback catalog is an error.
func Load(code, dir, fallback string) (*Language, error) {
	return LoadFS(os.DirFS(dir), code, fallback)
}

// LoadFS is Load reading catalogs from the root of fsys
func LoadFS(fsys fs.FS, code, fallback string) (*Language, error) {
	code = strings.ToLower(code)
	fallback = strings.ToLower(fallback)

	fallbackMessages, err := readCatalog(fsys, fallback)
	if err != nil {
		return nil, err
	}

	l := &Language{
		code:         code,
		fallbackCode: fallback,
		messages:     fallbackMessages,
		fallback:     fallbackMessages,
	}

	if code == fallback {
		return l, nil
	}

	messages, err := readCatalog(fsys, code)
	if err != nil {
		if errors.Is(err, ErrLanguageNotFound) {
			l.code = fallback
			return l, nil
		}
		return nil, err
	}
	l.messages = messages
	return l, nil
}

func readCatalog(fsys fs.FS, code string) (map[string]string, error) {
	name := code + Extension
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrLanguageNotFound, code)
		}
		return nil, err
	}

	var doc map[string]interface{}
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}

	messages := make(map[string]string)
	if err := flatten("", doc, messages); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return messages, nil
}

func flatten(prefix string, doc map[string]interface{}, out map[string]string) error {
	for k, v := range doc {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch t := v.(type) {
		case string:
			out[key] = t
		case map[string]interface{}:
			if err := flatten(key, t, out); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: key %q holds %T", ErrInvalidCatalog, key, v)
		}
	}
	return nil
}

// Code returns the code of the language in use
func (l *Language) Code() string {
	return l.code
}

// FallbackCode returns the code of the fallback language
func (l *Language) FallbackCode() string {
	return l.fallbackCode
}

// Name returns the display name of the language, or its code when the catalog has none
func (l *Language) Name() string {
	if name, ok := l.Get(KeyName); ok {
		return name
	}
	return l.code
}

// Get looks key up in the selected catalog, then the fallback catalog
func (l *Language) Get(key string) (string, bool) {
	if msg, ok := l.messages[key]; ok {
		return msg, true
	}
	msg, ok := l.fallback[key]
	return msg, ok
}

// Translate returns the message for key with {%N} replaced by params[N].
// Unknown keys are returned unchanged.
func (l *Language) Translate(key string, params ...string) string {
	msg, ok := l.Get(key)
	if !ok {
		return key
	}
	return Format(msg, params...)
}

// Keys returns every key known to the language, sorted
func (l *Language) Keys() []string {
	seen := make(map[string]struct{}, len(l.fallback)+len(l.messages))
	for k := range l.fallback {
		seen[k] = struct{}{}
	}
	for k := range l.messages {
		seen[k] = struct{}{}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Format replaces {%0}, {%1}, ... in msg with params
func Format(msg string, params ...string) string {
	if len(params) == 0 {
		return msg
	}
	pairs := make([]string, 0, len(params)*2)
	for i, p := range params {
		pairs = append(pairs, "{%"+strconv.Itoa(i)+"}", p)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}
