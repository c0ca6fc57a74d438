package keymap

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"gopkg.in/yaml.v3"
)

// Loader loads keymaps from configuration files.
type Loader struct {
	// searchPaths are directories to search for keymap files.
	searchPaths []string
}

// NewLoader creates a new keymap loader.
func NewLoader() *Loader {
	return &Loader{
		searchPaths: make([]string, 0),
	}
}

// AddSearchPath adds a directory to search for keymap files.
func (l *Loader) AddSearchPath(path string) {
	l.searchPaths = append(l.searchPaths, path)
}

// fileConfig is the structure shared by TOML and YAML keymap files.
type fileConfig struct {
	Name      string    `toml:"name" yaml:"name"`
	Shortcuts []Binding `toml:"shortcuts" yaml:"shortcuts"`
}

// LoadFile loads a keymap, choosing the decoder by file extension.
func (l *Loader) LoadFile(path string) (*Keymap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading keymap file: %w", err)
	}

	km, err := Decode(filepath.Ext(path), path, data)
	if err != nil {
		return nil, err
	}
	if km.Name == "" {
		km.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	km.Source = "file:" + path
	return km, nil
}

// Decode parses keymap data in the format named by ext (".toml", ".yaml",
// ".yml" or ".json"). source is used in error messages.
func Decode(ext, source string, data []byte) (*Keymap, error) {
	var cfg fileConfig
	switch strings.ToLower(ext) {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
		}
	case ".json":
		if !gjson.ValidBytes(data) {
			return nil, &ParseError{Path: source, Message: "invalid JSON"}
		}
		cfg = decodeJSON(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	km, err := FromBindings(cfg.Name, cfg.Shortcuts)
	if err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	return km, nil
}

func decodeJSON(data []byte) fileConfig {
	root := gjson.ParseBytes(data)
	cfg := fileConfig{Name: root.Get("name").String()}
	root.Get("shortcuts").ForEach(func(_, v gjson.Result) bool {
		cfg.Shortcuts = append(cfg.Shortcuts, Binding{
			Keys:     v.Get("keys").String(),
			Action:   v.Get("action").String(),
			Title:    v.Get("title").String(),
			Category: v.Get("category").String(),
		})
		return true
	})
	return cfg
}

// LoadAll loads every keymap file in the search paths. Files that fail to
// load are returned as errors alongside the keymaps that succeeded.
func (l *Loader) LoadAll() ([]*Keymap, []error) {
	keymaps := make([]*Keymap, 0)
	var errs []error

	for _, dir := range l.searchPaths {
		for _, pattern := range []string{"*.toml", "*.yaml", "*.yml", "*.json"} {
			matches, err := filepath.Glob(filepath.Join(dir, pattern))
			if err != nil {
				continue
			}

			for _, path := range matches {
				km, err := l.LoadFile(path)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				keymaps = append(keymaps, km)
			}
		}
	}

	return keymaps, errs
}

// Export renders a keymap as JSON in the format LoadFile reads.
func Export(k *Keymap) ([]byte, error) {
	out := []byte(`{}`)
	var err error

	if out, err = sjson.SetBytes(out, "name", k.Name); err != nil {
		return nil, fmt.Errorf("exporting keymap: %w", err)
	}
	if out, err = sjson.SetBytes(out, "shortcuts", []any{}); err != nil {
		return nil, fmt.Errorf("exporting keymap: %w", err)
	}
	for _, sc := range k.shortcuts {
		entry := map[string]string{
			"keys":   sc.Chord.String(),
			"action": sc.Action,
		}
		if sc.Title != "" {
			entry["title"] = sc.Title
		}
		if sc.Category != "" {
			entry["category"] = sc.Category
		}
		if out, err = sjson.SetBytes(out, "shortcuts.-1", entry); err != nil {
			return nil, fmt.Errorf("exporting keymap: %w", err)
		}
	}
	return out, nil
}

// SaveFile writes a keymap to path as JSON.
func (k *Keymap) SaveFile(path string) error {
	data, err := Export(k)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing keymap file: %w", err)
	}

	return nil
}

// ParseError represents an error while parsing a keymap file.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
