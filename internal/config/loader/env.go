package loader

import (
	"os"
	"strconv"
	"strings"
)

// DefaultPrefix is the prefix of configuration environment variables.
const DefaultPrefix = "TERMKEYS_"

// EnvLoader loads configuration from environment variables.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "TERMKEYS_")
	mapping map[string]string // Env var -> config path
	lists   map[string]bool   // Config paths holding comma-separated lists
	skip    []string          // Prefixes owned by other components
	environ func() []string
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore.
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(),
		lists: map[string]bool{
			"keymap.files": true,
			"keymap.paths": true,
			"plugins.lua":  true,
		},
		skip:    []string{prefix + "CONFIG"},
		environ: os.Environ,
	}
}

// defaultEnvMapping returns the default environment variable mappings.
func defaultEnvMapping() map[string]string {
	return map[string]string{
		"TERMKEYS_LANGUAGE":          "keyboard.language",
		"TERMKEYS_HARDWARE_KEYBOARD": "keyboard.hardware",
		"TERMKEYS_KEYMAPS":           "keymap.files",
		"TERMKEYS_PLUGINS":           "plugins.lua",
	}
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	l.mapping[envVar] = configPath
}

// Load reads environment variables and returns a configuration map.
// Unmapped variables map TERMKEYS_SECTION_SOME_KEY to section.some_key.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for _, env := range l.environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) || l.skipped(name) {
			continue
		}

		path, mapped := l.mapping[name]
		if !mapped {
			path = l.envToPath(name)
			if path == "" {
				continue
			}
		}

		if l.lists[path] {
			setByPath(config, path, splitList(value))
		} else {
			setByPath(config, path, parseValue(value))
		}
	}

	return config, nil
}

func (l *EnvLoader) skipped(name string) bool {
	for _, p := range l.skip {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// envToPath converts TERMKEYS_KEYBOARD_MAX_CHAIN_DEPTH to
// keyboard.max_chain_depth. Names without a section return "".
func (l *EnvLoader) envToPath(env string) string {
	name := strings.ToLower(strings.TrimPrefix(env, l.prefix))
	section, setting, ok := strings.Cut(name, "_")
	if !ok || section == "" || setting == "" {
		return ""
	}
	return section + "." + setting
}

// parseValue converts a string into a bool, integer, or string.
func parseValue(s string) any {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	return s
}

// splitList splits a comma-separated value, dropping empty entries.
func splitList(s string) []any {
	out := make([]any, 0)
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data

	for i := 0; i < len(parts)-1; i++ {
		part := parts[i]
		if next, ok := current[part].(map[string]any); ok {
			current = next
		} else {
			next := make(map[string]any)
			current[part] = next
			current = next
		}
	}

	current[parts[len(parts)-1]] = value
}
