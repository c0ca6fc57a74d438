package loader

import (
	"errors"
	"io/fs"
	"testing"
	"time"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return &memFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return 0 }
func (f *memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memFileInfo) ModTime() time.Time { return time.Now() }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

func TestTOMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.toml", `
[keyboard]
language = "de-DE"
hardware = true

[keymap]
files = ["tabs.toml", "view.yaml"]
`)

	config, err := NewTOMLLoaderWithFS(memfs, "/config.toml").Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	keyboard, ok := config["keyboard"].(map[string]any)
	if !ok {
		t.Fatalf("keyboard section missing: %v", config)
	}
	if keyboard["language"] != "de-DE" || keyboard["hardware"] != true {
		t.Errorf("keyboard = %v", keyboard)
	}
	files, _ := config["keymap"].(map[string]any)["files"].([]any)
	if len(files) != 2 {
		t.Errorf("keymap.files = %v", files)
	}
}

func TestTOMLLoader_Missing(t *testing.T) {
	config, err := NewTOMLLoaderWithFS(NewMemFS(), "/none.toml").Load()
	if err != nil || config != nil {
		t.Errorf("Load() = %v, %v; want nil, nil", config, err)
	}
}

func TestTOMLLoader_ParseError(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.toml", "[keyboard]\nlanguage = \n")

	_, err := NewTOMLLoaderWithFS(memfs, "/bad.toml").Load()
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if perr.Path != "/bad.toml" {
		t.Errorf("Path = %q", perr.Path)
	}
	if perr.Line == 0 {
		t.Error("Line not reported")
	}
}

func TestTOMLLoader_Includes(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/cfg/base.toml", `
[keyboard]
language = "en-US"
hardware = true
`)
	memfs.AddFile("/cfg/main.toml", `
"@include" = "base.toml"

[keyboard]
language = "fr-FR"
`)

	config, err := NewTOMLLoaderWithFS(memfs, "").LoadWithIncludes("/cfg/main.toml", 4)
	if err != nil {
		t.Fatalf("LoadWithIncludes() error = %v", err)
	}
	if _, ok := config[IncludeKey]; ok {
		t.Error("@include key left in result")
	}
	keyboard := config["keyboard"].(map[string]any)
	if keyboard["language"] != "fr-FR" {
		t.Errorf("language = %v, want main file to win", keyboard["language"])
	}
	if keyboard["hardware"] != true {
		t.Errorf("hardware = %v, want value from include", keyboard["hardware"])
	}
}

func TestTOMLLoader_IncludeCycle(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/a.toml", `"@include" = "b.toml"`)
	memfs.AddFile("/b.toml", `"@include" = "a.toml"`)

	_, err := NewTOMLLoaderWithFS(memfs, "").LoadWithIncludes("/a.toml", 4)
	if !errors.Is(err, ErrIncludeDepthExceeded) {
		t.Errorf("error = %v, want ErrIncludeDepthExceeded", err)
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"keyboard": map[string]any{"language": "en-US", "hardware": false},
		"plugins":  map[string]any{"lua": []any{"a.lua"}},
	}
	src := map[string]any{
		"keyboard": map[string]any{"hardware": true},
		"plugins":  map[string]any{"lua": []any{"b.lua"}},
	}

	got := DeepMerge(dst, src)
	keyboard := got["keyboard"].(map[string]any)
	if keyboard["language"] != "en-US" || keyboard["hardware"] != true {
		t.Errorf("keyboard = %v", keyboard)
	}
	lua := got["plugins"].(map[string]any)["lua"].([]any)
	if len(lua) != 1 || lua[0] != "b.lua" {
		t.Errorf("lists should be replaced, got %v", lua)
	}

	if DeepMerge(nil, nil) == nil {
		t.Error("DeepMerge(nil, nil) returned nil")
	}
}
