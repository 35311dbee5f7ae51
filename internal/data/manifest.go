package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TextureEntry is one image file. Width and height are the pixel size of
// the whole sheet.
type TextureEntry struct {
	Name   string  `yaml:"name"`
	Path   string  `yaml:"path"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Smooth bool    `yaml:"smooth"`
}

// AnimationEntry is a strip of Frames frames over a texture, each held for
// Speed updates.
type AnimationEntry struct {
	Name    string `yaml:"name"`
	Texture string `yaml:"texture"`
	Frames  int    `yaml:"frames"`
	Speed   int    `yaml:"speed"`
}

// FileEntry is a named font, sound or music file.
type FileEntry struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// Manifest lists every asset by name. Fallback names the animation used
// when a lookup misses.
type Manifest struct {
	Fallback   string           `yaml:"fallback"`
	Textures   []TextureEntry   `yaml:"textures"`
	Animations []AnimationEntry `yaml:"animations"`
	Fonts      []FileEntry      `yaml:"fonts"`
	Sounds     []FileEntry      `yaml:"sounds"`
	Music      []FileEntry      `yaml:"music"`
}

// LoadManifest loads assets.yaml.
func LoadManifest(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read asset manifest: %w", err)
	}
	m, err := ParseManifest(raw)
	if err != nil {
		return nil, fmt.Errorf("asset manifest %s: %w", path, err)
	}
	return m, nil
}

// ParseManifest decodes and checks a manifest: names are unique per kind,
// every animation refers to a declared texture and the fallback exists.
func ParseManifest(raw []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse asset manifest: %w", err)
	}
	textures := make(map[string]bool, len(m.Textures))
	for _, t := range m.Textures {
		if t.Name == "" {
			return nil, fmt.Errorf("texture with empty name (path %q)", t.Path)
		}
		if textures[t.Name] {
			return nil, fmt.Errorf("duplicate texture %q", t.Name)
		}
		textures[t.Name] = true
	}
	animations := make(map[string]bool, len(m.Animations))
	for _, a := range m.Animations {
		if animations[a.Name] {
			return nil, fmt.Errorf("duplicate animation %q", a.Name)
		}
		if !textures[a.Texture] {
			return nil, fmt.Errorf("animation %q: unknown texture %q", a.Name, a.Texture)
		}
		if a.Frames < 0 || a.Speed < 0 {
			return nil, fmt.Errorf("animation %q: negative frames or speed", a.Name)
		}
		animations[a.Name] = true
	}
	if m.Fallback != "" && !animations[m.Fallback] {
		return nil, fmt.Errorf("fallback animation %q not declared", m.Fallback)
	}
	return &m, nil
}

// Texture returns the entry with the given name.
func (m *Manifest) Texture(name string) (TextureEntry, bool) {
	for _, t := range m.Textures {
		if t.Name == name {
			return t, true
		}
	}
	return TextureEntry{}, false
}
