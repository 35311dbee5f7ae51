// Package assets resolves animations, textures, fonts, sounds and music by
// name from the data manifest.
package assets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/brickrun/platformer/internal/anim"
	"github.com/brickrun/platformer/internal/data"
	"github.com/brickrun/platformer/internal/geom"
	"go.uber.org/zap"
)

var ErrNotFound = errors.New("asset not found")

// Provider is what the simulation needs from the asset store.
type Provider interface {
	Animation(name string) (anim.Animation, error)
	AnimationOr(name string) anim.Animation
	Fallback() anim.Animation
	Archetype(base string) *anim.Set
	Validate(base string, kinds ...anim.Kind) error
}

// Texture is a named image file of known pixel size.
type Texture struct {
	Name   string
	Path   string
	Size   geom.Vec2
	Smooth bool
}

// Library holds everything declared in the manifest. Archetype clip sets are
// built on first request and cached.
type Library struct {
	animations map[string]anim.Animation
	textures   map[string]Texture
	fonts      map[string]string
	sounds     map[string]string
	music      map[string]string
	fallback   anim.Animation
	archetypes *data.ArchetypeTable
	sets       map[string]*anim.Set
	log        *zap.Logger
}

// fallbackSize is used when the manifest declares no fallback animation.
var fallbackSize = geom.Vec2{X: 64, Y: 64}

func NewLibrary(m *data.Manifest, archetypes *data.ArchetypeTable, log *zap.Logger) *Library {
	if log == nil {
		log = zap.NewNop()
	}
	l := &Library{
		animations: make(map[string]anim.Animation, len(m.Animations)),
		textures:   make(map[string]Texture, len(m.Textures)),
		fonts:      files(m.Fonts),
		sounds:     files(m.Sounds),
		music:      files(m.Music),
		archetypes: archetypes,
		sets:       make(map[string]*anim.Set),
		log:        log,
	}
	for _, t := range m.Textures {
		l.textures[t.Name] = Texture{
			Name:   t.Name,
			Path:   t.Path,
			Size:   geom.Vec2{X: t.Width, Y: t.Height},
			Smooth: t.Smooth,
		}
	}
	for _, a := range m.Animations {
		tex := l.textures[a.Texture]
		l.animations[a.Name] = anim.New(a.Name, a.Texture, tex.Size, a.Frames, a.Speed)
	}
	if fb, ok := l.animations[m.Fallback]; ok && m.Fallback != "" {
		l.fallback = fb
	} else {
		l.fallback = anim.New("Fallback", "", fallbackSize, 1, 1)
	}
	return l
}

func files(entries []data.FileEntry) map[string]string {
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		out[e.Name] = e.Path
	}
	return out
}

// Animation returns a fresh copy of the named animation.
func (l *Library) Animation(name string) (anim.Animation, error) {
	a, ok := l.animations[name]
	if !ok {
		return anim.Animation{}, fmt.Errorf("animation %q: %w", name, ErrNotFound)
	}
	return a, nil
}

// AnimationOr returns the named animation or, logging a warning, the
// fallback.
func (l *Library) AnimationOr(name string) anim.Animation {
	a, err := l.Animation(name)
	if err != nil {
		l.log.Warn("animation fallback",
			zap.String("requested", name),
			zap.String("fallback", l.fallback.Name()))
		return l.fallback
	}
	return a
}

// Fallback is the placeholder animation played when a lookup fails.
func (l *Library) Fallback() anim.Animation { return l.fallback }

func (l *Library) HasAnimation(name string) bool {
	_, ok := l.animations[name]
	return ok
}

func (l *Library) Texture(name string) (Texture, error) {
	t, ok := l.textures[name]
	if !ok {
		return Texture{}, fmt.Errorf("texture %q: %w", name, ErrNotFound)
	}
	return t, nil
}

// Textures lists every declared texture.
func (l *Library) Textures() []Texture {
	out := make([]Texture, 0, len(l.textures))
	for _, t := range l.textures {
		out = append(out, t)
	}
	return out
}

func (l *Library) Font(name string) (string, error)  { return lookup(l.fonts, "font", name) }
func (l *Library) Sound(name string) (string, error) { return lookup(l.sounds, "sound", name) }
func (l *Library) Music(name string) (string, error) { return lookup(l.music, "music", name) }

func lookup(m map[string]string, kind, name string) (string, error) {
	p, ok := m[name]
	if !ok {
		return "", fmt.Errorf("%s %q: %w", kind, name, ErrNotFound)
	}
	return p, nil
}

// Archetype returns the clip set of an entity base name. Clips declared in
// the archetype table win; other kinds are found by naming convention
// (<base><Suffix>). Kinds with neither resolve to the fallback clip.
// Missing bases yield a set holding only the fallback.
func (l *Library) Archetype(base string) *anim.Set {
	if s, ok := l.sets[base]; ok {
		return s
	}
	s := anim.NewSet(base, anim.Clip{Animation: l.fallback, Repeat: false})
	entry := l.archetypes.Get(base)
	for _, kind := range anim.Kinds() {
		key := strings.ToLower(kind.String())
		if entry != nil {
			if c, ok := entry.Clips[key]; ok {
				a, err := l.Animation(c.Animation)
				if err != nil {
					l.log.Warn("archetype clip missing",
						zap.String("archetype", base),
						zap.String("kind", key),
						zap.Error(err))
					continue
				}
				s.Put(kind, anim.Clip{Animation: a, Repeat: c.RepeatFor(key)})
				continue
			}
		}
		if a, ok := l.animations[anim.ClipName(base, kind)]; ok {
			s.Put(kind, anim.Clip{Animation: a, Repeat: kind != anim.KindDead})
		}
	}
	// Static objects ("Brick") are named by their base alone.
	if a, ok := l.animations[base]; ok && !s.Has(anim.KindIdle) {
		s.Put(anim.KindIdle, anim.Clip{Animation: a, Repeat: true})
	}
	l.sets[base] = s
	return s
}

// Validate reports the kinds of an archetype that would play the fallback.
// The returned error wraps ErrNotFound.
func (l *Library) Validate(base string, kinds ...anim.Kind) error {
	s := l.Archetype(base)
	var missing []string
	for _, k := range kinds {
		if !s.Has(k) {
			missing = append(missing, anim.ClipName(base, k))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("archetype %q missing %s: %w", base, strings.Join(missing, ", "), ErrNotFound)
	}
	return nil
}
