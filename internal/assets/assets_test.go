package assets

import (
	"testing"

	"github.com/brickrun/platformer/internal/anim"
	"github.com/brickrun/platformer/internal/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

const testManifest = `
fallback: DeadPlaceholder
textures:
  - { name: Placeholder, path: p.png, width: 64, height: 64 }
  - { name: Sheet, path: sheet.png, width: 256, height: 64 }
animations:
  - { name: DeadPlaceholder, texture: Placeholder, frames: 1, speed: 1 }
  - { name: MegaIdle, texture: Sheet, frames: 4, speed: 1 }
  - { name: MegaRun, texture: Sheet, frames: 4, speed: 6 }
  - { name: MegaDead, texture: Sheet, frames: 4, speed: 6 }
  - { name: GoombaRun, texture: Sheet, frames: 2, speed: 10 }
  - { name: Brick, texture: Placeholder, frames: 1, speed: 0 }
sounds:
  - { name: Shoot, path: shoot.wav }
`

const testArchetypes = `
- name: Goomba
  clips:
    idle: { animation: GoombaRun }
    jump: { animation: GoombaJumpMissing }
`

func newLibrary(t *testing.T, log *zap.Logger) *Library {
	t.Helper()
	m, err := data.ParseManifest([]byte(testManifest))
	require.NoError(t, err)
	tbl, err := data.ParseArchetypeTable([]byte(testArchetypes))
	require.NoError(t, err)
	return NewLibrary(m, tbl, log)
}

func TestAnimationLookup(t *testing.T) {
	l := newLibrary(t, zaptest.NewLogger(t))

	a, err := l.Animation("MegaRun")
	require.NoError(t, err)
	assert.Equal(t, "Sheet", a.Texture())
	assert.Equal(t, 64.0, a.Size().X)
	assert.True(t, l.HasAnimation("Brick"))

	_, err = l.Animation("Nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAnimationOrLogsFallback(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	l := newLibrary(t, zap.New(core))

	a := l.AnimationOr("Nope")
	assert.Equal(t, "DeadPlaceholder", a.Name())
	require.Equal(t, 1, logs.FilterMessage("animation fallback").Len())
	assert.Equal(t, "Nope", logs.All()[0].ContextMap()["requested"])
}

func TestFallbackSynthesisedWhenUndeclared(t *testing.T) {
	l := NewLibrary(&data.Manifest{}, nil, nil)
	fb := l.Fallback()
	assert.Equal(t, "Fallback", fb.Name())
	assert.Equal(t, 64.0, fb.Size().X)
	assert.Equal(t, "Fallback", l.AnimationOr("x").Name())
}

func TestArchetypeByConvention(t *testing.T) {
	l := newLibrary(t, zaptest.NewLogger(t))
	s := l.Archetype("Mega")

	assert.True(t, s.Has(anim.KindIdle))
	assert.True(t, s.Has(anim.KindRun))
	assert.False(t, s.Has(anim.KindJump))
	assert.True(t, s.Clip(anim.KindRun).Repeat)
	assert.False(t, s.Clip(anim.KindDead).Repeat)
	assert.Equal(t, "DeadPlaceholder", s.Clip(anim.KindJump).Animation.Name())
	assert.Same(t, s, l.Archetype("Mega"), "sets are cached")
}

func TestArchetypeTableOverridesAndSkipsMissing(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	l := newLibrary(t, zap.New(core))
	s := l.Archetype("Goomba")

	assert.Equal(t, "GoombaRun", s.Clip(anim.KindIdle).Animation.Name())
	assert.True(t, s.Has(anim.KindRun))
	assert.False(t, s.Has(anim.KindJump))
	assert.Equal(t, 1, logs.FilterMessage("archetype clip missing").Len())
}

func TestStaticObjectBecomesIdle(t *testing.T) {
	l := newLibrary(t, zaptest.NewLogger(t))
	s := l.Archetype("Brick")
	assert.Equal(t, "Brick", s.Clip(anim.KindIdle).Animation.Name())
	assert.Equal(t, 1, s.Len())
}

func TestValidate(t *testing.T) {
	l := newLibrary(t, zaptest.NewLogger(t))
	assert.NoError(t, l.Validate("Mega", anim.KindIdle, anim.KindRun, anim.KindDead))

	err := l.Validate("Mega", anim.KindRun, anim.KindJump, anim.KindClimb)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorContains(t, err, "MegaJump, MegaClimb")
}

func TestFilesAndTextures(t *testing.T) {
	l := newLibrary(t, zaptest.NewLogger(t))

	p, err := l.Sound("Shoot")
	require.NoError(t, err)
	assert.Equal(t, "shoot.wav", p)
	_, err = l.Music("Theme")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = l.Font("Pixel")
	assert.ErrorIs(t, err, ErrNotFound)

	tex, err := l.Texture("Sheet")
	require.NoError(t, err)
	assert.Equal(t, 256.0, tex.Size.X)
	assert.Len(t, l.Textures(), 2)
	_, err = l.Texture("Nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
