// Package worldtest builds small worlds for tests, backed by an in-memory
// asset manifest.
package worldtest

import (
	"testing"

	"github.com/brickrun/platformer/internal/assets"
	"github.com/brickrun/platformer/internal/component"
	"github.com/brickrun/platformer/internal/config"
	"github.com/brickrun/platformer/internal/data"
	"github.com/brickrun/platformer/internal/level"
	"github.com/brickrun/platformer/internal/scripting"
	"github.com/brickrun/platformer/internal/world"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// Manifest declares 64x64 frames for the player, the bullet, a Goomba and
// the usual blocks. Mega has no climb or crouch animation.
const Manifest = `
fallback: DeadPlaceholder
textures:
  - { name: Placeholder, path: p.png, width: 64, height: 64 }
  - { name: Strip2, path: s2.png, width: 128, height: 64 }
  - { name: Strip4, path: s4.png, width: 256, height: 64 }
  - { name: Buster, path: b.png, width: 16, height: 16 }
  - { name: BusterDead, path: bd.png, width: 32, height: 16 }
animations:
  - { name: DeadPlaceholder, texture: Placeholder, frames: 1, speed: 1 }
  - { name: MegaIdle, texture: Placeholder, frames: 1, speed: 1 }
  - { name: MegaRun, texture: Strip4, frames: 4, speed: 6 }
  - { name: MegaJump, texture: Placeholder, frames: 1, speed: 1 }
  - { name: MegaShoot, texture: Placeholder, frames: 1, speed: 1 }
  - { name: MegaDead, texture: Strip4, frames: 4, speed: 2 }
  - { name: BusterIdle, texture: Buster, frames: 1, speed: 1 }
  - { name: BusterDead, texture: BusterDead, frames: 2, speed: 2 }
  - { name: Ground, texture: Placeholder, frames: 1, speed: 0 }
  - { name: Brick, texture: Placeholder, frames: 1, speed: 0 }
  - { name: BrickDead, texture: Strip2, frames: 2, speed: 2 }
  - { name: Ladder, texture: Placeholder, frames: 1, speed: 0 }
  - { name: Cloud, texture: Strip2, frames: 1, speed: 0 }
  - { name: GoombaRun, texture: Strip2, frames: 2, speed: 10 }
  - { name: GoombaDead, texture: Strip2, frames: 2, speed: 2 }
`

const Archetypes = `
- name: Goomba
  clips:
    idle: { animation: GoombaRun }
`

// Options tweak the world New builds.
type Options struct {
	Config *config.Config
	Script *scripting.Engine
}

// New returns a world with a 256 slot pool and no combat script unless
// opts say otherwise.
func New(t testing.TB, opts ...Options) *world.State {
	t.Helper()
	log := zaptest.NewLogger(t)
	m, err := data.ParseManifest([]byte(Manifest))
	require.NoError(t, err)
	tbl, err := data.ParseArchetypeTable([]byte(Archetypes))
	require.NoError(t, err)

	cfg := config.Defaults()
	cfg.Pool.MaxEntities = 256
	var script *scripting.Engine
	for _, o := range opts {
		if o.Config != nil {
			cfg = o.Config
		}
		if o.Script != nil {
			script = o.Script
		}
	}
	ws := world.NewState(cfg, assets.NewLibrary(m, tbl, log), script, log)
	ws.RunID = "test"
	return ws
}

// Floor returns a row of Ground tiles at grid y=0 covering x in [0, n).
func Floor(n int) []level.Placement {
	out := make([]level.Placement, 0, n)
	for x := 0; x < n; x++ {
		out = append(out, level.Placement{Tag: component.TagTile, Animation: "Ground", X: x})
	}
	return out
}

// Player returns the default player record placed at (x, y).
func Player(x, y int) *level.Player {
	p := level.DefaultPlayer
	p.X, p.Y = x, y
	return &p
}

// Goomba returns an enemy record with the given health and attack.
func Goomba(x, y int, health float64) level.Enemy {
	return level.Enemy{
		Type:      "Goomba",
		Animation: "GoombaRun",
		X:         x,
		Y:         y,
		Collision: level.DefaultPlayer.Collision,
		Health:    health,
		Damage:    10,
		Gravity:   0.75,
	}
}
