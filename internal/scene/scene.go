// Package scene drives a world frame by frame and maps actions onto it.
package scene

import (
	"github.com/brickrun/platformer/internal/geom"
	"github.com/brickrun/platformer/internal/input"
	"github.com/brickrun/platformer/internal/world"
)

// Scene is one screen of the game: the play scene or the level editor.
type Scene interface {
	Update()
	DoAction(a input.Action)
	Ended() bool
	World() *world.State
	Flags() RenderFlags
	Camera() geom.Vec2
}

// RenderFlags are debug switches read by the renderer.
type RenderFlags struct {
	Textures  bool
	Collision bool
	Grid      bool
}

// DefaultRenderFlags draws textures only.
var DefaultRenderFlags = RenderFlags{Textures: true}

// Toggle flips the flag named by a TOGGLE_* action and reports whether the
// action was one.
func (f *RenderFlags) Toggle(name string) bool {
	switch name {
	case input.ToggleTexture:
		f.Textures = !f.Textures
	case input.ToggleCollision:
		f.Collision = !f.Collision
	case input.ToggleGrid:
		f.Grid = !f.Grid
	default:
		return false
	}
	return true
}
