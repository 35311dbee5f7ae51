// Package world is the simulation context: the entity pool, its manager
// and component stores, the frame counter and the player spawn settings.
package world

import (
	"github.com/brickrun/platformer/internal/assets"
	"github.com/brickrun/platformer/internal/component"
	"github.com/brickrun/platformer/internal/config"
	"github.com/brickrun/platformer/internal/core/ecs"
	"github.com/brickrun/platformer/internal/core/event"
	"github.com/brickrun/platformer/internal/geom"
	"github.com/brickrun/platformer/internal/level"
	"github.com/brickrun/platformer/internal/scripting"
	"go.uber.org/zap"
)

// State owns everything one simulation needs. Several States may exist side
// by side (play and editor scenes, parallel tests).
// Single-goroutine access only (frame loop).
type State struct {
	Pool    *ecs.Pool
	Manager *ecs.Manager
	C       *component.Set
	Bus     *event.Bus
	Assets  assets.Provider
	Script  *scripting.Engine
	Cfg     *config.Config
	Log     *zap.Logger
	RunID   string

	// Frame is the number of completed simulation frames.
	Frame int

	Player       ecs.Entity
	PlayerConfig level.Player

	solids *SolidGrid
}

func NewState(cfg *config.Config, provider assets.Provider, script *scripting.Engine, log *zap.Logger) *State {
	if log == nil {
		log = zap.NewNop()
	}
	pool := ecs.NewPool(cfg.Pool.MaxEntities, log)
	return &State{
		Pool:    pool,
		Manager: ecs.NewManager(pool),
		C:       component.NewSet(pool),
		Bus:     event.NewBus(),
		Assets:  provider,
		Script:  script,
		Cfg:     cfg,
		Log:     log,
		solids:  NewSolidGrid(cfg.Grid.CellWidth, cfg.Grid.CellHeight),
	}
}

// Solids is the broadphase over tiles and destroyable blocks.
func (s *State) Solids() *SolidGrid { return s.solids }

// ScreenSize is the window size in pixels.
func (s *State) ScreenSize() geom.Vec2 {
	return geom.Vec2{X: float64(s.Cfg.Window.Width), Y: float64(s.Cfg.Window.Height)}
}

// GridToMidPixel converts a grid cell to the centre of a sprite of the given
// size whose bottom-left corner sits on the bottom-left of the cell. Grid y
// grows upwards from the bottom of the screen.
func (s *State) GridToMidPixel(gx, gy int, size geom.Vec2, scaleY float64) geom.Vec2 {
	g := s.Cfg.Grid
	return geom.Vec2{
		X: float64(gx)*g.CellWidth + size.X/2,
		Y: float64(s.Cfg.Window.Height) - float64(gy)*g.CellHeight - size.Y/2*scaleY,
	}
}

// MouseToGrid returns the grid cell under a world position.
func (s *State) MouseToGrid(pos geom.Vec2) (int, int) {
	g := s.Cfg.Grid
	return int(pos.X / g.CellWidth), int((float64(s.Cfg.Window.Height) - pos.Y) / g.CellHeight)
}

// Alive reports whether e is active and not in the DEAD state.
func (s *State) Alive(e ecs.Entity) bool {
	if !e.Active() {
		return false
	}
	return !s.C.State.Has(e) || s.C.State.Get(e).Mode != component.ModeDead
}

// Reset destroys every entity, drops queued events and clears the frame
// counter.
func (s *State) Reset() {
	s.Manager.Reset()
	s.solids.Reset()
	s.Bus.Clear()
	s.Frame = 0
	s.Player = ecs.Entity{}
}
