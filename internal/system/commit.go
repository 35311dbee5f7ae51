package system

import (
	"github.com/brickrun/platformer/internal/component"
	coresys "github.com/brickrun/platformer/internal/core/system"
	"github.com/brickrun/platformer/internal/world"
)

// CommitSystem makes entities created last frame visible, drops destroyed
// ones from every view and the solid broadphase, and delivers last frame's
// events.
// Phase 0 (Commit).
type CommitSystem struct {
	world *world.State
}

func NewCommitSystem(ws *world.State) *CommitSystem {
	return &CommitSystem{world: ws}
}

func (s *CommitSystem) Phase() coresys.Phase { return coresys.PhaseCommit }

func (s *CommitSystem) Update(_ int) {
	s.world.Manager.Update()
	if s.world.Manager.Dropped(component.SolidTags...) > 0 {
		s.world.Solids().Prune()
	}
	s.world.Bus.SwapBuffers()
	s.world.Bus.DispatchAll()
}
