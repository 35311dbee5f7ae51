package system

import (
	coresys "github.com/brickrun/platformer/internal/core/system"
	"github.com/brickrun/platformer/internal/world"
)

// AnimationSystem advances every bound animation. A non-repeating
// animation that has played through destroys its entity.
// Phase 6 (Animation).
type AnimationSystem struct {
	world *world.State
}

func NewAnimationSystem(ws *world.State) *AnimationSystem {
	return &AnimationSystem{world: ws}
}

func (s *AnimationSystem) Phase() coresys.Phase { return coresys.PhaseAnimation }

func (s *AnimationSystem) Update(_ int) {
	c := s.world.C
	for _, e := range s.world.Manager.Entities() {
		if !e.Active() || !c.Animation.Has(e) {
			continue
		}
		a := c.Animation.Get(e)
		a.Animation.Update()
		if !a.Repeat && a.Animation.HasEnded() {
			e.Destroy()
		}
	}
}
