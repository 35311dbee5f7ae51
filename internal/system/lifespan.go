package system

import (
	"github.com/brickrun/platformer/internal/component"
	coresys "github.com/brickrun/platformer/internal/core/system"
	"github.com/brickrun/platformer/internal/world"
)

// LifespanSystem expires timed components. Phase 3 (Timers).
//   - Lifespan: destroyed once frame-created > frames
//   - Invulnerable: removed once frame-created >= frames
//   - Attacking: the attack ends once duration elapsed, and the enemy may
//     attack again once duration+coolDown elapsed
type LifespanSystem struct {
	world *world.State
}

func NewLifespanSystem(ws *world.State) *LifespanSystem {
	return &LifespanSystem{world: ws}
}

func (s *LifespanSystem) Phase() coresys.Phase { return coresys.PhaseTimers }

func (s *LifespanSystem) Update(frame int) {
	c := s.world.C
	for _, e := range s.world.Manager.Entities() {
		if !e.Active() {
			continue
		}
		if c.Lifespan.Has(e) {
			l := c.Lifespan.Get(e)
			if frame-l.Created > l.Frames {
				e.Destroy()
				continue
			}
		}
		if c.Invulnerable.Has(e) {
			inv := c.Invulnerable.Get(e)
			if frame-inv.Created >= inv.Frames {
				c.Invulnerable.Remove(e)
			}
		}
		if c.Attacking.Has(e) {
			a := c.Attacking.Get(e)
			elapsed := frame - a.Started
			if a.IsAttacking && elapsed >= a.Duration {
				a.IsAttacking = false
				if c.Transform.Has(e) {
					c.Transform.Get(e).Velocity.X = 0
				}
				if s.world.Alive(e) && c.State.Has(e) {
					c.State.Get(e).Mode = component.ModeIdle
				}
			}
			if !a.CanAttack && !a.IsAttacking && elapsed >= a.Duration+a.CoolDown {
				a.CanAttack = true
			}
		}
	}
}
