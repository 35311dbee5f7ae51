package system

import (
	"github.com/brickrun/platformer/internal/component"
	"github.com/brickrun/platformer/internal/core/ecs"
	coresys "github.com/brickrun/platformer/internal/core/system"
	"github.com/brickrun/platformer/internal/world"
)

// MovementSystem turns player input into velocity, applies gravity and
// integrates positions. Phase 2 (Movement).
//
// Prev is captured before any velocity change. Gravity grows by the ramp
// factor every frame an entity starts airborne and is reset by the
// collision system on landing, which also sets Grounded again.
type MovementSystem struct {
	world *world.State
}

func NewMovementSystem(ws *world.State) *MovementSystem {
	return &MovementSystem{world: ws}
}

func (s *MovementSystem) Phase() coresys.Phase { return coresys.PhaseMovement }

func (s *MovementSystem) Update(_ int) {
	c := s.world.C
	for _, e := range s.world.Manager.Entities() {
		if !e.Active() || !c.Transform.Has(e) {
			continue
		}
		t := c.Transform.Get(e)
		t.Prev = t.Pos

		climbing := false
		if c.Input.Has(e) && s.world.Alive(e) {
			climbing = s.steer(e, t)
		}
		if c.Gravity.Has(e) && !climbing {
			s.fall(c.Gravity.Get(e), t)
		} else if c.Gravity.Has(e) {
			c.Gravity.Get(e).Grounded = false
		}

		t.Velocity = t.Velocity.Clamp(s.maxSpeed(e))
		t.Pos = t.Pos.Add(t.Velocity)
	}
}

// steer applies the player's intents and reports whether it is climbing.
func (s *MovementSystem) steer(e ecs.Entity, t *component.Transform) bool {
	c := s.world.C
	in := c.Input.Get(e)
	speed := s.world.PlayerConfig.Speed

	switch {
	case in.Right:
		t.Velocity.X = speed.X
		s.world.Face(e, 1)
	case in.Left:
		t.Velocity.X = -speed.X
		s.world.Face(e, -1)
	default:
		t.Velocity.X = 0
	}

	grounded := c.Gravity.Has(e) && c.Gravity.Get(e).Grounded
	if in.Down && grounded {
		t.Velocity.X = 0
	}

	if in.CanClimb && in.Up {
		t.Velocity.X = 0
		t.Velocity.Y = -s.world.Cfg.Physics.ClimbSpeed
		return true
	}

	if in.Jump && in.CanJump && grounded {
		in.CanJump = false
		t.Velocity.Y = -speed.Y
		c.Gravity.Get(e).Grounded = false
	}

	if in.Shoot && in.CanShoot {
		in.CanShoot = false
		s.world.SpawnBullet(e)
	}
	return false
}

func (s *MovementSystem) fall(g *component.Gravity, t *component.Transform) {
	airborne := !g.Grounded
	t.Velocity.Y += g.Value
	if airborne {
		g.Value *= s.world.Cfg.Physics.GravityRamp
		if limit := s.world.Cfg.Physics.MaxGravity; limit > 0 && g.Value > limit {
			g.Value = limit
		}
	}
	g.Grounded = false
}

func (s *MovementSystem) maxSpeed(e ecs.Entity) float64 {
	if e == s.world.Player && s.world.PlayerConfig.MaxSpeed > 0 {
		return s.world.PlayerConfig.MaxSpeed
	}
	return s.world.Cfg.Physics.MaxSpeed
}
