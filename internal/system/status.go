package system

import (
	"github.com/brickrun/platformer/internal/anim"
	"github.com/brickrun/platformer/internal/component"
	"github.com/brickrun/platformer/internal/core/ecs"
	coresys "github.com/brickrun/platformer/internal/core/system"
	"github.com/brickrun/platformer/internal/geom"
	"github.com/brickrun/platformer/internal/world"
	"go.uber.org/zap"
)

// StatusSystem derives each entity's mode and binds the matching clip of
// its archetype. A clip is only rebound when its name differs from the one
// playing, so an animation already in the right kind keeps its cursor.
// Phase 5 (Status).
type StatusSystem struct {
	world *world.State
}

func NewStatusSystem(ws *world.State) *StatusSystem {
	return &StatusSystem{world: ws}
}

func (s *StatusSystem) Phase() coresys.Phase { return coresys.PhaseStatus }

func (s *StatusSystem) Update(_ int) {
	c := s.world.C
	for _, e := range s.world.Manager.Entities() {
		if !e.Active() || !c.State.Has(e) {
			continue
		}
		st := c.State.Get(e)
		if st.Mode == component.ModeDead {
			s.die(e)
		} else if mode := s.derive(e, st.Mode); mode != component.ModeNone {
			st.Mode = mode
		}
		s.switchClip(e, st.Mode)
	}
}

// derive returns the mode implied by movement, or ModeNone to keep the
// current one.
func (s *StatusSystem) derive(e ecs.Entity, cur component.Mode) component.Mode {
	c := s.world.C
	t := c.Transform.Get(e)
	grounded := !c.Gravity.Has(e) || c.Gravity.Get(e).Grounded

	switch {
	case c.Input.Has(e):
		in := c.Input.Get(e)
		switch {
		case in.CanClimb && in.Up:
			return component.ModeClimbing
		case !grounded:
			return component.ModeJumping
		case in.Down:
			return component.ModeCrouching
		case t.Velocity.X != 0:
			return component.ModeRunning
		case in.Shoot:
			return component.ModeShooting
		}
		return component.ModeIdle
	case c.Enemy.Has(e):
		if c.Attacking.Has(e) && c.Attacking.Get(e).IsAttacking {
			return component.ModeNone
		}
		switch {
		case !grounded:
			return component.ModeJumping
		case t.Velocity.X != 0:
			return component.ModeRunning
		}
		return component.ModeIdle
	}
	return component.ModeNone
}

// die stops a dead entity and takes it out of collisions.
func (s *StatusSystem) die(e ecs.Entity) {
	c := s.world.C
	if c.Transform.Has(e) {
		c.Transform.Get(e).Velocity = geom.Vec2{}
	}
	if c.BoundingBox.Has(e) {
		*c.BoundingBox.Get(e) = component.BoundingBox{}
	}
	c.Gravity.Remove(e)
	if a := c.Animation.Get(e); c.Animation.Has(e) && a.Repeat {
		// first dead frame: the clip must play through exactly once
		a.Repeat = false
		a.Animation.Restart()
	}
}

func (s *StatusSystem) switchClip(e ecs.Entity, mode component.Mode) {
	c := s.world.C
	if !c.Animation.Has(e) {
		return
	}
	a := c.Animation.Get(e)
	if a.Set == nil {
		return
	}
	kind := mode.Kind()
	if kind == anim.KindNone {
		return
	}
	clip := a.Set.Clip(kind)
	if a.Animation.Name() == clip.Animation.Name() {
		return
	}
	repeat := clip.Repeat
	if !a.Set.Has(kind) {
		s.world.Log.Debug("clip fallback",
			zap.String("archetype", a.Set.Name()),
			zap.String("kind", kind.String()),
			zap.String("fallback", clip.Animation.Name()))
		// a missing clip must not end a living entity
		repeat = true
	}
	a.Animation = clip.Animation
	a.Repeat = repeat && mode != component.ModeDead
}
