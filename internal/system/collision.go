package system

import (
	"github.com/brickrun/platformer/internal/component"
	"github.com/brickrun/platformer/internal/core/ecs"
	coresys "github.com/brickrun/platformer/internal/core/system"
	"github.com/brickrun/platformer/internal/geom"
	"github.com/brickrun/platformer/internal/physics"
	"github.com/brickrun/platformer/internal/world"
)

// CollisionSystem resolves overlaps. Phase 4 (Collision).
//
// Resolution rule for a body against a solid: if the pair already
// overlapped horizontally last frame the contact is vertical and Y is
// resolved first; if it overlapped vertically, X first. Otherwise Y goes
// first when the horizontal overlap is wider than the vertical one. The
// side is taken from the body's previous position. The overlap is then
// recomputed and the other axis resolved if the pair still overlaps.
type CollisionSystem struct {
	world *world.State
}

func NewCollisionSystem(ws *world.State) *CollisionSystem {
	return &CollisionSystem{world: ws}
}

func (s *CollisionSystem) Phase() coresys.Phase { return coresys.PhaseCollision }

func (s *CollisionSystem) Update(_ int) {
	s.bodies()
	s.bullets()
	s.ladders()
	s.contact()
	s.bounds()
}

// bodies pushes players and enemies out of solid tiles.
func (s *CollisionSystem) bodies() {
	c := s.world.C
	for _, e := range s.world.Manager.ByTags(component.TagPlayer, component.TagEnemy) {
		if !s.world.Alive(e) || !c.BoundingBox.Has(e) {
			continue
		}
		for _, tile := range s.candidates(e) {
			Resolve(c, e, tile)
		}
	}
}

// candidates returns the solids near e, in live order.
func (s *CollisionSystem) candidates(e ecs.Entity) []ecs.Entity {
	c := s.world.C
	t := c.Transform.Get(e)
	box := c.BoundingBox.Get(e)
	// cover both the previous and the current box
	lo := geom.Vec2{X: min(t.Pos.X, t.Prev.X), Y: min(t.Pos.Y, t.Prev.Y)}.Sub(box.Half)
	hi := geom.Vec2{X: max(t.Pos.X, t.Prev.X), Y: max(t.Pos.Y, t.Prev.Y)}.Add(box.Half)
	return s.world.Solids().Query(geom.Rect{Min: lo, Size: hi.Sub(lo)})
}

// Resolve separates body from solid and reports whether they overlapped.
// Resolving a pair that does not overlap changes nothing.
func Resolve(c *component.Set, body, solid ecs.Entity) bool {
	o := physics.Overlap(c, body, solid)
	if !physics.Overlapping(o) {
		return false
	}
	if verticalContact(c, body, solid, o) {
		resolveY(c, body, solid, o)
		if o = physics.Overlap(c, body, solid); physics.Overlapping(o) {
			resolveX(c, body, solid, o)
		}
	} else {
		resolveX(c, body, solid, o)
		if o = physics.Overlap(c, body, solid); physics.Overlapping(o) {
			resolveY(c, body, solid, o)
		}
	}
	return true
}

func verticalContact(c *component.Set, body, solid ecs.Entity, o geom.Vec2) bool {
	prev := physics.PreviousOverlap(c, body, solid)
	switch {
	case prev.X > 0:
		return true
	case prev.Y > 0:
		return false
	}
	return o.X > o.Y
}

func resolveY(c *component.Set, body, solid ecs.Entity, o geom.Vec2) {
	t := c.Transform.Get(body)
	tile := c.Transform.Get(solid)
	if t.Prev.Y < tile.Pos.Y {
		// came from above: landing
		t.Pos.Y -= o.Y
		if t.Velocity.Y > 0 {
			t.Velocity.Y = 0
		}
		if c.Gravity.Has(body) {
			g := c.Gravity.Get(body)
			g.Grounded = true
			g.Value = g.Base
		}
		if c.Input.Has(body) {
			c.Input.Get(body).CanJump = true
		}
		return
	}
	// came from below: ceiling
	t.Pos.Y += o.Y
	if t.Velocity.Y < 0 {
		t.Velocity.Y = 0
	}
}

func resolveX(c *component.Set, body, solid ecs.Entity, o geom.Vec2) {
	t := c.Transform.Get(body)
	tile := c.Transform.Get(solid)
	if t.Prev.X < tile.Pos.X {
		t.Pos.X -= o.X
	} else {
		t.Pos.X += o.X
	}
	t.Velocity.X = 0
}

// bullets kill themselves on the first solid or enemy they touch. A
// destroyable block or an enemy out of health dies in the same pass.
func (s *CollisionSystem) bullets() {
	c := s.world.C
	for _, b := range s.world.Manager.ByTag(component.TagBullet) {
		if !s.world.Alive(b) {
			continue
		}
		damage := c.Damage.Get(b).Amount
		hit := false
		for _, solid := range s.candidates(b) {
			if !s.world.Alive(solid) || !physics.Overlapping(physics.Overlap(c, b, solid)) {
				continue
			}
			hit = true
			if c.Destroyable.Has(solid) {
				s.world.DamageEntity(solid, damage, "bullet", b)
			}
			break
		}
		if !hit {
			for _, enemy := range s.world.Manager.ByTag(component.TagEnemy) {
				if !s.world.Alive(enemy) || !physics.Overlapping(physics.Overlap(c, b, enemy)) {
					continue
				}
				hit = true
				s.world.DamageEntity(enemy, damage, "bullet", b)
				break
			}
		}
		if hit {
			s.world.Kill(b)
		}
	}
}

// ladders sets CanClimb when the player touches any ladder.
func (s *CollisionSystem) ladders() {
	c := s.world.C
	p := s.world.Player
	if !s.world.Alive(p) || !c.Input.Has(p) {
		return
	}
	canClimb := false
	for _, l := range s.world.Manager.ByTag(component.TagLadder) {
		if physics.Overlapping(physics.Overlap(c, p, l)) {
			canClimb = true
			break
		}
	}
	c.Input.Get(p).CanClimb = canClimb
}

// contact applies enemy body damage to the player, once per
// invulnerability window.
func (s *CollisionSystem) contact() {
	c := s.world.C
	p := s.world.Player
	if !s.world.Alive(p) {
		return
	}
	for _, enemy := range s.world.Manager.ByTag(component.TagEnemy) {
		if !s.world.Alive(enemy) || !c.Damage.Has(enemy) {
			continue
		}
		if !physics.Overlapping(physics.Overlap(c, enemy, p)) {
			continue
		}
		cause := "contact"
		if c.State.Has(enemy) && c.State.Get(enemy).Mode == component.ModeRush {
			cause = "rush"
		}
		if s.world.DamagePlayer(c.Damage.Get(enemy).Amount, cause, enemy) {
			break
		}
	}
}

// bounds respawns a player that fell out of the world or has no health
// left, and keeps it right of the left edge. Enemies that fall out are
// destroyed.
func (s *CollisionSystem) bounds() {
	c := s.world.C
	screenH := s.world.ScreenSize().Y

	for _, e := range s.world.Manager.ByTag(component.TagEnemy) {
		if e.Active() && c.Transform.Get(e).Pos.Y > screenH+spriteHeight(c, e) {
			e.Destroy()
		}
	}

	p := s.world.Player
	if !p.Active() || !c.Transform.Has(p) {
		return
	}
	t := c.Transform.Get(p)
	switch {
	case c.Health.Has(p) && c.Health.Get(p).Current <= 0:
		s.world.RespawnPlayer(true)
	case t.Pos.Y > screenH+spriteHeight(c, p):
		s.world.RespawnPlayer(false)
	}
	if c.BoundingBox.Has(p) {
		if half := c.BoundingBox.Get(p).Half.X; t.Pos.X < half {
			t.Pos.X = half
		}
	}
}

func spriteHeight(c *component.Set, e ecs.Entity) float64 {
	if c.Animation.Has(e) {
		return c.Animation.Get(e).Animation.Size().Y
	}
	return c.BoundingBox.Get(e).Size.Y
}
