package system

import (
	"github.com/brickrun/platformer/internal/component"
	"github.com/brickrun/platformer/internal/core/ecs"
	coresys "github.com/brickrun/platformer/internal/core/system"
	"github.com/brickrun/platformer/internal/geom"
	"github.com/brickrun/platformer/internal/physics"
	"github.com/brickrun/platformer/internal/world"
)

// EnemyAISystem decides enemy attacks. Phase 1 (Input).
//
// An enemy has the player in reach when the player is within its attack
// range and no solid block crosses the sight line. In reach and armed, it
// starts an attack:
//   - Rush: dash towards the player at speed.x * rush_factor in RUSH mode
//   - Melee: stand still in SHOOTING mode and hit once
type EnemyAISystem struct {
	world *world.State
}

func NewEnemyAISystem(ws *world.State) *EnemyAISystem {
	return &EnemyAISystem{world: ws}
}

func (s *EnemyAISystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *EnemyAISystem) Update(frame int) {
	c := s.world.C
	p := s.world.Player
	if !s.world.Alive(p) || !c.Transform.Has(p) {
		return
	}
	target := c.Transform.Get(p).Pos

	for _, e := range s.world.Manager.ByTag(component.TagEnemy) {
		if !s.world.Alive(e) || !c.Attacking.Has(e) {
			continue
		}
		a := c.Attacking.Get(e)
		a.InReach = s.inReach(e, target, a.Range)
		if !a.InReach || !a.CanAttack || a.IsAttacking {
			continue
		}
		s.attack(e, a, target, frame)
	}
}

// inReach updates the enemy's RayCaster and reports whether target is in
// range and in sight.
func (s *EnemyAISystem) inReach(e ecs.Entity, target geom.Vec2, rng float64) bool {
	c := s.world.C
	from := c.Transform.Get(e).Pos
	ray := c.RayCaster.Get(e)
	ray.Source, ray.Target, ray.Range = from, target, rng
	ray.Blocked = false

	if from.Dist(target) > rng {
		return false
	}
	lo := geom.Vec2{X: min(from.X, target.X), Y: min(from.Y, target.Y)}
	hi := geom.Vec2{X: max(from.X, target.X), Y: max(from.Y, target.Y)}
	for _, solid := range s.world.Solids().Query(geom.Rect{Min: lo, Size: hi.Sub(lo)}) {
		if physics.EntityIntersect(c, from, target, solid) {
			ray.Blocked = true
			return false
		}
	}
	return true
}

func (s *EnemyAISystem) attack(e ecs.Entity, a *component.Attacking, target geom.Vec2, frame int) {
	c := s.world.C
	t := c.Transform.Get(e)
	st := c.State.Get(e)
	en := c.Enemy.Get(e)
	dx := target.X - t.Pos.X

	a.IsAttacking = true
	a.CanAttack = false
	a.Started = frame
	s.world.Face(e, dx)

	switch a.Type {
	case component.AttackRush:
		st.Mode = component.ModeRush
		dir := 1.0
		if dx < 0 {
			dir = -1
		}
		t.Velocity.X = dir * en.Speed.X * s.world.Cfg.Combat.RushFactor
	case component.AttackMelee:
		st.Mode = component.ModeShooting
		t.Velocity.X = 0
		s.world.DamagePlayer(c.Damage.Get(e).Amount, "melee", e)
	}
}
