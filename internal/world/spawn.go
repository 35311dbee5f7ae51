package world

import (
	"math"

	"github.com/brickrun/platformer/internal/anim"
	"github.com/brickrun/platformer/internal/component"
	"github.com/brickrun/platformer/internal/core/ecs"
	"github.com/brickrun/platformer/internal/core/event"
	"github.com/brickrun/platformer/internal/geom"
	"github.com/brickrun/platformer/internal/level"
	"go.uber.org/zap"
)

// bind adds the Animation component first, since placement depends on the
// sprite size. Unknown names play the fallback.
func (s *State) bind(e ecs.Entity, name string) anim.Animation {
	a := s.Assets.AnimationOr(name)
	base, _ := anim.Classify(name)
	s.C.Animation.Add(e, component.Animation{
		Animation: a,
		Repeat:    true,
		Set:       s.Assets.Archetype(base),
		Source:    name,
	})
	return a
}

// bindClip adds the Animation component from an archetype clip.
func (s *State) bindClip(e ecs.Entity, base string, kind anim.Kind) anim.Animation {
	set := s.Assets.Archetype(base)
	clip := set.Clip(kind)
	s.C.Animation.Add(e, component.Animation{
		Animation: clip.Animation,
		Repeat:    clip.Repeat,
		Set:       set,
		Source:    anim.ClipName(base, kind),
	})
	return clip.Animation
}

// SpawnPlacement creates a Tile, Decoration, Ladder or Destroyable block.
func (s *State) SpawnPlacement(p level.Placement) ecs.Entity {
	e := s.Manager.Create(p.Tag)
	if !e.Valid() {
		return e
	}
	a := s.bind(e, p.Animation)
	pos := s.GridToMidPixel(p.X, p.Y, a.Size(), 1)
	s.C.Transform.Add(e, component.NewTransform(pos))
	s.C.GridLocation.Add(e, component.GridLocation{X: p.X, Y: p.Y})
	s.C.Draggable.AddDefault(e)

	switch p.Tag {
	case component.TagTile:
		s.C.BoundingBox.Add(e, component.NewBoundingBox(a.Size()))
		s.solids.Add(e, geom.RectAround(pos, a.Size()))
	case component.TagDestroyable:
		s.C.BoundingBox.Add(e, component.NewBoundingBox(a.Size()))
		s.C.Destroyable.AddDefault(e)
		s.C.State.AddDefault(e)
		s.solids.Add(e, geom.RectAround(pos, a.Size()))
	case component.TagLadder:
		s.C.BoundingBox.Add(e, component.NewBoundingBox(a.Size()))
		s.C.Climbable.AddDefault(e)
	}
	return e
}

// SpawnEnemy creates an enemy with the combat parameters of its record.
func (s *State) SpawnEnemy(le level.Enemy) ecs.Entity {
	e := s.Manager.Create(component.TagEnemy)
	if !e.Valid() {
		return e
	}
	a := s.bind(e, le.Animation)
	pos := s.GridToMidPixel(le.X, le.Y, a.Size(), 1)
	s.C.Transform.Add(e, component.NewTransform(pos))
	s.C.BoundingBox.Add(e, component.NewBoundingBox(le.Collision))
	s.C.Health.Add(e, component.NewHealth(le.Health))
	s.C.Damage.Add(e, component.Damage{Amount: le.Damage})
	s.C.Gravity.Add(e, component.NewGravity(s.gravity(le.Gravity)))
	s.C.State.Add(e, component.State{Mode: component.ModeIdle})
	s.C.GridLocation.Add(e, component.GridLocation{X: le.X, Y: le.Y})
	s.C.Draggable.AddDefault(e)
	s.C.Enemy.Add(e, component.Enemy{
		Type:        le.Type,
		Animation:   le.Animation,
		Collision:   le.Collision,
		Speed:       le.Speed,
		Health:      le.Health,
		Damage:      le.Damage,
		Attack:      le.Attack,
		AttackDelay: le.AttackDelay,
		Gravity:     le.Gravity,
	})
	if le.Attack != component.AttackNone {
		s.C.Attacking.Add(e, component.Attacking{
			Type:      le.Attack,
			Range:     s.Cfg.Combat.AttackRange,
			CanAttack: true,
			Duration:  s.Cfg.Combat.AttackDuration,
			CoolDown:  s.Script.AttackCooldown(le.AttackDelay),
		})
		s.C.RayCaster.Add(e, component.RayCaster{Source: pos, Range: s.Cfg.Combat.AttackRange})
	}
	return e
}

func (s *State) gravity(g float64) float64 {
	if g == 0 {
		return s.Cfg.Physics.DefaultGravity
	}
	return g
}

// SpawnPlayer creates the player at its configured spawn cell.
func (s *State) SpawnPlayer() ecs.Entity {
	pc := s.PlayerConfig
	e := s.Manager.Create(component.TagPlayer)
	if !e.Valid() {
		return e
	}
	a := s.bindClip(e, s.Cfg.Sprites.Player, anim.KindIdle)
	pos := s.GridToMidPixel(pc.X, pc.Y, a.Size(), 1)
	s.C.Transform.Add(e, component.NewTransform(pos))
	s.C.BoundingBox.Add(e, component.NewBoundingBox(pc.Collision))
	s.C.Gravity.Add(e, component.NewGravity(s.gravity(pc.Gravity)))
	s.C.Input.AddDefault(e)
	s.C.State.Add(e, component.State{Mode: component.ModeIdle})
	health := pc.Health
	if health <= 0 {
		health = component.DefaultHealth.Max
	}
	s.C.Health.Add(e, component.NewHealth(health))
	s.C.GridLocation.Add(e, component.GridLocation{X: pc.X, Y: pc.Y})
	s.C.Draggable.AddDefault(e)
	s.Player = e
	return e
}

// SpawnBullet fires a bullet from owner in the direction it faces.
func (s *State) SpawnBullet(owner ecs.Entity) ecs.Entity {
	if !s.C.Transform.Has(owner) {
		return ecs.Entity{}
	}
	ot := *s.C.Transform.Get(owner)
	dir := 1.0
	if ot.Scale.X < 0 {
		dir = -1
	}
	e := s.Manager.Create(component.TagBullet)
	if !e.Valid() {
		return e
	}
	a := s.bindClip(e, s.Cfg.Sprites.Bullet, anim.KindIdle)
	offset := 0.0
	if s.C.BoundingBox.Has(owner) {
		offset = s.C.BoundingBox.Get(owner).Half.X
	}
	t := component.NewTransform(ot.Pos.Add(geom.Vec2{X: dir * offset}))
	t.Scale.X = dir
	t.Facing = geom.Vec2{X: dir}
	t.Velocity = geom.Vec2{X: dir * s.Cfg.Combat.BulletSpeed}
	s.C.Transform.Add(e, t)
	s.C.BoundingBox.Add(e, component.NewBoundingBox(a.Size()))
	s.C.Lifespan.Add(e, component.Lifespan{Frames: s.Cfg.Combat.BulletLifespan, Created: s.Frame})
	s.C.Damage.Add(e, component.Damage{Amount: s.Cfg.Combat.BulletDamage})
	s.C.State.Add(e, component.State{Mode: component.ModeIdle})
	event.Emit(s.Bus, event.BulletFired{EntityID: e.ID(), Position: t.Pos, Facing: dir})
	return e
}

// Populate spawns every record of a level, then the player. It returns the
// number of entities created; records beyond the pool capacity are dropped.
func (s *State) Populate(lvl *level.Level) int {
	if lvl.Player != nil {
		s.PlayerConfig = *lvl.Player
	} else {
		s.PlayerConfig = level.DefaultPlayer
	}
	created := 0
	for _, p := range lvl.Placements {
		if s.SpawnPlacement(p).Valid() {
			created++
		}
	}
	for _, e := range lvl.Enemies {
		if s.SpawnEnemy(e).Valid() {
			created++
		}
	}
	if s.SpawnPlayer().Valid() {
		created++
	}
	if created < lvl.Len()+boolInt(lvl.Player == nil) {
		s.Log.Warn("level partially spawned",
			zap.Int("records", lvl.Len()),
			zap.Int("created", created),
			zap.Int("capacity", s.Pool.Capacity()))
	}
	return created
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// RespawnPlayer moves the player back to its spawn cell and stops it.
func (s *State) RespawnPlayer(heal bool) {
	e := s.Player
	if !e.Active() {
		return
	}
	size := s.C.Animation.Get(e).Animation.Size()
	pos := s.GridToMidPixel(s.PlayerConfig.X, s.PlayerConfig.Y, size, 1)
	t := s.C.Transform.Get(e)
	t.Pos = pos
	t.Prev = pos
	t.Velocity = geom.Vec2{}
	if s.C.Gravity.Has(e) {
		g := s.C.Gravity.Get(e)
		g.Value = g.Base
		g.Grounded = false
	}
	if heal {
		s.C.Health.Get(e).Heal()
	}
	s.C.State.Get(e).Mode = component.ModeIdle
	s.Log.Debug("player respawned",
		zap.Float64("x", pos.X),
		zap.Float64("y", pos.Y),
		zap.Bool("healed", heal),
		zap.Int("frame", s.Frame))
	event.Emit(s.Bus, event.PlayerRespawned{Position: pos, Healed: heal})
}

// facing returns -1 or 1 for the sign of x, keeping cur for zero.
func facing(x, cur float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	if cur < 0 {
		return -1
	}
	return 1
}

// Face turns e towards the sign of dx by flipping its horizontal scale.
func (s *State) Face(e ecs.Entity, dx float64) {
	t := s.C.Transform.Get(e)
	f := facing(dx, t.Scale.X)
	t.Scale.X = f * math.Abs(t.Scale.X)
	t.Facing = geom.Vec2{X: f}
}
