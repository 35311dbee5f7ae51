package world

import (
	"math"

	"github.com/brickrun/platformer/internal/component"
	"github.com/brickrun/platformer/internal/core/ecs"
	"github.com/brickrun/platformer/internal/geom"
	"github.com/brickrun/platformer/internal/level"
)

// Drawable is what a renderer needs to draw one entity.
type Drawable struct {
	ID        ecs.EntityID
	Tag       ecs.Tag
	Pos       geom.Vec2
	Scale     geom.Vec2
	Angle     float64
	Animation string
	Texture   string
	Frame     geom.Rect
	Box       geom.Vec2 // bounding box size, zero when none
	Mode      component.Mode
}

// Drawables lists live entities with a Transform and Animation in live
// order. The slice is freshly allocated.
func (s *State) Drawables() []Drawable {
	live := s.Manager.Entities()
	out := make([]Drawable, 0, len(live))
	for _, e := range live {
		if !e.Active() || !s.C.Transform.Has(e) || !s.C.Animation.Has(e) {
			continue
		}
		t := s.C.Transform.Get(e)
		a := s.C.Animation.Get(e).Animation
		d := Drawable{
			ID:        e.ID(),
			Tag:       e.Tag(),
			Pos:       t.Pos,
			Scale:     t.Scale,
			Angle:     t.Angle,
			Animation: a.Name(),
			Texture:   a.Texture(),
			Frame:     a.FrameRect(),
		}
		if s.C.BoundingBox.Has(e) {
			d.Box = s.C.BoundingBox.Get(e).Size
		}
		if s.C.State.Has(e) {
			d.Mode = s.C.State.Get(e).Mode
		}
		out = append(out, d)
	}
	return out
}

// PlayerHealth returns the player's health for the HUD.
func (s *State) PlayerHealth() (component.Health, bool) {
	if !s.Player.Active() || !s.C.Health.Has(s.Player) {
		return component.Health{}, false
	}
	return *s.C.Health.Get(s.Player), true
}

// CameraCenter keeps the view on the player horizontally, never showing
// anything left of x=0.
func (s *State) CameraCenter() geom.Vec2 {
	screen := s.ScreenSize()
	c := geom.Vec2{X: screen.X / 2, Y: screen.Y / 2}
	if s.Player.Active() && s.C.Transform.Has(s.Player) {
		c.X = math.Max(c.X, s.C.Transform.Get(s.Player).Pos.X)
	}
	return c
}

// Level rebuilds level records from the live entities, using each
// entity's GridLocation.
func (s *State) Level() *level.Level {
	lvl := &level.Level{}
	pc := s.PlayerConfig
	for _, e := range s.Manager.Entities() {
		if !e.Active() {
			continue
		}
		grid := s.C.GridLocation.Get(e)
		switch tag := e.Tag(); {
		case tag == component.TagPlayer:
			pc.X, pc.Y = grid.X, grid.Y
			lvl.Player = &pc
		case tag == component.TagEnemy && s.C.Enemy.Has(e):
			en := s.C.Enemy.Get(e)
			lvl.Enemies = append(lvl.Enemies, level.Enemy{
				Type:        en.Type,
				Animation:   en.Animation,
				X:           grid.X,
				Y:           grid.Y,
				Collision:   en.Collision,
				Speed:       en.Speed,
				Health:      en.Health,
				Damage:      en.Damage,
				Attack:      en.Attack,
				AttackDelay: en.AttackDelay,
				Gravity:     en.Gravity,
			})
		case level.IsPlacementTag(tag):
			lvl.Placements = append(lvl.Placements, level.Placement{
				Tag:       tag,
				Animation: s.C.Animation.Get(e).Source,
				X:         grid.X,
				Y:         grid.Y,
			})
		}
	}
	return lvl
}
