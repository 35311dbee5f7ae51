package component

import (
	"github.com/brickrun/platformer/internal/anim"
	"github.com/brickrun/platformer/internal/geom"
)

// Transform holds placement and motion. Prev is the position at the start of
// the current movement pass.
type Transform struct {
	Pos      geom.Vec2
	Prev     geom.Vec2
	Scale    geom.Vec2
	Velocity geom.Vec2
	Facing   geom.Vec2
	Angle    float64
}

func NewTransform(pos geom.Vec2) Transform {
	t := DefaultTransform
	t.Pos = pos
	t.Prev = pos
	return t
}

var DefaultTransform = Transform{
	Scale:  geom.Vec2{X: 1, Y: 1},
	Facing: geom.Vec2{X: 0, Y: 1},
}

// BoundingBox is an axis-aligned box centred on the transform position.
type BoundingBox struct {
	Size geom.Vec2
	Half geom.Vec2
}

func NewBoundingBox(size geom.Vec2) BoundingBox {
	return BoundingBox{Size: size, Half: size.Scale(0.5)}
}

// Animation binds an entity to its playing animation. Set is the archetype
// table the status system picks clips from. Source is the asset name the
// entity was placed with, kept for saving even when the fallback plays.
type Animation struct {
	Animation anim.Animation
	Repeat    bool
	Set       *anim.Set
	Source    string
}

// Gravity is a downward acceleration. Value ramps up while airborne and is
// put back to Base on landing.
type Gravity struct {
	Value    float64
	Base     float64
	Grounded bool
}

func NewGravity(g float64) Gravity {
	return Gravity{Value: g, Base: g}
}

type Health struct {
	Max     float64
	Current float64
}

var DefaultHealth = Health{Max: 100, Current: 100}

func NewHealth(maxHealth float64) Health {
	return Health{Max: maxHealth, Current: maxHealth}
}

// Damage subtracts amount, clamping at zero, and reports whether the entity
// has no health left.
func (h *Health) Damage(amount float64) bool {
	h.Current -= amount
	if h.Current < 0 {
		h.Current = 0
	}
	return h.Current <= 0
}

func (h *Health) Heal() { h.Current = h.Max }

// Input holds intents written by the action dispatcher. Only the movement
// and status systems read them.
type Input struct {
	Up       bool
	Down     bool
	Left     bool
	Right    bool
	Jump     bool
	Shoot    bool
	Special  bool
	CanShoot bool
	CanClimb bool
	CanJump  bool
}

var DefaultInput = Input{CanShoot: true}

type State struct {
	Mode Mode
}

// Lifespan destroys the entity once more than Frames frames passed since
// Created.
type Lifespan struct {
	Frames  int
	Created int
}

// Invulnerable suppresses contact damage for Frames frames after Created.
type Invulnerable struct {
	Frames  int
	Created int
}

// 180 frames = 3 seconds at 60 fps.
var DefaultInvulnerable = Invulnerable{Frames: 180}

type Attacking struct {
	Type        AttackType
	Range       float64
	CanAttack   bool
	IsAttacking bool
	InReach     bool
	Started     int
	Duration    int
	CoolDown    int
}

var DefaultAttacking = Attacking{CanAttack: true}

type Damage struct {
	Amount float64
}

type Draggable struct {
	Dragging bool
}

type GridLocation struct {
	X, Y int
}

type Destroyable struct{}

type Climbable struct{}

// RayCaster is the sight line of an enemy towards its target, kept for the
// debug overlay.
type RayCaster struct {
	Source  geom.Vec2
	Target  geom.Vec2
	Range   float64
	Blocked bool
}

// Enemy keeps the placement parameters an enemy was spawned with.
type Enemy struct {
	Type        string
	Animation   string
	Collision   geom.Vec2
	Speed       geom.Vec2
	Health      float64
	Damage      float64
	Attack      AttackType
	AttackDelay int
	Gravity     float64
}
