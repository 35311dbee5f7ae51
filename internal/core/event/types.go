package event

import (
	"github.com/brickrun/platformer/internal/core/ecs"
	"github.com/brickrun/platformer/internal/geom"
)

// EntityDied is emitted when an entity enters the DEAD state.
type EntityDied struct {
	EntityID ecs.EntityID
	Tag      ecs.Tag
	Position geom.Vec2
}

// PlayerDamaged is emitted when the player loses health.
type PlayerDamaged struct {
	Amount float64
	Health float64
	Source ecs.EntityID
	Cause  string // "contact", "melee", "rush"
}

// PlayerRespawned is emitted after the player is moved back to its spawn cell.
type PlayerRespawned struct {
	Position geom.Vec2
	Healed   bool
}

// BulletFired is emitted when the player spawns a bullet.
type BulletFired struct {
	EntityID ecs.EntityID
	Position geom.Vec2
	Facing   float64
}
