// Package level holds decoded level descriptions, their text format and
// the file-backed store.
package level

import (
	"github.com/brickrun/platformer/internal/component"
	"github.com/brickrun/platformer/internal/core/ecs"
	"github.com/brickrun/platformer/internal/geom"
)

// Placement is a static grid object: a Tile, Decoration, Ladder or
// Destroyable block.
type Placement struct {
	Tag       ecs.Tag
	Animation string
	X, Y      int
}

// Enemy is an enemy spawn with its combat parameters.
type Enemy struct {
	Type        string
	Animation   string
	X, Y        int
	Collision   geom.Vec2
	Speed       geom.Vec2
	Health      float64
	Damage      float64
	Attack      component.AttackType
	AttackDelay int
	Gravity     float64
}

// Player is the player spawn. Speed.Y is the jump impulse.
type Player struct {
	X, Y      int
	Collision geom.Vec2
	Speed     geom.Vec2
	MaxSpeed  float64
	Gravity   float64
	Health    float64
	Weapon    string
}

// Level is a decoded level file in record order per kind.
type Level struct {
	Placements []Placement
	Enemies    []Enemy
	Player     *Player
}

// Len is the number of records.
func (l *Level) Len() int {
	n := len(l.Placements) + len(l.Enemies)
	if l.Player != nil {
		n++
	}
	return n
}

// placementTags are the tags a Placement record may carry.
var placementTags = map[ecs.Tag]bool{
	component.TagTile:        true,
	component.TagDecoration:  true,
	component.TagLadder:      true,
	component.TagDestroyable: true,
}

// IsPlacementTag reports whether t is written as a placement record.
func IsPlacementTag(t ecs.Tag) bool { return placementTags[t] }

// DefaultPlayer is used when a level has no Player record.
var DefaultPlayer = Player{
	X:         2,
	Y:         2,
	Collision: geom.Vec2{X: 48, Y: 56},
	Speed:     geom.Vec2{X: 5, Y: 12},
	MaxSpeed:  15,
	Gravity:   0.75,
	Health:    100,
	Weapon:    "Buster",
}
