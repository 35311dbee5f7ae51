package component

import (
	"strings"

	"github.com/brickrun/platformer/internal/core/ecs"
)

// Entity classifications. Strings only appear at the level-file boundary.
const (
	TagPlayer ecs.Tag = iota + 1
	TagEnemy
	TagTile
	TagBullet
	TagLadder
	TagDecoration
	TagDestroyable
	TagDefault
)

var tagNames = map[ecs.Tag]string{
	TagPlayer:      "Player",
	TagEnemy:       "Enemy",
	TagTile:        "Tile",
	TagBullet:      "Bullet",
	TagLadder:      "Ladder",
	TagDecoration:  "Decoration",
	TagDestroyable: "Destroyable",
	TagDefault:     "Default",
}

// TagName returns the level-file name of a tag.
func TagName(t ecs.Tag) string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return "None"
}

// ParseTag maps a level-file name to its tag, ignoring case.
func ParseTag(s string) (ecs.Tag, bool) {
	for t, name := range tagNames {
		if strings.EqualFold(name, s) {
			return t, true
		}
	}
	return ecs.TagNone, false
}

// IsSolid reports whether entities with the tag block movement.
func IsSolid(t ecs.Tag) bool {
	return t == TagTile || t == TagDestroyable
}

// SolidTags lists the tags resolved against moving bodies.
var SolidTags = []ecs.Tag{TagTile, TagDestroyable}
