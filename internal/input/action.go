// Package input turns raw device events into named START/END actions.
package input

import "github.com/brickrun/platformer/internal/geom"

type Type uint8

const (
	Start Type = iota + 1
	End
)

func (t Type) String() string {
	switch t {
	case Start:
		return "START"
	case End:
		return "END"
	}
	return "NONE"
}

// Action names shared by the play and editor scenes.
const (
	Up              = "UP"
	Down            = "DOWN"
	Left            = "LEFT"
	Right           = "RIGHT"
	Jump            = "JUMP"
	Crouch          = "CROUCH"
	Shoot           = "SHOOT"
	Special         = "SPECIAL"
	Pause           = "PAUSE"
	Quit            = "QUIT"
	Save            = "SAVE"
	ToggleTexture   = "TOGGLE_TEXTURE"
	ToggleCollision = "TOGGLE_COLLISION"
	ToggleGrid      = "TOGGLE_GRID"
	LeftClick       = "LEFT_CLICK"
	RightClick      = "RIGHT_CLICK"
	MouseMove       = "MOUSE_MOVE"
	Place           = "PLACE"
	NextTile        = "NEXT_TILE"
)

// Action is a named intent. Pos is the world position for mouse actions.
type Action struct {
	Name string
	Type Type
	Pos  geom.Vec2
}

func NewAction(name string, t Type) Action {
	return Action{Name: name, Type: t}
}

func NewMouseAction(name string, t Type, pos geom.Vec2) Action {
	return Action{Name: name, Type: t, Pos: pos}
}

// Handler consumes actions. Scenes implement it.
type Handler interface {
	DoAction(a Action)
}

// Bindings maps device keys of type K to action names. Each scene
// registers its own set.
type Bindings[K comparable] struct {
	byKey map[K]string
	order []K
}

func NewBindings[K comparable]() *Bindings[K] {
	return &Bindings[K]{byKey: make(map[K]string)}
}

// Register binds key to name, replacing an earlier binding of the key.
func (b *Bindings[K]) Register(key K, name string) {
	if _, ok := b.byKey[key]; !ok {
		b.order = append(b.order, key)
	}
	b.byKey[key] = name
}

func (b *Bindings[K]) Lookup(key K) (string, bool) {
	name, ok := b.byKey[key]
	return name, ok
}

// Keys lists bound keys in registration order.
func (b *Bindings[K]) Keys() []K {
	return b.order
}

func (b *Bindings[K]) Len() int { return len(b.order) }
