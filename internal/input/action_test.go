package input

import (
	"testing"

	"github.com/brickrun/platformer/internal/geom"
	"github.com/stretchr/testify/assert"
)

func TestBindings(t *testing.T) {
	b := NewBindings[string]()
	b.Register("w", Up)
	b.Register("space", Jump)
	b.Register("w", Jump)

	name, ok := b.Lookup("w")
	assert.True(t, ok)
	assert.Equal(t, Jump, name, "rebinding replaces the action")
	_, ok = b.Lookup("q")
	assert.False(t, ok)

	assert.Equal(t, []string{"w", "space"}, b.Keys(), "registration order, no duplicates")
	assert.Equal(t, 2, b.Len())
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "START", Start.String())
	assert.Equal(t, "END", End.String())
	assert.Equal(t, "NONE", Type(0).String())
}

func TestMouseAction(t *testing.T) {
	a := NewMouseAction(LeftClick, Start, geom.V(3, 4))
	assert.Equal(t, Action{Name: LeftClick, Type: Start, Pos: geom.V(3, 4)}, a)
	assert.Equal(t, geom.Vec2{}, NewAction(Jump, End).Pos)
}
