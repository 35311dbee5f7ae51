package world_test

import (
	"testing"

	"github.com/brickrun/platformer/internal/component"
	"github.com/brickrun/platformer/internal/config"
	"github.com/brickrun/platformer/internal/core/ecs"
	"github.com/brickrun/platformer/internal/core/event"
	"github.com/brickrun/platformer/internal/geom"
	"github.com/brickrun/platformer/internal/level"
	"github.com/brickrun/platformer/internal/world"
	"github.com/brickrun/platformer/internal/world/worldtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolidGridQueryOrderAndDedupe(t *testing.T) {
	ws := worldtest.New(t)
	g := world.NewSolidGrid(64, 64)
	a := ws.Manager.Create(component.TagTile)
	b := ws.Manager.Create(component.TagTile)
	far := ws.Manager.Create(component.TagTile)

	// b spans four cells, a only one
	g.Add(b, geom.Rect{Min: geom.V(32, 32), Size: geom.V(64, 64)})
	g.Add(a, geom.Rect{Min: geom.V(0, 0), Size: geom.V(32, 32)})
	g.Add(far, geom.Rect{Min: geom.V(1000, 1000), Size: geom.V(10, 10)})

	got := g.Query(geom.Rect{Min: geom.V(0, 0), Size: geom.V(128, 128)})
	assert.Equal(t, []ecs.Entity{b, a}, got, "insertion order, one entry each")

	b.Destroy()
	assert.Equal(t, []ecs.Entity{a}, g.Query(geom.Rect{Min: geom.V(0, 0), Size: geom.V(128, 128)}))

	before := g.Cells()
	g.Prune()
	assert.Less(t, g.Cells(), before)
	assert.Equal(t, []ecs.Entity{far}, g.Query(geom.Rect{Min: geom.V(990, 990), Size: geom.V(20, 20)}))

	g.Remove(far)
	assert.Empty(t, g.Query(geom.Rect{Min: geom.V(990, 990), Size: geom.V(20, 20)}))
	assert.Equal(t, 1, g.Cells())

	g.Reset()
	assert.Zero(t, g.Cells())
}

func TestGridToMidPixel(t *testing.T) {
	ws := worldtest.New(t)
	pos := ws.GridToMidPixel(2, 1, geom.V(64, 64), 1)
	assert.Equal(t, geom.V(160, 672), pos)

	gx, gy := ws.MouseToGrid(pos)
	assert.Equal(t, 2, gx)
	assert.Equal(t, 1, gy)

	// a sprite shorter than a cell still rests on the cell bottom
	small := ws.GridToMidPixel(0, 0, geom.V(16, 16), 1)
	assert.Equal(t, geom.V(8, 760), small)
}

func TestPopulateSpawnsEveryRecord(t *testing.T) {
	ws := worldtest.New(t)
	lvl := &level.Level{
		Placements: append(worldtest.Floor(3),
			level.Placement{Tag: component.TagDestroyable, Animation: "Brick", X: 1, Y: 3},
			level.Placement{Tag: component.TagLadder, Animation: "Ladder", X: 2, Y: 1},
			level.Placement{Tag: component.TagDecoration, Animation: "Cloud", X: 4, Y: 8}),
		Enemies: []level.Enemy{worldtest.Goomba(5, 1, 20)},
		Player:  worldtest.Player(0, 1),
	}
	assert.Equal(t, 8, ws.Populate(lvl))
	assert.Equal(t, 8, ws.Manager.Pending())
	assert.Empty(t, ws.Manager.Entities(), "visible after the next update")

	ws.Manager.Update()
	assert.Len(t, ws.Manager.Entities(), 8)
	assert.Len(t, ws.Manager.ByTag(component.TagTile), 3)
	require.True(t, ws.Player.Active())
	assert.Equal(t, component.TagPlayer, ws.Player.Tag())
	assert.True(t, ws.C.Input.Has(ws.Player))

	brick := ws.Manager.ByTag(component.TagDestroyable)[0]
	assert.True(t, ws.C.Destroyable.Has(brick))
	ladder := ws.Manager.ByTag(component.TagLadder)[0]
	assert.True(t, ws.C.Climbable.Has(ladder))
	cloud := ws.Manager.ByTag(component.TagDecoration)[0]
	assert.False(t, ws.C.BoundingBox.Has(cloud), "decorations do not collide")

	// tiles and destroyables are in the broadphase, ladders are not
	all := ws.Solids().Query(geom.Rect{Size: ws.ScreenSize()})
	assert.Len(t, all, 4)
}

func TestPopulateStopsAtCapacity(t *testing.T) {
	cfg := config.Defaults()
	cfg.Pool.MaxEntities = 4
	ws := worldtest.New(t, worldtest.Options{Config: cfg})

	created := ws.Populate(&level.Level{Placements: worldtest.Floor(6), Player: worldtest.Player(0, 1)})
	assert.Equal(t, 4, created)
	assert.False(t, ws.Player.Valid(), "no slot left for the player")
	assert.Equal(t, 4, ws.Pool.Count())
}

func TestLevelRebuildsRecords(t *testing.T) {
	ws := worldtest.New(t)
	goomba := worldtest.Goomba(5, 1, 20)
	goomba.Attack = component.AttackRush
	goomba.AttackDelay = 30
	goomba.Speed = geom.V(2, 0)
	lvl := &level.Level{
		Placements: []level.Placement{
			{Tag: component.TagTile, Animation: "Ground", X: 0, Y: 0},
			{Tag: component.TagDestroyable, Animation: "Brick", X: 3, Y: 4},
			{Tag: component.TagDecoration, Animation: "NoSuchSprite", X: 7, Y: 9},
		},
		Enemies: []level.Enemy{goomba},
		Player:  worldtest.Player(2, 2),
	}
	ws.Populate(lvl)
	ws.Manager.Update()

	got := ws.Level()
	assert.Equal(t, lvl, got, "unknown sprites keep their recorded name")
	assert.Equal(t, level.Checksum(lvl), level.Checksum(got))
}

func TestDrawablesFollowLiveOrder(t *testing.T) {
	ws := worldtest.New(t)
	ws.Populate(&level.Level{Placements: worldtest.Floor(2), Player: worldtest.Player(0, 1)})
	ws.Manager.Update()

	ds := ws.Drawables()
	require.Len(t, ds, 3)
	assert.Equal(t, component.TagTile, ds[0].Tag)
	assert.Equal(t, "Ground", ds[0].Animation)
	assert.Equal(t, "Placeholder", ds[0].Texture)
	assert.Equal(t, geom.V(64, 64), ds[0].Box)

	p := ds[2]
	assert.Equal(t, component.TagPlayer, p.Tag)
	assert.Equal(t, "MegaIdle", p.Animation)
	assert.Equal(t, geom.V(48, 56), p.Box)
	assert.Equal(t, component.ModeIdle, p.Mode)

	h, ok := ws.PlayerHealth()
	require.True(t, ok)
	assert.Equal(t, 100.0, h.Current)
}

func TestCameraCenter(t *testing.T) {
	ws := worldtest.New(t)
	assert.Equal(t, geom.V(640, 384), ws.CameraCenter(), "no player")

	ws.Populate(&level.Level{Player: worldtest.Player(0, 1)})
	ws.Manager.Update()
	assert.Equal(t, geom.V(640, 384), ws.CameraCenter(), "never left of the screen")

	ws.C.Transform.Get(ws.Player).Pos.X = 2000
	assert.Equal(t, geom.V(2000, 384), ws.CameraCenter())
}

func TestKill(t *testing.T) {
	ws := worldtest.New(t)
	var died []event.EntityDied
	event.Subscribe(ws.Bus, func(ev event.EntityDied) { died = append(died, ev) })

	tile := ws.SpawnPlacement(level.Placement{Tag: component.TagTile, Animation: "Ground"})
	brick := ws.SpawnPlacement(level.Placement{Tag: component.TagDestroyable, Animation: "Brick", X: 1})
	ws.Manager.Update()

	ws.Kill(tile)
	assert.False(t, tile.Active(), "no State: destroyed at once")
	ws.Kill(brick)
	assert.True(t, brick.Active())
	assert.False(t, ws.Alive(brick))
	assert.Equal(t, component.ModeDead, ws.C.State.Get(brick).Mode)

	assert.Empty(t, died, "events wait for the next frame")
	ws.Bus.SwapBuffers()
	ws.Bus.DispatchAll()
	require.Len(t, died, 2)
	assert.Equal(t, component.TagTile, died[0].Tag)
	assert.Equal(t, brick.ID(), died[1].EntityID)
}

func TestResetDropsQueuedEvents(t *testing.T) {
	ws := worldtest.New(t)
	var died []event.EntityDied
	event.Subscribe(ws.Bus, func(ev event.EntityDied) { died = append(died, ev) })

	tile := ws.SpawnPlacement(level.Placement{Tag: component.TagTile, Animation: "Ground"})
	ws.Manager.Update()
	ws.Kill(tile)
	require.Equal(t, 1, ws.Bus.Pending())

	ws.Reset()
	assert.Zero(t, ws.Bus.Pending())
	ws.Bus.SwapBuffers()
	ws.Bus.DispatchAll()
	assert.Empty(t, died, "the next level never sees the old deaths")
}

func TestDamageEntity(t *testing.T) {
	ws := worldtest.New(t)
	enemy := ws.SpawnEnemy(worldtest.Goomba(1, 1, 15))
	ws.Manager.Update()

	assert.False(t, ws.DamageEntity(enemy, 10, "bullet", ecs.Entity{}))
	assert.Equal(t, 5.0, ws.C.Health.Get(enemy).Current)
	assert.True(t, ws.DamageEntity(enemy, 10, "bullet", ecs.Entity{}))
	assert.Equal(t, component.ModeDead, ws.C.State.Get(enemy).Mode)
	assert.False(t, ws.DamageEntity(enemy, 10, "bullet", ecs.Entity{}), "already dead")
}

func TestFaceKeepsScaleMagnitude(t *testing.T) {
	ws := worldtest.New(t)
	e := ws.Manager.Create(component.TagDecoration)
	tr := ws.C.Transform.Add(e, component.NewTransform(geom.V(0, 0)))
	tr.Scale = geom.V(2, 2)

	ws.Face(e, -3)
	assert.Equal(t, -2.0, tr.Scale.X)
	ws.Face(e, 0)
	assert.Equal(t, -2.0, tr.Scale.X, "zero keeps the current facing")
	ws.Face(e, 1)
	assert.Equal(t, 2.0, tr.Scale.X)
	assert.Equal(t, geom.V(1, 0), tr.Facing)
}
