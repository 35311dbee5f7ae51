package system

import (
	"testing"

	"github.com/brickrun/platformer/internal/anim"
	"github.com/brickrun/platformer/internal/component"
	"github.com/brickrun/platformer/internal/core/ecs"
	"github.com/brickrun/platformer/internal/core/event"
	coresys "github.com/brickrun/platformer/internal/core/system"
	"github.com/brickrun/platformer/internal/geom"
	"github.com/brickrun/platformer/internal/level"
	"github.com/brickrun/platformer/internal/scripting"
	"github.com/brickrun/platformer/internal/world"
	"github.com/brickrun/platformer/internal/world/worldtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newRunner(ws *world.State) *coresys.Runner {
	r := coresys.NewRunner()
	RegisterAll(r, ws)
	return r
}

func simulate(ws *world.State, r *coresys.Runner, frames int) {
	for range frames {
		r.Tick(ws.Frame)
		ws.Frame++
	}
}

// loaded builds a world from lvl and commits it.
func loaded(t *testing.T, lvl *level.Level) (*world.State, *coresys.Runner) {
	t.Helper()
	ws := worldtest.New(t)
	ws.Populate(lvl)
	r := newRunner(ws)
	simulate(ws, r, 1)
	return ws, r
}

func TestRegisterAllOrder(t *testing.T) {
	ws := worldtest.New(t)
	var phases []coresys.Phase
	for _, s := range newRunner(ws).Systems() {
		phases = append(phases, s.Phase())
	}
	assert.Equal(t, []coresys.Phase{
		coresys.PhaseCommit,
		coresys.PhaseInput,
		coresys.PhaseMovement,
		coresys.PhaseTimers,
		coresys.PhaseCollision,
		coresys.PhaseStatus,
		coresys.PhaseAnimation,
	}, phases)
}

func TestPlayerLandsOnFloor(t *testing.T) {
	ws, r := loaded(t, &level.Level{Placements: worldtest.Floor(4), Player: worldtest.Player(0, 1)})
	simulate(ws, r, 60)

	c := ws.C
	p := ws.Player
	tr := c.Transform.Get(p)
	// floor top is at 768-64, the player box is 56 high
	assert.InDelta(t, 704-28, tr.Pos.Y, 1e-9)
	assert.Zero(t, tr.Velocity.Y)
	assert.True(t, c.Gravity.Get(p).Grounded)
	assert.Equal(t, c.Gravity.Get(p).Base, c.Gravity.Get(p).Value)
	assert.True(t, c.Input.Get(p).CanJump)
	assert.Equal(t, component.ModeIdle, c.State.Get(p).Mode)
	assert.Equal(t, "MegaIdle", c.Animation.Get(p).Animation.Name())
}

func TestGravityRampsWhileAirborne(t *testing.T) {
	ws, r := loaded(t, &level.Level{Placements: worldtest.Floor(4), Player: worldtest.Player(1, 10)})
	g := ws.C.Gravity.Get(ws.Player)
	ramp := ws.Cfg.Physics.GravityRamp
	limit := ws.Cfg.Physics.MaxGravity
	require.False(t, g.Grounded)

	capped, landed := false, false
	for range 120 {
		prev := g.Value
		simulate(ws, r, 1)
		if g.Grounded {
			assert.Equal(t, g.Base, g.Value, "reset on the landing frame")
			landed = true
			break
		}
		assert.InDelta(t, min(prev*ramp, limit), g.Value, 1e-9)
		assert.LessOrEqual(t, g.Value, limit)
		capped = capped || g.Value == limit
	}
	assert.True(t, landed)
	assert.True(t, capped, "a long fall reaches the cap")
}

func TestJumpAndRun(t *testing.T) {
	ws, r := loaded(t, &level.Level{Placements: worldtest.Floor(10), Player: worldtest.Player(1, 1)})
	simulate(ws, r, 30)
	c := ws.C
	p := ws.Player
	startX := c.Transform.Get(p).Pos.X

	in := c.Input.Get(p)
	in.Right = true
	in.Jump = true
	simulate(ws, r, 1)
	tr := c.Transform.Get(p)
	assert.Less(t, tr.Velocity.Y, 0.0, "jump impulse points up")
	assert.False(t, in.CanJump)
	assert.Equal(t, component.ModeJumping, c.State.Get(p).Mode)
	assert.Greater(t, tr.Pos.X, startX)

	simulate(ws, r, 5)
	in.Jump = false
	simulate(ws, r, 60)
	assert.True(t, c.Gravity.Get(p).Grounded)
	assert.Equal(t, component.ModeRunning, c.State.Get(p).Mode)
	assert.Equal(t, "MegaRun", c.Animation.Get(p).Animation.Name())

	in.Right = false
	in.Left = true
	simulate(ws, r, 1)
	assert.Equal(t, -1.0, tr.Scale.X, "facing follows the direction")
}

func TestVelocityIsClamped(t *testing.T) {
	ws, r := loaded(t, &level.Level{Player: worldtest.Player(1, 5)})
	p := ws.Player
	ws.C.Transform.Get(p).Velocity = geom.V(0, 500)
	simulate(ws, r, 1)
	assert.Equal(t, ws.PlayerConfig.MaxSpeed, ws.C.Transform.Get(p).Velocity.Y)
}

func TestResolveIsIdempotent(t *testing.T) {
	ws := worldtest.New(t)
	c := ws.C
	tile := ws.SpawnPlacement(level.Placement{Tag: component.TagTile, Animation: "Ground", X: 0, Y: 0})
	body := ws.Manager.Create(component.TagEnemy)
	c.Transform.Add(body, component.NewTransform(geom.V(40, 700)))
	c.Transform.Get(body).Prev = geom.V(40, 690)
	c.BoundingBox.Add(body, component.NewBoundingBox(geom.V(32, 32)))

	require.True(t, Resolve(c, body, tile))
	after := *c.Transform.Get(body)
	assert.InDelta(t, 704-16, after.Pos.Y, 1e-9)

	assert.False(t, Resolve(c, body, tile))
	assert.Equal(t, after, *c.Transform.Get(body))
}

func TestResolveSideAndCeiling(t *testing.T) {
	ws := worldtest.New(t)
	c := ws.C
	tile := ws.SpawnPlacement(level.Placement{Tag: component.TagTile, Animation: "Brick", X: 2, Y: 2})
	tp := c.Transform.Get(tile).Pos

	side := ws.Manager.Create(component.TagEnemy)
	c.Transform.Add(side, component.NewTransform(geom.V(tp.X-40, tp.Y)))
	c.Transform.Get(side).Prev = geom.V(tp.X-50, tp.Y)
	c.Transform.Get(side).Velocity = geom.V(5, 0)
	c.BoundingBox.Add(side, component.NewBoundingBox(geom.V(32, 32)))
	require.True(t, Resolve(c, side, tile))
	assert.InDelta(t, tp.X-48, c.Transform.Get(side).Pos.X, 1e-9)
	assert.Zero(t, c.Transform.Get(side).Velocity.X)

	head := ws.Manager.Create(component.TagEnemy)
	c.Transform.Add(head, component.NewTransform(geom.V(tp.X, tp.Y+40)))
	c.Transform.Get(head).Prev = geom.V(tp.X, tp.Y+50)
	c.Transform.Get(head).Velocity = geom.V(0, -6)
	c.BoundingBox.Add(head, component.NewBoundingBox(geom.V(32, 32)))
	require.True(t, Resolve(c, head, tile))
	assert.InDelta(t, tp.Y+48, c.Transform.Get(head).Pos.Y, 1e-9)
	assert.Zero(t, c.Transform.Get(head).Velocity.Y)
}

func TestBulletKillsEnemy(t *testing.T) {
	ws, r := loaded(t, &level.Level{
		Placements: worldtest.Floor(8),
		Enemies:    []level.Enemy{worldtest.Goomba(3, 1, 5)},
		Player:     worldtest.Player(0, 1),
	})
	var died []ecs.Tag
	var fired int
	event.Subscribe(ws.Bus, func(ev event.EntityDied) { died = append(died, ev.Tag) })
	event.Subscribe(ws.Bus, func(event.BulletFired) { fired++ })

	simulate(ws, r, 20)
	enemy := ws.Manager.ByTag(component.TagEnemy)[0]
	ws.C.Input.Get(ws.Player).Shoot = true
	simulate(ws, r, 40)

	assert.Equal(t, 1, fired, "one bullet per press")
	assert.ElementsMatch(t, []ecs.Tag{component.TagBullet, component.TagEnemy}, died)
	assert.False(t, enemy.Active(), "the death clip played out")
	assert.Empty(t, ws.Manager.ByTag(component.TagBullet))
}

func TestBulletBreaksDestroyable(t *testing.T) {
	ws, r := loaded(t, &level.Level{
		Placements: append(worldtest.Floor(8),
			level.Placement{Tag: component.TagDestroyable, Animation: "Brick", X: 3, Y: 1}),
		Player: worldtest.Player(0, 1),
	})
	simulate(ws, r, 20)
	brick := ws.Manager.ByTag(component.TagDestroyable)[0]
	ws.C.Input.Get(ws.Player).Shoot = true
	simulate(ws, r, 40)
	assert.False(t, brick.Active())
}

func TestCommitPrunesDestroyedSolids(t *testing.T) {
	brick := level.Placement{Tag: component.TagDestroyable, Animation: "Brick", X: 5, Y: 4}
	ws, r := loaded(t, &level.Level{
		Placements: append(worldtest.Floor(4), brick),
		Player:     worldtest.Player(0, 1),
	})
	bricks := ws.Manager.ByTag(component.TagDestroyable)
	require.Len(t, bricks, 1)
	before := ws.Solids().Cells()

	bricks[0].Destroy()
	simulate(ws, r, 1)
	assert.Less(t, ws.Solids().Cells(), before)
	assert.Empty(t, ws.Manager.ByTag(component.TagDestroyable))
}

func TestLifespanBoundary(t *testing.T) {
	ws := worldtest.New(t)
	e := ws.Manager.Create(component.TagBullet)
	ws.C.Lifespan.Add(e, component.Lifespan{Frames: 45, Created: 100})
	ws.Manager.Update()
	s := NewLifespanSystem(ws)

	s.Update(145)
	assert.True(t, e.Active())
	s.Update(146)
	assert.False(t, e.Active())
}

func TestInvulnerabilityWindow(t *testing.T) {
	ws, _ := loaded(t, &level.Level{Player: worldtest.Player(1, 1)})
	p := ws.Player
	ws.Frame = 10

	require.True(t, ws.DamagePlayer(10, "contact", ecs.Entity{}))
	assert.Equal(t, 90.0, ws.C.Health.Get(p).Current)
	assert.False(t, ws.DamagePlayer(10, "contact", ecs.Entity{}), "invulnerable")
	assert.Equal(t, 90.0, ws.C.Health.Get(p).Current)

	s := NewLifespanSystem(ws)
	frames := ws.Cfg.Combat.InvulnerableFrames
	s.Update(10 + frames - 1)
	assert.True(t, ws.C.Invulnerable.Has(p))
	s.Update(10 + frames)
	assert.False(t, ws.C.Invulnerable.Has(p))
	assert.True(t, ws.DamagePlayer(10, "contact", ecs.Entity{}))
}

func TestContactDamage(t *testing.T) {
	ws, r := loaded(t, &level.Level{
		Placements: worldtest.Floor(6),
		Enemies:    []level.Enemy{worldtest.Goomba(1, 1, 20)},
		Player:     worldtest.Player(1, 1),
	})
	var hits []event.PlayerDamaged
	event.Subscribe(ws.Bus, func(ev event.PlayerDamaged) { hits = append(hits, ev) })

	simulate(ws, r, 30)
	require.Len(t, hits, 1, "one hit per invulnerability window")
	assert.Equal(t, "contact", hits[0].Cause)
	assert.Equal(t, 90.0, ws.C.Health.Get(ws.Player).Current)
}

func TestRespawnAfterFall(t *testing.T) {
	ws, r := loaded(t, &level.Level{Player: worldtest.Player(2, 1)})
	var respawns []event.PlayerRespawned
	event.Subscribe(ws.Bus, func(ev event.PlayerRespawned) { respawns = append(respawns, ev) })

	p := ws.Player
	spawn := ws.GridToMidPixel(2, 1, geom.V(64, 64), 1)
	ws.C.Transform.Get(p).Pos.Y = 2000
	ws.C.Health.Get(p).Current = 50
	simulate(ws, r, 2)

	require.Len(t, respawns, 1)
	assert.False(t, respawns[0].Healed)
	assert.Equal(t, spawn, respawns[0].Position)
	assert.Equal(t, 50.0, ws.C.Health.Get(p).Current)
}

func TestRespawnHealsWhenOutOfHealth(t *testing.T) {
	ws, r := loaded(t, &level.Level{Player: worldtest.Player(2, 1)})
	p := ws.Player
	ws.C.Health.Get(p).Current = 0
	simulate(ws, r, 1)
	assert.Equal(t, ws.C.Health.Get(p).Max, ws.C.Health.Get(p).Current)
	assert.Equal(t, component.ModeJumping, ws.C.State.Get(p).Mode, "airborne right after respawn")
}

func TestLethalContactRespawnsWithShippedScripts(t *testing.T) {
	engine, err := scripting.NewEngine("../../scripts", zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(engine.Close)
	ws := worldtest.New(t, worldtest.Options{Script: engine})

	goomba := worldtest.Goomba(1, 1, 20)
	goomba.Damage = 150
	ws.Populate(&level.Level{
		Placements: worldtest.Floor(6),
		Enemies:    []level.Enemy{goomba},
		Player:     worldtest.Player(1, 1),
	})
	var respawns []event.PlayerRespawned
	event.Subscribe(ws.Bus, func(ev event.PlayerRespawned) { respawns = append(respawns, ev) })
	r := newRunner(ws)
	simulate(ws, r, 5)

	require.NotEmpty(t, respawns)
	assert.True(t, respawns[0].Healed)
	h := ws.C.Health.Get(ws.Player)
	assert.Equal(t, h.Max, h.Current)
}

func TestLeftEdgeClamp(t *testing.T) {
	ws, r := loaded(t, &level.Level{Placements: worldtest.Floor(4), Player: worldtest.Player(0, 1)})
	p := ws.Player
	ws.C.Input.Get(p).Left = true
	simulate(ws, r, 30)
	assert.Equal(t, ws.C.BoundingBox.Get(p).Half.X, ws.C.Transform.Get(p).Pos.X)
}

func TestLadderClimb(t *testing.T) {
	ws, r := loaded(t, &level.Level{
		Placements: append(worldtest.Floor(4),
			level.Placement{Tag: component.TagLadder, Animation: "Ladder", X: 1, Y: 1},
			level.Placement{Tag: component.TagLadder, Animation: "Ladder", X: 1, Y: 2}),
		Player: worldtest.Player(1, 1),
	})
	simulate(ws, r, 30)
	p := ws.Player
	in := ws.C.Input.Get(p)
	require.True(t, in.CanClimb)

	y := ws.C.Transform.Get(p).Pos.Y
	in.Up = true
	simulate(ws, r, 1)
	assert.InDelta(t, y-ws.Cfg.Physics.ClimbSpeed, ws.C.Transform.Get(p).Pos.Y, 1e-9)
	assert.Equal(t, component.ModeClimbing, ws.C.State.Get(p).Mode)

	// Mega has no climb clip: the fallback plays and must keep looping
	a := ws.C.Animation.Get(p)
	assert.Equal(t, "DeadPlaceholder", a.Animation.Name())
	assert.True(t, a.Repeat)
	simulate(ws, r, 5)
	assert.True(t, p.Active())
}

func TestStatusDoesNotRestartSameClip(t *testing.T) {
	ws, r := loaded(t, &level.Level{Placements: worldtest.Floor(20), Player: worldtest.Player(1, 1)})
	simulate(ws, r, 30)
	p := ws.Player
	ws.C.Input.Get(p).Right = true
	simulate(ws, r, 3)
	before := ws.C.Animation.Get(p).Animation.Counter()
	simulate(ws, r, 3)
	assert.Equal(t, before+3, ws.C.Animation.Get(p).Animation.Counter())
}

func TestNonRepeatingAnimationDestroysEntity(t *testing.T) {
	ws := worldtest.New(t)
	e := ws.Manager.Create(component.TagDecoration)
	a, err := ws.Assets.Animation("BusterDead")
	require.NoError(t, err)
	ws.C.Animation.Add(e, component.Animation{Animation: a})
	ws.Manager.Update()

	s := NewAnimationSystem(ws)
	for range a.Duration() - 1 {
		s.Update(0)
	}
	assert.True(t, e.Active())
	s.Update(0)
	assert.False(t, e.Active())
}

func TestDeadEntityPlaysDeathClipOnce(t *testing.T) {
	ws, r := loaded(t, &level.Level{
		Placements: worldtest.Floor(8),
		Enemies:    []level.Enemy{worldtest.Goomba(5, 1, 20)},
		Player:     worldtest.Player(0, 1),
	})
	enemy := ws.Manager.ByTag(component.TagEnemy)[0]
	ws.Kill(enemy)
	simulate(ws, r, 1)

	a := ws.C.Animation.Get(enemy)
	assert.Equal(t, "GoombaDead", a.Animation.Name())
	assert.False(t, a.Repeat)
	assert.True(t, ws.C.BoundingBox.Get(enemy).Size.IsZero())
	assert.False(t, ws.C.Gravity.Has(enemy))

	dead, err := ws.Assets.Animation("GoombaDead")
	require.NoError(t, err)
	simulate(ws, r, dead.Duration())
	assert.False(t, enemy.Active())
}

func TestMeleeAttackCycle(t *testing.T) {
	goomba := worldtest.Goomba(3, 1, 20)
	goomba.Attack = component.AttackMelee
	goomba.AttackDelay = 20
	ws, r := loaded(t, &level.Level{
		Placements: worldtest.Floor(8),
		Enemies:    []level.Enemy{goomba},
		Player:     worldtest.Player(0, 1),
	})
	enemy := ws.Manager.ByTag(component.TagEnemy)[0]
	a := ws.C.Attacking.Get(enemy)
	require.Equal(t, 20, a.CoolDown)

	simulate(ws, r, 5)
	require.True(t, a.IsAttacking)
	started := a.Started
	assert.False(t, a.CanAttack)
	assert.Equal(t, component.ModeShooting, ws.C.State.Get(enemy).Mode)
	assert.Equal(t, 90.0, ws.C.Health.Get(ws.Player).Current)
	assert.Equal(t, -1.0, ws.C.Transform.Get(enemy).Scale.X, "faces the player")

	for ws.Frame <= started+a.Duration {
		simulate(ws, r, 1)
	}
	assert.False(t, a.IsAttacking)
	assert.False(t, a.CanAttack)

	for ws.Frame < started+a.Duration+a.CoolDown {
		simulate(ws, r, 1)
	}
	assert.False(t, a.CanAttack)
	simulate(ws, r, 1)
	// re-armed in the timers phase, then attacks again next frame
	assert.True(t, a.CanAttack || a.IsAttacking)
}

func TestSightLineBlockedBySolid(t *testing.T) {
	goomba := worldtest.Goomba(4, 1, 20)
	goomba.Attack = component.AttackRush
	goomba.Speed = geom.V(2, 0)
	ws, r := loaded(t, &level.Level{
		Placements: append(worldtest.Floor(8),
			level.Placement{Tag: component.TagTile, Animation: "Brick", X: 2, Y: 1}),
		Enemies: []level.Enemy{goomba},
		Player:  worldtest.Player(0, 1),
	})
	simulate(ws, r, 5)
	enemy := ws.Manager.ByTag(component.TagEnemy)[0]
	a := ws.C.Attacking.Get(enemy)
	assert.False(t, a.InReach)
	assert.True(t, ws.C.RayCaster.Get(enemy).Blocked)
	assert.False(t, a.IsAttacking)
}

func TestRushAttack(t *testing.T) {
	goomba := worldtest.Goomba(3, 1, 20)
	goomba.Attack = component.AttackRush
	goomba.Speed = geom.V(2, 0)
	ws, r := loaded(t, &level.Level{
		Placements: worldtest.Floor(8),
		Enemies:    []level.Enemy{goomba},
		Player:     worldtest.Player(0, 1),
	})
	simulate(ws, r, 3)
	enemy := ws.Manager.ByTag(component.TagEnemy)[0]
	require.True(t, ws.C.Attacking.Get(enemy).IsAttacking)
	assert.Equal(t, component.ModeRush, ws.C.State.Get(enemy).Mode)
	assert.Equal(t, -2*ws.Cfg.Combat.RushFactor, ws.C.Transform.Get(enemy).Velocity.X)

	// Goomba has no rush clip: the fallback loops while it dashes
	a := ws.C.Animation.Get(enemy)
	assert.Equal(t, "DeadPlaceholder", a.Animation.Name())
	assert.True(t, a.Repeat)
	assert.False(t, a.Set.Has(anim.KindRush))
}
