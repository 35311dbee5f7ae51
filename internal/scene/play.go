package scene

import (
	"context"
	"errors"
	"fmt"

	"github.com/brickrun/platformer/internal/anim"
	"github.com/brickrun/platformer/internal/component"
	coresys "github.com/brickrun/platformer/internal/core/system"
	"github.com/brickrun/platformer/internal/geom"
	"github.com/brickrun/platformer/internal/input"
	"github.com/brickrun/platformer/internal/level"
	"github.com/brickrun/platformer/internal/system"
	"github.com/brickrun/platformer/internal/world"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Play runs the gameplay systems over a loaded level.
type Play struct {
	world  *world.State
	runner *coresys.Runner
	store  level.Store
	name   string
	paused bool
	ended  bool
	flags  RenderFlags
	log    *zap.Logger
}

func NewPlay(ws *world.State, store level.Store) *Play {
	if ws.RunID == "" {
		ws.RunID = uuid.NewString()
	}
	r := coresys.NewRunner()
	system.RegisterAll(r, ws)
	return &Play{
		world:  ws,
		runner: r,
		store:  store,
		flags:  DefaultRenderFlags,
		log:    ws.Log.With(zap.String("scene", "play"), zap.String("run_id", ws.RunID)),
	}
}

// Load replaces the world's entities with the named level. A level with a
// bad record still loads the records before it; the error is logged and
// not returned.
func (p *Play) Load(ctx context.Context, name string) error {
	lvl, err := p.store.Load(ctx, name)
	if err != nil {
		if lvl == nil || !errors.Is(err, level.ErrMalformed) {
			return fmt.Errorf("load level: %w", err)
		}
		p.log.Warn("level loaded partially", zap.String("level", name), zap.Error(err))
	}
	p.name = name
	p.LoadLevel(lvl)
	return nil
}

// LoadLevel replaces the world's entities with lvl. Entities become visible
// on the first frame.
func (p *Play) LoadLevel(lvl *level.Level) {
	p.world.Reset()
	created := p.world.Populate(lvl)
	p.validate(lvl)
	p.log.Info("level loaded",
		zap.String("level", p.name),
		zap.Int("entities", created))
}

// validate warns about archetypes that would play the fallback clip.
func (p *Play) validate(lvl *level.Level) {
	check := func(base string, kinds ...anim.Kind) {
		if err := p.world.Assets.Validate(base, kinds...); err != nil {
			p.log.Warn("archetype incomplete", zap.Error(err))
		}
	}
	check(p.world.Cfg.Sprites.Player, anim.KindIdle, anim.KindRun, anim.KindJump)
	seen := make(map[string]bool)
	for _, e := range lvl.Enemies {
		base, _ := anim.Classify(e.Animation)
		if seen[base] {
			continue
		}
		seen[base] = true
		kinds := []anim.Kind{anim.KindIdle, anim.KindDead}
		if e.Attack == component.AttackRush {
			kinds = append(kinds, anim.KindRush)
		}
		check(base, kinds...)
	}
}

// Update simulates one frame unless paused or ended. The frame counter
// advances after every system ran.
func (p *Play) Update() {
	if p.paused || p.ended {
		return
	}
	p.runner.Tick(p.world.Frame)
	p.world.Frame++
}

// Simulate runs frames updates.
func (p *Play) Simulate(frames int) {
	for range frames {
		p.Update()
	}
}

// DoAction writes intents to the player's Input. Movement is never changed
// here directly.
func (p *Play) DoAction(a input.Action) {
	in := p.world.C.Input.Get(p.world.Player)
	switch a.Type {
	case input.Start:
		if p.flags.Toggle(a.Name) {
			return
		}
		switch a.Name {
		case input.Pause:
			p.SetPaused(!p.paused)
		case input.Quit:
			p.End()
		case input.Jump:
			in.Jump = true
		case input.Up:
			in.Up = true
		case input.Down, input.Crouch:
			in.Down = true
		case input.Left:
			in.Left = true
		case input.Right:
			in.Right = true
		case input.Shoot:
			in.Shoot = true
		case input.Special:
			in.Special = true
		}
	case input.End:
		switch a.Name {
		case input.Jump:
			in.Jump = false
		case input.Up:
			in.Up = false
		case input.Down, input.Crouch:
			in.Down = false
		case input.Left:
			in.Left = false
		case input.Right:
			in.Right = false
		case input.Shoot:
			in.Shoot = false
			in.CanShoot = true
		case input.Special:
			in.Special = false
		}
	}
}

func (p *Play) SetPaused(paused bool) {
	p.paused = paused
	p.log.Debug("pause", zap.Bool("paused", paused), zap.Int("frame", p.world.Frame))
}

// End stops the scene; the driver switches away on its next update.
func (p *Play) End() {
	if !p.ended {
		p.log.Info("scene ended", zap.Int("frames", p.world.Frame))
	}
	p.ended = true
}

func (p *Play) Paused() bool            { return p.paused }
func (p *Play) Ended() bool             { return p.ended }
func (p *Play) World() *world.State     { return p.world }
func (p *Play) Flags() RenderFlags      { return p.flags }
func (p *Play) Camera() geom.Vec2       { return p.world.CameraCenter() }
func (p *Play) LevelName() string       { return p.name }
func (p *Play) Runner() *coresys.Runner { return p.runner }
