// Package editor is the level editor scene: entities are picked up and
// dropped onto grid cells with the mouse, removed with a right click, and
// the level is saved through a level store.
package editor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brickrun/platformer/internal/component"
	"github.com/brickrun/platformer/internal/core/ecs"
	coresys "github.com/brickrun/platformer/internal/core/system"
	"github.com/brickrun/platformer/internal/geom"
	"github.com/brickrun/platformer/internal/input"
	"github.com/brickrun/platformer/internal/level"
	"github.com/brickrun/platformer/internal/physics"
	"github.com/brickrun/platformer/internal/scene"
	"github.com/brickrun/platformer/internal/system"
	"github.com/brickrun/platformer/internal/world"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PanSpeed is the camera speed in pixels per frame.
const PanSpeed = 8.0

const saveTimeout = 5 * time.Second

type pan struct {
	up, down, left, right bool
}

// Editor edits a level without simulating it. Only the commit pass runs.
type Editor struct {
	world    *world.State
	runner   *coresys.Runner
	store    level.Store
	name     string
	camera   geom.Vec2
	pan      pan
	mouse    geom.Vec2
	dragging ecs.Entity
	canSave  bool
	ended    bool
	flags    scene.RenderFlags
	palette  []level.Placement
	selected int
	log      *zap.Logger
}

func New(ws *world.State, store level.Store) *Editor {
	if ws.RunID == "" {
		ws.RunID = uuid.NewString()
	}
	r := coresys.NewRunner()
	r.Register(system.NewCommitSystem(ws))
	screen := ws.ScreenSize()
	return &Editor{
		world:   ws,
		runner:  r,
		store:   store,
		camera:  screen.Scale(0.5),
		canSave: true,
		flags:   scene.RenderFlags{Textures: true, Grid: true},
		log:     ws.Log.With(zap.String("scene", "editor"), zap.String("run_id", ws.RunID)),
	}
}

// Load reads the named level into the editor. Records before a bad line
// are kept.
func (ed *Editor) Load(ctx context.Context, name string) error {
	lvl, err := ed.store.Load(ctx, name)
	if err != nil {
		if lvl == nil || !errors.Is(err, level.ErrMalformed) {
			return fmt.Errorf("load level: %w", err)
		}
		ed.log.Warn("level loaded partially", zap.String("level", name), zap.Error(err))
	}
	ed.name = name
	ed.LoadLevel(lvl)
	return nil
}

// LoadLevel replaces the editor's entities and rebuilds the tile palette
// from the level's placements.
func (ed *Editor) LoadLevel(lvl *level.Level) {
	ed.world.Reset()
	ed.world.Populate(lvl)
	ed.dragging = ecs.Entity{}
	ed.palette = ed.palette[:0]
	seen := make(map[level.Placement]bool)
	for _, p := range lvl.Placements {
		key := level.Placement{Tag: p.Tag, Animation: p.Animation}
		if !seen[key] {
			seen[key] = true
			ed.palette = append(ed.palette, key)
		}
	}
	ed.selected = 0
}

// Update commits staged entities, pans the camera and moves the dragged
// entity with the mouse.
func (ed *Editor) Update() {
	if ed.ended {
		return
	}
	ed.runner.Tick(ed.world.Frame)
	ed.world.Frame++

	if ed.pan.up {
		ed.camera.Y -= PanSpeed
	}
	if ed.pan.down {
		ed.camera.Y += PanSpeed
	}
	if ed.pan.left {
		ed.camera.X -= PanSpeed
	}
	if ed.pan.right {
		ed.camera.X += PanSpeed
	}
	if half := ed.world.ScreenSize().X / 2; ed.camera.X < half {
		ed.camera.X = half
	}

	if ed.dragging.Active() {
		ed.world.C.Transform.Get(ed.dragging).Pos = ed.mouse
	}
}

func (ed *Editor) DoAction(a input.Action) {
	switch a.Type {
	case input.Start:
		if ed.flags.Toggle(a.Name) {
			return
		}
		switch a.Name {
		case input.Quit:
			ed.ended = true
		case input.Save:
			if ed.canSave {
				ed.canSave = false
				if err := ed.Save(context.Background()); err != nil {
					ed.log.Error("level save failed", zap.String("level", ed.name), zap.Error(err))
				}
				ed.canSave = true
			}
		case input.Up:
			ed.pan.up = true
		case input.Down:
			ed.pan.down = true
		case input.Left:
			ed.pan.left = true
		case input.Right:
			ed.pan.right = true
		case input.LeftClick:
			ed.mouse = a.Pos
			ed.Click(a.Pos)
		case input.RightClick:
			ed.Remove(a.Pos)
		case input.MouseMove:
			ed.mouse = a.Pos
		case input.Place:
			ed.Place(ed.mouse)
		case input.NextTile:
			if len(ed.palette) > 0 {
				ed.selected = (ed.selected + 1) % len(ed.palette)
			}
		}
	case input.End:
		switch a.Name {
		case input.Up:
			ed.pan.up = false
		case input.Down:
			ed.pan.down = false
		case input.Left:
			ed.pan.left = false
		case input.Right:
			ed.pan.right = false
		}
	}
}

// Click drops the dragged entity onto the grid cell under pos, or picks up
// the draggable entity under pos.
func (ed *Editor) Click(pos geom.Vec2) {
	c := ed.world.C
	if ed.dragging.Active() {
		e := ed.dragging
		gx, gy := ed.world.MouseToGrid(pos)
		*c.GridLocation.Get(e) = component.GridLocation{X: gx, Y: gy}
		size := c.Animation.Get(e).Animation.Size()
		t := c.Transform.Get(e)
		t.Pos = ed.world.GridToMidPixel(gx, gy, size, 1)
		t.Prev = t.Pos
		c.Draggable.Get(e).Dragging = false
		ed.dragging = ecs.Entity{}
		if component.IsSolid(e.Tag()) {
			ed.world.Solids().Add(e, geom.RectAround(t.Pos, size))
		}
		if e == ed.world.Player {
			ed.world.PlayerConfig.X, ed.world.PlayerConfig.Y = gx, gy
		}
		return
	}
	e := ed.EntityAt(pos)
	if !e.Valid() || !c.Draggable.Has(e) {
		return
	}
	c.Draggable.Get(e).Dragging = true
	ed.dragging = e
	if component.IsSolid(e.Tag()) {
		ed.world.Solids().Remove(e)
	}
}

// EntityAt returns the topmost entity drawn under pos, or the nil Entity.
func (ed *Editor) EntityAt(pos geom.Vec2) ecs.Entity {
	live := ed.world.Manager.Entities()
	for i := len(live) - 1; i >= 0; i-- {
		e := live[i]
		if e.Active() && physics.IsInside(ed.world.C, pos, e) {
			return e
		}
	}
	return ecs.Entity{}
}

// Remove destroys the entity under pos. The player cannot be removed.
func (ed *Editor) Remove(pos geom.Vec2) {
	e := ed.EntityAt(pos)
	if !e.Valid() || e == ed.world.Player {
		return
	}
	if e == ed.dragging {
		ed.dragging = ecs.Entity{}
	}
	e.Destroy()
	ed.world.Solids().Prune()
}

// Place spawns the selected palette tile in the grid cell under pos.
func (ed *Editor) Place(pos geom.Vec2) ecs.Entity {
	if len(ed.palette) == 0 {
		return ecs.Entity{}
	}
	p := ed.palette[ed.selected]
	p.X, p.Y = ed.world.MouseToGrid(pos)
	return ed.world.SpawnPlacement(p)
}

// Save writes the current layout through the store, which keeps a backup
// of the previous version.
func (ed *Editor) Save(ctx context.Context) error {
	if ed.name == "" {
		return errors.New("editor: no level loaded")
	}
	ctx, cancel := context.WithTimeout(ctx, saveTimeout)
	defer cancel()
	lvl := ed.world.Level()
	if err := ed.store.Save(ctx, ed.name, lvl); err != nil {
		return err
	}
	ed.log.Info("level saved", zap.String("level", ed.name), zap.Int("records", lvl.Len()))
	return nil
}

func (ed *Editor) Ended() bool                { return ed.ended }
func (ed *Editor) World() *world.State        { return ed.world }
func (ed *Editor) Flags() scene.RenderFlags   { return ed.flags }
func (ed *Editor) Camera() geom.Vec2          { return ed.camera }
func (ed *Editor) Dragging() ecs.Entity       { return ed.dragging }
func (ed *Editor) CanSave() bool              { return ed.canSave }
func (ed *Editor) Palette() []level.Placement { return ed.palette }
func (ed *Editor) Selected() int              { return ed.selected }
