package main

import (
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"math"
	"os"

	"github.com/brickrun/platformer/internal/assets"
	"github.com/brickrun/platformer/internal/config"
	"github.com/brickrun/platformer/internal/geom"
	"github.com/brickrun/platformer/internal/input"
	"github.com/brickrun/platformer/internal/scene"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"
)

var (
	boxColor   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	gridColor  = color.RGBA{R: 255, G: 255, B: 255, A: 60}
	emptyColor = color.RGBA{R: 200, G: 0, B: 200, A: 255}
)

// Game implements ebiten.Game over one scene.
type Game struct {
	cfg    *config.Config
	scene  scene.Scene
	keys   *input.Bindings[ebiten.Key]
	images map[string]*ebiten.Image
	smooth map[string]bool
	mouse  image.Point
	log    *zap.Logger
}

func newGame(cfg *config.Config, lib *assets.Library, sc scene.Scene, log *zap.Logger) (*Game, error) {
	g := &Game{
		cfg:    cfg,
		scene:  sc,
		keys:   defaultBindings(),
		images: make(map[string]*ebiten.Image),
		smooth: make(map[string]bool),
		log:    log,
	}
	for _, t := range lib.Textures() {
		img, err := loadImage(t.Path)
		if err != nil {
			// Entities using a missing texture are drawn as outlines.
			log.Warn("texture unavailable", zap.String("texture", t.Name), zap.Error(err))
			continue
		}
		g.images[t.Name] = img
		g.smooth[t.Name] = t.Smooth
	}
	return g, nil
}

func loadImage(path string) (*ebiten.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return ebiten.NewImageFromImage(img), nil
}

func defaultBindings() *input.Bindings[ebiten.Key] {
	b := input.NewBindings[ebiten.Key]()
	b.Register(ebiten.KeyW, input.Up)
	b.Register(ebiten.KeyS, input.Down)
	b.Register(ebiten.KeyA, input.Left)
	b.Register(ebiten.KeyD, input.Right)
	b.Register(ebiten.KeySpace, input.Jump)
	b.Register(ebiten.KeyControlLeft, input.Crouch)
	b.Register(ebiten.KeyJ, input.Shoot)
	b.Register(ebiten.KeyK, input.Special)
	b.Register(ebiten.KeyP, input.Pause)
	b.Register(ebiten.KeyEscape, input.Quit)
	b.Register(ebiten.KeyF5, input.Save)
	b.Register(ebiten.KeyT, input.ToggleTexture)
	b.Register(ebiten.KeyC, input.ToggleCollision)
	b.Register(ebiten.KeyG, input.ToggleGrid)
	b.Register(ebiten.KeyE, input.Place)
	b.Register(ebiten.KeyTab, input.NextTile)
	return b
}

// toWorld converts a cursor position to world coordinates.
func (g *Game) toWorld(p image.Point) geom.Vec2 {
	return geom.Vec2{X: float64(p.X), Y: float64(p.Y)}.Add(g.offset().Scale(-1))
}

// offset is the translation from world to screen.
func (g *Game) offset() geom.Vec2 {
	screen := geom.Vec2{X: float64(g.cfg.Window.Width), Y: float64(g.cfg.Window.Height)}
	return screen.Scale(0.5).Sub(g.scene.Camera())
}

func (g *Game) Update() error {
	for _, k := range g.keys.Keys() {
		name, _ := g.keys.Lookup(k)
		if inpututil.IsKeyJustPressed(k) {
			g.scene.DoAction(input.NewAction(name, input.Start))
		}
		if inpututil.IsKeyJustReleased(k) {
			g.scene.DoAction(input.NewAction(name, input.End))
		}
	}

	x, y := ebiten.CursorPosition()
	if p := image.Pt(x, y); p != g.mouse {
		g.mouse = p
		g.scene.DoAction(input.NewMouseAction(input.MouseMove, input.Start, g.toWorld(p)))
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.scene.DoAction(input.NewMouseAction(input.LeftClick, input.Start, g.toWorld(g.mouse)))
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		g.scene.DoAction(input.NewMouseAction(input.RightClick, input.Start, g.toWorld(g.mouse)))
	}

	g.scene.Update()
	if g.scene.Ended() {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	flags := g.scene.Flags()
	off := g.offset()
	ws := g.scene.World()

	for _, d := range ws.Drawables() {
		pos := d.Pos.Add(off)
		img, ok := g.images[d.Texture]
		if flags.Textures && ok {
			f := d.Frame
			rect := image.Rect(int(f.Min.X), int(f.Min.Y), int(f.Min.X+f.Size.X), int(f.Min.Y+f.Size.Y))
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(-f.Size.X/2, -f.Size.Y/2)
			op.GeoM.Scale(d.Scale.X, d.Scale.Y)
			op.GeoM.Rotate(d.Angle * math.Pi / 180)
			op.GeoM.Translate(pos.X, pos.Y)
			if g.smooth[d.Texture] {
				op.Filter = ebiten.FilterLinear
			}
			screen.DrawImage(img.SubImage(rect).(*ebiten.Image), op)
		} else if flags.Textures {
			size := d.Frame.Size.Mul(d.Scale.Abs())
			strokeRect(screen, geom.RectAround(pos, size), emptyColor)
		}
		if flags.Collision && !d.Box.IsZero() {
			strokeRect(screen, geom.RectAround(pos, d.Box), boxColor)
		}
	}

	if flags.Grid {
		g.drawGrid(screen, off)
	}

	if h, ok := ws.PlayerHealth(); ok {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("HP %.0f/%.0f", h.Current, h.Max), 10, 10)
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("frame %d  entities %d", ws.Frame, ws.Pool.Count()), 10, 26)
}

func (g *Game) drawGrid(screen *ebiten.Image, off geom.Vec2) {
	cw, ch := g.cfg.Grid.CellWidth, g.cfg.Grid.CellHeight
	w, h := float64(g.cfg.Window.Width), float64(g.cfg.Window.Height)
	startX := math.Mod(off.X, cw)
	if startX < 0 {
		startX += cw
	}
	for x := startX; x < w; x += cw {
		vector.StrokeLine(screen, float32(x), 0, float32(x), float32(h), 1, gridColor, false)
	}
	// Rows are anchored to the bottom of the screen.
	for y := h + math.Mod(off.Y, ch); y > 0; y -= ch {
		vector.StrokeLine(screen, 0, float32(y), float32(w), float32(y), 1, gridColor, false)
	}
}

func strokeRect(screen *ebiten.Image, r geom.Rect, clr color.Color) {
	vector.StrokeRect(screen, float32(r.Min.X), float32(r.Min.Y), float32(r.Size.X), float32(r.Size.Y), 1, clr, false)
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.cfg.Window.Width, g.cfg.Window.Height
}
