package anim

import "github.com/brickrun/platformer/internal/geom"

// Animation is a playback cursor over a horizontal sprite strip. The texture
// is referenced by name; drawing it is up to the renderer.
type Animation struct {
	name       string
	texture    string
	frameCount int
	speed      int
	counter    int
	size       geom.Vec2
	base       string
	kind       Kind
}

// New creates an animation over a strip of frameCount frames laid out along
// a sheet of the given pixel size. speed is the number of updates each frame
// is held; zero means a single static frame.
func New(name, texture string, sheet geom.Vec2, frameCount, speed int) Animation {
	if frameCount < 0 {
		frameCount = 0
	}
	if speed < 0 {
		speed = 0
	}
	size := sheet
	if frameCount > 0 {
		size.X = sheet.X / float64(frameCount)
	}
	base, kind := Classify(name)
	return Animation{
		name:       name,
		texture:    texture,
		frameCount: frameCount,
		speed:      speed,
		size:       size,
		base:       base,
		kind:       kind,
	}
}

// Update advances the cursor by one tick.
func (a *Animation) Update() {
	if a.speed == 0 {
		return
	}
	a.counter++
}

// HasEnded is true exactly when one full cycle has elapsed. Static
// animations only end when they have no frames at all.
func (a Animation) HasEnded() bool {
	if a.speed == 0 {
		return a.frameCount == 0
	}
	return a.counter == a.frameCount*a.speed
}

// Frame is the index of the visible frame.
func (a Animation) Frame() int {
	if a.speed == 0 || a.frameCount == 0 {
		return 0
	}
	return (a.counter / a.speed) % a.frameCount
}

// FrameRect is the source rectangle of the visible frame within the texture.
func (a Animation) FrameRect() geom.Rect {
	return geom.Rect{
		Min:  geom.Vec2{X: float64(a.Frame()) * a.size.X},
		Size: a.size,
	}
}

// Restart rewinds the cursor to the first frame.
func (a *Animation) Restart() { a.counter = 0 }

func (a Animation) Name() string     { return a.name }
func (a Animation) Texture() string  { return a.texture }
func (a Animation) Size() geom.Vec2  { return a.size }
func (a Animation) FrameCount() int  { return a.frameCount }
func (a Animation) Speed() int       { return a.speed }
func (a Animation) Counter() int     { return a.counter }
func (a Animation) BaseName() string { return a.base }
func (a Animation) Kind() Kind       { return a.kind }

// Duration is the number of updates in one cycle.
func (a Animation) Duration() int { return a.frameCount * a.speed }
