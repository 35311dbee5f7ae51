package geom

import "math"

// Vec2 is a 2D vector in world pixels. Y grows downward.
type Vec2 struct {
	X, Y float64
}

func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(k float64) Vec2 { return Vec2{v.X * k, v.Y * k} }
func (v Vec2) Mul(o Vec2) Vec2      { return Vec2{v.X * o.X, v.Y * o.Y} }
func (v Vec2) Cross(o Vec2) float64 { return v.X*o.Y - v.Y*o.X }
func (v Vec2) Abs() Vec2            { return Vec2{math.Abs(v.X), math.Abs(v.Y)} }
func (v Vec2) Length() float64      { return math.Hypot(v.X, v.Y) }
func (v Vec2) Dist(o Vec2) float64  { return v.Sub(o).Length() }
func (v Vec2) IsZero() bool         { return v.X == 0 && v.Y == 0 }

// Clamp limits each component to [-limit, limit].
func (v Vec2) Clamp(limit float64) Vec2 {
	return Vec2{clamp(v.X, limit), clamp(v.Y, limit)}
}

func clamp(f, limit float64) float64 {
	if f > limit {
		return limit
	}
	if f < -limit {
		return -limit
	}
	return f
}

// Rect is an axis-aligned rectangle given by its top-left corner and size.
type Rect struct {
	Min  Vec2
	Size Vec2
}

// RectAround returns the rectangle of the given size centred on c.
func RectAround(c, size Vec2) Rect {
	return Rect{Min: Vec2{c.X - size.X/2, c.Y - size.Y/2}, Size: size}
}

func (r Rect) Max() Vec2 { return r.Min.Add(r.Size) }

// Corners returns top-left, top-right, bottom-right, bottom-left.
func (r Rect) Corners() [4]Vec2 {
	mx := r.Max()
	return [4]Vec2{
		r.Min,
		{mx.X, r.Min.Y},
		mx,
		{r.Min.X, mx.Y},
	}
}
