// Package physics holds stateless geometry queries over component data.
package physics

import (
	"math"

	"github.com/brickrun/platformer/internal/component"
	"github.com/brickrun/platformer/internal/core/ecs"
	"github.com/brickrun/platformer/internal/geom"
)

// Intersect is the result of a segment intersection test.
type Intersect struct {
	Hit   bool
	Point geom.Vec2
}

// BoxOverlap returns the penetration depth on each axis of two boxes with
// half-extents ha and hb centred at pa and pb. A non-positive component means
// the boxes are apart on that axis.
func BoxOverlap(pa, ha, pb, hb geom.Vec2) geom.Vec2 {
	delta := pb.Sub(pa).Abs()
	return geom.Vec2{
		X: ha.X + hb.X - delta.X,
		Y: ha.Y + hb.Y - delta.Y,
	}
}

// Overlapping reports whether an overlap vector describes touching boxes.
func Overlapping(o geom.Vec2) bool {
	return o.X > 0 && o.Y > 0
}

// Overlap computes the penetration of a and b at their current positions.
// Entities without a Transform and a non-empty BoundingBox never overlap.
func Overlap(c *component.Set, a, b ecs.Entity) geom.Vec2 {
	if !hasBody(c, a) || !hasBody(c, b) {
		return geom.Vec2{}
	}
	return BoxOverlap(
		c.Transform.Get(a).Pos, c.BoundingBox.Get(a).Half,
		c.Transform.Get(b).Pos, c.BoundingBox.Get(b).Half,
	)
}

// PreviousOverlap is Overlap measured from a's previous position, used to
// tell which side a came from.
func PreviousOverlap(c *component.Set, a, b ecs.Entity) geom.Vec2 {
	if !hasBody(c, a) || !hasBody(c, b) {
		return geom.Vec2{}
	}
	return BoxOverlap(
		c.Transform.Get(a).Prev, c.BoundingBox.Get(a).Half,
		c.Transform.Get(b).Pos, c.BoundingBox.Get(b).Half,
	)
}

func hasBody(c *component.Set, e ecs.Entity) bool {
	return c.Transform.Has(e) && c.BoundingBox.Has(e) && !c.BoundingBox.Get(e).Size.IsZero()
}

// Bounds is the rendered rectangle of an entity: its animation frame scaled
// by the transform and centred on the position.
func Bounds(c *component.Set, e ecs.Entity) (geom.Rect, bool) {
	if !c.Transform.Has(e) || !c.Animation.Has(e) {
		return geom.Rect{}, false
	}
	t := c.Transform.Get(e)
	size := c.Animation.Get(e).Animation.Size().Mul(t.Scale.Abs())
	return geom.RectAround(t.Pos, size), true
}

// IsInside reports whether pos lies within the rendered bounds of e.
func IsInside(c *component.Set, pos geom.Vec2, e ecs.Entity) bool {
	if !c.Transform.Has(e) || !c.Animation.Has(e) {
		return false
	}
	t := c.Transform.Get(e)
	size := c.Animation.Get(e).Animation.Size()
	d := pos.Sub(t.Pos).Abs()
	return d.X <= math.Abs(t.Scale.X)*size.X/2 && d.Y <= math.Abs(t.Scale.Y)*size.Y/2
}

// SegmentIntersect solves the parametric intersection of segments ab and cd.
// Parallel or degenerate segments do not intersect.
func SegmentIntersect(a, b, c, d geom.Vec2) Intersect {
	r := b.Sub(a)
	s := d.Sub(c)
	rxs := r.Cross(s)
	if rxs == 0 {
		return Intersect{}
	}
	cma := c.Sub(a)
	t := cma.Cross(s) / rxs
	u := cma.Cross(r) / rxs
	if t >= 0 && t <= 1 && u >= 0 && u <= 1 {
		return Intersect{Hit: true, Point: a.Add(r.Scale(t))}
	}
	return Intersect{}
}

// SegmentHitsRect reports whether segment ab crosses any edge of rect.
func SegmentHitsRect(a, b geom.Vec2, rect geom.Rect) bool {
	corners := rect.Corners()
	for i := range corners {
		if SegmentIntersect(a, b, corners[i], corners[(i+1)%len(corners)]).Hit {
			return true
		}
	}
	return false
}

// EntityIntersect reports whether segment ab crosses the rendered bounds of e.
func EntityIntersect(c *component.Set, a, b geom.Vec2, e ecs.Entity) bool {
	rect, ok := Bounds(c, e)
	if !ok {
		return false
	}
	return SegmentHitsRect(a, b, rect)
}
