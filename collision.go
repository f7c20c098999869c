package grove

import "math"

// BBox is an axis-aligned bounding box in room space. The coordinate system
// has its origin at the top-left, with Y increasing downward.
type BBox struct {
	Left, Top, Right, Bottom float64
}

// Width returns the box width.
func (b BBox) Width() float64 { return b.Right - b.Left }

// Height returns the box height.
func (b BBox) Height() float64 { return b.Bottom - b.Top }

// Overlaps reports whether b and o share interior area. Boxes whose edges
// only touch do not overlap.
func (b BBox) Overlaps(o BBox) bool {
	return b.Left < o.Right && b.Right > o.Left &&
		b.Top < o.Bottom && b.Bottom > o.Top
}

// Contains reports whether (x, y) lies inside the box. The left and top edges
// are inside, the right and bottom edges are not.
func (b BBox) Contains(x, y float64) bool {
	return x >= b.Left && x < b.Right && y >= b.Top && y < b.Bottom
}

// IntersectsRect reports whether the rectangle spanned by two corners
// overlaps b. Corners may be given in any order.
func (b BBox) IntersectsRect(x1, y1, x2, y2 float64) bool {
	r := BBox{
		Left:   math.Min(x1, x2),
		Top:    math.Min(y1, y2),
		Right:  math.Max(x1, x2),
		Bottom: math.Max(y1, y2),
	}
	return b.Overlaps(r)
}

// IntersectsCircle reports whether the circle at (cx, cy) with radius r
// reaches strictly inside b.
func (b BBox) IntersectsCircle(cx, cy, r float64) bool {
	nx := math.Max(b.Left, math.Min(cx, b.Right))
	ny := math.Max(b.Top, math.Min(cy, b.Bottom))
	dx := cx - nx
	dy := cy - ny
	return dx*dx+dy*dy < r*r
}

// Distance returns the gap between b and o, 0 when they touch or overlap.
func (b BBox) Distance(o BBox) float64 {
	dx := math.Max(0, math.Max(o.Left-b.Right, b.Left-o.Right))
	dy := math.Max(0, math.Max(o.Top-b.Bottom, b.Top-o.Bottom))
	return math.Hypot(dx, dy)
}

// collisionSprite returns the sprite used for collision: the mask when set,
// otherwise the appearance sprite.
func collisionSprite(inst *Instance) *Sprite {
	if inst.Mask != nil {
		return inst.Mask
	}
	return inst.Sprite
}

// GetBBox returns the instance's box at its current position.
func GetBBox(inst *Instance) BBox {
	return GetBBoxAt(inst, inst.X, inst.Y)
}

// GetBBoxAt returns the box the instance would have at (x, y). Instances
// without a mask or sprite get a 1x1 box at that position.
func GetBBoxAt(inst *Instance, x, y float64) BBox {
	spr := collisionSprite(inst)
	if spr == nil {
		return BBox{Left: x, Top: y, Right: x + 1, Bottom: y + 1}
	}
	left := x - spr.OriginX*inst.ScaleX
	top := y - spr.OriginY*inst.ScaleY
	right := left + spr.Width*inst.ScaleX
	bottom := top + spr.Height*inst.ScaleY
	// Negative scale mirrors the box.
	if right < left {
		left, right = right, left
	}
	if bottom < top {
		top, bottom = bottom, top
	}
	return BBox{Left: left, Top: top, Right: right, Bottom: bottom}
}

// UpdateBBox refreshes the instance's cached box.
func UpdateBBox(inst *Instance) {
	inst.bbox = GetBBox(inst)
}

// InstancesCollide reports whether a placed at (x, y) would overlap b's
// cached box. An instance never collides with itself, and inactive instances
// never collide.
func InstancesCollide(a *Instance, x, y float64, b *Instance) bool {
	if a == nil || b == nil || a == b || !b.active {
		return false
	}
	return GetBBoxAt(a, x, y).Overlaps(b.bbox)
}
