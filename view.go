package grove

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for view X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// View maps a room-space rectangle onto a screen-space port.
type View struct {
	Enabled bool

	// Room-space rectangle shown by the view.
	X, Y, W, H float64
	// Screen-space port the view is drawn into.
	PortX, PortY, PortW, PortH float64

	// HBorder and VBorder keep the followed instance at least this far from
	// the view edges.
	HBorder, VBorder float64
	// HSpeed and VSpeed cap how far the view moves per step while following.
	// Negative means unlimited.
	HSpeed, VSpeed float64
	// Follow is the id of the instance to follow, NoID for none.
	Follow ID

	scroll *scrollAnim
}

// newView returns a disabled view covering the whole room at 1:1.
func newView(w, h float64) View {
	return View{
		W: w, H: h,
		PortW: w, PortH: h,
		HBorder: 32, VBorder: 32,
		HSpeed: -1, VSpeed: -1,
	}
}

// ScreenToRoom converts a screen position inside the port to room space.
func (v *View) ScreenToRoom(sx, sy float64) (rx, ry float64) {
	rx = v.X
	ry = v.Y
	if v.PortW != 0 {
		rx += (sx - v.PortX) / v.PortW * v.W
	}
	if v.PortH != 0 {
		ry += (sy - v.PortY) / v.PortH * v.H
	}
	return
}

// RoomToScreen converts a room position to screen space.
func (v *View) RoomToScreen(rx, ry float64) (sx, sy float64) {
	sx = v.PortX
	sy = v.PortY
	if v.W != 0 {
		sx += (rx - v.X) / v.W * v.PortW
	}
	if v.H != 0 {
		sy += (ry - v.Y) / v.H * v.PortH
	}
	return
}

// ContainsScreen reports whether (sx, sy) lies inside the port.
func (v *View) ContainsScreen(sx, sy float64) bool {
	return sx >= v.PortX && sx < v.PortX+v.PortW &&
		sy >= v.PortY && sy < v.PortY+v.PortH
}

// ScrollTo animates the view's top-left corner to (x, y) over duration
// seconds. Following is suspended while the scroll runs.
func (v *View) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	v.scroll = &scrollAnim{
		tweenX: gween.New(float32(v.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(v.Y), float32(y), duration, easeFn),
	}
}

// Scrolling reports whether a ScrollTo animation is running.
func (v *View) Scrolling() bool {
	return v.scroll != nil
}

// update advances scrolling or following by one step.
func (v *View) update(r *Room, dt float32) {
	if v.scroll != nil {
		if !v.scroll.doneX {
			val, done := v.scroll.tweenX.Update(dt)
			v.X = float64(val)
			v.scroll.doneX = done
		}
		if !v.scroll.doneY {
			val, done := v.scroll.tweenY.Update(dt)
			v.Y = float64(val)
			v.scroll.doneY = done
		}
		if v.scroll.doneX && v.scroll.doneY {
			v.scroll = nil
		}
		return
	}
	if v.Follow == NoID {
		return
	}
	target := r.Get(v.Follow)
	if target == nil {
		return
	}
	v.X += limitStep(followDelta(target.X, v.X, v.W, v.HBorder), v.HSpeed)
	v.Y += limitStep(followDelta(target.Y, v.Y, v.H, v.VBorder), v.VSpeed)
	v.clampToRoom(r)
}

// followDelta returns how far a view spanning [origin, origin+size) must move
// to keep pos at least border away from both edges.
func followDelta(pos, origin, size, border float64) float64 {
	if size <= 2*border {
		return pos - (origin + size/2)
	}
	if pos-origin < border {
		return pos - border - origin
	}
	if origin+size-pos < border {
		return pos + border - size - origin
	}
	return 0
}

func limitStep(d, max float64) float64 {
	if max < 0 {
		return d
	}
	return math.Max(-max, math.Min(d, max))
}

// clampToRoom keeps the view inside the room. A view larger than the room
// is pinned to the room's top-left corner.
func (v *View) clampToRoom(r *Room) {
	v.X = math.Max(0, math.Min(v.X, r.Width-v.W))
	v.Y = math.Max(0, math.Min(v.Y, r.Height-v.H))
}
