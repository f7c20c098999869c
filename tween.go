package grove

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields on an Instance simultaneously.
// Create one via the convenience constructors (TweenPosition, TweenScale,
// TweenAlpha, TweenRotation) and call Update(dt) each step, typically from a
// step handler with Game.FrameTime. If the target instance is destroyed, the
// group stops immediately.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	target *Instance
	Done   bool
}

// Update advances all tweens by dt seconds and writes values to the target
// fields. If the target has been destroyed, Done is set to true and no
// writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}

	if g.target != nil && g.target.destroyed {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone

	if g.target != nil {
		UpdateBBox(g.target)
	}
}

// TweenPosition creates a TweenGroup that animates inst.X and inst.Y to the
// given target coordinates over duration seconds using the easing function.
func TweenPosition(inst *Instance, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2, target: inst}
	g.tweens[0] = gween.New(float32(inst.X), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(inst.Y), float32(toY), duration, fn)
	g.fields[0] = &inst.X
	g.fields[1] = &inst.Y
	return g
}

// TweenScale creates a TweenGroup that animates inst.ScaleX and inst.ScaleY.
func TweenScale(inst *Instance, toSX, toSY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2, target: inst}
	g.tweens[0] = gween.New(float32(inst.ScaleX), float32(toSX), duration, fn)
	g.tweens[1] = gween.New(float32(inst.ScaleY), float32(toSY), duration, fn)
	g.fields[0] = &inst.ScaleX
	g.fields[1] = &inst.ScaleY
	return g
}

// TweenAlpha creates a TweenGroup that animates inst.Alpha.
func TweenAlpha(inst *Instance, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, target: inst}
	g.tweens[0] = gween.New(float32(inst.Alpha), float32(to), duration, fn)
	g.fields[0] = &inst.Alpha
	return g
}

// TweenRotation creates a TweenGroup that animates inst.Rotation in degrees.
func TweenRotation(inst *Instance, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, target: inst}
	g.tweens[0] = gween.New(float32(inst.Rotation), float32(to), duration, fn)
	g.fields[0] = &inst.Rotation
	return g
}
