package grove

// Selector picks the instances a query considers. *Blueprint selects by type
// including descendants, *Instance and ID select a single instance, and All
// selects everything.
type Selector interface {
	Selects(inst *Instance) bool
}

type allSelector struct{}

func (allSelector) Selects(inst *Instance) bool { return inst != nil }

// All selects every instance.
var All Selector = allSelector{}

type solidSelector struct{}

func (solidSelector) Selects(inst *Instance) bool { return inst != nil && inst.Solid }

func selects(sel Selector, inst *Instance) bool {
	if sel == nil {
		return true
	}
	return sel.Selects(inst)
}

// eachActive calls fn for every active instance of the current room selected
// by sel, in room order, until fn returns false. fn must not add or remove
// instances.
func (g *Game) eachActive(sel Selector, fn func(*Instance) bool) {
	if g.room == nil {
		return
	}
	for i := 0; i < len(g.room.order); i++ {
		inst := g.room.order[i]
		if !inst.active || !selects(sel, inst) {
			continue
		}
		if !fn(inst) {
			return
		}
	}
}

// InstanceExists reports whether any active instance in the current room is
// selected by sel.
func (g *Game) InstanceExists(sel Selector) bool {
	found := false
	g.eachActive(sel, func(*Instance) bool {
		found = true
		return false
	})
	return found
}

// InstanceFind returns the instance with the given id in the current room,
// or nil.
func (g *Game) InstanceFind(id ID) *Instance {
	if g.room == nil {
		return nil
	}
	return g.room.Get(id)
}

// InstanceNumber counts the active instances selected by sel.
func (g *Game) InstanceNumber(sel Selector) int {
	n := 0
	g.eachActive(sel, func(*Instance) bool {
		n++
		return true
	})
	return n
}

// InstanceFindNth returns the n-th (0-based) active instance selected by sel
// in room order, or nil.
func (g *Game) InstanceFindNth(sel Selector, n int) *Instance {
	if n < 0 {
		return nil
	}
	var hit *Instance
	g.eachActive(sel, func(inst *Instance) bool {
		if n == 0 {
			hit = inst
			return false
		}
		n--
		return true
	})
	return hit
}

// InstancePosition returns the first active instance selected by sel whose
// bounding box contains (x, y), or nil.
func (g *Game) InstancePosition(x, y float64, sel Selector) *Instance {
	var hit *Instance
	g.eachActive(sel, func(inst *Instance) bool {
		if inst.bbox.Contains(x, y) {
			hit = inst
			return false
		}
		return true
	})
	return hit
}

// InstanceNearest returns the active instance selected by sel whose position
// is closest to (x, y). Ties go to the first in room order.
func (g *Game) InstanceNearest(x, y float64, sel Selector) *Instance {
	return g.extremeByDistance(x, y, sel, func(d, best float64) bool { return d < best })
}

// InstanceFurthest returns the active instance selected by sel whose
// position is furthest from (x, y). Ties go to the first in room order.
func (g *Game) InstanceFurthest(x, y float64, sel Selector) *Instance {
	return g.extremeByDistance(x, y, sel, func(d, best float64) bool { return d > best })
}

func (g *Game) extremeByDistance(x, y float64, sel Selector, better func(d, best float64) bool) *Instance {
	var hit *Instance
	var best float64
	g.eachActive(sel, func(inst *Instance) bool {
		dx := inst.X - x
		dy := inst.Y - y
		d := dx*dx + dy*dy
		if hit == nil || better(d, best) {
			hit = inst
			best = d
		}
		return true
	})
	return hit
}

// CollisionPoint returns the first active instance selected by sel whose box
// contains (x, y), skipping notme. notme may be nil.
func (g *Game) CollisionPoint(x, y float64, sel Selector, notme *Instance) *Instance {
	return g.firstHit(sel, notme, func(b BBox) bool { return b.Contains(x, y) })
}

// CollisionRectangle returns the first active instance selected by sel whose
// box overlaps the rectangle (x1, y1)-(x2, y2), skipping notme.
func (g *Game) CollisionRectangle(x1, y1, x2, y2 float64, sel Selector, notme *Instance) *Instance {
	return g.firstHit(sel, notme, func(b BBox) bool { return b.IntersectsRect(x1, y1, x2, y2) })
}

// CollisionCircle returns the first active instance selected by sel whose
// box the circle reaches into, skipping notme.
func (g *Game) CollisionCircle(cx, cy, r float64, sel Selector, notme *Instance) *Instance {
	return g.firstHit(sel, notme, func(b BBox) bool { return b.IntersectsCircle(cx, cy, r) })
}

func (g *Game) firstHit(sel Selector, notme *Instance, hit func(BBox) bool) *Instance {
	var found *Instance
	g.eachActive(sel, func(inst *Instance) bool {
		if inst != notme && hit(inst.bbox) {
			found = inst
			return false
		}
		return true
	})
	return found
}

// InstanceDeactivateAll deactivates every instance in the current room
// except notme, which may be nil.
func (g *Game) InstanceDeactivateAll(notme *Instance) {
	g.setActive(All, false, notme)
}

// InstanceDeactivateObject deactivates the instances selected by sel.
func (g *Game) InstanceDeactivateObject(sel Selector) {
	g.setActive(sel, false, nil)
}

// InstanceActivateAll activates every instance in the current room.
func (g *Game) InstanceActivateAll() {
	g.setActive(All, true, nil)
}

// InstanceActivateObject activates the instances selected by sel.
func (g *Game) InstanceActivateObject(sel Selector) {
	g.setActive(sel, true, nil)
}

func (g *Game) setActive(sel Selector, active bool, notme *Instance) {
	if g.room == nil {
		return
	}
	for _, inst := range g.room.order {
		if inst == notme || !selects(sel, inst) {
			continue
		}
		inst.active = active
	}
}
