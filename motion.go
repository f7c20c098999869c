package grove

import "math"

// HSpeed returns the horizontal speed in pixels per step.
func (inst *Instance) HSpeed() float64 { return inst.hspeed }

// VSpeed returns the vertical speed in pixels per step (positive is down).
func (inst *Instance) VSpeed() float64 { return inst.vspeed }

// Speed returns the speed magnitude.
func (inst *Instance) Speed() float64 { return inst.speed }

// Direction returns the direction of motion in degrees, in [0, 360).
func (inst *Instance) Direction() float64 { return inst.direction }

// SetHSpeed sets the horizontal speed and recomputes speed and direction.
func (inst *Instance) SetHSpeed(h float64) {
	inst.hspeed = h
	inst.syncPolar()
}

// SetVSpeed sets the vertical speed and recomputes speed and direction.
func (inst *Instance) SetVSpeed(v float64) {
	inst.vspeed = v
	inst.syncPolar()
}

// SetSpeed keeps the current direction and sets the magnitude.
func (inst *Instance) SetSpeed(s float64) {
	inst.speed = s
	inst.hspeed, inst.vspeed = lengthDir(s, inst.direction)
}

// SetDirection keeps the current magnitude and sets the direction.
func (inst *Instance) SetDirection(dir float64) {
	inst.direction = wrapDegrees(dir)
	inst.hspeed, inst.vspeed = lengthDir(inst.speed, inst.direction)
}

// MotionSet replaces the motion with spd pixels per step towards dir degrees.
func (inst *Instance) MotionSet(dir, spd float64) {
	inst.direction = wrapDegrees(dir)
	inst.speed = spd
	inst.hspeed, inst.vspeed = lengthDir(spd, inst.direction)
}

// MotionAdd adds a motion of spd towards dir to the current motion.
func (inst *Instance) MotionAdd(dir, spd float64) {
	dx, dy := lengthDir(spd, dir)
	inst.hspeed += dx
	inst.vspeed += dy
	inst.syncPolar()
}

// syncPolar recomputes speed and direction from hspeed and vspeed. A
// stationary instance keeps its previous direction.
func (inst *Instance) syncPolar() {
	inst.speed = math.Hypot(inst.hspeed, inst.vspeed)
	if inst.speed > 0 {
		inst.direction = wrapDegrees(math.Atan2(-inst.vspeed, inst.hspeed) * 180 / math.Pi)
	}
}

// MoveTowardsPoint sets the motion to spd towards (x, y).
func (inst *Instance) MoveTowardsPoint(x, y, spd float64) {
	inst.MotionSet(PointDirection(inst.X, inst.Y, x, y), spd)
}

// DistanceToPoint returns the distance from the instance's bounding box to
// (x, y), 0 when the point is inside.
func (inst *Instance) DistanceToPoint(x, y float64) float64 {
	return inst.bbox.Distance(BBox{Left: x, Top: y, Right: x, Bottom: y})
}

// DistanceToObject returns the smallest bounding-box distance to any other
// active instance selected by sel, or +Inf when there is none.
func (inst *Instance) DistanceToObject(sel Selector) float64 {
	best := math.Inf(1)
	inst.game.eachActive(sel, func(other *Instance) bool {
		if other == inst {
			return true
		}
		if d := inst.bbox.Distance(other.bbox); d < best {
			best = d
		}
		return true
	})
	return best
}

// PlaceMeeting reports whether the instance placed at (x, y) would overlap
// an active instance selected by sel.
func (inst *Instance) PlaceMeeting(x, y float64, sel Selector) bool {
	return inst.InstancePlace(x, y, sel) != nil
}

// InstancePlace returns the first active instance selected by sel that the
// instance would overlap at (x, y), or nil.
func (inst *Instance) InstancePlace(x, y float64, sel Selector) *Instance {
	box := GetBBoxAt(inst, x, y)
	var hit *Instance
	inst.game.eachActive(sel, func(other *Instance) bool {
		if other != inst && box.Overlaps(other.bbox) {
			hit = other
			return false
		}
		return true
	})
	return hit
}

// PlaceFree reports whether no active solid instance would overlap the
// instance at (x, y).
func (inst *Instance) PlaceFree(x, y float64) bool {
	return inst.InstancePlace(x, y, solidSelector{}) == nil
}

// PlaceEmpty reports whether no active instance at all would overlap the
// instance at (x, y).
func (inst *Instance) PlaceEmpty(x, y float64) bool {
	return inst.InstancePlace(x, y, All) == nil
}

// MoveContactSolid tries to move by (dx, dy) in one step. If the destination
// is free the move is made and false is returned. If it is blocked the
// instance stays where it is and true is returned; there is no sub-stepping
// towards the contact point.
func (inst *Instance) MoveContactSolid(dx, dy float64) bool {
	nx, ny := inst.X+dx, inst.Y+dy
	if !inst.PlaceFree(nx, ny) {
		return true
	}
	inst.SetPosition(nx, ny)
	return false
}

// MoveWrap teleports the instance to the opposite edge of the room once its
// bounding box has left the room by more than margin on a wrapped axis.
func (inst *Instance) MoveWrap(horizontal, vertical bool, margin float64) {
	r := inst.game.room
	if r == nil {
		return
	}
	b := inst.bbox
	if horizontal {
		if b.Right < -margin {
			inst.X += r.Width + margin - b.Left
		} else if b.Left > r.Width+margin {
			inst.X += -margin - b.Right
		}
	}
	if vertical {
		if b.Bottom < -margin {
			inst.Y += r.Height + margin - b.Top
		} else if b.Top > r.Height+margin {
			inst.Y += -margin - b.Bottom
		}
	}
	UpdateBBox(inst)
}
