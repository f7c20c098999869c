package grove

import "math"

// SpriteDrawer draws one sprite frame. It is the only path from the core to
// the renderer and is injected once with Game.SetSpriteDrawer. angle is in
// degrees, counter-clockwise.
type SpriteDrawer func(spr *Sprite, frame int, x, y, scaleX, scaleY, angle float64, tint Color, alpha float64)

// Instance is a single live entity. A single flat struct is used for every
// blueprint; behavior comes from the blueprint's handlers and per-instance
// state hangs off UserData.
type Instance struct {
	id        ID
	blueprint *Blueprint
	game      *Game
	room      *Room

	// Position
	X, Y                 float64
	XPrevious, YPrevious float64
	XStart, YStart       float64

	// Motion. Speed and direction are derived from hspeed/vspeed; use the
	// setters in motion.go to keep them in sync.
	hspeed, vspeed   float64
	speed, direction float64
	Friction         float64
	Gravity          float64
	GravityDirection float64

	// Appearance
	Sprite     *Sprite
	FrameIndex float64
	FrameRate  float64
	ScaleX     float64
	ScaleY     float64
	Rotation   float64
	Tint       Color
	Alpha      float64
	Depth      float64
	Visible    bool

	// Collision
	Mask   *Sprite
	Solid  bool
	active bool
	bbox   BBox

	// Persistent is recorded but not yet honored on room change.
	Persistent bool

	// Alarm slots count down once per update; -1 means off.
	Alarm [AlarmCount]int

	// UserData holds per-instance game state.
	UserData any

	// Resolved at bind time.
	stepHandler    Handler
	drawHandler    Handler
	collisions     []collisionBinding
	handles        []CallbackHandle
	created        bool
	destroyed      bool
	destroyPending bool
	animationEnded bool
	outside        bool
}

// NewInstance constructs and registers an instance of bp without placing it
// in any room. Use Room.Place to add it to a room's design-time layout, or
// InstanceCreate to spawn it into the running room.
func (g *Game) NewInstance(bp *Blueprint) *Instance {
	inst := &Instance{
		id:               g.registry.AllocID(),
		blueprint:        bp,
		game:             g,
		ScaleX:           1,
		ScaleY:           1,
		Tint:             ColorWhite,
		Alpha:            1,
		Visible:          true,
		GravityDirection: 270,
		active:           true,
	}
	for i := range inst.Alarm {
		inst.Alarm[i] = -1
	}
	if bp != nil {
		inst.Sprite = bp.Sprite
		inst.Mask = bp.Mask
		inst.Solid = bp.Solid
		inst.Visible = bp.Visible
		inst.Persistent = bp.Persistent
		inst.Depth = bp.Depth
	}
	g.registry.Register(inst)
	if bp != nil && bp.Init != nil {
		bp.Init(inst)
	}
	UpdateBBox(inst)
	return inst
}

// InstanceCreate spawns an instance of bp at (x, y) in the current room,
// registers its phase callbacks and queues its create handler for the next
// create phase. Returns nil when there is no current room.
func (g *Game) InstanceCreate(x, y float64, bp *Blueprint) *Instance {
	if g.room == nil {
		g.log.Warn("instance_create: no current room")
		return nil
	}
	inst := g.NewInstance(bp)
	inst.setStart(x, y)
	g.room.Add(inst)
	inst.bind()
	return inst
}

// InstanceDestroyID destroys the instance with the given id. Unknown ids,
// non-instance resources and already destroyed instances are ignored.
func (g *Game) InstanceDestroyID(id ID) {
	res, ok := g.registry.Find(id)
	if !ok {
		return
	}
	if inst, ok := res.(*Instance); ok {
		inst.Destroy()
	}
}

// ID returns the instance's resource id.
func (inst *Instance) ID() ID { return inst.id }

// Name returns the blueprint name, or "instance" when there is none.
func (inst *Instance) Name() string {
	if inst.blueprint == nil {
		return "instance"
	}
	return inst.blueprint.name
}

// Blueprint returns the blueprint the instance was built from.
func (inst *Instance) Blueprint() *Blueprint { return inst.blueprint }

// Game returns the owning game.
func (inst *Instance) Game() *Game { return inst.game }

// Room returns the room holding the instance, or nil once removed.
func (inst *Instance) Room() *Room { return inst.room }

// BBox returns the cached bounding box from the last refresh.
func (inst *Instance) BBox() BBox { return inst.bbox }

// Active reports whether the instance takes part in events and collisions.
func (inst *Instance) Active() bool { return inst.active }

// SetActive activates or deactivates the instance.
func (inst *Instance) SetActive(active bool) { inst.active = active }

// IsDestroyed reports whether Destroy has been called.
func (inst *Instance) IsDestroyed() bool { return inst.destroyed }

// Selects reports whether other is this instance.
func (inst *Instance) Selects(other *Instance) bool { return inst == other }

// SetPosition moves the instance and refreshes its bounding box.
func (inst *Instance) SetPosition(x, y float64) {
	inst.X = x
	inst.Y = y
	UpdateBBox(inst)
}

func (inst *Instance) setStart(x, y float64) {
	inst.X, inst.Y = x, y
	inst.XPrevious, inst.YPrevious = x, y
	inst.XStart, inst.YStart = x, y
	UpdateBBox(inst)
}

// Destroy removes the instance from its room and the registry and stops its
// phase callbacks immediately. The destroy handler is queued and runs once in
// the destroy phase of the current update. Calling Destroy again is a no-op.
func (inst *Instance) Destroy() {
	if inst.destroyed {
		return
	}
	inst.destroyed = true
	g := inst.game
	if !inst.destroyPending {
		inst.destroyPending = true
		g.destroyQueue = append(g.destroyQueue, inst.runDestroy)
	}
	inst.unbind()
	if inst.room != nil {
		inst.room.Remove(inst.id)
	}
	g.registry.Remove(inst.id)
}

// bind registers the instance's phase callbacks and queues its create
// handler. Only phases the blueprint handles are registered, except step,
// other and draw which carry built-in behavior. Callbacks stay silent until
// the create handler has run.
func (inst *Instance) bind() {
	g := inst.game
	bp := inst.blueprint
	inst.unbind()

	reg := func(e EventType, fn func()) {
		inst.handles = append(inst.handles, g.register(e, fn, inst))
	}
	if bp != nil {
		if h := bp.handler(EventStepBegin); h != nil {
			reg(EventStepBegin, inst.guard(h))
		}
		inst.stepHandler = bp.handler(EventStep)
	}
	reg(EventStep, inst.step)
	if bp != nil {
		if h := bp.handler(EventStepEnd); h != nil {
			reg(EventStepEnd, inst.guard(h))
		}
		if inst.collisions = bp.collisionBindings(); len(inst.collisions) > 0 {
			reg(EventCollision, inst.collide)
		}
		if h := bp.handler(EventKeyboard); h != nil {
			reg(EventKeyboard, inst.guard(h))
		}
		if h := bp.handler(EventMouse); h != nil {
			reg(EventMouse, inst.guard(h))
		}
		if h := bp.handler(EventAsync); h != nil {
			reg(EventAsync, inst.guard(h))
		}
		inst.drawHandler = bp.handler(EventDraw)
	}
	reg(EventOther, inst.other)
	reg(EventDraw, inst.draw)
	if bp != nil {
		if h := bp.handler(EventDrawGUI); h != nil {
			reg(EventDrawGUI, inst.guard(h))
		}
	}
	g.createQueue = append(g.createQueue, inst.runCreate)
}

// unbind removes every phase callback the instance registered.
func (inst *Instance) unbind() {
	for _, h := range inst.handles {
		h.Remove()
	}
	inst.handles = inst.handles[:0]
}

// live reports whether the instance takes part in phase callbacks: it is
// active and its create handler has run.
func (inst *Instance) live() bool {
	return inst.active && inst.created
}

// guard wraps h so it only runs while the instance is live.
func (inst *Instance) guard(h Handler) func() {
	return func() {
		if inst.live() {
			h(inst)
		}
	}
}

// runCreate runs the create handler once. Instances destroyed before the
// create phase, or left behind by a room change, are skipped.
func (inst *Instance) runCreate() {
	if inst.destroyed || inst.created || inst.room == nil || inst.room != inst.game.room {
		return
	}
	inst.created = true
	if inst.blueprint != nil {
		if h := inst.blueprint.handler(EventCreate); h != nil {
			h(inst)
		}
	}
	inst.game.emit(LifecycleCreated, inst)
}

// runDestroy runs the destroy handler once. An instance brought back by a
// room restart before the destroy phase is skipped.
func (inst *Instance) runDestroy() {
	if !inst.destroyPending || !inst.destroyed {
		return
	}
	inst.destroyPending = false
	if inst.blueprint != nil {
		if h := inst.blueprint.handler(EventDestroy); h != nil {
			h(inst)
		}
	}
	inst.game.emit(LifecycleDestroyed, inst)
}

// step integrates motion and animation, refreshes the bounding box and then
// runs the blueprint's step handler.
func (inst *Instance) step() {
	if !inst.live() {
		return
	}
	inst.XPrevious, inst.YPrevious = inst.X, inst.Y
	inst.animationEnded = false

	if inst.Gravity != 0 {
		gx, gy := lengthDir(inst.Gravity, inst.GravityDirection)
		inst.hspeed += gx
		inst.vspeed += gy
	}
	if inst.Friction > 0 {
		inst.applyFriction()
	}
	inst.syncPolar()

	inst.X += inst.hspeed
	inst.Y += inst.vspeed

	inst.animate()
	UpdateBBox(inst)

	if inst.stepHandler != nil {
		inst.stepHandler(inst)
		if !inst.destroyed {
			UpdateBBox(inst)
		}
	}
}

// applyFriction shrinks the speed by Friction without passing zero and
// without changing direction.
func (inst *Instance) applyFriction() {
	sp := math.Hypot(inst.hspeed, inst.vspeed)
	if sp <= inst.Friction {
		inst.hspeed, inst.vspeed = 0, 0
		return
	}
	k := (sp - inst.Friction) / sp
	inst.hspeed *= k
	inst.vspeed *= k
}

// animate advances FrameIndex by FrameRate, wrapping modulo the frame count.
func (inst *Instance) animate() {
	if inst.Sprite == nil || inst.FrameRate == 0 {
		return
	}
	n := float64(frameCount(inst.Sprite))
	inst.FrameIndex += inst.FrameRate
	if inst.FrameIndex >= n || inst.FrameIndex < 0 {
		inst.FrameIndex = math.Mod(inst.FrameIndex, n)
		if inst.FrameIndex < 0 {
			inst.FrameIndex += n
		}
		inst.animationEnded = true
	}
}

// collide fires the instance's collision handlers against every active
// overlapping instance of each target.
func (inst *Instance) collide() {
	if !inst.live() || inst.room == nil {
		return
	}
	others := inst.room.All()
	for _, cb := range inst.collisions {
		for _, other := range others {
			if inst.destroyed {
				return
			}
			if other == inst || other.destroyed || !other.active || !cb.target.Selects(other) {
				continue
			}
			if inst.bbox.Overlaps(other.bbox) {
				cb.fn(inst, other)
			}
		}
	}
}

// other counts alarms down and fires alarm, animation-end and outside-room
// handlers.
func (inst *Instance) other() {
	if !inst.live() {
		return
	}
	bp := inst.blueprint
	for i := range inst.Alarm {
		if inst.Alarm[i] <= 0 {
			continue
		}
		inst.Alarm[i]--
		if inst.Alarm[i] == 0 {
			inst.Alarm[i] = -1
			if h := bp.alarmHandler(i); h != nil {
				h(inst)
				if inst.destroyed {
					return
				}
			}
		}
	}
	if inst.animationEnded {
		inst.animationEnded = false
		if h := bp.animationEndHandler(); h != nil {
			h(inst)
			if inst.destroyed {
				return
			}
		}
	}
	if inst.room != nil {
		out := !inst.bbox.Overlaps(BBox{Right: inst.room.Width, Bottom: inst.room.Height})
		if out && !inst.outside {
			if h := bp.outsideRoomHandler(); h != nil {
				h(inst)
			}
		}
		inst.outside = out
	}
}

func (inst *Instance) draw() {
	if !inst.live() || !inst.Visible {
		return
	}
	if inst.drawHandler != nil {
		inst.drawHandler(inst)
		return
	}
	inst.DrawSelf()
}

// DrawSelf draws the instance's sprite at its position with its scale,
// rotation, tint and alpha. No-op without a sprite or a sprite drawer.
func (inst *Instance) DrawSelf() {
	if inst.Sprite == nil {
		return
	}
	inst.DrawSpriteExt(inst.Sprite, int(inst.FrameIndex), inst.X, inst.Y,
		inst.ScaleX, inst.ScaleY, inst.Rotation, inst.Tint, inst.Alpha)
}

// DrawSpriteExt forwards to the game's sprite drawer. Frames wrap modulo the
// sprite's frame count.
func (inst *Instance) DrawSpriteExt(spr *Sprite, frame int, x, y, scaleX, scaleY, angle float64, tint Color, alpha float64) {
	draw := inst.game.drawSprite
	if draw == nil || spr == nil {
		return
	}
	n := frameCount(spr)
	frame %= n
	if frame < 0 {
		frame += n
	}
	draw(spr, frame, x, y, scaleX, scaleY, angle, tint, alpha)
}

// reset returns a design-time instance to its start state when its room is
// entered again.
func (inst *Instance) reset() {
	inst.created = false
	inst.destroyed = false
	inst.destroyPending = false
	inst.outside = false
	inst.animationEnded = false
	inst.setStart(inst.XStart, inst.YStart)
}

// release drops a runtime instance left behind in a room being re-entered.
// No destroy handler runs.
func (inst *Instance) release() {
	inst.destroyed = true
	inst.unbind()
	inst.room = nil
	inst.game.registry.Remove(inst.id)
}
