package grove

// Handler is an event callback bound to one instance.
type Handler func(self *Instance)

// CollisionHandler runs once per overlapping pair during the collision phase.
type CollisionHandler func(self, other *Instance)

type collisionBinding struct {
	target *Blueprint
	fn     CollisionHandler
}

// Blueprint is type-level metadata shared by every instance of one entity
// type: default appearance, parent type and event handlers. It carries no
// per-instance state.
//
// Handlers left nil fall back to the nearest ancestor that defines them.
type Blueprint struct {
	id   ID
	name string

	// Parent is the blueprint this one inherits handlers from. May be nil.
	Parent *Blueprint

	// Defaults copied onto each new instance.
	Sprite     *Sprite
	Mask       *Sprite
	Solid      bool
	Visible    bool
	Persistent bool
	Depth      float64

	// Init runs when an instance is constructed, before it joins a room.
	// Use it to attach per-instance UserData.
	Init Handler

	OnCreate       Handler
	OnDestroy      Handler
	OnStepBegin    Handler
	OnStep         Handler
	OnStepEnd      Handler
	OnKeyboard     Handler
	OnMouse        Handler
	OnAsync        Handler
	OnDraw         Handler
	OnDrawGUI      Handler
	OnAnimationEnd Handler
	OnOutsideRoom  Handler

	alarms     [AlarmCount]Handler
	collisions []collisionBinding
}

// NewBlueprint registers a blueprint. parent may be nil.
func (g *Game) NewBlueprint(name string, parent *Blueprint) *Blueprint {
	b := &Blueprint{
		id:      g.registry.AllocID(),
		name:    name,
		Parent:  parent,
		Visible: true,
	}
	g.registry.Register(b)
	return b
}

// ID returns the blueprint's resource id.
func (b *Blueprint) ID() ID { return b.id }

// Name returns the blueprint's display name.
func (b *Blueprint) Name() string { return b.name }

// IsAncestorOf reports whether b appears in other's parent chain. A blueprint
// is not its own ancestor.
func (b *Blueprint) IsAncestorOf(other *Blueprint) bool {
	if b == nil || other == nil {
		return false
	}
	for p := other.Parent; p != nil; p = p.Parent {
		if p == b {
			return true
		}
	}
	return false
}

// Is reports whether b is other or descends from it.
func (b *Blueprint) Is(other *Blueprint) bool {
	if b == nil || other == nil {
		return false
	}
	return b == other || other.IsAncestorOf(b)
}

// Selects reports whether inst was created from b or from a descendant of b.
func (b *Blueprint) Selects(inst *Instance) bool {
	return inst != nil && inst.blueprint.Is(b)
}

// OnAlarm sets the handler fired when alarm slot i reaches zero. Alarm
// handlers are looked up when the alarm fires, so existing instances see it.
func (b *Blueprint) OnAlarm(i int, fn Handler) {
	if i < 0 || i >= AlarmCount {
		return
	}
	b.alarms[i] = fn
}

// OnCollision sets the handler fired for every instance of target (or its
// descendants) overlapping an instance of b during the collision phase.
// Setting a handler for a target that already has one replaces it.
// Collision handlers are resolved when an instance is bound, so instances
// that already exist keep the handlers they were bound with.
func (b *Blueprint) OnCollision(target *Blueprint, fn CollisionHandler) {
	for i := range b.collisions {
		if b.collisions[i].target == target {
			b.collisions[i].fn = fn
			return
		}
	}
	b.collisions = append(b.collisions, collisionBinding{target: target, fn: fn})
}

// handler resolves the handler for e, walking the parent chain.
func (b *Blueprint) handler(e EventType) Handler {
	for p := b; p != nil; p = p.Parent {
		var h Handler
		switch e {
		case EventCreate:
			h = p.OnCreate
		case EventDestroy:
			h = p.OnDestroy
		case EventStepBegin:
			h = p.OnStepBegin
		case EventStep:
			h = p.OnStep
		case EventStepEnd:
			h = p.OnStepEnd
		case EventKeyboard:
			h = p.OnKeyboard
		case EventMouse:
			h = p.OnMouse
		case EventAsync:
			h = p.OnAsync
		case EventDraw:
			h = p.OnDraw
		case EventDrawGUI:
			h = p.OnDrawGUI
		}
		if h != nil {
			return h
		}
	}
	return nil
}

func (b *Blueprint) alarmHandler(i int) Handler {
	for p := b; p != nil; p = p.Parent {
		if h := p.alarms[i]; h != nil {
			return h
		}
	}
	return nil
}

func (b *Blueprint) animationEndHandler() Handler {
	for p := b; p != nil; p = p.Parent {
		if p.OnAnimationEnd != nil {
			return p.OnAnimationEnd
		}
	}
	return nil
}

func (b *Blueprint) outsideRoomHandler() Handler {
	for p := b; p != nil; p = p.Parent {
		if p.OnOutsideRoom != nil {
			return p.OnOutsideRoom
		}
	}
	return nil
}

// collisionBindings returns b's collision handlers merged with inherited
// ones. A descendant's handler for a target hides the ancestor's.
func (b *Blueprint) collisionBindings() []collisionBinding {
	var out []collisionBinding
	for p := b; p != nil; p = p.Parent {
		for _, cb := range p.collisions {
			if cb.fn == nil || hasTarget(out, cb.target) {
				continue
			}
			out = append(out, cb)
		}
	}
	return out
}

func hasTarget(bindings []collisionBinding, target *Blueprint) bool {
	for _, cb := range bindings {
		if cb.target == target {
			return true
		}
	}
	return false
}
