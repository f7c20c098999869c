package grove

// MaxViews is the number of view slots per room.
const MaxViews = 8

// MaxBackgrounds is the number of background layer slots per room.
const MaxBackgrounds = 8

// Background is one background layer of a room.
type Background struct {
	Sprite         *Sprite
	Visible        bool
	Foreground     bool
	X, Y           float64
	HSpeed, VSpeed float64
	HTiled, VTiled bool
	Alpha          float64
	Blend          Color
}

// Room is a level container. It owns the live instance set and the
// design-time layout: placed instances, tiles, backgrounds and views.
type Room struct {
	id   ID
	name string
	game *Game

	Width, Height float64
	// StepRate is the update rate in steps per second while this room is
	// current.
	StepRate int
	// Persistent is recorded but rooms are always rebuilt on entry.
	Persistent bool

	PrevRoomID ID
	NextRoomID ID

	Backgrounds  [MaxBackgrounds]Background
	Views        [MaxViews]View
	ViewsEnabled bool

	instances map[ID]*Instance
	order     []*Instance
	placed    []*Instance
	tiles     []*Tile
}

// NewRoom registers a room and appends it to the room order, linking it after
// the previously added room.
func (g *Game) NewRoom(name string, width, height float64) *Room {
	r := &Room{
		id:        g.registry.AllocID(),
		name:      name,
		game:      g,
		Width:     width,
		Height:    height,
		StepRate:  g.cfg.StepRate,
		instances: make(map[ID]*Instance, 64),
	}
	for i := range r.Views {
		r.Views[i] = newView(width, height)
	}
	for i := range r.Backgrounds {
		r.Backgrounds[i] = Background{Alpha: 1, Blend: ColorWhite}
	}
	if n := len(g.rooms); n > 0 {
		last := g.rooms[n-1]
		last.NextRoomID = r.id
		r.PrevRoomID = last.id
	}
	g.rooms = append(g.rooms, r)
	g.registry.Register(r)
	return r
}

// ID returns the room's resource id.
func (r *Room) ID() ID { return r.id }

// Name returns the room's display name.
func (r *Room) Name() string { return r.name }

// Add puts inst into the room's live set, taking it out of any other room.
func (r *Room) Add(inst *Instance) {
	if inst == nil {
		return
	}
	if inst.room != nil && inst.room != r {
		inst.room.Remove(inst.id)
	}
	if _, ok := r.instances[inst.id]; ok {
		return
	}
	r.instances[inst.id] = inst
	r.order = append(r.order, inst)
	inst.room = r
	if r.game != nil && r.game.debug {
		r.game.debugCheckInstanceCount(r)
	}
}

// Remove takes the instance with the given id out of the live set. Unknown
// ids are ignored.
func (r *Room) Remove(id ID) {
	inst, ok := r.instances[id]
	if !ok {
		return
	}
	delete(r.instances, id)
	for i, c := range r.order {
		if c == inst {
			copy(r.order[i:], r.order[i+1:])
			r.order[len(r.order)-1] = nil
			r.order = r.order[:len(r.order)-1]
			break
		}
	}
	inst.room = nil
}

// Get returns the live instance with the given id, or nil.
func (r *Room) Get(id ID) *Instance {
	return r.instances[id]
}

// All returns a snapshot of the live instances in insertion order. The
// snapshot is safe to iterate while instances are created or destroyed.
func (r *Room) All() []*Instance {
	out := make([]*Instance, len(r.order))
	copy(out, r.order)
	return out
}

// Count returns the number of live instances.
func (r *Room) Count() int {
	return len(r.order)
}

// Place adds inst to the room's design-time layout at (x, y), which also
// becomes its start position, and to the live set.
func (r *Room) Place(x, y float64, inst *Instance) {
	if inst == nil {
		return
	}
	inst.setStart(x, y)
	r.placed = append(r.placed, inst)
	r.Add(inst)
}

// Placed returns the design-time instances in placement order.
func (r *Room) Placed() []*Instance {
	out := make([]*Instance, len(r.placed))
	copy(out, r.placed)
	return out
}

// enter rebuilds the live set from the design-time layout: runtime
// instances left from an earlier visit are released, placed instances are
// reset to their start positions, registered again and bound to the game.
func (r *Room) enter() {
	g := r.game
	for _, inst := range r.order {
		if !r.isPlaced(inst) {
			inst.release()
		}
	}
	r.instances = make(map[ID]*Instance, len(r.placed))
	r.order = r.order[:0]
	for _, inst := range r.placed {
		if inst.room != nil && inst.room != r {
			// Moved to another room at runtime; it no longer belongs here.
			continue
		}
		inst.reset()
		g.registry.Register(inst)
		r.Add(inst)
		inst.bind()
	}
}

func (r *Room) isPlaced(inst *Instance) bool {
	for _, p := range r.placed {
		if p == inst {
			return true
		}
	}
	return false
}

// update advances background scrolling and views by one step of dt seconds.
func (r *Room) update(dt float32) {
	for i := range r.Backgrounds {
		bg := &r.Backgrounds[i]
		bg.X += bg.HSpeed
		bg.Y += bg.VSpeed
	}
	if !r.ViewsEnabled {
		return
	}
	for i := range r.Views {
		v := &r.Views[i]
		if !v.Enabled {
			continue
		}
		v.update(r, dt)
	}
}
