package grove

import (
	"time"

	"go.uber.org/zap"
)

// EntityStore is the interface for optional ECS integration. When set on a
// Game, instance lifecycle events are forwarded to it.
type EntityStore interface {
	EmitEvent(event LifecycleEvent)
}

// LifecycleType identifies a kind of lifecycle event.
type LifecycleType uint8

const (
	LifecycleCreated     LifecycleType = iota // create handler ran
	LifecycleDestroyed                        // destroy handler ran
	LifecycleRoomEntered                      // a room became current
)

// LifecycleEvent carries lifecycle data for the ECS bridge.
type LifecycleEvent struct {
	Type       LifecycleType
	InstanceID ID
	Blueprint  string
	X, Y       float64
	RoomID     ID
}

// Game is the runtime context: it owns the registry, the rooms, the event
// tables and deferred queues, and drives the fixed-timestep loop.
//
// A Game is single-threaded. Create one with NewGame, drive it with Tick (or
// Update and Draw directly), and tear it down with Close.
type Game struct {
	cfg      Config
	registry *Registry
	log      *zap.Logger
	store    EntityStore
	debug    bool

	rooms []*Room
	room  *Room

	// Fixed timestep
	last     time.Time
	lag      time.Duration
	stepRate int

	// Dispatch
	updateTable    callbackTable
	drawTable      callbackTable
	nextCallbackID uint32
	createQueue    []func()
	destroyQueue   []func()

	// Renderer hooks
	drawSprite SpriteDrawer
	beginFrame func()
	endFrame   func()
	screenshot func(label string)

	// Input
	keyboard    *Keyboard
	mouse       *Mouse
	touch       *Touch
	gamepads    *Gamepads
	injectQueue []syntheticInput
	testRunner  *TestRunner

	stats debugStats
}

// NewGame creates a game with no rooms. Zero fields in cfg take their values
// from DefaultConfig.
func NewGame(cfg Config) *Game {
	cfg = cfg.withDefaults()
	return &Game{
		cfg:      cfg,
		registry: NewRegistry(),
		log:      zap.NewNop(),
		debug:    cfg.Debug,
		stepRate: cfg.StepRate,
		keyboard: newKeyboard(),
		mouse:    newMouse(),
		touch:    newTouch(),
		gamepads: &Gamepads{},
	}
}

// Close drops every room, callback, queued handler and registered resource.
// The game can be reused afterwards by adding new rooms.
func (g *Game) Close() {
	g.updateTable.clear()
	g.drawTable.clear()
	g.createQueue = nil
	g.destroyQueue = nil
	g.injectQueue = nil
	g.testRunner = nil
	g.rooms = nil
	g.room = nil
	g.registry.clear()
	g.last = time.Time{}
	g.lag = 0
}

// Config returns the configuration the game was created with.
func (g *Game) Config() Config { return g.cfg }

// Registry returns the game's resource registry.
func (g *Game) Registry() *Registry { return g.registry }

// Logger returns the game's logger.
func (g *Game) Logger() *zap.Logger { return g.log }

// SetLogger replaces the logger. nil installs a no-op logger.
func (g *Game) SetLogger(log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	g.log = log
}

// SetEntityStore sets the optional ECS bridge.
func (g *Game) SetEntityStore(store EntityStore) {
	g.store = store
}

// SetSpriteDrawer installs the renderer's sprite drawing function.
func (g *Game) SetSpriteDrawer(fn SpriteDrawer) {
	g.drawSprite = fn
}

// SetFrameHooks installs functions run before and after each Draw. Either
// may be nil.
func (g *Game) SetFrameHooks(begin, end func()) {
	g.beginFrame = begin
	g.endFrame = end
}

// SetScreenshotFunc installs the renderer's frame capture. Screenshot calls
// fn with the requested label.
func (g *Game) SetScreenshotFunc(fn func(label string)) {
	g.screenshot = fn
}

// Screenshot asks the renderer to capture the next drawn frame. Without a
// renderer the request is logged and dropped.
func (g *Game) Screenshot(label string) {
	if g.screenshot == nil {
		g.log.Warn("screenshot: no renderer", zap.String("label", label))
		return
	}
	g.screenshot(label)
}

// Keyboard returns the keyboard edge-state manager.
func (g *Game) Keyboard() *Keyboard { return g.keyboard }

// Mouse returns the mouse edge-state manager.
func (g *Game) Mouse() *Mouse { return g.mouse }

// Touch returns the touch edge-state manager.
func (g *Game) Touch() *Touch { return g.touch }

// Gamepads returns the gamepad state polled once per update.
func (g *Game) Gamepads() *Gamepads { return g.gamepads }

// Room returns the current room, or nil before the first room change.
func (g *Game) Room() *Room { return g.room }

// Rooms returns the rooms in room order. The returned slice MUST NOT be
// mutated.
func (g *Game) Rooms() []*Room { return g.rooms }

// RoomByName returns the first room with the given name, or nil.
func (g *Game) RoomByName(name string) *Room {
	for _, r := range g.rooms {
		if r.name == name {
			return r
		}
	}
	return nil
}

// StepRate returns the current update rate in steps per second.
func (g *Game) StepRate() int { return g.stepRate }

// FrameTime returns the duration of one update at the current step rate.
func (g *Game) FrameTime() time.Duration {
	rate := g.stepRate
	if rate <= 0 {
		rate = DefaultStepRate
	}
	return time.Second / time.Duration(rate)
}

// stepSeconds returns the frame time in seconds for tweens.
func (g *Game) stepSeconds() float32 {
	return float32(g.FrameTime().Seconds())
}

// Tick advances the loop to now: it runs as many fixed-size updates as the
// accumulated time allows, then draws once. It returns the number of updates
// run. The first call only starts the clock.
//
// Ticks spaced n frame times apart run exactly n updates as long as n does
// not exceed Config.MaxCatchUpSteps (8 by default). When MaxCatchUpSteps is
// positive, accumulated time beyond that many updates is dropped and counted
// in Stats().DroppedTime so a long stall cannot snowball. A negative value
// removes the cap.
func (g *Game) Tick(now time.Time) int {
	if g.last.IsZero() {
		g.last = now
	}
	delta := now.Sub(g.last)
	g.last = now
	if delta > 0 {
		g.lag += delta
	}

	if max := g.cfg.MaxCatchUpSteps; max > 0 {
		if limit := g.FrameTime() * time.Duration(max); g.lag > limit {
			g.stats.droppedTime += g.lag - limit
			g.lag = limit
		}
	}

	var t0 time.Time
	if g.debug {
		t0 = time.Now()
	}
	updates := 0
	for frame := g.FrameTime(); g.lag >= frame; frame = g.FrameTime() {
		g.Update()
		g.lag -= frame
		updates++
	}
	if g.debug {
		g.stats.updateTime = time.Since(t0)
		t0 = time.Now()
	}

	g.Draw()

	if g.debug {
		g.stats.drawTime = time.Since(t0)
		g.stats.frameUpdates = updates
		g.debugLog()
	}
	return updates
}

// Update runs one fixed step through every update phase in order.
func (g *Game) Update() {
	g.stats.steps++
	if g.testRunner != nil {
		g.testRunner.step(g)
	}
	g.processInjectedInput()
	g.gamepads.Poll()

	g.runQueue(EventCreate, &g.createQueue)
	g.dispatch(EventCreate)
	g.dispatch(EventStepBegin)
	g.dispatch(EventStep)
	g.dispatch(EventStepEnd)
	if g.room != nil {
		g.room.update(g.stepSeconds())
	}
	g.dispatch(EventCollision)
	g.dispatch(EventKeyboard)
	g.dispatch(EventMouse)
	g.dispatch(EventOther)
	g.dispatch(EventAsync)
	g.runQueue(EventDestroy, &g.destroyQueue)
	g.dispatch(EventDestroy)

	g.keyboard.EndStep()
	g.mouse.EndStep()
	g.touch.EndStep()
}

// Draw runs the frame hooks around the draw and draw-GUI phases.
func (g *Game) Draw() {
	if g.beginFrame != nil {
		g.invoke(EventDraw, g.beginFrame)
	}
	g.dispatch(EventDraw)
	g.dispatch(EventDrawGUI)
	if g.endFrame != nil {
		g.invoke(EventDrawGUI, g.endFrame)
	}
}

// ChangeRoom makes r the current room. Both event tables and the pending
// create queue are cleared so no handler from the previous room fires again,
// the step rate is taken from r, and r's design-time instances are bound and
// queued for creation. Queued destroy handlers still run in this update.
// Persistent instances are not carried over.
//
// The change is immediate. r's instances join the fresh tables at once but
// stay silent until their create handler runs in the next update.
func (g *Game) ChangeRoom(r *Room) {
	if r == nil {
		return
	}
	g.updateTable.clear()
	g.drawTable.clear()
	g.createQueue = nil
	g.room = r
	g.stepRate = r.StepRate
	r.enter()
	if g.store != nil {
		g.store.EmitEvent(LifecycleEvent{Type: LifecycleRoomEntered, RoomID: r.id})
	}
}

// RoomGoto changes to r. A nil room is logged and ignored.
func (g *Game) RoomGoto(r *Room) {
	if r == nil {
		g.log.Error("room_goto: nil room")
		return
	}
	g.ChangeRoom(r)
}

// RoomGotoID resolves id through the registry and changes to that room. An
// id that is unknown or not a room is logged and leaves the current room
// unchanged.
func (g *Game) RoomGotoID(id ID) {
	res, ok := g.registry.Find(id)
	if !ok {
		g.log.Error("room_goto: unknown resource", zap.Uint32("id", uint32(id)))
		return
	}
	r, ok := res.(*Room)
	if !ok {
		g.log.Error("room_goto: resource is not a room",
			zap.Uint32("id", uint32(id)),
			zap.String("name", res.Name()))
		return
	}
	g.ChangeRoom(r)
}

// RoomGotoNext changes to the room after the current one.
func (g *Game) RoomGotoNext() {
	if g.room == nil {
		g.log.Error("room_goto_next: no current room")
		return
	}
	g.RoomGotoID(g.room.NextRoomID)
}

// RoomGotoPrevious changes to the room before the current one.
func (g *Game) RoomGotoPrevious() {
	if g.room == nil {
		g.log.Error("room_goto_previous: no current room")
		return
	}
	g.RoomGotoID(g.room.PrevRoomID)
}

// RoomRestart re-enters the current room. Only its design-time instances
// come back.
func (g *Game) RoomRestart() {
	if g.room == nil {
		return
	}
	g.ChangeRoom(g.room)
}

// emit forwards an instance lifecycle event to the entity store, if any.
func (g *Game) emit(t LifecycleType, inst *Instance) {
	if g.store == nil {
		return
	}
	ev := LifecycleEvent{
		Type:       t,
		InstanceID: inst.id,
		Blueprint:  inst.Name(),
		X:          inst.X,
		Y:          inst.Y,
	}
	if g.room != nil {
		ev.RoomID = g.room.id
	}
	g.store.EmitEvent(ev)
}
