package grove

// Key is a keyboard key code. Hosts map their device codes onto Key values;
// ebitenhost uses ebiten.Key values directly.
type Key int

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle

	mouseButtonCount
)

// maxTouches is the number of touch points tracked at once.
const maxTouches = 10

// --- Keyboard ---

// Keyboard holds key state as reported by the host. Press and Release are
// called by the input collaborator; handlers read the state with Check,
// CheckPressed and CheckReleased. The per-step edge sets are cleared by
// EndStep at the end of every update.
type Keyboard struct {
	down     map[Key]bool
	pressed  map[Key]bool
	released map[Key]bool
	lastKey  Key
	hasLast  bool
}

func newKeyboard() *Keyboard {
	return &Keyboard{
		down:     make(map[Key]bool),
		pressed:  make(map[Key]bool),
		released: make(map[Key]bool),
	}
}

// Press records k going down. Repeated presses while held are ignored.
func (k *Keyboard) Press(key Key) {
	if k.down[key] {
		return
	}
	k.down[key] = true
	k.pressed[key] = true
	k.lastKey = key
	k.hasLast = true
}

// Release records k going up. Releasing a key that is not down is ignored.
func (k *Keyboard) Release(key Key) {
	if !k.down[key] {
		return
	}
	delete(k.down, key)
	k.released[key] = true
}

// Check reports whether key is held.
func (k *Keyboard) Check(key Key) bool { return k.down[key] }

// CheckPressed reports whether key went down during this step.
func (k *Keyboard) CheckPressed(key Key) bool { return k.pressed[key] }

// CheckReleased reports whether key went up during this step.
func (k *Keyboard) CheckReleased(key Key) bool { return k.released[key] }

// AnyKey reports whether any key is held.
func (k *Keyboard) AnyKey() bool { return len(k.down) > 0 }

// LastKey returns the most recently pressed key. ok is false if no key has
// been pressed yet.
func (k *Keyboard) LastKey() (key Key, ok bool) { return k.lastKey, k.hasLast }

// Clear releases every held key without recording releases.
func (k *Keyboard) Clear() {
	clear(k.down)
	clear(k.pressed)
	clear(k.released)
}

// EndStep clears the pressed and released edge sets.
func (k *Keyboard) EndStep() {
	clear(k.pressed)
	clear(k.released)
}

// --- Mouse ---

// Mouse holds the pointer position in screen space and button state.
type Mouse struct {
	X, Y     float64
	down     [mouseButtonCount]bool
	pressed  [mouseButtonCount]bool
	released [mouseButtonCount]bool
	wheel    float64
}

func newMouse() *Mouse { return &Mouse{} }

// Move sets the pointer position.
func (m *Mouse) Move(x, y float64) {
	m.X = x
	m.Y = y
}

// Press records b going down.
func (m *Mouse) Press(b MouseButton) {
	if b >= mouseButtonCount || m.down[b] {
		return
	}
	m.down[b] = true
	m.pressed[b] = true
}

// Release records b going up.
func (m *Mouse) Release(b MouseButton) {
	if b >= mouseButtonCount || !m.down[b] {
		return
	}
	m.down[b] = false
	m.released[b] = true
}

// Scroll accumulates wheel movement for this step.
func (m *Mouse) Scroll(dy float64) { m.wheel += dy }

// Wheel returns the wheel movement accumulated during this step.
func (m *Mouse) Wheel() float64 { return m.wheel }

// Check reports whether b is held.
func (m *Mouse) Check(b MouseButton) bool {
	return b < mouseButtonCount && m.down[b]
}

// CheckPressed reports whether b went down during this step.
func (m *Mouse) CheckPressed(b MouseButton) bool {
	return b < mouseButtonCount && m.pressed[b]
}

// CheckReleased reports whether b went up during this step.
func (m *Mouse) CheckReleased(b MouseButton) bool {
	return b < mouseButtonCount && m.released[b]
}

// EndStep clears the per-step edges and wheel movement.
func (m *Mouse) EndStep() {
	m.pressed = [mouseButtonCount]bool{}
	m.released = [mouseButtonCount]bool{}
	m.wheel = 0
}

// MouseRoomPosition converts the mouse position to room space through the
// first enabled view whose port contains it. Without views the screen
// position is returned unchanged.
func (g *Game) MouseRoomPosition() (x, y float64) {
	x, y = g.mouse.X, g.mouse.Y
	r := g.room
	if r == nil || !r.ViewsEnabled {
		return x, y
	}
	for i := range r.Views {
		v := &r.Views[i]
		if v.Enabled && v.ContainsScreen(x, y) {
			return v.ScreenToRoom(x, y)
		}
	}
	return x, y
}

// --- Touch ---

type touchPoint struct {
	id       int
	x, y     float64
	down     bool
	pressed  bool
	released bool
}

// Touch tracks up to ten touch points by host-assigned id.
type Touch struct {
	points [maxTouches]touchPoint
}

func newTouch() *Touch { return &Touch{} }

func (t *Touch) slot(id int) int {
	for i := range t.points {
		p := &t.points[i]
		if (p.down || p.released) && p.id == id {
			return i
		}
	}
	return -1
}

// Press records touch id going down at (x, y). Touches beyond the tenth are
// ignored.
func (t *Touch) Press(id int, x, y float64) {
	if i := t.slot(id); i >= 0 && t.points[i].down {
		t.Move(id, x, y)
		return
	}
	for i := range t.points {
		p := &t.points[i]
		if !p.down && !p.released {
			*p = touchPoint{id: id, x: x, y: y, down: true, pressed: true}
			return
		}
	}
}

// Move updates the position of a held touch.
func (t *Touch) Move(id int, x, y float64) {
	if i := t.slot(id); i >= 0 {
		t.points[i].x = x
		t.points[i].y = y
	}
}

// Release records touch id going up.
func (t *Touch) Release(id int) {
	if i := t.slot(id); i >= 0 && t.points[i].down {
		t.points[i].down = false
		t.points[i].released = true
	}
}

// Check reports whether touch id is held.
func (t *Touch) Check(id int) bool {
	i := t.slot(id)
	return i >= 0 && t.points[i].down
}

// CheckPressed reports whether touch id went down during this step.
func (t *Touch) CheckPressed(id int) bool {
	i := t.slot(id)
	return i >= 0 && t.points[i].pressed
}

// CheckReleased reports whether touch id went up during this step.
func (t *Touch) CheckReleased(id int) bool {
	i := t.slot(id)
	return i >= 0 && t.points[i].released
}

// Position returns the last known position of touch id.
func (t *Touch) Position(id int) (x, y float64, ok bool) {
	i := t.slot(id)
	if i < 0 {
		return 0, 0, false
	}
	return t.points[i].x, t.points[i].y, true
}

// IDs appends the ids of held touches to buf and returns it.
func (t *Touch) IDs(buf []int) []int {
	for i := range t.points {
		if t.points[i].down {
			buf = append(buf, t.points[i].id)
		}
	}
	return buf
}

// EndStep clears per-step edges and frees the slots of released touches.
func (t *Touch) EndStep() {
	for i := range t.points {
		p := &t.points[i]
		p.pressed = false
		if p.released {
			*p = touchPoint{}
		}
	}
}

// --- Gamepads ---

// GamepadButtonCount is the number of buttons tracked per gamepad.
const GamepadButtonCount = 16

// GamepadAxisCount is the number of axes tracked per gamepad.
const GamepadAxisCount = 4

// GamepadState is one gamepad's state as reported by a GamepadSource.
type GamepadState struct {
	ID      int
	Buttons [GamepadButtonCount]bool
	Axes    [GamepadAxisCount]float64
}

// GamepadSource appends the state of every connected gamepad to buf and
// returns it. It is called once per update.
type GamepadSource func(buf []GamepadState) []GamepadState

// Gamepads holds the gamepad state for the current step. Without a source
// no gamepads are connected.
type Gamepads struct {
	source GamepadSource
	cur    []GamepadState
	prev   []GamepadState
}

// SetSource installs the function polled for gamepad state.
func (p *Gamepads) SetSource(src GamepadSource) { p.source = src }

// Poll reads the current state from the source, keeping the previous step's
// state for edge detection.
func (p *Gamepads) Poll() {
	p.prev, p.cur = p.cur, p.prev[:0]
	if p.source != nil {
		p.cur = p.source(p.cur)
	}
}

func findGamepad(states []GamepadState, id int) *GamepadState {
	for i := range states {
		if states[i].ID == id {
			return &states[i]
		}
	}
	return nil
}

// Connected reports whether gamepad id was present at the last poll.
func (p *Gamepads) Connected(id int) bool { return findGamepad(p.cur, id) != nil }

// Count returns the number of connected gamepads.
func (p *Gamepads) Count() int { return len(p.cur) }

// Button reports whether button b of gamepad id is held.
func (p *Gamepads) Button(id, b int) bool {
	s := findGamepad(p.cur, id)
	return s != nil && b >= 0 && b < GamepadButtonCount && s.Buttons[b]
}

// ButtonPressed reports whether button b of gamepad id went down since the
// previous poll.
func (p *Gamepads) ButtonPressed(id, b int) bool {
	if !p.Button(id, b) {
		return false
	}
	prev := findGamepad(p.prev, id)
	return prev == nil || !prev.Buttons[b]
}

// ButtonReleased reports whether button b of gamepad id went up since the
// previous poll.
func (p *Gamepads) ButtonReleased(id, b int) bool {
	if b < 0 || b >= GamepadButtonCount {
		return false
	}
	prev := findGamepad(p.prev, id)
	return prev != nil && prev.Buttons[b] && !p.Button(id, b)
}

// Axis returns axis a of gamepad id, or 0.
func (p *Gamepads) Axis(id, a int) float64 {
	s := findGamepad(p.cur, id)
	if s == nil || a < 0 || a >= GamepadAxisCount {
		return 0
	}
	return s.Axes[a]
}
