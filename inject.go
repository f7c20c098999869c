package grove

type syntheticKind uint8

const (
	injectKeyDown syntheticKind = iota
	injectKeyUp
	injectMouseDown
	injectMouseUp
	injectMouseMove
)

// syntheticInput is a single injected input event. Mouse coordinates are in
// screen space, the same as real pointer input.
type syntheticInput struct {
	kind   syntheticKind
	key    Key
	button MouseButton
	x, y   float64
}

// InjectKeyPress queues a key press. The event is consumed at the start of
// the next update, before any phase runs.
func (g *Game) InjectKeyPress(k Key) {
	g.injectQueue = append(g.injectQueue, syntheticInput{kind: injectKeyDown, key: k})
}

// InjectKeyRelease queues a key release.
func (g *Game) InjectKeyRelease(k Key) {
	g.injectQueue = append(g.injectQueue, syntheticInput{kind: injectKeyUp, key: k})
}

// InjectKeyTap queues a press followed by a release. Consumes two updates.
func (g *Game) InjectKeyTap(k Key) {
	g.InjectKeyPress(k)
	g.InjectKeyRelease(k)
}

// InjectMove queues a pointer move to the given screen coordinates.
func (g *Game) InjectMove(x, y float64) {
	g.injectQueue = append(g.injectQueue, syntheticInput{kind: injectMouseMove, x: x, y: y})
}

// InjectPress queues a left-button press at the given screen coordinates.
func (g *Game) InjectPress(x, y float64) {
	g.injectQueue = append(g.injectQueue, syntheticInput{
		kind: injectMouseDown, button: MouseButtonLeft, x: x, y: y,
	})
}

// InjectRelease queues a left-button release at the given screen coordinates.
func (g *Game) InjectRelease(x, y float64) {
	g.injectQueue = append(g.injectQueue, syntheticInput{
		kind: injectMouseUp, button: MouseButtonLeft, x: x, y: y,
	})
}

// InjectClick is a convenience that queues a press followed by a release
// at the same screen coordinates. Consumes two updates.
func (g *Game) InjectClick(x, y float64) {
	g.InjectPress(x, y)
	g.InjectRelease(x, y)
}

// InjectPending returns the number of queued synthetic events.
func (g *Game) InjectPending() int { return len(g.injectQueue) }

// processInjectedInput pops one event from the inject queue and applies it
// to the input managers. Returns true if an event was consumed.
func (g *Game) processInjectedInput() bool {
	if len(g.injectQueue) == 0 {
		return false
	}
	evt := g.injectQueue[0]
	copy(g.injectQueue, g.injectQueue[1:])
	g.injectQueue = g.injectQueue[:len(g.injectQueue)-1]

	switch evt.kind {
	case injectKeyDown:
		g.keyboard.Press(evt.key)
	case injectKeyUp:
		g.keyboard.Release(evt.key)
	case injectMouseDown:
		g.mouse.Move(evt.x, evt.y)
		g.mouse.Press(evt.button)
	case injectMouseUp:
		g.mouse.Move(evt.x, evt.y)
		g.mouse.Release(evt.button)
	case injectMouseMove:
		g.mouse.Move(evt.x, evt.y)
	}
	return true
}
