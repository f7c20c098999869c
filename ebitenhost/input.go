package ebitenhost

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/phanxgames/grove"
)

// Key converts an Ebitengine key to the core's key code.
func Key(k ebiten.Key) grove.Key { return grove.Key(k) }

var mouseButtons = [...]struct {
	eb ebiten.MouseButton
	gb grove.MouseButton
}{
	{ebiten.MouseButtonLeft, grove.MouseButtonLeft},
	{ebiten.MouseButtonRight, grove.MouseButtonRight},
	{ebiten.MouseButtonMiddle, grove.MouseButtonMiddle},
}

// inputState holds reusable buffers for reading device state.
type inputState struct {
	keys    []ebiten.Key
	touches []ebiten.TouchID
}

// capture feeds this frame's device edges into the game's input managers.
// Edges stay set until the core's next update consumes them.
func (s *inputState) capture(g *grove.Game) {
	kb := g.Keyboard()
	s.keys = inpututil.AppendJustPressedKeys(s.keys[:0])
	for _, k := range s.keys {
		kb.Press(Key(k))
	}
	s.keys = inpututil.AppendJustReleasedKeys(s.keys[:0])
	for _, k := range s.keys {
		kb.Release(Key(k))
	}

	m := g.Mouse()
	mx, my := ebiten.CursorPosition()
	m.Move(float64(mx), float64(my))
	for _, b := range mouseButtons {
		if inpututil.IsMouseButtonJustPressed(b.eb) {
			m.Press(b.gb)
		}
		if inpututil.IsMouseButtonJustReleased(b.eb) {
			m.Release(b.gb)
		}
	}
	if _, dy := ebiten.Wheel(); dy != 0 {
		m.Scroll(dy)
	}

	t := g.Touch()
	s.touches = inpututil.AppendJustPressedTouchIDs(s.touches[:0])
	for _, id := range s.touches {
		x, y := ebiten.TouchPosition(id)
		t.Press(int(id), float64(x), float64(y))
	}
	s.touches = ebiten.AppendTouchIDs(s.touches[:0])
	for _, id := range s.touches {
		x, y := ebiten.TouchPosition(id)
		t.Move(int(id), float64(x), float64(y))
	}
	s.touches = inpututil.AppendJustReleasedTouchIDs(s.touches[:0])
	for _, id := range s.touches {
		t.Release(int(id))
	}
}

// standardGamepads is the GamepadSource for gamepads with a standard
// layout. Gamepads without one are skipped.
func standardGamepads(buf []grove.GamepadState) []grove.GamepadState {
	var ids [8]ebiten.GamepadID
	for _, id := range ebiten.AppendGamepadIDs(ids[:0]) {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		st := grove.GamepadState{ID: int(id)}
		for b := 0; b < grove.GamepadButtonCount; b++ {
			st.Buttons[b] = ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButton(b))
		}
		for a := 0; a < grove.GamepadAxisCount; a++ {
			st.Axes[a] = ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxis(a))
		}
		buf = append(buf, st)
	}
	return buf
}
