package grove

import (
	"encoding/json"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action string  `json:"action"`
	Key    Key     `json:"key,omitempty"`
	Room   string  `json:"room,omitempty"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// TestRunner sequences injected input and room changes across updates for
// automated playthroughs. Attach to a Game via SetTestRunner.
//
// Supported actions: "press", "release" and "tap" (key), "move" and "click"
// (x, y in screen space), "wait" (frames), "goto" (room by name) and
// "screenshot" (label).
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached to a Game via SetTestRunner.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, errors.Wrap(err, "parse test script")
	}
	if len(script.Steps) == 0 {
		return nil, errors.New("parse test script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "press", "release", "tap", "move", "click", "wait", "goto", "screenshot":
		default:
			return nil, errors.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a TestRunner to the game. The runner's step method
// is called at the start of every update, before injected input is applied.
func (g *Game) SetTestRunner(runner *TestRunner) {
	g.testRunner = runner
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the test runner by one update.
func (r *TestRunner) step(g *Game) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(g.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "press":
		g.InjectKeyPress(st.Key)
	case "release":
		g.InjectKeyRelease(st.Key)
	case "tap":
		g.InjectKeyTap(st.Key)
	case "move":
		g.InjectMove(st.X, st.Y)
	case "click":
		g.InjectClick(st.X, st.Y)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this update counts as one
		}
	case "goto":
		if room := g.RoomByName(st.Room); room != nil {
			g.ChangeRoom(room)
		} else {
			g.log.Error("test script: unknown room", zap.String("room", st.Room))
		}
	case "screenshot":
		g.Screenshot(st.Label)
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(g.injectQueue) == 0 {
		r.done = true
	}
}
