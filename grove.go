package grove

import "math"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// Vec2 is a 2D vector used for positions and offsets.
type Vec2 struct {
	X, Y float64
}

// EventType identifies a dispatch phase. Update phases run in declaration
// order inside Game.Update; EventDraw and EventDrawGUI run inside Game.Draw.
type EventType uint8

const (
	EventCreate    EventType = iota // one-shot, drained from the create queue
	EventStepBegin                  // before integration
	EventStep                       // integration, then the user step handler
	EventStepEnd                    // after every instance has stepped
	EventCollision                  // per-blueprint collision handlers
	EventKeyboard                   // keyboard handlers
	EventMouse                      // mouse handlers
	EventOther                      // alarms, animation end, outside room
	EventAsync                      // async results delivered by the host
	EventDestroy                    // one-shot, drained from the destroy queue
	EventDraw                       // world-space drawing
	EventDrawGUI                    // screen-space drawing

	eventTypeCount
)

var eventNames = [eventTypeCount]string{
	"create", "step_begin", "step", "step_end", "collision", "keyboard",
	"mouse", "other", "async", "destroy", "draw", "draw_gui",
}

// String returns the lower-case phase name.
func (e EventType) String() string {
	if e < eventTypeCount {
		return eventNames[e]
	}
	return "unknown"
}

// isDraw reports whether the event belongs to the draw table.
func (e EventType) isDraw() bool {
	return e == EventDraw || e == EventDrawGUI
}

// AlarmCount is the number of alarm slots on every instance.
const AlarmCount = 12

// wrapDegrees normalizes an angle in degrees into [0, 360).
func wrapDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	if d >= 360 {
		d = 0
	}
	return d
}

// lengthDir returns the x and y components of a vector of length l pointing
// at dir degrees. 0 is +x and angles grow counter-clockwise on a y-down
// screen, so the y component is negated.
func lengthDir(l, dir float64) (float64, float64) {
	rad := dir * math.Pi / 180
	return l * math.Cos(rad), -l * math.Sin(rad)
}

// PointDirection returns the direction in degrees from (x1, y1) to (x2, y2).
func PointDirection(x1, y1, x2, y2 float64) float64 {
	return wrapDegrees(math.Atan2(-(y2-y1), x2-x1) * 180 / math.Pi)
}

// PointDistance returns the Euclidean distance between two points.
func PointDistance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}
