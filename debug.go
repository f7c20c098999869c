package grove

import (
	"time"

	"go.uber.org/zap"
)

// debugStats holds per-frame timing and loop metrics. Timings are only
// populated when debug mode is on; steps, panics and dropped time are always
// counted.
type debugStats struct {
	updateTime   time.Duration
	drawTime     time.Duration
	frameUpdates int
	steps        uint64
	panics       int
	droppedTime  time.Duration
}

// Stats is a snapshot of the loop counters.
type Stats struct {
	Steps       uint64
	Panics      int
	DroppedTime time.Duration
}

// Stats returns the loop counters accumulated since the game was created.
func (g *Game) Stats() Stats {
	return Stats{
		Steps:       g.stats.steps,
		Panics:      g.stats.panics,
		DroppedTime: g.stats.droppedTime,
	}
}

// SetDebugMode enables or disables per-frame debug logging and instance
// count warnings.
func (g *Game) SetDebugMode(enabled bool) {
	g.debug = enabled
}

// debugLog writes the last frame's timing at debug level.
func (g *Game) debugLog() {
	if !g.debug {
		return
	}
	n := 0
	if g.room != nil {
		n = g.room.Count()
	}
	g.log.Debug("frame",
		zap.Duration("update", g.stats.updateTime),
		zap.Duration("draw", g.stats.drawTime),
		zap.Int("updates", g.stats.frameUpdates),
		zap.Int("instances", n),
		zap.Int("step_callbacks", g.CallbackCount(EventStep)),
		zap.Int("draw_callbacks", g.CallbackCount(EventDraw)),
		zap.Duration("dropped", g.stats.droppedTime))
}

// debugMaxInstanceCount is the room population that triggers a warning.
const debugMaxInstanceCount = 10000

// debugCheckInstanceCount warns when a room grows past the threshold. It
// fires once per crossing.
func (g *Game) debugCheckInstanceCount(r *Room) {
	if r.Count() == debugMaxInstanceCount+1 {
		g.log.Warn("room instance count exceeds threshold",
			zap.String("room", r.name),
			zap.Int("count", r.Count()),
			zap.Int("threshold", debugMaxInstanceCount))
	}
}
